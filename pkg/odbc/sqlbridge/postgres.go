package sqlbridge

import (
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for attribute connections
	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	_ "github.com/lib/pq" // postgres driver for URL sources
)

func init() {
	Register(&Profile{
		Name:             "postgres",
		DBMSName:         "PostgreSQL",
		Driver:           "pgx",
		URLDriver:        "postgres",
		Matches:          regexp.MustCompile(`(?i)postgres|psql`),
		IdentifierCase:   odbc.ICLower,
		QuoteChar:        `"`,
		MaxIdentifierLen: 63,
		MaxTableNameLen:  63,
		VersionQuery:     "SHOW server_version",
		UserQuery:        "SELECT current_user",
		DatabaseQuery:    "SELECT current_database()",
		DSN:              buildPostgresDSN,

		BindType: sqlx.BindType("postgres"),
	})
}

// buildPostgresDSN constructs a key=value PostgreSQL connection string.
func buildPostgresDSN(attrs *odbc.Attributes) (string, error) {
	host := lookup(attrs, "localhost", "SERVER", "HOST", "SERVERNAME")
	port := lookup(attrs, "5432", "PORT")
	sslmode := lookup(attrs, "disable", "SSLMODE")

	parts := []string{
		"host=" + pgQuote(host),
		"port=" + pgQuote(port),
	}
	if db := lookup(attrs, "", "DATABASE", "DB", "DBNAME"); db != "" {
		parts = append(parts, "dbname="+pgQuote(db))
	}
	parts = append(parts, "sslmode="+pgQuote(sslmode))
	if user := lookup(attrs, "", "UID", "USER", "USERNAME"); user != "" {
		parts = append(parts, "user="+pgQuote(user))
	}
	if pass := lookup(attrs, "", "PWD", "PASSWORD"); pass != "" {
		parts = append(parts, "password="+pgQuote(pass))
	}
	return strings.Join(parts, " "), nil
}

var pgEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func pgQuote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + pgEscaper.Replace(v) + "'"
}

func lookup(attrs *odbc.Attributes, def string, names ...string) string {
	if v, ok := attrs.Lookup(names...); ok && v != "" {
		return v
	}
	return def
}
