package sqlbridge

import (
	"net/url"
	"regexp"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"

	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	Register(&Profile{
		Name:           "sqlite",
		DBMSName:       "SQLite",
		Driver:         "sqlite",
		Matches:        regexp.MustCompile(`(?i)sqlite`),
		IdentifierCase: odbc.ICMixed,
		QuoteChar:      `"`,
		VersionQuery:   "SELECT sqlite_version()",
		Database:       "main",
		UntypedColumn:  odbc.SQLVarchar,
		DSN:            buildSQLiteDSN,
	})
}

// buildSQLiteDSN returns the database path. TIMEOUT sets the busy timeout in
// milliseconds.
func buildSQLiteDSN(attrs *odbc.Attributes) (string, error) {
	path := lookup(attrs, ":memory:", "DATABASE", "DBQ", "PATH")
	if timeout := lookup(attrs, "", "TIMEOUT"); timeout != "" {
		q := url.Values{}
		q.Add("_pragma", "busy_timeout("+timeout+")")
		return "file:" + path + "?" + q.Encode(), nil
	}
	return path, nil
}
