package sqlbridge

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register(&Profile{
		Name:           "duckdb",
		DBMSName:       "DuckDB",
		Driver:         "duckdb",
		Matches:        regexp.MustCompile(`(?i)duckdb`),
		IdentifierCase: odbc.ICMixed,
		QuoteChar:      `"`,
		VersionQuery:   "SELECT version()",
		DatabaseQuery:  "SELECT current_database()",
		DSN:            buildDuckDBDSN,
	})
}

// duckdbReserved are attributes that do not become DuckDB settings.
var duckdbReserved = map[string]bool{
	"DRIVER": true, "DSN": true, "DATABASE": true, "DBQ": true, "PATH": true,
	"UID": true, "PWD": true, "USER": true, "PASSWORD": true,
}

// buildDuckDBDSN returns the database path. An empty path opens an in-memory
// database. Other attributes are passed as session settings, e.g. THREADS=4.
func buildDuckDBDSN(attrs *odbc.Attributes) (string, error) {
	path := lookup(attrs, ":memory:", "DATABASE", "DBQ", "PATH")
	if path == ":memory:" {
		path = ""
	}

	settings := url.Values{}
	for _, k := range attrs.Keys() {
		if duckdbReserved[strings.ToUpper(k)] {
			continue
		}
		v, _ := attrs.Get(k)
		settings.Set(strings.ToLower(k), v)
	}
	if len(settings) == 0 {
		return path, nil
	}
	return path + "?" + settings.Encode(), nil
}
