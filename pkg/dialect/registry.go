package dialect

import (
	"regexp"

	"github.com/leapstack-labs/leapodbc/pkg/core"
)

type definition struct {
	name       string
	migrations string
}

// definitions holds the static properties of each variant.
var definitions = map[Kind]definition{
	Generic:  {name: "Generic ODBC"},
	Postgres: {name: "PostgreSQL", migrations: "postgres"},
	MySQL:    {name: "MySQL", migrations: "mysql"},
	SQLite:   {name: "SQLite", migrations: "sqlite3"},
	DuckDB:   {name: "DuckDB"},
}

type entry struct {
	pattern *regexp.Regexp
	kind    Kind
}

// registry is matched in order against the vendor name; the first match wins.
var registry = []entry{
	{regexp.MustCompile(`(?i)postgres`), Postgres},
	{regexp.MustCompile(`(?i)mysql|mariadb`), MySQL},
	{regexp.MustCompile(`(?i)sqlite`), SQLite},
	{regexp.MustCompile(`(?i)duckdb`), DuckDB},
}

// Match returns the kind registered for a vendor name, Generic if none matches.
func Match(dbmsName string) Kind {
	for _, e := range registry {
		if e.pattern.MatchString(dbmsName) {
			return e.kind
		}
	}
	return Generic
}

// Select picks the variant for the vendor named in caps.
func Select(caps core.Capabilities) Variant {
	return New(Match(caps.DBMSName), caps)
}

// List returns the kinds with a dedicated variant, in match order.
func List() []Kind {
	kinds := make([]Kind, len(registry))
	for i, e := range registry {
		kinds[i] = e.kind
	}
	return kinds
}
