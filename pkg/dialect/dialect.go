// Package dialect selects the behavior specific to a backing DBMS.
//
// A Variant is chosen once per session from the introspected vendor name and
// carries the feature flags and identifier conventions used by the statement
// executor. The set of variants is closed; unknown vendors get the generic
// variant, which inlines bind values and quotes conservatively.
package dialect

import "github.com/leapstack-labs/leapodbc/pkg/core"

// Kind names an adapter variant.
type Kind int

const (
	// Generic is the fallback for DBMSs without a dedicated variant.
	Generic Kind = iota
	// Postgres is PostgreSQL and wire-compatible servers.
	Postgres
	// MySQL is MySQL and MariaDB.
	MySQL
	// SQLite is SQLite.
	SQLite
	// DuckDB is DuckDB.
	DuckDB
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	case DuckDB:
		return "duckdb"
	default:
		return "unknown"
	}
}

// Variant is the dialect-specific behavior bound to one session's capabilities.
type Variant interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Name returns a human-readable variant name.
	Name() string

	// PreparedStatements reports whether bind values are passed to the driver
	// instead of being inlined into the SQL text.
	PreparedStatements() bool

	// SupportsMigrations reports whether schema migrations may be run.
	SupportsMigrations() bool

	// MigrationDialect returns the goose dialect name, empty when migrations
	// are unsupported.
	MigrationDialect() string

	// QuoteChar returns the identifier quote character in use.
	QuoteChar() string

	// UpcaseIdentifiers reports whether quoting follows the upcase convention.
	UpcaseIdentifiers() bool

	// QuoteIdentifier quotes a column or table name for use in SQL text.
	QuoteIdentifier(name string) string

	// Capabilities returns the record the variant was selected from.
	Capabilities() core.Capabilities
}

// variant is the shared implementation behind every Kind.
type variant struct {
	kind       Kind
	name       string
	prepared   bool
	migrations string
	quoteChar  string
	upcase     bool
	caps       core.Capabilities
}

var _ Variant = (*variant)(nil)

func (v *variant) Kind() Kind                      { return v.kind }
func (v *variant) Name() string                    { return v.name }
func (v *variant) PreparedStatements() bool        { return v.prepared }
func (v *variant) SupportsMigrations() bool        { return v.migrations != "" }
func (v *variant) MigrationDialect() string        { return v.migrations }
func (v *variant) QuoteChar() string               { return v.quoteChar }
func (v *variant) UpcaseIdentifiers() bool         { return v.upcase }
func (v *variant) Capabilities() core.Capabilities { return v.caps }

func (v *variant) QuoteIdentifier(name string) string {
	return QuoteIdentifier(name, v.quoteChar, v.upcase)
}

// New returns the variant of the given kind bound to caps.
//
// Dedicated variants take their quote character and case convention from the
// capability record. The generic variant always quotes with '"' under the
// upcase convention.
func New(kind Kind, caps core.Capabilities) Variant {
	def := definitions[kind]
	v := &variant{
		kind:       kind,
		name:       def.name,
		prepared:   true,
		migrations: def.migrations,
		quoteChar:  caps.IdentifierQuoteChar,
		upcase:     caps.UpcaseIdentifiers(),
		caps:       caps,
	}

	if kind == Generic {
		v.prepared = false
		v.quoteChar = `"`
		v.upcase = true
	}
	return v
}
