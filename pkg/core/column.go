package core

import "github.com/leapstack-labs/leapodbc/pkg/odbc"

// Nullability is the three-valued nullability of a result column.
type Nullability int

const (
	// NotNull means the column never holds NULL.
	NotNull Nullability = iota
	// Nullable means the column may hold NULL.
	Nullable
	// UnknownTreatedAsNullable means the driver could not tell; callers treat it as nullable.
	UnknownTreatedAsNullable
)

// String returns the string representation of Nullability.
func (n Nullability) String() string {
	switch n {
	case NotNull:
		return "not null"
	case Nullable:
		return "nullable"
	default:
		return "unknown (nullable)"
	}
}

// AllowsNull reports whether NULL values must be expected.
func (n Nullability) AllowsNull() bool {
	return n != NotNull
}

// Column describes a column of a canonical result set.
type Column struct {
	Name        string
	Type        odbc.SQLType
	Scale       int
	Nullability Nullability
}

// ResultSet is an ordered set of columns and rows of canonical values.
// Rows keep the order in which the driver fetched them.
type ResultSet struct {
	Columns []Column
	Rows    [][]Value
}

// ColumnNames returns the column names in result order.
func (r *ResultSet) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	return len(r.Rows)
}
