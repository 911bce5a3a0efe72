// Package odbc defines the call-level connectivity contract consumed by leapodbc.
//
// The contract mirrors the handle-based ODBC primitives: connect to a named data
// source or driver-connect with an attribute mapping, query driver info, execute
// statements and fetch tabular results, and control auto-commit. Concrete
// environments live in sub-packages (see sqlbridge) and tests use odbctest.
//
// A Conn is owned by exactly one caller. Implementations are not required to be
// safe for concurrent use.
package odbc

import (
	"context"
	"strings"
)

// Environment is the entry point of a native connectivity layer.
type Environment interface {
	// Connect opens a session against a named data source. A nil username or
	// password means the value was not supplied.
	Connect(ctx context.Context, source string, username, password *string) (Conn, error)

	// DriverConnect opens a session from a driver description and its attributes.
	DriverConnect(ctx context.Context, drv *Driver) (Conn, error)
}

// Conn is a live native session handle.
type Conn interface {
	// Connected reports whether the handle is still open.
	Connected() bool

	// Disconnect closes the handle.
	Disconnect() error

	// GetInfo returns the driver's answer for one info type. String-valued
	// info types return string, numeric ones return an integer type.
	GetInfo(ctx context.Context, info InfoType) (any, error)

	// Do executes a statement and returns the number of affected rows.
	Do(ctx context.Context, sql string, args ...any) (int64, error)

	// Run executes a statement that produces a result set.
	Run(ctx context.Context, sql string, args ...any) (Stmt, error)

	// SetAutocommit switches auto-commit mode.
	SetAutocommit(on bool) error

	// Autocommit reports the current auto-commit mode.
	Autocommit() bool

	// Commit ends the current transaction, making its changes permanent.
	Commit() error

	// Rollback ends the current transaction, discarding its changes.
	Rollback() error
}

// Stmt is an executed statement with a pending result set.
type Stmt interface {
	// Columns describes the result columns in result order.
	Columns() []ColumnInfo

	// FetchAll reads every remaining row. Cells are the driver's raw values.
	FetchAll() ([][]any, error)

	// Drop releases the statement handle.
	Drop() error
}

// ColumnInfo is the driver's description of one result column.
type ColumnInfo struct {
	Name      string
	Type      SQLType
	Precision int
	Scale     int
	Nullable  Nullable
	// IsNullable is the free-text nullability reported by catalog functions
	// ("YES", "NO" or empty when unknown).
	IsNullable string
}

// Driver describes a driver-connect request.
type Driver struct {
	Name  string
	Attrs *Attributes
}

// Attributes is an insertion-ordered key/value mapping.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes returns an empty attribute mapping.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set assigns a value. A repeated key keeps its first position and takes the last value.
func (a *Attributes) Set(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Lookup returns the value of the first key matching one of names, ignoring case.
func (a *Attributes) Lookup(names ...string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, name := range names {
		for _, k := range a.keys {
			if strings.EqualFold(k, name) {
				return a.values[k], true
			}
		}
	}
	return "", false
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Map returns a copy of the attributes as a plain map.
func (a *Attributes) Map() map[string]string {
	out := make(map[string]string, a.Len())
	if a == nil {
		return out
	}
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (a *Attributes) Clone() *Attributes {
	c := NewAttributes()
	for _, k := range a.Keys() {
		c.Set(k, a.values[k])
	}
	return c
}
