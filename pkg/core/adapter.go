package core

import (
	"context"
)

// Adapter defines the contract the relational data layer consumes.
type Adapter interface {
	// Connect establishes a session using the provided configuration.
	Connect(ctx context.Context, cfg Config) error

	// Close disconnects the session and releases the native handle.
	Close() error

	// Execute runs a statement and returns the number of affected rows.
	Execute(ctx context.Context, sql string, binds ...any) (int64, error)

	// Query runs a statement and returns its canonical result set.
	Query(ctx context.Context, sql string, binds ...any) (*ResultSet, error)

	// Begin turns off auto-commit.
	Begin() error

	// Commit commits the transaction and turns auto-commit back on.
	Commit() error

	// Rollback rolls the transaction back and turns auto-commit back on.
	Rollback() error

	// Capabilities returns the record introspected for the current session.
	Capabilities() Capabilities
}
