// Package adapter runs statements against a native session and returns
// canonical result sets.
//
// An Adapter owns exactly one native session. Connecting establishes the
// session, introspects the capability record and selects the dialect variant
// once; the variant then decides how binds are passed and how identifiers are
// quoted. Adapters are not safe for concurrent use.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapodbc/pkg/connection"
	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/dbms"
	"github.com/leapstack-labs/leapodbc/pkg/dialect"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// Name is the human-readable adapter name.
const Name = "ODBC"

// ErrNotConnected is returned when an operation needs a session and there is none.
var ErrNotConnected = errors.New("database connection not established")

// Adapter is a session-scoped statement executor.
type Adapter struct {
	env      odbc.Environment
	conn     odbc.Conn
	resolved core.ResolvedConfig
	caps     core.Capabilities
	variant  dialect.Variant
	logger   *slog.Logger
}

var _ core.Adapter = (*Adapter)(nil)

// New creates an unconnected adapter over env.
// If logger is nil, a discard logger is used.
func New(env odbc.Environment, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{env: env, logger: logger}
}

// Connect creates an adapter and connects it with cfg.
func Connect(ctx context.Context, env odbc.Environment, cfg core.Config, logger *slog.Logger) (*Adapter, error) {
	a := New(env, logger)
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Connect establishes the session, introspects it and selects the variant.
// An existing session is disconnected first.
func (a *Adapter) Connect(ctx context.Context, cfg core.Config) error {
	if a.env == nil {
		return fmt.Errorf("native environment not configured")
	}
	if err := a.Disconnect(); err != nil {
		return err
	}

	conn, resolved, err := connection.Establish(ctx, a.env, cfg)
	if err != nil {
		return err
	}
	return a.attach(ctx, conn, resolved)
}

// Reconnect disconnects and opens a new session from the resolved
// configuration of the last successful Connect. The capability record and
// variant are refreshed.
func (a *Adapter) Reconnect(ctx context.Context) error {
	if a.resolved.SourceName == "" && a.resolved.Driver == nil {
		return ErrNotConnected
	}
	if err := a.Disconnect(); err != nil {
		return err
	}

	conn, err := connection.Reconnect(ctx, a.env, a.resolved)
	if err != nil {
		return err
	}
	return a.attach(ctx, conn, a.resolved)
}

func (a *Adapter) attach(ctx context.Context, conn odbc.Conn, resolved core.ResolvedConfig) error {
	caps, err := dbms.Introspect(ctx, conn)
	if err != nil {
		_ = conn.Disconnect()
		return fmt.Errorf("failed to introspect database: %w", err)
	}

	a.conn = conn
	a.resolved = resolved
	a.caps = caps
	a.variant = dialect.Select(caps)

	a.logger.Debug("connected",
		slog.String("dbms", caps.DBMSName),
		slog.String("version", caps.DBMSVersion),
		slog.String("variant", a.variant.Kind().String()),
		slog.Bool("prepared_statements", a.variant.PreparedStatements()))
	return nil
}

// Active reports whether the session is still open.
func (a *Adapter) Active() bool {
	return a.conn != nil && a.conn.Connected()
}

// Disconnect closes the session. It does nothing when no session is open.
func (a *Adapter) Disconnect() error {
	if !a.Active() {
		return nil
	}
	a.logger.Debug("closing database connection")
	if err := a.conn.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// Close implements core.Adapter.
func (a *Adapter) Close() error {
	return a.Disconnect()
}

// Capabilities returns the capability record of the current session.
func (a *Adapter) Capabilities() core.Capabilities {
	return a.caps
}

// Variant returns the selected dialect variant, nil before Connect.
func (a *Adapter) Variant() dialect.Variant {
	return a.variant
}

// ResolvedConfig returns the configuration the current session was opened with.
func (a *Adapter) ResolvedConfig() core.ResolvedConfig {
	return a.resolved
}

// Session returns the native session handle.
func (a *Adapter) Session() (odbc.Conn, error) {
	if !a.Active() {
		return nil, ErrNotConnected
	}
	return a.conn, nil
}

// AdapterName returns the human-readable adapter name.
func (a *Adapter) AdapterName() string {
	return Name
}

// DefaultSequenceName returns the sequence name used for tables without an
// auto-increment column type.
func (a *Adapter) DefaultSequenceName(table, _ string) string {
	return table + "_seq"
}

// Begin turns auto-commit off. Transactions do not nest.
func (a *Adapter) Begin() error {
	conn, err := a.Session()
	if err != nil {
		return err
	}
	a.logger.Debug("begin transaction")
	if err := conn.SetAutocommit(false); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	return nil
}

// Commit commits the current transaction and turns auto-commit back on.
// It is forwarded to the session even when Begin was not called.
func (a *Adapter) Commit() error {
	conn, err := a.Session()
	if err != nil {
		return err
	}
	a.logger.Debug("commit transaction")
	if err := conn.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	if err := conn.SetAutocommit(true); err != nil {
		return fmt.Errorf("failed to restore auto-commit: %w", err)
	}
	return nil
}

// Rollback rolls back the current transaction and turns auto-commit back on.
func (a *Adapter) Rollback() error {
	conn, err := a.Session()
	if err != nil {
		return err
	}
	a.logger.Debug("rollback transaction")
	if err := conn.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	if err := conn.SetAutocommit(true); err != nil {
		return fmt.Errorf("failed to restore auto-commit: %w", err)
	}
	return nil
}
