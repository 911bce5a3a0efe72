package sqlbridge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// Conn is a native session over a *sql.DB limited to one connection.
//
// With auto-commit off a transaction is started by the first statement and
// ended by Commit or Rollback.
type Conn struct {
	db         *sql.DB
	profile    *Profile
	logger     *slog.Logger
	tx         *sql.Tx
	autocommit bool
	closed     bool
}

var _ odbc.Conn = (*Conn)(nil)

// NewConn wraps db as a native session answering get-info from p.
// The pool is limited to a single connection.
func NewConn(db *sql.DB, p *Profile, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db.SetMaxOpenConns(1)
	return &Conn{db: db, profile: p, logger: logger, autocommit: true}
}

// DB returns the underlying database handle.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Profile returns the driver profile of the session.
func (c *Conn) Profile() *Profile {
	return c.profile
}

// Connected implements odbc.Conn.
func (c *Conn) Connected() bool {
	return !c.closed
}

// Disconnect implements odbc.Conn. An open transaction is rolled back.
func (c *Conn) Disconnect() error {
	if c.closed {
		return errors.New("connection already closed")
	}
	c.closed = true
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	c.logger.Debug("closing database connection", slog.String("driver", c.profile.Name))
	return c.db.Close()
}

// GetInfo implements odbc.Conn.
func (c *Conn) GetInfo(ctx context.Context, info odbc.InfoType) (any, error) {
	p := c.profile
	switch info {
	case odbc.InfoDBMSName:
		return p.DBMSName, nil
	case odbc.InfoDBMSVer:
		return c.probe(ctx, p.VersionQuery, "")
	case odbc.InfoIdentifierCase:
		return p.IdentifierCase, nil
	case odbc.InfoQuotedIdentifierCase:
		return odbc.ICSensitive, nil
	case odbc.InfoIdentifierQuoteChar:
		return p.QuoteChar, nil
	case odbc.InfoMaxIdentifierLen:
		return uint16(p.MaxIdentifierLen), nil
	case odbc.InfoMaxTableNameLen:
		return uint16(p.MaxTableNameLen), nil
	case odbc.InfoUserName:
		return c.probe(ctx, p.UserQuery, "")
	case odbc.InfoDatabaseName:
		return c.probe(ctx, p.DatabaseQuery, p.Database)
	default:
		return nil, &odbc.Error{SQLState: "HY096", Message: fmt.Sprintf("information type out of range: %s", info)}
	}
}

// probe runs a single-value query; a NULL answer becomes the empty string.
func (c *Conn) probe(ctx context.Context, query, fallback string) (string, error) {
	if query == "" {
		return fallback, nil
	}
	var v sql.NullString
	if err := c.queryer().QueryRowContext(ctx, query).Scan(&v); err != nil {
		return "", translate(err)
	}
	return v.String, nil
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (c *Conn) queryer() queryer {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// statement returns the handle a statement runs on, starting a transaction
// when auto-commit is off.
func (c *Conn) statement(ctx context.Context) (queryer, error) {
	if c.closed {
		return nil, &odbc.Error{SQLState: "08003", Message: "connection not open"}
	}
	if !c.autocommit && c.tx == nil {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, translate(err)
		}
		c.tx = tx
	}
	return c.queryer(), nil
}

// Do implements odbc.Conn.
func (c *Conn) Do(ctx context.Context, query string, args ...any) (int64, error) {
	q, err := c.statement(ctx)
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, c.rebind(query, args), args...)
	if err != nil {
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// The driver keeps no row count.
		return 0, nil
	}
	return n, nil
}

// Run implements odbc.Conn.
func (c *Conn) Run(ctx context.Context, query string, args ...any) (odbc.Stmt, error) {
	q, err := c.statement(ctx)
	if err != nil {
		return nil, err
	}
	//nolint:rowserrcheck // rows.Err() is checked by Stmt.FetchAll
	rows, err := q.QueryContext(ctx, c.rebind(query, args), args...)
	if err != nil {
		return nil, translate(err)
	}
	return newStmt(rows, c.profile)
}

// SetAutocommit implements odbc.Conn. Turning auto-commit on commits an open
// transaction.
func (c *Conn) SetAutocommit(on bool) error {
	if on && c.tx != nil {
		if err := c.Commit(); err != nil {
			return err
		}
	}
	c.autocommit = on
	return nil
}

// Autocommit implements odbc.Conn.
func (c *Conn) Autocommit() bool {
	return c.autocommit
}

// Commit implements odbc.Conn. Without an open transaction it does nothing.
func (c *Conn) Commit() error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return translate(tx.Commit())
}

// Rollback implements odbc.Conn. Without an open transaction it does nothing.
func (c *Conn) Rollback() error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return translate(tx.Rollback())
}
