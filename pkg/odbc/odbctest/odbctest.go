// Package odbctest provides an in-memory odbc.Environment for tests.
//
// The fake records every native call, answers get-info requests from a fixed
// map and returns scripted results keyed by SQL text.
package odbctest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// ErrNoResult is returned by Run when no result was scripted for the SQL text.
var ErrNoResult = errors.New("odbctest: no result scripted")

// Call is one recorded native call.
type Call struct {
	Method string
	SQL    string
	Args   []any
}

// Result is a scripted answer to Do or Run.
type Result struct {
	Columns  []odbc.ColumnInfo
	Rows     [][]any
	Affected int64
	Err      error
}

// Env is a fake native environment.
type Env struct {
	// Info answers GetInfo on every connection opened from this environment.
	Info map[odbc.InfoType]any
	// InfoErr, when set, is returned by GetInfo for that info type.
	InfoErr map[odbc.InfoType]error
	// ConnectErr is returned by Connect and DriverConnect when set.
	ConnectErr error
	// Results maps SQL text to its scripted result.
	Results map[string]Result

	mu        sync.Mutex
	calls     []Call
	conns     []*Conn
	lastSrc   string
	lastUser  *string
	lastPass  *string
	lastDrv   *odbc.Driver
	connCount int
}

var _ odbc.Environment = (*Env)(nil)

// NewEnv returns a fake environment answering GetInfo from info.
func NewEnv(info map[odbc.InfoType]any) *Env {
	return &Env{Info: info, Results: make(map[string]Result)}
}

// Script registers the result returned for sql.
func (e *Env) Script(sql string, r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Results == nil {
		e.Results = make(map[string]Result)
	}
	e.Results[sql] = r
}

// Connect implements odbc.Environment.
func (e *Env) Connect(_ context.Context, source string, username, password *string) (odbc.Conn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Method: "Connect", SQL: source})
	e.lastSrc, e.lastUser, e.lastPass = source, username, password
	if e.ConnectErr != nil {
		return nil, e.ConnectErr
	}
	return e.open(), nil
}

// DriverConnect implements odbc.Environment.
func (e *Env) DriverConnect(_ context.Context, drv *odbc.Driver) (odbc.Conn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Method: "DriverConnect", SQL: drv.Name})
	e.lastDrv = drv
	if e.ConnectErr != nil {
		return nil, e.ConnectErr
	}
	return e.open(), nil
}

func (e *Env) open() *Conn {
	e.connCount++
	c := &Conn{env: e, id: e.connCount, connected: true, autocommit: true}
	e.conns = append(e.conns, c)
	return c
}

func (e *Env) record(c Call) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, c)
}

// Calls returns every recorded call in order.
func (e *Env) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Methods returns the method names of the recorded calls in order.
func (e *Env) Methods() []string {
	calls := e.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// CallCount returns how many times method was called.
func (e *Env) CallCount(method string) int {
	n := 0
	for _, c := range e.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Conns returns every connection opened so far.
func (e *Env) Conns() []*Conn {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Conn, len(e.conns))
	copy(out, e.conns)
	return out
}

// LastSource returns the arguments of the most recent Connect call.
func (e *Env) LastSource() (source string, username, password *string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSrc, e.lastUser, e.lastPass
}

// LastDriver returns the argument of the most recent DriverConnect call.
func (e *Env) LastDriver() *odbc.Driver {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDrv
}

// Conn is a fake native session.
type Conn struct {
	env        *Env
	id         int
	connected  bool
	autocommit bool
	commits    int
	rollbacks  int
}

var _ odbc.Conn = (*Conn)(nil)

// ID returns the 1-based order in which the connection was opened.
func (c *Conn) ID() int { return c.id }

// Connected implements odbc.Conn.
func (c *Conn) Connected() bool { return c.connected }

// Disconnect implements odbc.Conn.
func (c *Conn) Disconnect() error {
	c.env.record(Call{Method: "Disconnect"})
	if !c.connected {
		return errors.New("odbctest: connection already closed")
	}
	c.connected = false
	return nil
}

// GetInfo implements odbc.Conn.
func (c *Conn) GetInfo(_ context.Context, info odbc.InfoType) (any, error) {
	c.env.record(Call{Method: "GetInfo", SQL: info.String()})
	if err, ok := c.env.InfoErr[info]; ok {
		return nil, err
	}
	return c.env.Info[info], nil
}

// Do implements odbc.Conn.
func (c *Conn) Do(_ context.Context, sql string, args ...any) (int64, error) {
	c.env.record(Call{Method: "Do", SQL: sql, Args: args})
	if !c.connected {
		return 0, errors.New("odbctest: connection closed")
	}
	r := c.env.result(sql)
	if r.Err != nil {
		return 0, r.Err
	}
	return r.Affected, nil
}

// Run implements odbc.Conn.
func (c *Conn) Run(_ context.Context, sql string, args ...any) (odbc.Stmt, error) {
	c.env.record(Call{Method: "Run", SQL: sql, Args: args})
	if !c.connected {
		return nil, errors.New("odbctest: connection closed")
	}
	r, ok := c.env.lookup(sql)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, sql)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &Stmt{env: c.env, result: r}, nil
}

// SetAutocommit implements odbc.Conn.
func (c *Conn) SetAutocommit(on bool) error {
	c.env.record(Call{Method: "SetAutocommit", Args: []any{on}})
	c.autocommit = on
	return nil
}

// Autocommit implements odbc.Conn.
func (c *Conn) Autocommit() bool { return c.autocommit }

// Commit implements odbc.Conn.
func (c *Conn) Commit() error {
	c.env.record(Call{Method: "Commit"})
	c.commits++
	return nil
}

// Rollback implements odbc.Conn.
func (c *Conn) Rollback() error {
	c.env.record(Call{Method: "Rollback"})
	c.rollbacks++
	return nil
}

// Commits returns how many times Commit was called.
func (c *Conn) Commits() int { return c.commits }

// Rollbacks returns how many times Rollback was called.
func (c *Conn) Rollbacks() int { return c.rollbacks }

func (e *Env) lookup(sql string) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.Results[sql]
	return r, ok
}

func (e *Env) result(sql string) Result {
	r, _ := e.lookup(sql)
	return r
}

// Stmt is a fake executed statement.
type Stmt struct {
	env     *Env
	result  Result
	dropped bool
}

var _ odbc.Stmt = (*Stmt)(nil)

// Columns implements odbc.Stmt.
func (s *Stmt) Columns() []odbc.ColumnInfo { return s.result.Columns }

// FetchAll implements odbc.Stmt.
func (s *Stmt) FetchAll() ([][]any, error) {
	if s.dropped {
		return nil, errors.New("odbctest: statement dropped")
	}
	return s.result.Rows, nil
}

// Drop implements odbc.Stmt.
func (s *Stmt) Drop() error {
	s.env.record(Call{Method: "Drop"})
	s.dropped = true
	return nil
}

// InfoFor returns a get-info map for a DBMS with the given case convention and
// quote character. The remaining fields get plausible fixed values.
func InfoFor(dbms string, identCase uint16, quote string) map[odbc.InfoType]any {
	return map[odbc.InfoType]any{
		odbc.InfoDBMSName:             dbms,
		odbc.InfoDBMSVer:              "01.00.0000",
		odbc.InfoIdentifierCase:       identCase,
		odbc.InfoQuotedIdentifierCase: odbc.ICSensitive,
		odbc.InfoIdentifierQuoteChar:  quote,
		odbc.InfoMaxIdentifierLen:     uint16(128),
		odbc.InfoMaxTableNameLen:      uint16(128),
		odbc.InfoUserName:             "tester",
		odbc.InfoDatabaseName:         "testdb",
	}
}
