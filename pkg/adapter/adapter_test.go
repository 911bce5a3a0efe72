package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/leapodbc/internal/testutil"
	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/dialect"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/leapstack-labs/leapodbc/pkg/odbc/odbctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnected(t *testing.T, info map[odbc.InfoType]any) (*Adapter, *odbctest.Env) {
	t.Helper()
	env := odbctest.NewEnv(info)
	a, err := Connect(context.Background(), env, core.Config{SourceName: "test"}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return a, env
}

func TestNew_NilLogger(t *testing.T) {
	a := New(odbctest.NewEnv(nil), nil)
	require.NotNil(t, a)
	assert.NotNil(t, a.logger)
	assert.False(t, a.Active())
	assert.Equal(t, "ODBC", a.AdapterName())
}

func TestConnect_SelectsVariant(t *testing.T) {
	tests := []struct {
		name     string
		dbms     string
		wantKind dialect.Kind
		prepared bool
	}{
		{"postgres", "PostgreSQL", dialect.Postgres, true},
		{"mysql", "MySQL", dialect.MySQL, true},
		{"sqlite", "SQLite", dialect.SQLite, true},
		{"duckdb", "DuckDB", dialect.DuckDB, true},
		{"unknown", "Teradata", dialect.Generic, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newConnected(t, odbctest.InfoFor(tt.dbms, odbc.ICMixed, `"`))

			assert.True(t, a.Active())
			assert.Equal(t, tt.dbms, a.Capabilities().DBMSName)
			assert.Equal(t, tt.wantKind, a.Variant().Kind())
			assert.Equal(t, tt.prepared, a.Variant().PreparedStatements())
		})
	}
}

func TestConnect_ConfigurationError(t *testing.T) {
	env := odbctest.NewEnv(nil)
	a := New(env, nil)

	err := a.Connect(context.Background(), core.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Empty(t, env.Calls())
	assert.False(t, a.Active())
}

func TestConnect_IntrospectionFailureClosesSession(t *testing.T) {
	env := odbctest.NewEnv(odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	env.InfoErr = map[odbc.InfoType]error{odbc.InfoUserName: errors.New("boom")}

	_, err := Connect(context.Background(), env, core.Config{SourceName: "test"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to introspect database")

	conns := env.Conns()
	require.Len(t, conns, 1)
	assert.False(t, conns[0].Connected())
}

func TestConnect_NilEnvironment(t *testing.T) {
	err := New(nil, nil).Connect(context.Background(), core.Config{SourceName: "x"})
	require.Error(t, err)
}

func TestDisconnect_Idempotent(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))

	require.NoError(t, a.Disconnect())
	require.NoError(t, a.Disconnect())
	require.NoError(t, a.Close())

	assert.False(t, a.Active())
	assert.Equal(t, 1, env.CallCount("Disconnect"))
}

func TestReconnect(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	first, err := a.Session()
	require.NoError(t, err)

	require.NoError(t, a.Reconnect(context.Background()))

	second, err := a.Session()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.False(t, first.Connected(), "old handle is closed before reconnecting")
	assert.True(t, second.Connected())
	assert.Equal(t, 2, env.CallCount("Connect"))
	assert.Equal(t, 2*9, env.CallCount("GetInfo"), "capabilities are fetched again")

	source, _, _ := env.LastSource()
	assert.Equal(t, "test", source)
}

func TestReconnect_AfterDisconnect(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	require.NoError(t, a.Disconnect())

	require.NoError(t, a.Reconnect(context.Background()))
	assert.True(t, a.Active())
	assert.Equal(t, 1, env.CallCount("Disconnect"))
}

func TestReconnect_NeverConnected(t *testing.T) {
	err := New(odbctest.NewEnv(nil), nil).Reconnect(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestTransactions(t *testing.T) {
	tests := []struct {
		name        string
		run         func(a *Adapter) error
		wantMethods []string
		commits     int
		rollbacks   int
	}{
		{
			name: "begin then commit",
			run: func(a *Adapter) error {
				if err := a.Begin(); err != nil {
					return err
				}
				return a.Commit()
			},
			wantMethods: []string{"SetAutocommit", "Commit", "SetAutocommit"},
			commits:     1,
		},
		{
			name: "begin then rollback",
			run: func(a *Adapter) error {
				if err := a.Begin(); err != nil {
					return err
				}
				return a.Rollback()
			},
			wantMethods: []string{"SetAutocommit", "Rollback", "SetAutocommit"},
			rollbacks:   1,
		},
		{
			name:        "commit without begin is forwarded",
			run:         func(a *Adapter) error { return a.Commit() },
			wantMethods: []string{"Commit", "SetAutocommit"},
			commits:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
			before := len(env.Calls())

			require.NoError(t, tt.run(a))

			var methods []string
			for _, c := range env.Calls()[before:] {
				methods = append(methods, c.Method)
			}
			assert.Equal(t, tt.wantMethods, methods)

			conn := env.Conns()[0]
			assert.True(t, conn.Autocommit(), "auto-commit is enabled again")
			assert.Equal(t, tt.commits, conn.Commits())
			assert.Equal(t, tt.rollbacks, conn.Rollbacks())
		})
	}
}

func TestBegin_DisablesAutocommit(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	require.NoError(t, a.Begin())
	assert.False(t, env.Conns()[0].Autocommit())
}

func TestOperationsWithoutSession(t *testing.T) {
	a := New(odbctest.NewEnv(nil), nil)
	ctx := context.Background()

	_, err := a.Execute(ctx, "DELETE FROM t")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = a.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, a.Begin(), ErrNotConnected)
	assert.ErrorIs(t, a.Commit(), ErrNotConnected)
	assert.ErrorIs(t, a.Rollback(), ErrNotConnected)
	assert.NoError(t, a.Disconnect())
}

func TestDefaultSequenceName(t *testing.T) {
	a := New(nil, nil)
	assert.Equal(t, "users_seq", a.DefaultSequenceName("users", "id"))
}

func TestQuoteColumnName(t *testing.T) {
	a := New(nil, nil)
	assert.Equal(t, "UserName", a.QuoteColumnName("UserName"), "unchanged before connect")

	a, _ = newConnected(t, odbctest.InfoFor("MySQL", odbc.ICMixed, "`"))
	assert.Equal(t, "`UserName`", a.QuoteColumnName("UserName"))

	a, _ = newConnected(t, odbctest.InfoFor("Oracle", odbc.ICUpper, `"`))
	assert.Equal(t, `"UserName"`, a.QuoteColumnName("UserName"))
	assert.Equal(t, "USERS", a.QuoteColumnName("USERS"))
}
