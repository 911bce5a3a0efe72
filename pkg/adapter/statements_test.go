package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/leapstack-labs/leapodbc/pkg/odbc/odbctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_PreparedVariant(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	env.Script("UPDATE users SET name = ? WHERE id = ?", odbctest.Result{Affected: 3})

	n, err := a.Execute(context.Background(), "UPDATE users SET name = $2 WHERE id = $1", int64(7), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	calls := env.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "Do", last.Method)
	assert.Equal(t, "UPDATE users SET name = ? WHERE id = ?", last.SQL)
	assert.Equal(t, []any{"bob", int64(7)}, last.Args)
}

func TestExecute_GenericVariantInlinesBinds(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("Exotic", odbc.ICUpper, `"`))

	_, err := a.Execute(context.Background(), "INSERT INTO t VALUES ($1, $2, $3)", "O'Brien", nil, int64(5))
	require.NoError(t, err)

	calls := env.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "INSERT INTO t VALUES ('O''Brien', NULL, '5')", last.SQL)
	assert.Empty(t, last.Args)
}

func TestExecute_WithoutBindsLeavesSQLUntouched(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))

	_, err := a.Execute(context.Background(), "SELECT '$1'")
	require.NoError(t, err)

	calls := env.Calls()
	assert.Equal(t, "SELECT '$1'", calls[len(calls)-1].SQL)
}

func TestExecute_BindOutOfRange(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	before := env.CallCount("Do")

	_, err := a.Execute(context.Background(), "SELECT $2", 1)
	var bindErr *BindError
	require.True(t, errors.As(err, &bindErr))
	assert.Equal(t, 2, bindErr.Index)
	assert.Equal(t, before, env.CallCount("Do"), "nothing is sent to the driver")
}

func TestExecute_BindsWithoutPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		info map[odbc.InfoType]any
	}{
		{"prepared", odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`)},
		{"inlined", odbctest.InfoFor("Exotic", odbc.ICUpper, `"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, env := newConnected(t, tt.info)
			before := len(env.Calls())

			_, err := a.Execute(context.Background(), "DELETE FROM t", 1)
			var bindErr *BindError
			require.True(t, errors.As(err, &bindErr))
			assert.True(t, bindErr.Unplaced)
			assert.Equal(t, 1, bindErr.Count)
			assert.EqualError(t, err, "1 binds given but the statement has no placeholders")
			assert.Len(t, env.Calls(), before, "nothing is sent to the driver")
		})
	}
}

func TestUpdateAndDeleteAreExecute(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	env.Script("DELETE FROM t", odbctest.Result{Affected: 2})
	env.Script("UPDATE t SET x = 1", odbctest.Result{Affected: 4})

	n, err := a.Delete(context.Background(), "DELETE FROM t")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = a.Update(context.Background(), "UPDATE t SET x = 1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestQuery(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("Oracle", odbc.ICUpper, `"`))
	env.Script("SELECT * FROM users", odbctest.Result{
		Columns: []odbc.ColumnInfo{
			{Name: "ID", Type: odbc.SQLInteger, Nullable: odbc.NullableYes},
			{Name: "NAME", Type: odbc.SQLVarchar, Nullable: odbc.NullableYes},
			{Name: "DisplayName", Type: odbc.SQLWVarchar, Nullable: odbc.NullableUnknown},
			{Name: "BALANCE", Type: odbc.SQLDecimal, Scale: 2, Nullable: odbc.NoNulls},
			{Name: "ACTIVE", Type: odbc.SQLBit, Nullable: odbc.NullableYes},
			{Name: "CREATED", Type: odbc.SQLTypeDate, Nullable: odbc.NullableYes},
		},
		Rows: [][]any{
			{"1", "alice", "Alice", "10.50", int64(1), "2024-01-02"},
			{"2", "", nil, "0", int64(0), nil},
		},
	})

	rs, err := a.Query(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "DisplayName", "balance", "active", "created"}, rs.ColumnNames())
	assert.Equal(t, core.NotNull, rs.Columns[0].Nullability, "id is never nullable")
	assert.Equal(t, core.Nullable, rs.Columns[1].Nullability)
	assert.Equal(t, core.UnknownTreatedAsNullable, rs.Columns[2].Nullability)
	assert.Equal(t, core.NotNull, rs.Columns[3].Nullability)

	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []core.Value{
		core.IntegerValue(1),
		core.StringValue("alice"),
		core.StringValue("Alice"),
		core.FloatValue(10.5),
		core.BooleanValue(true),
		core.DateValue(civil.Date{Year: 2024, Month: time.January, Day: 2}),
	}, rs.Rows[0])
	assert.Equal(t, []core.Value{
		core.IntegerValue(2),
		core.StringValue(""),
		core.Null(),
		core.FloatValue(0),
		core.BooleanValue(false),
		core.Null(),
	}, rs.Rows[1])

	assert.Equal(t, 1, env.CallCount("Drop"), "statement is dropped after fetching")
}

func TestQuery_UnknownType(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	env.Script("SELECT geom FROM shapes", odbctest.Result{
		Columns: []odbc.ColumnInfo{{Name: "geom", Type: odbc.SQLType(-151)}},
		Rows:    [][]any{{"POINT(0 0)"}},
	})

	rs, err := a.Query(context.Background(), "SELECT geom FROM shapes")
	require.Error(t, err)
	assert.Nil(t, rs)

	var unknown *core.UnknownTypeError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, 1, env.CallCount("Drop"))
}

func TestQuery_PreparedBinds(t *testing.T) {
	a, env := newConnected(t, odbctest.InfoFor("MySQL", odbc.ICMixed, "`"))
	env.Script("SELECT name FROM users WHERE id = ?", odbctest.Result{
		Columns: []odbc.ColumnInfo{{Name: "name", Type: odbc.SQLVarchar, Nullable: odbc.NullableYes}},
		Rows:    [][]any{{[]byte("alice")}},
	})

	rs, err := a.Query(context.Background(), "SELECT name FROM users WHERE id = $1", 1)
	require.NoError(t, err)
	assert.Equal(t, core.StringValue("alice"), rs.Rows[0][0])

	for _, c := range env.Calls() {
		if c.Method == "Run" {
			assert.Equal(t, []any{1}, c.Args)
		}
	}
}

func TestStatementErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name   string
		native error
		check  func(t *testing.T, err error)
	}{
		{
			name:   "timeout",
			native: &odbc.Error{SQLState: "HYT00", Message: "query timeout expired"},
			check: func(t *testing.T, err error) {
				var target *core.QueryTimeoutError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name:   "duplicate key",
			native: &odbc.Error{SQLState: "23505", Message: `duplicate key value violates unique constraint "users_pkey"`},
			check: func(t *testing.T, err error) {
				var target *core.DuplicateKeyError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name:   "generic failure",
			native: &odbc.Error{SQLState: "42601", Message: "syntax error at or near \"SELEC\""},
			check: func(t *testing.T, err error) {
				var target *core.ExecutionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "SELEC 1", target.SQL)
				assert.Contains(t, target.Message, "syntax error")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, env := newConnected(t, odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
			env.Script("SELEC 1", odbctest.Result{Err: tt.native})

			_, err := a.Execute(context.Background(), "SELEC 1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.native)
			tt.check(t, err)

			_, err = a.Query(context.Background(), "SELEC 1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
