package dbms

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/leapstack-labs/leapodbc/pkg/odbc/odbctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, env *odbctest.Env) odbc.Conn {
	t.Helper()
	conn, err := env.Connect(context.Background(), "test", nil, nil)
	require.NoError(t, err)
	return conn
}

func TestIntrospect(t *testing.T) {
	env := odbctest.NewEnv(odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	conn := connect(t, env)

	caps, err := Introspect(context.Background(), conn)
	require.NoError(t, err)

	assert.Equal(t, "PostgreSQL", caps.DBMSName)
	assert.Equal(t, "01.00.0000", caps.DBMSVersion)
	assert.Equal(t, core.CaseLower, caps.IdentifierCase)
	assert.Equal(t, core.CaseSensitive, caps.QuotedIdentifierCase)
	assert.Equal(t, `"`, caps.IdentifierQuoteChar)
	assert.Equal(t, 128, caps.MaxIdentifierLen)
	assert.Equal(t, 128, caps.MaxTableNameLen)
	assert.Equal(t, "tester", caps.UserName)
	assert.Equal(t, "testdb", caps.DatabaseName)

	raw, ok := caps.Field(odbc.InfoDBMSName)
	assert.True(t, ok)
	assert.Equal(t, "PostgreSQL", raw)
}

func TestIntrospect_RequestsEachFieldOnce(t *testing.T) {
	env := odbctest.NewEnv(odbctest.InfoFor("SQLite", odbc.ICMixed, `"`))
	conn := connect(t, env)

	_, err := Introspect(context.Background(), conn)
	require.NoError(t, err)

	assert.Equal(t, len(Fields), env.CallCount("GetInfo"))
	var requested []string
	for _, c := range env.Calls() {
		if c.Method == "GetInfo" {
			requested = append(requested, c.SQL)
		}
	}
	want := make([]string, len(Fields))
	for i, f := range Fields {
		want[i] = f.String()
	}
	assert.Equal(t, want, requested)
}

func TestIntrospect_MissingValuesDegrade(t *testing.T) {
	env := odbctest.NewEnv(map[odbc.InfoType]any{
		odbc.InfoDBMSName: "Mystery DB",
	})
	conn := connect(t, env)

	caps, err := Introspect(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "Mystery DB", caps.DBMSName)
	assert.Equal(t, core.CaseUnknown, caps.IdentifierCase)
	assert.Empty(t, caps.IdentifierQuoteChar)
	assert.Zero(t, caps.MaxIdentifierLen)
	assert.False(t, caps.UpcaseIdentifiers())
}

func TestIntrospect_InfoError(t *testing.T) {
	env := odbctest.NewEnv(odbctest.InfoFor("PostgreSQL", odbc.ICLower, `"`))
	infoErr := errors.New("driver does not support info type")
	env.InfoErr = map[odbc.InfoType]error{odbc.InfoIdentifierCase: infoErr}
	conn := connect(t, env)

	_, err := Introspect(context.Background(), conn)
	require.Error(t, err)
	assert.ErrorIs(t, err, infoErr)
	assert.Contains(t, err.Error(), "SQL_IDENTIFIER_CASE")
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{int64(64), 64},
		{uint16(1), 1},
		{uint8(2), 2},
		{int8(4), 4},
		{int32(3), 3},
		{float64(128), 128},
		{" 63 ", 63},
		{[]byte("30"), 30},
		{"n/a", 0},
		{[]byte("none"), 0},
		{struct{}{}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, asInt(tt.in), "asInt(%#v)", tt.in)
	}
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "", asString(nil))
	assert.Equal(t, "abc", asString("abc"))
	assert.Equal(t, "abc", asString([]byte("abc")))
	assert.Equal(t, "12", asString(12))
}
