package sqlbridge

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConn(t *testing.T) (*Conn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	p, ok := Get("postgres")
	require.True(t, ok)
	return NewConn(db, p, nil), mock
}

func TestConn_GetInfo(t *testing.T) {
	ctx := context.Background()
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SHOW server_version").
		WillReturnRows(sqlmock.NewRows([]string{"server_version"}).AddRow("16.2"))
	mock.ExpectQuery("SELECT current_user").
		WillReturnRows(sqlmock.NewRows([]string{"current_user"}).AddRow("alice"))
	mock.ExpectQuery("SELECT current_database()").
		WillReturnRows(sqlmock.NewRows([]string{"current_database"}).AddRow(nil))

	tests := []struct {
		info     odbc.InfoType
		expected any
	}{
		{odbc.InfoDBMSName, "PostgreSQL"},
		{odbc.InfoDBMSVer, "16.2"},
		{odbc.InfoIdentifierCase, odbc.ICLower},
		{odbc.InfoQuotedIdentifierCase, odbc.ICSensitive},
		{odbc.InfoIdentifierQuoteChar, `"`},
		{odbc.InfoMaxIdentifierLen, uint16(63)},
		{odbc.InfoMaxTableNameLen, uint16(63)},
		{odbc.InfoUserName, "alice"},
		{odbc.InfoDatabaseName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.info.String(), func(t *testing.T) {
			got, err := conn.GetInfo(ctx, tt.info)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_GetInfo_UnknownType(t *testing.T) {
	conn, _ := newMockConn(t)

	_, err := conn.GetInfo(context.Background(), odbc.InfoType(9999))
	var nerr *odbc.Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "HY096", nerr.SQLState)
}

func TestConn_GetInfo_StaticDatabase(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	p, _ := Get("sqlite")
	conn := NewConn(db, p, nil)

	got, err := conn.GetInfo(context.Background(), odbc.InfoDatabaseName)
	require.NoError(t, err)
	assert.Equal(t, "main", got)
}

func TestConn_Do(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		expected  int64
		expectErr bool
	}{
		{
			name: "affected rows",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET name = $1").
					WithArgs("bob").
					WillReturnResult(sqlmock.NewResult(0, 3))
			},
			expected: 3,
		},
		{
			name: "no row count",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET name = $1").
					WithArgs("bob").
					WillReturnResult(sqlmock.NewErrorResult(assert.AnError))
			},
			expected: 0,
		},
		{
			name: "driver error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET name = $1").
					WithArgs("bob").
					WillReturnError(assert.AnError)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConn(t)
			tt.setupMock(mock)

			n, err := conn.Do(context.Background(), "UPDATE users SET name = $1", "bob")
			if tt.expectErr {
				var nerr *odbc.Error
				require.ErrorAs(t, err, &nerr)
				assert.Equal(t, "HY000", nerr.SQLState)
				assert.ErrorIs(t, err, assert.AnError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, n)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConn_Run(t *testing.T) {
	conn, mock := newMockConn(t)

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INT8", int64(0)).Nullable(false),
		sqlmock.NewColumn("name").OfType("VARCHAR", "").Nullable(true),
		sqlmock.NewColumn("amount").OfType("NUMERIC(10,2)", "").WithPrecisionAndScale(10, 2),
	).
		AddRow(int64(1), "alice", "10.50").
		AddRow(int64(2), nil, "0.00")
	mock.ExpectQuery("SELECT id, name, amount FROM users").WillReturnRows(rows)

	stmt, err := conn.Run(context.Background(), "SELECT id, name, amount FROM users")
	require.NoError(t, err)

	cols := stmt.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, odbc.SQLBigint, cols[0].Type)
	assert.Equal(t, odbc.NoNulls, cols[0].Nullable)
	assert.Equal(t, "NO", cols[0].IsNullable)
	assert.Equal(t, odbc.SQLVarchar, cols[1].Type)
	assert.Equal(t, odbc.NullableYes, cols[1].Nullable)
	assert.Equal(t, odbc.SQLNumeric, cols[2].Type)
	assert.Equal(t, 10, cols[2].Precision)
	assert.Equal(t, 2, cols[2].Scale)

	data, err := stmt.FetchAll()
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(1), "alice", "10.50"},
		{int64(2), nil, "0.00"},
	}, data)

	require.NoError(t, stmt.Drop())
}

func TestConn_Run_Error(t *testing.T) {
	conn, mock := newMockConn(t)
	mock.ExpectQuery("SELECT broken").WillReturnError(assert.AnError)

	stmt, err := conn.Run(context.Background(), "SELECT broken")
	assert.Nil(t, stmt)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestConn_Transactions(t *testing.T) {
	ctx := context.Background()
	conn, mock := newMockConn(t)

	// Statements outside a transaction run directly.
	require.NoError(t, conn.Commit())
	require.NoError(t, conn.Rollback())

	require.NoError(t, conn.SetAutocommit(false))
	assert.False(t, conn.Autocommit())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t VALUES (1)").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO t VALUES (2)").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectRollback()

	_, err := conn.Do(ctx, "INSERT INTO t VALUES (1)")
	require.NoError(t, err)
	_, err = conn.Do(ctx, "INSERT INTO t VALUES (2)")
	require.NoError(t, err)
	require.NoError(t, conn.Rollback())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t VALUES (3)").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	_, err = conn.Do(ctx, "INSERT INTO t VALUES (3)")
	require.NoError(t, err)
	require.NoError(t, conn.SetAutocommit(true))
	assert.True(t, conn.Autocommit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_Disconnect(t *testing.T) {
	ctx := context.Background()
	conn, mock := newMockConn(t)

	require.NoError(t, conn.SetAutocommit(false))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM t").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := conn.Do(ctx, "DELETE FROM t")
	require.NoError(t, err)

	require.NoError(t, conn.Disconnect())
	assert.False(t, conn.Connected())
	assert.Error(t, conn.Disconnect())

	_, err = conn.Do(ctx, "SELECT 1")
	var nerr *odbc.Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "08003", nerr.SQLState)

	assert.NoError(t, mock.ExpectationsWereMet())
}
