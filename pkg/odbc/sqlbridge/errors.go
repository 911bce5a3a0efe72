package sqlbridge

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/marcboeker/go-duckdb"
	"modernc.org/sqlite"
)

// translate converts a driver error into a native diagnostic record.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var nerr *odbc.Error
	if errors.As(err, &nerr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &odbc.Error{SQLState: pgErr.Code, Message: pgErr.Message, Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &odbc.Error{SQLState: string(pqErr.Code), Message: pqErr.Message, Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &odbc.Error{
			SQLState:   strings.TrimRight(string(myErr.SQLState[:]), "\x00"),
			NativeCode: int(myErr.Number),
			Message:    myErr.Message,
			Err:        err,
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return &odbc.Error{SQLState: "HY000", NativeCode: liteErr.Code(), Message: liteErr.Error(), Err: err}
	}

	var duckErr *duckdb.Error
	if errors.As(err, &duckErr) {
		return &odbc.Error{SQLState: "HY000", Message: duckErr.Msg, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &odbc.Error{SQLState: "HYT00", Message: "query timeout expired", Err: err}
	}

	return &odbc.Error{SQLState: "HY000", Message: err.Error(), Err: err}
}
