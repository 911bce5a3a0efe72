package adapter

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/typecast"
)

// DefaultStatementName labels statements in the debug log.
const DefaultStatementName = "SQL"

// Execute runs a statement and returns the number of affected rows.
// Binds are referenced in sql as $1, $2, ...
func (a *Adapter) Execute(ctx context.Context, sql string, binds ...any) (int64, error) {
	return a.ExecuteNamed(ctx, DefaultStatementName, sql, binds...)
}

// ExecuteNamed is Execute with a statement name for the log.
func (a *Adapter) ExecuteNamed(ctx context.Context, name, sql string, binds ...any) (int64, error) {
	conn, err := a.Session()
	if err != nil {
		return 0, err
	}

	stmt, args, err := a.bind(sql, binds)
	if err != nil {
		return 0, err
	}
	a.logStatement(name, stmt, args)

	n, err := conn.Do(ctx, stmt, args...)
	if err != nil {
		return 0, classify(stmt, err)
	}
	return n, nil
}

// Update runs an UPDATE statement and returns the number of affected rows.
func (a *Adapter) Update(ctx context.Context, sql string, binds ...any) (int64, error) {
	return a.Execute(ctx, sql, binds...)
}

// Delete runs a DELETE statement and returns the number of affected rows.
func (a *Adapter) Delete(ctx context.Context, sql string, binds ...any) (int64, error) {
	return a.Execute(ctx, sql, binds...)
}

// Query runs a statement and returns its rows as a canonical result set.
// Column names are folded to canonical case.
func (a *Adapter) Query(ctx context.Context, sql string, binds ...any) (*core.ResultSet, error) {
	return a.QueryNamed(ctx, DefaultStatementName, sql, binds...)
}

// QueryNamed is Query with a statement name for the log.
func (a *Adapter) QueryNamed(ctx context.Context, name, sql string, binds ...any) (*core.ResultSet, error) {
	conn, err := a.Session()
	if err != nil {
		return nil, err
	}

	stmt, args, err := a.bind(sql, binds)
	if err != nil {
		return nil, err
	}
	a.logStatement(name, stmt, args)

	st, err := conn.Run(ctx, stmt, args...)
	if err != nil {
		return nil, classify(stmt, err)
	}
	defer func() { _ = st.Drop() }()

	infos := st.Columns()
	raw, err := st.FetchAll()
	if err != nil {
		return nil, classify(stmt, err)
	}

	columns := typecast.DescribeAll(infos, a.caps)
	rows, err := typecast.Coerce(columns, raw)
	if err != nil {
		return nil, err
	}
	return &core.ResultSet{Columns: columns, Rows: rows}, nil
}

// bind applies the variant's bind policy.
func (a *Adapter) bind(sql string, binds []any) (string, []any, error) {
	if len(binds) == 0 {
		return sql, nil, nil
	}
	if a.variant.PreparedStatements() {
		return prepareStatement(sql, binds)
	}
	stmt, err := inlineBinds(sql, binds)
	return stmt, nil, err
}

func (a *Adapter) logStatement(name, sql string, args []any) {
	a.logger.Debug("executing statement",
		slog.String("name", name),
		slog.String("sql", sql),
		slog.Int("binds", len(args)))
}
