package sqlbridge

import (
	"database/sql"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// Stmt is an executed query with its pending rows.
type Stmt struct {
	rows    *sql.Rows
	columns []odbc.ColumnInfo
}

var _ odbc.Stmt = (*Stmt)(nil)

func newStmt(rows *sql.Rows, p *Profile) (*Stmt, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		_ = rows.Close()
		return nil, translate(err)
	}
	columns := make([]odbc.ColumnInfo, len(types))
	for i, ct := range types {
		columns[i] = columnInfo(ct, p)
	}
	return &Stmt{rows: rows, columns: columns}, nil
}

// Columns implements odbc.Stmt.
func (s *Stmt) Columns() []odbc.ColumnInfo {
	return s.columns
}

// FetchAll implements odbc.Stmt. Cells hold the values returned by the driver.
func (s *Stmt) FetchAll() ([][]any, error) {
	var out [][]any
	for s.rows.Next() {
		cells := make([]any, len(s.columns))
		dest := make([]any, len(s.columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := s.rows.Scan(dest...); err != nil {
			return nil, translate(err)
		}
		out = append(out, cells)
	}
	if err := s.rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Drop implements odbc.Stmt.
func (s *Stmt) Drop() error {
	return s.rows.Close()
}
