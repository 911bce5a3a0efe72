package typecast

import (
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/dialect"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// PrimaryKeyColumn is the column name always treated as NOT NULL.
const PrimaryKeyColumn = "id"

// Decide combines the driver's nullability flag with the free-text IS_NULLABLE
// answer. A "NO" answer or SQL_NO_NULLS means NOT NULL; SQL_NULLABLE means
// nullable; anything else is unknown and treated as nullable.
func Decide(flag odbc.Nullable, text string) core.Nullability {
	switch {
	case flag == odbc.NoNulls, strings.EqualFold(strings.TrimSpace(text), "NO"):
		return core.NotNull
	case flag == odbc.NullableYes:
		return core.Nullable
	default:
		return core.UnknownTreatedAsNullable
	}
}

// OverridePrimaryKey forces a column named id to NOT NULL. Some drivers
// misreport nullability for primary keys.
func OverridePrimaryKey(name string, n core.Nullability) core.Nullability {
	if name == PrimaryKeyColumn {
		return core.NotNull
	}
	return n
}

// Describe builds the canonical descriptor for a driver column. The name is
// folded to canonical case before the primary key override is applied.
func Describe(info odbc.ColumnInfo, caps core.Capabilities) core.Column {
	name := dialect.FormatCase(info.Name, caps)
	return core.Column{
		Name:        name,
		Type:        info.Type,
		Scale:       info.Scale,
		Nullability: OverridePrimaryKey(name, Decide(info.Nullable, info.IsNullable)),
	}
}

// DescribeAll describes every column of a result in order.
func DescribeAll(infos []odbc.ColumnInfo, caps core.Capabilities) []core.Column {
	cols := make([]core.Column, len(infos))
	for i, info := range infos {
		cols[i] = Describe(info, caps)
	}
	return cols
}
