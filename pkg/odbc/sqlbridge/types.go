package sqlbridge

import (
	"database/sql"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// typeNames maps normalized database type names to ODBC type codes.
var typeNames = map[string]odbc.SQLType{
	"CHAR":              odbc.SQLChar,
	"CHARACTER":         odbc.SQLChar,
	"BPCHAR":            odbc.SQLChar,
	"NCHAR":             odbc.SQLWChar,
	"VARCHAR":           odbc.SQLVarchar,
	"CHARACTER VARYING": odbc.SQLVarchar,
	"NVARCHAR":          odbc.SQLWVarchar,
	"NAME":              odbc.SQLVarchar,
	"UUID":              odbc.SQLVarchar,
	"STRING":            odbc.SQLVarchar,
	"ENUM":              odbc.SQLVarchar,
	"SET":               odbc.SQLVarchar,
	"TEXT":              odbc.SQLLongVarchar,
	"TINYTEXT":          odbc.SQLLongVarchar,
	"MEDIUMTEXT":        odbc.SQLLongVarchar,
	"LONGTEXT":          odbc.SQLLongVarchar,
	"CLOB":              odbc.SQLLongVarchar,
	"JSON":              odbc.SQLLongVarchar,
	"JSONB":             odbc.SQLLongVarchar,
	"DECIMAL":           odbc.SQLDecimal,
	"NUMERIC":           odbc.SQLNumeric,
	"TINYINT":           odbc.SQLTinyint,
	"INT1":              odbc.SQLTinyint,
	"UTINYINT":          odbc.SQLTinyint,
	"SMALLINT":          odbc.SQLSmallint,
	"INT2":              odbc.SQLSmallint,
	"USMALLINT":         odbc.SQLSmallint,
	"YEAR":              odbc.SQLSmallint,
	"INT":               odbc.SQLInteger,
	"INTEGER":           odbc.SQLInteger,
	"INT4":              odbc.SQLInteger,
	"MEDIUMINT":         odbc.SQLInteger,
	"UINTEGER":          odbc.SQLInteger,
	"BIGINT":            odbc.SQLBigint,
	"INT8":              odbc.SQLBigint,
	"UBIGINT":           odbc.SQLBigint,
	"REAL":              odbc.SQLReal,
	"FLOAT4":            odbc.SQLReal,
	"FLOAT":             odbc.SQLFloat,
	"FLOAT8":            odbc.SQLDouble,
	"DOUBLE":            odbc.SQLDouble,
	"DOUBLE PRECISION":  odbc.SQLDouble,
	"BOOL":              odbc.SQLBit,
	"BOOLEAN":           odbc.SQLBit,
	"BIT":               odbc.SQLBit,
	"DATE":              odbc.SQLTypeDate,
	"TIME":              odbc.SQLTypeTime,
	"TIMETZ":            odbc.SQLTypeTime,
	"TIMESTAMP":         odbc.SQLTypeTimestamp,
	"TIMESTAMPTZ":       odbc.SQLTypeTimestamp,
	"TIMESTAMP_S":       odbc.SQLTypeTimestamp,
	"TIMESTAMP_MS":      odbc.SQLTypeTimestamp,
	"TIMESTAMP_NS":      odbc.SQLTypeTimestamp,
	"DATETIME":          odbc.SQLTypeTimestamp,
	"BINARY":            odbc.SQLBinary,
	"VARBINARY":         odbc.SQLVarbinary,
	"BYTEA":             odbc.SQLVarbinary,
	"BLOB":              odbc.SQLLongVarbinary,
	"TINYBLOB":          odbc.SQLLongVarbinary,
	"MEDIUMBLOB":        odbc.SQLLongVarbinary,
	"LONGBLOB":          odbc.SQLLongVarbinary,
}

var (
	typeModifiers = regexp.MustCompile(`\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)`)
	spaces        = regexp.MustCompile(`\s+`)
)

// normalizeTypeName uppercases name and strips length modifiers, signedness
// and time zone qualifiers.
func normalizeTypeName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = typeModifiers.ReplaceAllString(n, "")
	n = strings.TrimPrefix(n, "UNSIGNED ")
	n = strings.TrimSuffix(n, " UNSIGNED")
	n = strings.TrimSuffix(n, " WITH TIME ZONE")
	n = strings.TrimSuffix(n, " WITHOUT TIME ZONE")
	return spaces.ReplaceAllString(strings.TrimSpace(n), " ")
}

// typeModifierValues parses "(p)" or "(p,s)" in a declared type name.
func typeModifierValues(name string) (precision, scale int, ok bool) {
	m := typeModifiers.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	precision, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		scale, _ = strconv.Atoi(m[2])
	}
	return precision, scale, true
}

var (
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// sqlTypeOf derives the ODBC type code for a result column.
func sqlTypeOf(ct *sql.ColumnType, p *Profile) odbc.SQLType {
	name := ct.DatabaseTypeName()
	if t, ok := typeNames[normalizeTypeName(name)]; ok {
		return t
	}
	if name == "" && p != nil && p.UntypedColumn != odbc.SQLUnknownType {
		return p.UntypedColumn
	}
	return scanTypeOf(ct.ScanType())
}

func scanTypeOf(st reflect.Type) odbc.SQLType {
	if st == nil {
		return odbc.SQLUnknownType
	}
	switch st {
	case timeType, reflect.TypeOf(sql.NullTime{}):
		return odbc.SQLTypeTimestamp
	case bytesType, reflect.TypeOf(sql.RawBytes(nil)):
		return odbc.SQLVarbinary
	case reflect.TypeOf(sql.NullString{}):
		return odbc.SQLVarchar
	case reflect.TypeOf(sql.NullInt64{}), reflect.TypeOf(sql.NullInt32{}), reflect.TypeOf(sql.NullInt16{}):
		return odbc.SQLBigint
	case reflect.TypeOf(sql.NullFloat64{}):
		return odbc.SQLDouble
	case reflect.TypeOf(sql.NullBool{}):
		return odbc.SQLBit
	}

	switch st.Kind() {
	case reflect.String:
		return odbc.SQLVarchar
	case reflect.Bool:
		return odbc.SQLBit
	case reflect.Int8, reflect.Uint8:
		return odbc.SQLTinyint
	case reflect.Int16, reflect.Uint16:
		return odbc.SQLSmallint
	case reflect.Int32, reflect.Uint32:
		return odbc.SQLInteger
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return odbc.SQLBigint
	case reflect.Float32:
		return odbc.SQLReal
	case reflect.Float64:
		return odbc.SQLDouble
	default:
		return odbc.SQLUnknownType
	}
}

// columnInfo describes one database/sql result column.
func columnInfo(ct *sql.ColumnType, p *Profile) odbc.ColumnInfo {
	info := odbc.ColumnInfo{
		Name:     ct.Name(),
		Type:     sqlTypeOf(ct, p),
		Nullable: odbc.NullableUnknown,
	}

	if precision, scale, ok := ct.DecimalSize(); ok {
		info.Precision, info.Scale = int(precision), int(scale)
	} else if precision, scale, ok := typeModifierValues(ct.DatabaseTypeName()); ok {
		info.Precision, info.Scale = precision, scale
	} else if length, ok := ct.Length(); ok {
		info.Precision = int(length)
	}

	if nullable, ok := ct.Nullable(); ok {
		if nullable {
			info.Nullable, info.IsNullable = odbc.NullableYes, "YES"
		} else {
			info.Nullable, info.IsNullable = odbc.NoNulls, "NO"
		}
	}
	return info
}
