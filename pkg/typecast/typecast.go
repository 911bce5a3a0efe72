// Package typecast converts raw driver cells into canonical values.
//
// Conversion is an exhaustive switch over the ODBC type code of each column:
// every supported code maps to exactly one value kind, and any other code is
// an *core.UnknownTypeError. NULL cells become the NULL value for every type.
package typecast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	errUnsupportedCell = errors.New("unsupported cell value")
	errIntegerRange    = errors.New("integer out of int64 range")

	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Coerce converts every cell of rows according to its column's type.
// Rows keep their order. The first unknown type code or unreadable cell aborts
// the conversion.
func Coerce(columns []core.Column, rows [][]any) ([][]core.Value, error) {
	for _, col := range columns {
		if !Supported(col.Type) {
			return nil, &core.UnknownTypeError{Column: col.Name, Type: col.Type}
		}
	}

	out := make([][]core.Value, len(rows))
	for i, row := range rows {
		values := make([]core.Value, len(columns))
		for j, col := range columns {
			var raw any
			if j < len(row) {
				raw = row[j]
			}
			v, err := CastValue(col, raw)
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
		out[i] = values
	}
	return out, nil
}

// Supported reports whether CastValue handles the type code.
func Supported(t odbc.SQLType) bool {
	switch t {
	case odbc.SQLChar, odbc.SQLVarchar, odbc.SQLLongVarchar,
		odbc.SQLWChar, odbc.SQLWVarchar, odbc.SQLWLongVarchar,
		odbc.SQLDecimal, odbc.SQLNumeric,
		odbc.SQLReal, odbc.SQLFloat, odbc.SQLDouble,
		odbc.SQLTinyint, odbc.SQLSmallint, odbc.SQLInteger, odbc.SQLBigint,
		odbc.SQLBit,
		odbc.SQLDate, odbc.SQLTypeDate,
		odbc.SQLTime, odbc.SQLTypeTime,
		odbc.SQLTimestamp, odbc.SQLTypeTimestamp,
		odbc.SQLBinary, odbc.SQLVarbinary, odbc.SQLLongVarbinary:
		return true
	default:
		return false
	}
}

// CastValue converts one raw cell for col.
func CastValue(col core.Column, raw any) (core.Value, error) {
	if !Supported(col.Type) {
		return core.Value{}, &core.UnknownTypeError{Column: col.Name, Type: col.Type}
	}
	if raw == nil {
		return core.Null(), nil
	}

	var (
		v   core.Value
		err error
	)
	switch col.Type {
	case odbc.SQLChar, odbc.SQLVarchar, odbc.SQLLongVarchar,
		odbc.SQLWChar, odbc.SQLWVarchar, odbc.SQLWLongVarchar:
		v = core.StringValue(toText(raw))

	case odbc.SQLDecimal, odbc.SQLNumeric:
		v, err = toDecimal(raw, col.Scale)

	case odbc.SQLReal, odbc.SQLFloat, odbc.SQLDouble:
		var f float64
		f, err = toFloat(raw)
		v = core.FloatValue(f)

	case odbc.SQLTinyint, odbc.SQLSmallint, odbc.SQLInteger, odbc.SQLBigint:
		var i int64
		i, err = toInt(raw)
		v = core.IntegerValue(i)

	case odbc.SQLBit:
		v = core.BooleanValue(isTrue(raw))

	case odbc.SQLDate, odbc.SQLTypeDate:
		var d civil.Date
		d, err = toDate(raw)
		v = core.DateValue(d)

	case odbc.SQLTime, odbc.SQLTypeTime:
		var t civil.Time
		t, err = toTime(raw)
		v = core.TimeValue(t)

	case odbc.SQLTimestamp, odbc.SQLTypeTimestamp:
		var dt civil.DateTime
		dt, err = toDateTime(raw)
		v = core.DateTimeValue(dt)

	case odbc.SQLBinary, odbc.SQLVarbinary, odbc.SQLLongVarbinary:
		v, err = toBinary(raw)
	}

	if err != nil {
		return core.Value{}, &core.CoercionError{Column: col.Name, Type: col.Type, Value: raw, Err: err}
	}
	return v, nil
}

// toText returns the cell as valid UTF-8. Empty text stays empty.
func toText(raw any) string {
	var s string
	switch x := raw.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		s = fmt.Sprint(x)
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return s
}

func textOf(raw any) (string, bool) {
	switch x := raw.(type) {
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	}
	return "", false
}

func toDecimal(raw any, scale int) (core.Value, error) {
	if scale == 0 {
		i, err := toInt(raw)
		return core.IntegerValue(i), err
	}
	if s, ok := textOf(raw); ok {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return core.Value{}, err
		}
		return core.FloatValue(d.InexactFloat64()), nil
	}
	f, err := cast.ToFloat64E(raw)
	return core.FloatValue(f), err
}

// toInt truncates fractional input the way decimal columns with scale 0 do.
// Values outside the int64 range are an error, never wrapped.
func toInt(raw any) (int64, error) {
	switch x := raw.(type) {
	case uint64:
		if x > math.MaxInt64 {
			return 0, errIntegerRange
		}
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, errIntegerRange
		}
		return int64(x), nil
	case float64:
		return floatToInt(x)
	case float32:
		return floatToInt(float64(x))
	}
	if s, ok := textOf(raw); ok {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, err
		}
		return decimalToInt(d)
	}
	return cast.ToInt64E(raw)
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errIntegerRange
	}
	return decimalToInt(decimal.NewFromFloat(f))
}

func decimalToInt(d decimal.Decimal) (int64, error) {
	d = d.Truncate(0)
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, errIntegerRange
	}
	return d.IntPart(), nil
}

func toFloat(raw any) (float64, error) {
	if s, ok := textOf(raw); ok {
		return cast.ToFloat64E(s)
	}
	return cast.ToFloat64E(raw)
}

// isTrue compares the cell against the driver's true sentinel, 1.
func isTrue(raw any) bool {
	switch x := raw.(type) {
	case bool:
		return x
	case []byte:
		// BIT(1) columns arrive as a single raw byte.
		if len(x) == 1 && x[0] == 1 {
			return true
		}
		return string(x) == "1"
	case string:
		return x == "1"
	}
	i, err := cast.ToInt64E(raw)
	return err == nil && i == 1
}

func toDate(raw any) (civil.Date, error) {
	switch x := raw.(type) {
	case civil.Date:
		return x, nil
	case civil.DateTime:
		return x.Date, nil
	case time.Time:
		return civil.DateOf(x), nil
	}
	s, ok := textOf(raw)
	if !ok {
		return civil.Date{}, errUnsupportedCell
	}
	if len(s) > len("2006-01-02") {
		dt, err := toDateTime(s)
		if err != nil {
			return civil.Date{}, err
		}
		return dt.Date, nil
	}
	return civil.ParseDate(s)
}

func toTime(raw any) (civil.Time, error) {
	switch x := raw.(type) {
	case civil.Time:
		return x, nil
	case civil.DateTime:
		return x.Time, nil
	case time.Time:
		return civil.TimeOf(x), nil
	}
	s, ok := textOf(raw)
	if !ok {
		return civil.Time{}, errUnsupportedCell
	}
	if i := strings.IndexAny(s, " T"); i == len("2006-01-02") {
		s = s[i+1:]
	}
	return civil.ParseTime(s)
}

func toDateTime(raw any) (civil.DateTime, error) {
	switch x := raw.(type) {
	case civil.DateTime:
		return x, nil
	case civil.Date:
		return civil.DateTime{Date: x}, nil
	case time.Time:
		return civil.DateTimeOf(x), nil
	}
	s, ok := textOf(raw)
	if !ok {
		return civil.DateTime{}, errUnsupportedCell
	}
	if len(s) == len("2006-01-02") {
		d, err := civil.ParseDate(s)
		return civil.DateTime{Date: d}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return civil.DateTimeOf(t), nil
	}
	return civil.ParseDateTime(strings.Replace(s, " ", "T", 1))
}

func toBinary(raw any) (core.Value, error) {
	switch x := raw.(type) {
	case []byte:
		b := make([]byte, len(x))
		copy(b, x)
		return core.BinaryValue(b), nil
	case string:
		return core.BinaryValue([]byte(x)), nil
	}
	return core.Value{}, errUnsupportedCell
}
