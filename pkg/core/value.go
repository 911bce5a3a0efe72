package core

import (
	"encoding/hex"
	"strconv"

	"cloud.google.com/go/civil"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindTime
	KindDateTime
	KindBinary
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is a canonical, typed cell value. The zero Value is NULL.
type Value struct {
	kind     Kind
	str      string
	integer  int64
	float    float64
	boolean  bool
	date     civil.Date
	time     civil.Time
	datetime civil.DateTime
	bytes    []byte
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// StringValue returns a text value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntegerValue returns an integer value.
func IntegerValue(i int64) Value { return Value{kind: KindInteger, integer: i} }

// FloatValue returns a floating-point value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, float: f} }

// BooleanValue returns a boolean value.
func BooleanValue(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// DateValue returns a calendar date value.
func DateValue(d civil.Date) Value { return Value{kind: KindDate, date: d} }

// TimeValue returns a time-of-day value.
func TimeValue(t civil.Time) Value { return Value{kind: KindTime, time: t} }

// DateTimeValue returns a combined date and time value.
func DateTimeValue(dt civil.DateTime) Value { return Value{kind: KindDateTime, datetime: dt} }

// BinaryValue returns a raw byte value. The slice is not copied.
func BinaryValue(b []byte) Value { return Value{kind: KindBinary, bytes: b} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the text value.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Int returns the integer value.
func (v Value) Int() (int64, bool) { return v.integer, v.kind == KindInteger }

// Float returns the floating-point value.
func (v Value) Float() (float64, bool) { return v.float, v.kind == KindFloat }

// Bool returns the boolean value.
func (v Value) Bool() (bool, bool) { return v.boolean, v.kind == KindBoolean }

// Date returns the date value.
func (v Value) Date() (civil.Date, bool) { return v.date, v.kind == KindDate }

// Time returns the time-of-day value.
func (v Value) Time() (civil.Time, bool) { return v.time, v.kind == KindTime }

// DateTime returns the date-time value.
func (v Value) DateTime() (civil.DateTime, bool) { return v.datetime, v.kind == KindDateTime }

// Bytes returns the binary value.
func (v Value) Bytes() ([]byte, bool) { return v.bytes, v.kind == KindBinary }

// Interface returns the value as a plain Go value (nil for NULL).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return v.integer
	case KindFloat:
		return v.float
	case KindBoolean:
		return v.boolean
	case KindDate:
		return v.date
	case KindTime:
		return v.time
	case KindDateTime:
		return v.datetime
	case KindBinary:
		return v.bytes
	default:
		return nil
	}
}

// String formats the value for display. NULL renders as "NULL".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.boolean)
	case KindDate:
		return v.date.String()
	case KindTime:
		return v.time.String()
	case KindDateTime:
		return v.datetime.Date.String() + " " + v.datetime.Time.String()
	case KindBinary:
		return `\x` + hex.EncodeToString(v.bytes)
	default:
		return "NULL"
	}
}
