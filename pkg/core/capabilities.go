package core

import "github.com/leapstack-labs/leapodbc/pkg/odbc"

// IdentifierCase is the case convention a DBMS applies to identifiers.
type IdentifierCase int

const (
	// CaseUnknown means the driver did not report a convention.
	CaseUnknown IdentifierCase = iota
	// CaseUpper folds unquoted identifiers to upper case (Oracle, DB2, Snowflake).
	CaseUpper
	// CaseLower folds unquoted identifiers to lower case (PostgreSQL).
	CaseLower
	// CaseSensitive stores identifiers exactly as written and compares them exactly.
	CaseSensitive
	// CaseMixed stores identifiers as written but compares them case-insensitively.
	CaseMixed
)

// IdentifierCaseFromODBC maps an SQL_IC_* answer to an IdentifierCase.
func IdentifierCaseFromODBC(code uint16) IdentifierCase {
	switch code {
	case odbc.ICUpper:
		return CaseUpper
	case odbc.ICLower:
		return CaseLower
	case odbc.ICSensitive:
		return CaseSensitive
	case odbc.ICMixed:
		return CaseMixed
	default:
		return CaseUnknown
	}
}

// String returns the string representation of IdentifierCase.
func (c IdentifierCase) String() string {
	switch c {
	case CaseUpper:
		return "upper"
	case CaseLower:
		return "lower"
	case CaseSensitive:
		return "sensitive"
	case CaseMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Capabilities is a snapshot of the driver info fetched once per session.
// It is passed by value and never modified after introspection.
type Capabilities struct {
	DBMSName             string
	DBMSVersion          string
	IdentifierCase       IdentifierCase
	QuotedIdentifierCase IdentifierCase
	IdentifierQuoteChar  string
	MaxIdentifierLen     int
	MaxTableNameLen      int
	UserName             string
	DatabaseName         string

	fields map[odbc.InfoType]any
}

// NewCapabilities returns a record carrying the raw info answers alongside the parsed fields.
func NewCapabilities(c Capabilities, fields map[odbc.InfoType]any) Capabilities {
	c.fields = make(map[odbc.InfoType]any, len(fields))
	for k, v := range fields {
		c.fields[k] = v
	}
	return c
}

// Field returns the raw info answer for an info type.
func (c Capabilities) Field(info odbc.InfoType) (any, bool) {
	v, ok := c.fields[info]
	return v, ok
}

// UpcaseIdentifiers reports whether the DBMS folds unquoted identifiers to upper case.
func (c Capabilities) UpcaseIdentifiers() bool {
	return c.IdentifierCase == CaseUpper
}
