package odbc

import "strconv"

// SQLType is an ODBC SQL data type code as reported for a result column.
type SQLType int16

// SQL data type codes.
const (
	SQLUnknownType   SQLType = 0
	SQLChar          SQLType = 1
	SQLNumeric       SQLType = 2
	SQLDecimal       SQLType = 3
	SQLInteger       SQLType = 4
	SQLSmallint      SQLType = 5
	SQLFloat         SQLType = 6
	SQLReal          SQLType = 7
	SQLDouble        SQLType = 8
	SQLDatetime      SQLType = 9 // SQL_DATETIME; ODBC 2.x SQL_DATE shares the code
	SQLTime          SQLType = 10
	SQLTimestamp     SQLType = 11
	SQLVarchar       SQLType = 12
	SQLTypeDate      SQLType = 91
	SQLTypeTime      SQLType = 92
	SQLTypeTimestamp SQLType = 93
	SQLLongVarchar   SQLType = -1
	SQLBinary        SQLType = -2
	SQLVarbinary     SQLType = -3
	SQLLongVarbinary SQLType = -4
	SQLBigint        SQLType = -5
	SQLTinyint       SQLType = -6
	SQLBit           SQLType = -7
	SQLWChar         SQLType = -8
	SQLWVarchar      SQLType = -9
	SQLWLongVarchar  SQLType = -10
	SQLGUID          SQLType = -11
)

// SQLDate is the ODBC 2.x date code.
const SQLDate = SQLDatetime

var sqlTypeNames = map[SQLType]string{
	SQLUnknownType:   "SQL_UNKNOWN_TYPE",
	SQLChar:          "SQL_CHAR",
	SQLNumeric:       "SQL_NUMERIC",
	SQLDecimal:       "SQL_DECIMAL",
	SQLInteger:       "SQL_INTEGER",
	SQLSmallint:      "SQL_SMALLINT",
	SQLFloat:         "SQL_FLOAT",
	SQLReal:          "SQL_REAL",
	SQLDouble:        "SQL_DOUBLE",
	SQLDatetime:      "SQL_DATETIME",
	SQLTime:          "SQL_TIME",
	SQLTimestamp:     "SQL_TIMESTAMP",
	SQLVarchar:       "SQL_VARCHAR",
	SQLTypeDate:      "SQL_TYPE_DATE",
	SQLTypeTime:      "SQL_TYPE_TIME",
	SQLTypeTimestamp: "SQL_TYPE_TIMESTAMP",
	SQLLongVarchar:   "SQL_LONGVARCHAR",
	SQLBinary:        "SQL_BINARY",
	SQLVarbinary:     "SQL_VARBINARY",
	SQLLongVarbinary: "SQL_LONGVARBINARY",
	SQLBigint:        "SQL_BIGINT",
	SQLTinyint:       "SQL_TINYINT",
	SQLBit:           "SQL_BIT",
	SQLWChar:         "SQL_WCHAR",
	SQLWVarchar:      "SQL_WVARCHAR",
	SQLWLongVarchar:  "SQL_WLONGVARCHAR",
	SQLGUID:          "SQL_GUID",
}

// String returns the ODBC constant name of the type code.
func (t SQLType) String() string {
	if name, ok := sqlTypeNames[t]; ok {
		return name
	}
	return "SQLType(" + strconv.Itoa(int(t)) + ")"
}

// Nullable is the SQL_NULLABLE family reported for a column.
type Nullable int16

// Nullability codes.
const (
	NoNulls         Nullable = 0 // SQL_NO_NULLS
	NullableYes     Nullable = 1 // SQL_NULLABLE
	NullableUnknown Nullable = 2 // SQL_NULLABLE_UNKNOWN
)

// InfoType is an SQLGetInfo information type.
type InfoType uint16

// Info types requested during capability introspection.
const (
	InfoMaxIdentifierLen     InfoType = 10005 // SQL_MAX_IDENTIFIER_LEN
	InfoDatabaseName         InfoType = 16    // SQL_DATABASE_NAME
	InfoDBMSName             InfoType = 17    // SQL_DBMS_NAME
	InfoDBMSVer              InfoType = 18    // SQL_DBMS_VER
	InfoIdentifierCase       InfoType = 28    // SQL_IDENTIFIER_CASE
	InfoIdentifierQuoteChar  InfoType = 29    // SQL_IDENTIFIER_QUOTE_CHAR
	InfoMaxTableNameLen      InfoType = 35    // SQL_MAX_TABLE_NAME_LEN
	InfoUserName             InfoType = 47    // SQL_USER_NAME
	InfoQuotedIdentifierCase InfoType = 93    // SQL_QUOTED_IDENTIFIER_CASE
)

var infoTypeNames = map[InfoType]string{
	InfoMaxIdentifierLen:     "SQL_MAX_IDENTIFIER_LEN",
	InfoDatabaseName:         "SQL_DATABASE_NAME",
	InfoDBMSName:             "SQL_DBMS_NAME",
	InfoDBMSVer:              "SQL_DBMS_VER",
	InfoIdentifierCase:       "SQL_IDENTIFIER_CASE",
	InfoIdentifierQuoteChar:  "SQL_IDENTIFIER_QUOTE_CHAR",
	InfoMaxTableNameLen:      "SQL_MAX_TABLE_NAME_LEN",
	InfoUserName:             "SQL_USER_NAME",
	InfoQuotedIdentifierCase: "SQL_QUOTED_IDENTIFIER_CASE",
}

func (i InfoType) String() string {
	if name, ok := infoTypeNames[i]; ok {
		return name
	}
	return "InfoType(" + strconv.Itoa(int(i)) + ")"
}

// SQL_IDENTIFIER_CASE answers.
const (
	ICUpper     uint16 = 1 // SQL_IC_UPPER
	ICLower     uint16 = 2 // SQL_IC_LOWER
	ICSensitive uint16 = 3 // SQL_IC_SENSITIVE
	ICMixed     uint16 = 4 // SQL_IC_MIXED
)
