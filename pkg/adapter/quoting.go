package adapter

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/leapstack-labs/leapodbc/pkg/core"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// QuoteString escapes single quotes by doubling them.
func QuoteString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuotedDate formats t as a plain timestamp in UTC. Not every driver accepts
// the ODBC escape sequences, so none are used.
func QuotedDate(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

// QuoteLiteral renders v as an SQL literal for inlining into statement text.
func QuoteLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case core.Value:
		if x.IsNull() {
			return "NULL"
		}
		return QuoteLiteral(x.Interface())
	case string:
		return quote(x)
	case []byte:
		return quote(string(x))
	case time.Time:
		return quote(QuotedDate(x))
	case civil.Date:
		return quote(x.In(time.UTC).Format(dateLayout))
	case civil.DateTime:
		return quote(x.In(time.UTC).Format(dateTimeLayout))
	case civil.Time:
		return quote(fmt.Sprintf("%02d:%02d:%02d", x.Hour, x.Minute, x.Second))
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	return "'" + QuoteString(s) + "'"
}

// QuoteString escapes single quotes in s.
func (a *Adapter) QuoteString(s string) string {
	return QuoteString(s)
}

// QuotedDate formats t for inclusion in SQL text.
func (a *Adapter) QuotedDate(t time.Time) string {
	return QuotedDate(t)
}

// QuoteColumnName quotes a column or table name with the variant's rules.
// Before Connect the name is returned unchanged.
func (a *Adapter) QuoteColumnName(name string) string {
	if a.variant == nil {
		return name
	}
	return a.variant.QuoteIdentifier(name)
}
