package sqlbridge

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// quotedMarker stands in for ? inside quoted text while sqlx numbers the rest.
const quotedMarker = "\x00"

func (c *Conn) rebind(query string, args []any) string {
	if len(args) == 0 {
		return query
	}
	return rebindQuery(c.profile.BindType, query)
}

// rebindQuery rewrites the ? markers of query into the bind style of
// bindType. Markers inside quoted text are left alone; sqlx.Rebind alone
// would number them too.
func rebindQuery(bindType int, query string) string {
	switch bindType {
	case sqlx.UNKNOWN, sqlx.QUESTION:
		return query
	}
	if !strings.ContainsAny(query, `'"`) || strings.Contains(query, quotedMarker) {
		return sqlx.Rebind(bindType, query)
	}
	return strings.ReplaceAll(sqlx.Rebind(bindType, maskQuoted(query)), quotedMarker, "?")
}

func maskQuoted(query string) string {
	var (
		b     strings.Builder
		quote rune
	)
	b.Grow(len(query))
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else if r == '?' {
				b.WriteString(quotedMarker)
				continue
			}
		case r == '\'' || r == '"':
			quote = r
		}
		b.WriteRune(r)
	}
	return b.String()
}
