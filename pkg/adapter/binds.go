package adapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$(\d+)`)

// BindError is returned when a placeholder refers to a bind that was not
// given, or when binds are given to a statement with no placeholders.
type BindError struct {
	Index int
	Count int
	// Unplaced is set when the statement has nowhere to put the binds.
	Unplaced bool
}

func (e *BindError) Error() string {
	if e.Unplaced {
		return fmt.Sprintf("%d binds given but the statement has no placeholders", e.Count)
	}
	return fmt.Sprintf("bind parameter $%d out of range: %d binds given", e.Index, e.Count)
}

// prepareStatement rewrites $N placeholders to ? and orders binds to match
// the placeholders as they appear in sql.
func prepareStatement(sql string, binds []any) (string, []any, error) {
	var (
		args []any
		err  error
	)
	out := substitute(sql, func(idx int) string {
		if idx < 1 || idx > len(binds) {
			if err == nil {
				err = &BindError{Index: idx, Count: len(binds)}
			}
			return ""
		}
		args = append(args, binds[idx-1])
		return "?"
	})
	if err != nil {
		return "", nil, err
	}
	if args == nil {
		// Native ? markers are passed to the driver as they are.
		if strings.Contains(sql, "?") {
			return sql, binds, nil
		}
		return "", nil, &BindError{Count: len(binds), Unplaced: true}
	}
	return out, args, nil
}

// inlineBinds replaces $N placeholders with quoted literals.
func inlineBinds(sql string, binds []any) (string, error) {
	if len(binds) > 0 && !placeholder.MatchString(sql) {
		return "", &BindError{Count: len(binds), Unplaced: true}
	}
	var err error
	out := substitute(sql, func(idx int) string {
		if idx < 1 || idx > len(binds) {
			if err == nil {
				err = &BindError{Index: idx, Count: len(binds)}
			}
			return ""
		}
		return QuoteLiteral(binds[idx-1])
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func substitute(sql string, repl func(idx int) string) string {
	matches := placeholder.FindAllStringSubmatchIndex(sql, -1)
	if len(matches) == 0 {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql))
	last := 0
	for _, m := range matches {
		idx, err := strconv.Atoi(sql[m[2]:m[3]])
		if err != nil {
			idx = -1
		}
		b.WriteString(sql[last:m[0]])
		b.WriteString(repl(idx))
		last = m[1]
	}
	b.WriteString(sql[last:])
	return b.String()
}
