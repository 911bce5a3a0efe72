package dialect

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var mixedCase = regexp.MustCompile(`\p{Lu}+\p{Ll}|\p{Ll}+\p{Lu}`)

// FormatCase converts an identifier reported by the DBMS to canonical case.
//
// Under the upcase convention an identifier without any lower-case letter is
// downcased. Anything else passes through, so the transform cannot tell a
// genuinely upper-case quoted name from a folded one.
func FormatCase(id string, caps core.Capabilities) string {
	if !caps.UpcaseIdentifiers() || hasRune(id, unicode.IsLower) {
		return id
	}
	return cases.Lower(language.Und).String(id)
}

// NativeCase converts a canonical identifier to the DBMS's native case.
//
// Under the upcase convention an identifier without any upper-case letter is
// upcased. Anything else passes through.
func NativeCase(id string, caps core.Capabilities) string {
	if !caps.UpcaseIdentifiers() || hasRune(id, unicode.IsUpper) {
		return id
	}
	return cases.Upper(language.Und).String(id)
}

// QuoteIdentifier wraps name in the first rune of quoteChar.
//
// An empty quote character leaves name unchanged, as does a name already
// enclosed in the quote character. Under the upcase convention only names
// mixing upper and lower case are quoted.
func QuoteIdentifier(name, quoteChar string, upcase bool) string {
	quoteChar = strings.TrimSpace(quoteChar)
	if quoteChar == "" {
		return name
	}
	r, _ := utf8.DecodeRuneInString(quoteChar)
	q := string(r)

	if strings.HasPrefix(name, q) && strings.HasSuffix(name, q) {
		return name
	}
	if upcase && !mixedCase.MatchString(name) {
		return name
	}
	return q + name + q
}

func hasRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}
