package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD and drops combining marks, so that
// "García" and "Garcia" reduce to the same bytes.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var foldCaser = cases.Fold()

// Phone reduces a raw phone string to its digits.
//
//	"+34 600-123" -> "34600123"
//	"  "          -> ""
//
// No length or country validation happens here; callers decide whether the
// result is usable. The function is total and idempotent.
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// Name normalizes a person name for comparison: trims, strips diacritics,
// collapses whitespace runs to a single space and case-folds. The result is
// never persisted; it exists only to compare two names.
func Name(raw string) string {
	txt := strings.TrimSpace(raw)
	if txt == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, txt); err == nil {
		txt = stripped
	}
	txt = strings.Join(strings.Fields(txt), " ")
	return foldCaser.String(txt)
}

// Email normalizes an email address for identity comparison: trim + lowercase.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NameTokens splits a name into its significant canonical tokens, discarding
// tokens of two characters or fewer (connectors like "de", "y" would otherwise
// produce false matches).
func NameTokens(raw string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(Name(raw)) {
		if len([]rune(tok)) > 2 {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// TokensOverlap reports whether two token sets share at least one token.
// Empty sets never match: an input reduced to nothing is safer rejected.
func TokensOverlap(a, b map[string]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for tok := range a {
		if _, ok := b[tok]; ok {
			return true
		}
	}
	return false
}
