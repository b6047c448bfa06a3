package candidatos

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldSep separates the fields of a search text. Fold never emits it, so a
// folded query cannot match across two fields.
const fieldSep = "\x1f"

// Fold lower-cases s, strips diacritics and collapses whitespace and control
// characters, so that "JOSÉ  Pérez" and "jose perez" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, out)
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// SearchText folds each field on its own and joins the non-empty ones.
func SearchText(fields ...string) string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = Fold(f); f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, fieldSep)
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
