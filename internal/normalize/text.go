package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText applies NFKC compatibility folding and trims surrounding
// whitespace. OCR output routinely carries full-width digits, ligatures and
// non-breaking spaces; after folding these compare equal to their ASCII
// forms. Control characters other than newline and tab are removed.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	folded, _, err := transform.String(norm.NFKC, s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, folded)
	return strings.TrimSpace(folded)
}

// CleanTree applies CleanText to every string inside a decoded JSON value,
// in place for objects and arrays. The (possibly new) value is returned.
func CleanTree(v any) any {
	switch t := v.(type) {
	case string:
		return CleanText(t)
	case map[string]any:
		for k, val := range t {
			t[k] = CleanTree(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = CleanTree(val)
		}
		return t
	}
	return v
}
