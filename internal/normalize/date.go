// Package normalize holds the field-level primitives shared by the vehicle
// and medical reconciliation paths: date canonicalization, address
// decomposition, contact extraction and text cleanup. Every function is pure.
package normalize

import (
	"strings"
	"time"

	"github.com/sells-group/insurawise/internal/model"
)

// CanonicalDateLayout is the output format for every date field (dd-mm-yyyy).
const CanonicalDateLayout = "02-01-2006"

// dateLayouts is tried in order and the first successful parse wins. The
// order decides ambiguous inputs: "03/04/2024" is day-first because the
// day/month/year layout precedes month/day/year. Single digit days and
// months are accepted everywhere.
var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"2006/1/2",
	"2.1.2006",
	"1.2.2006",
	"2 1 2006",
	"2-1-06",
	"2/1/06",
	"2006-1-2 15:04:05",
	// Month-name forms come last so they never shadow a numeric match.
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-January-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Date converts s to dd-mm-yyyy. Empty input yields "". Input matching no
// known layout is returned unchanged, so a value is never lost.
func Date(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(CanonicalDateLayout)
		}
	}
	return s
}

// IsCanonicalDate reports whether s is already in dd-mm-yyyy form.
func IsCanonicalDate(s string) bool {
	if len(s) != len(CanonicalDateLayout) {
		return false
	}
	_, err := time.Parse(CanonicalDateLayout, s)
	return err == nil
}

// DateValue applies Date to an untyped payload value. Null becomes "",
// numbers are rendered as text first, objects and arrays pass through.
func DateValue(v any) any {
	if v == nil {
		return ""
	}
	s, ok := model.Scalar(v)
	if !ok {
		return v
	}
	return Date(s)
}
