package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// AddressParts is a free-text address split into the vehicle record's
// address columns.
type AddressParts struct {
	Primary    string `json:"lane1"`
	Secondary  string `json:"lane2"`
	Locality   string `json:"area"`
	PostalCode string `json:"pincode"`
}

// roadKeywords mark a segment as a street line rather than a locality.
var roadKeywords = []string{"ROAD", "STREET", "AVENUE", "LANE", "DRIVE"}

// postalCodeRe matches a six digit PIN code standing as its own word.
var postalCodeRe = regexp.MustCompile(`\b\d{6}\b`)

// DecomposeAddress splits a comma separated address. Secondary always holds
// the full input verbatim. The remaining parts are only derived when the
// address has at least two segments.
func DecomposeAddress(addr string) AddressParts {
	parts := AddressParts{Secondary: addr}
	segments := strings.Split(addr, ",")
	if len(segments) < 2 {
		return parts
	}
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	parts.Primary = segments[0]
	parts.Locality = locality(segments)
	parts.PostalCode = PostalCode(addr)
	return parts
}

// locality returns the first interior segment that is neither numeric nor a
// road name, falling back to the second segment. An empty interior segment
// qualifies.
func locality(segments []string) string {
	for _, seg := range segments[1 : len(segments)-1] {
		if !hasDigit(seg) && !isRoadName(seg) {
			return seg
		}
	}
	return segments[1]
}

func isRoadName(seg string) bool {
	upper := strings.ToUpper(seg)
	for _, kw := range roadKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// PostalCode returns the first six digit word in s, or "". Digits glued to
// letters or to a longer digit run, such as "PIN600004" or a phone number,
// do not count.
func PostalCode(s string) string {
	return postalCodeRe.FindString(s)
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
