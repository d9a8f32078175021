package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultGSTFallback is reported when a GST component is present but the
// percentage cannot be computed. It is the standard health insurance GST
// rate, not a derived value.
const DefaultGSTFallback = "18"

var hundred = decimal.NewFromInt(100)

// GSTPercentage approximates the GST rate as amount / grossPremium * 100,
// truncated toward zero. amount is the first component that is a plain
// number (digits and dots only). With no such component the result is "".
// A missing, zero, negative or unparsable premium yields fallback.
//
// The division is exact decimal arithmetic, so 0.29 of a premium of 1 is
// "29". Binary float truncation would give "28" for the same input.
func GSTPercentage(components []string, grossPremium, fallback string) string {
	for _, c := range components {
		if !isPlainNumber(c) {
			continue
		}
		amount, err := decimal.NewFromString(c)
		if err != nil {
			return fallback
		}
		if strings.TrimSpace(grossPremium) == "" {
			return fallback
		}
		premium, err := decimal.NewFromString(strings.TrimSpace(grossPremium))
		if err != nil || !premium.IsPositive() {
			return fallback
		}
		return amount.Mul(hundred).Div(premium).Truncate(0).String()
	}
	return ""
}

func isPlainNumber(s string) bool {
	digits := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
		default:
			return false
		}
	}
	return digits > 0
}
