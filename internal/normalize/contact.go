package normalize

import "strings"

// PhoneDigits is the length of a canonical phone number.
const PhoneDigits = 10

// ExtractPhone scans sources in priority order. The first source holding at
// least ten digits wins and its first ten digits are returned; separators
// and country codes embedded in the text are dropped with the rest of the
// non-digit characters. Returns "" when no source qualifies.
func ExtractPhone(sources ...string) string {
	for _, src := range sources {
		digits := digitsOf(src)
		if len(digits) >= PhoneDigits {
			return digits[:PhoneDigits]
		}
	}
	return ""
}

// ExtractEmail returns the first source containing "@", verbatim.
func ExtractEmail(sources ...string) string {
	for _, src := range sources {
		if strings.Contains(src, "@") {
			return src
		}
	}
	return ""
}

func digitsOf(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isASCIIDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
