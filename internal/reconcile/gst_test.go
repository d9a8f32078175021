package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGSTPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		components []string
		gross      string
		want       string
	}{
		{"cgst share of premium", []string{"90", "90", ""}, "1000", "9"},
		{"truncates toward zero", []string{"", "", "180.90"}, "1000", "18"},
		{"exact decimal arithmetic", []string{"29"}, "100", "29"},
		{"no float truncation error", []string{"0.29"}, "1", "29"},
		{"first numeric component wins", []string{"abc", "45", "90"}, "1000", "4"},
		{"decimal premium", []string{"9"}, "100.00", "9"},
		{"zero premium falls back", []string{"90"}, "0", "18"},
		{"empty premium falls back", []string{"90"}, "", "18"},
		{"non numeric premium falls back", []string{"90"}, "Rs. 1,000", "18"},
		{"negative premium falls back", []string{"90"}, "-1000", "18"},
		{"malformed component falls back", []string{"1.2.3"}, "1000", "18"},
		{"no numeric component", []string{"", "N/A", "9%"}, "1000", ""},
		{"no components", nil, "1000", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GSTPercentage(tt.components, tt.gross, DefaultGSTFallback))
		})
	}
}

func TestGSTPercentageCustomFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5", GSTPercentage([]string{"10"}, "0", "5"))
}
