package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecomposeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want AddressParts
	}{
		{
			name: "locality after street",
			in:   "12 Main Street, Mylapore, Chennai, 600004",
			want: AddressParts{
				Primary:    "12 Main Street",
				Secondary:  "12 Main Street, Mylapore, Chennai, 600004",
				Locality:   "Mylapore",
				PostalCode: "600004",
			},
		},
		{
			name: "road segment skipped",
			in:   "Flat 4, Royapettah High Road, Mylapore, Chennai 600014",
			want: AddressParts{
				Primary:    "Flat 4",
				Secondary:  "Flat 4, Royapettah High Road, Mylapore, Chennai 600014",
				Locality:   "Mylapore",
				PostalCode: "600014",
			},
		},
		{
			name: "road keyword is case insensitive",
			in:   "1, gandhi road, 2nd cross lane, T Nagar, Chennai",
			want: AddressParts{
				Primary:   "1",
				Secondary: "1, gandhi road, 2nd cross lane, T Nagar, Chennai",
				Locality:  "T Nagar",
			},
		},
		{
			name: "falls back to second segment",
			in:   "12 Main Street, 3rd Cross Road, 600004",
			want: AddressParts{
				Primary:    "12 Main Street",
				Secondary:  "12 Main Street, 3rd Cross Road, 600004",
				Locality:   "3rd Cross Road",
				PostalCode: "600004",
			},
		},
		{
			name: "two segments",
			in:   "No 5 Lake View, Adyar",
			want: AddressParts{
				Primary:   "No 5 Lake View",
				Secondary: "No 5 Lake View, Adyar",
				Locality:  "Adyar",
			},
		},
		{
			name: "phone number is not a pincode",
			in:   "Door 7, Velachery, Ph 9840012345, Chennai-600042",
			want: AddressParts{
				Primary:    "Door 7",
				Secondary:  "Door 7, Velachery, Ph 9840012345, Chennai-600042",
				Locality:   "Velachery",
				PostalCode: "600042",
			},
		},
		{
			name: "empty interior segment is the locality",
			in:   "12 Main Road, , Mylapore, Chennai",
			want: AddressParts{
				Primary:   "12 Main Road",
				Secondary: "12 Main Road, , Mylapore, Chennai",
				Locality:  "",
			},
		},
		{
			name: "single segment",
			in:   "Chennai 600004",
			want: AddressParts{Secondary: "Chennai 600004"},
		},
		{
			name: "empty",
			in:   "",
			want: AddressParts{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DecomposeAddress(tt.in))
		})
	}
}

func TestDecomposeAddressSecondaryIsVerbatim(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"  padded , Mylapore ,Chennai",
		"a,,b",
		"x",
		",",
	}
	for _, in := range inputs {
		assert.Equal(t, in, DecomposeAddress(in).Secondary)
	}
}

func TestPostalCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "600004", PostalCode("Chennai 600004"))
	assert.Equal(t, "", PostalCode("Chennai600004"))
	assert.Equal(t, "", PostalCode("PIN600004"))
	assert.Equal(t, "600004", PostalCode("PIN: 600004"))
	assert.Equal(t, "600004", PostalCode("Chennai-600004."))
	assert.Equal(t, "", PostalCode("9840012345"))
	assert.Equal(t, "", PostalCode("60004"))
	assert.Equal(t, "110001", PostalCode("call 98400 12345, Delhi 110001"))
	assert.Equal(t, "", PostalCode(""))
}
