package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"CAR", CategoryCar, false},
		{"bike", CategoryBike, false},
		{"  Health ", CategoryHealth, false},
		{"TRUCK", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownCategory))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, InsuranceVehicle, CategoryCar.InsuranceType())
	assert.Equal(t, InsuranceVehicle, CategoryBike.InsuranceType())
	assert.Equal(t, InsuranceMedical, CategoryHealth.InsuranceType())

	assert.Equal(t, "car", CategoryCar.VehicleType())
	assert.Equal(t, "bike", CategoryBike.VehicleType())
	assert.Empty(t, CategoryHealth.VehicleType())
	assert.Len(t, Categories(), 3)
}
