package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Category is the product selector supplied with every document.
type Category string

// Supported product categories.
const (
	CategoryCar    Category = "CAR"
	CategoryBike   Category = "BIKE"
	CategoryHealth Category = "HEALTH"
)

// Insurance types a category resolves to.
const (
	InsuranceVehicle = "vehicle"
	InsuranceMedical = "medical"
)

// ErrUnknownCategory is returned for any selector outside CAR, BIKE and HEALTH.
var ErrUnknownCategory = eris.New("invalid product type: must be CAR, BIKE or HEALTH")

// Categories lists every accepted selector in display order.
func Categories() []Category {
	return []Category{CategoryCar, CategoryBike, CategoryHealth}
}

// ParseCategory resolves a user supplied selector. Matching ignores case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryCar, CategoryBike, CategoryHealth:
		return c, nil
	}
	return "", eris.Wrapf(ErrUnknownCategory, "got %q", s)
}

// IsVehicle reports whether the category uses the flat vehicle schema.
func (c Category) IsVehicle() bool {
	return c == CategoryCar || c == CategoryBike
}

// InsuranceType returns "vehicle" or "medical".
func (c Category) InsuranceType() string {
	if c.IsVehicle() {
		return InsuranceVehicle
	}
	return InsuranceMedical
}

// VehicleType returns the lower-case vehicle kind ("car", "bike"), or "" for
// medical categories.
func (c Category) VehicleType() string {
	if c.IsVehicle() {
		return strings.ToLower(string(c))
	}
	return ""
}

func (c Category) String() string { return string(c) }
