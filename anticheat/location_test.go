package anticheat_test

import (
	"math"
	"testing"

	"skirmish/anticheat"
	"skirmish/domain"
)

// metersNorth は原点からnメートル北の座標を返します。
func metersNorth(n float64) domain.Coordinate {
	const metersPerDegree = 111_195.0
	return domain.Coordinate{Latitude: n / metersPerDegree, Longitude: 0}
}

func TestValidateLocations(t *testing.T) {
	origin := domain.Coordinate{}
	validator := anticheat.NewLocationValidator()

	cases := []struct {
		name      string
		distance  float64
		wantValid bool
	}{
		{"too close", 1, false},
		{"lower bound", 2.1, true},
		{"mid range", 25, true},
		{"near upper bound", 49, true},
		{"too far", 51, false},
		{"far out of range", 500, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validation := validator.ValidateLocations(origin, metersNorth(tc.distance))
			if validation.IsValid != tc.wantValid {
				t.Errorf("IsValid = %t, want %t (distance %f)", validation.IsValid, tc.wantValid, validation.Distance)
			}
			// 圏外でも距離は常に設定される
			if math.Abs(validation.Distance-tc.distance) > 0.1 {
				t.Errorf("Distance = %f, want %f±0.1", validation.Distance, tc.distance)
			}
		})
	}
}

func TestValidateLocations_SamePoint(t *testing.T) {
	origin := domain.Coordinate{Latitude: 10, Longitude: 10}
	validator := anticheat.NewLocationValidator()

	validation := validator.ValidateLocations(origin, origin)
	if validation.IsValid {
		t.Error("zero distance should be invalid")
	}
	if validation.Distance != 0 {
		t.Errorf("Distance = %f, want 0", validation.Distance)
	}
}
