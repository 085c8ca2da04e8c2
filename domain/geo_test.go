package domain

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestBearing_CardinalDirections(t *testing.T) {
	origin := Coordinate{Latitude: 0, Longitude: 0}

	cases := []struct {
		name string
		to   Coordinate
		want float64
	}{
		{"north", Coordinate{Latitude: 1, Longitude: 0}, 0},
		{"east", Coordinate{Latitude: 0, Longitude: 1}, 90},
		{"south", Coordinate{Latitude: -1, Longitude: 0}, 180},
		{"west", Coordinate{Latitude: 0, Longitude: -1}, 270},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Bearing(origin, tc.to)
			if math.Abs(got-tc.want) > 0.1 {
				t.Errorf("Bearing = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestBearing_SamePoint(t *testing.T) {
	p := Coordinate{Latitude: 35.0, Longitude: 139.0}
	if got := Bearing(p, p); got != 0 {
		t.Errorf("Bearing = %f, want 0", got)
	}
}

func TestDistance_SamePoint(t *testing.T) {
	p := Coordinate{Latitude: 35.0, Longitude: 139.0}
	if got := Distance(p, p); got != 0 {
		t.Errorf("Distance = %f, want 0", got)
	}
}

func TestDistance_OneDegreeAtEquator(t *testing.T) {
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 1}

	// 赤道上の経度1度 ≈ 111.2km
	got := Distance(a, b)
	want := 111_195.0
	if math.Abs(got-want) > 100 {
		t.Errorf("Distance = %f, want %f±100", got, want)
	}
}

func TestDistance_Symmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Coordinate{
			Latitude:  rapid.Float64Range(-90, 90).Draw(t, "lat1"),
			Longitude: rapid.Float64Range(-180, 180).Draw(t, "lon1"),
		}
		b := Coordinate{
			Latitude:  rapid.Float64Range(-90, 90).Draw(t, "lat2"),
			Longitude: rapid.Float64Range(-180, 180).Draw(t, "lon2"),
		}

		ab := Distance(a, b)
		ba := Distance(b, a)
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("Distance(a,b) = %f, Distance(b,a) = %f", ab, ba)
		}
	})
}

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{90, 90, 0},
		{0, 90, 90},
		{0, 180, 180},
		{350, 10, 20}, // 0/360付近の折り返し
		{10, 350, 20},
		{359, 1, 2},
	}

	for _, tc := range cases {
		got := AngleBetween(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("AngleBetween(%f, %f) = %f, want %f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{720, 0},
	}

	for _, tc := range cases {
		if got := NormalizeDegrees(tc.in); got != tc.want {
			t.Errorf("NormalizeDegrees(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
