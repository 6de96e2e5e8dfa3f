package utils

import (
	"math"
	"testing"
)

func TestHaversineDistanceKnownPoints(t *testing.T) {
	// Lisbon to Porto is roughly 274 km
	distance := HaversineDistance(38.7223, -9.1393, 41.1579, -8.6291)
	if math.Abs(distance-274) > 10 {
		t.Errorf("Lisbon-Porto distance = %.1f km, want ~274", distance)
	}
}

func TestHaversineDistanceZero(t *testing.T) {
	if d := HaversineDistance(40.0, -8.0, 40.0, -8.0); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	ab := HaversineDistance(38.7223, -9.1393, 41.1579, -8.6291)
	ba := HaversineDistance(41.1579, -8.6291, 38.7223, -9.1393)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestIsLocationValid(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {38.7, -9.1}}
	invalid := [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}}

	for _, p := range valid {
		if !IsLocationValid(p[0], p[1]) {
			t.Errorf("IsLocationValid(%v) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if IsLocationValid(p[0], p[1]) {
			t.Errorf("IsLocationValid(%v) = true, want false", p)
		}
	}
}
