package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmKnownPairs(t *testing.T) {
	// Sydney Opera House to Melbourne CBD is roughly 714 km.
	got := DistanceKm(-33.8568, 151.2153, -37.8136, 144.9631)
	assert.InDelta(t, 714, got, 5)

	// Identical points.
	assert.Zero(t, DistanceKm(-33.8568, 151.2153, -33.8568, 151.2153))
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := DistanceKm(-27.4698, 153.0251, -27.5598, 153.1251)
	b := DistanceKm(-27.5598, 153.1251, -27.4698, 153.0251)
	assert.InDelta(t, a, b, 1e-9)
}
