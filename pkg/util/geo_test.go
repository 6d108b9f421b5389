package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	t.Run("Equator", func(t *testing.T) {
		minLat, maxLat, minLon, maxLon := BoundingBox(0, 0, 111.12)
		assert.InDelta(t, -1.0, minLat, 1e-9)
		assert.InDelta(t, 1.0, maxLat, 1e-9)
		assert.InDelta(t, -1.0, minLon, 1e-9)
		assert.InDelta(t, 1.0, maxLon, 1e-9)
	})

	t.Run("Longitude widens with latitude", func(t *testing.T) {
		// Ankara
		minLat, maxLat, minLon, maxLon := BoundingBox(39.93, 32.85, 10)
		assert.InDelta(t, 10/111.12, maxLat-39.93, 1e-9)
		assert.InDelta(t, maxLat-39.93, 39.93-minLat, 1e-9)
		assert.Greater(t, maxLon-32.85, maxLat-39.93)
		assert.InDelta(t, maxLon-32.85, 32.85-minLon, 1e-9)
	})

	t.Run("Zero radius", func(t *testing.T) {
		minLat, maxLat, minLon, maxLon := BoundingBox(41.0, 29.0, 0)
		assert.Equal(t, 41.0, minLat)
		assert.Equal(t, 41.0, maxLat)
		assert.Equal(t, 29.0, minLon)
		assert.Equal(t, 29.0, maxLon)
	})
}
