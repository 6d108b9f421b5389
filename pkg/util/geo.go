package util

import "math"

// kmPerDegree is the approximate length of one degree of latitude.
const kmPerDegree = 111.12

// BoundingBox returns the lat/lon rectangle enclosing a circle of radiusKm
// around (lat, lon). It is an approximation: points in the corners of the
// box lie further than radiusKm from the centre.
func BoundingBox(lat, lon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm / kmPerDegree
	lonDelta := radiusKm / (kmPerDegree * math.Cos(lat*math.Pi/180))
	return lat - latDelta, lat + latDelta, lon - lonDelta, lon + lonDelta
}
