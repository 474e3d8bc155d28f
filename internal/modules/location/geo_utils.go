// README: Great-circle distance helpers (pure functions).
package location

import (
	"math"

	"ttrentals/internal/types"
)

// Mean Earth radius in statute miles.
const earthRadiusMiles = 3958.8

// HaversineMiles returns the great-circle distance in miles between two
// coordinates in decimal degrees.
func HaversineMiles(a, b types.Coordinate) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
