// README: Distance estimate types.
package location

import "ttrentals/internal/types"

// DefaultRoadFactor approximates driving distance from straight-line distance.
const DefaultRoadFactor = 1.4

// DistanceResult is one origin/destination pair resolved to an approximate
// road distance.
type DistanceResult struct {
	Origin      types.Coordinate `json:"origin"`
	Destination types.Coordinate `json:"destination"`
	// GreatCircleMiles is unrounded.
	GreatCircleMiles float64 `json:"greatCircleMiles"`
	// RoadMiles is GreatCircleMiles times the road factor, rounded to 0.1 mi.
	RoadMiles float64 `json:"roadMiles"`
}
