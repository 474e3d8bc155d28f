// README: Distance estimator turns two coordinates into approximate road miles.
package location

import (
	"github.com/shopspring/decimal"

	"ttrentals/internal/types"
)

// Estimator is stateless and safe for concurrent use.
type Estimator struct {
	roadFactor float64
}

// NewEstimator returns an Estimator using roadFactor; values <= 0 fall back to
// DefaultRoadFactor.
func NewEstimator(roadFactor float64) *Estimator {
	if roadFactor <= 0 {
		roadFactor = DefaultRoadFactor
	}
	return &Estimator{roadFactor: roadFactor}
}

func (e *Estimator) RoadFactor() float64 {
	return e.roadFactor
}

// RoadMiles returns the great-circle distance between a and b scaled by the
// road factor and rounded half-up to one decimal place.
func (e *Estimator) RoadMiles(a, b types.Coordinate) float64 {
	return e.Estimate(a, b).RoadMiles
}

func (e *Estimator) Estimate(a, b types.Coordinate) DistanceResult {
	gc := HaversineMiles(a, b)
	road := decimal.NewFromFloat(gc).
		Mul(decimal.NewFromFloat(e.roadFactor)).
		Round(1)
	return DistanceResult{
		Origin:           a,
		Destination:      b,
		GreatCircleMiles: gc,
		RoadMiles:        road.InexactFloat64(),
	}
}
