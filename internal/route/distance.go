package route

import (
	"errors"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
)

var ErrEmptyRoute = errors.New("route has zero length")

// Trace holds cumulative distances in meters, parallel to the route points.
type Trace struct {
	Distances []float64
	Total     float64
}

func Accumulate(points []geo.Point) (Trace, error) {
	if len(points) == 0 {
		return Trace{}, ErrEmptyRoute
	}
	distances := make([]float64, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geo.HaversineMeters(points[i-1], points[i])
		distances[i] = total
	}
	if total == 0 {
		return Trace{Distances: distances}, ErrEmptyRoute
	}
	return Trace{Distances: distances, Total: total}, nil
}
