package route

import (
	"math"
	"math/rand/v2"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
)

const (
	ClosedThresholdMeters = 5.0
	NoiseRadiusMinMeters  = 5.0
	NoiseRadiusMaxMeters  = 10.0
)

// LapOffset is the lateral shift applied to every point of one lap.
type LapOffset struct {
	NorthMeters float64
	EastMeters  float64
}

func (o LapOffset) Radius() float64 {
	return math.Hypot(o.NorthMeters, o.EastMeters)
}

// CloseLoop appends the first point when the route does not already end
// within ClosedThresholdMeters of where it started.
func CloseLoop(points []geo.Point) []geo.Point {
	if len(points) < 2 {
		return points
	}
	first, last := points[0], points[len(points)-1]
	if geo.HaversineMeters(first, last) < ClosedThresholdMeters {
		return points
	}
	closed := make([]geo.Point, len(points), len(points)+1)
	copy(closed, points)
	return append(closed, first)
}

// ExpandLaps repeats base lapCount times. With addNoise and more than one
// lap, each lap is shifted by its own random offset drawn from rng.
func ExpandLaps(base []geo.Point, lapCount int, addNoise bool, rng *rand.Rand) []geo.Point {
	points, _ := expand(base, lapCount, addNoise, rng)
	return points
}

func expand(base []geo.Point, lapCount int, addNoise bool, rng *rand.Rand) ([]geo.Point, []LapOffset) {
	if lapCount < 1 {
		lapCount = 1
	}
	noisy := addNoise && lapCount > 1 && rng != nil

	points := make([]geo.Point, 0, len(base)*lapCount)
	var offsets []LapOffset
	for lap := 0; lap < lapCount; lap++ {
		if !noisy {
			points = append(points, base...)
			continue
		}
		off := drawOffset(rng)
		offsets = append(offsets, off)
		for _, p := range base {
			points = append(points, geo.Offset(p, off.NorthMeters, off.EastMeters))
		}
	}
	return points, offsets
}

func drawOffset(rng *rand.Rand) LapOffset {
	radius := NoiseRadiusMinMeters + rng.Float64()*(NoiseRadiusMaxMeters-NoiseRadiusMinMeters)
	bearing := rng.Float64() * 2 * math.Pi
	return LapOffset{
		NorthMeters: radius * math.Cos(bearing),
		EastMeters:  radius * math.Sin(bearing),
	}
}
