package activity

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/synth"
)

const (
	DefaultPaceSecondsPerKm = 360.0
	DefaultHRRest           = 60
	DefaultHRMax            = 180

	minPoints = 2

	hrRestFloor = 30
	hrRestCeil  = 120
	hrMaxFloor  = 100
	hrMaxCeil   = 220

	maxBatchVariants = 10
)

var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// plan is a validated request ready for the generation pipeline.
type plan struct {
	start    time.Time
	points   []geo.Point
	params   synth.Params
	lapCount int
}

// ParseStartTime accepts RFC 3339 or a bare UTC date and time.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: startTime %q is not a valid timestamp", ErrInvalidInput, s)
}

func validatePoints(points []geo.Point) error {
	if len(points) < minPoints {
		return fmt.Errorf("%w: at least %d points are required", ErrInvalidInput, minPoints)
	}
	for i, p := range points {
		if !p.Valid() {
			return fmt.Errorf("%w: point %d is out of range", ErrInvalidInput, i)
		}
	}
	return nil
}

func pace(n Number) float64 {
	if n.Set && n.Value > 0 {
		return n.Value
	}
	return DefaultPaceSecondsPerKm
}

// count floors positive values and falls back to 1.
func count(n Number) int {
	if n.Set && n.Value > 0 {
		if c := int(math.Floor(n.Value)); c >= 1 {
			return c
		}
	}
	return 1
}

func heartRates(rest, max Number) (int, int, error) {
	hrRest := DefaultHRRest
	if rest.Set {
		hrRest = int(math.Round(rest.Value))
	}
	hrMax := DefaultHRMax
	if max.Set {
		hrMax = int(math.Round(max.Value))
	}
	if hrRest >= hrMax {
		return 0, 0, fmt.Errorf("%w: hrRest %d must be below hrMax %d", ErrInvalidInput, hrRest, hrMax)
	}
	// Ordered raw values remain ordered after clamping.
	hrRest = clampInt(hrRest, hrRestFloor, hrRestCeil)
	hrMax = clampInt(hrMax, hrMaxFloor, hrMaxCeil)
	return hrRest, hrMax, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// newPlan validates everything but the points source, which the service
// resolves first.
func newPlan(req PreviewRequest, points []geo.Point, paceValue Number) (plan, error) {
	start, err := ParseStartTime(req.StartTime)
	if err != nil {
		return plan{}, err
	}
	if err := validatePoints(points); err != nil {
		return plan{}, err
	}
	hrRest, hrMax, err := heartRates(req.HRRest, req.HRMax)
	if err != nil {
		return plan{}, err
	}
	return plan{
		start:  start,
		points: points,
		params: synth.Params{
			PaceSecondsPerKm: pace(paceValue),
			HRRest:           hrRest,
			HRMax:            hrMax,
		},
		lapCount: count(req.LapCount),
	}, nil
}
