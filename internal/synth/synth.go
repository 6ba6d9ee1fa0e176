// Package synth turns a route and its cumulative distances into a
// time-stamped running activity whose elapsed time matches the requested pace.
package synth

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/route"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
)

// Pacing waveform.
const (
	baseSpeedFactorMin   = 0.98
	baseSpeedFactorRange = 0.06
	longWaveAmplitude    = 0.04
	shortWaveAmplitude   = 0.02
	shortWaveCycles      = 3.0
)

// Intensity profile breakpoints and levels, as fractions of route distance.
const (
	warmupEnd        = 0.1
	steadyEnd        = 0.8
	warmupStartLevel = 0.4
	warmupEndLevel   = 0.8
	steadyLevel      = 0.8
	steadySwing      = 0.05
	kickStartLevel   = 0.85
	kickEndLevel     = 0.95

	profileWeight = 0.7
	effortWeight  = 0.3
)

// Heart-rate response.
const (
	hrSmoothing   = 0.15
	hrJitterRange = 3.0
)

var (
	ErrNoDistance    = errors.New("total distance must be positive")
	ErrTraceMismatch = errors.New("trace length does not match route")
	ErrInvalidParams = errors.New("invalid synthesis parameters")
)

// NewRand returns a generator owned by the caller, reproducible from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// hrSmoother carries the exponentially smoothed heart rate across samples.
type hrSmoother struct {
	current float64
	rest    float64
	max     float64
}

func newHRSmoother(rest, max int) *hrSmoother {
	return &hrSmoother{current: float64(rest), rest: float64(rest), max: float64(max)}
}

func (h *hrSmoother) next(intensity, jitter float64) int {
	target := h.rest + (h.max-h.rest)*intensity
	h.current += (target - h.current) * hrSmoothing
	return int(math.Round(clamp(h.current+jitter, h.rest, h.max)))
}

// Synthesize builds the sample sequence for points. rng supplies the
// per-call speed factor, wave phases and heart-rate jitter.
func Synthesize(rng *rand.Rand, points []geo.Point, trace route.Trace, p Params) (Result, error) {
	if trace.Total <= 0 {
		return Result{}, ErrNoDistance
	}
	if len(trace.Distances) != len(points) || len(points) == 0 {
		return Result{}, ErrTraceMismatch
	}
	if p.PaceSecondsPerKm <= 0 || p.HRRest >= p.HRMax {
		return Result{}, ErrInvalidParams
	}

	targetDuration := trace.Total / 1000 * p.PaceSecondsPerKm
	avgSpeed := trace.Total / targetDuration

	baseFactor := baseSpeedFactorMin + rng.Float64()*baseSpeedFactorRange
	phase1 := rng.Float64() * 2 * math.Pi
	phase2 := rng.Float64() * 2 * math.Pi

	n := len(points)
	speedRaw := make([]float64, n)
	heartRates := make([]int, n)
	hr := newHRSmoother(p.HRRest, p.HRMax)

	for i := range points {
		frac := trace.Distances[i] / trace.Total
		wave := longWaveAmplitude*math.Sin(2*math.Pi*frac+phase1) +
			shortWaveAmplitude*math.Sin(2*math.Pi*shortWaveCycles*frac+phase2)
		speedRaw[i] = avgSpeed * baseFactor * (1 + wave)

		effort := clamp(speedRaw[i]/avgSpeed, 0, 1)
		intensity := clamp(profileWeight*intensityBase(frac)+effortWeight*effort, 0, 1)
		jitter := (rng.Float64() - 0.5) * hrJitterRange
		heartRates[i] = hr.next(intensity, jitter)
	}

	segments := make([]float64, n)
	rawDuration := 0.0
	for i := 1; i < n; i++ {
		v := speedRaw[i]
		if v <= 0 {
			v = avgSpeed
		}
		segments[i] = (trace.Distances[i] - trace.Distances[i-1]) / v
		rawDuration += segments[i]
	}

	scale := 1.0
	if rawDuration > 0 {
		scale = targetDuration / rawDuration
	}

	samples := make([]Sample, n)
	elapsed := 0.0
	for i, pt := range points {
		elapsed += segments[i] * scale
		samples[i] = Sample{
			TimeSec:   elapsed,
			Distance:  trace.Distances[i],
			Speed:     speedRaw[i] / scale,
			HeartRate: heartRates[i],
			Lat:       pt.Lat,
			Lng:       pt.Lng,
		}
	}

	return Result{
		TotalDistanceMeters: trace.Total,
		TotalDurationSec:    samples[n-1].TimeSec,
		Samples:             samples,
	}, nil
}

// intensityBase is the warm-up, steady and finishing-kick effort curve.
func intensityBase(frac float64) float64 {
	switch {
	case frac < warmupEnd:
		f := frac / warmupEnd
		return warmupStartLevel + (warmupEndLevel-warmupStartLevel)*f
	case frac < steadyEnd:
		f := (frac - warmupEnd) / (steadyEnd - warmupEnd)
		return steadyLevel + steadySwing*math.Sin(2*math.Pi*f)
	default:
		f := (frac - steadyEnd) / (1 - steadyEnd)
		return kickStartLevel + (kickEndLevel-kickStartLevel)*f
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
