package geo

import "math"

const (
	EarthRadiusMeters = 6371000.0
	MetersPerDegLat   = 111320.0

	semicircleFactor = 2147483648.0 / 180.0
)

// Point is a WGS84 position in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineMeters returns the great-circle distance between a and b.
func HaversineMeters(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Offset shifts p by the given meters using a local flat-earth approximation.
func Offset(p Point, northMeters, eastMeters float64) Point {
	metersPerDegLng := MetersPerDegLat * math.Cos(toRad(p.Lat))
	return Point{
		Lat: p.Lat + northMeters/MetersPerDegLat,
		Lng: p.Lng + eastMeters/metersPerDegLng,
	}
}

// ToSemicircles saturates at the int32 range, so +180 maps to MaxInt32.
func ToSemicircles(deg float64) int32 {
	v := math.Round(deg * semicircleFactor)
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

func FromSemicircles(s int32) float64 {
	return float64(s) / semicircleFactor
}

// Valid reports whether p is a finite coordinate inside the WGS84 range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
