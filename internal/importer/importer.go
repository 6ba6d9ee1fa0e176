// Package importer extracts a drawable route from uploaded GPX, GeoJSON or
// FIT files.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"
	"github.com/tormoder/fit"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
)

type Format string

const (
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
	FormatFIT     Format = "fit"
)

var (
	ErrNoPoints          = errors.New("route needs at least 2 points")
	ErrUnsupportedFormat = errors.New("unsupported route format")
)

// FormatFromPath guesses the route format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return FormatGPX, nil
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	case ".fit":
		return FormatFIT, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func Parse(format Format, data []byte) ([]geo.Point, error) {
	var (
		points []geo.Point
		err    error
	)
	switch Format(strings.ToLower(string(format))) {
	case FormatGPX:
		points, err = parseGPX(data)
	case FormatGeoJSON:
		points, err = parseGeoJSON(data)
	case FormatFIT:
		points, err = parseFIT(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, ErrNoPoints
	}
	return points, nil
}

func parseGPX(data []byte) ([]geo.Point, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}

	var points []geo.Point
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				points = append(points, geo.Point{Lat: p.Latitude, Lng: p.Longitude})
			}
		}
	}
	if len(points) == 0 {
		for _, r := range doc.Routes {
			for _, p := range r.Points {
				points = append(points, geo.Point{Lat: p.Latitude, Lng: p.Longitude})
			}
		}
	}
	if len(points) == 0 {
		for _, p := range doc.Waypoints {
			points = append(points, geo.Point{Lat: p.Latitude, Lng: p.Longitude})
		}
	}
	return points, nil
}

func parseGeoJSON(data []byte) ([]geo.Point, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := fc.UnmarshalJSON(data); err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		for _, f := range fc.Features {
			if points := lineFromGeometry(f.Geometry); len(points) > 0 {
				return points, nil
			}
		}
		return nil, nil
	case "Feature":
		var f geojson.Feature
		if err := f.UnmarshalJSON(data); err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		return lineFromGeometry(f.Geometry), nil
	default:
		var g geojson.Geometry
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		t, err := g.Decode()
		if err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		return lineFromGeometry(t), nil
	}
}

func lineFromGeometry(t geom.T) []geo.Point {
	var coords []geom.Coord
	switch g := t.(type) {
	case *geom.LineString:
		coords = g.Coords()
	case *geom.MultiLineString:
		if g.NumLineStrings() > 0 {
			coords = g.LineString(0).Coords()
		}
	case *geom.Polygon:
		if g.NumLinearRings() > 0 {
			coords = g.LinearRing(0).Coords()
		}
	}

	points := make([]geo.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, geo.Point{Lat: c.Y(), Lng: c.X()})
	}
	return points
}

func parseFIT(data []byte) ([]geo.Point, error) {
	file, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse fit: %w", err)
	}
	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("parse fit: %w", err)
	}

	var points []geo.Point
	for _, rec := range activity.Records {
		if rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			continue
		}
		points = append(points, geo.Point{
			Lat: geo.FromSemicircles(rec.PositionLat.Semicircles()),
			Lng: geo.FromSemicircles(rec.PositionLong.Semicircles()),
		})
	}
	return points, nil
}
