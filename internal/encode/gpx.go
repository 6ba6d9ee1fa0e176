package encode

import (
	"fmt"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/synth"
)

const gpxCreator = "fitGenerator"

func BuildGPX(name string, start time.Time, res synth.Result) *gpx.GPX {
	start = start.UTC()

	segment := gpx.GPXTrackSegment{}
	for _, s := range res.Samples {
		var p gpx.GPXPoint
		p.Latitude = s.Lat
		p.Longitude = s.Lng
		p.Timestamp = start.Add(seconds(s.TimeSec))
		segment.Points = append(segment.Points, p)
	}

	doc := &gpx.GPX{}
	doc.Creator = gpxCreator
	doc.Name = name
	doc.Time = &start
	doc.Tracks = append(doc.Tracks, gpx.GPXTrack{
		Name:     name,
		Type:     "running",
		Segments: []gpx.GPXTrackSegment{segment},
	})
	return doc
}

func EncodeGPX(name string, start time.Time, res synth.Result) ([]byte, error) {
	if len(res.Samples) == 0 {
		return nil, fmt.Errorf("encode gpx: no samples")
	}
	data, err := BuildGPX(name, start, res).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encode gpx: %w", err)
	}
	return data, nil
}
