package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tormoder/fit"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/activity"
)

const routeGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg>
    <trkpt lat="31.2300" lon="121.4700"></trkpt>
    <trkpt lat="31.2320" lon="121.4710"></trkpt>
    <trkpt lat="31.2330" lon="121.4740"></trkpt>
    <trkpt lat="31.2310" lon="121.4750"></trkpt>
  </trkseg></trk>
</gpx>`

func writeRoute(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loop.gpx")
	if err := os.WriteFile(path, []byte(routeGPX), 0o644); err != nil {
		t.Fatalf("write route: %v", err)
	}
	return path
}

func TestParsePaces(t *testing.T) {
	paces, err := parsePaces("330, 345,")
	if err != nil || len(paces) != 2 || paces[1] != 345 {
		t.Fatalf("unexpected paces %v %v", paces, err)
	}
	for _, bad := range []string{"", "fast", "-1", "0"} {
		if _, err := parsePaces(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestRunWritesOneFilePerPace(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	var progress bytes.Buffer
	written, err := run(context.Background(), options{
		input:    writeRoute(t),
		outDir:   out,
		starts:   []string{"2024-05-01T07:00:00Z"},
		paces:    []float64{330, 345},
		laps:     3,
		hrRest:   58,
		hrMax:    182,
		seed:     7,
		format:   "fit",
		progress: &progress,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(written) != 2 || filepath.Base(written[0]) != "run_1.fit" || filepath.Base(written[1]) != "run_2.fit" {
		t.Fatalf("unexpected files %v", written)
	}
	for _, path := range written {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		decoded, err := fit.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		act, err := decoded.Activity()
		if err != nil || len(act.Records) != 15 {
			t.Fatalf("%s: unexpected activity", path)
		}
	}
	if progress.Len() == 0 {
		t.Fatalf("expected progress output")
	}
}

func TestStartTimes(t *testing.T) {
	got, err := startTimes([]string{"2024-05-01T07:00:00Z", "", "2024-05-10T18:30"}, 4)
	if err != nil {
		t.Fatalf("start times: %v", err)
	}
	want := []time.Time{
		time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC),
		time.Date(2024, 5, 4, 7, 0, 0, 0, time.UTC),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("start %d: got %v, want %v", i, got[i], want[i])
		}
	}

	for _, bad := range [][]string{nil, {""}, {"2024-05-01", "later"}} {
		if _, err := startTimes(bad, 2); !errors.Is(err, activity.ErrInvalidInput) {
			t.Fatalf("%v: expected invalid input, got %v", bad, err)
		}
	}
}

func TestRunStartsEachPaceOnItsOwnDay(t *testing.T) {
	written, err := run(context.Background(), options{
		input:  writeRoute(t),
		outDir: t.TempDir(),
		starts: []string{"2024-05-01T07:00:00Z"},
		paces:  []float64{330, 345, 360},
		laps:   1,
		hrRest: 60,
		hrMax:  180,
		seed:   3,
		format: "fit",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i, path := range written {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		decoded, err := fit.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		act, err := decoded.Activity()
		if err != nil || len(act.Sessions) != 1 {
			t.Fatalf("%s: unexpected activity", path)
		}
		want := time.Date(2024, 5, 1+i, 7, 0, 0, 0, time.UTC)
		if !decoded.FileId.TimeCreated.Equal(want) || !act.Sessions[0].StartTime.Equal(want) {
			t.Fatalf("%s: start %v, want %v", path, act.Sessions[0].StartTime, want)
		}
	}
}

func TestRunDeterministicUnderSeed(t *testing.T) {
	route := writeRoute(t)
	opts := options{input: route, starts: []string{"2024-05-01T07:00:00Z"}, paces: []float64{330}, laps: 2, hrRest: 60, hrMax: 180, seed: 11, format: "gpx"}

	opts.outDir = t.TempDir()
	a, err := run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	opts.outDir = t.TempDir()
	b, err := run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	first, _ := os.ReadFile(a[0])
	second, _ := os.ReadFile(b[0])
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output under the same seed")
	}
}

func TestRunErrors(t *testing.T) {
	route := writeRoute(t)
	base := options{input: route, outDir: t.TempDir(), starts: []string{"2024-05-01T07:00:00Z"}, paces: []float64{330}, laps: 1, hrRest: 60, hrMax: 180, seed: 1, format: "fit"}

	opts := base
	opts.input = filepath.Join(t.TempDir(), "route.kml")
	if _, err := run(context.Background(), opts); err == nil {
		t.Fatalf("expected error for unknown extension")
	}

	opts = base
	opts.starts = []string{"soon"}
	if _, err := run(context.Background(), opts); !errors.Is(err, activity.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
