package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/activity"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/importer"

	"github.com/schollz/progressbar/v3"
)

type options struct {
	input    string
	outDir   string
	starts   []string
	paces    []float64
	laps     int
	hrRest   int
	hrMax    int
	seed     int64
	format   string
	progress io.Writer
}

func main() {
	var (
		inputFile = flag.String("i", "", "Input route file (.gpx, .geojson or .fit)")
		outDir    = flag.String("o", ".", "Output directory")
		start     = flag.String("start", "", "Comma separated start times, one per pace; missing ones follow the first a day apart")
		paces     = flag.String("pace", "360", "Comma separated paces in seconds per km, one file per pace")
		laps      = flag.Int("laps", 1, "Number of laps")
		hrRest    = flag.Int("hr-rest", activity.DefaultHRRest, "Resting heart rate")
		hrMax     = flag.Int("hr-max", activity.DefaultHRMax, "Maximum heart rate")
		seed      = flag.Int64("seed", -1, "Random seed (random if negative)")
		format    = flag.String("format", "fit", "Output format: fit or gpx")
	)

	flag.Usage = func() {
		fmt.Printf("fitgen - generate running activities from a route\n\n")
		fmt.Printf("usage: fitgen -i route.gpx -start 2024-05-01T07:00:00Z [options]\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  fitgen -i loop.gpx -start 2024-05-01T07:00:00Z -pace 330,345 -laps 3 -o out/\n")
		fmt.Printf("  fitgen -i park.geojson -start 2024-05-01,2024-05-03T18:30 -pace 360,350 -format gpx\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *inputFile == "" || *start == "" {
		flag.Usage()
		os.Exit(2)
	}

	paceList, err := parsePaces(*paces)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	opts := options{
		input:    *inputFile,
		outDir:   *outDir,
		starts:   strings.Split(*start, ","),
		paces:    paceList,
		laps:     *laps,
		hrRest:   *hrRest,
		hrMax:    *hrMax,
		seed:     *seed,
		format:   *format,
		progress: os.Stderr,
	}
	written, err := run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("wrote %s\n", path)
	}
}

func parsePaces(s string) ([]float64, error) {
	var paces []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid pace %q", part)
		}
		paces = append(paces, v)
	}
	if len(paces) == 0 {
		return nil, errors.New("at least one pace is required")
	}
	return paces, nil
}

// startTimes resolves one start per pace. Blank or missing entries fall
// back to the first start shifted by one day per position.
func startTimes(starts []string, n int) ([]time.Time, error) {
	if len(starts) == 0 {
		starts = []string{""}
	}
	first, err := activity.ParseStartTime(starts[0])
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, n)
	for i := range times {
		if i < len(starts) && strings.TrimSpace(starts[i]) != "" {
			if times[i], err = activity.ParseStartTime(starts[i]); err != nil {
				return nil, err
			}
			continue
		}
		times[i] = first.AddDate(0, 0, i)
	}
	return times, nil
}

// run generates one file per pace and returns the written paths.
func run(ctx context.Context, opts options) ([]string, error) {
	starts, err := startTimes(opts.starts, len(opts.paces))
	if err != nil {
		return nil, err
	}
	format, err := importer.FormatFromPath(opts.input)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return nil, err
	}
	points, err := importer.Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("read route %s: %w", opts.input, err)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, err
	}

	seed := uint64(opts.seed)
	if opts.seed < 0 {
		seed = rand.Uint64()
	}

	progress := opts.progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(opts.paces),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Generating"),
	)

	svc := activity.NewService(nil, nil, nil)
	var written []string
	for i, pace := range opts.paces {
		variant := i + 1
		variantSeed := seed + uint64(variant)
		r, err := svc.Generate(ctx, activity.ExportRequest{
			PreviewRequest: activity.PreviewRequest{
				StartTime:        starts[i].Format(time.RFC3339Nano),
				Points:           points,
				PaceSecondsPerKm: activity.Num(pace),
				HRRest:           activity.Num(float64(opts.hrRest)),
				HRMax:            activity.Num(float64(opts.hrMax)),
				LapCount:         activity.Num(float64(opts.laps)),
				Seed:             &variantSeed,
			},
			VariantIndex: activity.Num(float64(variant)),
			Format:       opts.format,
		})
		if err != nil {
			return written, err
		}

		path := filepath.Join(opts.outDir, r.FileName())
		if err := writeRun(path, r); err != nil {
			return written, err
		}
		written = append(written, path)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return written, nil
}

func writeRun(path string, r activity.Run) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := r.Encode(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Close()
}
