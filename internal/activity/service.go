// Package activity validates generation requests and runs the route,
// synthesis and encoding pipeline for previews and exports.
package activity

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/auth"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/encode"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/route"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/storage"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/stream"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/synth"
)

const batchFileName = "runs.zip"

// RouteSource resolves a saved draft into its points.
type RouteSource interface {
	Points(ctx context.Context, id string) ([]geo.Point, error)
}

type Archive interface {
	SaveExport(ctx context.Context, e storage.Export) (storage.Export, error)
}

type Publisher interface {
	Publish(ownerID string, ev stream.Event)
}

type Service struct {
	drafts  RouteSource
	archive Archive
	events  Publisher
	seedFn  func() uint64
}

// NewService wires the optional collaborators; any of them may be nil.
func NewService(drafts RouteSource, archive Archive, events Publisher) *Service {
	return &Service{
		drafts:  drafts,
		archive: archive,
		events:  events,
		seedFn:  rand.Uint64,
	}
}

// Preview synthesizes the activity without lap noise and without encoding.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (synth.Result, error) {
	p, err := s.plan(ctx, req, req.PaceSecondsPerKm)
	if err != nil {
		return synth.Result{}, err
	}
	return generate(p, false, synth.NewRand(s.seed(req.Seed)))
}

// Generate synthesizes one variant with lap noise, leaving the encoding to
// the caller.
func (s *Service) Generate(ctx context.Context, req ExportRequest) (Run, error) {
	format, err := encode.ParseFormat(req.Format)
	if err != nil || format == encode.FormatCSV {
		return Run{}, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, req.Format)
	}
	p, err := s.plan(ctx, req.PreviewRequest, req.PaceSecondsPerKm)
	if err != nil {
		return Run{}, err
	}

	res, err := generate(p, true, synth.NewRand(s.seed(req.Seed)))
	if err != nil {
		return Run{}, err
	}
	return Run{Format: format, Variant: count(req.VariantIndex), Start: p.start, Result: res}, nil
}

// Export generates one variant and encodes it as FIT or GPX.
func (s *Service) Export(ctx context.Context, ownerID string, req ExportRequest) (File, error) {
	run, err := s.Generate(ctx, req)
	if err != nil {
		return File{}, err
	}
	data, err := run.encoded()
	if err != nil {
		return File{}, err
	}

	f := File{
		Name:        run.FileName(),
		ContentType: run.Format.ContentType(),
		Data:        data,
		Result:      run.Result,
	}
	if id := s.archiveFile(ctx, ownerID, run.Variant, run.Format, f); id != "" {
		f.ExportIDs = []string{id}
	}
	return f, nil
}

// ExportBatch generates one FIT file per variant and zips them. Each variant
// is normalized on its own and gets its own generator seeded from the
// request seed and its variant index. Variants without their own startTime
// run on consecutive days from the shared one.
func (s *Service) ExportBatch(ctx context.Context, ownerID string, req BatchRequest) (File, error) {
	if len(req.Variants) == 0 || len(req.Variants) > maxBatchVariants {
		return File{}, fmt.Errorf("%w: between 1 and %d variants are required", ErrInvalidInput, maxBatchVariants)
	}
	points, err := s.points(ctx, req.PreviewRequest)
	if err != nil {
		return File{}, err
	}
	seed := s.seed(req.Seed)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var ids []string
	seen := map[int]bool{}
	for i, v := range req.Variants {
		paceValue := v.PaceSecondsPerKm
		if !paceValue.Set {
			paceValue = req.PaceSecondsPerKm
		}
		vreq := req.PreviewRequest
		ownStart := strings.TrimSpace(v.StartTime) != ""
		if ownStart {
			vreq.StartTime = v.StartTime
		}
		p, err := newPlan(vreq, points, paceValue)
		if err != nil {
			return File{}, err
		}
		if !ownStart {
			p.start = p.start.AddDate(0, 0, i)
		}
		variant := count(v.VariantIndex)
		if seen[variant] {
			return File{}, fmt.Errorf("%w: duplicate variantIndex %d", ErrInvalidInput, variant)
		}
		seen[variant] = true

		res, err := generate(p, true, synth.NewRand(seed+uint64(variant)))
		if err != nil {
			return File{}, err
		}
		run := Run{Format: encode.FormatFIT, Variant: variant, Start: p.start, Result: res}
		data, err := run.encoded()
		if err != nil {
			return File{}, err
		}

		name := run.FileName()
		w, err := zw.Create(name)
		if err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		if _, err := w.Write(data); err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrEncoding, err)
		}

		f := File{Name: name, ContentType: encode.FormatFIT.ContentType(), Data: data, Result: res}
		if id := s.archiveFile(ctx, ownerID, variant, encode.FormatFIT, f); id != "" {
			ids = append(ids, id)
		}
	}
	if err := zw.Close(); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	return File{
		Name:        batchFileName,
		ContentType: "application/zip",
		Data:        buf.Bytes(),
		ExportIDs:   ids,
	}, nil
}

func (s *Service) plan(ctx context.Context, req PreviewRequest, paceValue Number) (plan, error) {
	points, err := s.points(ctx, req)
	if err != nil {
		return plan{}, err
	}
	return newPlan(req, points, paceValue)
}

// points returns the request points, or the draft's when draftId is set.
func (s *Service) points(ctx context.Context, req PreviewRequest) ([]geo.Point, error) {
	if req.DraftID == "" {
		return req.Points, nil
	}
	if s.drafts == nil {
		return nil, fmt.Errorf("%w: drafts are not available", ErrInvalidInput)
	}
	points, err := s.drafts.Points(ctx, req.DraftID)
	if err != nil {
		return nil, fmt.Errorf("%w: draft %s: %v", ErrInvalidInput, req.DraftID, err)
	}
	return points, nil
}

func (s *Service) seed(requested *uint64) uint64 {
	if requested != nil {
		return *requested
	}
	return s.seedFn()
}

// archiveFile stores the export and announces it. Failures are logged; the
// caller still gets the file. Anonymous exports are never stored or
// announced since no token can list them.
func (s *Service) archiveFile(ctx context.Context, ownerID string, variant int, format encode.Format, f File) string {
	if s.archive == nil || ownerID == "" || ownerID == auth.AnonymousOwner {
		return ""
	}
	saved, err := s.archive.SaveExport(ctx, storage.Export{
		OwnerID:      ownerID,
		VariantIndex: variant,
		Format:       string(format),
		FileName:     f.Name,
		DistanceM:    f.Result.TotalDistanceMeters,
		DurationSec:  f.Result.TotalDurationSec,
		Data:         f.Data,
	})
	if err != nil {
		log.Printf("archive export %s failed: %v", f.Name, err)
		return ""
	}
	if s.events != nil {
		s.events.Publish(ownerID, stream.Event{
			Type:      "export.created",
			ExportID:  saved.ID,
			FileName:  saved.FileName,
			Variant:   variant,
			DistanceM: saved.DistanceM,
			Duration:  saved.DurationSec,
		})
	}
	return saved.ID
}

// generate closes the route, repeats it per lap, and synthesizes samples.
// Lap noise and synthesis draw from rng in that order.
func generate(p plan, addNoise bool, rng *rand.Rand) (synth.Result, error) {
	closed := route.CloseLoop(p.points)
	expanded := route.ExpandLaps(closed, p.lapCount, addNoise, rng)

	trace, err := route.Accumulate(expanded)
	if errors.Is(err, route.ErrEmptyRoute) {
		return synth.Result{}, ErrDegenerateRoute
	}
	if err != nil {
		return synth.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res, err := synth.Synthesize(rng, expanded, trace, p.params)
	switch {
	case errors.Is(err, synth.ErrNoDistance):
		return synth.Result{}, ErrDegenerateRoute
	case errors.Is(err, synth.ErrInvalidParams):
		return synth.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case err != nil:
		return synth.Result{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return res, nil
}

// Encode streams the run in its format to w.
func (r Run) Encode(w io.Writer) error {
	var err error
	switch r.Format {
	case encode.FormatGPX:
		var data []byte
		data, err = encode.EncodeGPX(fmt.Sprintf("Run %d", r.Variant), r.Start, r.Result)
		if err == nil {
			_, err = w.Write(data)
		}
	default:
		err = encode.WriteFIT(w, r.Start, r.Result)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}

func (r Run) FileName() string {
	return r.Format.FileName(r.Variant)
}

func (r Run) encoded() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
