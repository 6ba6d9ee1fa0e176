package activity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/encode"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/synth"
)

// Number is a leniently decoded numeric field. It accepts JSON numbers,
// numeric strings and null; anything unparsable leaves it unset.
type Number struct {
	Value float64
	Set   bool
}

func Num(v float64) Number {
	return Number{Value: v, Set: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{Value: v, Set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

type PreviewRequest struct {
	StartTime        string      `json:"startTime"`
	Points           []geo.Point `json:"points"`
	PaceSecondsPerKm Number      `json:"paceSecondsPerKm"`
	HRRest           Number      `json:"hrRest"`
	HRMax            Number      `json:"hrMax"`
	LapCount         Number      `json:"lapCount"`
	Seed             *uint64     `json:"seed,omitempty"`
	DraftID          string      `json:"draftId,omitempty"`
}

type ExportRequest struct {
	PreviewRequest
	VariantIndex Number `json:"variantIndex"`
	Format       string `json:"format"`
}

// Run is a synthesized export variant before encoding.
type Run struct {
	Format  encode.Format
	Variant int
	Start   time.Time
	Result  synth.Result
}

// VariantConfig is one file of a batch export. A blank StartTime falls back
// to the shared startTime shifted by one day per variant position.
type VariantConfig struct {
	VariantIndex     Number `json:"variantIndex"`
	PaceSecondsPerKm Number `json:"paceSecondsPerKm"`
	StartTime        string `json:"startTime,omitempty"`
}

// BatchRequest shares route and heart-rate settings across variants. A
// variant without a pace falls back to the shared paceSecondsPerKm.
type BatchRequest struct {
	PreviewRequest
	Variants []VariantConfig `json:"variants"`
}

type ImportResponse struct {
	Points []geo.Point `json:"points"`
}

// File is an encoded export ready to be written out.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	ExportIDs   []string
	Result      synth.Result
}
