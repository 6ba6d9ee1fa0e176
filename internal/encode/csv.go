package encode

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/synth"
)

// EncodeCSV writes one row per sample with a header line.
func EncodeCSV(samples []synth.Sample) ([]byte, error) {
	if samples == nil {
		samples = []synth.Sample{}
	}
	data, err := gocsv.MarshalBytes(&samples)
	if err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return data, nil
}
