package encode

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatFIT Format = "fit"
	FormatGPX Format = "gpx"
	FormatCSV Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatFIT:
		return FormatFIT, nil
	case FormatGPX:
		return FormatGPX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatGPX:
		return "application/gpx+xml"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/vnd.ant.fit"
	}
}

// FileName follows the run_<variant>.<ext> convention.
func (f Format) FileName(variant int) string {
	return fmt.Sprintf("run_%d.%s", variant, f)
}
