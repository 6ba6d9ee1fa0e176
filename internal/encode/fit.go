package encode

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/kit/scaleoffset"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/synth"
)

const (
	fitProduct      = 1
	fitSerialNumber = 1
)

// Profile scales for the FIT fields written below.
const (
	distanceScale = 100
	speedScale    = 1000
	timeScale     = 1000

	// 0xFFFF is the invalid marker for uint16 fields.
	maxSpeed16 = math.MaxUint16 - 1
)

// FITMessages lays out the activity in file order: file id, device info,
// session, activity, then one record per sample.
func FITMessages(start time.Time, res synth.Result) []proto.Message {
	start = start.UTC()
	end := start.Add(seconds(res.TotalDurationSec))
	elapsed := scaled(res.TotalDurationSec, timeScale)
	avgSpeed := scaled(res.AvgSpeed(), speedScale)

	fileID := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(fitProduct).
		SetTimeCreated(start)

	deviceInfo := mesgdef.NewDeviceInfo(nil).
		SetTimestamp(start).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(fitProduct).
		SetSerialNumber(fitSerialNumber)

	session := mesgdef.NewSession(nil).
		SetTimestamp(end).
		SetStartTime(start).
		SetTotalElapsedTime(elapsed).
		SetTotalTimerTime(elapsed).
		SetTotalDistance(scaled(res.TotalDistanceMeters, distanceScale)).
		SetEnhancedAvgSpeed(avgSpeed).
		SetSport(typedef.SportRunning).
		SetSubSport(typedef.SubSportGeneric)
	if v, ok := speed16(avgSpeed); ok {
		session.SetAvgSpeed(v)
	}
	if avg := res.AvgHeartRate(); avg > 0 {
		session.SetAvgHeartRate(uint8(avg)).SetMaxHeartRate(uint8(res.MaxHeartRate()))
	}

	activity := mesgdef.NewActivity(nil).
		SetTimestamp(end).
		SetTotalTimerTime(elapsed).
		SetNumSessions(1).
		SetType(typedef.ActivityManual)

	mesgs := make([]proto.Message, 0, 4+len(res.Samples))
	mesgs = append(mesgs,
		fileID.ToMesg(nil),
		deviceInfo.ToMesg(nil),
		session.ToMesg(nil),
		activity.ToMesg(nil),
	)
	for _, s := range res.Samples {
		speed := scaled(s.Speed, speedScale)
		record := mesgdef.NewRecord(nil).
			SetTimestamp(start.Add(seconds(s.TimeSec))).
			SetPositionLat(geo.ToSemicircles(s.Lat)).
			SetPositionLong(geo.ToSemicircles(s.Lng)).
			SetDistance(scaled(s.Distance, distanceScale)).
			SetEnhancedSpeed(speed).
			SetHeartRate(uint8(s.HeartRate))
		if v, ok := speed16(speed); ok {
			record.SetSpeed(v)
		}
		mesgs = append(mesgs, record.ToMesg(nil))
	}
	return mesgs
}

// WriteFIT encodes the activity to w.
func WriteFIT(w io.Writer, start time.Time, res synth.Result) error {
	if len(res.Samples) == 0 {
		return fmt.Errorf("encode fit: no samples")
	}
	fit := proto.FIT{Messages: FITMessages(start, res)}
	if err := encoder.New(w).Encode(&fit); err != nil {
		return fmt.Errorf("encode fit: %w", err)
	}
	return nil
}

func EncodeFIT(start time.Time, res synth.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFIT(&buf, start, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// speed16 reports whether v fits the legacy speed field. Readers expand the
// legacy field over the enhanced one, so an out of range speed is left
// invalid rather than clamped.
func speed16(v uint32) (uint16, bool) {
	if v > maxSpeed16 {
		return 0, false
	}
	return uint16(v), true
}

func scaled(v, scale float64) uint32 {
	return uint32(math.Round(scaleoffset.Discard(v, scale, 0)))
}
