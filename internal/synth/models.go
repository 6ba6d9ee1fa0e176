package synth

type Params struct {
	PaceSecondsPerKm float64
	HRRest           int
	HRMax            int
}

type Sample struct {
	TimeSec   float64 `json:"timeSec" csv:"time_sec"`
	Distance  float64 `json:"distance" csv:"distance_m"`
	Speed     float64 `json:"speed" csv:"speed_mps"`
	HeartRate int     `json:"heartRate" csv:"heart_rate"`
	Lat       float64 `json:"lat" csv:"lat"`
	Lng       float64 `json:"lng" csv:"lng"`
}

type Result struct {
	TotalDistanceMeters float64  `json:"totalDistanceMeters"`
	TotalDurationSec    float64  `json:"totalDurationSec"`
	Samples             []Sample `json:"samples"`
}

// AvgSpeed is the mean speed over the whole activity in m/s.
func (r Result) AvgSpeed() float64 {
	if r.TotalDurationSec <= 0 {
		return 0
	}
	return r.TotalDistanceMeters / r.TotalDurationSec
}

func (r Result) MaxHeartRate() int {
	maxHR := 0
	for _, s := range r.Samples {
		if s.HeartRate > maxHR {
			maxHR = s.HeartRate
		}
	}
	return maxHR
}

func (r Result) AvgHeartRate() int {
	if len(r.Samples) == 0 {
		return 0
	}
	sum := 0
	for _, s := range r.Samples {
		sum += s.HeartRate
	}
	return int(float64(sum)/float64(len(r.Samples)) + 0.5)
}
