package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// SampleCount is the fixed length of every synthetic series.
const SampleCount = 5

var (
	// ErrInvalidRange reports a range whose start is after its end.
	ErrInvalidRange = errors.New("date range start must not be after end")
	// ErrInvalidProfile reports a profile that cannot produce finite values.
	ErrInvalidProfile = errors.New("invalid metric profile")
)

// DateRange is the closed interval a series is spread across.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate rejects inverted ranges. Start == End is accepted.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// Profile holds the static synthesis parameters of one metric.
type Profile struct {
	Baseline float64 `json:"baseline"`
	// Variance is the noise amplitude as a fraction of Baseline.
	Variance float64 `json:"variance"`
	// Trend is the total drift added across the window, scaled by i/5.
	Trend    float64 `json:"trend"`
	Seasonal bool    `json:"seasonal"`
}

// Validate rejects non-finite fields, a negative baseline and a negative variance.
func (p Profile) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"baseline", p.Baseline},
		{"variance", p.Variance},
		{"trend", p.Trend},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidProfile, f.name)
		}
	}
	if p.Baseline < 0 {
		return fmt.Errorf("%w: baseline cannot be negative", ErrInvalidProfile)
	}
	if p.Variance < 0 {
		return fmt.Errorf("%w: variance cannot be negative", ErrInvalidProfile)
	}
	return nil
}

// Ceiling is the upper clamp applied to every value.
func (p Profile) Ceiling() float64 {
	return p.Baseline * 2
}

// Sample is one dated point of a series.
type Sample struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// Time returns the sample instant in UTC.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp).UTC()
}

// Series is an ordered run of SampleCount samples.
type Series []Sample

// Latest returns the last sample, used as the "current" reading.
func (s Series) Latest() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// Values returns the sample values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Value
	}
	return out
}

// Times returns the sample instants in order.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s))
	for i, sample := range s {
		out[i] = sample.Time()
	}
	return out
}
