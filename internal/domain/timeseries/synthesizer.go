package timeseries

import (
	"math"
	"time"
)

// SamplePoints spreads SampleCount instants evenly across r, both ends included.
// Offsets are computed from Unix seconds and nanoseconds separately, so spans
// longer than time.Duration can hold still land on End.
func SamplePoints(r DateRange) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	const steps = SampleCount - 1
	secs := r.End.Unix() - r.Start.Unix()
	nanos := int64(r.End.Nanosecond() - r.Start.Nanosecond())
	loc := r.Start.Location()

	points := make([]time.Time, SampleCount)
	for i := range points {
		n := int64(i)
		whole := secs/steps*n + (secs%steps)*n/steps
		carry := (secs % steps) * n % steps
		frac := carry*int64(time.Second)/steps + nanos*n/steps
		points[i] = time.Unix(r.Start.Unix()+whole, int64(r.Start.Nanosecond())+frac).In(loc)
	}
	points[0] = r.Start
	points[steps] = r.End
	return points, nil
}

// Synthesizer generates synthetic series from metric profiles.
type Synthesizer struct {
	source Source
}

// NewSynthesizer builds a synthesizer; a nil source falls back to DefaultSource.
func NewSynthesizer(source Source) *Synthesizer {
	if source == nil {
		source = DefaultSource()
	}
	return &Synthesizer{source: source}
}

// Synthesize produces the SampleCount-point series for p over r.
func (s *Synthesizer) Synthesize(r DateRange, p Profile) (Series, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	points, err := SamplePoints(r)
	if err != nil {
		return nil, err
	}
	series := make(Series, len(points))
	for i, point := range points {
		value := s.valueAt(i, p)
		series[i] = Sample{
			Date:      point.UTC().Format("2006-01-02"),
			Value:     value,
			Timestamp: point.UnixMilli(),
		}
	}
	return series, nil
}

func (s *Synthesizer) valueAt(i int, p Profile) float64 {
	index := float64(i)
	count := float64(SampleCount)

	value := p.Baseline
	value += p.Trend * index / count
	if p.Seasonal {
		value += p.Baseline * 0.1 * math.Sin(2*math.Pi*index/count)
	}
	value += (s.source.Float64() - 0.5) * p.Variance * p.Baseline

	return math.Max(0, math.Min(value, p.Ceiling()))
}
