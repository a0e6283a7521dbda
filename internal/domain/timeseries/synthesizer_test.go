package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSamplePoints_EvenlySpaced(t *testing.T) {
	points, err := SamplePoints(DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 5)})
	require.NoError(t, err)
	require.Len(t, points, SampleCount)
	for i, p := range points {
		require.Equal(t, day(2024, 1, 1+i), p)
	}
}

func TestSamplePoints_LastEqualsEndWithUnevenSpan(t *testing.T) {
	start := day(2020, 1, 1)
	end := start.Add(7*time.Nanosecond + 3*time.Hour)
	points, err := SamplePoints(DateRange{Start: start, End: end})
	require.NoError(t, err)
	require.Equal(t, start, points[0])
	require.Equal(t, end, points[SampleCount-1])
	for i := 1; i < len(points); i++ {
		require.False(t, points[i].Before(points[i-1]))
	}
}

func TestSamplePoints_SpanBeyondDurationRange(t *testing.T) {
	r := DateRange{Start: day(2000, 1, 1), End: day(2400, 1, 1)}
	points, err := SamplePoints(r)
	require.NoError(t, err)
	require.True(t, points[0].Equal(r.Start))
	require.True(t, points[SampleCount-1].Equal(r.End), "last point %s", points[SampleCount-1])
	for i := 1; i < len(points); i++ {
		require.True(t, points[i].After(points[i-1]))
	}
	// 146097 days across 400 Gregorian years, so the midpoint is 73048.5 days in.
	require.True(t, points[2].Equal(r.Start.AddDate(0, 0, 73048).Add(12*time.Hour)), "midpoint %s", points[2])
}

func TestProfileValidate_ReportsFirstNonFiniteField(t *testing.T) {
	p := Profile{Baseline: math.NaN(), Variance: math.Inf(1), Trend: math.NaN()}
	for i := 0; i < 20; i++ {
		err := p.Validate()
		require.ErrorIs(t, err, ErrInvalidProfile)
		require.Contains(t, err.Error(), "baseline must be finite")
	}

	err := Profile{Baseline: 1, Variance: 0.1, Trend: math.Inf(-1)}.Validate()
	require.ErrorContains(t, err, "trend must be finite")
}

func TestSamplePoints_SameInstant(t *testing.T) {
	at := day(2023, 6, 1)
	points, err := SamplePoints(DateRange{Start: at, End: at})
	require.NoError(t, err)
	require.Len(t, points, SampleCount)
	for _, p := range points {
		require.Equal(t, at, p)
	}
}

func TestSamplePoints_InvertedRange(t *testing.T) {
	_, err := SamplePoints(DateRange{Start: day(2024, 2, 1), End: day(2024, 1, 1)})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestSynthesize_FlatProfileScenario(t *testing.T) {
	synth := NewSynthesizer(DefaultSource())
	series, err := synth.Synthesize(
		DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 5)},
		Profile{Baseline: 100},
	)
	require.NoError(t, err)
	require.Len(t, series, SampleCount)

	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	for i, sample := range series {
		require.Equal(t, wantDates[i], sample.Date)
		require.Equal(t, day(2024, 1, 1+i).UnixMilli(), sample.Timestamp)
		require.Equal(t, 100.0, sample.Value)
	}
}

func TestSynthesize_TrendWithoutNoise(t *testing.T) {
	synth := NewSynthesizer(ConstantSource(0.5))
	r := DateRange{Start: day(2024, 1, 1), End: day(2024, 12, 31)}

	up, err := synth.Synthesize(r, Profile{Baseline: 10, Variance: 0.4, Trend: 5})
	require.NoError(t, err)
	require.Equal(t, []float64{10, 11, 12, 13, 14}, up.Values())

	down, err := synth.Synthesize(r, Profile{Baseline: 10, Trend: -5})
	require.NoError(t, err)
	require.Equal(t, []float64{10, 9, 8, 7, 6}, down.Values())
}

func TestSynthesize_Seasonality(t *testing.T) {
	synth := NewSynthesizer(ConstantSource(0.5))
	series, err := synth.Synthesize(
		DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 5)},
		Profile{Baseline: 100, Seasonal: true},
	)
	require.NoError(t, err)
	for i, sample := range series {
		want := 100 + 10*math.Sin(2*math.Pi*float64(i)/SampleCount)
		require.InDelta(t, want, sample.Value, 1e-9)
	}
}

func TestSynthesize_ClampsToBand(t *testing.T) {
	r := DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 5)}
	p := Profile{Baseline: 10, Variance: 8}

	high, err := NewSynthesizer(ConstantSource(0.999)).Synthesize(r, p)
	require.NoError(t, err)
	for _, s := range high {
		require.Equal(t, 20.0, s.Value)
	}

	low, err := NewSynthesizer(ConstantSource(0)).Synthesize(r, p)
	require.NoError(t, err)
	for _, s := range low {
		require.Equal(t, 0.0, s.Value)
	}
}

func TestSynthesize_SeededSourceIsReproducible(t *testing.T) {
	r := DateRange{Start: day(2022, 3, 1), End: day(2022, 9, 1)}
	p := Profile{Baseline: 0.75, Variance: 0.15, Trend: 0.02, Seasonal: true}

	first, err := NewSynthesizer(NewSeededSource(42)).Synthesize(r, p)
	require.NoError(t, err)
	second, err := NewSynthesizer(NewSeededSource(42)).Synthesize(r, p)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSynthesize_RejectsBadInput(t *testing.T) {
	synth := NewSynthesizer(nil)
	r := DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 5)}

	_, err := synth.Synthesize(DateRange{Start: r.End, End: r.Start}, Profile{Baseline: 1})
	require.ErrorIs(t, err, ErrInvalidRange)

	for _, p := range []Profile{
		{Baseline: -1},
		{Baseline: math.NaN()},
		{Baseline: 1, Variance: -0.1},
		{Baseline: 1, Trend: math.Inf(1)},
	} {
		_, err := synth.Synthesize(r, p)
		require.ErrorIs(t, err, ErrInvalidProfile)
	}
}

func TestSeries_Helpers(t *testing.T) {
	var empty Series
	_, ok := empty.Latest()
	require.False(t, ok)

	series := Series{
		{Date: "2024-01-01", Value: 1, Timestamp: day(2024, 1, 1).UnixMilli()},
		{Date: "2024-01-02", Value: 2, Timestamp: day(2024, 1, 2).UnixMilli()},
	}
	latest, ok := series.Latest()
	require.True(t, ok)
	require.Equal(t, 2.0, latest.Value)
	require.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 2)}, series.Times())
}
