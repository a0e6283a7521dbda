package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/insight"
	"github.com/yanqian/farmsight/pkg/util"
)

// PNGRenderer draws one metric series as a time chart.
type PNGRenderer struct {
	width  int
	height int
}

// NewPNGRenderer builds a renderer; non-positive sizes fall back to 800x400.
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &PNGRenderer{width: width, height: height}
}

// RenderPNG writes the chart for spec to w.
func (r *PNGRenderer) RenderPNG(w io.Writer, spec insight.ChartSpec) error {
	if len(spec.Series) == 0 {
		return errors.New("empty series")
	}
	times := spec.Series.Times()
	values := spec.Series.Values()
	color := drawing.ColorFromHex(trimHash(spec.Metric.Color))

	style := chart.Style{
		StrokeColor: color,
		StrokeWidth: 2,
		DotColor:    color,
		DotWidth:    4,
	}
	if spec.Metric.Chart == catalog.ChartArea {
		style.FillColor = color.WithAlpha(64)
	}

	graph := chart.Chart{
		Title: spec.Title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 9},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return util.FormatDate(time.Unix(0, int64(f)).UTC())
				}
				return ""
			},
			Range: timeRange(times),
		},
		YAxis: chart.YAxis{
			Name:      spec.Metric.Unit,
			NameStyle: chart.Style{FontSize: 10},
			Style:     chart.Style{FontSize: 9},
			Range:     valueRange(spec.Metric.Profile.Ceiling()),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    spec.Metric.Name,
				Style:   style,
				XValues: times,
				YValues: values,
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", spec.Metric.Name, err)
	}
	return nil
}

// timeRange pins the x axis; a one-instant series gets a day of margin each side.
func timeRange(times []time.Time) *chart.ContinuousRange {
	lo, hi := times[0], times[len(times)-1]
	if !hi.After(lo) {
		lo = lo.Add(-24 * time.Hour)
		hi = hi.Add(24 * time.Hour)
	}
	return &chart.ContinuousRange{Min: float64(lo.UnixNano()), Max: float64(hi.UnixNano())}
}

// valueRange spans [0, ceiling], the clamp bounds of every sample.
func valueRange(ceiling float64) *chart.ContinuousRange {
	if ceiling <= 0 {
		ceiling = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: ceiling}
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}
