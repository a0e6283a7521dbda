package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/insight"
)

// DashboardRenderer lays out every farm chart on one interactive HTML page.
type DashboardRenderer struct {
	width  int
	height int
}

// NewDashboardRenderer builds a renderer; sizes are per chart, in pixels.
func NewDashboardRenderer(width, height int) *DashboardRenderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &DashboardRenderer{width: width, height: height}
}

// RenderHTML writes the page for d to w.
func (r *DashboardRenderer) RenderHTML(w io.Writer, d insight.Dashboard) error {
	page := components.NewPage()
	page.PageTitle = d.Title
	for _, spec := range d.Spectral {
		page.AddCharts(r.lineChart(spec, d.Subtitle))
	}
	for _, spec := range d.Sensor {
		page.AddCharts(r.lineChart(spec, d.Subtitle))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard %s: %w", d.Title, err)
	}
	return nil
}

func (r *DashboardRenderer) lineChart(spec insight.ChartSpec, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  fmt.Sprintf("%dpx", r.width),
			Height: fmt.Sprintf("%dpx", r.height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    spec.Title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: spec.Metric.Unit,
			Min:  0,
			Max:  spec.Metric.Profile.Ceiling(),
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	labels := make([]string, len(spec.Series))
	data := make([]opts.LineData, len(spec.Series))
	for i, sample := range spec.Series {
		labels[i] = sample.Date
		data[i] = opts.LineData{Value: sample.Value}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: true}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Metric.Color}),
	}
	if spec.Metric.Chart == catalog.ChartArea {
		seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.3}))
	}
	line.SetXAxis(labels).
		AddSeries(spec.Metric.Name, data).
		SetSeriesOptions(seriesOpts...)
	return line
}
