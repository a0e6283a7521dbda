package catalog

import "github.com/yanqian/farmsight/internal/domain/timeseries"

// Kind groups metrics into the two dashboard tabs.
type Kind string

const (
	// KindSpectral covers vegetation and water indices.
	KindSpectral Kind = "spectral"
	// KindSensor covers in-field sensor readings.
	KindSensor Kind = "sensor"
)

// ChartStyle selects how a series is drawn.
type ChartStyle string

const (
	ChartLine ChartStyle = "line"
	ChartArea ChartStyle = "area"
)

// Metric describes a tracked metric and how to synthesize and display it.
type Metric struct {
	Name        string             `json:"name"`
	Kind        Kind               `json:"kind"`
	Profile     timeseries.Profile `json:"profile"`
	Unit        string             `json:"unit,omitempty"`
	Color       string             `json:"color"`
	Status      string             `json:"status,omitempty"`
	Description string             `json:"description,omitempty"`
	Chart       ChartStyle         `json:"chart"`
}

// Table is an ordered, read-only set of metrics. The first entry is the fallback.
type Table struct {
	kind    Kind
	metrics []Metric
	index   map[string]int
}

func newTable(kind Kind, metrics ...Metric) Table {
	index := make(map[string]int, len(metrics))
	for i := range metrics {
		metrics[i].Kind = kind
		index[metrics[i].Name] = i
	}
	return Table{kind: kind, metrics: metrics, index: index}
}

// Kind reports which tab the table feeds.
func (t Table) Kind() Kind {
	return t.kind
}

// Lookup returns the named metric, or the table default when the name is unknown.
func (t Table) Lookup(name string) Metric {
	if m, ok := t.Find(name); ok {
		return m
	}
	return t.Default()
}

// Find returns the named metric and whether it exists.
func (t Table) Find(name string) (Metric, bool) {
	i, ok := t.index[name]
	if !ok {
		return Metric{}, false
	}
	return t.metrics[i], true
}

// Default is the first metric of the table.
func (t Table) Default() Metric {
	return t.metrics[0]
}

// Names lists metric names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t.metrics))
	for i, m := range t.metrics {
		names[i] = m.Name
	}
	return names
}

// Metrics returns a copy of the table entries.
func (t Table) Metrics() []Metric {
	out := make([]Metric, len(t.metrics))
	copy(out, t.metrics)
	return out
}

// Len reports the number of metrics.
func (t Table) Len() int {
	return len(t.metrics)
}

// Spectral holds the five vegetation/water indices.
var Spectral = newTable(KindSpectral,
	Metric{
		Name:        "NDVI",
		Profile:     timeseries.Profile{Baseline: 0.75, Variance: 0.15, Trend: 0.02, Seasonal: true},
		Color:       "#22c55e",
		Status:      "Healthy",
		Description: "Vegetation is thriving",
		Chart:       ChartLine,
	},
	Metric{
		Name:        "NDWI",
		Profile:     timeseries.Profile{Baseline: 0.45, Variance: 0.12, Trend: -0.01},
		Color:       "#3b82f6",
		Status:      "Normal",
		Description: "Adequate water content",
		Chart:       ChartLine,
	},
	Metric{
		Name:        "SAVI",
		Profile:     timeseries.Profile{Baseline: 0.68, Variance: 0.10, Trend: 0.01, Seasonal: true},
		Color:       "#eab308",
		Status:      "Good",
		Description: "Soil-adjusted vegetation index optimal",
		Chart:       ChartLine,
	},
	Metric{
		Name:        "WBI",
		Profile:     timeseries.Profile{Baseline: 1.12, Variance: 0.20, Trend: -0.03},
		Color:       "#f97316",
		Status:      "Monitoring",
		Description: "Water band index needs attention",
		Chart:       ChartLine,
	},
	Metric{
		Name:        "RE-NDVI",
		Profile:     timeseries.Profile{Baseline: 0.82, Variance: 0.18, Trend: 0.015, Seasonal: true},
		Color:       "#10b981",
		Status:      "Healthy",
		Description: "Red-edge NDVI shows healthy vegetation",
		Chart:       ChartLine,
	},
)

// Sensors holds the four in-field sensor types. Variance is the absolute
// amplitude (8%, 6°C, 10%, 15%) expressed as a fraction of the baseline.
var Sensors = newTable(KindSensor,
	Metric{
		Name:    "Soil Moisture",
		Profile: timeseries.Profile{Baseline: 68, Variance: 8.0 / 68, Trend: -2, Seasonal: true},
		Unit:    "%",
		Color:   "#3b82f6",
		Chart:   ChartArea,
	},
	Metric{
		Name:    "Temperature",
		Profile: timeseries.Profile{Baseline: 24, Variance: 6.0 / 24, Trend: 1, Seasonal: true},
		Unit:    "°C",
		Color:   "#f97316",
		Chart:   ChartLine,
	},
	Metric{
		Name:    "Humidity",
		Profile: timeseries.Profile{Baseline: 72, Variance: 10.0 / 72, Seasonal: true},
		Unit:    "%",
		Color:   "#22c55e",
		Chart:   ChartArea,
	},
	Metric{
		Name:    "Leaf Wetness",
		Profile: timeseries.Profile{Baseline: 45, Variance: 15.0 / 45},
		Unit:    "%",
		Color:   "#06b6d4",
		Chart:   ChartArea,
	},
)

// Tables lists every table in dashboard order.
func Tables() []Table {
	return []Table{Spectral, Sensors}
}

// Resolve finds a metric by exact name in any table.
func Resolve(name string) (Metric, bool) {
	for _, t := range Tables() {
		if m, ok := t.Find(name); ok {
			return m, true
		}
	}
	return Metric{}, false
}
