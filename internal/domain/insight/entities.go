package insight

import (
	"errors"
	"time"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
)

// ErrDiscarded is returned to an activation that was superseded before it finished.
var ErrDiscarded = errors.New("analysis discarded: view moved on")

// State is the farm view lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// MetricSeriesMap maps a metric name to its synthesized series.
type MetricSeriesMap map[string]timeseries.Series

func (m MetricSeriesMap) clone() MetricSeriesMap {
	if m == nil {
		return nil
	}
	out := make(MetricSeriesMap, len(m))
	for name, series := range m {
		out[name] = append(timeseries.Series(nil), series...)
	}
	return out
}

// Snapshot is a copy of the view state safe to hand to callers.
type Snapshot struct {
	State    State           `json:"state"`
	FarmID   string          `json:"farmId,omitempty"`
	Spectral MetricSeriesMap `json:"spectral,omitempty"`
	Sensor   MetricSeriesMap `json:"sensor,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// MetricSummary is the headline card shown per metric.
type MetricSummary struct {
	catalog.Metric
	Current float64 `json:"current"`
	Change  float64 `json:"change"`
}

// Severity ranks a risk alert.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Alert is a risk insight surfaced on the farm page.
type Alert struct {
	Severity Severity `json:"severity"`
	Type     string   `json:"type"`
	Message  string   `json:"message"`
}

// Report is the full farm-detail payload.
type Report struct {
	Farm        farm.Farm       `json:"farm"`
	Area        farm.Area       `json:"area"`
	State       State           `json:"state"`
	Spectral    MetricSeriesMap `json:"spectral"`
	Sensor      MetricSeriesMap `json:"sensor"`
	Metrics     []MetricSummary `json:"metrics"`
	Alerts      []Alert         `json:"alerts"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// ExportResult lists the artifacts uploaded by one export.
type ExportResult struct {
	ExportID  string         `json:"exportId"`
	FarmID    string         `json:"farmId"`
	Objects   []StoredObject `json:"objects"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Config tunes presentation output.
type Config struct {
	HeatmapGrid  int
	ExportPrefix string
}

func (c Config) withDefaults() Config {
	if c.HeatmapGrid <= 0 {
		c.HeatmapGrid = 20
	}
	if c.ExportPrefix == "" {
		c.ExportPrefix = "exports"
	}
	return c
}
