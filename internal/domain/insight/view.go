package insight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
	"github.com/yanqian/farmsight/pkg/metrics"
)

// View holds the transient state of one farm-detail screen.
// Every Activate bumps a generation; results from an older generation are dropped.
type View struct {
	synth    *timeseries.Synthesizer
	recorder *metrics.Recorder

	mu         sync.Mutex
	generation uint64
	state      State
	farmID     string
	spectral   MetricSeriesMap
	sensor     MetricSeriesMap
	err        error
}

// NewView returns an idle view.
func NewView(synth *timeseries.Synthesizer, recorder *metrics.Recorder) *View {
	if synth == nil {
		synth = timeseries.NewSynthesizer(nil)
	}
	return &View{synth: synth, recorder: recorder, state: StateIdle}
}

// Activate synthesizes every catalog metric for f and moves the view to ready.
// It returns ErrDiscarded when a newer Activate or a Deactivate happened meanwhile.
func (v *View) Activate(ctx context.Context, f farm.Farm) (Snapshot, error) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.state = StateLoading
	v.farmID = f.ID
	v.spectral, v.sensor, v.err = nil, nil, nil
	v.mu.Unlock()

	started := time.Now()
	spectral, sensor, err := synthesizeAll(ctx, v.synth, f.Range())

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		v.recorder.AnalysisDiscarded()
		return Snapshot{}, ErrDiscarded
	}
	if err != nil {
		v.state = StateFailed
		v.err = err
		v.recorder.AnalysisFailed()
		return v.snapshotLocked(), err
	}
	v.state = StateReady
	v.spectral = spectral
	v.sensor = sensor
	v.recorder.SeriesSynthesized(string(catalog.KindSpectral), len(spectral))
	v.recorder.SeriesSynthesized(string(catalog.KindSensor), len(sensor))
	v.recorder.AnalysisCompleted(time.Since(started))
	return v.snapshotLocked(), nil
}

// Deactivate returns the view to idle and drops any in-flight result.
func (v *View) Deactivate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	v.state = StateIdle
	v.farmID = ""
	v.spectral, v.sensor, v.err = nil, nil, nil
}

// Snapshot copies the current view state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    v.state,
		FarmID:   v.farmID,
		Spectral: v.spectral.clone(),
		Sensor:   v.sensor.clone(),
	}
	if v.err != nil {
		snap.Error = v.err.Error()
	}
	return snap
}

type job struct {
	table  catalog.Table
	metric catalog.Metric
}

func synthesizeAll(ctx context.Context, synth *timeseries.Synthesizer, r timeseries.DateRange) (MetricSeriesMap, MetricSeriesMap, error) {
	var jobs []job
	for _, table := range catalog.Tables() {
		for _, m := range table.Metrics() {
			jobs = append(jobs, job{table: table, metric: m})
		}
	}

	results := make([]timeseries.Series, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			series, err := synth.Synthesize(r, j.metric.Profile)
			if err != nil {
				return fmt.Errorf("synthesize %s: %w", j.metric.Name, err)
			}
			results[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	spectral := make(MetricSeriesMap)
	sensor := make(MetricSeriesMap)
	for i, j := range jobs {
		switch j.table.Kind() {
		case catalog.KindSpectral:
			spectral[j.metric.Name] = results[i]
		case catalog.KindSensor:
			sensor[j.metric.Name] = results[i]
		}
	}
	return spectral, sensor, nil
}
