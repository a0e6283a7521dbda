package insight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
	apperrors "github.com/yanqian/farmsight/pkg/errors"
	"github.com/yanqian/farmsight/pkg/metrics"
	"github.com/yanqian/farmsight/pkg/util"
)

// Service drives the farm-detail screen: analysis, heatmaps, charts and exports.
type Service interface {
	Analyze(ctx context.Context, ownerID int64, farmID string) (Report, error)
	Heatmap(ctx context.Context, ownerID int64, farmID, index string) (Heatmap, error)
	RenderChart(ctx context.Context, ownerID int64, farmID, metric string, w io.Writer) error
	RenderDashboard(ctx context.Context, ownerID int64, farmID string, w io.Writer) error
	Export(ctx context.Context, ownerID int64, farmID string) (ExportResult, error)
	OpenExport(ctx context.Context, ownerID int64, farmID, exportID, name string) (StoredObject, io.ReadCloser, error)
}

type service struct {
	cfg       Config
	farms     farm.Service
	synth     *timeseries.Synthesizer
	source    timeseries.Source
	charts    ChartRenderer
	dashboard DashboardRenderer
	storage   ObjectStorage
	recorder  *metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires the insight service.
func NewService(cfg Config, farms farm.Service, source timeseries.Source, charts ChartRenderer, dashboard DashboardRenderer, storage ObjectStorage, recorder *metrics.Recorder, logger *slog.Logger) Service {
	if source == nil {
		source = timeseries.DefaultSource()
	}
	return &service{
		cfg:       cfg.withDefaults(),
		farms:     farms,
		synth:     timeseries.NewSynthesizer(source),
		source:    source,
		charts:    charts,
		dashboard: dashboard,
		storage:   storage,
		recorder:  recorder,
		logger:    logger.With("component", "insight.service"),
		now:       util.NowUTC,
		newID:     uuid.NewString,
	}
}

func (s *service) Analyze(ctx context.Context, ownerID int64, farmID string) (Report, error) {
	f, snap, err := s.activate(ctx, ownerID, farmID)
	if err != nil {
		return Report{}, err
	}
	s.logger.Info("farm analyzed", "farm_id", f.ID, "owner_id", ownerID,
		"spectral", len(snap.Spectral), "sensor", len(snap.Sensor))
	return Report{
		Farm:        f,
		Area:        f.Bounds.Area(),
		State:       snap.State,
		Spectral:    snap.Spectral,
		Sensor:      snap.Sensor,
		Metrics:     summarize(snap),
		Alerts:      Alerts(),
		GeneratedAt: s.now(),
	}, nil
}

func (s *service) Heatmap(ctx context.Context, ownerID int64, farmID, index string) (Heatmap, error) {
	m, ok := catalog.Spectral.Find(index)
	if !ok {
		return Heatmap{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("unknown spectral index %q", index), nil)
	}
	f, err := s.farms.Get(ctx, ownerID, farmID)
	if err != nil {
		return Heatmap{}, err
	}
	return buildHeatmap(f, m, s.cfg.HeatmapGrid, s.source), nil
}

func (s *service) RenderChart(ctx context.Context, ownerID int64, farmID, metric string, w io.Writer) error {
	m, ok := catalog.Resolve(metric)
	if !ok {
		return apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("unknown metric %q", metric), nil)
	}
	f, snap, err := s.activate(ctx, ownerID, farmID)
	if err != nil {
		return err
	}
	if err := s.charts.RenderPNG(w, chartSpec(f, m, snap)); err != nil {
		return apperrors.Wrap(apperrors.CodeRender, "failed to render chart", err)
	}
	return nil
}

func (s *service) RenderDashboard(ctx context.Context, ownerID int64, farmID string, w io.Writer) error {
	f, snap, err := s.activate(ctx, ownerID, farmID)
	if err != nil {
		return err
	}
	if err := s.dashboard.RenderHTML(w, dashboardFor(f, snap)); err != nil {
		return apperrors.Wrap(apperrors.CodeRender, "failed to render dashboard", err)
	}
	return nil
}

func (s *service) Export(ctx context.Context, ownerID int64, farmID string) (ExportResult, error) {
	f, snap, err := s.activate(ctx, ownerID, farmID)
	if err != nil {
		return ExportResult{}, err
	}
	exportID := s.newID()
	objects, err := s.uploadExport(ctx, s.exportKey(ownerID, f.ID, exportID, ""), dashboardFor(f, snap))
	if err != nil {
		s.discardObjects(ctx, objects)
		return ExportResult{}, err
	}

	s.logger.Info("farm exported", "farm_id", f.ID, "export_id", exportID, "objects", len(objects))
	return ExportResult{ExportID: exportID, FarmID: f.ID, Objects: objects, CreatedAt: s.now()}, nil
}

// uploadExport renders and stores every artifact under prefix. On failure it
// returns the objects already stored so the caller can remove them.
func (s *service) uploadExport(ctx context.Context, prefix string, dash Dashboard) ([]StoredObject, error) {
	var objects []StoredObject
	for _, spec := range append(append([]ChartSpec(nil), dash.Spectral...), dash.Sensor...) {
		var buf bytes.Buffer
		if err := s.charts.RenderPNG(&buf, spec); err != nil {
			return objects, apperrors.Wrap(apperrors.CodeRender, "failed to render chart "+spec.Metric.Name, err)
		}
		obj, err := s.storage.Put(ctx, prefix+chartFile(spec.Metric.Name), buf.Bytes(), pngMimeType)
		if err != nil {
			return objects, apperrors.Wrap(apperrors.CodeStorage, "failed to upload chart", err)
		}
		objects = append(objects, obj)
	}

	var page bytes.Buffer
	if err := s.dashboard.RenderHTML(&page, dash); err != nil {
		return objects, apperrors.Wrap(apperrors.CodeRender, "failed to render dashboard", err)
	}
	obj, err := s.storage.Put(ctx, prefix+dashboardFile, page.Bytes(), htmlMimeType)
	if err != nil {
		return objects, apperrors.Wrap(apperrors.CodeStorage, "failed to upload dashboard", err)
	}
	return append(objects, obj), nil
}

// discardObjects removes a partial export. It outlives a cancelled request.
func (s *service) discardObjects(ctx context.Context, objects []StoredObject) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, obj := range objects {
		if err := s.storage.Delete(cleanupCtx, obj.Key); err != nil {
			s.logger.Warn("failed to remove partial export object", "key", obj.Key, "error", err)
		}
	}
}

func (s *service) OpenExport(ctx context.Context, ownerID int64, farmID, exportID, name string) (StoredObject, io.ReadCloser, error) {
	mimeType, ok := exportFileType(name)
	if !ok || !validExportID(exportID) {
		return StoredObject{}, nil, apperrors.Wrap(apperrors.CodeNotFound, "export file not found", nil)
	}
	f, err := s.farms.Get(ctx, ownerID, farmID)
	if err != nil {
		return StoredObject{}, nil, err
	}
	body, obj, err := s.storage.Get(ctx, s.exportKey(ownerID, f.ID, exportID, name))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return StoredObject{}, nil, apperrors.Wrap(apperrors.CodeNotFound, "export file not found", err)
		}
		return StoredObject{}, nil, apperrors.Wrap(apperrors.CodeStorage, "failed to read export", err)
	}
	if obj.MimeType == "" {
		obj.MimeType = mimeType
	}
	return obj, body, nil
}

// exportKey is <prefix>/<owner>/<farm>/<export>/<name>; an empty name yields the directory with a trailing slash.
func (s *service) exportKey(ownerID int64, farmID, exportID, name string) string {
	return strings.Join([]string{s.cfg.ExportPrefix, strconv.FormatInt(ownerID, 10), farmID, exportID, name}, "/")
}

// activate loads the farm and runs a fresh view for it.
func (s *service) activate(ctx context.Context, ownerID int64, farmID string) (farm.Farm, Snapshot, error) {
	f, err := s.farms.Get(ctx, ownerID, farmID)
	if err != nil {
		return farm.Farm{}, Snapshot{}, err
	}
	view := NewView(s.synth, s.recorder)
	snap, err := view.Activate(ctx, f)
	if err != nil {
		switch {
		case errors.Is(err, timeseries.ErrInvalidRange), errors.Is(err, timeseries.ErrInvalidProfile):
			return farm.Farm{}, Snapshot{}, apperrors.Wrap(apperrors.CodeInvalidInput, "farm cannot be analyzed", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return farm.Farm{}, Snapshot{}, err
		default:
			return farm.Farm{}, Snapshot{}, apperrors.Wrap(apperrors.CodeFarm, "analysis failed", err)
		}
	}
	return f, snap, nil
}

func summarize(snap Snapshot) []MetricSummary {
	var out []MetricSummary
	for _, table := range catalog.Tables() {
		source := snap.Spectral
		if table.Kind() == catalog.KindSensor {
			source = snap.Sensor
		}
		for _, m := range table.Metrics() {
			series := source[m.Name]
			summary := MetricSummary{Metric: m}
			if latest, ok := series.Latest(); ok {
				summary.Current = latest.Value
				summary.Change = latest.Value - series[0].Value
			}
			out = append(out, summary)
		}
	}
	return out
}

func chartSpec(f farm.Farm, m catalog.Metric, snap Snapshot) ChartSpec {
	series := snap.Spectral[m.Name]
	if m.Kind == catalog.KindSensor {
		series = snap.Sensor[m.Name]
	}
	title := m.Name
	if m.Unit != "" {
		title = fmt.Sprintf("%s (%s)", m.Name, m.Unit)
	}
	return ChartSpec{Title: f.Name + " - " + title, Metric: m, Series: series}
}

func dashboardFor(f farm.Farm, snap Snapshot) Dashboard {
	d := Dashboard{
		Title:    f.Name,
		Subtitle: util.FormatDate(f.StartDate) + " to " + util.FormatDate(f.EndDate),
	}
	for _, m := range catalog.Spectral.Metrics() {
		d.Spectral = append(d.Spectral, chartSpec(f, m, snap))
	}
	for _, m := range catalog.Sensors.Metrics() {
		d.Sensor = append(d.Sensor, chartSpec(f, m, snap))
	}
	return d
}

const (
	pngMimeType   = "image/png"
	htmlMimeType  = "text/html; charset=utf-8"
	dashboardFile = "dashboard.html"
)

func chartFile(metric string) string {
	return slug(metric) + ".png"
}

// exportFileType accepts only names an export can contain.
func exportFileType(name string) (string, bool) {
	if name == dashboardFile {
		return htmlMimeType, true
	}
	for _, table := range catalog.Tables() {
		for _, m := range table.Metrics() {
			if name == chartFile(m.Name) {
				return pngMimeType, true
			}
		}
	}
	return "", false
}

func validExportID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
