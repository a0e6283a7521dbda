package insight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
	apperrors "github.com/yanqian/farmsight/pkg/errors"
)

func TestService_AnalyzeBuildsReport(t *testing.T) {
	svc, _ := newTestService()

	report, err := svc.Analyze(context.Background(), 1, "farm-1")
	require.NoError(t, err)
	require.Equal(t, StateReady, report.State)
	require.Equal(t, "North Field", report.Farm.Name)
	require.Greater(t, report.Area.Acres, 0.0)
	require.Len(t, report.Spectral, 5)
	require.Len(t, report.Sensor, 4)
	require.Len(t, report.Metrics, 9)
	require.Len(t, report.Alerts, 3)
	require.Equal(t, SeverityHigh, report.Alerts[0].Severity)
	require.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), report.GeneratedAt)

	first := report.Metrics[0]
	require.Equal(t, "NDVI", first.Name)
	latest, ok := report.Spectral["NDVI"].Latest()
	require.True(t, ok)
	require.Equal(t, latest.Value, first.Current)
	require.Equal(t, latest.Value-report.Spectral["NDVI"][0].Value, first.Change)

	series := report.Spectral["NDVI"]
	require.Equal(t, "2024-01-01", series[0].Date)
	require.Equal(t, "2024-01-05", series[4].Date)
}

func TestService_AnalyzeScopesToOwner(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Analyze(context.Background(), 2, "farm-1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestService_AnalyzeInvertedRangeIsInvalidInput(t *testing.T) {
	svc, farms := newTestService()
	bad := testFarm()
	bad.ID = "farm-bad"
	bad.StartDate, bad.EndDate = bad.EndDate, bad.StartDate
	farms.farms[bad.ID] = bad

	_, err := svc.Analyze(context.Background(), 1, "farm-bad")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.ErrorIs(t, err, timeseries.ErrInvalidRange)
}

func TestService_Heatmap(t *testing.T) {
	svc, _ := newTestService()

	hm, err := svc.Heatmap(context.Background(), 1, "farm-1", "WBI")
	require.NoError(t, err)
	require.Equal(t, "WBI", hm.Index)
	require.Equal(t, "water", hm.ColorScale)
	require.Equal(t, "Monitoring", hm.Status)
	require.Len(t, hm.Points.Features, 4*4)

	_, err = svc.Heatmap(context.Background(), 1, "farm-1", "Temperature")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestService_RenderChart(t *testing.T) {
	svc, _ := newTestService()
	var buf bytes.Buffer

	require.NoError(t, svc.RenderChart(context.Background(), 1, "farm-1", "Soil Moisture", &buf))
	require.Equal(t, "png:North Field - Soil Moisture (%):5", buf.String())

	err := svc.RenderChart(context.Background(), 1, "farm-1", "Chlorophyll", &buf)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestService_RenderChartWrapsRendererFailure(t *testing.T) {
	svc, _ := newTestService()
	svc.(*service).charts = failingCharts{}

	err := svc.RenderChart(context.Background(), 1, "farm-1", "NDVI", io.Discard)
	require.True(t, apperrors.IsCode(err, apperrors.CodeRender))
}

func TestService_RenderDashboard(t *testing.T) {
	svc, _ := newTestService()
	var buf bytes.Buffer

	require.NoError(t, svc.RenderDashboard(context.Background(), 1, "farm-1", &buf))
	require.Equal(t, "html:North Field:2024-01-01 to 2024-01-05:5/4", buf.String())
}

func TestService_ExportUploadsEveryArtifact(t *testing.T) {
	svc, _ := newTestService()
	store := svc.(*service).storage.(*stubStorage)

	result, err := svc.Export(context.Background(), 1, "farm-1")
	require.NoError(t, err)
	require.Equal(t, "export-1", result.ExportID)
	require.Equal(t, "farm-1", result.FarmID)
	require.Len(t, result.Objects, 10)

	require.Equal(t, "exports/1/farm-1/export-1/ndvi.png", result.Objects[0].Key)
	require.Equal(t, "exports/1/farm-1/export-1/re-ndvi.png", result.Objects[4].Key)
	require.Equal(t, "exports/1/farm-1/export-1/soil-moisture.png", result.Objects[5].Key)
	last := result.Objects[len(result.Objects)-1]
	require.Equal(t, "exports/1/farm-1/export-1/dashboard.html", last.Key)
	require.True(t, strings.HasPrefix(last.MimeType, "text/html"))
	require.Len(t, store.objects, 10)
}

func TestService_ExportStorageFailure(t *testing.T) {
	svc, _ := newTestService()
	svc.(*service).storage.(*stubStorage).err = errors.New("bucket offline")

	_, err := svc.Export(context.Background(), 1, "farm-1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))
}

func TestService_ExportRemovesPartialUploads(t *testing.T) {
	svc, _ := newTestService()
	store := svc.(*service).storage.(*stubStorage)
	store.failOnPut = 3

	_, err := svc.Export(context.Background(), 1, "farm-1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))
	require.Empty(t, store.objects)
}

func TestService_ExportRemovesUploadsWhenDashboardFails(t *testing.T) {
	svc, _ := newTestService()
	impl := svc.(*service)
	impl.dashboard = failingDashboard{}

	_, err := svc.Export(context.Background(), 1, "farm-1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeRender))
	require.Empty(t, impl.storage.(*stubStorage).objects)
}

func TestService_OpenExport(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	result, err := svc.Export(ctx, 1, "farm-1")
	require.NoError(t, err)

	obj, body, err := svc.OpenExport(ctx, 1, "farm-1", result.ExportID, "soil-moisture.png")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "png:North Field - Soil Moisture (%):5", string(data))
	require.Equal(t, "image/png", obj.MimeType)

	obj, body, err = svc.OpenExport(ctx, 1, "farm-1", result.ExportID, "dashboard.html")
	require.NoError(t, err)
	body.Close()
	require.True(t, strings.HasPrefix(obj.MimeType, "text/html"))
}

func TestService_OpenExportNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	result, err := svc.Export(ctx, 1, "farm-1")
	require.NoError(t, err)

	cases := map[string]struct {
		owner    int64
		exportID string
		name     string
	}{
		"unknown export":   {owner: 1, exportID: "export-9", name: "ndvi.png"},
		"unlisted file":    {owner: 1, exportID: result.ExportID, name: "notes.txt"},
		"path traversal":   {owner: 1, exportID: "..", name: "dashboard.html"},
		"other farmer":     {owner: 2, exportID: result.ExportID, name: "ndvi.png"},
		"nested export id": {owner: 1, exportID: "a/b", name: "ndvi.png"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.OpenExport(ctx, tc.owner, "farm-1", tc.exportID, tc.name)
			require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound), "%v", err)
		})
	}
}

func newTestService() (Service, *stubFarms) {
	farms := &stubFarms{farms: map[string]farm.Farm{"farm-1": testFarm()}}
	svc := NewService(
		Config{HeatmapGrid: 4},
		farms,
		timeseries.NewSeededSource(7),
		stubCharts{},
		stubDashboard{},
		&stubStorage{objects: map[string][]byte{}},
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	impl := svc.(*service)
	impl.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	seq := 0
	impl.newID = func() string {
		seq++
		return fmt.Sprintf("export-%d", seq)
	}
	return svc, farms
}

type stubFarms struct {
	farms map[string]farm.Farm
}

func (s *stubFarms) Create(context.Context, int64, farm.CreateRequest) (farm.Farm, error) {
	return farm.Farm{}, errors.New("not implemented")
}

func (s *stubFarms) List(_ context.Context, ownerID int64) ([]farm.Farm, error) {
	var out []farm.Farm
	for _, f := range s.farms {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubFarms) Get(_ context.Context, ownerID int64, id string) (farm.Farm, error) {
	f, ok := s.farms[id]
	if !ok || f.OwnerID != ownerID {
		return farm.Farm{}, apperrors.Wrap(apperrors.CodeNotFound, "farm not found", farm.ErrNotFound)
	}
	return f, nil
}

func (s *stubFarms) Delete(context.Context, int64, string) error {
	return errors.New("not implemented")
}

type stubCharts struct{}

func (stubCharts) RenderPNG(w io.Writer, spec ChartSpec) error {
	_, err := fmt.Fprintf(w, "png:%s:%d", spec.Title, len(spec.Series))
	return err
}

type failingCharts struct{}

func (failingCharts) RenderPNG(io.Writer, ChartSpec) error {
	return errors.New("no fonts")
}

type failingDashboard struct{}

func (failingDashboard) RenderHTML(io.Writer, Dashboard) error {
	return errors.New("template missing")
}

type stubDashboard struct{}

func (stubDashboard) RenderHTML(w io.Writer, d Dashboard) error {
	_, err := fmt.Fprintf(w, "html:%s:%s:%d/%d", d.Title, d.Subtitle, len(d.Spectral), len(d.Sensor))
	return err
}

type stubStorage struct {
	objects map[string][]byte
	err     error
	// failOnPut fails the n-th Put (1-based) when set.
	failOnPut int
	puts      int
}

func (s *stubStorage) Put(_ context.Context, key string, data []byte, mimeType string) (StoredObject, error) {
	s.puts++
	if s.err != nil {
		return StoredObject{}, s.err
	}
	if s.failOnPut > 0 && s.puts == s.failOnPut {
		return StoredObject{}, errors.New("connection reset")
	}
	s.objects[key] = append([]byte(nil), data...)
	return StoredObject{Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (s *stubStorage) Get(_ context.Context, key string) (io.ReadCloser, StoredObject, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, StoredObject{}, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), StoredObject{Key: key, Size: int64(len(data))}, nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}
