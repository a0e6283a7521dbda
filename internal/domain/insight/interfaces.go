package insight

import (
	"context"
	"errors"
	"io"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
)

// ErrObjectNotFound is returned by ObjectStorage.Get for a missing key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage abstracts blob storage for exports (S3/MinIO/R2/memory).
// Delete of a missing key is not an error.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	ETag     string `json:"etag"`
}

// ChartSpec is everything a renderer needs to draw one series.
type ChartSpec struct {
	Title  string
	Metric catalog.Metric
	Series timeseries.Series
}

// Dashboard groups every chart of one farm view.
type Dashboard struct {
	Title    string
	Subtitle string
	Spectral []ChartSpec
	Sensor   []ChartSpec
}

// ChartRenderer draws a single series as a PNG.
type ChartRenderer interface {
	RenderPNG(w io.Writer, spec ChartSpec) error
}

// DashboardRenderer draws a whole farm view as a standalone HTML page.
type DashboardRenderer interface {
	RenderHTML(w io.Writer, dashboard Dashboard) error
}
