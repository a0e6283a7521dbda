package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/farmsight/internal/domain/insight"
)

// Exports are written once under a fresh export id and never rewritten.
const exportCacheControl = "private, max-age=86400, immutable"

// S3Options locates the export bucket.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// S3Storage stores exports in any S3-compatible bucket (MinIO, R2, S3).
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	ready  atomic.Bool
	initMu sync.Mutex
}

// NewS3Storage constructs the storage adapter. The bucket is created lazily on first upload.
func NewS3Storage(opts S3Options, logger *slog.Logger) (*S3Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}
	host, secure, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       secure,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Storage{
		client: client,
		bucket: opts.Bucket,
		logger: logger.With("component", "objectstore.s3", "bucket", opts.Bucket),
	}, nil
}

// ensureBucket checks the bucket once per process; failures are retried on the next upload.
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.ready.Load() {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return fmt.Errorf("create bucket: %w", err)
		}
		s.logger.Info("export bucket created")
	}
	s.ready.Store(true)
	return nil
}

// Put uploads one export artifact.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, mimeType string) (insight.StoredObject, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return insight.StoredObject{}, err
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		CacheControl:     exportCacheControl,
		DisableMultipart: true,
	})
	if err != nil {
		return insight.StoredObject{}, fmt.Errorf("put %s: %w", key, err)
	}
	return insight.StoredObject{
		Key:      key,
		Size:     info.Size,
		MimeType: mimeType,
		ETag:     info.ETag,
	}, nil
}

// Get opens an export artifact. The caller closes the reader.
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, insight.StoredObject, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, insight.StoredObject{}, translateErr(key, err)
	}
	// GetObject is lazy; Stat performs the request.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, insight.StoredObject{}, translateErr(key, err)
	}
	return obj, insight.StoredObject{
		Key:      key,
		Size:     info.Size,
		MimeType: info.ContentType,
		ETag:     info.ETag,
	}, nil
}

// Delete removes an export artifact. Missing keys are ignored.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if errors.Is(translateErr(key, err), insight.ErrObjectNotFound) {
			return nil
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

var _ insight.ObjectStorage = (*S3Storage)(nil)

// translateErr maps S3 "missing" responses onto insight.ErrObjectNotFound.
func translateErr(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", insight.ErrObjectNotFound, key)
	}
	return fmt.Errorf("get %s: %w", key, err)
}

// parseEndpoint reduces an endpoint to the host[:port] minio.New expects.
// A bare host defaults to TLS.
func parseEndpoint(raw string) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("s3 endpoint is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("parse s3 endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("s3 endpoint %q has no host", raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("unsupported s3 endpoint scheme %q", u.Scheme)
	}
}
