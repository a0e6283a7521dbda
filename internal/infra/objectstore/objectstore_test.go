package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmsight/internal/domain/insight"
)

func TestMemoryStorage_PutGetDelete(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()
	data := []byte("png-bytes")

	obj, err := store.Put(ctx, "exports/a.png", data, "image/png")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), obj.Size)
	require.Equal(t, "image/png", obj.MimeType)
	require.NotEmpty(t, obj.ETag)

	data[0] = 'X'
	rc, stored, err := store.Get(ctx, "exports/a.png")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(got))
	require.Equal(t, obj, stored)
	require.Equal(t, []string{"exports/a.png"}, store.Keys())

	require.NoError(t, store.Delete(ctx, "exports/a.png"))
	require.NoError(t, store.Delete(ctx, "exports/a.png"))
	_, _, err = store.Get(ctx, "exports/a.png")
	require.ErrorIs(t, err, insight.ErrObjectNotFound)
	require.Empty(t, store.Keys())
}

func TestTranslateErr(t *testing.T) {
	missing := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404, Message: "The specified key does not exist."}
	require.ErrorIs(t, translateErr("exports/a.png", missing), insight.ErrObjectNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	err := translateErr("exports/a.png", denied)
	require.NotErrorIs(t, err, insight.ErrObjectNotFound)
	require.Contains(t, err.Error(), "exports/a.png")

	require.NotErrorIs(t, translateErr("k", errors.New("dial tcp: timeout")), insight.ErrObjectNotFound)
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		raw    string
		host   string
		secure bool
	}{
		{raw: "http://minio:9000", host: "minio:9000", secure: false},
		{raw: " https://acct.r2.cloudflarestorage.com/bucket ", host: "acct.r2.cloudflarestorage.com", secure: true},
		{raw: "s3.eu-west-1.amazonaws.com", host: "s3.eu-west-1.amazonaws.com", secure: true},
		{raw: "HTTP://localhost:9000", host: "localhost:9000", secure: false},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.host, host)
		require.Equal(t, tc.secure, secure, tc.raw)
	}

	for _, raw := range []string{"", "ftp://files:21", "https://"} {
		_, _, err := parseEndpoint(raw)
		require.Error(t, err, raw)
	}
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(S3Options{Endpoint: "http://minio:9000"}, nil)
	require.Error(t, err)

	store, err := NewS3Storage(S3Options{Endpoint: "http://minio:9000", Bucket: "exports"}, nil)
	require.NoError(t, err)
	require.False(t, store.ready.Load())
}
