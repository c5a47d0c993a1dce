package minio

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famscope/famscope/internal/config"
	"github.com/famscope/famscope/pkg/errors"
)

type fakeAPI struct {
	BucketExistsFunc       func(ctx context.Context, bucket string) (bool, error)
	MakeBucketFunc         func(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	StatObjectFunc         func(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObjectFunc          func(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObjectFunc func(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
	RemoveObjectFunc       func(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

func (f *fakeAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.BucketExistsFunc(ctx, bucket)
}

func (f *fakeAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return f.MakeBucketFunc(ctx, bucket, opts)
}

func (f *fakeAPI) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return f.StatObjectFunc(ctx, bucket, object, opts)
}

func (f *fakeAPI) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return f.PutObjectFunc(ctx, bucket, object, reader, size, opts)
}

func (f *fakeAPI) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	return f.PresignedGetObjectFunc(ctx, bucket, object, expiry, params)
}

func (f *fakeAPI) RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
	return f.RemoveObjectFunc(ctx, bucket, object, opts)
}

func testCfg() config.MinIOConfig {
	return config.MinIOConfig{
		Enabled:  true,
		Endpoint: "localhost:9000",
		Bucket:   "famscope-reports",
	}
}

func presignOK(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	return url.Parse("http://localhost:9000/" + bucket + "/" + object + "?sig=x")
}

func newTestStore(api *fakeAPI) *Store {
	return NewStore(NewClientFromAPI(api, testCfg(), nil), time.Hour)
}

func TestExists_Found(t *testing.T) {
	api := &fakeAPI{
		StatObjectFunc: func(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			assert.Equal(t, "famscope-reports", bucket)
			assert.Equal(t, "12345678_arbol.pdf", object)
			return minio.ObjectInfo{Key: object, Size: 1024}, nil
		},
		PresignedGetObjectFunc: presignOK,
	}

	u, found, err := newTestStore(api).Exists(context.Background(), "12345678_arbol.pdf")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, u, "12345678_arbol.pdf")
}

func TestExists_Miss(t *testing.T) {
	api := &fakeAPI{
		StatObjectFunc: func(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Message: "key missing"}
		},
	}

	u, found, err := newTestStore(api).Exists(context.Background(), "absent.pdf")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, u)
}

func TestExists_Unavailable(t *testing.T) {
	api := &fakeAPI{
		StatObjectFunc: func(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minio.ErrorResponse{Code: "SlowDown", Message: "throttled"}
		},
	}

	_, _, err := newTestStore(api).Exists(context.Background(), "k.pdf")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStoreUnavailable, errors.GetCode(err))
}

func TestUpload(t *testing.T) {
	var gotBytes int64
	var gotType string
	api := &fakeAPI{
		PutObjectFunc: func(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotBytes = size
			gotType = opts.ContentType
			return minio.UploadInfo{Key: object, Size: size}, nil
		},
		PresignedGetObjectFunc: presignOK,
	}

	u, err := newTestStore(api).Upload(context.Background(), "12345678_arbol.pdf",
		[]byte("%PDF-1.4 data"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(13), gotBytes)
	assert.Equal(t, "application/pdf", gotType)
	assert.Contains(t, u, "12345678_arbol.pdf")
}

func TestUpload_Failure(t *testing.T) {
	api := &fakeAPI{
		PutObjectFunc: func(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			return minio.UploadInfo{}, minio.ErrorResponse{Code: "AccessDenied"}
		},
	}

	_, err := newTestStore(api).Upload(context.Background(), "k.pdf", []byte("x"), "application/pdf")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStoreUnavailable, errors.GetCode(err))
}

func TestRemove(t *testing.T) {
	removed := false
	api := &fakeAPI{
		RemoveObjectFunc: func(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
			removed = true
			return nil
		},
	}

	require.NoError(t, newTestStore(api).Remove(context.Background(), "k.pdf"))
	assert.True(t, removed)
}

func TestEnsureBucket_CreatesWhenMissing(t *testing.T) {
	made := false
	api := &fakeAPI{
		BucketExistsFunc: func(ctx context.Context, bucket string) (bool, error) {
			return false, nil
		},
		MakeBucketFunc: func(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
			made = true
			assert.Equal(t, "famscope-reports", bucket)
			return nil
		},
	}

	c := NewClientFromAPI(api, testCfg(), nil)
	require.NoError(t, c.ensureBucket(context.Background()))
	assert.True(t, made)
}

func TestPing(t *testing.T) {
	api := &fakeAPI{
		BucketExistsFunc: func(ctx context.Context, bucket string) (bool, error) {
			return true, nil
		},
	}
	c := NewClientFromAPI(api, testCfg(), nil)
	assert.NoError(t, c.Ping(context.Background()))
}
