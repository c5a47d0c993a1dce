package minio

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/pkg/errors"
)

// Store is the object-storage artifact cache for generated reports.  It
// implements report.ArtifactStore.
type Store struct {
	client        *Client
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewStore builds a store on client.  presignExpiry bounds the lifetime of
// returned download URLs; zero defaults to one hour.
func NewStore(client *Client, presignExpiry time.Duration) *Store {
	if presignExpiry <= 0 {
		presignExpiry = time.Hour
	}
	return &Store{
		client:        client,
		presignExpiry: presignExpiry,
		logger:        client.logger.Named("store"),
	}
}

// Exists reports whether an artifact is already stored under key, returning
// a presigned download URL when it is.  A missing object is a miss, not an
// error.
func (s *Store) Exists(ctx context.Context, key string) (string, bool, error) {
	_, err := s.client.api.StatObject(ctx, s.client.cfg.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "artifact stat failed").
			WithDetail(key)
	}

	u, err := s.presign(ctx, key)
	if err != nil {
		return "", false, err
	}
	return u, true, nil
}

// Upload stores data under key and returns a presigned download URL.
// Uploads overwrite, so a lost exists/upload race converges on the same
// content.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.api.PutObject(ctx, s.client.cfg.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStoreUnavailable, "artifact upload failed").
			WithDetail(key)
	}

	s.logger.Debug("artifact stored",
		logging.String("key", key), logging.Int("bytes", len(data)))
	return s.presign(ctx, key)
}

// Remove deletes a stored artifact, used to force regeneration.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.client.api.RemoveObject(ctx, s.client.cfg.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "artifact remove failed").
			WithDetail(key)
	}
	return nil
}

func (s *Store) presign(ctx context.Context, key string) (string, error) {
	u, err := s.client.api.PresignedGetObject(ctx, s.client.cfg.Bucket, key,
		s.presignExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStoreUnavailable, "presigning artifact url").
			WithDetail(key)
	}
	return u.String(), nil
}
