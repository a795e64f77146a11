package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sleepycare/backend/internal/config"
	"github.com/sleepycare/backend/pkg/logger"
)

// ImageStore uploads images to an S3-compatible bucket and hands out
// publicly resolvable URLs. When no endpoint is configured the store runs
// in fallback mode and returns base64 data URLs instead.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageStore creates the store and ensures the bucket exists. An empty
// endpoint yields a disabled store (base64 fallback), not an error.
func NewImageStore(cfg config.StorageConfig) (*ImageStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.PublicURL == "" {
		logger.Infof("object storage not configured, images will be embedded as base64 data URLs")
		return &ImageStore{}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	s := &ImageStore{client: mc, bucket: cfg.Bucket, publicURL: strings.TrimRight(cfg.PublicURL, "/")}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("storage bucket ensure: %w", err)
		}
	}
	logger.Infof("object storage enabled: bucket=%s public_url=%s", s.bucket, s.publicURL)
	return s, nil
}

// Enabled reports whether external storage is configured.
func (s *ImageStore) Enabled() bool { return s.client != nil }

// objectKey derives a unique key preserving the original extension.
func objectKey(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	return uuid.NewString() + "." + ext
}

// Upload stores the image and returns its public URL. In fallback mode the
// content is embedded as a data URL.
func (s *ImageStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !s.Enabled() {
		return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}
	key := objectKey(filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("storage upload: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete removes the object backing a previously returned URL. Best
// effort: failures are logged and never block the caller.
func (s *ImageStore) Delete(ctx context.Context, fileURL string) bool {
	if !s.Enabled() || fileURL == "" || strings.HasPrefix(fileURL, "data:") {
		return false
	}
	idx := strings.LastIndex(fileURL, "/")
	if idx < 0 || idx == len(fileURL)-1 {
		return false
	}
	key := fileURL[idx+1:]
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		logger.Warnf("failed to delete stored object %s: %v", key, err)
		return false
	}
	return true
}

// PresignedUpload returns a presigned PUT URL plus the final public URL
// for a direct client-side upload. Unavailable in fallback mode.
func (s *ImageStore) PresignedUpload(ctx context.Context, filename string, expires time.Duration) (uploadURL, fileURL, key string, err error) {
	if !s.Enabled() {
		return "", "", "", fmt.Errorf("object storage is not configured")
	}
	key = objectKey(filename)
	var presigned *url.URL
	presigned, err = s.client.PresignedPutObject(ctx, s.bucket, key, expires)
	if err != nil {
		return "", "", "", fmt.Errorf("storage presign: %w", err)
	}
	return presigned.String(), s.publicURL + "/" + key, key, nil
}
