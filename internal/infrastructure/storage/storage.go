package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oksasatya/go-ddd-account-service/config"
)

// ObjectStorage is the object store behind profile photos.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Bucket() string
}

const (
	DiskGCS   = "gcs"
	DiskMinio = "minio"
)

// New builds the backend named by cfg.PhotoDisk.
func New(ctx context.Context, cfg *config.Config) (ObjectStorage, error) {
	switch strings.ToLower(cfg.PhotoDisk) {
	case DiskGCS, "":
		return NewGCSClient(ctx, GCSConfig{
			Bucket:          cfg.GCSBucket,
			CredentialsFile: cfg.GCSCredentialsJSONPath,
		})
	case DiskMinio:
		return NewMinioClient(MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown photo disk %q", cfg.PhotoDisk)
	}
}

// joinURL appends an object key to a base URL, escaping nothing but slashes.
func joinURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}
