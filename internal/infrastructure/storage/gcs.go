package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicBase = "https://storage.googleapis.com"

type GCSConfig struct {
	Bucket          string
	CredentialsFile string // optional; Application Default Credentials otherwise
}

// GCSClient stores objects in a Google Cloud Storage bucket.
type GCSClient struct {
	client *storage.Client
	bucket string
}

func NewGCSClient(ctx context.Context, cfg GCSConfig) (*GCSClient, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSClient{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket checks the bucket is reachable. Buckets are provisioned outside the service.
func (g *GCSClient) EnsureBucket(ctx context.Context) error {
	_, err := g.client.Bucket(g.bucket).Attrs(ctx)
	return err
}

func (g *GCSClient) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0 // photos are small, upload in one request
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (g *GCSClient) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// URL assumes public read access on the bucket.
func (g *GCSClient) URL(key string) string {
	return joinURL(gcsPublicBase, g.bucket, key)
}

func (g *GCSClient) Bucket() string { return g.bucket }
