// Package storage provides the object store backends the pipeline stages
// write through: Google Cloud Storage for deployments, a directory-rooted
// local store for development, and a resilience decorator shared by both.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

// GCS stores objects in Google Cloud Storage buckets through the JSON API.
type GCS struct {
	service *gcs.Service
}

// NewGCS creates a GCS store. With an empty credentialsFile the client
// falls back to application default credentials.
func NewGCS(ctx context.Context, credentialsFile string) (*GCS, error) {
	opts := []option.ClientOption{option.WithScopes(gcs.DevstorageReadWriteScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	service, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &GCS{service: service}, nil
}

// Put writes data to bucket/object, replacing any existing object.
func (g *GCS) Put(ctx context.Context, bucket, object string, data []byte) error {
	obj := &gcs.Object{Name: object, ContentType: contentTypeFor(object)}
	_, err := g.service.Objects.Insert(bucket, obj).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("insert object %s/%s: %w", bucket, object, err)
	}
	return nil
}

// Get reads the full content of bucket/object.
func (g *GCS) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	resp, err := g.service.Objects.Get(bucket, object).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download object %s/%s: %w", bucket, object, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// Upload streams the local file at localPath to bucket/object.
func (g *GCS) Upload(ctx context.Context, bucket, object, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	obj := &gcs.Object{Name: object, ContentType: contentTypeFor(localPath)}
	_, err = g.service.Objects.Insert(bucket, obj).
		Media(f).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", localPath, bucket, object, err)
	}
	return nil
}

// contentTypeFor maps a file name to its MIME type, defaulting to a generic
// binary type for extensions the platform does not know.
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
