package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores objects as files under a root directory, one subdirectory per
// bucket. It exists for development and tests; object names may contain
// slashes, which become nested directories.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at root. The directory is created on
// first write, not here.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Put writes data to <root>/<bucket>/<object>, replacing any existing file.
// The write goes through a temp file and a rename so a concurrent reader
// never sees a half-written object.
func (l *Local) Put(_ context.Context, bucket, object string, data []byte) error {
	path := l.objectPath(bucket, object)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write object %s/%s: %w", bucket, object, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename object %s/%s: %w", bucket, object, err)
	}
	return nil
}

// Get reads the full content of <root>/<bucket>/<object>.
func (l *Local) Get(_ context.Context, bucket, object string) ([]byte, error) {
	data, err := os.ReadFile(l.objectPath(bucket, object))
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// Upload copies the local file at localPath into the store.
func (l *Local) Upload(ctx context.Context, bucket, object, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", localPath, err)
	}
	return l.Put(ctx, bucket, object, data)
}

func (l *Local) objectPath(bucket, object string) string {
	return filepath.Join(l.root, bucket, filepath.FromSlash(object))
}
