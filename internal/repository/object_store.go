package repository

import "context"

// ObjectStore is the storage boundary of the pipeline: bronze raw pushes,
// silver valid/error sets and the gold document all go through it. The
// pipeline makes no assumption about the medium behind it.
type ObjectStore interface {
	Put(ctx context.Context, bucket, object string, data []byte) error
	Get(ctx context.Context, bucket, object string) ([]byte, error)
	Upload(ctx context.Context, bucket, object, localPath string) error
}
