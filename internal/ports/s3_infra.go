package ports

import (
	"context"
	"io"
)

// Low-level audio object store.
type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
	Ping(ctx context.Context) error
}
