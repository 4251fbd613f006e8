package ports

import (
	"context"
	"io"
)

// Meta describes where a roster came from.
type Meta struct {
	Source      string // "file", "http" or "s3"
	ContentType string
	Size        int64
	Path        string
	Bucket      string
	Key         string
}

type FileOpener interface {
	Open(ctx context.Context, filePath string) (io.ReadCloser, Meta, error)
}
