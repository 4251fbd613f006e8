package opener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"family_directory/internal/ports"
)

var ErrNotConfigured = errors.New("opener not configured")

// CompoundOpener dispatches on the path scheme: http(s):// and s3:// go to the
// remote openers, everything else is a local file.
type CompoundOpener struct {
	Local *LocalOpener
	HTTP  *HTTPOpener
	S3    *S3Opener
}

func NewCompoundOpener(local *LocalOpener, httpOp *HTTPOpener, s3Op *S3Opener) *CompoundOpener {
	return &CompoundOpener{Local: local, HTTP: httpOp, S3: s3Op}
}

func (c *CompoundOpener) Open(ctx context.Context, filePath string) (io.ReadCloser, ports.Meta, error) {
	fp := strings.TrimSpace(filePath)

	switch {
	case strings.HasPrefix(fp, "http://") || strings.HasPrefix(fp, "https://"):
		if c.HTTP == nil {
			return nil, ports.Meta{}, fmt.Errorf("http: %w", ErrNotConfigured)
		}
		return c.HTTP.Open(ctx, fp)

	case strings.HasPrefix(fp, "s3://"):
		if c.S3 == nil {
			return nil, ports.Meta{}, fmt.Errorf("s3: %w", ErrNotConfigured)
		}
		bkt, key, err := parseS3URL(fp)
		if err != nil {
			return nil, ports.Meta{}, err
		}
		return c.S3.Open(ctx, bkt, key)

	default:
		if c.Local == nil {
			return nil, ports.Meta{}, fmt.Errorf("file: %w", ErrNotConfigured)
		}
		return c.Local.Open(ctx, fp)
	}
}

// IsS3 reports whether the path needs an S3 connection.
func IsS3(filePath string) bool {
	return strings.HasPrefix(strings.TrimSpace(filePath), "s3://")
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	key = path.Clean(key)
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}
