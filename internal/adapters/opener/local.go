package opener

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"family_directory/internal/ports"

	"go.uber.org/zap"
)

type LocalOpener struct{ log *zap.Logger }

func NewLocalOpener(log *zap.Logger) *LocalOpener {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalOpener{log: log}
}

func (l *LocalOpener) Open(ctx context.Context, path string) (io.ReadCloser, ports.Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, ports.Meta{}, err
	}
	l.log.Debug("[OPENER][FILE][START]", zap.String("path", path))
	f, err := os.Open(path)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("open roster: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ports.Meta{}, fmt.Errorf("stat roster: %w", err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ports.Meta{}, fmt.Errorf("open roster: %s is a directory", path)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	l.log.Debug("[OPENER][FILE][OK]", zap.String("content_type", ct), zap.Int64("size", st.Size()))
	return f, ports.Meta{
		Source:      "file",
		ContentType: ct,
		Size:        st.Size(),
		Path:        path,
	}, nil
}
