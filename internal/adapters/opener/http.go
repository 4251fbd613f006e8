package opener

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"family_directory/internal/ports"

	"go.uber.org/zap"
)

type HTTPOpener struct {
	Client *http.Client
	log    *zap.Logger
}

func NewHTTPOpener(cli *http.Client, log *zap.Logger) *HTTPOpener {
	if cli == nil {
		cli = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPOpener{Client: cli, log: log}
}

func (h *HTTPOpener) Open(ctx context.Context, url string) (io.ReadCloser, ports.Meta, error) {
	h.log.Debug("[OPENER][HTTP][START]", zap.String("url", url))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("fetch roster: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		h.log.Warn("[OPENER][HTTP][ERR]",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", resp.Header.Get("Content-Type")))
		return nil, ports.Meta{}, fmt.Errorf("http status %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	h.log.Debug("[OPENER][HTTP][OK]", zap.String("content_type", ct), zap.Int64("size", size))
	return resp.Body, ports.Meta{
		Source:      "http",
		ContentType: ct,
		Size:        size,
		Path:        url,
	}, nil
}
