package ports

import "context"

// Row is one roster row keyed by trimmed header name, along with its 1-based
// position among the data rows.
type Row struct {
	Index  int
	Fields map[string]string
}

type Processor interface {
	Type() string
	ProcessBatch(ctx context.Context, batch []Row) error
}
