package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"family_directory/internal/ports"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ErrMissingColumns = errors.New("roster is missing required columns")
	ErrNoSheets       = errors.New("xlsx has no sheets")
)

const defaultBatchSize = 1000

type Request struct {
	FilePath  string
	Start     int // first data row to keep, 1-based
	End       int // last data row to keep; < 1 means no limit
	BatchSize int
	Debug     bool
	Required  []string // header columns that must be present
}

type Result struct {
	Source        string
	FilePath      string
	Format        string
	RowsRead      int
	RowsProcessed int
	SHA256        string
	ContentType   string
	Bucket        string
	Key           string
	SizeBytes     int64
}

type Service struct {
	Opener    ports.FileOpener
	DefaultBS int
	log       *zap.Logger
}

func NewService(opener ports.FileOpener, defaultBatch int, log *zap.Logger) *Service {
	if defaultBatch <= 0 {
		defaultBatch = defaultBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Opener: opener, DefaultBS: defaultBatch, log: log}
}

// Import reads the whole roster and hands the rows inside the requested window
// to proc. Any structural problem (unreadable file, bad header, malformed CSV
// row) aborts the import.
func (s *Service) Import(ctx context.Context, req Request, proc ports.Processor) (Result, error) {
	t0 := time.Now()
	s.log.Info("[IMP][START]",
		zap.String("processor", proc.Type()),
		zap.String("path", req.FilePath),
		zap.Int("start", req.Start),
		zap.Int("end", req.End))

	rc, meta, err := s.Opener.Open(ctx, req.FilePath)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, fmt.Errorf("read roster: %w", err)
	}
	sum := sha256.Sum256(data)

	format := detectFormat(req.FilePath, meta.ContentType)
	if format == "" {
		format = sniffFormat(data)
	}
	s.log.Debug("[IMP]",
		zap.String("source", meta.Source),
		zap.String("content_type", meta.ContentType),
		zap.Int("size", len(data)),
		zap.String("format", format))

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.DefaultBS
	}
	b := &batcher{
		ctx:      ctx,
		proc:     proc,
		size:     batchSize,
		start:    req.Start,
		end:      req.End,
		debug:    req.Debug,
		required: req.Required,
		log:      s.log,
	}

	switch format {
	case "xlsx":
		err = s.streamXLSXFirstSheet(data, b)
	default:
		format = "csv"
		err = s.streamCSV(data, b)
	}
	if err != nil {
		return Result{}, err
	}

	s.log.Info("[IMP][DONE]",
		zap.String("format", format),
		zap.Int("rows_read", b.read),
		zap.Int("rows", b.total),
		zap.Int("batches", b.batches),
		zap.Duration("duration", time.Since(t0)))

	return Result{
		Source:        meta.Source,
		FilePath:      req.FilePath,
		Format:        format,
		RowsRead:      b.read,
		RowsProcessed: b.total,
		SHA256:        hex.EncodeToString(sum[:]),
		ContentType:   meta.ContentType,
		Bucket:        meta.Bucket,
		Key:           meta.Key,
		SizeBytes:     int64(len(data)),
	}, nil
}

func (s *Service) streamCSV(data []byte, b *batcher) error {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("%w: empty file", ErrMissingColumns)
	}
	if err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	if err := b.setHeader(header); err != nil {
		return err
	}
	s.log.Debug("[IMP][CSV]", zap.Strings("header", b.header))

	for !b.done() {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
		stop, err := b.add(record)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return b.flush()
}

func (s *Service) streamXLSXFirstSheet(data []byte, b *batcher) error {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ErrNoSheets
	}
	sheet := sheets[0]
	s.log.Debug("[IMP][XLSX]", zap.String("first_sheet", sheet))

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("xlsx rows: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Error(); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
		return fmt.Errorf("%w: empty sheet %q", ErrMissingColumns, sheet)
	}
	header, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	if err := b.setHeader(header); err != nil {
		return err
	}
	s.log.Debug("[IMP][XLSX]", zap.Strings("header", b.header))

	for !b.done() && rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("xlsx row: %w", err)
		}
		if blank(cols) {
			continue
		}
		stop, err := b.add(cols)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("xlsx rows: %w", err)
	}
	return b.flush()
}

// batcher numbers data rows, applies the [start, end] window and forwards
// rows to the processor in fixed-size batches.
type batcher struct {
	ctx      context.Context
	proc     ports.Processor
	size     int
	start    int
	end      int
	debug    bool
	required []string
	log      *zap.Logger

	header  []string
	batch   []ports.Row
	read    int
	total   int
	batches int
}

func (b *batcher) setHeader(header []string) error {
	b.header = make([]string, len(header))
	for i, h := range header {
		b.header[i] = strings.TrimSpace(h)
	}
	if len(b.header) > 0 {
		b.header[0] = strings.TrimPrefix(b.header[0], "\ufeff")
	}
	return validateHeader(b.header, b.required)
}

// done reports whether the row at end has been consumed, so nothing past it
// is read at all.
func (b *batcher) done() bool {
	return b.end > 0 && b.read >= b.end
}

// add consumes the next data row. stop is true once the row index passes end.
func (b *batcher) add(record []string) (stop bool, err error) {
	if err := b.ctx.Err(); err != nil {
		return true, err
	}
	b.read++
	i := b.read
	if i < b.start {
		return false, nil
	}
	if b.end > 0 && i > b.end {
		return true, nil
	}

	row := ports.Row{Index: i, Fields: toMap(b.header, record)}
	if b.debug {
		b.log.Debug("[IMP] processing record", zap.Int("record", i), zap.Any("row", row.Fields))
	}
	b.batch = append(b.batch, row)

	if len(b.batch) >= b.size {
		return false, b.flush()
	}
	return false, nil
}

func (b *batcher) flush() error {
	if len(b.batch) == 0 {
		return nil
	}
	b.log.Debug("[IMP] send batch",
		zap.Int("batch", b.batches+1),
		zap.Int("size", len(b.batch)),
		zap.Int("total_so_far", b.total))
	if err := b.proc.ProcessBatch(b.ctx, b.batch); err != nil {
		return err
	}
	b.total += len(b.batch)
	b.batches++
	b.batch = make([]ports.Row, 0, b.size)
	return nil
}

// ---------- helpers ----------

func validateHeader(header, required []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, col := range required {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func toMap(header []string, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, key := range header {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		m[key] = strings.TrimSpace(val)
	}
	return m
}

func blank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func detectFormat(filePath, contentType string) string {
	p := filePath
	if u, err := url.Parse(filePath); err == nil && u != nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	switch ext {
	case "xlsx":
		return "xlsx"
	case "csv", "txt":
		return "csv"
	}
	med, _, _ := mime.ParseMediaType(contentType)
	switch med {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return "xlsx"
	case "text/csv", "application/csv", "text/plain":
		return "csv"
	}
	return ""
}

// sniffFormat treats zip content as a workbook and anything else as CSV.
func sniffFormat(data []byte) string {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return "xlsx"
	}
	return "csv"
}
