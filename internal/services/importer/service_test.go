package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"family_directory/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeOpener struct {
	data []byte
	meta ports.Meta
	err  error
}

func (f *fakeOpener) Open(ctx context.Context, filePath string) (io.ReadCloser, ports.Meta, error) {
	if f.err != nil {
		return nil, ports.Meta{}, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), f.meta, nil
}

type recordingProcessor struct {
	batches [][]ports.Row
	err     error
}

func (r *recordingProcessor) Type() string { return "recording" }

func (r *recordingProcessor) ProcessBatch(ctx context.Context, batch []ports.Row) error {
	if r.err != nil {
		return r.err
	}
	cp := make([]ports.Row, len(batch))
	copy(cp, batch)
	r.batches = append(r.batches, cp)
	return nil
}

func (r *recordingProcessor) rows() []ports.Row {
	var out []ports.Row
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

var required = []string{"Family", "First Name"}

const roster = `Family,First Name,Age
10, Ann ,40
10,Bob,41
11,Cy,
12,Di,7
`

func newService(data string) *Service {
	return NewService(&fakeOpener{data: []byte(data), meta: ports.Meta{Source: "file"}}, 0, nil)
}

func TestImport_csvAllRows(t *testing.T) {
	proc := &recordingProcessor{}
	res, err := newService(roster).Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, proc)
	require.NoError(t, err)

	rows := proc.rows()
	require.Len(t, rows, 4)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Ann", rows[0].Fields["First Name"])
	assert.Equal(t, "", rows[2].Fields["Age"])
	assert.Equal(t, 4, rows[3].Index)

	assert.Equal(t, "csv", res.Format)
	assert.Equal(t, 4, res.RowsRead)
	assert.Equal(t, 4, res.RowsProcessed)
	assert.Equal(t, "file", res.Source)
	assert.Len(t, res.SHA256, 64)
	assert.Equal(t, int64(len(roster)), res.SizeBytes)
}

func TestImport_window(t *testing.T) {
	proc := &recordingProcessor{}
	res, err := newService(roster).Import(context.Background(), Request{FilePath: "roster.csv", Start: 2, End: 3, Required: required}, proc)
	require.NoError(t, err)

	rows := proc.rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Index)
	assert.Equal(t, "Bob", rows[0].Fields["First Name"])
	assert.Equal(t, 3, rows[1].Index)
	assert.Equal(t, 2, res.RowsProcessed)
}

func TestImport_startPastEnd(t *testing.T) {
	proc := &recordingProcessor{}
	_, err := newService(roster).Import(context.Background(), Request{FilePath: "roster.csv", Start: 10, Required: required}, proc)
	require.NoError(t, err)
	assert.Empty(t, proc.rows())
}

func TestImport_stopsBeforeMalformedRowPastEnd(t *testing.T) {
	data := roster + "13,too,many,fields\n"
	proc := &recordingProcessor{}
	_, err := newService(data).Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, End: 4, Required: required}, proc)
	require.NoError(t, err)
	assert.Len(t, proc.rows(), 4)
}

func TestImport_readsNothingPastEnd(t *testing.T) {
	data := roster + "13,\"unterminated\n"
	proc := &recordingProcessor{}
	res, err := newService(data).Import(context.Background(), Request{FilePath: "roster.csv", Start: 2, End: 4, Required: required}, proc)
	require.NoError(t, err)
	assert.Equal(t, 4, res.RowsRead)
	assert.Equal(t, 3, res.RowsProcessed)

	_, err = newService(data).Import(context.Background(), Request{FilePath: "roster.csv", Start: 2, Required: required}, &recordingProcessor{})
	require.Error(t, err)
}

func TestImport_malformedRowIsFatal(t *testing.T) {
	data := roster + "13,too,many,fields\n"
	proc := &recordingProcessor{}
	_, err := newService(data).Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, proc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv row")
}

func TestImport_missingColumns(t *testing.T) {
	proc := &recordingProcessor{}
	_, err := newService("Family,Age\n1,2\n").Import(context.Background(),
		Request{FilePath: "roster.csv", Start: 1, Required: []string{"Family", "First Name", "Zip"}}, proc)
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "First Name, Zip")
	assert.Empty(t, proc.batches)
}

func TestImport_emptyFile(t *testing.T) {
	_, err := newService("").Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, &recordingProcessor{})
	require.ErrorIs(t, err, ErrMissingColumns)
}

func TestImport_byteOrderMark(t *testing.T) {
	proc := &recordingProcessor{}
	_, err := newService("\ufeff"+roster).Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, proc)
	require.NoError(t, err)
	assert.Equal(t, "10", proc.rows()[0].Fields["Family"])
}

func TestImport_openError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeOpener{err: boom}, 0, nil)
	_, err := svc.Import(context.Background(), Request{FilePath: "roster.csv", Start: 1}, &recordingProcessor{})
	require.ErrorIs(t, err, boom)
}

func TestImport_processorError(t *testing.T) {
	boom := errors.New("processor failed")
	_, err := newService(roster).Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, &recordingProcessor{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestImport_batching(t *testing.T) {
	proc := &recordingProcessor{}
	svc := NewService(&fakeOpener{data: []byte(roster)}, 3, nil)
	res, err := svc.Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, proc)
	require.NoError(t, err)
	require.Len(t, proc.batches, 2)
	assert.Len(t, proc.batches[0], 3)
	assert.Len(t, proc.batches[1], 1)
	assert.Equal(t, 4, res.RowsProcessed)
}

func TestImport_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(roster).Import(ctx, Request{FilePath: "roster.csv", Start: 1, Required: required}, &recordingProcessor{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestImport_debugTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(&fakeOpener{data: []byte(roster)}, 0, zap.New(core))

	_, err := svc.Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, End: 2, Required: required, Debug: true}, &recordingProcessor{})
	require.NoError(t, err)

	traced := logs.FilterMessage("[IMP] processing record").All()
	require.Len(t, traced, 2)
	assert.Equal(t, int64(1), traced[0].ContextMap()["record"])

	core, logs = observer.New(zapcore.DebugLevel)
	svc = NewService(&fakeOpener{data: []byte(roster)}, 0, zap.New(core))
	_, err = svc.Import(context.Background(), Request{FilePath: "roster.csv", Start: 1, Required: required}, &recordingProcessor{})
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("[IMP] processing record").Len())
}

func xlsxRoster(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImport_xlsx(t *testing.T) {
	data := xlsxRoster(t, [][]any{
		{"Family", "First Name", "Age"},
		{"10", " Ann", "40"},
		{"", "", ""},
		{"11", "Cy"},
	})
	proc := &recordingProcessor{}
	svc := NewService(&fakeOpener{data: data}, 0, nil)

	res, err := svc.Import(context.Background(), Request{FilePath: "roster.xlsx", Start: 1, Required: required}, proc)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", res.Format)

	rows := proc.rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Ann", rows[0].Fields["First Name"])
	assert.Equal(t, "Cy", rows[1].Fields["First Name"])
	assert.Equal(t, "", rows[1].Fields["Age"])
	assert.Equal(t, 2, rows[1].Index)
}

func TestImport_xlsxWindow(t *testing.T) {
	data := xlsxRoster(t, [][]any{
		{"Family", "First Name"},
		{"10", "Ann"},
		{"11", "Bob"},
		{"12", "Cy"},
	})
	proc := &recordingProcessor{}
	svc := NewService(&fakeOpener{data: data}, 0, nil)

	res, err := svc.Import(context.Background(), Request{FilePath: "roster.xlsx", Start: 1, End: 2, Required: required}, proc)
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsRead)

	rows := proc.rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[1].Fields["First Name"])
}

func TestImport_xlsxMissingColumns(t *testing.T) {
	data := xlsxRoster(t, [][]any{{"Family"}, {"10"}})
	svc := NewService(&fakeOpener{data: data}, 0, nil)
	_, err := svc.Import(context.Background(), Request{FilePath: "roster.xlsx", Start: 1, Required: required}, &recordingProcessor{})
	require.ErrorIs(t, err, ErrMissingColumns)
}

func TestImport_sniffsWorkbookWithoutExtension(t *testing.T) {
	data := xlsxRoster(t, [][]any{{"Family", "First Name"}, {"10", "Ann"}})
	proc := &recordingProcessor{}
	svc := NewService(&fakeOpener{data: data}, 0, nil)

	res, err := svc.Import(context.Background(), Request{FilePath: "s3://bucket/export", Start: 1, Required: required}, proc)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", res.Format)
	assert.Len(t, proc.rows(), 1)
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path, ct, want string
	}{
		{"people.csv", "", "csv"},
		{"PEOPLE.XLSX", "", "xlsx"},
		{"https://host/export.xlsx?token=1", "", "xlsx"},
		{"export", "text/csv; charset=utf-8", "csv"},
		{"export", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"},
		{"export", "", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, detectFormat(c.path, c.ct), c.path)
	}
}

func TestToMap_shortRow(t *testing.T) {
	m := toMap([]string{"a", "b"}, []string{" x "})
	assert.Equal(t, map[string]string{"a": "x", "b": ""}, m)
}
