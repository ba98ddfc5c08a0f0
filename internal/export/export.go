// Package export turns dashboard rows into CSV, JSON and Excel files and hands
// the bytes to a FileSink. Exporting nothing is a logged no-op, not an error.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

// DefaultFilename is used when the caller passes a blank name.
const DefaultFilename = "export"

// DefaultSheetName names the single worksheet of an Excel export.
const DefaultSheetName = "Sheet1"

// Content types per format.
const (
	ContentTypeCSV   = "text/csv; charset=utf-8"
	ContentTypeJSON  = "application/json; charset=utf-8"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoSink        = errors.New("no file sink configured")
)

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatExcel:
		return ".xlsx"
	}
	return ""
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return ContentTypeCSV
	case FormatJSON:
		return ContentTypeJSON
	case FormatExcel:
		return ContentTypeExcel
	}
	return "application/octet-stream"
}

// ParseFormat reads a format name; "xlsx" is an alias for excel.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Record is one row of exported data.
type Record = map[string]interface{}

// Column selects a field of each record. Key may be a dotted path into nested
// maps, e.g. "author.name". Formatter, when set, renders the cell text.
type Column struct {
	Key       string
	Title     string
	Formatter func(value interface{}, record Record) string
}

// Exporter renders records and saves them through a sink.
type Exporter struct {
	sink     FileSink
	workbook WorkbookWriter
	sheet    string
	logger   *log.Logger
	now      func() time.Time
	metrics  *exportMetrics
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWorkbookWriter replaces the Excel writer. Passing nil turns Excel exports
// into logged no-ops.
func WithWorkbookWriter(w WorkbookWriter) Option {
	return func(e *Exporter) { e.workbook = w }
}

// WithSheetName sets the worksheet name of Excel exports.
func WithSheetName(name string) Option {
	return func(e *Exporter) {
		if strings.TrimSpace(name) != "" {
			e.sheet = name
		}
	}
}

// WithClock sets the time source stamped into workbook properties.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Exporter writing to sink. Excel files are produced with
// excelize unless WithWorkbookWriter says otherwise.
func New(sink FileSink, opts ...Option) *Exporter {
	e := &Exporter{
		sink:    sink,
		sheet:   DefaultSheetName,
		logger:  log.Default(),
		now:     time.Now,
		metrics: globalExportMetrics(),
	}
	e.workbook = NewExcelizeWriter(func() time.Time { return e.now() })
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export dispatches to the writer for format.
func (e *Exporter) Export(ctx context.Context, format Format, data []Record, columns []Column, filename string) error {
	switch format {
	case FormatCSV:
		return e.ExportToCSV(ctx, data, columns, filename)
	case FormatJSON:
		return e.ExportToJSON(ctx, data, columns, filename)
	case FormatExcel:
		return e.ExportToExcel(ctx, data, columns, filename)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ExportToCSV writes a UTF-8 CSV with a byte order mark and a header of column
// titles.
func (e *Exporter) ExportToCSV(ctx context.Context, data []Record, columns []Column, filename string) error {
	if e.skipEmpty(FormatCSV, data) {
		return nil
	}
	body, err := renderCSV(data, resolveColumns(data, columns))
	if err != nil {
		e.metrics.record(FormatCSV, resultFailure)
		return fmt.Errorf("render csv: %w", err)
	}
	return e.save(ctx, FormatCSV, filename, body)
}

// ExportToJSON writes an indented JSON array. With columns, each element holds
// only the selected keys; without, records are written whole.
func (e *Exporter) ExportToJSON(ctx context.Context, data []Record, columns []Column, filename string) error {
	if e.skipEmpty(FormatJSON, data) {
		return nil
	}
	body, err := renderJSON(data, columns)
	if err != nil {
		e.metrics.record(FormatJSON, resultFailure)
		return fmt.Errorf("render json: %w", err)
	}
	return e.save(ctx, FormatJSON, filename, body)
}

// ExportToExcel writes a single-sheet workbook. Without a workbook writer the
// call logs a warning and writes nothing.
func (e *Exporter) ExportToExcel(ctx context.Context, data []Record, columns []Column, filename string) error {
	if e.skipEmpty(FormatExcel, data) {
		return nil
	}
	if e.workbook == nil {
		e.logger.Printf("Warning: Excel export unavailable, no workbook writer configured")
		e.metrics.record(FormatExcel, resultSkipped)
		return nil
	}

	cols := resolveColumns(data, columns)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.title()
	}
	rows := make([][]interface{}, len(data))
	for i, rec := range data {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			row[j] = excelCell(col, rec)
		}
		rows[i] = row
	}

	body, err := e.workbook.Write(e.sheet, header, rows)
	if err != nil {
		e.metrics.record(FormatExcel, resultFailure)
		return fmt.Errorf("render workbook: %w", err)
	}
	return e.save(ctx, FormatExcel, filename, body)
}

func (e *Exporter) skipEmpty(format Format, data []Record) bool {
	if len(data) > 0 {
		return false
	}
	e.logger.Printf("Warning: No data to export")
	e.metrics.record(format, resultSkipped)
	return true
}

func (e *Exporter) save(ctx context.Context, format Format, filename string, body []byte) error {
	if e.sink == nil {
		e.metrics.record(format, resultFailure)
		return ErrNoSink
	}
	file := File{
		Name:        Filename(filename, format),
		ContentType: format.ContentType(),
		Data:        body,
	}
	if err := e.sink.Save(ctx, file); err != nil {
		e.metrics.record(format, resultFailure)
		return fmt.Errorf("save %s: %w", file.Name, err)
	}
	e.metrics.record(format, resultSuccess)
	e.metrics.recordBytes(format, len(body))
	return nil
}

// Filename trims name, falls back to DefaultFilename and appends the format's
// extension unless already present.
func Filename(name string, format Format) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFilename
	}
	ext := format.Extension()
	if ext != "" && !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}

// resolveColumns derives one column per key of the first record, sorted,
// when none are given.
func resolveColumns(data []Record, columns []Column) []Column {
	if len(columns) > 0 || len(data) == 0 {
		return columns
	}
	keys := make([]string, 0, len(data[0]))
	for k := range data[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Column, len(keys))
	for i, k := range keys {
		out[i] = Column{Key: k, Title: k}
	}
	return out
}

func (c Column) title() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// Value looks up key in rec. A literal key wins over a dotted path.
func Value(rec Record, key string) interface{} {
	if v, ok := rec[key]; ok {
		return v
	}
	if !strings.Contains(key, ".") {
		return nil
	}
	var cur interface{} = rec
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}
