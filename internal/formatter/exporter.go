// Package formatter writes decoded tables to interchange formats.
package formatter

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/merlindb/internal/schema"
)

// Source supplies the tables to export. provider.Provider satisfies it.
type Source interface {
	Mode() string
	ListAvailable(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, name string) (*schema.Table, error)
}

// Options tune individual formats.
type Options struct {
	// CSVSeparators inserts a row of "---" between tables in combined CSV output.
	CSVSeparators bool
}

// Exporter writes tables from a Source in one format.
type Exporter interface {
	// Name is the display name, e.g. "JSON".
	Name() string
	// Extension includes the dot, e.g. ".json".
	Extension() string
	ExportTable(ctx context.Context, name, path string) error
	// ExportTables writes one combined file when singleFile is set, otherwise
	// one file per table. A table that cannot be read is skipped and reported
	// in Batch.Failed; the call fails only when no table could be read or a
	// file could not be written.
	ExportTables(ctx context.Context, names []string, path string, singleFile bool) (*Batch, error)
}

// Batch reports the outcome of a multi-table export.
type Batch struct {
	Files    []string
	Exported []string
	// Failed maps each skipped table to the reason it could not be read.
	Failed map[string]string
}

// skip records a table that could not be read. Cancellation is never skipped.
func (b *Batch) skip(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if b.Failed == nil {
		b.Failed = make(map[string]string)
	}
	b.Failed[name] = err.Error()
	return nil
}

// encoder renders a single table document.
type encoder interface {
	encodeTable(w io.Writer, mode string, t *schema.Table) error
}

// multiEncoder renders several tables into one document.
type multiEncoder interface {
	encodeTables(w io.Writer, mode string, tables []*schema.Table) error
}

type format struct {
	name string
	ext  string
	new  func(opts Options) encoder
}

var formats = map[string]format{
	"json":     {"JSON", ".json", func(Options) encoder { return jsonEncoder{} }},
	"yaml":     {"YAML", ".yaml", func(Options) encoder { return yamlEncoder{} }},
	"csv":      {"CSV", ".csv", func(o Options) encoder { return csvEncoder{separators: o.CSVSeparators} }},
	"xlsx":     {"XLSX", ".xlsx", func(Options) encoder { return xlsxEncoder{} }},
	"parquet":  {"Parquet", ".parquet", func(Options) encoder { return parquetEncoder{} }},
	"markdown": {"Markdown", ".md", func(Options) encoder { return markdownEncoder{} }},
	"text":     {"Text", ".txt", func(Options) encoder { return textEncoder{} }},
}

// Formats lists the supported format keys in sorted order.
func Formats() []string {
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New returns the exporter for a format key, matched case-insensitively.
func New(formatName string, src Source, opts Options) (Exporter, error) {
	f, ok := formats[strings.ToLower(formatName)]
	if !ok {
		return nil, &schema.UnsupportedFormatError{Format: formatName, Available: Formats()}
	}
	return &fileExporter{format: f, src: src, enc: f.new(opts)}, nil
}

type fileExporter struct {
	format
	src Source
	enc encoder
}

func (e *fileExporter) Name() string      { return e.name }
func (e *fileExporter) Extension() string { return e.ext }

// checkTables fails when any name is not offered by the source.
func (e *fileExporter) checkTables(ctx context.Context, names []string) error {
	available, err := e.src.ListAvailable(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	known := make(map[string]bool, len(available))
	for _, n := range available {
		known[n] = true
	}
	var invalid []string
	for _, n := range names {
		if !known[n] {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		return &schema.TableNotFoundError{Name: strings.Join(invalid, ", "), Available: available}
	}
	return nil
}

func (e *fileExporter) ExportTable(ctx context.Context, name, path string) error {
	if err := e.checkTables(ctx, []string{name}); err != nil {
		return err
	}
	t, err := e.src.Fetch(ctx, name)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return e.enc.encodeTable(w, e.src.Mode(), t)
	})
}

func (e *fileExporter) ExportTables(ctx context.Context, names []string, path string, singleFile bool) (*Batch, error) {
	if err := e.checkTables(ctx, names); err != nil {
		return nil, err
	}
	if !singleFile {
		return e.exportSeparate(ctx, names, path)
	}

	multi, ok := e.enc.(multiEncoder)
	if !ok {
		return nil, fmt.Errorf("%s export cannot combine %d tables in one file; export them separately", e.name, len(names))
	}

	batch := &Batch{}
	tables := make([]*schema.Table, 0, len(names))
	var firstErr error
	for _, name := range names {
		t, err := e.src.Fetch(ctx, name)
		if err != nil {
			if err := batch.skip(ctx, name, err); err != nil {
				return nil, err
			}
			firstErr = cmp.Or(firstErr, err)
			continue
		}
		tables = append(tables, t)
		batch.Exported = append(batch.Exported, name)
	}
	if len(tables) == 0 && firstErr != nil {
		return nil, firstErr
	}

	err := writeFile(path, func(w io.Writer) error {
		return multi.encodeTables(w, e.src.Mode(), tables)
	})
	if err != nil {
		return nil, err
	}
	batch.Files = []string{path}
	return batch, nil
}

// writeFile creates path and its parent directories and runs fn on it.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := fn(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
