package formatter

import (
	"context"
	"fmt"
	"path/filepath"
)

// Request describes one export run.
type Request struct {
	Format string
	// Tables holds glob patterns or exact names; empty selects every table.
	Tables []string
	// Separate writes one file per table instead of a combined file.
	Separate bool
	Options  Options
}

// Result summarizes a finished export.
type Result struct {
	Mode           string   `json:"provider_mode"`
	Format         string   `json:"format"`
	TablesExported int      `json:"tables_exported"`
	TableNames     []string `json:"table_names"`
	OutputFiles    []string `json:"output_files"`
	SingleFile     bool     `json:"single_file"`
	// Failed maps tables skipped in a multi-table export to the reason.
	Failed map[string]string `json:"failed_tables,omitempty"`
}

// Run selects tables from src and writes them to outputPath. A path without
// an extension gets the format's extension. A selection of one table is
// written as a single-table document even in separate mode, and fails if
// that table cannot be read. Larger selections skip unreadable tables.
func Run(ctx context.Context, src Source, outputPath string, req Request) (*Result, error) {
	exp, err := New(req.Format, src, req.Options)
	if err != nil {
		return nil, err
	}

	available, err := src.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	selected, err := SelectTables(available, req.Tables)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(outputPath) == "" {
		outputPath += exp.Extension()
	}

	batch := &Batch{Exported: selected}
	if len(selected) == 1 {
		if err := exp.ExportTable(ctx, selected[0], outputPath); err != nil {
			return nil, err
		}
		batch.Files = []string{outputPath}
	} else {
		batch, err = exp.ExportTables(ctx, selected, outputPath, !req.Separate)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Mode:           src.Mode(),
		Format:         exp.Name(),
		TablesExported: len(batch.Exported),
		TableNames:     batch.Exported,
		OutputFiles:    batch.Files,
		SingleFile:     len(selected) == 1 || !req.Separate,
		Failed:         batch.Failed,
	}, nil
}
