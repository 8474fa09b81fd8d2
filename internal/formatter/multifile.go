package formatter

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// separatePath names the file for one table: <base>_<table><ext>, where
// base is path without its extension.
func separatePath(path, table, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s_%s%s", base, table, ext)
}

// exportSeparate writes each readable table to its own file next to path.
func (e *fileExporter) exportSeparate(ctx context.Context, names []string, path string) (*Batch, error) {
	batch := &Batch{Files: make([]string, 0, len(names))}
	var firstErr error
	for _, name := range names {
		t, err := e.src.Fetch(ctx, name)
		if err != nil {
			if err := batch.skip(ctx, name, err); err != nil {
				return batch, err
			}
			firstErr = cmp.Or(firstErr, err)
			continue
		}

		target := separatePath(path, name, e.ext)
		err = writeFile(target, func(w io.Writer) error {
			return e.enc.encodeTable(w, e.src.Mode(), t)
		})
		if err != nil {
			return batch, fmt.Errorf("failed to write table file for %s: %w", name, err)
		}
		batch.Files = append(batch.Files, target)
		batch.Exported = append(batch.Exported, name)
	}
	if len(batch.Exported) == 0 && firstErr != nil {
		return batch, firstErr
	}
	return batch, nil
}
