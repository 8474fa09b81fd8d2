package merlindb

import (
	"github.com/tordrt/merlindb/internal/db"
	"github.com/tordrt/merlindb/internal/formatter"
	"github.com/tordrt/merlindb/internal/materialize"
	"github.com/tordrt/merlindb/internal/provider"
	"github.com/tordrt/merlindb/internal/schema"
)

// Types shared with the internal packages.
type (
	Table            = schema.Table
	Column           = schema.Column
	ColumnType       = schema.ColumnType
	CatalogReader    = db.CatalogReader
	ValidationResult = materialize.Result
	ValidationError  = materialize.ValidationError
	ExportResult     = formatter.Result
)

// Error kinds. Match them with errors.Is and errors.As.
type (
	OpenError              = schema.OpenError
	TableNotFoundError     = schema.TableNotFoundError
	TableDecodeError       = schema.TableDecodeError
	NoTablesMatchedError   = schema.NoTablesMatchedError
	UnsupportedFormatError = schema.UnsupportedFormatError
)

var (
	// ErrFileNotOpenable matches every error returned by Open.
	ErrFileNotOpenable = schema.ErrFileNotOpenable

	// ErrNotImplemented is returned when fetching tables of the placeholder modes.
	ErrNotImplemented = provider.ErrNotImplemented
)
