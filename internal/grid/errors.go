package grid

import (
	"errors"

	"github.com/dshills/gridstorm/internal/grid/rowselect"
)

// Sentinel errors for grid operations.
var (
	// ErrMissingRowKeyGetter is returned when row selection is used
	// without a row key getter.
	ErrMissingRowKeyGetter = rowselect.ErrMissingRowKeyGetter

	// ErrUnknownColumn is returned when a column index or key does not
	// name a column.
	ErrUnknownColumn = errors.New("grid: unknown column")

	// ErrNotSelectable is returned when row selection is requested but the
	// host handles no selection changes.
	ErrNotSelectable = errors.New("grid: row selection is not enabled")
)
