package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/grid/viewport"
	"github.com/dshills/gridstorm/internal/input/key"
)

// RowsChange describes an OnRowsChange batch.
type RowsChange struct {
	Indexes []int
	Column  *column.Column
}

// CopyEvent is passed to OnCopy.
type CopyEvent struct {
	SourceRow       any
	SourceColumnKey string
}

// PasteEvent is passed to OnPaste.
type PasteEvent struct {
	SourceRow       any
	SourceColumnKey string
	TargetRow       any
	TargetColumnKey string
}

// FillEvent is passed to OnFill for every target row of a fill.
type FillEvent struct {
	ColumnKey string
	SourceRow any
	TargetRow any
}

// CellKeyDownArgs describe the cell a key went down on.
type CellKeyDownArgs struct {
	Mode   selection.Mode
	Row    any
	Column *column.Column
	RowIdx int

	// SelectCell is available in select mode.
	SelectCell func(pos selection.Position, openEditor bool)
	// Navigate and OnClose are available in edit mode.
	Navigate func()
	OnClose  func(commit bool)
}

// CellKeyEvent wraps a key event so that a handler can suppress the grid's
// default handling.
type CellKeyEvent struct {
	key.Event
	prevented bool
}

// PreventGridDefault stops the grid from handling the key.
func (e *CellKeyEvent) PreventGridDefault() {
	e.prevented = true
}

// IsGridDefaultPrevented reports whether PreventGridDefault was called.
func (e *CellKeyEvent) IsGridDefaultPrevented() bool {
	return e.prevented
}

// Callbacks are the host's change handlers. All are optional; a nil
// handler disables the feature it drives where the grid depends on it.
type Callbacks struct {
	OnRowsChange         func(rows []any, change RowsChange)
	OnSelectedRowsChange func(selected rowselect.Set)
	OnSortColumnsChange  func(cols []sorting.Column)
	OnColumnResize       func(idx, width int)
	OnFill               func(FillEvent) any
	OnCopy               func(CopyEvent)
	OnPaste              func(PasteEvent) any
	OnCellKeyDown        func(args CellKeyDownArgs, ev *CellKeyEvent)
	OnScroll             func(viewport.State)
	// OnExit is called when Tab moves focus out of the grid.
	OnExit func(shift bool)
	// OnError receives failures of gestures the grid handles itself, such
	// as Shift+Space without a row key getter.
	OnError func(err error)
}
