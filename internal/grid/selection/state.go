// Package selection owns the selected cell of the grid and computes where
// every navigation key moves it.
//
// Row indexes below zero address the header row and the top summary rows;
// indexes at or past the row count address the bottom summary rows. A
// column index of -1 selects the whole row (tree grids only).
package selection

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rows"
)

// Mode is the interaction mode of the selected cell.
type Mode uint8

const (
	// ModeSelect highlights the cell.
	ModeSelect Mode = iota
	// ModeEdit has an editor open on the cell.
	ModeEdit
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "SELECT"
}

// Position addresses a cell.
type Position struct {
	Idx    int
	RowIdx int
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Idx, p.RowIdx)
}

// State is the selected position and its mode. In ModeEdit, Row is the
// editor's working copy and OriginalRow the row it started from.
type State struct {
	Position
	Mode        Mode
	Row         any
	OriginalRow any
}

// Unselected returns the initial state for a grid whose first row index is
// minRowIdx.
func Unselected(minRowIdx int) State {
	return State{Position: Position{Idx: -1, RowIdx: minRowIdx - 1}}
}

// Deselected is the state after an explicit deselect.
func Deselected() State {
	return State{Position: Position{Idx: -1, RowIdx: -1}}
}

// Bounds are the addressable index ranges of a grid.
type Bounds struct {
	MinRowIdx int
	MaxRowIdx int
	MinColIdx int
	MaxColIdx int
	RowCount  int
}

// NewBounds derives the bounds of a grid with rowCount data rows, the given
// summary row counts and colCount columns. Tree grids allow row-level
// selection at column -1.
func NewBounds(rowCount, topSummary, bottomSummary, colCount int, tree bool) Bounds {
	b := Bounds{
		MinRowIdx: -1 - topSummary,
		MaxRowIdx: rowCount + bottomSummary - 1,
		MaxColIdx: colCount - 1,
		RowCount:  rowCount,
	}
	if tree {
		b.MinColIdx = -1
	}
	return b
}

// ColInBounds reports whether idx is a selectable column index.
func (b Bounds) ColInBounds(idx int) bool {
	return idx >= b.MinColIdx && idx <= b.MaxColIdx
}

// RowInViewport reports whether rowIdx addresses a data row.
func (b Bounds) RowInViewport(rowIdx int) bool {
	return rowIdx >= 0 && rowIdx < b.RowCount
}

// InSelection reports whether p is selectable, including header and
// summary rows.
func (b Bounds) InSelection(p Position) bool {
	return p.RowIdx >= b.MinRowIdx && p.RowIdx <= b.MaxRowIdx && b.ColInBounds(p.Idx)
}

// InViewport reports whether p addresses a data cell.
func (b Bounds) InViewport(p Position) bool {
	return b.RowInViewport(p.RowIdx) && b.ColInBounds(p.Idx)
}

// Context is the grid snapshot navigation runs against.
type Context struct {
	Bounds
	Layout        *column.Layout
	Rows          []any
	TopSummary    []any
	BottomSummary []any
	Metrics       rows.Metrics
	ClientHeight  int
	RTL           bool
}

// SpanAt returns the span of col's cell on rowIdx, or 0.
func (c *Context) SpanAt(col *column.Column, rowIdx int) int {
	lastFrozen := c.Layout.LastFrozenIndex
	switch {
	case rowIdx == c.MinRowIdx:
		return column.GetColSpan(col, lastFrozen, column.CellContext{Kind: column.CellHeader})
	case rowIdx > c.MinRowIdx && rowIdx < 0:
		i := rowIdx + len(c.TopSummary)
		if i >= 0 && i < len(c.TopSummary) {
			return column.GetColSpan(col, lastFrozen, column.CellContext{Kind: column.CellSummary, Row: c.TopSummary[i]})
		}
	case rowIdx >= 0 && rowIdx < len(c.Rows):
		return column.GetColSpan(col, lastFrozen, column.CellContext{Kind: column.CellRow, Row: c.Rows[rowIdx]})
	default:
		i := rowIdx - len(c.Rows)
		if i >= 0 && i < len(c.BottomSummary) {
			return column.GetColSpan(col, lastFrozen, column.CellContext{Kind: column.CellSummary, Row: c.BottomSummary[i]})
		}
	}
	return 0
}

// RowAt returns the data row at rowIdx, or nil.
func (c *Context) RowAt(rowIdx int) any {
	if rowIdx < 0 || rowIdx >= len(c.Rows) {
		return nil
	}
	return c.Rows[rowIdx]
}

// IsCellEditable reports whether the data cell at p can be edited.
func (c *Context) IsCellEditable(p Position) bool {
	if !c.InViewport(p) {
		return false
	}
	col := c.Layout.Column(p.Idx)
	return col != nil && col.IsEditable(c.RowAt(p.RowIdx))
}
