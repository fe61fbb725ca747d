package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/grid/viewport"
)

// RowKind tells data rows from the header and summary rows.
type RowKind uint8

const (
	RowData RowKind = iota
	RowHeader
	RowTopSummary
	RowBottomSummary
)

// Cell is one rendered cell. Left is in client coordinates.
type Cell struct {
	Column  *column.Column
	ColSpan int
	Left    int
	Width   int
	// Content is the renderer output for the cell.
	Content any
	Class   string

	Selected    bool
	Editing     bool
	Editable    bool
	Copied      bool
	DraggedOver bool
	DragHandle  bool
}

// HeaderCell is one rendered header cell.
type HeaderCell struct {
	Cell
	SortDirection sorting.Direction
	Priority      int
}

// Row is one rendered row. Top is in client coordinates.
type Row struct {
	Kind   RowKind
	RowIdx int
	Key    any
	Row    any
	Top    int
	Height int
	Cells  []Cell

	// Selected reports row selection, not cell selection.
	Selected bool
	// Outside marks a selected row rendered outside the window.
	Outside bool
}

// Header is the rendered header row.
type Header struct {
	Top    int
	Height int
	Cells  []HeaderCell
	// AllRowsSelected and SomeRowsSelected drive the select-all checkbox.
	AllRowsSelected  bool
	SomeRowsSelected bool
}

// Frame is the resolved state of one render.
type Frame struct {
	GridID    string
	Viewport  viewport.State
	Layout    *column.Layout
	Window    viewport.Window
	Templates []string
	Selection selection.State

	Header        Header
	TopSummary    []Row
	Rows          []Row
	BottomSummary []Row

	HeaderHeight  int
	SummaryHeight int
	// RowCount counts header, summary and data rows.
	RowCount int
}

// Frame resolves the props of every rendered row and cell.
func (g *Grid) Frame() Frame {
	g.sync()
	g.closeStaleEditor()
	l, win, plan := g.paintPlan()
	st := g.vp.Snapshot()
	sel := g.nav.State()

	f := Frame{
		GridID:        g.id,
		Viewport:      st,
		Layout:        l,
		Window:        win,
		Templates:     plan.Tracks,
		Selection:     sel,
		HeaderHeight:  g.cfg.headerRowHeight,
		SummaryHeight: g.cfg.summaryRowHeight,
		RowCount:      1 + len(g.top) + len(g.rows) + len(g.bottom),
	}
	b := g.Bounds()
	f.Header = g.header(l, win, st, sel, b)

	topEnd := g.cfg.headerRowHeight + len(g.top)*g.cfg.summaryRowHeight
	for i, row := range g.top {
		rowIdx := b.MinRowIdx + 1 + i
		f.TopSummary = append(f.TopSummary, Row{
			Kind:   RowTopSummary,
			RowIdx: rowIdx,
			Key:    rowIdx,
			Row:    row,
			Top:    g.cfg.headerRowHeight + i*g.cfg.summaryRowHeight,
			Height: g.cfg.summaryRowHeight,
			Cells:  g.cells(l, win.RowColumns(l, rowIdx, sel.Idx, sel.RowIdx), column.CellSummary, row, rowIdx, st, sel),
		})
	}

	m := g.Metrics()
	selectionInRows := b.RowInViewport(sel.RowIdx)
	for _, slot := range win.RowSlots(sel.RowIdx, selectionInRows) {
		row := g.rows[slot.RowIdx]
		cols := win.RowColumns(l, slot.RowIdx, sel.Idx, sel.RowIdx)
		if slot.Outside {
			cols = []*column.Column{l.Column(sel.Idx)}
			if cols[0] == nil {
				cols = nil
			}
		}
		f.Rows = append(f.Rows, Row{
			Kind:     RowData,
			RowIdx:   slot.RowIdx,
			Key:      g.RowKey(slot.RowIdx),
			Row:      row,
			Top:      topEnd + m.Top(slot.RowIdx) - st.ScrollTop,
			Height:   m.Height(slot.RowIdx),
			Cells:    g.cells(l, cols, column.CellRow, row, slot.RowIdx, st, sel),
			Selected: g.IsRowSelected(row),
			Outside:  slot.Outside,
		})
	}

	bottomStart := st.Height - len(g.bottom)*g.cfg.summaryRowHeight
	for i, row := range g.bottom {
		rowIdx := len(g.rows) + i
		f.BottomSummary = append(f.BottomSummary, Row{
			Kind:   RowBottomSummary,
			RowIdx: rowIdx,
			Key:    rowIdx,
			Row:    row,
			Top:    bottomStart + i*g.cfg.summaryRowHeight,
			Height: g.cfg.summaryRowHeight,
			Cells:  g.cells(l, win.RowColumns(l, rowIdx, sel.Idx, sel.RowIdx), column.CellSummary, row, rowIdx, st, sel),
		})
	}
	return f
}

func (g *Grid) header(l *column.Layout, win viewport.Window, st viewport.State, sel selection.State, b selection.Bounds) Header {
	h := Header{Height: g.cfg.headerRowHeight}
	if getter := g.selectionKeyGetter(); getter != nil {
		h.AllRowsSelected = rowselect.AllSelected(g.selectedRows, g.rows, getter)
		h.SomeRowsSelected = rowselect.AnySelected(g.selectedRows, g.rows, getter)
	}
	cols := win.RowColumns(l, b.MinRowIdx, sel.Idx, sel.RowIdx)
	for _, c := range g.cells(l, cols, column.CellHeader, nil, b.MinRowIdx, st, sel) {
		dir, prio := sorting.State(g.sortColumns, c.Column.Key)
		hp := column.HeaderProps{Column: c.Column, SortDirection: string(dir), Priority: prio, Selected: c.Selected}
		if c.Column.RenderHeaderCell != nil {
			c.Content = c.Column.RenderHeaderCell(hp)
		} else {
			c.Content = c.Column.Name
		}
		h.Cells = append(h.Cells, HeaderCell{Cell: c, SortDirection: dir, Priority: prio})
	}
	return h
}

// cells lays out the cells of one row. A spanning cell consumes the
// columns it covers.
func (g *Grid) cells(l *column.Layout, cols []*column.Column, kind column.CellKind, row any, rowIdx int, st viewport.State, sel selection.State) []Cell {
	out := make([]Cell, 0, len(cols))
	editing := sel.Mode == selection.ModeEdit && sel.RowIdx == rowIdx
	for i := 0; i < len(cols); i++ {
		col := cols[i]
		span := column.GetColSpan(col, l.LastFrozenIndex, column.CellContext{Kind: kind, Row: row})
		n := 1
		if span > 1 {
			n = span
			i += span - 1
		}
		mt := l.Metric(col.Idx)
		width := l.Metric(min(col.Idx+n-1, l.Len()-1)).Right() - mt.Left
		left := mt.Left
		if !col.Frozen {
			left -= st.ScrollLeft
		}
		if g.cfg.rtl {
			left = st.Width - left - width
		}

		c := Cell{
			Column:   col,
			ColSpan:  n,
			Left:     left,
			Width:    width,
			Selected: sel.Idx == col.Idx && sel.RowIdx == rowIdx,
		}
		if kind == column.CellRow {
			g.rowCell(&c, row, rowIdx, editing && c.Selected, sel)
		} else if kind == column.CellSummary && col.RenderSummaryCell != nil {
			c.Content = col.RenderSummaryCell(column.CellProps{Column: col, Row: row, RowIdx: rowIdx, Selected: c.Selected})
		}
		out = append(out, c)
	}
	return out
}

func (g *Grid) rowCell(c *Cell, row any, rowIdx int, editing bool, sel selection.State) {
	col := c.Column
	c.Editable = col.IsEditable(row)
	c.Copied = g.copied != nil && column.Same(g.copied.Row, row) && g.copied.ColumnKey == col.Key
	c.DraggedOver = col.Idx == sel.Idx && g.draggedOver(rowIdx)
	c.DragHandle = c.Selected && g.CanFill()
	if col.CellClass != nil {
		c.Class = col.CellClass(row)
	}
	if editing {
		c.Editing = true
		if col.RenderEditCell != nil {
			c.Content = col.RenderEditCell(column.EditProps{
				Column:      col,
				Row:         sel.Row,
				RowIdx:      rowIdx,
				OnRowChange: g.EditRow,
				OnClose:     g.CloseEditor,
			})
		}
		return
	}
	if g.hooks.groupCell != nil {
		if content, ok := g.hooks.groupCell(c, row, rowIdx); ok {
			c.Content = content
			return
		}
	}
	if col.RenderCell != nil {
		c.Content = col.RenderCell(column.CellProps{
			Column:     col,
			Row:        row,
			RowIdx:     rowIdx,
			IsEditable: c.Editable,
			Selected:   c.Selected,
		})
	}
}
