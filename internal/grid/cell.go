package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/grid/viewport"
)

// Selection returns the selected cell state.
func (g *Grid) Selection() selection.State {
	return g.nav.State()
}

// IsEditing reports whether a cell editor is open.
func (g *Grid) IsEditing() bool {
	return g.nav.IsEditing()
}

// SelectCell selects pos, opening the editor when openEditor is set and the
// cell is editable. Positions outside the selection bounds are ignored.
// The selected cell is scrolled into view.
func (g *Grid) SelectCell(pos selection.Position, openEditor bool) selection.Result {
	ctx := g.context()
	res := g.nav.SelectCell(ctx, pos, openEditor)
	if res != selection.Rejected {
		g.afterSelect()
		g.revealCell(ctx, pos)
	}
	return res
}

// SelectHeaderCell selects the header cell of the column at idx.
func (g *Grid) SelectHeaderCell(idx int) selection.Result {
	return g.SelectCell(selection.Position{Idx: idx, RowIdx: g.Bounds().MinRowIdx}, false)
}

// DeselectCell clears the selected cell.
func (g *Grid) DeselectCell() {
	g.nav.Deselect()
	g.outside.Cancel()
	g.fill = fillState{}
}

// afterSelect drops deferred editor work once the editor is gone.
func (g *Grid) afterSelect() {
	if !g.nav.IsEditing() {
		g.outside.Cancel()
	}
}

// ScrollToCell scrolls the column at idx and the row at rowIdx into view.
// A negative or out of range coordinate leaves its axis alone; frozen
// columns never scroll. It reports whether the scroll position changed.
func (g *Grid) ScrollToCell(idx, rowIdx int) bool {
	l := g.Layout()
	axes := viewport.RevealAxis(0)
	if idx > l.LastFrozenIndex && idx < l.Len() {
		axes |= viewport.RevealHorizontal
	}
	if rowIdx >= 0 && rowIdx < len(g.rows) {
		axes |= viewport.RevealVertical
	}
	if axes == 0 {
		return false
	}
	m := g.Metrics()
	r := viewport.Rect{}
	if axes&viewport.RevealHorizontal != 0 {
		mt := l.Metric(idx)
		r.Left, r.Width = mt.Left, mt.Width
	}
	if axes&viewport.RevealVertical != 0 {
		r.Top, r.Height = m.Top(rowIdx), m.Height(rowIdx)
	}
	return g.reveal(r, l, axes)
}

// revealCell scrolls minimally to show the cell at p, spans included.
func (g *Grid) revealCell(ctx *selection.Context, p selection.Position) bool {
	l := ctx.Layout
	axes := viewport.RevealAxis(0)
	var r viewport.Rect
	if col := l.Column(p.Idx); col != nil && !col.Frozen {
		mt := l.Metric(p.Idx)
		r.Left, r.Width = mt.Left, mt.Width
		if span := ctx.SpanAt(col, p.RowIdx); span > 1 {
			r.Width = l.Metric(min(p.Idx+span-1, l.Len()-1)).Right() - mt.Left
		}
		axes |= viewport.RevealHorizontal
	}
	if ctx.RowInViewport(p.RowIdx) {
		r.Top, r.Height = ctx.Metrics.Top(p.RowIdx), ctx.Metrics.Height(p.RowIdx)
		axes |= viewport.RevealVertical
	}
	if axes == 0 {
		return false
	}
	return g.reveal(r, l, axes)
}

func (g *Grid) reveal(r viewport.Rect, l *column.Layout, axes viewport.RevealAxis) bool {
	if !g.vp.Reveal(r, viewport.Padding{Left: l.TotalFrozenWidth}, axes) {
		return false
	}
	g.emitScroll()
	return true
}

// HitTest maps a point in grid client coordinates to a cell position. A
// point inside a spanning cell maps to the cell's first column.
func (g *Grid) HitTest(x, y int) (selection.Position, bool) {
	ctx := g.context()
	l := ctx.Layout
	st := g.vp.Snapshot()
	if x < 0 || y < 0 || x >= st.Width || y >= st.Height {
		return selection.Position{}, false
	}
	if g.cfg.rtl {
		x = st.Width - 1 - x
	}

	idx := -1
	if x < l.TotalFrozenWidth {
		for i := 0; i <= l.LastFrozenIndex; i++ {
			if mt := l.Metric(i); x >= mt.Left && x < mt.Right() {
				idx = i
				break
			}
		}
	} else {
		cx := x + st.ScrollLeft
		for i := l.LastFrozenIndex + 1; i < l.Len(); i++ {
			if mt := l.Metric(i); cx >= mt.Left && cx < mt.Right() {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return selection.Position{}, false
	}

	header := g.cfg.headerRowHeight
	summary := g.cfg.summaryRowHeight
	topEnd := header + len(g.top)*summary
	bottomStart := st.Height - len(g.bottom)*summary

	var rowIdx int
	switch {
	case y < header:
		rowIdx = ctx.MinRowIdx
	case y < topEnd:
		rowIdx = ctx.MinRowIdx + 1 + (y-header)/summary
	case y >= bottomStart:
		rowIdx = len(g.rows) + (y-bottomStart)/summary
	default:
		if len(g.rows) == 0 {
			return selection.Position{}, false
		}
		offset := st.ScrollTop + y - topEnd
		if offset >= ctx.Metrics.TotalHeight() {
			return selection.Position{}, false
		}
		rowIdx = ctx.Metrics.FindIndex(offset)
	}
	if rowIdx > ctx.MaxRowIdx {
		return selection.Position{}, false
	}

	for i := 0; i < idx; i++ {
		if span := ctx.SpanAt(l.Column(i), rowIdx); span > 1 && i+span > idx {
			idx = i
			break
		}
	}
	return selection.Position{Idx: idx, RowIdx: rowIdx}, true
}

// ClickCell handles a pointer click at a cell. A double click opens the
// editor.
func (g *Grid) ClickCell(pos selection.Position, double bool) selection.Result {
	if pos.RowIdx == g.Bounds().MinRowIdx {
		return g.SelectHeaderCell(pos.Idx)
	}
	return g.SelectCell(pos, double)
}
