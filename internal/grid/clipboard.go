package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/selection"
)

// CopiedCell returns the pending copy source, or nil.
func (g *Grid) CopiedCell() *CopiedCell {
	return g.copied
}

// Copy records the selected cell as the paste source.
func (g *Grid) Copy() bool {
	ctx := g.context()
	p := g.nav.Position()
	col := ctx.Layout.Column(p.Idx)
	if !ctx.InViewport(p) || col == nil {
		return false
	}
	row := ctx.RowAt(p.RowIdx)
	g.copied = &CopiedCell{Row: row, ColumnKey: col.Key}
	if fn := g.cfg.callbacks.OnCopy; fn != nil {
		fn(CopyEvent{SourceRow: row, SourceColumnKey: col.Key})
	}
	return true
}

// Paste applies the copied cell to the selected cell through OnPaste. It
// needs a copy source, an editable target and both OnPaste and
// OnRowsChange.
func (g *Grid) Paste() bool {
	cb := g.cfg.callbacks
	ctx := g.context()
	p := g.nav.Position()
	if cb.OnPaste == nil || cb.OnRowsChange == nil || g.copied == nil || !ctx.IsCellEditable(p) {
		return false
	}
	col := ctx.Layout.Column(p.Idx)
	target := ctx.RowAt(p.RowIdx)
	updated := cb.OnPaste(PasteEvent{
		SourceRow:       g.copied.Row,
		SourceColumnKey: g.copied.ColumnKey,
		TargetRow:       target,
		TargetColumnKey: col.Key,
	})
	g.updateRow(col, p.RowIdx, updated)
	return true
}

// ClearCopy drops the paste source.
func (g *Grid) ClearCopy() {
	g.copied = nil
}

// CanFill reports whether the selected cell shows a fill handle.
func (g *Grid) CanFill() bool {
	s := g.nav.State()
	return g.cfg.callbacks.OnFill != nil && s.Mode == selection.ModeSelect && g.Bounds().InViewport(s.Position)
}

// BeginFill starts a fill drag from the selected cell.
func (g *Grid) BeginFill() bool {
	if !g.CanFill() {
		return false
	}
	g.fill = fillState{dragging: true}
	return true
}

// IsFilling reports whether a fill drag is in progress.
func (g *Grid) IsFilling() bool {
	return g.fill.dragging
}

// DragOver records the row under the pointer during a fill drag.
func (g *Grid) DragOver(rowIdx int) {
	if !g.fill.dragging {
		return
	}
	g.fill.over = rowIdx
	g.fill.hasOver = true
}

// EndFill finishes a fill drag, filling every row between the selected row
// and the row dragged over.
func (g *Grid) EndFill() bool {
	f := g.fill
	g.fill = fillState{}
	if !f.dragging || !f.hasOver {
		return false
	}
	rowIdx := g.nav.Position().RowIdx
	start, end := f.over, rowIdx
	if rowIdx < f.over {
		start, end = rowIdx+1, f.over+1
	}
	return g.fillRows(start, end)
}

// CancelFill aborts a fill drag.
func (g *Grid) CancelFill() {
	g.fill = fillState{}
}

// FillToEnd fills every row below the selected cell.
func (g *Grid) FillToEnd() bool {
	if !g.CanFill() {
		return false
	}
	return g.fillRows(g.nav.Position().RowIdx+1, len(g.rows))
}

// draggedOver reports whether rowIdx lies in the active fill range.
func (g *Grid) draggedOver(rowIdx int) bool {
	if !g.fill.hasOver {
		return false
	}
	sel := g.nav.Position().RowIdx
	over := g.fill.over
	if sel < over {
		return sel < rowIdx && rowIdx <= over
	}
	return sel > rowIdx && rowIdx >= over
}

// fillRows fills [start, end) from the selected cell. Only editable cells
// whose row changed are reported, in one batch.
func (g *Grid) fillRows(start, end int) bool {
	cb := g.cfg.callbacks
	if cb.OnFill == nil {
		return false
	}
	ctx := g.context()
	p := g.nav.Position()
	col := ctx.Layout.Column(p.Idx)
	source := ctx.RowAt(p.RowIdx)
	if col == nil || source == nil {
		return false
	}
	start = max(start, 0)
	end = min(end, len(g.rows))

	updated := make([]any, len(g.rows))
	copy(updated, g.rows)
	var indexes []int
	for i := start; i < end; i++ {
		if !ctx.IsCellEditable(selection.Position{Idx: p.Idx, RowIdx: i}) {
			continue
		}
		next := cb.OnFill(FillEvent{ColumnKey: col.Key, SourceRow: source, TargetRow: g.rows[i]})
		if column.Same(next, g.rows[i]) {
			continue
		}
		updated[i] = next
		indexes = append(indexes, i)
	}
	if len(indexes) == 0 || cb.OnRowsChange == nil {
		return false
	}
	cb.OnRowsChange(updated, RowsChange{Indexes: indexes, Column: col})
	return true
}
