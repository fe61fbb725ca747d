package grid

import (
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/input/key"
)

// HandleKey routes a key press and reports whether the grid consumed it.
// While editing, keys the grid does not handle belong to the editor.
func (g *Grid) HandleKey(ev key.Event) bool {
	ctx := g.context()
	s := g.nav.State()
	if s.Mode == selection.ModeEdit {
		return g.handleEditorKey(ctx, s, ev)
	}

	if fn := g.cfg.callbacks.OnCellKeyDown; fn != nil && ctx.RowInViewport(s.RowIdx) {
		ce := &CellKeyEvent{Event: ev}
		fn(CellKeyDownArgs{
			Mode:   selection.ModeSelect,
			Row:    ctx.RowAt(s.RowIdx),
			Column: ctx.Layout.Column(s.Idx),
			RowIdx: s.RowIdx,
			SelectCell: func(pos selection.Position, openEditor bool) {
				g.SelectCell(pos, openEditor)
			},
		}, ce)
		if ce.IsGridDefaultPrevented() {
			return true
		}
	}

	cb := g.cfg.callbacks
	if ctx.InViewport(s.Position) && (cb.OnPaste != nil || cb.OnCopy != nil) && ev.IsCtrlHeld() {
		switch {
		case ev.IsRuneKey('c'):
			g.Copy()
			return true
		case ev.IsRuneKey('v'):
			g.Paste()
			return true
		}
	}

	switch {
	case ev.Key == key.KeyEscape:
		g.copied = nil
		return true
	case ev.Key.IsNavigationKey():
		return g.navigate(ctx, ev)
	default:
		return g.handleCellInput(ctx, s, ev)
	}
}

func (g *Grid) navigate(ctx *selection.Context, ev key.Event) bool {
	out := g.nav.Navigate(ctx, ev)
	if !out.Handled {
		return false
	}
	if out.Exit {
		g.outside.Cancel()
		if fn := g.cfg.callbacks.OnExit; fn != nil {
			fn(ev.HasShift())
		}
		return false
	}
	g.afterSelect()
	if out.Result != selection.Rejected {
		g.revealCell(g.context(), g.nav.Position())
	}
	return true
}

func (g *Grid) handleCellInput(ctx *selection.Context, s selection.State, ev key.Event) bool {
	if !ctx.InViewport(s.Position) {
		return false
	}
	row := ctx.RowAt(s.RowIdx)
	if g.cfg.callbacks.OnSelectedRowsChange != nil && ev.HasShift() && ev.IsRuneKey(' ') {
		if err := g.SelectRow(rowselect.Args{Row: row, Checked: !g.IsRowSelected(row)}); err != nil {
			g.report(err)
		}
		return true
	}
	if ev.IsCellInput() && g.nav.OpenEditor(ctx) {
		return true
	}
	return false
}

func (g *Grid) handleEditorKey(ctx *selection.Context, s selection.State, ev key.Event) bool {
	if fn := g.cfg.callbacks.OnCellKeyDown; fn != nil {
		ce := &CellKeyEvent{Event: ev}
		fn(CellKeyDownArgs{
			Mode:     selection.ModeEdit,
			Row:      s.Row,
			Column:   ctx.Layout.Column(s.Idx),
			RowIdx:   s.RowIdx,
			Navigate: func() { g.navigate(g.context(), ev) },
			OnClose:  g.CloseEditor,
		}, ce)
		if ce.IsGridDefaultPrevented() {
			return true
		}
	}
	switch ev.Key {
	case key.KeyEscape:
		g.CloseEditor(false)
		return true
	case key.KeyEnter:
		g.CloseEditor(true)
		return true
	case key.KeyTab:
		g.navigate(ctx, ev)
		return true
	}
	return false
}
