package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/input/mouse"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/renderer/core"
	"github.com/dshills/gridstorm/internal/renderer/painter"
	"github.com/dshills/gridstorm/internal/renderer/statusline"
)

// Run initializes the backend and processes events until quit is requested
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return ErrNoBackend
	}
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.backend.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}
	defer a.backend.Shutdown()
	if a.painter == nil {
		a.painter = painter.New(a.backend)
	}

	done := make(chan struct{})
	defer close(done)

	events := make(chan backend.Event, 64)
	go a.pollInput(events, done)
	if a.watcher != nil {
		go a.forwardReloads(done)
	}

	a.Resize(a.backend.Size())
	a.Render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if err := a.HandleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			a.Render()
		}
	}
}

// pollBackoff is the pause after an empty poll.
const pollBackoff = 10 * time.Millisecond

// pollInput forwards backend events until done is closed.
func (a *App) pollInput(events chan<- backend.Event, done <-chan struct{}) {
	for {
		ev := a.backend.PollEvent()
		if ev.Type == backend.EventNone {
			// A shut down backend returns EventNone at once.
			select {
			case <-done:
				return
			case <-time.After(pollBackoff):
				continue
			}
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// forwardReloads hands configuration reloads to the event loop.
func (a *App) forwardReloads(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case r := <-a.watcher.Reloads():
			a.backend.Interrupt(r)
		case err := <-a.watcher.Errors():
			a.log.WithComponent("watcher").Warn("%v", err)
		}
	}
}

// HandleEvent applies one event. It returns ErrQuit when the application
// should exit.
func (a *App) HandleEvent(ev backend.Event) error {
	timer := StartTimer()
	defer func() { a.metrics.RecordInput(timer.Elapsed()) }()

	var err error
	switch ev.Type {
	case backend.EventKey:
		err = a.handleKey(ev.Key)
	case backend.EventMouse:
		a.handleMouse(ev)
	case backend.EventResize:
		a.Resize(ev.Width, ev.Height)
	case backend.EventInterrupt:
		if r, ok := ev.Data.(config.Reload); ok {
			a.applyReload(r)
		}
	}
	if !a.grid.IsEditing() {
		a.editor = nil
	}
	a.updateStatus()
	return err
}

func (a *App) handleKey(ev key.Event) error {
	if a.grid.IsEditing() {
		if a.editor != nil && a.editor.HandleKey(ev) {
			return nil
		}
		a.grid.HandleKey(ev)
		return nil
	}

	if action, ok := a.keymap.Lookup(ev); ok {
		return a.runAction(action)
	}
	a.status.ClearMessage()
	a.grid.HandleKey(ev)
	if a.grid.IsEditing() {
		a.editor = nil
		a.seedEditor(ev)
	}
	return nil
}

var mouseButtons = map[backend.MouseButton]mouse.Button{
	backend.MouseLeft:       mouse.ButtonLeft,
	backend.MouseMiddle:     mouse.ButtonMiddle,
	backend.MouseRight:      mouse.ButtonRight,
	backend.MouseWheelUp:    mouse.ButtonScrollUp,
	backend.MouseWheelDown:  mouse.ButtonScrollDown,
	backend.MouseWheelLeft:  mouse.ButtonScrollLeft,
	backend.MouseWheelRight: mouse.ButtonScrollRight,
}

func (a *App) handleMouse(ev backend.Event) {
	g := a.mouse.Feed(mouse.Event{
		Position:  mouse.Position{X: ev.MouseX, Y: ev.MouseY},
		Button:    mouseButtons[ev.Button],
		Modifiers: ev.Mod,
		Timestamp: time.Now(),
	})
	if g.Button != mouse.ButtonLeft && g.Action != mouse.ActionScroll {
		return
	}

	switch g.Action {
	case mouse.ActionScroll:
		a.grid.ScrollBy(g.Rows, g.Cols)
	case mouse.ActionPress:
		a.press(g.Position.X, g.Position.Y, g.Modifiers, g.IsDouble())
	case mouse.ActionDrag:
		a.dragTo(g.Position.X, g.Position.Y)
	case mouse.ActionRelease:
		a.release()
	}
}

func (a *App) press(x, y int, mods key.Modifier, double bool) {
	pos, ok := a.grid.HitTest(x, y)
	if !ok {
		a.grid.PointerDown(false)
		return
	}

	if pos.RowIdx == a.grid.Bounds().MinRowIdx {
		a.grid.PointerDown(false)
		a.pressHeader(pos.Idx, x, mods, double)
		return
	}

	sel := a.grid.Selection()
	a.grid.PointerDown(sel.Mode == selection.ModeEdit && sel.Position == pos)
	if sel.Mode == selection.ModeEdit && sel.Position == pos {
		return
	}

	if a.pressDragHandle(pos, sel, x, double) {
		return
	}

	col := a.grid.Layout().Column(pos.Idx)
	row, isData := a.rowAt(pos.RowIdx)
	switch {
	case isData && col != nil && col.Key == column.SelectColumnKey:
		a.selectRow(row, mods.HasShift())
		return
	case isData && a.toggleGroupAt(pos, col):
		return
	}
	a.grid.ClickCell(pos, double)
}

func (a *App) pressHeader(idx, x int, mods key.Modifier, double bool) {
	if double && a.grid.HeaderDoubleClick(idx, x) {
		return
	}
	if d, ok := a.grid.BeginColumnResize(idx, x); ok {
		a.drag = d
		return
	}
	col := a.grid.Layout().Column(idx)
	if col == nil {
		return
	}
	if col.Key == column.SelectColumnKey {
		a.toggleAllRows()
		return
	}
	if err := a.grid.ToggleSort(idx, mods.HasCtrl() || mods.HasMeta()); err != nil {
		a.status.SetMessage(err.Error(), statusline.MessageWarning)
	}
}

// pressDragHandle starts a fill when the press at x lands on the handle
// of the selected cell. A double click fills to the last row.
func (a *App) pressDragHandle(pos selection.Position, sel selection.State, x int, double bool) bool {
	if pos != sel.Position || !a.grid.CanFill() || !a.onDragHandle(pos, x) {
		return false
	}
	if double {
		a.grid.FillToEnd()
		return true
	}
	return a.grid.BeginFill()
}

// onDragHandle reports whether x is the handle of the cell at pos: its
// last screen column.
func (a *App) onDragHandle(pos selection.Position, x int) bool {
	for _, r := range a.grid.Frame().Rows {
		if r.RowIdx != pos.RowIdx {
			continue
		}
		for _, c := range r.Cells {
			if c.DragHandle && c.Column.Idx == pos.Idx {
				return x == c.Left+c.Width-1
			}
		}
	}
	return false
}

func (a *App) dragTo(x, y int) {
	switch {
	case a.drag != nil:
		a.grid.DragColumnResize(a.drag, x)
	case a.grid.IsFilling():
		if pos, ok := a.grid.HitTest(x, y); ok {
			a.grid.DragOver(pos.RowIdx)
		}
	}
}

func (a *App) release() {
	a.drag = nil
	if a.grid.IsFilling() {
		a.grid.EndFill()
	}
}

// rowAt returns the data row at rowIdx.
func (a *App) rowAt(rowIdx int) (any, bool) {
	rows := a.grid.Rows()
	if rowIdx < 0 || rowIdx >= len(rows) {
		return nil, false
	}
	return rows[rowIdx], true
}

// toggleGroupAt toggles the group when the press hit its group cell.
func (a *App) toggleGroupAt(pos selection.Position, col *column.Column) bool {
	g, ok := a.grid.Projection().GroupAt(pos.RowIdx)
	if !ok || col == nil {
		return false
	}
	by := a.grid.GroupBy()
	if g.Level >= len(by) || by[g.Level] != col.Key {
		return false
	}
	a.grid.SelectCell(pos, false)
	a.grid.ToggleGroup(g.ID)
	return true
}

func (a *App) selectRow(row any, shift bool) {
	err := a.grid.SelectRow(rowselect.Args{
		Row:        row,
		Checked:    !a.grid.IsRowSelected(row),
		ShiftClick: shift,
	})
	if err != nil {
		a.status.SetMessage(err.Error(), statusline.MessageWarning)
	}
}

func (a *App) toggleAllRows() {
	all := len(a.rows) > 0 && rowselect.AllSelected(a.grid.SelectedRows(), a.rows, rowKey)
	if err := a.grid.SelectAllRows(!all); err != nil {
		a.status.SetMessage(err.Error(), statusline.MessageWarning)
	}
}

// Resize fits the grid and the status line to a screen of width by
// height cells.
func (a *App) Resize(width, height int) {
	a.status.Resize(width)
	a.grid.Resize(width, max(0, height-a.status.Height()))
}

// Render paints the grid and the status line. Deferred pointer work runs
// after the paint; a second paint shows its effect.
func (a *App) Render() {
	if a.painter == nil {
		return
	}
	a.paint()
	if n := a.grid.RunFrame(); n > 0 {
		a.metrics.RecordDeferred(n)
		if !a.grid.IsEditing() {
			a.editor = nil
		}
		a.updateStatus()
		a.paint()
	}
}

func (a *App) paint() {
	timer := StartTimer()
	w, h := a.backend.Size()
	gridHeight := max(0, h-a.status.Height())

	a.painter.Paint(a.grid.Frame(), core.RectFromSize(0, 0, gridHeight, w))
	if a.grid.AfterPaint() {
		a.painter.Paint(a.grid.Frame(), core.RectFromSize(0, 0, gridHeight, w))
	}
	if gridHeight < h {
		a.status.Render(a.backend, gridHeight)
	}
	a.backend.Show()
	a.metrics.RecordFrame(timer.Elapsed())
}

// updateStatus mirrors the grid state into the status line.
func (a *App) updateStatus() {
	switch {
	case a.grid.IsEditing():
		a.status.SetMode(statusline.ModeEdit)
	case a.grid.IsFilling():
		a.status.SetMode(statusline.ModeFill)
	default:
		a.status.SetMode(statusline.ModeSelect)
	}

	sel := a.grid.Selection()
	rows := len(a.grid.Rows())
	cols := a.grid.Layout().Len()
	row, col := 0, 0
	if sel.RowIdx >= 0 && sel.RowIdx < rows {
		row = sel.RowIdx + 1
	}
	if sel.Idx >= 0 {
		col = sel.Idx + 1
	}
	a.status.SetPosition(row, col, rows, cols)
	a.status.SetSelectedRows(a.grid.SelectedRows().Len())
}
