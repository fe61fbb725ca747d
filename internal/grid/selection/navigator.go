package selection

import (
	"sync"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/input/key"
)

// CommitFunc applies an edited row. It is only called when row differs
// from the row currently at rowIdx.
type CommitFunc func(col *column.Column, rowIdx int, row any)

// Result describes the effect of a selection request.
type Result uint8

const (
	// Rejected means the position was out of bounds.
	Rejected Result = iota
	// Unchanged means the position was already selected; the caller may
	// scroll it into view.
	Unchanged
	// Selected means the selection moved.
	Selected
	// Editing means an editor was opened.
	Editing
)

// Outcome is the result of a navigation key.
type Outcome struct {
	Result Result
	// Exit is set when focus should leave the grid.
	Exit bool
	// Handled is false when the key does not navigate.
	Handled bool
}

// Navigator owns the selected cell.
type Navigator struct {
	mu     sync.RWMutex
	state  State
	commit CommitFunc
}

// NewNavigator creates a navigator with nothing selected.
func NewNavigator(minRowIdx int, commit CommitFunc) *Navigator {
	return &Navigator{state: Unselected(minRowIdx), commit: commit}
}

// State returns the current state.
func (n *Navigator) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// Position returns the selected position.
func (n *Navigator) Position() Position {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Position
}

// IsEditing reports whether an editor is open.
func (n *Navigator) IsEditing() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Mode == ModeEdit
}

func (n *Navigator) set(s State) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

// SelectCell moves the selection to p after committing any open edit. With
// openEditor set and an editable target, the editor opens on the row at p.
func (n *Navigator) SelectCell(ctx *Context, p Position, openEditor bool) Result {
	if !ctx.InSelection(p) {
		return Rejected
	}
	n.CommitEdit(ctx)

	if openEditor && ctx.IsCellEditable(p) {
		row := ctx.RowAt(p.RowIdx)
		n.set(State{Position: p, Mode: ModeEdit, Row: row, OriginalRow: row})
		return Editing
	}
	if n.Position() == p {
		return Unchanged
	}
	n.set(State{Position: p})
	return Selected
}

// Deselect clears the selection.
func (n *Navigator) Deselect() {
	n.set(Deselected())
}

// Reset returns to the unselected state of a grid starting at minRowIdx.
func (n *Navigator) Reset(minRowIdx int) {
	n.set(Unselected(minRowIdx))
}

// CommitEdit applies the editor's working copy without closing the editor.
func (n *Navigator) CommitEdit(ctx *Context) {
	s := n.State()
	if s.Mode != ModeEdit {
		return
	}
	n.commitRow(ctx, s.Position, s.Row)
}

func (n *Navigator) commitRow(ctx *Context, p Position, row any) {
	if n.commit == nil || !ctx.RowInViewport(p.RowIdx) {
		return
	}
	if column.Same(row, ctx.RowAt(p.RowIdx)) {
		return
	}
	col := ctx.Layout.Column(p.Idx)
	if col == nil {
		return
	}
	n.commit(col, p.RowIdx, row)
}

// OpenEditor opens the editor on the selected cell if it is editable.
func (n *Navigator) OpenEditor(ctx *Context) bool {
	s := n.State()
	if s.Mode == ModeEdit || !ctx.IsCellEditable(s.Position) {
		return false
	}
	row := ctx.RowAt(s.RowIdx)
	n.set(State{Position: s.Position, Mode: ModeEdit, Row: row, OriginalRow: row})
	return true
}

// SetEditRow replaces the editor's working copy.
func (n *Navigator) SetEditRow(row any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Mode == ModeEdit {
		n.state.Row = row
	}
}

// CloseEditor closes the editor, committing the working copy first when
// commit is set.
func (n *Navigator) CloseEditor(ctx *Context, commit bool) {
	s := n.State()
	if s.Mode != ModeEdit {
		return
	}
	if commit {
		n.commitRow(ctx, s.Position, s.Row)
	}
	n.set(State{Position: s.Position})
}

// CloseStaleEditor closes the editor without committing when the row under
// it was replaced. It reports whether the editor was closed.
func (n *Navigator) CloseStaleEditor(ctx *Context) bool {
	s := n.State()
	if s.Mode != ModeEdit || column.Same(ctx.RowAt(s.RowIdx), s.OriginalRow) {
		return false
	}
	n.set(State{Position: s.Position})
	return true
}

// Validate resets the selection when it no longer fits the bounds.
// It reports whether a reset happened.
func (n *Navigator) Validate(b Bounds) bool {
	s := n.State()
	if s.Idx > b.MaxColIdx || s.RowIdx > b.MaxRowIdx {
		n.set(Unselected(b.MinRowIdx))
		return true
	}
	return false
}

// Navigate handles a navigation key.
func (n *Navigator) Navigate(ctx *Context, ev key.Event) Outcome {
	if !ev.Key.IsNavigationKey() {
		return Outcome{}
	}
	cur := n.State()

	mode := NavigateNone
	if ev.Key == key.KeyTab {
		if CanExitGrid(ctx.Bounds, cur.Position, ev.HasShift()) {
			n.CloseEditor(ctx, true)
			return Outcome{Result: Unchanged, Exit: true, Handled: true}
		}
		mode = NavigateChangeRow
	}

	next := NextPosition(ctx, cur.Position, ev)
	if next == cur.Position {
		return Outcome{Result: Unchanged, Handled: true}
	}
	next = AdjustForSpan(ctx, mode, cur.Position, next)
	return Outcome{Result: n.SelectCell(ctx, next, false), Handled: true}
}
