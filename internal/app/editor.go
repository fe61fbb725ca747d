package app

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/renderer/core"
)

// cellEditor is the single-line text editor rendered in an editing cell.
// Every change is pushed to the grid as the editor's working row.
type cellEditor struct {
	rowIdx int
	key    string
	// base is the row the edit started from; prev is its field value.
	base   any
	prev   any
	text   []rune
	cursor int

	onChange func(row any, commit bool)
}

func newCellEditor(p column.EditProps, base any, seed *string) *cellEditor {
	prev, _ := column.FieldValue(base, p.Column.Key)
	e := &cellEditor{
		rowIdx:   p.RowIdx,
		key:      p.Column.Key,
		base:     base,
		prev:     prev,
		onChange: p.OnRowChange,
	}
	switch {
	case seed != nil:
		e.text = []rune(*seed)
	case prev != nil:
		e.text = []rune(fmt.Sprint(prev))
	}
	e.cursor = len(e.text)
	return e
}

// Text implements painter.Editor.
func (e *cellEditor) Text() string {
	return string(e.text)
}

// Cursor implements painter.Editor.
func (e *cellEditor) Cursor() int {
	return core.StringWidth(string(e.text[:e.cursor]))
}

// Row returns the base row with the edited text applied.
func (e *cellEditor) Row() (any, error) {
	return setField(e.base, e.key, parseLike(string(e.text), e.prev))
}

// HandleKey applies an editing key and reports whether it was consumed.
func (e *cellEditor) HandleKey(ev key.Event) bool {
	mods := ev.Modifiers
	switch {
	case ev.IsRune() && mods.HasCtrl() && ev.IsRuneKey('u'):
		e.text = e.text[:0]
		e.cursor = 0
	case ev.IsRune() && !mods.HasCtrl() && !mods.HasAlt() && !mods.HasMeta():
		e.insert(ev.Rune)
	case ev.Key == key.KeyBackspace:
		if e.cursor == 0 {
			return true
		}
		e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
		e.cursor--
	case ev.Key == key.KeyDelete:
		if e.cursor == len(e.text) {
			return true
		}
		e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
	case ev.Key == key.KeyLeft:
		e.cursor = max(0, e.cursor-1)
		return true
	case ev.Key == key.KeyRight:
		e.cursor = min(len(e.text), e.cursor+1)
		return true
	case ev.Key == key.KeyHome:
		e.cursor = 0
		return true
	case ev.Key == key.KeyEnd:
		e.cursor = len(e.text)
		return true
	default:
		return false
	}
	e.changed()
	return true
}

func (e *cellEditor) insert(r rune) {
	e.text = append(e.text, 0)
	copy(e.text[e.cursor+1:], e.text[e.cursor:])
	e.text[e.cursor] = r
	e.cursor++
}

func (e *cellEditor) changed() {
	if e.onChange == nil {
		return
	}
	if row, err := e.Row(); err == nil {
		e.onChange(row, false)
	}
}

// renderEditor is the edit renderer of editable columns. The editor of the
// cell being edited survives re-renders.
func (a *App) renderEditor(p column.EditProps) any {
	if e := a.editor; e != nil && e.rowIdx == p.RowIdx && e.key == p.Column.Key {
		e.onChange = p.OnRowChange
		return e
	}
	base := a.grid.Selection().OriginalRow
	if base == nil {
		base = p.Row
	}
	a.editor = newCellEditor(p, base, nil)
	return a.editor
}

// seedEditor starts the editor just opened by ev. Typing a character
// replaces the cell text with it; Backspace and Delete clear it.
func (a *App) seedEditor(ev key.Event) {
	seed := seedText(ev)
	if seed == nil {
		return
	}
	s := a.grid.Selection()
	col := a.grid.Layout().Column(s.Idx)
	if col == nil {
		return
	}
	base := s.OriginalRow
	if base == nil {
		base = s.Row
	}
	a.editor = newCellEditor(column.EditProps{
		Column:      col,
		Row:         s.Row,
		RowIdx:      s.RowIdx,
		OnRowChange: a.grid.EditRow,
	}, base, seed)
	a.editor.changed()
}

// seedText returns the text an editor opened by ev starts with. Nil keeps
// the cell value.
func seedText(ev key.Event) *string {
	var s string
	switch {
	case ev.IsRune() && !ev.IsCtrlHeld():
		s = string(ev.Rune)
	case ev.Key == key.KeyBackspace, ev.Key == key.KeyDelete:
	default:
		return nil
	}
	return &s
}
