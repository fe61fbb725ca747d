// Package painter draws grid frames onto a display backend.
package painter

import (
	"fmt"
	"strings"

	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/renderer/core"
)

// Editor is cell content that places the terminal cursor.
type Editor interface {
	Text() string
	// Cursor returns the cursor offset in cells from the start of Text.
	Cursor() int
}

// Painter draws frames onto a backend.
type Painter struct {
	b     backend.Backend
	theme Theme
}

// Option configures a Painter.
type Option func(*Painter)

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option {
	return func(p *Painter) { p.theme = t }
}

// New creates a painter drawing onto b.
func New(b backend.Backend, opts ...Option) *Painter {
	p := &Painter{b: b, theme: DefaultTheme()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Theme returns the active theme.
func (p *Painter) Theme() Theme {
	return p.theme
}

// Paint draws f into area. Client coordinates of the frame map to the
// top-left corner of area.
func (p *Painter) Paint(f grid.Frame, area core.ScreenRect) {
	p.b.Fill(area, core.BlankCell(p.theme.Cell))
	p.b.HideCursor()

	topEnd := f.HeaderHeight + len(f.TopSummary)*f.SummaryHeight
	bottomStart := f.Viewport.Height - len(f.BottomSummary)*f.SummaryHeight

	rowsClip := clip(area, topEnd, bottomStart)
	for _, row := range f.Rows {
		p.paintRow(row, area, rowsClip)
	}
	for _, row := range f.TopSummary {
		p.paintRow(row, area, clip(area, f.HeaderHeight, topEnd))
	}
	for _, row := range f.BottomSummary {
		p.paintRow(row, area, clip(area, bottomStart, f.Viewport.Height))
	}
	p.paintHeader(f, area)
}

// clip returns the part of area between client rows top and bottom.
func clip(area core.ScreenRect, top, bottom int) core.ScreenRect {
	return area.Intersection(core.ScreenRect{
		Top:    area.Top + top,
		Left:   area.Left,
		Bottom: area.Top + bottom,
		Right:  area.Right,
	})
}

func (p *Painter) paintHeader(f grid.Frame, area core.ScreenRect) {
	multi := 0
	for _, hc := range f.Header.Cells {
		if hc.Priority > 0 {
			multi++
		}
	}
	box := clip(area, f.Header.Top, f.Header.Top+f.Header.Height)
	paint := func(frozen bool) {
		for _, hc := range f.Header.Cells {
			if hc.Column.Frozen != frozen {
				continue
			}
			text := headerText(f.Header, hc, multi > 1)
			style := p.theme.Header
			if hc.Selected {
				style = style.Merge(p.theme.Selected)
			}
			p.paintCell(hc.Cell, text, false, style, area, box, f.Header.Top, f.Header.Height)
		}
	}
	paint(false)
	paint(true)
}

func headerText(h grid.Header, hc grid.HeaderCell, showPriority bool) string {
	if hc.Column.Key == column.SelectColumnKey {
		switch {
		case h.AllRowsSelected:
			return "[x]"
		case h.SomeRowsSelected:
			return "[-]"
		default:
			return "[ ]"
		}
	}
	text := contentText(hc.Content)
	switch hc.SortDirection {
	case sorting.Ascending:
		text += " ▲"
	case sorting.Descending:
		text += " ▼"
	default:
		return text
	}
	if showPriority && hc.Priority > 0 {
		text += fmt.Sprint(hc.Priority)
	}
	return text
}

func (p *Painter) paintRow(row grid.Row, area, box core.ScreenRect) {
	base := p.theme.Cell
	if row.Kind != grid.RowData {
		base = p.theme.Summary
	}
	if row.Selected {
		base = base.Merge(p.theme.RowSelected)
	}
	// Frozen cells are drawn last so they cover cells scrolled beneath them.
	paint := func(frozen bool) {
		for _, c := range row.Cells {
			if c.Column.Frozen != frozen {
				continue
			}
			p.paintRowCell(row, c, base, area, box)
		}
	}
	paint(false)
	paint(true)
}

func (p *Painter) paintRowCell(row grid.Row, c grid.Cell, base core.Style, area, box core.ScreenRect) {
	style := base
	if c.Column.Frozen && row.Kind == grid.RowData {
		style = style.Merge(p.theme.Frozen)
	}
	alignRight := false
	for _, class := range strings.Fields(c.Class) {
		if class == ClassNumber {
			alignRight = true
		}
		if cs, ok := p.theme.Classes[class]; ok {
			style = style.Merge(cs)
		}
	}
	switch {
	case c.Editing:
		style = style.Merge(p.theme.Editing)
	case c.Selected:
		style = style.Merge(p.theme.Selected)
	case c.DraggedOver:
		style = style.Merge(p.theme.DraggedOver)
	}
	if c.Copied {
		style = style.Merge(p.theme.Copied)
	}

	text := contentText(c.Content)
	if c.Column.Key == column.SelectColumnKey && row.Kind == grid.RowData {
		text = "[ ]"
		if row.Selected {
			text = "[x]"
		}
	}
	p.paintCell(c, text, alignRight, style, area, box, row.Top, row.Height)

	if ed, ok := c.Content.(Editor); ok && c.Editing {
		x := area.Left + c.Left + min(ed.Cursor(), max(c.Width-2, 0))
		y := area.Top + row.Top
		if box.Contains(x, y) {
			p.b.ShowCursor(x, y)
		}
	}
}

// paintCell fills the cell box and draws text on its first line followed
// by the separator.
func (p *Painter) paintCell(c grid.Cell, text string, alignRight bool, style core.Style, area, box core.ScreenRect, top, height int) {
	if c.Width <= 0 || height <= 0 {
		return
	}
	rect := box.Intersection(core.RectFromSize(area.Top+top, area.Left+c.Left, height, c.Width))
	if rect.IsEmpty() {
		return
	}
	p.b.Fill(rect, core.BlankCell(style))

	textWidth := c.Width - 1
	y := area.Top + top
	x := area.Left + c.Left
	if textWidth > 0 && y >= rect.Top && y < rect.Bottom {
		for i, cell := range core.CellsFromString(core.Fit(text, textWidth, alignRight), style) {
			if xi := x + i; xi >= rect.Left && xi < rect.Right {
				p.b.SetCell(xi, y, cell)
			}
		}
	}

	sep := p.theme.Separator
	sepStyle := p.theme.Cell
	if c.DragHandle {
		sep = p.theme.DragHandle
		sepStyle = style
	}
	if sx := x + c.Width - 1; sx >= rect.Left && sx < rect.Right {
		for sy := rect.Top; sy < rect.Bottom; sy++ {
			p.b.SetCell(sx, sy, core.Cell{Rune: sep, Width: 1, Style: sepStyle})
		}
	}
}

// contentText converts renderer output to display text.
func contentText(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case Editor:
		return v.Text()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(content)
}
