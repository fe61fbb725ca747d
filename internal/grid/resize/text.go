package resize

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// TextMeasurer computes intrinsic column widths from cell text in terminal
// cells.
type TextMeasurer struct {
	cond *runewidth.Condition
	// Padding is added to each content width.
	Padding int
}

// NewTextMeasurer creates a measurer. With eastAsian set, ambiguous
// characters count as two cells.
func NewTextMeasurer(eastAsian bool, padding int) *TextMeasurer {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return &TextMeasurer{cond: cond, Padding: padding}
}

// Width returns the display width of s.
func (m *TextMeasurer) Width(s string) int {
	if m.cond.EastAsianWidth {
		return m.cond.StringWidth(s)
	}
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w += uniseg.StringWidth(g.Str())
	}
	return w
}

// ColumnWidth returns the content width of col across its header and the
// given rows.
func (m *TextMeasurer) ColumnWidth(col *column.Column, rows []any) int {
	w := m.Width(col.Name)
	for _, row := range rows {
		w = max(w, m.Width(column.DisplayValue(col, row)))
	}
	return w + m.Padding
}

// ContentWidths measures every column in cols.
func (m *TextMeasurer) ContentWidths(cols []*column.Column, rows []any) map[string]int {
	out := make(map[string]int, len(cols))
	for _, c := range cols {
		out[c.Key] = m.ColumnWidth(c, rows)
	}
	return out
}
