package viewport

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rows"
)

const (
	// ColumnOverscan is the number of columns rendered past each visible edge.
	ColumnOverscan = 1
	// RowOverscan is the number of rows rendered past each visible edge.
	RowOverscan = 4
)

// Range is an inclusive index range. It is empty when End < Start.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether i is inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// Covers reports whether other is fully inside r.
func (r Range) Covers(other Range) bool {
	return other.Empty() || (r.Contains(other.Start) && r.Contains(other.End))
}

// ColumnRange returns the overscanned range of scrollable columns for the
// horizontal scroll offset. Frozen columns are not part of the range; they
// are always rendered.
func ColumnRange(l *column.Layout, scrollLeft, width int, virtualize bool) Range {
	n := l.Len()
	if n == 0 {
		return Range{Start: 0, End: -1}
	}
	lastIdx := n - 1
	if !virtualize {
		return Range{Start: 0, End: lastIdx}
	}

	viewportLeft := scrollLeft + l.TotalFrozenWidth
	viewportRight := scrollLeft + width
	first := l.FirstUnfrozenIndex()
	if viewportLeft >= viewportRight {
		return Range{Start: first, End: first}
	}

	visibleStart := first
	for visibleStart < lastIdx {
		if l.Metrics[visibleStart].Right() > viewportLeft {
			break
		}
		visibleStart++
	}
	visibleEnd := visibleStart
	for visibleEnd < lastIdx {
		if l.Metrics[visibleEnd].Right() >= viewportRight {
			break
		}
		visibleEnd++
	}
	return Range{
		Start: max(first, visibleStart-ColumnOverscan),
		End:   min(lastIdx, visibleEnd+ColumnOverscan),
	}
}

// VisibleRowRange returns the rows intersecting the client area without
// overscan, clamped to the row range.
func VisibleRowRange(m rows.Metrics, scrollTop, clientHeight int) Range {
	n := m.Count()
	if n == 0 {
		return Range{Start: 0, End: -1}
	}
	return Range{
		Start: clampIndex(m.FindIndex(scrollTop), n),
		End:   clampIndex(m.FindIndex(scrollTop+clientHeight), n),
	}
}

// RowRange returns the overscanned row range for the vertical scroll offset.
func RowRange(m rows.Metrics, scrollTop, clientHeight int, virtualize bool) Range {
	return RowRangeWithOverscan(m, scrollTop, clientHeight, virtualize, RowOverscan)
}

// RowRangeWithOverscan is RowRange with an explicit overscan count.
func RowRangeWithOverscan(m rows.Metrics, scrollTop, clientHeight int, virtualize bool, overscan int) Range {
	n := m.Count()
	if !virtualize || n == 0 {
		return Range{Start: 0, End: n - 1}
	}
	start := m.FindIndex(scrollTop)
	end := m.FindIndex(scrollTop + clientHeight)
	return Range{
		Start: max(0, start-overscan),
		End:   min(n-1, end+overscan),
	}
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

// SpanSource supplies the rows whose cells may span into the window.
type SpanSource struct {
	Rows          []any
	RowRange      Range
	TopSummary    []any
	BottomSummary []any
}

// SpanStart returns the first scrollable column index to render. A spanning
// cell that starts before the overscan range and reaches into it pulls the
// start back to its own column so it is never rendered partially.
func SpanStart(l *column.Layout, cols Range, src SpanSource) int {
	if cols.Start == 0 {
		return 0
	}
	start := cols.Start
	reaches := func(c *column.Column, ctx column.CellContext) bool {
		span := column.GetColSpan(c, l.LastFrozenIndex, ctx)
		if span != 0 && c.Idx+span > cols.Start {
			start = c.Idx
			return true
		}
		return false
	}

	for _, c := range l.SpanColumns {
		if c.Idx >= start {
			break
		}
		if reaches(c, column.CellContext{Kind: column.CellHeader}) {
			break
		}
		for i := src.RowRange.Start; i <= src.RowRange.End && i < len(src.Rows); i++ {
			if i < 0 {
				continue
			}
			if reaches(c, column.CellContext{Kind: column.CellRow, Row: src.Rows[i]}) {
				break
			}
		}
		for _, r := range src.TopSummary {
			if reaches(c, column.CellContext{Kind: column.CellSummary, Row: r}) {
				break
			}
		}
		for _, r := range src.BottomSummary {
			if reaches(c, column.CellContext{Kind: column.CellSummary, Row: r}) {
				break
			}
		}
	}
	return start
}

// Columns returns the columns to render: every frozen column plus the
// scrollable columns from start through end.
func Columns(l *column.Layout, start, end int) []*column.Column {
	out := make([]*column.Column, 0, end+1)
	for i := 0; i <= end && i < l.Len(); i++ {
		c := l.Columns[i]
		if i < start && !c.Frozen {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Args are the inputs of Compute.
type Args struct {
	Layout  *column.Layout
	Metrics rows.Metrics

	Rows          []any
	TopSummary    []any
	BottomSummary []any

	ScrollTop    int
	ScrollLeft   int
	Width        int
	ClientHeight int
	Virtualize   bool
}

// Window is the render window for one frame.
type Window struct {
	Columns         Range
	Rows            Range
	SpanStart       int
	ViewportColumns []*column.Column
}

// Compute derives the render window from the scroll state.
func Compute(a Args) Window {
	w := Window{
		Columns: ColumnRange(a.Layout, a.ScrollLeft, a.Width, a.Virtualize),
		Rows:    RowRange(a.Metrics, a.ScrollTop, a.ClientHeight, a.Virtualize),
	}
	w.SpanStart = SpanStart(a.Layout, w.Columns, SpanSource{
		Rows:          a.Rows,
		RowRange:      w.Rows,
		TopSummary:    a.TopSummary,
		BottomSummary: a.BottomSummary,
	})
	w.ViewportColumns = Columns(a.Layout, w.SpanStart, w.Columns.End)
	return w
}

// RowColumns returns the columns to render for rowIdx. When the row holds
// the selected cell and that column is outside the window, the column is
// inserted after the frozen prefix, or appended when it lies past the end
// of the window.
func (w Window) RowColumns(l *column.Layout, rowIdx, selectedIdx, selectedRowIdx int) []*column.Column {
	selected := l.Column(selectedIdx)
	if selected == nil || rowIdx != selectedRowIdx {
		return w.ViewportColumns
	}
	for _, c := range w.ViewportColumns {
		if c == selected {
			return w.ViewportColumns
		}
	}
	out := make([]*column.Column, 0, len(w.ViewportColumns)+1)
	if selectedIdx > w.Columns.End {
		out = append(out, w.ViewportColumns...)
		return append(out, selected)
	}
	split := min(l.LastFrozenIndex+1, len(w.ViewportColumns))
	out = append(out, w.ViewportColumns[:split]...)
	out = append(out, selected)
	return append(out, w.ViewportColumns[split:]...)
}

// RowSlot is one data row the renderer must produce.
type RowSlot struct {
	RowIdx int
	// Outside marks the selected row rendered outside the window with only
	// the selected column.
	Outside bool
}

// RowSlots lists the rows to render. A selected data row outside the window
// is added as an extra slot so that focus never targets an unrendered row.
func (w Window) RowSlots(selectedRowIdx int, selectionInRows bool) []RowSlot {
	start, end := w.Rows.Start, w.Rows.End
	if selectionInRows && selectedRowIdx < start {
		start--
	}
	if selectionInRows && selectedRowIdx > end {
		end++
	}
	slots := make([]RowSlot, 0, max(end-start+1, 0))
	for i := start; i <= end; i++ {
		if i == w.Rows.Start-1 || i == w.Rows.End+1 {
			slots = append(slots, RowSlot{RowIdx: selectedRowIdx, Outside: true})
			continue
		}
		slots = append(slots, RowSlot{RowIdx: i})
	}
	return slots
}
