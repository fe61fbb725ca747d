package column

import "sort"

// Metric is the resolved horizontal placement of a column.
type Metric struct {
	Left  int
	Width int
}

// Right returns the trailing edge of the column.
func (m Metric) Right() int {
	return m.Left + m.Width
}

// Layout is the output of Compute.
type Layout struct {
	// Columns in display order; Columns[i].Idx == i.
	Columns []*Column
	// SpanColumns holds the columns that declare a ColSpan function.
	SpanColumns []*Column
	// LastFrozenIndex is the index of the last frozen column, or -1.
	LastFrozenIndex int
	// Metrics is indexed by column index.
	Metrics []Metric
	// Templates holds one "Npx" track per column.
	Templates []string
	// FrozenLefts holds the fixed left offset of each frozen column.
	FrozenLefts      []int
	TotalFrozenWidth int
	TotalWidth       int

	byKey map[string]*Column
}

// Normalized is the width-independent half of a layout. It only changes when
// the definitions or defaults change.
type Normalized struct {
	Columns         []*Column
	SpanColumns     []*Column
	LastFrozenIndex int
}

// Normalize applies defaults to defs and orders them: the select column
// first, then frozen columns, then the rest, each group in input order.
func Normalize(defs []Def, defaults Defaults) Normalized {
	defaultWidth := defaults.Width
	if !defaultWidth.IsSet() {
		defaultWidth = Auto()
	}
	defaultMin := DefaultMinWidth
	if defaults.MinWidth != nil {
		defaultMin = *defaults.MinWidth
	}
	defaultMax := 0
	if defaults.MaxWidth != nil {
		defaultMax = *defaults.MaxWidth
	}
	defaultRender := defaults.RenderCell
	if defaultRender == nil {
		defaultRender = RenderValue
	}

	columns := make([]*Column, 0, len(defs))
	frozenCount := 0
	for _, d := range defs {
		c := &Column{
			Key:                 d.Key,
			Name:                d.Name,
			Width:               d.Width,
			MinWidth:            defaultMin,
			MaxWidth:            defaultMax,
			Frozen:              d.Frozen,
			Resizable:           defaults.Resizable,
			Sortable:            defaults.Sortable,
			SortDescendingFirst: d.SortDescendingFirst,
			EditableFlag:        d.EditableFlag,
			Behavior:            d.Behavior,
			EditorOptions:       d.EditorOptions,
		}
		if c.Key == SelectColumnKey {
			c.Frozen = true
		}
		if !c.Width.IsSet() {
			c.Width = defaultWidth
		}
		if d.MinWidth != nil {
			c.MinWidth = *d.MinWidth
		}
		if d.MaxWidth != nil {
			c.MaxWidth = *d.MaxWidth
		}
		if d.Resizable != nil {
			c.Resizable = *d.Resizable
		}
		if d.Sortable != nil {
			c.Sortable = *d.Sortable
		}
		if c.RenderCell == nil {
			c.RenderCell = defaultRender
		}
		if c.Frozen {
			frozenCount++
		}
		columns = append(columns, c)
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return rank(columns[i]) < rank(columns[j])
	})

	n := Normalized{Columns: columns, LastFrozenIndex: frozenCount - 1}
	for i, c := range columns {
		c.Idx = i
		if c.ColSpan != nil {
			n.SpanColumns = append(n.SpanColumns, c)
		}
	}
	if n.LastFrozenIndex >= 0 {
		columns[n.LastFrozenIndex].IsLastFrozen = true
	}
	return n
}

func rank(c *Column) int {
	switch {
	case c.Key == SelectColumnKey:
		return 0
	case c.Frozen:
		return 1
	default:
		return 2
	}
}

// Measure resolves the width and left offset of every column.
// Resized widths win over measured widths, which win over declared widths.
// Numeric widths are clamped; auto and max-content widths resolve to the
// column's minimum until measured.
func Measure(n Normalized, resized, measured Widths) *Layout {
	l := &Layout{
		Columns:         n.Columns,
		SpanColumns:     n.SpanColumns,
		LastFrozenIndex: n.LastFrozenIndex,
		Metrics:         make([]Metric, len(n.Columns)),
		Templates:       make([]string, len(n.Columns)),
		byKey:           make(map[string]*Column, len(n.Columns)),
	}
	left := 0
	for i, c := range n.Columns {
		var width int
		if w, ok := resized.Get(c.Key); ok {
			width = c.Clamp(w)
		} else if w, ok := measured.Get(c.Key); ok {
			width = c.Clamp(w)
		} else if c.Width.IsNumeric() {
			width = c.Clamp(c.Width.Px)
		} else {
			width = c.MinWidth
		}
		l.Metrics[i] = Metric{Left: left, Width: width}
		l.Templates[i] = Px(width).Template()
		l.byKey[c.Key] = c
		left += width
	}
	l.TotalWidth = left
	if l.LastFrozenIndex >= 0 {
		l.TotalFrozenWidth = l.Metrics[l.LastFrozenIndex].Right()
		l.FrozenLefts = make([]int, l.LastFrozenIndex+1)
		for i := range l.FrozenLefts {
			l.FrozenLefts[i] = l.Metrics[i].Left
		}
	}
	return l
}

// Compute normalizes defs and resolves their widths.
func Compute(defs []Def, resized, measured Widths, defaults Defaults) *Layout {
	return Measure(Normalize(defs, defaults), resized, measured)
}

// Len returns the number of columns.
func (l *Layout) Len() int {
	return len(l.Columns)
}

// Column returns the column at idx, or nil when idx is out of range.
func (l *Layout) Column(idx int) *Column {
	if idx < 0 || idx >= len(l.Columns) {
		return nil
	}
	return l.Columns[idx]
}

// ByKey returns the column with key.
func (l *Layout) ByKey(key string) (*Column, bool) {
	c, ok := l.byKey[key]
	return c, ok
}

// Metric returns the metric of the column at idx.
func (l *Layout) Metric(idx int) Metric {
	if idx < 0 || idx >= len(l.Metrics) {
		return Metric{}
	}
	return l.Metrics[idx]
}

// FirstUnfrozenIndex returns the index of the first scrollable column,
// clamped to the last column.
func (l *Layout) FirstUnfrozenIndex() int {
	idx := l.LastFrozenIndex + 1
	if last := len(l.Columns) - 1; idx > last {
		return last
	}
	return idx
}
