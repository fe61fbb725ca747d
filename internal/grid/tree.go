package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/grouping"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/input/key"
)

// HeightKind tells group rows from data rows in a tree height function.
type HeightKind uint8

const (
	HeightRow HeightKind = iota
	HeightGroup
)

// HeightArgs are passed to a tree row height function.
type HeightArgs struct {
	Kind HeightKind
	Row  any
}

// TreeGrid is a Grid over grouped rows. Rows, columns and selected rows
// are given in their raw, ungrouped form; callbacks report raw rows and
// raw row keys.
type TreeGrid struct {
	*Grid

	rawDefs     []column.Def
	rawRows     []any
	rawSelected rowselect.Set
	rawKey      func(row any) any
	groupBy     []string
	activeBy    []string
	grouper     grouping.Grouper
	expanded    grouping.ExpandedSet
	user        Callbacks

	onExpandedChange func(grouping.ExpandedSet)

	tree    *grouping.Tree
	proj    *grouping.Projection
	derived rowselect.Set
}

// NewTree creates a tree grid grouped by groupBy.
func NewTree(width, height int, groupBy []string, opts ...Option) *TreeGrid {
	g := New(width, height, opts...)
	t := &TreeGrid{
		Grid:        g,
		rawSelected: rowselect.NewSet(),
		rawKey:      g.cfg.rowKeyGetter,
		groupBy:     groupBy,
		expanded:    grouping.NewExpandedSet(),
		user:        g.cfg.callbacks,
	}
	g.cfg.rowKeyGetter = nil
	g.hooks = hooks{
		tree:        true,
		renderKey:   t.renderKey,
		mapSelected: t.mapSelected,
		groupCell:   t.groupCell,
	}
	if t.rawKey != nil {
		g.hooks.selectionKey = t.selectionKey
	}
	g.cfg.callbacks = t.wrap(t.user)
	t.rebuild()
	return t
}

// SetCallbacks replaces the change handlers.
func (t *TreeGrid) SetCallbacks(cb Callbacks) {
	t.user = cb
	t.Grid.cfg.callbacks = t.wrap(cb)
}

// Callbacks returns the host's change handlers.
func (t *TreeGrid) Callbacks() Callbacks {
	return t.user
}

func (t *TreeGrid) wrap(cb Callbacks) Callbacks {
	inner := cb
	inner.OnCellKeyDown = t.handleCellKeyDown
	if cb.OnRowsChange != nil {
		inner.OnRowsChange = t.handleRowsChange
	}
	return inner
}

// SetOnExpandedGroupIDsChange sets the handler of group toggles. Without
// one the tree applies toggles itself.
func (t *TreeGrid) SetOnExpandedGroupIDsChange(fn func(grouping.ExpandedSet)) {
	t.onExpandedChange = fn
}

// SetColumns replaces the raw column definitions.
func (t *TreeGrid) SetColumns(defs []column.Def) {
	t.rawDefs = defs
	t.rebuild()
}

// SetRows replaces the raw rows.
func (t *TreeGrid) SetRows(rows []any) {
	t.rawRows = rows
	t.rebuild()
}

// SetGroupBy replaces the group-by keys and the grouper. A nil grouper
// groups by field value.
func (t *TreeGrid) SetGroupBy(groupBy []string, grouper grouping.Grouper) {
	t.groupBy = groupBy
	t.grouper = grouper
	t.rebuild()
}

// SetExpandedGroupIDs replaces the expanded set.
func (t *TreeGrid) SetExpandedGroupIDs(s grouping.ExpandedSet) {
	t.expanded = s
	t.reflatten()
}

// ExpandedGroupIDs returns the expanded set.
func (t *TreeGrid) ExpandedGroupIDs() grouping.ExpandedSet {
	return t.expanded
}

// SetSelectedRows replaces the selected raw row keys.
func (t *TreeGrid) SetSelectedRows(s rowselect.Set) {
	t.rawSelected = s
	t.deriveSelected()
}

// SelectedRows returns the selected raw row keys.
func (t *TreeGrid) SelectedRows() rowselect.Set {
	return t.rawSelected
}

// SetRowHeightFunc sets a height function that can tell group rows from
// data rows.
func (t *TreeGrid) SetRowHeightFunc(fn func(HeightArgs) int) {
	if fn == nil {
		t.Grid.SetRowHeightFunc(nil)
		return
	}
	t.Grid.SetRowHeightFunc(func(row any) int {
		if _, ok := row.(*grouping.GroupRow); ok {
			return fn(HeightArgs{Kind: HeightGroup, Row: row})
		}
		return fn(HeightArgs{Kind: HeightRow, Row: row})
	})
}

// RawRows returns the ungrouped rows.
func (t *TreeGrid) RawRows() []any {
	return t.rawRows
}

// Projection returns the flattened rows.
func (t *TreeGrid) Projection() *grouping.Projection {
	return t.proj
}

// GroupBy returns the group-by keys that name a column.
func (t *TreeGrid) GroupBy() []string {
	return t.activeBy
}

// ToggleGroup expands or collapses the group with id.
func (t *TreeGrid) ToggleGroup(id string) {
	next := grouping.Toggle(t.expanded, id)
	if t.onExpandedChange != nil {
		t.onExpandedChange(next)
		return
	}
	t.SetExpandedGroupIDs(next)
}

// Frame resolves the props of every rendered row. The row count covers
// the fully expanded tree.
func (t *TreeGrid) Frame() Frame {
	f := t.Grid.Frame()
	f.RowCount = t.tree.RowsCount() + 1 + len(t.Grid.top) + len(t.Grid.bottom)
	return f
}

func (t *TreeGrid) rebuild() {
	defs, active := column.ForGrouping(t.rawDefs, t.groupBy)
	for i := range defs {
		defs[i] = groupRowsReadOnly(defs[i])
	}
	t.activeBy = active
	t.tree = grouping.Build(t.rawRows, active, t.grouper)
	t.Grid.SetColumns(defs)
	t.reflatten()
}

func (t *TreeGrid) reflatten() {
	t.proj = grouping.Flatten(t.tree, t.expanded)
	t.Grid.SetRows(t.proj.Rows)
	t.deriveSelected()
}

// groupRowsReadOnly makes the cells of group rows non-editable.
func groupRowsReadOnly(d column.Def) column.Def {
	pred := d.Editable
	flag := d.EditableFlag
	d.Editable = func(row any) bool {
		if _, ok := row.(*grouping.GroupRow); ok {
			return false
		}
		if pred != nil {
			return pred(row)
		}
		return flag == nil || *flag
	}
	return d
}

func (t *TreeGrid) renderKey(i int, _ any) any {
	return t.proj.RowKey(i, t.rawKey)
}

func (t *TreeGrid) selectionKey(row any) any {
	if g, ok := row.(*grouping.GroupRow); ok {
		return g.ID
	}
	return t.rawKey(row)
}

// deriveSelected marks visible groups whose rows are all selected.
func (t *TreeGrid) deriveSelected() {
	derived := t.rawSelected
	if t.rawKey != nil {
		var ids []any
		for _, row := range t.proj.Rows {
			g, ok := row.(*grouping.GroupRow)
			if !ok {
				continue
			}
			if rowselect.AllSelected(t.rawSelected, g.ChildRows, t.rawKey) {
				ids = append(ids, g.ID)
			}
		}
		if len(ids) > 0 {
			derived = derived.With(ids...)
		}
	}
	t.derived = derived
	t.Grid.SetSelectedRows(derived)
}

// mapSelected turns a change of the flattened selection into a change of
// raw row keys. Group rows stand for all their rows.
func (t *TreeGrid) mapSelected(next rowselect.Set) rowselect.Set {
	out := t.rawSelected
	for _, row := range t.proj.Rows {
		k := t.selectionKey(row)
		was, now := t.derived.Has(k), next.Has(k)
		if was == now {
			continue
		}
		keys := []any{k}
		if g, ok := row.(*grouping.GroupRow); ok {
			keys = keys[:0]
			for _, cr := range g.ChildRows {
				keys = append(keys, t.rawKey(cr))
			}
		}
		if now {
			out = out.With(keys...)
		} else {
			out = out.Without(keys...)
		}
	}
	return out
}

func (t *TreeGrid) handleRowsChange(rows []any, change RowsChange) {
	fn := t.user.OnRowsChange
	if fn == nil {
		return
	}
	raw := make([]any, len(t.rawRows))
	copy(raw, t.rawRows)
	indexes := make([]int, 0, len(change.Indexes))
	for _, i := range change.Indexes {
		ri := t.proj.RawIndex(i)
		if ri < 0 {
			continue
		}
		raw[ri] = rows[i]
		indexes = append(indexes, ri)
	}
	fn(raw, RowsChange{Indexes: indexes, Column: change.Column})
}

func (t *TreeGrid) handleCellKeyDown(args CellKeyDownArgs, ev *CellKeyEvent) {
	if fn := t.user.OnCellKeyDown; fn != nil {
		fn(args, ev)
		if ev.IsGridDefaultPrevented() {
			return
		}
	}
	if args.Mode == selection.ModeEdit {
		return
	}
	idx := -1
	if args.Column != nil {
		idx = args.Column.Idx
	}
	g, ok := t.proj.GroupAt(args.RowIdx)
	if !ok {
		return
	}
	left, right := key.KeyLeft, key.KeyRight
	if t.Grid.cfg.rtl {
		left, right = right, left
	}
	if idx == -1 && ((ev.Key == left && g.IsExpanded) || (ev.Key == right && !g.IsExpanded)) {
		ev.PreventGridDefault()
		t.ToggleGroup(g.ID)
	}
	if idx == -1 && ev.Key == left && !g.IsExpanded && g.Level != 0 {
		if pi, ok := t.proj.Parent(args.RowIdx); ok {
			ev.PreventGridDefault()
			args.SelectCell(selection.Position{Idx: idx, RowIdx: pi}, false)
		}
	}
	if ev.IsCtrlHeld() && (ev.IsRuneKey('c') || ev.IsRuneKey('v')) {
		ev.PreventGridDefault()
	}
}

// groupCell renders group rows: only the group-by column of the row's
// level shows the group cell.
func (t *TreeGrid) groupCell(c *Cell, row any, rowIdx int) (any, bool) {
	g, ok := row.(*grouping.GroupRow)
	if !ok {
		return nil, false
	}
	col := c.Column
	if g.Level >= len(t.activeBy) || col.Key != t.activeBy[g.Level] || col.RenderGroupCell == nil {
		return nil, true
	}
	id := g.ID
	return col.RenderGroupCell(column.GroupCellProps{
		Column:      col,
		Row:         g,
		RowIdx:      rowIdx,
		GroupKey:    g.GroupKey,
		ChildRows:   g.ChildRows,
		IsExpanded:  g.IsExpanded,
		IsCellFocus: c.Selected,
		ToggleGroup: func() { t.ToggleGroup(id) },
	}), true
}
