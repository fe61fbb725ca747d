package grouping

import "github.com/dshills/gridstorm/internal/grid/column"

// Projection is the flattened view of a Tree under an expanded set. Rows
// holds raw rows and *GroupRow values in display order.
type Projection struct {
	Rows []any

	tree    *Tree
	groups  map[string]*GroupRow
	parents []int
	// positions holds, for raw rows of a grouped projection, their position
	// within the full expansion.
	positions []int
}

// Flatten walks t depth first, emitting a group row for every bucket and
// descending only into expanded groups.
func Flatten(t *Tree, expanded ExpandedSet) *Projection {
	p := &Projection{tree: t, groups: make(map[string]*GroupRow)}
	if !t.Grouped() {
		p.Rows = t.raw
		p.parents = make([]int, len(t.raw))
		for i := range p.parents {
			p.parents[i] = -1
		}
		return p
	}
	p.expand(t.roots, "", 0, -1, expanded)
	return p
}

// Project builds and flattens in one step.
func Project(rows []any, groupBy []string, grouper Grouper, expanded ExpandedSet) *Projection {
	return Flatten(Build(rows, groupBy, grouper), expanded)
}

func (p *Projection) expand(nodes []node, parentID string, level, parentIdx int, expanded ExpandedSet) {
	for pos, n := range nodes {
		id := n.key
		if parentID != "" {
			id = JoinID(parentID, n.key)
		}
		g := &GroupRow{
			ID:            id,
			ParentID:      parentID,
			GroupKey:      n.key,
			Level:         level,
			PosInSet:      pos,
			SetSize:       len(nodes),
			StartRowIndex: n.startRowIndex,
			ChildRows:     n.rows,
			IsExpanded:    expanded.Has(id),
		}
		p.groups[id] = g
		idx := len(p.Rows)
		p.Rows = append(p.Rows, g)
		p.parents = append(p.parents, parentIdx)
		p.positions = append(p.positions, -1)
		if !g.IsExpanded {
			continue
		}
		if n.children != nil {
			p.expand(n.children, id, level+1, idx, expanded)
			continue
		}
		for j, row := range n.rows {
			p.Rows = append(p.Rows, row)
			p.parents = append(p.parents, idx)
			p.positions = append(p.positions, n.startRowIndex+j+1)
		}
	}
}

// Tree returns the hierarchy the projection was flattened from.
func (p *Projection) Tree() *Tree {
	return p.tree
}

// Len returns the flattened length.
func (p *Projection) Len() int {
	return len(p.Rows)
}

// Row returns the row at i, or nil when out of range.
func (p *Projection) Row(i int) any {
	if i < 0 || i >= len(p.Rows) {
		return nil
	}
	return p.Rows[i]
}

// IsGroup reports whether the row at i is a group row.
func (p *Projection) IsGroup(i int) bool {
	_, ok := p.GroupAt(i)
	return ok
}

// GroupAt returns the group row at i.
func (p *Projection) GroupAt(i int) (*GroupRow, bool) {
	g, ok := p.Row(i).(*GroupRow)
	return g, ok
}

// Group returns the group row with id, whether or not it is visible.
func (p *Projection) Group(id string) (*GroupRow, bool) {
	g, ok := p.groups[id]
	return g, ok
}

// Parent returns the index of the group row containing the row at i.
func (p *Projection) Parent(i int) (int, bool) {
	if i < 0 || i >= len(p.parents) || p.parents[i] < 0 {
		return -1, false
	}
	return p.parents[i], true
}

// RowKey returns a stable key for the row at i. Group rows are keyed by id.
// Raw rows use getter when given, otherwise their position within the full
// expansion, otherwise i.
func (p *Projection) RowKey(i int, getter func(row any) any) any {
	row := p.Row(i)
	if g, ok := row.(*GroupRow); ok {
		return g.ID
	}
	if getter != nil {
		return getter(row)
	}
	if i < len(p.positions) && p.positions[i] >= 0 {
		return p.positions[i]
	}
	return i
}

// RawIndex returns the index of the row at i within the ungrouped rows, or
// -1 for group rows.
func (p *Projection) RawIndex(i int) int {
	row := p.Row(i)
	if row == nil {
		return -1
	}
	if _, ok := row.(*GroupRow); ok {
		return -1
	}
	if !p.tree.Grouped() {
		return i
	}
	id, ok := column.Identity(row)
	if !ok {
		return -1
	}
	if j, ok := p.tree.index[id]; ok {
		return j
	}
	return -1
}

// IndexOfGroup returns the flattened index of the group with id, or -1 when
// it is hidden by a collapsed ancestor.
func (p *Projection) IndexOfGroup(id string) int {
	for i, row := range p.Rows {
		if g, ok := row.(*GroupRow); ok && g.ID == id {
			return i
		}
	}
	return -1
}

// Count returns the number of rows plus the number of groups.
func (p *Projection) Count() int {
	return p.tree.RowsCount()
}
