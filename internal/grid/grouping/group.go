package grouping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// IDSeparator joins the group keys of a group id.
const IDSeparator = "__"

// Bucket is one group produced by a Grouper.
type Bucket struct {
	Key  string
	Rows []any
}

// Grouper partitions rows by the value of the column key. Buckets are in
// display order.
type Grouper func(rows []any, key string) []Bucket

// ByValue groups rows by value(row, key) in order of first appearance.
func ByValue(value func(row any, key string) any) Grouper {
	return func(rows []any, key string) []Bucket {
		var buckets []Bucket
		pos := make(map[string]int)
		for _, row := range rows {
			k := fmt.Sprint(value(row, key))
			i, ok := pos[k]
			if !ok {
				i = len(buckets)
				pos[k] = i
				buckets = append(buckets, Bucket{Key: k})
			}
			buckets[i].Rows = append(buckets[i].Rows, row)
		}
		return buckets
	}
}

// ByField groups rows by their field values.
func ByField() Grouper {
	return ByValue(func(row any, key string) any {
		v, _ := column.FieldValue(row, key)
		return v
	})
}

// GroupRow is a synthetic row standing for one group. It is addressed by ID;
// the parent is referenced by id, never by pointer.
type GroupRow struct {
	ID            string
	ParentID      string
	GroupKey      string
	Level         int
	PosInSet      int
	SetSize       int
	StartRowIndex int
	ChildRows     []any
	IsExpanded    bool
}

// HasParent reports whether the group is nested.
func (g *GroupRow) HasParent() bool {
	return g.Level > 0
}

// node is a bucket in the built hierarchy. Leaf nodes have no children.
type node struct {
	key           string
	rows          []any
	children      []node
	startRowIndex int
}

// Tree is the grouped hierarchy of a row collection.
type Tree struct {
	raw     []any
	groupBy []string
	roots   []node
	count   int
	// index maps row identities to their first raw position.
	index map[any]int
}

// Build groups rows by each key of groupBy in turn. A nil grouper groups by
// field value. With no keys the tree is a pass-through of rows.
func Build(rows []any, groupBy []string, grouper Grouper) *Tree {
	t := &Tree{raw: rows, groupBy: groupBy, count: len(rows)}
	if len(groupBy) == 0 {
		return t
	}
	if grouper == nil {
		grouper = ByField()
	}
	t.roots, t.count = group(rows, groupBy, grouper, 0)
	t.index = indexRows(rows)
	return t
}

func indexRows(rows []any) map[any]int {
	index := make(map[any]int, len(rows))
	for i, row := range rows {
		id, ok := column.Identity(row)
		if !ok {
			continue
		}
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}
	return index
}

// group builds one level. It returns the nodes and the number of flattened
// positions the level occupies when fully expanded.
func group(rows []any, keys []string, grouper Grouper, start int) ([]node, int) {
	buckets := grouper(rows, keys[0])
	nodes := make([]node, 0, len(buckets))
	count := 0
	for _, b := range buckets {
		n := node{key: b.Key, rows: b.Rows, startRowIndex: start + count}
		childCount := len(b.Rows)
		if len(keys) > 1 {
			n.children, childCount = group(b.Rows, keys[1:], grouper, start+count+1)
		}
		nodes = append(nodes, n)
		count += childCount + 1
	}
	return nodes, count
}

// Grouped reports whether any group-by key is active.
func (t *Tree) Grouped() bool {
	return len(t.groupBy) > 0
}

// GroupBy returns the active group-by keys.
func (t *Tree) GroupBy() []string {
	return t.groupBy
}

// RowsCount returns the number of rows plus the number of groups, that is
// the flattened length when every group is expanded.
func (t *Tree) RowsCount() int {
	return t.count
}

// Raw returns the ungrouped rows.
func (t *Tree) Raw() []any {
	return t.raw
}

// ExpandedSet is an immutable set of expanded group ids.
type ExpandedSet struct {
	ids map[string]struct{}
}

// NewExpandedSet returns a set holding ids.
func NewExpandedSet(ids ...string) ExpandedSet {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return ExpandedSet{ids: m}
}

// Has reports whether id is expanded.
func (s ExpandedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of expanded ids.
func (s ExpandedSet) Len() int {
	return len(s.ids)
}

// IDs returns the expanded ids in sorted order.
func (s ExpandedSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Toggle returns a copy of s with id flipped.
func (s ExpandedSet) Toggle(id string) ExpandedSet {
	m := make(map[string]struct{}, len(s.ids)+1)
	for k := range s.ids {
		m[k] = struct{}{}
	}
	if _, ok := m[id]; ok {
		delete(m, id)
	} else {
		m[id] = struct{}{}
	}
	return ExpandedSet{ids: m}
}

// Toggle flips id in expanded.
func Toggle(expanded ExpandedSet, id string) ExpandedSet {
	return expanded.Toggle(id)
}

// JoinID builds a group id from its ancestor keys.
func JoinID(keys ...string) string {
	return strings.Join(keys, IDSeparator)
}
