package column

import (
	"fmt"
	"sort"
)

// GroupToggle is the content produced by the default group cell renderer.
type GroupToggle struct {
	Label    string
	Expanded bool
}

// String renders the toggle as text.
func (g GroupToggle) String() string {
	if g.Expanded {
		return "▼ " + g.Label
	}
	return "▶ " + g.Label
}

// RenderToggleGroup is the default group cell renderer of group-by columns.
func RenderToggleGroup(p GroupCellProps) any {
	return GroupToggle{Label: fmt.Sprint(p.GroupKey), Expanded: p.IsExpanded}
}

func renderNothing(CellProps) any { return nil }

// ForGrouping reorders defs for a grouped grid. Group-by columns move right
// after the select column, in groupBy order, and become frozen, read-only
// and blank in data rows. The returned keys are the groupBy keys that name
// an existing column, in column order.
func ForGrouping(defs []Def, groupBy []string) ([]Def, []string) {
	pos := make(map[string]int, len(groupBy))
	for i, k := range groupBy {
		if _, dup := pos[k]; !dup {
			pos[k] = i
		}
	}
	out := make([]Def, len(defs))
	copy(out, defs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a == SelectColumnKey || b == SelectColumnKey {
			return a == SelectColumnKey && b != SelectColumnKey
		}
		pa, inA := pos[a]
		pb, inB := pos[b]
		switch {
		case inA && inB:
			return pa < pb
		case inA:
			return true
		default:
			return false
		}
	})

	var keys []string
	for i := range out {
		if _, ok := pos[out[i].Key]; !ok {
			continue
		}
		keys = append(keys, out[i].Key)
		out[i].Frozen = true
		out[i].RenderCell = renderNothing
		if out[i].RenderGroupCell == nil {
			out[i].RenderGroupCell = RenderToggleGroup
		}
		out[i].Editable = nil
		out[i].EditableFlag = Ptr(false)
	}
	return out, keys
}

// SelectColumn returns the row-selection column definition at the given
// fixed width.
func SelectColumn(width int) Def {
	return Def{
		Key:       SelectColumnKey,
		Width:     Px(width),
		MinWidth:  Ptr(width),
		MaxWidth:  Ptr(width),
		Frozen:    true,
		Resizable: Ptr(false),
		Sortable:  Ptr(false),
	}
}
