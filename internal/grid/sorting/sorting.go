// Package sorting tracks the grid's sort columns and applies them to rows.
package sorting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// Column is one entry of the sort order.
type Column struct {
	ColumnKey string
	Direction Direction
}

// Index returns the position of key in cols, or -1.
func Index(cols []Column, key string) int {
	for i, c := range cols {
		if c.ColumnKey == key {
			return i
		}
	}
	return -1
}

// State returns the direction of key and its 1-based priority. Priority is
// zero unless more than one column is sorted.
func State(cols []Column, key string) (Direction, int) {
	i := Index(cols, key)
	if i < 0 {
		return "", 0
	}
	if len(cols) > 1 {
		return cols[i].Direction, i + 1
	}
	return cols[i].Direction, 0
}

// Next returns the sort order after a header click on col. The cycle is
// ascending, descending, unsorted (descending first when the column asks
// for it). With multi the other sort columns are kept.
func Next(cols []Column, col *column.Column, multi bool) []Column {
	first := Ascending
	if col.SortDescendingFirst {
		first = Descending
	}
	i := Index(cols, col.Key)
	if i < 0 {
		next := Column{ColumnKey: col.Key, Direction: first}
		if multi && cols != nil {
			out := make([]Column, 0, len(cols)+1)
			out = append(out, cols...)
			return append(out, next)
		}
		return []Column{next}
	}

	var next *Column
	if cols[i].Direction == first {
		next = &Column{ColumnKey: col.Key, Direction: first.Flip()}
	}
	if !multi {
		if next == nil {
			return []Column{}
		}
		return []Column{*next}
	}
	out := make([]Column, 0, len(cols))
	for j, c := range cols {
		if j != i {
			out = append(out, c)
			continue
		}
		if next != nil {
			out = append(out, *next)
		}
	}
	return out
}

// Compare orders two cell values: numbers numerically, everything else by
// case-insensitive text. Nil sorts first.
func Compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Apply returns a sorted copy of rows. Values are read with value, or the
// row's field when value is nil. The sort is stable.
func Apply(rows []any, cols []Column, value func(row any, key string) any) []any {
	out := make([]any, len(rows))
	copy(out, rows)
	if len(cols) == 0 {
		return out
	}
	if value == nil {
		value = func(row any, key string) any {
			v, _ := column.FieldValue(row, key)
			return v
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, c := range cols {
			cmp := Compare(value(out[i], c.ColumnKey), value(out[j], c.ColumnKey))
			if cmp == 0 {
				continue
			}
			if c.Direction == Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return out
}
