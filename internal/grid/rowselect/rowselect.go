// Package rowselect maintains the set of selected row keys.
//
// Row keys come from a host-supplied getter and must be comparable. Sets
// are immutable; every change yields a new Set.
package rowselect

import (
	"errors"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// ErrMissingRowKeyGetter is returned when row selection is used without a
// row key getter.
var ErrMissingRowKeyGetter = errors.New("rowselect: row key getter required to use selection")

// KeyGetter returns a row's stable key.
type KeyGetter func(row any) any

// Set is an immutable set of row keys.
type Set struct {
	keys map[any]struct{}
}

// NewSet returns a set holding keys.
func NewSet(keys ...any) Set {
	m := make(map[any]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return Set{keys: m}
}

// Has reports whether key is selected.
func (s Set) Has(key any) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of selected keys.
func (s Set) Len() int {
	return len(s.keys)
}

// Keys returns the selected keys in no particular order.
func (s Set) Keys() []any {
	out := make([]any, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

func (s Set) clone() map[any]struct{} {
	m := make(map[any]struct{}, len(s.keys)+1)
	for k := range s.keys {
		m[k] = struct{}{}
	}
	return m
}

// With returns a copy of s with keys added.
func (s Set) With(keys ...any) Set {
	m := s.clone()
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return Set{keys: m}
}

// Without returns a copy of s with keys removed.
func (s Set) Without(keys ...any) Set {
	m := s.clone()
	for _, k := range keys {
		delete(m, k)
	}
	return Set{keys: m}
}

// Args describes one selection gesture. Header gestures apply to every row.
type Args struct {
	Header     bool
	Row        any
	Checked    bool
	ShiftClick bool
}

// Tracker applies gestures and remembers the last checked row for shift
// ranges.
type Tracker struct {
	last int
}

// NewTracker returns a tracker with no anchor row.
func NewTracker() *Tracker {
	return &Tracker{last: -1}
}

// Reset forgets the anchor row.
func (t *Tracker) Reset() {
	t.last = -1
}

// Anchor returns the index of the last checked row, or -1.
func (t *Tracker) Anchor() int {
	return t.last
}

// Toggle applies args to set over rows and returns the new set.
func (t *Tracker) Toggle(set Set, rows []any, getter KeyGetter, args Args) (Set, error) {
	if getter == nil {
		return set, ErrMissingRowKeyGetter
	}
	if args.Header {
		keys := make([]any, 0, len(rows))
		for _, row := range rows {
			keys = append(keys, getter(row))
		}
		if args.Checked {
			return set.With(keys...), nil
		}
		return set.Without(keys...), nil
	}

	key := getter(args.Row)
	if !args.Checked {
		t.last = -1
		return set.Without(key), nil
	}

	keys := []any{key}
	prev := t.last
	idx := indexOf(rows, args.Row)
	t.last = idx
	// An anchor outside rows is stale; the gesture becomes a plain check.
	if args.ShiftClick && prev >= 0 && prev < len(rows) && idx != -1 && prev != idx {
		step := 1
		if idx < prev {
			step = -1
		}
		for i := prev + step; i != idx; i += step {
			keys = append(keys, getter(rows[i]))
		}
	}
	return set.With(keys...), nil
}

// AllSelected reports whether every row is in set. It is false for no rows.
func AllSelected(set Set, rows []any, getter KeyGetter) bool {
	if getter == nil || len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if !set.Has(getter(row)) {
			return false
		}
	}
	return true
}

// AnySelected reports whether some row is in set.
func AnySelected(set Set, rows []any, getter KeyGetter) bool {
	if getter == nil {
		return false
	}
	for _, row := range rows {
		if set.Has(getter(row)) {
			return true
		}
	}
	return false
}

func indexOf(rows []any, row any) int {
	for i, r := range rows {
		if column.Same(r, row) {
			return i
		}
	}
	return -1
}
