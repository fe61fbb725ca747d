// Package source holds the row type produced by the row sources.
package source

import "sort"

// Row is one source row. Rows are immutable; With returns a modified copy.
type Row struct {
	// Index is the zero-based position in the source. Copies keep the index.
	Index  int
	values map[string]any
}

// NewRow creates a row holding a copy of values.
func NewRow(index int, values map[string]any) *Row {
	r := &Row{Index: index, values: make(map[string]any, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Field implements column.Fielder.
func (r *Row) Field(key string) any {
	return r.values[key]
}

// Has reports whether the row holds a value for key.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the field keys in sorted order.
func (r *Row) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of r with key set to value.
func (r *Row) With(key string, value any) *Row {
	values := make(map[string]any, len(r.values)+1)
	for k, v := range r.values {
		values[k] = v
	}
	values[key] = value
	return &Row{Index: r.Index, values: values}
}
