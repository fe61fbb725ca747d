package app

import (
	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/renderer/statusline"
)

// callbacks returns the grid change handlers. The app holds the rows, the
// selected rows and the sort columns; every change is applied here and
// pushed back into the grid.
func (a *App) callbacks() grid.Callbacks {
	return grid.Callbacks{
		OnRowsChange:         a.onRowsChange,
		OnSelectedRowsChange: a.onSelectedRowsChange,
		OnSortColumnsChange:  a.onSortColumnsChange,
		OnColumnResize: func(idx, width int) {
			a.log.Debug("column %d resized to %d", idx, width)
		},
		OnFill: func(ev grid.FillEvent) any {
			v, _ := column.FieldValue(ev.SourceRow, ev.ColumnKey)
			return a.replaceField(ev.TargetRow, ev.ColumnKey, v)
		},
		OnCopy: func(ev grid.CopyEvent) {
			a.status.SetMessage("copied "+ev.SourceColumnKey, statusline.MessageInfo)
		},
		OnPaste: func(ev grid.PasteEvent) any {
			v, _ := column.FieldValue(ev.SourceRow, ev.SourceColumnKey)
			return a.replaceField(ev.TargetRow, ev.TargetColumnKey, v)
		},
		OnError: a.onGridError,
	}
}

func (a *App) onGridError(err error) {
	a.log.Warn("grid: %v", err)
	a.status.SetMessage(err.Error(), statusline.MessageError)
}

// replaceField returns row with key set, or row itself when the row type
// cannot be edited.
func (a *App) replaceField(row any, key string, v any) any {
	out, err := setField(row, key, v)
	if err != nil {
		a.log.Warn("%v", err)
		return row
	}
	return out
}

func (a *App) onRowsChange(rows []any, change grid.RowsChange) {
	next := make([]any, len(a.rows))
	copy(next, a.rows)
	for _, i := range change.Indexes {
		if i < 0 || i >= len(a.view) || i >= len(rows) {
			continue
		}
		old := a.view[i]
		for j, r := range next {
			if column.Same(r, old) {
				next[j] = rows[i]
				break
			}
		}
	}
	a.rows = next
	a.view = a.sorted(next)
	a.grid.SetRows(a.view)
	a.applySummary()
	key := ""
	if change.Column != nil {
		key = change.Column.Key
	}
	a.log.Debug("%d rows changed in %q", len(change.Indexes), key)
}

func (a *App) onSelectedRowsChange(s rowselect.Set) {
	a.grid.SetSelectedRows(s)
	a.status.SetSelectedRows(s.Len())
}

func (a *App) onSortColumnsChange(cols []sorting.Column) {
	a.grid.SetSortColumns(cols)
	a.view = a.sorted(a.rows)
	a.grid.SetRows(a.view)

	keys := make([]statusline.SortKey, 0, len(cols))
	for _, c := range cols {
		name := c.ColumnKey
		if col, ok := a.grid.Layout().ByKey(c.ColumnKey); ok && col.Name != "" {
			name = col.Name
		}
		keys = append(keys, statusline.SortKey{Name: name, Descending: c.Direction == sorting.Descending})
	}
	a.status.SetSort(keys)
}

// sorted returns rows in the active sort order. Raw field values are
// compared, not their formatted text.
func (a *App) sorted(rows []any) []any {
	return sorting.Apply(rows, a.grid.SortColumns(), nil)
}
