package selection

import "github.com/dshills/gridstorm/internal/input/key"

// NavigationMode controls what happens at row boundaries.
type NavigationMode uint8

const (
	// NavigateNone stops at the row edges.
	NavigateNone NavigationMode = iota
	// NavigateChangeRow wraps to the adjacent row.
	NavigateChangeRow
)

// NextPosition maps a navigation key to the raw next position of current.
// Unknown keys return current unchanged.
func NextPosition(ctx *Context, current Position, ev key.Event) Position {
	idx, rowIdx := current.Idx, current.RowIdx
	ctrl := ev.IsCtrlHeld()
	rowSelected := ctx.InSelection(current) && idx == -1

	left, right := key.KeyLeft, key.KeyRight
	if ctx.RTL {
		left, right = right, left
	}

	switch ev.Key {
	case key.KeyUp:
		return Position{Idx: idx, RowIdx: rowIdx - 1}
	case key.KeyDown:
		return Position{Idx: idx, RowIdx: rowIdx + 1}
	case left:
		return Position{Idx: idx - 1, RowIdx: rowIdx}
	case right:
		return Position{Idx: idx + 1, RowIdx: rowIdx}
	case key.KeyTab:
		if ev.HasShift() {
			return Position{Idx: idx - 1, RowIdx: rowIdx}
		}
		return Position{Idx: idx + 1, RowIdx: rowIdx}
	case key.KeyHome:
		if rowSelected {
			return Position{Idx: idx, RowIdx: ctx.MinRowIdx}
		}
		if ctrl {
			return Position{Idx: 0, RowIdx: ctx.MinRowIdx}
		}
		return Position{Idx: 0, RowIdx: rowIdx}
	case key.KeyEnd:
		if rowSelected {
			return Position{Idx: idx, RowIdx: ctx.MaxRowIdx}
		}
		if ctrl {
			return Position{Idx: ctx.MaxColIdx, RowIdx: ctx.MaxRowIdx}
		}
		return Position{Idx: ctx.MaxColIdx, RowIdx: rowIdx}
	case key.KeyPageUp:
		if rowIdx == ctx.MinRowIdx {
			return current
		}
		y := ctx.Metrics.Top(rowIdx) + ctx.Metrics.Height(rowIdx) - ctx.ClientHeight
		if y > 0 {
			return Position{Idx: idx, RowIdx: ctx.Metrics.FindIndex(y)}
		}
		return Position{Idx: idx, RowIdx: 0}
	case key.KeyPageDown:
		if rowIdx >= ctx.RowCount {
			return current
		}
		y := ctx.Metrics.Top(rowIdx) + ctx.ClientHeight
		if y < ctx.Metrics.TotalHeight() {
			return Position{Idx: idx, RowIdx: ctx.Metrics.FindIndex(y)}
		}
		return Position{Idx: idx, RowIdx: ctx.RowCount - 1}
	}
	return current
}

// AdjustForSpan lands next on whole spanned cells and applies row wrapping.
// Moving into the inside of a spanning cell snaps to its anchor column, or
// past its far edge when moving forward.
func AdjustForSpan(ctx *Context, mode NavigationMode, current, next Position) Position {
	idx, rowIdx := next.Idx, next.RowIdx

	snap := func(forward bool) {
		for _, col := range ctx.Layout.SpanColumns {
			if col.Idx > idx {
				break
			}
			span := ctx.SpanAt(col, rowIdx)
			if span != 0 && idx > col.Idx && idx < col.Idx+span {
				idx = col.Idx
				if forward {
					idx += span
				}
				break
			}
		}
	}

	if ctx.InSelection(next) {
		snap(idx-current.Idx > 0)
	}

	if mode == NavigateChangeRow {
		count := ctx.Layout.Len()
		switch idx {
		case count:
			if rowIdx != ctx.MaxRowIdx {
				idx = 0
				rowIdx++
			}
		case -1:
			if rowIdx != ctx.MinRowIdx {
				rowIdx--
				idx = count - 1
			}
			snap(false)
		}
	}
	return Position{Idx: idx, RowIdx: rowIdx}
}

// CanExitGrid reports whether Tab (or Shift+Tab) at p leaves the grid
// instead of wrapping.
func CanExitGrid(b Bounds, p Position, shift bool) bool {
	if shift {
		return p.Idx == 0 && p.RowIdx == b.MinRowIdx
	}
	return p.Idx == b.MaxColIdx && p.RowIdx == b.MaxRowIdx
}
