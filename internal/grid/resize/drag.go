package resize

import "github.com/dshills/gridstorm/internal/grid/column"

// Drag is an active pointer resize of one column.
type Drag struct {
	Column *column.Column
	offset int
	rtl    bool
}

// HitEdge reports whether pointerX is within edge units of the trailing
// edge of a header cell spanning [left, right). The returned offset is the
// distance between the pointer and that edge.
func HitEdge(left, right, pointerX, edge int, rtl bool) (int, bool) {
	offset := right - pointerX
	if rtl {
		offset = pointerX - left
	}
	if offset < 0 || offset > edge {
		return 0, false
	}
	return offset, true
}

// BeginDrag starts a pointer resize when the pointer grabbed the resize
// handle of a resizable column.
func (c *Controller) BeginDrag(col *column.Column, left, right, pointerX int, rtl bool) (*Drag, bool) {
	if col == nil || !col.Resizable {
		return nil, false
	}
	offset, ok := HitEdge(left, right, pointerX, c.edge, rtl)
	if !ok {
		return nil, false
	}
	return &Drag{Column: col, offset: offset, rtl: rtl}, true
}

// Width converts a pointer position into a clamped column width for a
// header cell currently spanning [left, right). Non-positive widths are
// rejected.
func (d *Drag) Width(left, right, pointerX int) (int, bool) {
	width := pointerX + d.offset - left
	if d.rtl {
		width = right + d.offset - pointerX
	}
	if width <= 0 {
		return 0, false
	}
	return d.Column.Clamp(width), true
}

// CanFit reports whether a double click at pointerX should fit the column
// to its content.
func (c *Controller) CanFit(col *column.Column, left, right, pointerX int, rtl bool) bool {
	if col == nil || !col.Resizable {
		return false
	}
	_, ok := HitEdge(left, right, pointerX, c.edge, rtl)
	return ok
}
