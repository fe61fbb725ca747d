package viewport

// Rect is a cell rectangle in content coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Padding is the part of the client area hidden behind sticky content.
// Left is the width of the frozen columns when revealing a scrollable
// column.
type Padding struct {
	Left int
}

// RevealAxis selects which axes Reveal may scroll.
type RevealAxis uint8

const (
	RevealHorizontal RevealAxis = 1 << iota
	RevealVertical
	RevealBoth = RevealHorizontal | RevealVertical
)

// Reveal scrolls minimally so that r is fully visible and reports whether
// the scroll position changed. A rectangle larger than the client area is
// aligned to its leading edge.
func (v *Viewport) Reveal(r Rect, pad Padding, axes RevealAxis) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top, left := v.scrollTop, v.scrollLeft

	if axes&RevealVertical != 0 {
		top = nearest(v.scrollTop, v.clientHeight(), 0, r.Top, r.Height)
	}
	if axes&RevealHorizontal != 0 {
		left = nearest(v.scrollLeft, v.width, pad.Left, r.Left, r.Width)
	}

	oldTop, oldLeft := v.scrollTop, v.scrollLeft
	v.scrollTop, v.scrollLeft = top, left
	v.clamp()
	return v.scrollTop != oldTop || v.scrollLeft != oldLeft
}

// nearest returns the scroll offset that brings [start, start+size) into
// the visible span [scroll+padStart, scroll+client).
func nearest(scroll, client, padStart, start, size int) int {
	visible := client - padStart
	switch {
	case start < scroll+padStart:
		return start - padStart
	case size > visible:
		return start - padStart
	case start+size > scroll+client:
		return start + size - client
	default:
		return scroll
	}
}
