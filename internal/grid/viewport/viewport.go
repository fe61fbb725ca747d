// Package viewport tracks the scroll state of the grid and computes the
// overscanned row and column windows that are handed to the renderer.
package viewport

import "sync"

// Viewport holds the scroll position, the client size of the scrollable
// area and the size of the content behind it.
//
// Offsets are in row space: ScrollTop 0 shows the first data row directly
// under the sticky header and top summary rows.
type Viewport struct {
	mu sync.RWMutex

	scrollTop  int
	scrollLeft int

	// Size of the whole grid surface.
	width  int
	height int

	// Height taken by sticky rows above and below the data rows.
	stickyTop    int
	stickyBottom int

	contentWidth  int
	contentHeight int
}

// NewViewport creates a viewport with the given surface size.
// Negative sizes are clamped to zero.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: max(width, 0), height: max(height, 0)}
}

// Width returns the surface width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the surface height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// ClientHeight returns the height available to data rows.
func (v *Viewport) ClientHeight() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.clientHeight()
}

func (v *Viewport) clientHeight() int {
	return max(v.height-v.stickyTop-v.stickyBottom, 0)
}

// Scroll returns both scroll coordinates.
func (v *Viewport) Scroll() (top, left int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollTop, v.scrollLeft
}

// ScrollTop returns the vertical scroll offset.
func (v *Viewport) ScrollTop() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollTop
}

// ScrollLeft returns the horizontal scroll offset.
func (v *Viewport) ScrollLeft() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollLeft
}

// Resize updates the surface size and re-clamps the scroll position.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 0)
	v.height = max(height, 0)
	v.clamp()
}

// SetSticky sets the heights of the sticky rows above and below the data.
func (v *Viewport) SetSticky(top, bottom int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stickyTop = max(top, 0)
	v.stickyBottom = max(bottom, 0)
	v.clamp()
}

// SetContentSize sets the total width of all columns and the total height
// of all data rows.
func (v *Viewport) SetContentSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.contentWidth = max(width, 0)
	v.contentHeight = max(height, 0)
	v.clamp()
}

// MaxScroll returns the largest valid scroll coordinates.
func (v *Viewport) MaxScroll() (top, left int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxScroll()
}

func (v *Viewport) maxScroll() (top, left int) {
	return max(v.contentHeight-v.clientHeight(), 0), max(v.contentWidth-v.width, 0)
}

func (v *Viewport) clamp() {
	maxTop, maxLeft := v.maxScroll()
	v.scrollTop = min(max(v.scrollTop, 0), maxTop)
	v.scrollLeft = min(max(v.scrollLeft, 0), maxLeft)
}

// SetScroll sets both scroll coordinates in one step and reports whether
// either changed. Readers never observe one coordinate without the other.
func (v *Viewport) SetScroll(top, left int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	oldTop, oldLeft := v.scrollTop, v.scrollLeft
	v.scrollTop, v.scrollLeft = top, left
	v.clamp()
	return v.scrollTop != oldTop || v.scrollLeft != oldLeft
}

// ScrollBy moves the scroll position by the given deltas.
func (v *Viewport) ScrollBy(dTop, dLeft int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	oldTop, oldLeft := v.scrollTop, v.scrollLeft
	v.scrollTop += dTop
	v.scrollLeft += dLeft
	v.clamp()
	return v.scrollTop != oldTop || v.scrollLeft != oldLeft
}

// State is a snapshot of the viewport.
type State struct {
	ScrollTop     int
	ScrollLeft    int
	Width         int
	Height        int
	ClientHeight  int
	ContentWidth  int
	ContentHeight int
}

// Snapshot returns a consistent copy of the viewport state.
func (v *Viewport) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return State{
		ScrollTop:     v.scrollTop,
		ScrollLeft:    v.scrollLeft,
		Width:         v.width,
		Height:        v.height,
		ClientHeight:  v.clientHeight(),
		ContentWidth:  v.contentWidth,
		ContentHeight: v.contentHeight,
	}
}
