package resize

import (
	"sync"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// DefaultEdgeWidth is the distance from a header cell's trailing edge within
// which a pointer grabs the resize handle.
const DefaultEdgeWidth = 11

// Surface receives provisional grid templates.
type Surface interface {
	SetTemplateColumns(tracks []string)
}

// Measurer reads the rendered width of a column.
type Measurer interface {
	Measure(key string) (int, bool)
}

// Store owns the resized and measured width tables.
type Store interface {
	Widths() (resized, measured column.Widths)
	// CommitWidths replaces both tables in one update.
	CommitWidths(update func(resized, measured column.Widths) (column.Widths, column.Widths))
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnColumnResize sets the callback invoked after a committed resize.
func WithOnColumnResize(fn func(idx, width int)) Option {
	return func(c *Controller) {
		c.onResize = fn
	}
}

// WithEdgeWidth sets the width of the resize grab area.
func WithEdgeWidth(w int) Option {
	return func(c *Controller) {
		if w > 0 {
			c.edge = w
		}
	}
}

// Controller drives column resizing.
type Controller struct {
	mu sync.Mutex

	surface  Surface
	measurer Measurer
	store    Store
	onResize func(idx, width int)
	edge     int

	prevGridWidth int
	hasPrevWidth  bool
}

// NewController creates a controller.
func NewController(surface Surface, measurer Measurer, store Store, opts ...Option) *Controller {
	c := &Controller{
		surface:  surface,
		measurer: measurer,
		store:    store,
		edge:     DefaultEdgeWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Plan is the grid template for one frame and the columns that must be
// measured once it has been rendered.
type Plan struct {
	Tracks    []string
	ToMeasure []string
	GridWidth int
}

// Plan builds the template for the frame. Auto sized viewport columns that
// were never measured or resized render with their keyword track and are
// scheduled for measurement. When every column is in the viewport and the
// grid width changed, previously measured columns are measured again.
func (c *Controller) Plan(l *column.Layout, viewportColumns []*column.Column, gridWidth int) Plan {
	c.mu.Lock()
	widthChanged := c.hasPrevWidth && gridWidth != c.prevGridWidth
	c.mu.Unlock()

	resized, measured := c.store.Widths()
	canFlex := l.Len() == len(viewportColumns)
	ignoreMeasured := canFlex && widthChanged

	p := Plan{Tracks: append([]string(nil), l.Templates...), GridWidth: gridWidth}
	for _, col := range viewportColumns {
		if col.Width.IsNumeric() || resized.Has(col.Key) {
			continue
		}
		if ignoreMeasured || !measured.Has(col.Key) {
			p.Tracks[col.Idx] = col.Width.Template()
			p.ToMeasure = append(p.ToMeasure, col.Key)
		}
	}
	return p
}

// AfterPaint runs the measurement pass for a rendered plan.
// It reports whether the measured table changed.
func (c *Controller) AfterPaint(p Plan) bool {
	c.mu.Lock()
	c.prevGridWidth = p.GridWidth
	c.hasPrevWidth = true
	c.mu.Unlock()

	if len(p.ToMeasure) == 0 {
		return false
	}
	changed := false
	c.store.CommitWidths(func(resized, measured column.Widths) (column.Widths, column.Widths) {
		next, ok := c.measure(measured, p.ToMeasure)
		changed = ok
		return resized, next
	})
	return changed
}

// measure returns measured updated with fresh readings for keys.
func (c *Controller) measure(measured column.Widths, keys []string) (column.Widths, bool) {
	if len(keys) == 0 {
		return measured, false
	}
	next := make(column.Widths, len(measured)+len(keys))
	for k, v := range measured {
		next[k] = v
	}
	changed := false
	for _, key := range keys {
		w, ok := c.measurer.Measure(key)
		old, had := measured[key]
		if ok != had || (ok && w != old) {
			changed = true
		}
		if ok {
			next[key] = w
		} else {
			delete(next, key)
		}
	}
	if !changed {
		return measured, false
	}
	return next, true
}

// Resize sets the width of col. A numeric width is applied as is; a
// max-content width fits the column to its content. Other flexible columns
// in the viewport are measured again in the same commit. Resizing a
// non-resizable column is a no-op. It reports whether a width was committed.
func (c *Controller) Resize(l *column.Layout, viewportColumns []*column.Column, col *column.Column, next column.Width) bool {
	if col == nil || !col.Resizable || !next.IsSet() {
		return false
	}
	resized, _ := c.store.Widths()
	canFlex := l.Len() == len(viewportColumns)

	tracks := append([]string(nil), l.Templates...)
	var toMeasure []string
	for _, vc := range viewportColumns {
		switch {
		case vc.Key == col.Key:
			tracks[vc.Idx] = next.Template()
		case canFlex && !vc.Width.IsNumeric() && !resized.Has(vc.Key):
			tracks[vc.Idx] = vc.Width.Template()
			toMeasure = append(toMeasure, vc.Key)
		}
	}
	c.surface.SetTemplateColumns(tracks)

	width := next.Px
	if !next.IsNumeric() {
		w, ok := c.measurer.Measure(col.Key)
		if !ok {
			c.surface.SetTemplateColumns(l.Templates)
			return false
		}
		width = w
	}

	c.store.CommitWidths(func(resized, measured column.Widths) (column.Widths, column.Widths) {
		m, _ := c.measure(measured, toMeasure)
		return resized.With(col.Key, width), m
	})
	if c.onResize != nil {
		c.onResize(col.Idx, width)
	}
	return true
}

// Tables is an in-memory Store.
type Tables struct {
	mu       sync.RWMutex
	resized  column.Widths
	measured column.Widths
	rev      uint64
}

// NewTables returns empty width tables.
func NewTables() *Tables {
	return &Tables{resized: column.Widths{}, measured: column.Widths{}}
}

// Widths returns the current tables. The maps must not be modified.
func (t *Tables) Widths() (resized, measured column.Widths) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resized, t.measured
}

// CommitWidths implements Store.
func (t *Tables) CommitWidths(update func(resized, measured column.Widths) (column.Widths, column.Widths)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, m := update(t.resized, t.measured)
	if r.Equal(t.resized) && m.Equal(t.measured) {
		return
	}
	t.resized, t.measured = r, m
	t.rev++
}

// Revision increments whenever either table changes.
func (t *Tables) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rev
}

// Reset clears both tables.
func (t *Tables) Reset() {
	t.CommitWidths(func(column.Widths, column.Widths) (column.Widths, column.Widths) {
		return column.Widths{}, column.Widths{}
	})
}
