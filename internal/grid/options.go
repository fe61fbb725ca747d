package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/resize"
)

// Default heights, in units.
const (
	DefaultRowHeight = 35
)

// Option configures a Grid.
type Option func(*config)

type config struct {
	callbacks Callbacks

	rowKeyGetter     func(row any) any
	rowHeight        int
	rowHeightFunc    func(row any) int
	headerRowHeight  int
	summaryRowHeight int
	defaults         column.Defaults
	virtualize       bool
	rtl              bool

	surface  resize.Surface
	measurer resize.Measurer
	text     *resize.TextMeasurer
	edge     int
}

func defaultConfig() config {
	return config{
		rowHeight:  DefaultRowHeight,
		virtualize: true,
		text:       resize.NewTextMeasurer(false, 2),
		edge:       resize.DefaultEdgeWidth,
	}
}

// WithCallbacks sets the change handlers.
func WithCallbacks(cb Callbacks) Option {
	return func(c *config) {
		c.callbacks = cb
	}
}

// WithRowKeyGetter sets the function returning a row's stable key. It is
// required for row selection.
func WithRowKeyGetter(fn func(row any) any) Option {
	return func(c *config) {
		c.rowKeyGetter = fn
	}
}

// WithRowHeight sets a fixed data row height.
func WithRowHeight(h int) Option {
	return func(c *config) {
		if h > 0 {
			c.rowHeight = h
			c.rowHeightFunc = nil
		}
	}
}

// WithRowHeightFunc sets a per-row height.
func WithRowHeightFunc(fn func(row any) int) Option {
	return func(c *config) {
		c.rowHeightFunc = fn
	}
}

// WithHeaderRowHeight sets the header row height. It defaults to the fixed
// row height.
func WithHeaderRowHeight(h int) Option {
	return func(c *config) {
		if h > 0 {
			c.headerRowHeight = h
		}
	}
}

// WithSummaryRowHeight sets the summary row height. It defaults to the
// fixed row height.
func WithSummaryRowHeight(h int) Option {
	return func(c *config) {
		if h > 0 {
			c.summaryRowHeight = h
		}
	}
}

// WithDefaultColumnOptions sets fallbacks for every column.
func WithDefaultColumnOptions(d column.Defaults) Option {
	return func(c *config) {
		c.defaults = d
	}
}

// WithVirtualization enables or disables windowing.
func WithVirtualization(on bool) Option {
	return func(c *config) {
		c.virtualize = on
	}
}

// WithRTL lays the grid out right to left.
func WithRTL(on bool) Option {
	return func(c *config) {
		c.rtl = on
	}
}

// WithSurface installs the host's layout surface and measurer. Without
// one the grid lays tracks out itself from measured cell text.
func WithSurface(s resize.Surface, m resize.Measurer) Option {
	return func(c *config) {
		c.surface = s
		c.measurer = m
	}
}

// WithTextMeasurer replaces the measurer used by the built-in surface.
func WithTextMeasurer(m *resize.TextMeasurer) Option {
	return func(c *config) {
		if m != nil {
			c.text = m
		}
	}
}

// WithResizeEdge sets how close to a header cell's trailing edge a pointer
// must be to start a resize.
func WithResizeEdge(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.edge = n
		}
	}
}

func (c *config) resolveHeights() {
	base := c.rowHeight
	if c.rowHeightFunc != nil {
		base = DefaultRowHeight
	}
	if c.headerRowHeight == 0 {
		c.headerRowHeight = base
	}
	if c.summaryRowHeight == 0 {
		c.summaryRowHeight = base
	}
}
