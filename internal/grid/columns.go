package grid

import (
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/resize"
	"github.com/dshills/gridstorm/internal/grid/viewport"
)

// window computes the render window for the current scroll state.
func (g *Grid) window(l *column.Layout) viewport.Window {
	st := g.vp.Snapshot()
	return viewport.Compute(viewport.Args{
		Layout:        l,
		Metrics:       g.Metrics(),
		Rows:          g.rows,
		TopSummary:    g.top,
		BottomSummary: g.bottom,
		ScrollTop:     st.ScrollTop,
		ScrollLeft:    st.ScrollLeft,
		Width:         st.Width,
		ClientHeight:  st.ClientHeight,
		Virtualize:    g.cfg.virtualize,
	})
}

// Window returns the render window for the current scroll state.
func (g *Grid) Window() viewport.Window {
	return g.window(g.Layout())
}

// feedTracks hands the built-in surface the content widths of the rendered
// cells and the tracks to lay out.
func (g *Grid) feedTracks(l *column.Layout, win viewport.Window, tracks []string) {
	if g.track == nil {
		return
	}
	var visible []any
	if !win.Rows.Empty() {
		visible = g.rows[win.Rows.Start : win.Rows.End+1]
	}
	content := g.cfg.text.ContentWidths(win.ViewportColumns, visible)
	g.track.SetColumns(l.Columns, content, g.vp.Width())
	g.track.SetTemplateColumns(tracks)
}

// paintPlan writes the frame template and, with the built-in surface, runs
// the measurement pass right away. It returns the layout and window to
// render.
func (g *Grid) paintPlan() (*column.Layout, viewport.Window, resize.Plan) {
	l := g.Layout()
	win := g.window(l)
	width := g.vp.Width()
	plan := g.resizer.Plan(l, win.ViewportColumns, width)
	if g.track == nil {
		g.cfg.surface.SetTemplateColumns(plan.Tracks)
		g.lastPlan = plan
		return l, win, plan
	}
	g.feedTracks(l, win, plan.Tracks)
	if g.resizer.AfterPaint(plan) {
		g.sync()
		l = g.Layout()
		win = g.window(l)
		plan = g.resizer.Plan(l, win.ViewportColumns, width)
	}
	g.lastPlan = plan
	return l, win, plan
}

// AfterPaint runs the measurement pass for the last frame on a host
// surface. It reports whether any measured width changed.
func (g *Grid) AfterPaint() bool {
	if g.track != nil {
		return false
	}
	if !g.resizer.AfterPaint(g.lastPlan) {
		return false
	}
	g.sync()
	return true
}

// ResizeColumn sets the width of the column at idx. A max-content width
// fits the column to its rendered content. Non-resizable columns are left
// alone.
func (g *Grid) ResizeColumn(idx int, w column.Width) (bool, error) {
	l := g.Layout()
	col := l.Column(idx)
	if col == nil {
		return false, ErrUnknownColumn
	}
	win := g.window(l)
	g.feedTracks(l, win, l.Templates)
	if !g.resizer.Resize(l, win.ViewportColumns, col, w) {
		return false, nil
	}
	g.sync()
	return true, nil
}

// AutoSizeColumn fits the column at idx to its content.
func (g *Grid) AutoSizeColumn(idx int) (bool, error) {
	return g.ResizeColumn(idx, column.MaxContent())
}

// ResetColumnWidths forgets every resized and measured width.
func (g *Grid) ResetColumnWidths() {
	g.tables.Reset()
	g.sync()
}

// headerBounds returns the client-space extent of the header cell at idx.
func (g *Grid) headerBounds(l *column.Layout, idx int) (left, right int) {
	mt := l.Metric(idx)
	left = mt.Left
	if idx > l.LastFrozenIndex {
		left -= g.vp.ScrollLeft()
	}
	right = left + mt.Width
	if g.cfg.rtl {
		w := g.vp.Width()
		left, right = w-right, w-left
	}
	return left, right
}

// BeginColumnResize starts a pointer resize when pointerX grabs the
// trailing edge of the header cell at idx.
func (g *Grid) BeginColumnResize(idx, pointerX int) (*resize.Drag, bool) {
	l := g.Layout()
	left, right := g.headerBounds(l, idx)
	return g.resizer.BeginDrag(l.Column(idx), left, right, pointerX, g.cfg.rtl)
}

// DragColumnResize applies a pointer move of an active resize.
func (g *Grid) DragColumnResize(d *resize.Drag, pointerX int) bool {
	if d == nil {
		return false
	}
	l := g.Layout()
	col, ok := l.ByKey(d.Column.Key)
	if !ok {
		return false
	}
	left, right := g.headerBounds(l, col.Idx)
	width, ok := d.Width(left, right, pointerX)
	if !ok {
		return false
	}
	resized, _ := g.ResizeColumn(col.Idx, column.Px(width))
	return resized
}

// HeaderDoubleClick fits the column to its content when the double click
// lands on its resize edge.
func (g *Grid) HeaderDoubleClick(idx, pointerX int) bool {
	l := g.Layout()
	left, right := g.headerBounds(l, idx)
	if !g.resizer.CanFit(l.Column(idx), left, right, pointerX, g.cfg.rtl) {
		return false
	}
	resized, _ := g.AutoSizeColumn(idx)
	return resized
}
