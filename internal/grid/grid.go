package grid

import (
	"github.com/google/uuid"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/deferred"
	"github.com/dshills/gridstorm/internal/grid/resize"
	"github.com/dshills/gridstorm/internal/grid/rows"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/grid/viewport"
)

// CopiedCell is the source of a pending paste.
type CopiedCell struct {
	Row       any
	ColumnKey string
}

type fillState struct {
	dragging bool
	over     int
	hasOver  bool
}

// hooks let TreeGrid reinterpret rows without forking the grid.
type hooks struct {
	tree         bool
	renderKey    func(i int, row any) any
	selectionKey func(row any) any
	mapSelected  func(next rowselect.Set) rowselect.Set
	groupCell    func(c *Cell, row any, rowIdx int) (any, bool)
}

// Grid is one data grid instance.
type Grid struct {
	id  string
	cfg config

	defs         []column.Def
	rows         []any
	top          []any
	bottom       []any
	selectedRows rowselect.Set
	sortColumns  []sorting.Column

	defsRev uint64
	rowsRev uint64

	tables  *resize.Tables
	vp      *viewport.Viewport
	nav     *selection.Navigator
	resizer *resize.Controller
	track   *resize.TrackLayout
	tracker *rowselect.Tracker
	sched   *deferred.Scheduler

	copied   *CopiedCell
	fill     fillState
	outside  deferred.Handle
	lastPlan resize.Plan
	hooks    hooks

	normRev    uint64
	norm       column.Normalized
	hasNorm    bool
	layoutKey  [2]uint64
	layout     *column.Layout
	metricsRev uint64
	metrics    rows.Metrics
	minRowIdx  int
}

// New creates a grid with a viewport of width by height units.
func New(width, height int, opts ...Option) *Grid {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.resolveHeights()

	g := &Grid{
		id:           uuid.New().String(),
		cfg:          cfg,
		selectedRows: rowselect.NewSet(),
		tables:       resize.NewTables(),
		vp:           viewport.NewViewport(width, height),
		tracker:      rowselect.NewTracker(),
		sched:        deferred.NewScheduler(),
		rowsRev:      1,
		defsRev:      1,
		minRowIdx:    -1,
	}
	g.nav = selection.NewNavigator(-1, g.updateRow)

	surface, measurer := cfg.surface, cfg.measurer
	if surface == nil || measurer == nil {
		g.track = resize.NewTrackLayout()
		surface, measurer = g.track, g.track
	}
	g.resizer = resize.NewController(surface, measurer, g.tables,
		resize.WithOnColumnResize(func(idx, width int) {
			if fn := g.cfg.callbacks.OnColumnResize; fn != nil {
				fn(idx, width)
			}
		}),
		resize.WithEdgeWidth(cfg.edge))
	g.sync()
	return g
}

// ID returns the grid's unique instance id.
func (g *Grid) ID() string {
	return g.id
}

// SetCallbacks replaces the change handlers.
func (g *Grid) SetCallbacks(cb Callbacks) {
	g.cfg.callbacks = cb
}

// Callbacks returns the current change handlers.
func (g *Grid) Callbacks() Callbacks {
	return g.cfg.callbacks
}

// SetColumns replaces the column definitions.
func (g *Grid) SetColumns(defs []column.Def) {
	g.defs = defs
	g.defsRev++
	g.sync()
}

// SetRows replaces the rows. The shift-range anchor is forgotten.
func (g *Grid) SetRows(rows []any) {
	g.rows = rows
	g.rowsRev++
	g.tracker.Reset()
	g.sync()
}

// SetSummaryRows replaces the top and bottom summary rows.
func (g *Grid) SetSummaryRows(top, bottom []any) {
	g.top = top
	g.bottom = bottom
	g.sync()
}

// SetSelectedRows replaces the selected row keys.
func (g *Grid) SetSelectedRows(s rowselect.Set) {
	g.selectedRows = s
}

// SetSortColumns replaces the sort order.
func (g *Grid) SetSortColumns(cols []sorting.Column) {
	g.sortColumns = cols
}

// SetRowHeight switches to a fixed row height.
func (g *Grid) SetRowHeight(h int) {
	WithRowHeight(h)(&g.cfg)
	g.rowsRev++
	g.sync()
}

// SetRowHeightFunc switches to per-row heights.
func (g *Grid) SetRowHeightFunc(fn func(row any) int) {
	g.cfg.rowHeightFunc = fn
	g.rowsRev++
	g.sync()
}

// Rows returns the current rows.
func (g *Grid) Rows() []any {
	return g.rows
}

// SelectedRows returns the selected row keys.
func (g *Grid) SelectedRows() rowselect.Set {
	return g.selectedRows
}

// SortColumns returns the sort order.
func (g *Grid) SortColumns() []sorting.Column {
	return g.sortColumns
}

// Resize sets the size of the grid element.
func (g *Grid) Resize(width, height int) {
	g.vp.Resize(width, height)
	g.sync()
}

// Scroll sets the scroll position and reports it to OnScroll.
func (g *Grid) Scroll(top, left int) bool {
	g.sync()
	if !g.vp.SetScroll(top, left) {
		return false
	}
	g.emitScroll()
	return true
}

// ScrollBy moves the scroll position by a delta.
func (g *Grid) ScrollBy(dTop, dLeft int) bool {
	g.sync()
	if !g.vp.ScrollBy(dTop, dLeft) {
		return false
	}
	g.emitScroll()
	return true
}

// Viewport returns the scroll state.
func (g *Grid) Viewport() viewport.State {
	return g.vp.Snapshot()
}

// Layout returns the current column layout.
func (g *Grid) Layout() *column.Layout {
	key := [2]uint64{g.defsRev, g.tables.Revision()}
	if g.layout != nil && g.layoutKey == key {
		return g.layout
	}
	if !g.hasNorm || g.normRev != g.defsRev {
		g.norm = column.Normalize(g.defs, g.cfg.defaults)
		g.normRev = g.defsRev
		g.hasNorm = true
	}
	resized, measured := g.tables.Widths()
	g.layout = column.Measure(g.norm, resized, measured)
	g.layoutKey = key
	return g.layout
}

// Metrics returns the current row metrics.
func (g *Grid) Metrics() rows.Metrics {
	if g.metrics != nil && g.metricsRev == g.rowsRev {
		return g.metrics
	}
	if fn := g.cfg.rowHeightFunc; fn != nil {
		data := g.rows
		g.metrics = rows.Variable(len(data), func(i int) int { return fn(data[i]) })
	} else {
		g.metrics = rows.Fixed(len(g.rows), g.cfg.rowHeight)
	}
	g.metricsRev = g.rowsRev
	return g.metrics
}

// Bounds returns the selection bounds.
func (g *Grid) Bounds() selection.Bounds {
	return selection.NewBounds(len(g.rows), len(g.top), len(g.bottom), g.Layout().Len(), g.hooks.tree)
}

// HeaderHeight returns the height of the header row.
func (g *Grid) HeaderHeight() int {
	return g.cfg.headerRowHeight
}

// SummaryRowHeight returns the height of a summary row.
func (g *Grid) SummaryRowHeight() int {
	return g.cfg.summaryRowHeight
}

func (g *Grid) context() *selection.Context {
	return &selection.Context{
		Bounds:        g.Bounds(),
		Layout:        g.Layout(),
		Rows:          g.rows,
		TopSummary:    g.top,
		BottomSummary: g.bottom,
		Metrics:       g.Metrics(),
		ClientHeight:  g.vp.ClientHeight(),
		RTL:           g.cfg.rtl,
	}
}

// sync pushes derived sizes into the viewport and drops a selection that
// no longer fits.
func (g *Grid) sync() {
	l := g.Layout()
	m := g.Metrics()
	stickyTop := g.cfg.headerRowHeight + len(g.top)*g.cfg.summaryRowHeight
	g.vp.SetSticky(stickyTop, len(g.bottom)*g.cfg.summaryRowHeight)
	g.vp.SetContentSize(l.TotalWidth, m.TotalHeight())
	b := g.Bounds()
	if b.MinRowIdx != g.minRowIdx {
		if p := g.nav.Position(); p == selection.Unselected(g.minRowIdx).Position {
			g.nav.Reset(b.MinRowIdx)
		}
		g.minRowIdx = b.MinRowIdx
	}
	if g.nav.Validate(b) {
		g.fill = fillState{}
	}
}

func (g *Grid) emitScroll() {
	if fn := g.cfg.callbacks.OnScroll; fn != nil {
		fn(g.vp.Snapshot())
	}
}

// report hands err to OnError. Without a handler the error is dropped.
func (g *Grid) report(err error) {
	if fn := g.cfg.callbacks.OnError; fn != nil {
		fn(err)
	}
}

// updateRow reports a single changed row.
func (g *Grid) updateRow(col *column.Column, rowIdx int, row any) {
	fn := g.cfg.callbacks.OnRowsChange
	if fn == nil || rowIdx < 0 || rowIdx >= len(g.rows) {
		return
	}
	if column.Same(row, g.rows[rowIdx]) {
		return
	}
	updated := make([]any, len(g.rows))
	copy(updated, g.rows)
	updated[rowIdx] = row
	fn(updated, RowsChange{Indexes: []int{rowIdx}, Column: col})
}

// RowKey returns the render key of the row at i.
func (g *Grid) RowKey(i int) any {
	var row any
	if i >= 0 && i < len(g.rows) {
		row = g.rows[i]
	}
	if g.hooks.renderKey != nil {
		return g.hooks.renderKey(i, row)
	}
	if g.cfg.rowKeyGetter != nil && row != nil {
		return g.cfg.rowKeyGetter(row)
	}
	return i
}

func (g *Grid) selectionKeyGetter() rowselect.KeyGetter {
	if g.hooks.selectionKey != nil {
		return g.hooks.selectionKey
	}
	if g.cfg.rowKeyGetter == nil {
		return nil
	}
	return g.cfg.rowKeyGetter
}

// IsRowSelected reports whether row is in the selected rows.
func (g *Grid) IsRowSelected(row any) bool {
	getter := g.selectionKeyGetter()
	if getter == nil || row == nil {
		return false
	}
	return g.selectedRows.Has(getter(row))
}

// SelectRow applies a row selection gesture.
func (g *Grid) SelectRow(args rowselect.Args) error {
	fn := g.cfg.callbacks.OnSelectedRowsChange
	if fn == nil {
		return ErrNotSelectable
	}
	next, err := g.tracker.Toggle(g.selectedRows, g.rows, g.selectionKeyGetter(), args)
	if err != nil {
		return err
	}
	if g.hooks.mapSelected != nil {
		next = g.hooks.mapSelected(next)
	}
	fn(next)
	return nil
}

// SelectAllRows checks or unchecks every row.
func (g *Grid) SelectAllRows(checked bool) error {
	return g.SelectRow(rowselect.Args{Header: true, Checked: checked})
}

// ToggleSort applies a header sort click on the column at idx.
func (g *Grid) ToggleSort(idx int, multi bool) error {
	col := g.Layout().Column(idx)
	if col == nil {
		return ErrUnknownColumn
	}
	fn := g.cfg.callbacks.OnSortColumnsChange
	if fn == nil || !col.Sortable {
		return nil
	}
	fn(sorting.Next(g.sortColumns, col, multi))
	return nil
}

// RunFrame runs callbacks deferred to the next frame.
func (g *Grid) RunFrame() int {
	return g.sched.RunFrame()
}

// Close cancels deferred work. The grid must not be used afterwards.
func (g *Grid) Close() {
	g.sched.CancelAll()
}
