// Package grid assembles the layout, windowing, resizing, selection and
// grouping engines into a controlled data grid instance.
//
// A Grid holds the host-supplied inputs (column definitions, rows, summary
// rows, selected rows, sort columns) and the grid-owned state (scroll
// position, resized and measured widths, selected cell, copied cell, fill
// drag). Setters replace inputs wholesale; derived state is recomputed on
// demand and memoized on input revisions. Changes the host owns are
// reported through callbacks and only take effect once the host passes the
// new value back.
//
// Frame resolves everything a painter needs for one render: the header,
// summary and data rows inside the overscanned window, the columns and
// spans of every row, and the selection, copy and fill flags of each cell.
//
// TreeGrid wraps a Grid with the grouping projector.
//
// A Grid is driven from the host's event goroutine. It is not safe for
// concurrent use; the engines it owns guard their own state.
package grid
