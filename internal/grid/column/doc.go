// Package column normalizes raw column definitions into the ordered,
// indexed column set the grid lays out.
//
// Compute is the layout engine: it orders columns (select column first,
// frozen columns next, everything else in input order), assigns contiguous
// indexes, resolves each column's width from the resized, measured and
// declared widths, and derives left offsets for every column plus the fixed
// offsets of the frozen prefix.
//
// Columns are plain data with optional behavior slots (see Behavior). A nil
// slot means "use the default"; there is no column type hierarchy.
package column
