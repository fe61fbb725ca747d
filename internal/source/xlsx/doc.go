// Package xlsx reads a worksheet into grid columns and rows.
//
// The first sheet row may name the columns. Custom sheet column widths
// become fixed column widths in terminal cells. Horizontally merged cells
// become column spans; the covered cells are left empty. Vertical extents of
// merges are ignored.
package xlsx
