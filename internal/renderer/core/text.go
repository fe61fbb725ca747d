package core

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// StringWidth returns the display width of s in cells.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending it with Ellipsis when
// anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Fit truncates s and pads it to exactly width cells. With alignRight the
// padding goes on the left.
func Fit(s string, width int, alignRight bool) string {
	s = Truncate(s, width)
	if alignRight {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

// CellsFromString converts s into cells, one per grapheme cluster followed
// by continuation cells for wide clusters.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		c := Cell{Rune: runes[0], Width: w, Style: style}
		if len(runes) > 1 {
			c.Combining = runes[1:]
		}
		cells = append(cells, c)
		for i := 1; i < w; i++ {
			cells = append(cells, Cell{Style: style})
		}
	}
	return cells
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.IsContinuation() {
			continue
		}
		runes = append(runes, c.Rune)
		runes = append(runes, c.Combining...)
	}
	return string(runes)
}
