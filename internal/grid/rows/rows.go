// Package rows computes vertical row metrics for fixed and variable row
// heights.
package rows

import (
	"sort"
	"strconv"
	"strings"
)

// Metrics maps row indexes to vertical offsets and back.
type Metrics interface {
	// Count returns the number of rows.
	Count() int
	// Top returns the offset of the top edge of row i.
	Top(i int) int
	// Height returns the height of row i.
	Height(i int) int
	// FindIndex returns the row at offset.
	FindIndex(offset int) int
	// TotalHeight returns the sum of all row heights.
	TotalHeight() int
}

// HeightFunc returns the height of row i.
type HeightFunc func(i int) int

// Fixed returns metrics for count rows of the same height.
// FindIndex is plain division and is not clamped to the row range.
func Fixed(count, height int) Metrics {
	return fixed{count: count, height: height}
}

type fixed struct {
	count  int
	height int
}

func (f fixed) Count() int       { return f.count }
func (f fixed) Top(i int) int    { return i * f.height }
func (f fixed) Height(int) int   { return f.height }
func (f fixed) TotalHeight() int { return f.count * f.height }

func (f fixed) FindIndex(offset int) int {
	if f.height <= 0 {
		return 0
	}
	// Floor division for negative offsets.
	if offset < 0 {
		return -((-offset + f.height - 1) / f.height)
	}
	return offset / f.height
}

// Variable returns metrics for count rows whose heights come from height.
// The offset table is built once; callers rebuild on any change.
func Variable(count int, height HeightFunc) Metrics {
	v := &variable{tops: make([]int, count), heights: make([]int, count)}
	total := 0
	for i := 0; i < count; i++ {
		h := height(i)
		v.tops[i] = total
		v.heights[i] = h
		total += h
	}
	v.total = total
	return v
}

type variable struct {
	tops    []int
	heights []int
	total   int
}

func (v *variable) Count() int       { return len(v.tops) }
func (v *variable) TotalHeight() int { return v.total }

func (v *variable) clamp(i int) int {
	if i >= len(v.tops) {
		i = len(v.tops) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (v *variable) Top(i int) int {
	if len(v.tops) == 0 {
		return 0
	}
	return v.tops[v.clamp(i)]
}

func (v *variable) Height(i int) int {
	if len(v.heights) == 0 {
		return 0
	}
	return v.heights[v.clamp(i)]
}

// FindIndex returns the last row whose top is at or above offset, clamped
// to the row range.
func (v *variable) FindIndex(offset int) int {
	// First row whose top is past offset; the answer is the one before it.
	i := sort.Search(len(v.tops), func(i int) bool { return v.tops[i] > offset })
	return v.clamp(i - 1)
}

// Template renders the row tracks of m ("repeat(n, hpx)" for uniform rows).
func Template(m Metrics) string {
	if f, ok := m.(fixed); ok {
		return "repeat(" + strconv.Itoa(f.count) + ", " + strconv.Itoa(f.height) + "px)"
	}
	var b strings.Builder
	for i := 0; i < m.Count(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(m.Height(i)))
		b.WriteString("px")
	}
	return b.String()
}
