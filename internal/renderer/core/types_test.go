package core

import "testing"

func TestStyleMerge(t *testing.T) {
	base := DefaultStyle().WithForeground(ColorWhite)
	got := base.Merge(DefaultStyle().WithBackground(ColorBlue).Bold())

	if got.Foreground != ColorWhite {
		t.Errorf("Foreground = %v, want %v", got.Foreground, ColorWhite)
	}
	if got.Background != ColorBlue {
		t.Errorf("Background = %v, want %v", got.Background, ColorBlue)
	}
	if !got.Attributes.Has(AttrBold) {
		t.Error("Merge should keep bold")
	}
}

func TestRect(t *testing.T) {
	r := RectFromSize(1, 2, 3, 4)
	if r.Width() != 4 || r.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", r.Width(), r.Height())
	}
	if !r.Contains(2, 1) || r.Contains(6, 1) || r.Contains(2, 4) {
		t.Error("Contains is wrong at the edges")
	}
	got := r.Intersection(RectFromSize(0, 4, 2, 10))
	if got != (ScreenRect{Top: 1, Left: 4, Bottom: 2, Right: 6}) {
		t.Errorf("Intersection = %+v", got)
	}
	if !r.Intersection(RectFromSize(10, 10, 1, 1)).IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
}

func TestTruncateAndFit(t *testing.T) {
	tests := []struct {
		s     string
		width int
		right bool
		want  string
	}{
		{"abc", 5, false, "abc  "},
		{"abc", 5, true, "  abc"},
		{"abcdef", 4, false, "abc…"},
		{"日本語", 4, false, "日… "},
		{"abc", 0, false, ""},
	}
	for _, tt := range tests {
		if got := Fit(tt.s, tt.width, tt.right); got != tt.want {
			t.Errorf("Fit(%q, %d, %v) = %q, want %q", tt.s, tt.width, tt.right, got, tt.want)
		}
	}
}

func TestCellsFromString(t *testing.T) {
	cells := CellsFromString("a日é", DefaultStyle())
	if len(cells) != 4 {
		t.Fatalf("len = %d, want 4", len(cells))
	}
	if cells[1].Width != 2 || !cells[2].IsContinuation() {
		t.Error("wide rune should be followed by a continuation cell")
	}
	if cells[3].Rune != 'e' || len(cells[3].Combining) != 1 {
		t.Errorf("cells[3] = %+v, want e with a combining accent", cells[3])
	}
	if got := StringFromCells(cells); got != "a日é" {
		t.Errorf("StringFromCells = %q", got)
	}
}
