package sorting

import (
	"reflect"
	"testing"

	"github.com/dshills/gridstorm/internal/grid/column"
)

func TestNextCycle(t *testing.T) {
	col := &column.Column{Key: "name"}
	var cols []Column

	cols = Next(cols, col, false)
	if !reflect.DeepEqual(cols, []Column{{"name", Ascending}}) {
		t.Fatalf("first click = %v", cols)
	}
	cols = Next(cols, col, false)
	if !reflect.DeepEqual(cols, []Column{{"name", Descending}}) {
		t.Fatalf("second click = %v", cols)
	}
	cols = Next(cols, col, false)
	if len(cols) != 0 {
		t.Fatalf("third click = %v, want empty", cols)
	}
}

func TestNextDescendingFirst(t *testing.T) {
	col := &column.Column{Key: "n", SortDescendingFirst: true}
	cols := Next(nil, col, false)
	if cols[0].Direction != Descending {
		t.Errorf("first direction = %s, want DESC", cols[0].Direction)
	}
	cols = Next(cols, col, false)
	if cols[0].Direction != Ascending {
		t.Errorf("second direction = %s, want ASC", cols[0].Direction)
	}
	if cols = Next(cols, col, false); len(cols) != 0 {
		t.Errorf("third click = %v, want empty", cols)
	}
}

func TestNextMulti(t *testing.T) {
	a := &column.Column{Key: "a"}
	b := &column.Column{Key: "b"}
	cols := []Column{{"a", Ascending}}

	cols = Next(cols, b, true)
	want := []Column{{"a", Ascending}, {"b", Ascending}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("append = %v, want %v", cols, want)
	}
	cols = Next(cols, a, true)
	want = []Column{{"a", Descending}, {"b", Ascending}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("edit in place = %v, want %v", cols, want)
	}
	cols = Next(cols, a, true)
	want = []Column{{"b", Ascending}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("remove = %v, want %v", cols, want)
	}
	cols = Next(cols, a, false)
	want = []Column{{"a", Ascending}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("plain click = %v, want %v", cols, want)
	}
}

func TestState(t *testing.T) {
	cols := []Column{{"a", Ascending}, {"b", Descending}}
	if d, p := State(cols, "b"); d != Descending || p != 2 {
		t.Errorf("State(b) = %s, %d; want DESC, 2", d, p)
	}
	if d, p := State(cols[:1], "a"); d != Ascending || p != 0 {
		t.Errorf("State(a) single = %s, %d; want ASC, 0", d, p)
	}
	if d, p := State(cols, "c"); d != "" || p != 0 {
		t.Errorf("State(c) = %q, %d; want empty", d, p)
	}
}

func TestApply(t *testing.T) {
	rows := []any{
		map[string]any{"name": "b", "n": 2},
		map[string]any{"name": "a", "n": 10},
		map[string]any{"name": "B", "n": 1},
	}
	sorted := Apply(rows, []Column{{"n", Descending}}, nil)
	var got []any
	for _, r := range sorted {
		got = append(got, r.(map[string]any)["n"])
	}
	if !reflect.DeepEqual(got, []any{10, 2, 1}) {
		t.Errorf("DESC by n = %v", got)
	}

	sorted = Apply(rows, []Column{{"name", Ascending}}, nil)
	got = nil
	for _, r := range sorted {
		got = append(got, r.(map[string]any)["n"])
	}
	if !reflect.DeepEqual(got, []any{10, 2, 1}) {
		t.Errorf("ASC by name (stable, case-insensitive) = %v", got)
	}
	if rows[0].(map[string]any)["name"] != "b" {
		t.Error("Apply mutated its input")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b any
		want int
	}{
		{1, 2, -1},
		{2.5, 2, 1},
		{"A", "a", 0},
		{nil, 1, -1},
		{1, nil, 1},
		{"10", "9", -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
