package rowselect

import (
	"errors"
	"testing"
)

type item struct{ id int }

func items(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = &item{id: i}
	}
	return out
}

func byID(row any) any { return row.(*item).id }

func TestToggleRow(t *testing.T) {
	rows := items(5)
	tr := NewTracker()
	set, err := tr.Toggle(NewSet(), rows, byID, Args{Row: rows[1], Checked: true})
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !set.Has(1) || set.Len() != 1 {
		t.Errorf("set = %v, want {1}", set.Keys())
	}
	if tr.Anchor() != 1 {
		t.Errorf("Anchor() = %d, want 1", tr.Anchor())
	}
	unset, _ := tr.Toggle(set, rows, byID, Args{Row: rows[1]})
	if unset.Has(1) {
		t.Error("unchecking should remove the key")
	}
	if !set.Has(1) {
		t.Error("Toggle mutated the previous set")
	}
	if tr.Anchor() != -1 {
		t.Errorf("Anchor() after uncheck = %d, want -1", tr.Anchor())
	}
}

func TestToggleShiftRange(t *testing.T) {
	rows := items(6)
	tr := NewTracker()
	set, _ := tr.Toggle(NewSet(), rows, byID, Args{Row: rows[4], Checked: true})
	set, _ = tr.Toggle(set, rows, byID, Args{Row: rows[1], Checked: true, ShiftClick: true})
	for _, k := range []int{1, 2, 3, 4} {
		if !set.Has(k) {
			t.Errorf("expected key %d selected", k)
		}
	}
	if set.Has(0) || set.Has(5) {
		t.Errorf("range overflowed: %v", set.Keys())
	}
}

func TestToggleHeader(t *testing.T) {
	rows := items(3)
	tr := NewTracker()
	set, _ := tr.Toggle(NewSet(99), rows, byID, Args{Header: true, Checked: true})
	if set.Len() != 4 || !AllSelected(set, rows, byID) {
		t.Errorf("select all = %v", set.Keys())
	}
	set, _ = tr.Toggle(set, rows, byID, Args{Header: true})
	if set.Len() != 1 || !set.Has(99) {
		t.Errorf("deselect all = %v, want {99}", set.Keys())
	}
	if AnySelected(set, rows, byID) {
		t.Error("AnySelected() = true, want false")
	}
}

func TestMissingGetter(t *testing.T) {
	rows := items(2)
	_, err := NewTracker().Toggle(NewSet(), rows, nil, Args{Row: rows[0], Checked: true})
	if !errors.Is(err, ErrMissingRowKeyGetter) {
		t.Errorf("err = %v, want ErrMissingRowKeyGetter", err)
	}
	if AllSelected(NewSet(), rows, nil) {
		t.Error("AllSelected without getter should be false")
	}
}

func reversed(rows []any) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out
}

func TestShiftRangeAfterRowsChange(t *testing.T) {
	tests := []struct {
		name   string
		rows   int
		anchor int
		change func([]any) []any
		reset  bool
		click  int
		want   []int
	}{
		{
			name: "shrink below anchor", rows: 10, anchor: 9,
			change: func([]any) []any { return items(5) },
			click:  2, want: []int{2, 9},
		},
		{
			name: "shrink to anchor", rows: 6, anchor: 5,
			change: func(r []any) []any { return r[:5] },
			click:  1, want: []int{1, 5},
		},
		{
			name: "emptied", rows: 4, anchor: 3,
			change: func([]any) []any { return nil },
			click:  -1, want: []int{3},
		},
		{
			name: "reorder with reset", rows: 6, anchor: 1,
			change: reversed, reset: true,
			click:  3, want: []int{1, 2},
		},
		{
			name: "shrink with reset", rows: 8, anchor: 2,
			change: func(r []any) []any { return r[:4] }, reset: true,
			click:  0, want: []int{0, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := items(tt.rows)
			tr := NewTracker()
			set, _ := tr.Toggle(NewSet(), rows, byID, Args{Row: rows[tt.anchor], Checked: true})

			next := tt.change(rows)
			if tt.reset {
				tr.Reset()
			}
			var row any = &item{id: -1}
			if tt.click >= 0 {
				row = next[tt.click]
			}
			set, err := tr.Toggle(set, next, byID, Args{Row: row, Checked: true, ShiftClick: true})
			if err != nil {
				t.Fatalf("Toggle: %v", err)
			}
			if tt.click < 0 {
				set = set.Without(-1)
			}
			if set.Len() != len(tt.want) {
				t.Errorf("set = %v, want %v", set.Keys(), tt.want)
			}
			for _, k := range tt.want {
				if !set.Has(k) {
					t.Errorf("key %d not selected; set = %v", k, set.Keys())
				}
			}
			if tt.click >= 0 && tr.Anchor() != tt.click {
				t.Errorf("Anchor() = %d, want %d", tr.Anchor(), tt.click)
			}
		})
	}
}
