package grid

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/rowselect"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/grid/viewport"
	"github.com/dshills/gridstorm/internal/input/key"
)

type rec = map[string]any

func editor(column.EditProps) any { return "editor" }

func testDefs() []column.Def {
	return []column.Def{
		{Key: "id", Name: "ID", Width: column.Px(4), Frozen: true},
		{
			Key: "name", Name: "Name", Width: column.Px(10),
			Resizable: column.Ptr(true), Sortable: column.Ptr(true),
			Behavior: column.Behavior{RenderEditCell: editor},
		},
		{Key: "city", Name: "City", Width: column.Px(10), Behavior: column.Behavior{RenderEditCell: editor}},
	}
}

func testRows(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = rec{"id": i, "name": fmt.Sprintf("n%d", i), "city": "c"}
	}
	return out
}

func clone(r any) rec {
	out := rec{}
	for k, v := range r.(rec) {
		out[k] = v
	}
	return out
}

func newTestGrid(n int, opts ...Option) *Grid {
	base := []Option{
		WithRowHeight(1),
		WithDefaultColumnOptions(column.Defaults{MinWidth: column.Ptr(1)}),
	}
	g := New(30, 12, append(base, opts...)...)
	g.SetColumns(testDefs())
	g.SetRows(testRows(n))
	return g
}

func pos(idx, rowIdx int) selection.Position {
	return selection.Position{Idx: idx, RowIdx: rowIdx}
}

func TestFrame(t *testing.T) {
	g := newTestGrid(100)
	f := g.Frame()

	if f.GridID == "" || f.GridID != g.ID() {
		t.Errorf("GridID = %q, want %q", f.GridID, g.ID())
	}
	if len(f.Rows) != 16 {
		t.Fatalf("rendered rows = %d, want 16", len(f.Rows))
	}
	if f.Rows[0].Top != 1 {
		t.Errorf("first row top = %d, want 1", f.Rows[0].Top)
	}
	if len(f.Header.Cells) != 3 {
		t.Fatalf("header cells = %d, want 3", len(f.Header.Cells))
	}
	if f.Header.Cells[1].Content != "Name" {
		t.Errorf("header content = %v, want Name", f.Header.Cells[1].Content)
	}
	want := []string{"4px", "10px", "10px"}
	if !reflect.DeepEqual(f.Templates, want) {
		t.Errorf("Templates = %v, want %v", f.Templates, want)
	}
	c := f.Rows[3].Cells[1]
	if c.Content != "n3" || c.Left != 4 || c.Width != 10 {
		t.Errorf("cell = %+v, want n3 at 4 width 10", c)
	}
	if f.RowCount != 101 {
		t.Errorf("RowCount = %d, want 101", f.RowCount)
	}
}

func TestFrameColSpan(t *testing.T) {
	g := newTestGrid(3)
	defs := testDefs()
	defs[1].ColSpan = func(ctx column.CellContext) int {
		if ctx.Kind == column.CellRow && ctx.Row.(rec)["id"] == 1 {
			return 2
		}
		return 1
	}
	g.SetColumns(defs)
	f := g.Frame()
	row := f.Rows[1]
	if len(row.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(row.Cells))
	}
	if row.Cells[1].ColSpan != 2 || row.Cells[1].Width != 20 {
		t.Errorf("span cell = %+v, want span 2 width 20", row.Cells[1])
	}
	if n := len(f.Rows[0].Cells); n != 3 {
		t.Errorf("unspanned row cells = %d, want 3", n)
	}
}

func TestCopyPaste(t *testing.T) {
	var got RowsChange
	var gotRows []any
	g := newTestGrid(5, WithCallbacks(Callbacks{
		OnRowsChange: func(rows []any, ch RowsChange) { gotRows, got = rows, ch },
		OnPaste: func(e PasteEvent) any {
			r := clone(e.TargetRow)
			r[e.TargetColumnKey] = e.SourceRow.(rec)[e.SourceColumnKey]
			return r
		},
	}))

	g.SelectCell(pos(1, 0), false)
	if !g.HandleKey(key.MustParse("Ctrl+C")) {
		t.Fatal("Ctrl+C not handled")
	}
	if cc := g.CopiedCell(); cc == nil || cc.ColumnKey != "name" {
		t.Fatalf("CopiedCell() = %+v, want name", cc)
	}
	g.SelectCell(pos(1, 2), false)
	g.HandleKey(key.MustParse("Ctrl+V"))

	if !reflect.DeepEqual(got.Indexes, []int{2}) {
		t.Fatalf("Indexes = %v, want [2]", got.Indexes)
	}
	if got.Column == nil || got.Column.Key != "name" {
		t.Errorf("Column = %v, want name", got.Column)
	}
	if v := gotRows[2].(rec)["name"]; v != "n0" {
		t.Errorf("pasted value = %v, want n0", v)
	}
	if !column.Same(gotRows[1], g.Rows()[1]) {
		t.Error("untouched rows should be carried over as is")
	}
}

func TestPasteRequiresCopyAndEditable(t *testing.T) {
	calls := 0
	g := newTestGrid(5, WithCallbacks(Callbacks{
		OnRowsChange: func([]any, RowsChange) { calls++ },
		OnPaste:      func(e PasteEvent) any { return clone(e.TargetRow) },
	}))
	g.SelectCell(pos(1, 1), false)
	if g.Paste() {
		t.Error("Paste() without copy = true, want false")
	}
	g.Copy()
	g.SelectCell(pos(0, 2), false)
	if g.Paste() {
		t.Error("Paste() onto non-editable cell = true, want false")
	}
	g.HandleKey(key.MustParse("Escape"))
	if g.CopiedCell() != nil {
		t.Error("Escape should clear the copied cell")
	}
	if calls != 0 {
		t.Errorf("OnRowsChange calls = %d, want 0", calls)
	}
}

func fillCallbacks(got *RowsChange) Callbacks {
	return Callbacks{
		OnRowsChange: func(_ []any, ch RowsChange) { *got = ch },
		OnFill: func(e FillEvent) any {
			r := clone(e.TargetRow)
			r[e.ColumnKey] = e.SourceRow.(rec)[e.ColumnKey]
			return r
		},
	}
}

func TestFillDrag(t *testing.T) {
	var got RowsChange
	g := newTestGrid(6, WithCallbacks(fillCallbacks(&got)))
	g.SelectCell(pos(1, 1), false)
	if !g.BeginFill() {
		t.Fatal("BeginFill() = false")
	}
	g.DragOver(3)
	f := g.Frame()
	if !f.Rows[2].Cells[1].DraggedOver || f.Rows[1].Cells[1].DraggedOver {
		t.Error("dragged over flags should cover rows 2..3 only")
	}
	if !f.Rows[1].Cells[1].DragHandle {
		t.Error("selected cell should carry the drag handle")
	}
	if !g.EndFill() {
		t.Fatal("EndFill() = false")
	}
	if !reflect.DeepEqual(got.Indexes, []int{2, 3}) {
		t.Errorf("Indexes = %v, want [2 3]", got.Indexes)
	}

	g.SelectCell(pos(1, 4), false)
	g.BeginFill()
	g.DragOver(2)
	g.EndFill()
	if !reflect.DeepEqual(got.Indexes, []int{2, 3}) {
		t.Errorf("upward Indexes = %v, want [2 3]", got.Indexes)
	}
}

func TestFillToEnd(t *testing.T) {
	var got RowsChange
	g := newTestGrid(5, WithCallbacks(fillCallbacks(&got)))
	g.SelectCell(pos(1, 2), false)
	if !g.FillToEnd() {
		t.Fatal("FillToEnd() = false")
	}
	if !reflect.DeepEqual(got.Indexes, []int{3, 4}) {
		t.Errorf("Indexes = %v, want [3 4]", got.Indexes)
	}

	g.SelectCell(pos(0, 0), false)
	if g.FillToEnd() {
		t.Error("filling a non-editable column should report nothing")
	}
}

func TestEditorLifecycle(t *testing.T) {
	var gotRows []any
	g := newTestGrid(3, WithCallbacks(Callbacks{
		OnRowsChange: func(rows []any, _ RowsChange) { gotRows = rows },
	}))
	g.SelectCell(pos(1, 1), false)
	if !g.HandleKey(key.MustParse("x")) || !g.IsEditing() {
		t.Fatal("typing on an editable cell should open the editor")
	}
	f := g.Frame()
	if c := f.Rows[1].Cells[1]; !c.Editing || c.Content != "editor" {
		t.Errorf("edit cell = %+v", c)
	}

	edited := clone(g.Rows()[1])
	edited["name"] = "changed"
	g.EditRow(edited, false)
	if gotRows != nil {
		t.Fatal("uncommitted edit reported a change")
	}
	g.HandleKey(key.MustParse("Enter"))
	if g.IsEditing() {
		t.Error("Enter should close the editor")
	}
	if gotRows == nil || gotRows[1].(rec)["name"] != "changed" {
		t.Errorf("committed rows = %v", gotRows)
	}

	gotRows = nil
	g.OpenEditor()
	g.EditRow(clone(g.Rows()[1]), false)
	g.HandleKey(key.MustParse("Escape"))
	if g.IsEditing() || gotRows != nil {
		t.Error("Escape should close without committing")
	}
}

func TestOutsidePointerCommits(t *testing.T) {
	commits := 0
	g := newTestGrid(3, WithCallbacks(Callbacks{
		OnRowsChange: func([]any, RowsChange) { commits++ },
	}))
	g.SelectCell(pos(1, 0), true)
	g.EditRow(clone(g.Rows()[0]), false)

	g.PointerDown(true)
	g.RunFrame()
	if !g.IsEditing() {
		t.Fatal("pointer down inside the editor closed it")
	}

	g.PointerDown(false)
	if !g.IsEditing() {
		t.Fatal("outside pointer down should wait for the next frame")
	}
	g.RunFrame()
	if g.IsEditing() || commits != 1 {
		t.Errorf("editing = %v, commits = %d; want false, 1", g.IsEditing(), commits)
	}
}

func TestOutsidePointerOptOut(t *testing.T) {
	g := newTestGrid(3)
	defs := testDefs()
	defs[1].EditorOptions.CommitOnOutsideClick = column.Ptr(false)
	g.SetColumns(defs)
	g.SelectCell(pos(1, 0), true)
	g.PointerDown(false)
	g.RunFrame()
	if !g.IsEditing() {
		t.Error("column opted out of outside-click commits")
	}
}

func TestStaleEditorCloses(t *testing.T) {
	g := newTestGrid(3)
	g.SelectCell(pos(1, 1), true)
	rows := testRows(3)
	g.SetRows(rows)
	g.Frame()
	if g.IsEditing() {
		t.Error("editor should close when its row is replaced")
	}
}

func TestTabExit(t *testing.T) {
	exited := false
	g := newTestGrid(2, WithCallbacks(Callbacks{OnExit: func(bool) { exited = true }}))
	g.SelectCell(pos(2, 1), false)
	if g.HandleKey(key.MustParse("Tab")) {
		t.Error("Tab out of the grid should not be consumed")
	}
	if !exited {
		t.Error("OnExit not called")
	}
	g.SelectCell(pos(2, 0), false)
	g.HandleKey(key.MustParse("Tab"))
	if p := g.Selection().Position; p != pos(0, 1) {
		t.Errorf("Tab wrap = %v, want (0,1)", p)
	}
}

func TestNavigationScrolls(t *testing.T) {
	var scrolled int
	g := newTestGrid(100)
	g.SetCallbacks(Callbacks{OnScroll: func(s viewport.State) { scrolled = s.ScrollTop }})
	g.SelectCell(pos(1, 10), false)
	g.HandleKey(key.MustParse("Down"))
	if top := g.Viewport().ScrollTop; top != 1 {
		t.Errorf("ScrollTop = %d, want 1", top)
	}
	if scrolled != 1 {
		t.Errorf("OnScroll top = %d, want 1", scrolled)
	}
}

func TestScrollToCell(t *testing.T) {
	g := newTestGrid(100)
	if !g.ScrollToCell(-1, 50) {
		t.Fatal("ScrollToCell() = false")
	}
	if top := g.Viewport().ScrollTop; top != 40 {
		t.Errorf("ScrollTop = %d, want 40", top)
	}
	if g.ScrollToCell(0, -1) {
		t.Error("frozen column should not scroll")
	}
	if g.ScrollToCell(-1, 100) {
		t.Error("row past the end should not scroll")
	}
}

func TestToggleSort(t *testing.T) {
	var got []sorting.Column
	g := newTestGrid(2, WithCallbacks(Callbacks{OnSortColumnsChange: func(c []sorting.Column) { got = c }}))
	if err := g.ToggleSort(1, false); err != nil {
		t.Fatalf("ToggleSort: %v", err)
	}
	if len(got) != 1 || got[0].ColumnKey != "name" || got[0].Direction != sorting.Ascending {
		t.Errorf("sort = %v", got)
	}
	got = nil
	g.ToggleSort(2, false)
	if got != nil {
		t.Error("non-sortable column emitted a sort change")
	}
	if err := g.ToggleSort(9, false); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
	g.SetSortColumns([]sorting.Column{{ColumnKey: "name", Direction: sorting.Descending}})
	if d := g.Frame().Header.Cells[1].SortDirection; d != sorting.Descending {
		t.Errorf("header direction = %s, want DESC", d)
	}
}

func TestRowSelection(t *testing.T) {
	var got rowselect.Set
	cb := Callbacks{OnSelectedRowsChange: func(s rowselect.Set) { got = s }}

	g := newTestGrid(3, WithCallbacks(cb))
	if err := g.SelectAllRows(true); !errors.Is(err, ErrMissingRowKeyGetter) {
		t.Errorf("err = %v, want ErrMissingRowKeyGetter", err)
	}

	g = newTestGrid(3, WithCallbacks(cb), WithRowKeyGetter(func(r any) any { return r.(rec)["id"] }))
	g.SelectCell(pos(1, 1), false)
	g.HandleKey(key.MustParse("Shift+Space"))
	if !got.Has(1) || got.Len() != 1 {
		t.Fatalf("selected = %v, want {1}", got.Keys())
	}
	g.SetSelectedRows(got)
	f := g.Frame()
	if !f.Rows[1].Selected || f.Rows[0].Selected {
		t.Error("row selected flags wrong")
	}
	if f.Header.AllRowsSelected || !f.Header.SomeRowsSelected {
		t.Error("header flags wrong")
	}
	if f.Rows[1].Key != 1 {
		t.Errorf("row key = %v, want 1", f.Rows[1].Key)
	}
}

func TestSelectionValidatedOnShrink(t *testing.T) {
	g := newTestGrid(10)
	g.SelectCell(pos(1, 8), false)
	g.SetRows(testRows(3))
	if p := g.Selection().Position; p != pos(-1, -2) {
		t.Errorf("selection = %v, want (-1,-2)", p)
	}
}

func TestResizeColumn(t *testing.T) {
	var gotIdx, gotWidth int
	g := newTestGrid(3, WithCallbacks(Callbacks{OnColumnResize: func(i, w int) { gotIdx, gotWidth = i, w }}))

	ok, err := g.ResizeColumn(1, column.Px(6))
	if err != nil || !ok {
		t.Fatalf("ResizeColumn = %v, %v", ok, err)
	}
	if gotIdx != 1 || gotWidth != 6 {
		t.Errorf("OnColumnResize(%d, %d), want (1, 6)", gotIdx, gotWidth)
	}
	if w := g.Layout().Metric(1).Width; w != 6 {
		t.Errorf("width = %d, want 6", w)
	}
	if ok, _ := g.ResizeColumn(2, column.Px(6)); ok {
		t.Error("non-resizable column resized")
	}
	if _, err := g.ResizeColumn(7, column.Px(6)); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}

	if ok, _ := g.AutoSizeColumn(1); !ok {
		t.Fatal("AutoSizeColumn() = false")
	}
	// "Name" plus padding is the widest content.
	if w := g.Layout().Metric(1).Width; w != 6 {
		t.Errorf("auto width = %d, want 6", w)
	}
}

func TestPointerResize(t *testing.T) {
	g := newTestGrid(3, WithResizeEdge(2))
	d, ok := g.BeginColumnResize(1, 13)
	if !ok {
		t.Fatal("BeginColumnResize() = false")
	}
	if !g.DragColumnResize(d, 17) {
		t.Fatal("DragColumnResize() = false")
	}
	if w := g.Layout().Metric(1).Width; w != 14 {
		t.Errorf("width = %d, want 14", w)
	}
	if _, ok := g.BeginColumnResize(1, 6); ok {
		t.Error("grab away from the edge started a resize")
	}
}

func TestHitTest(t *testing.T) {
	g := newTestGrid(100)
	tests := []struct {
		x, y int
		want selection.Position
		ok   bool
	}{
		{0, 0, pos(0, -1), true},
		{5, 1, pos(1, 0), true},
		{15, 4, pos(2, 3), true},
		{25, 4, selection.Position{}, false},
	}
	for _, tt := range tests {
		got, ok := g.HitTest(tt.x, tt.y)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("HitTest(%d, %d) = %v, %v; want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSummaryRows(t *testing.T) {
	g := newTestGrid(5)
	g.SetSummaryRows([]any{rec{"id": "top"}}, []any{rec{"id": "bottom"}})
	f := g.Frame()
	if len(f.TopSummary) != 1 || f.TopSummary[0].RowIdx != -1 || f.TopSummary[0].Top != 1 {
		t.Errorf("top summary = %+v", f.TopSummary)
	}
	if len(f.BottomSummary) != 1 || f.BottomSummary[0].RowIdx != 5 || f.BottomSummary[0].Top != 11 {
		t.Errorf("bottom summary = %+v", f.BottomSummary)
	}
	if f.Rows[0].Top != 2 {
		t.Errorf("first data row top = %d, want 2", f.Rows[0].Top)
	}
	if b := g.Bounds(); b.MinRowIdx != -2 || b.MaxRowIdx != 5 {
		t.Errorf("bounds = %+v", b)
	}
	if p := g.Selection().Position; p != pos(-1, -3) {
		t.Errorf("sentinel = %v, want (-1,-3)", p)
	}
}

func TestShiftSpaceReportsError(t *testing.T) {
	var got error
	g := newTestGrid(3, WithCallbacks(Callbacks{
		OnSelectedRowsChange: func(rowselect.Set) { t.Error("selection changed without a key getter") },
		OnError:              func(err error) { got = err },
	}))
	g.SelectCell(pos(1, 1), false)
	if !g.HandleKey(key.MustParse("Shift+Space")) {
		t.Error("Shift+Space not handled")
	}
	if !errors.Is(got, ErrMissingRowKeyGetter) {
		t.Errorf("OnError = %v, want ErrMissingRowKeyGetter", got)
	}
}

func TestShiftClickAfterRowsChange(t *testing.T) {
	tests := []struct {
		name   string
		rows   int
		anchor int
		change func([]any) []any
		click  int
		want   []int
	}{
		{
			name: "shrink", rows: 10, anchor: 9,
			change: func([]any) []any { return testRows(5) },
			click:  2, want: []int{2, 9},
		},
		{
			name: "sort", rows: 6, anchor: 1,
			change: func(r []any) []any {
				out := make([]any, len(r))
				for i, row := range r {
					out[len(r)-1-i] = row
				}
				return out
			},
			click: 3, want: []int{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g *Grid
			g = newTestGrid(tt.rows,
				WithRowKeyGetter(func(r any) any { return r.(rec)["id"] }),
				WithCallbacks(Callbacks{OnSelectedRowsChange: func(s rowselect.Set) { g.SetSelectedRows(s) }}),
			)
			if err := g.SelectRow(rowselect.Args{Row: g.Rows()[tt.anchor], Checked: true}); err != nil {
				t.Fatalf("SelectRow: %v", err)
			}
			g.SetRows(tt.change(g.Rows()))
			args := rowselect.Args{Row: g.Rows()[tt.click], Checked: true, ShiftClick: true}
			if err := g.SelectRow(args); err != nil {
				t.Fatalf("SelectRow: %v", err)
			}
			got := g.SelectedRows()
			if got.Len() != len(tt.want) {
				t.Errorf("selected = %v, want %v", got.Keys(), tt.want)
			}
			for _, k := range tt.want {
				if !got.Has(k) {
					t.Errorf("key %d not selected; selected = %v", k, got.Keys())
				}
			}
		})
	}
}
