package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/grid/sorting"
	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/input/mouse"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/renderer/statusline"
	"github.com/dshills/gridstorm/internal/source"
	"github.com/dshills/gridstorm/internal/source/jsonrows"
)

var regions = []string{"east", "west"}

func testRows(n int) []any {
	rows := make([]any, n)
	for i := range rows {
		rows[i] = source.NewRow(i, map[string]any{
			"id":     i,
			"name":   fmt.Sprintf("n%d", i),
			"amount": (n - i) * 10,
			"region": regions[i%2],
		})
	}
	return rows
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Columns = []config.ColumnConfig{
		{Key: "id", Width: "4", Frozen: true},
		{Key: "name", Width: "8", Editable: true},
		{Key: "amount", Width: "8", Editable: true},
		{Key: "region", Width: "8"},
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, n int) (*App, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(40, 10)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	a, err := New(Options{Config: cfg, Rows: testRows(n), Backend: b})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	a.Resize(b.Size())
	return a, b
}

func keyEvent(ev key.Event) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: ev}
}

func runeKey(r rune) backend.Event {
	return keyEvent(key.NewRuneEvent(r, key.ModNone))
}

func ctrlKey(r rune) backend.Event {
	return keyEvent(key.NewRuneEvent(r, key.ModCtrl))
}

func special(k key.Key) backend.Event {
	return keyEvent(key.NewSpecialEvent(k, key.ModNone))
}

func press(x, y int) backend.Event {
	return backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, Button: backend.MouseLeft}
}

func release(x, y int) backend.Event {
	return backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, Button: backend.MouseNone}
}

func send(t *testing.T, a *App, events ...backend.Event) {
	t.Helper()
	for _, ev := range events {
		if err := a.HandleEvent(ev); err != nil {
			t.Fatalf("HandleEvent(%+v): %v", ev, err)
		}
	}
}

func field(row any, k string) any {
	return row.(*source.Row).Field(k)
}

func at(idx, rowIdx int) selection.Position {
	return selection.Position{Idx: idx, RowIdx: rowIdx}
}

func TestNewBuildsGrid(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 5)
	if got := len(a.Rows()); got != 5 {
		t.Errorf("len(Rows()) = %d, want 5", got)
	}
	l := a.Grid().Layout()
	if l.Len() != 4 {
		t.Fatalf("Layout().Len() = %d, want 4", l.Len())
	}
	if l.Metric(1).Width != 8 || !l.Column(0).Frozen {
		t.Errorf("layout = %+v, want frozen id and 8-cell name", l)
	}
	if got := a.sourceName(); got != "[no source]" {
		t.Errorf("sourceName() = %q, want [no source]", got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Keys[config.ActionReload] = "Ctrl+Q"
	if _, err := New(Options{Config: cfg}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewWithoutRows(t *testing.T) {
	a, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if len(a.Rows()) != 0 {
		t.Errorf("len(Rows()) = %d, want 0", len(a.Rows()))
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run err = %v, want ErrNoBackend", err)
	}
}

func TestTypeToEdit(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 3)
	a.Grid().SelectCell(at(1, 0), false)

	send(t, a, runeKey('x'))
	if !a.Grid().IsEditing() {
		t.Fatal("typing should open the editor")
	}
	if a.editor == nil || a.editor.Text() != "x" {
		t.Fatalf("editor = %+v, want text x", a.editor)
	}
	send(t, a, runeKey('y'), special(key.KeyEnter))

	if a.Grid().IsEditing() {
		t.Error("Enter should close the editor")
	}
	if got := field(a.Rows()[0], "name"); got != "xy" {
		t.Errorf("name = %v, want xy", got)
	}
	if got := field(a.Rows()[1], "name"); got != "n1" {
		t.Errorf("other row name = %v, want n1", got)
	}
}

func TestEditKeepsValueType(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 3)
	a.Grid().SelectCell(at(2, 1), false)

	send(t, a, special(key.KeyBackspace))
	if a.editor == nil || a.editor.Text() != "" {
		t.Fatalf("Backspace should open an empty editor, got %+v", a.editor)
	}
	send(t, a, runeKey('1'), runeKey(','), runeKey('5'), runeKey('0'), runeKey('0'), special(key.KeyEnter))
	if got := field(a.Rows()[1], "amount"); got != 1500 {
		t.Errorf("amount = %#v, want 1500", got)
	}
}

func TestEscapeCancelsEdit(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 3)
	a.Grid().SelectCell(at(1, 0), false)
	send(t, a, runeKey('q'), special(key.KeyEscape))
	if a.Grid().IsEditing() {
		t.Error("Escape should close the editor")
	}
	if a.editor != nil {
		t.Error("the editor should be dropped")
	}
	if got := field(a.Rows()[0], "name"); got != "n0" {
		t.Errorf("name = %v, want n0", got)
	}
}

func TestDoubleClickEdits(t *testing.T) {
	a, b := newTestApp(t, testConfig(), 3)
	// Row 0 is on screen line 1; name spans cells 4..11.
	send(t, a, press(5, 1), release(5, 1), press(5, 1), release(5, 1))
	if !a.Grid().IsEditing() {
		t.Fatal("double click should open the editor")
	}
	a.Render()
	if a.editor == nil || a.editor.Text() != "n0" {
		t.Fatalf("editor = %+v, want text n0", a.editor)
	}
	if got := b.Line(1); !strings.HasPrefix(got, "0  │n0") {
		t.Errorf("line 1 = %q", got)
	}
	send(t, a, runeKey('!'), special(key.KeyEnter))
	if got := field(a.Rows()[0], "name"); got != "n0!" {
		t.Errorf("name = %v, want n0!", got)
	}
}

func TestOutsideClickCommits(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 4)
	a.Grid().SelectCell(at(1, 0), false)
	send(t, a, runeKey('z'))
	// Press outside the grid; the commit runs after the next paint.
	send(t, a, press(5, 9), release(5, 9))
	a.Render()
	if a.Grid().IsEditing() {
		t.Error("outside click should close the editor")
	}
	if got := field(a.Rows()[0], "name"); got != "z" {
		t.Errorf("name = %v, want z", got)
	}
	if a.Metrics().Snapshot().DeferredRuns == 0 {
		t.Error("the commit should run as deferred work")
	}
}

func TestSortAction(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 4)
	a.Grid().SelectCell(at(2, 0), false)
	send(t, a, ctrlKey('s'))

	sc := a.Grid().SortColumns()
	if len(sc) != 1 || sc[0].ColumnKey != "amount" || sc[0].Direction != sorting.Ascending {
		t.Fatalf("SortColumns() = %v, want amount ASC", sc)
	}
	if got := field(a.Grid().Rows()[0], "id"); got != 3 {
		t.Errorf("first sorted id = %v, want 3", got)
	}
	if got := field(a.Rows()[0], "id"); got != 0 {
		t.Errorf("source order changed: first id = %v", got)
	}
}

func TestHeaderClickSorts(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 4)
	send(t, a, press(14, 0), release(14, 0))
	sc := a.Grid().SortColumns()
	if len(sc) != 1 || sc[0].ColumnKey != "amount" {
		t.Fatalf("SortColumns() = %v, want amount", sc)
	}

	// Ctrl adds a sort column.
	ev := press(22, 0)
	ev.Mod = key.ModCtrl
	send(t, a, ev, release(22, 0))
	if got := len(a.Grid().SortColumns()); got != 2 {
		t.Errorf("len(SortColumns()) = %d, want 2", got)
	}
}

func TestHeaderDragResizes(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 2)
	// The trailing edge of name is cell 11.
	send(t, a, press(11, 0))
	if a.drag == nil {
		t.Fatal("press on the edge should start a resize")
	}
	send(t, a, press(15, 0), release(15, 0))
	if got := a.Grid().Layout().Metric(1).Width; got != 12 {
		t.Errorf("name width = %d, want 12", got)
	}
	if a.drag != nil {
		t.Error("release should end the resize")
	}
	if len(a.Grid().SortColumns()) != 0 {
		t.Error("resizing should not sort")
	}
}

func TestWidenNarrowReset(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 2)
	a.Grid().SelectCell(at(1, 0), false)
	send(t, a, keyEvent(key.NewSpecialEvent(key.KeyRight, key.ModAlt)))
	if got := a.Grid().Layout().Metric(1).Width; got != 9 {
		t.Errorf("widened = %d, want 9", got)
	}
	send(t, a, keyEvent(key.NewSpecialEvent(key.KeyLeft, key.ModAlt)), keyEvent(key.NewSpecialEvent(key.KeyLeft, key.ModAlt)))
	if got := a.Grid().Layout().Metric(1).Width; got != 7 {
		t.Errorf("narrowed = %d, want 7", got)
	}
	send(t, a, ctrlKey('r'))
	if got := a.Grid().Layout().Metric(1).Width; got != 8 {
		t.Errorf("reset = %d, want 8", got)
	}
}

func TestWheelScrolls(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 50)
	send(t, a, backend.Event{Type: backend.EventMouse, Button: backend.MouseWheelDown})
	if got := a.Grid().Viewport().ScrollTop; got != mouse.DefaultConfig().ScrollLines {
		t.Errorf("ScrollTop = %d, want %d", got, mouse.DefaultConfig().ScrollLines)
	}
	send(t, a, backend.Event{Type: backend.EventMouse, Button: backend.MouseWheelUp})
	if got := a.Grid().Viewport().ScrollTop; got != 0 {
		t.Errorf("ScrollTop = %d, want 0", got)
	}
}

func TestSelectRows(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.SelectColumn = true
	a, _ := newTestApp(t, cfg, 4)

	// The select column occupies cells 0..3.
	send(t, a, press(1, 2), release(1, 2))
	if got := a.Grid().SelectedRows().Len(); got != 1 {
		t.Fatalf("selected = %d, want 1", got)
	}
	if !a.Grid().SelectedRows().Has(1) {
		t.Error("row 1 should be selected")
	}

	send(t, a, ctrlKey('a'))
	if got := a.Grid().SelectedRows().Len(); got != 4 {
		t.Errorf("after select all = %d, want 4", got)
	}
	send(t, a, ctrlKey('a'))
	if got := a.Grid().SelectedRows().Len(); got != 0 {
		t.Errorf("after clear all = %d, want 0", got)
	}

	a.Grid().SelectCell(at(2, 3), false)
	send(t, a, keyEvent(key.NewRuneEvent(' ', key.ModAlt)))
	if !a.Grid().SelectedRows().Has(3) {
		t.Error("Alt+Space should select the row")
	}
}

func TestFillDown(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 4)
	a.Grid().SelectCell(at(1, 1), false)
	send(t, a, ctrlKey('d'))
	want := []string{"n0", "n1", "n1", "n1"}
	for i, row := range a.Rows() {
		if got := field(row, "name"); got != want[i] {
			t.Errorf("row %d name = %v, want %s", i, got, want[i])
		}
	}
}

func TestFillDrag(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 4)
	a.Grid().SelectCell(at(1, 0), false)
	// The handle is the last cell of the selected cell.
	send(t, a, press(11, 1))
	if !a.Grid().IsFilling() {
		t.Fatal("press on the handle should start a fill")
	}
	send(t, a, press(11, 3), release(11, 3))
	want := []string{"n0", "n0", "n0", "n3"}
	for i, row := range a.Rows() {
		if got := field(row, "name"); got != want[i] {
			t.Errorf("row %d name = %v, want %s", i, got, want[i])
		}
	}
}

func TestCopyPaste(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 3)
	a.Grid().SelectCell(at(1, 0), false)
	send(t, a, ctrlKey('c'))
	if msg, _ := a.Status().Message(); msg != "copied name" {
		t.Errorf("message = %q, want copied name", msg)
	}
	a.Grid().SelectCell(at(1, 2), false)
	send(t, a, ctrlKey('v'))
	if got := field(a.Rows()[2], "name"); got != "n0" {
		t.Errorf("pasted name = %v, want n0", got)
	}
}

func TestGroupToggle(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.GroupBy = []string{"region"}
	a, _ := newTestApp(t, cfg, 4)

	if got := len(a.Grid().Rows()); got != 2 {
		t.Fatalf("collapsed rows = %d, want 2", got)
	}
	a.Grid().SelectCell(selection.Position{Idx: -1, RowIdx: 0}, false)
	send(t, a, ctrlKey('g'))
	if got := len(a.Grid().Rows()); got != 4 {
		t.Fatalf("expanded rows = %d, want 4", got)
	}

	// Toggling from a child row collapses its group.
	a.Grid().SelectCell(at(1, 1), false)
	send(t, a, ctrlKey('g'))
	if got := len(a.Grid().Rows()); got != 2 {
		t.Errorf("rows after collapse = %d, want 2", got)
	}
	if got := a.Grid().Selection().RowIdx; got != 0 {
		t.Errorf("selected row = %d, want the group row 0", got)
	}
}

func TestSummaryRowTotals(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.Summary = true
	cfg.Columns[2].Format = config.FormatComma
	a, _ := newTestApp(t, cfg, 200)

	f := a.Grid().Frame()
	if len(f.BottomSummary) != 1 {
		t.Fatalf("len(BottomSummary) = %d, want 1", len(f.BottomSummary))
	}
	cells := f.BottomSummary[0].Cells
	if cells[0].Content != "200 rows" {
		t.Errorf("count cell = %v, want 200 rows", cells[0].Content)
	}
	// The amounts are 10..2000.
	if cells[2].Content != "201,000" {
		t.Errorf("amount total = %v, want 201,000", cells[2].Content)
	}

	a.Grid().SelectCell(at(2, 0), false)
	send(t, a, runeKey('0'), special(key.KeyEnter))
	f = a.Grid().Frame()
	if got := f.BottomSummary[0].Cells[2].Content; got != "199,000" {
		t.Errorf("amount total after edit = %v, want 199,000", got)
	}
}

func TestQuit(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 1)
	if err := a.HandleEvent(ctrlKey('q')); !errors.Is(err, ErrQuit) {
		t.Errorf("err = %v, want ErrQuit", err)
	}
}

func TestRenderDrawsGridAndStatus(t *testing.T) {
	a, b := newTestApp(t, testConfig(), 3)
	a.Grid().SelectCell(at(1, 2), false)
	a.updateStatus()
	a.Render()

	if got := b.Line(0); !strings.HasPrefix(got, "id │name") {
		t.Errorf("header = %q", got)
	}
	if got := b.Line(3); !strings.HasPrefix(got, "2  │n2") {
		t.Errorf("line 3 = %q", got)
	}
	status := b.Line(9)
	if !strings.Contains(status, "SELECT") || !strings.Contains(status, "R 3/3 C 2/4") {
		t.Errorf("status = %q", status)
	}
	if a.Metrics().Snapshot().FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", a.Metrics().Snapshot().FrameCount)
	}
}

func TestResizeEvent(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 3)
	send(t, a, backend.Event{Type: backend.EventResize, Width: 30, Height: 6})
	vp := a.Grid().Viewport()
	if vp.Width != 30 || vp.Height != 5 {
		t.Errorf("viewport = %dx%d, want 30x5", vp.Width, vp.Height)
	}
}

func TestApplyReload(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 4)
	a.Grid().SetSortColumns([]sorting.Column{{ColumnKey: "amount", Direction: sorting.Descending}})

	send(t, a, backend.Event{Type: backend.EventInterrupt, Data: config.Reload{Err: errors.New("bad file")}})
	if msg, typ := a.Status().Message(); msg != "bad file" || typ != statusline.MessageError {
		t.Errorf("message = %q, %v, want bad file error", msg, typ)
	}

	next := testConfig()
	next.Grid.RowHeight = 2
	next.Keys[config.ActionQuit] = "Ctrl+X"
	a.Status().ClearMessage()
	send(t, a, backend.Event{Type: backend.EventInterrupt, Data: config.Reload{Config: next}})

	if got := a.Grid().SortColumns(); len(got) != 1 || got[0].ColumnKey != "amount" {
		t.Errorf("SortColumns() = %v, want amount kept", got)
	}
	if got := a.Grid().Metrics().Height(0); got != 2 {
		t.Errorf("row height = %d, want 2", got)
	}
	if err := a.HandleEvent(ctrlKey('x')); !errors.Is(err, ErrQuit) {
		t.Errorf("rebound quit err = %v, want ErrQuit", err)
	}
	s := a.Metrics().Snapshot()
	if s.Reloads != 2 || s.ReloadErrors != 1 {
		t.Errorf("reloads = %d/%d, want 2/1", s.Reloads, s.ReloadErrors)
	}
}

func TestReloadWithoutSource(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 1)
	if err := a.Reload(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Reload err = %v, want ErrNoSource", err)
	}
	send(t, a, special(key.KeyF5))
	if _, typ := a.Status().Message(); typ != statusline.MessageError {
		t.Errorf("message type = %v, want error", typ)
	}
}

func TestRunQuits(t *testing.T) {
	b := backend.NewNullBackend(40, 10)
	a, err := New(Options{Config: testConfig(), Rows: testRows(3), Backend: b})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	errc := make(chan error, 1)
	go func() { errc <- a.Run(context.Background()) }()
	b.PostEvent(runeKey('j'))
	b.PostEvent(ctrlKey('q'))

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunCancel(t *testing.T) {
	b := backend.NewNullBackend(40, 10)
	a, err := New(Options{Config: testConfig(), Rows: testRows(3), Backend: b})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- a.Run(ctx) }()
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := testConfig()
	cfg.Source.Export = path
	a, _ := newTestApp(t, cfg, 3)

	a.Grid().SelectCell(at(2, 0), false)
	send(t, a, ctrlKey('s'), ctrlKey('e'))
	if msg, typ := a.Status().Message(); typ != statusline.MessageInfo || !strings.HasPrefix(msg, "exported 3 rows") {
		t.Errorf("message = %q, %v, want export info", msg, typ)
	}

	tbl, err := jsonrows.Open(path, jsonrows.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(tbl.Rows) != 3 || len(tbl.Columns) != 4 {
		t.Fatalf("exported %d rows, %d columns, want 3, 4", len(tbl.Rows), len(tbl.Columns))
	}
	if got := field(tbl.Rows[0], "id"); got != 2 {
		t.Errorf("first exported id = %v, want 2 (sorted by amount)", got)
	}
}

func TestExportWithoutPath(t *testing.T) {
	a, _ := newTestApp(t, testConfig(), 1)
	if err := a.Export(); !errors.Is(err, ErrNoExport) {
		t.Errorf("Export err = %v, want ErrNoExport", err)
	}
}

func TestJSONSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.json")
	write := func(data string) {
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(`[{"id": 1, "city": "Oslo"}, {"id": 2, "city": "Rome"}]`)

	cfg := config.Default()
	cfg.Source.Path = path
	b := backend.NewNullBackend(40, 10)
	a, err := New(Options{Config: cfg, Backend: b})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if got := a.Grid().Layout().Len(); got != 2 {
		t.Errorf("Layout().Len() = %d, want 2", got)
	}
	if got := len(a.Grid().Rows()); got != 2 {
		t.Errorf("len(Rows()) = %d, want 2", got)
	}

	write(`[{"id": 1, "city": "Oslo"}, {"id": 2, "city": "Rome"}, {"id": 3, "city": "Lima"}]`)
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := len(a.Grid().Rows()); got != 3 {
		t.Errorf("len(Rows()) after reload = %d, want 3", got)
	}
	if got := field(a.Grid().Rows()[2], "city"); got != "Lima" {
		t.Errorf("third city = %v, want Lima", got)
	}
}
