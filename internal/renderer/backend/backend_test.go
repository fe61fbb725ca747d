package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("Size() = (%d, %d), want (80, 24)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()

	cell := core.Cell{Rune: 'X', Width: 1, Style: core.DefaultStyle().WithForeground(core.ColorRed)}
	b.SetCell(4, 1, cell)

	got := b.GetCell(4, 1)
	if got.Rune != 'X' || got.Style != cell.Style {
		t.Errorf("GetCell(4, 1) = %+v, want %+v", got, cell)
	}

	// Out of bounds is ignored.
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.GetCell(-1, 0); got.Rune != ' ' {
		t.Errorf("out of bounds cell = %q, want blank", got.Rune)
	}
}

func TestNullBackendFillAndLines(t *testing.T) {
	b := NewNullBackend(6, 3)
	b.Init()

	b.Fill(core.RectFromSize(1, 2, 1, 3), core.Cell{Rune: '.', Width: 1})
	for x, r := range core.CellsFromString("ab", core.DefaultStyle()) {
		b.SetCell(x, 0, r)
	}

	if got := b.Line(0); got != "ab" {
		t.Errorf("Line(0) = %q, want %q", got, "ab")
	}
	if got := b.Line(1); got != "  ..." {
		t.Errorf("Line(1) = %q, want %q", got, "  ...")
	}
	if got := b.String(); got != "ab\n  ...\n" {
		t.Errorf("String() = %q", got)
	}

	b.Clear()
	if got := b.Line(1); got != "" {
		t.Errorf("Line(1) after Clear = %q, want empty", got)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()

	b.ShowCursor(3, 2)
	x, y, visible := b.CursorPosition()
	if x != 3 || y != 2 || !visible {
		t.Errorf("CursorPosition() = (%d, %d, %v), want (3, 2, true)", x, y, visible)
	}
	b.HideCursor()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()

	b.PostEvent(Event{Type: EventKey, Key: key.NewRuneEvent('a', key.ModNone)})
	b.Resize(20, 5)
	b.Interrupt("tick")

	if ev := b.PollEvent(); ev.Type != EventKey || ev.Key.Rune != 'a' {
		t.Errorf("first event = %+v, want key a", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("second event = %+v, want resize 20x5", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventInterrupt || ev.Data != "tick" {
		t.Errorf("third event = %+v, want interrupt", ev)
	}
	if w, h := b.Size(); w != 20 || h != 5 {
		t.Errorf("Size() = (%d, %d), want (20, 5)", w, h)
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), key.NewRuneEvent('x', key.ModNone)},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), key.NewRuneEvent('x', key.ModAlt)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyEnter, key.ModNone)},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyTab, key.ModNone)},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyTab, key.ModShift)},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyBackspace, key.ModNone)},
		{"ctrl c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), key.NewRuneEvent('c', key.ModCtrl)},
		{"ctrl z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), key.NewRuneEvent('z', key.ModCtrl)},
		{"shift up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), key.NewSpecialEvent(key.KeyUp, key.ModShift)},
		{"f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyF5, key.ModNone)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertKey(tt.ev)
			if !ok {
				t.Fatal("convertKey reported no key")
			}
			if got != tt.want {
				t.Errorf("convertKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertMouseButton(t *testing.T) {
	tests := []struct {
		in   tcell.ButtonMask
		want MouseButton
	}{
		{tcell.ButtonNone, MouseNone},
		{tcell.Button1, MouseLeft},
		{tcell.Button2, MouseRight},
		{tcell.Button3, MouseMiddle},
		{tcell.WheelUp, MouseWheelUp},
		{tcell.WheelDown, MouseWheelDown},
	}
	for _, tt := range tests {
		if got := convertMouseButton(tt.in); got != tt.want {
			t.Errorf("convertMouseButton(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !MouseWheelDown.IsWheel() || MouseLeft.IsWheel() {
		t.Error("IsWheel mismatch")
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer term.Shutdown()
	screen.SetSize(8, 2)

	bold := core.DefaultStyle().Bold()
	for x, c := range core.CellsFromString("日a", bold) {
		term.SetCell(x, 0, c)
	}
	term.Show()

	cells, w, _ := screen.GetContents()
	first := cells[0]
	if len(first.Runes) == 0 || first.Runes[0] != '日' {
		t.Errorf("cell 0 = %q, want 日", first.Runes)
	}
	if _, _, attrs := first.Style.Decompose(); attrs&tcell.AttrBold == 0 {
		t.Error("cell 0 should be bold")
	}
	if r := cells[2].Runes; len(r) == 0 || r[0] != 'a' {
		t.Errorf("cell 2 = %q, want a", r)
	}
	if w != 8 {
		t.Errorf("width = %d, want 8", w)
	}

	screen.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	done := make(chan Event, 1)
	go func() {
		for {
			if ev := term.PollEvent(); ev.Type == EventKey {
				done <- ev
				return
			}
		}
	}()
	select {
	case ev := <-done:
		if ev.Key != key.NewRuneEvent('s', key.ModCtrl) {
			t.Errorf("PollEvent() = %+v, want Ctrl+S", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for key")
	}
}

func TestNullBackendShutdown(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()
	b.Shutdown()
	b.Shutdown()

	b.PostEvent(Event{Type: EventKey})
	if ev := b.PollEvent(); ev.Type != EventNone {
		t.Errorf("PollEvent() after Shutdown = %+v, want EventNone", ev)
	}
}
