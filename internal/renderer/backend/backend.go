// Package backend provides the display backends the painter draws on.
package backend

import (
	"strings"
	"sync"

	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// IsWheel reports whether b is a wheel motion.
func (b MouseButton) IsWheel() bool {
	return b >= MouseWheelUp
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// Mouse event fields. Button is MouseNone on release and on motion
	// without a pressed button.
	MouseX, MouseY int
	Button         MouseButton
	Mod            key.Modifier

	// Resize event fields
	Width, Height int

	// Data is the payload of EventInterrupt.
	Data any
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Fill fills a rectangular region with the given cell.
	Fill(rect core.ScreenRect, cell core.Cell)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next event. It returns an
	// EventNone event once the backend is shut down.
	PollEvent() Event

	// Interrupt posts an EventInterrupt carrying data. It is safe to call
	// from any goroutine.
	Interrupt(data any)

	// Beep produces an audible or visual bell.
	Beep()
}

// NullBackend is an in-memory backend for tests and headless runs.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	beeps         int

	mu     sync.Mutex
	events chan Event
	closed bool
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

// Shutdown unblocks PollEvent. Events posted afterwards are dropped.
func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell at the given position.
func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < b.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < b.width; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(core.ScreenRect{Bottom: b.height, Right: b.width}, core.EmptyCell())
}

func (b *NullBackend) Show() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	ev, ok := <-b.events
	if !ok {
		return Event{Type: EventNone}
	}
	return ev
}

// PostEvent queues ev for PollEvent. Events are dropped when the queue is
// full.
func (b *NullBackend) PostEvent(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- ev:
	default:
	}
}

func (b *NullBackend) Interrupt(data any) {
	b.PostEvent(Event{Type: EventInterrupt, Data: data})
}

func (b *NullBackend) Beep() { b.beeps++ }

// Beeps returns how often Beep was called.
func (b *NullBackend) Beeps() int { return b.beeps }

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Resize simulates a terminal resize and queues the resize event.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.allocate()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// Line returns row y as text with trailing spaces removed.
func (b *NullBackend) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	return strings.TrimRight(core.StringFromCells(b.cells[y]), " ")
}

// String renders the whole screen, one line per row.
func (b *NullBackend) String() string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = b.Line(y)
	}
	return strings.Join(lines, "\n")
}
