package mouse

import (
	"math"
	"time"

	"github.com/dshills/gridstorm/internal/input/key"
)

// Button identifies a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonScrollUp
	ButtonScrollDown
	ButtonScrollLeft
	ButtonScrollRight
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	case ButtonScrollLeft:
		return "scroll-left"
	case ButtonScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// IsScroll reports whether b is a wheel direction.
func (b Button) IsScroll() bool {
	return b >= ButtonScrollUp && b <= ButtonScrollRight
}

// Action classifies a gesture.
type Action uint8

// Gesture actions.
const (
	ActionNone Action = iota
	ActionPress
	ActionRelease
	ActionMove
	ActionDrag
	ActionScroll
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	case ActionScroll:
		return "scroll"
	default:
		return "none"
	}
}

// Position is a screen cell.
type Position struct {
	X, Y int
}

// Distance returns the Chebyshev distance between two cells.
func (p Position) Distance(other Position) int {
	dx := math.Abs(float64(p.X - other.X))
	dy := math.Abs(float64(p.Y - other.Y))
	return int(math.Max(dx, dy))
}

// Event is one report from the terminal: the pointer position and the
// button held at that moment.
type Event struct {
	Position  Position
	Button    Button
	Modifiers key.Modifier
	Timestamp time.Time
}

// Gesture is the classified form of an Event.
type Gesture struct {
	Action    Action
	Position  Position
	Button    Button
	Modifiers key.Modifier

	// Count is the click count of a press, 1 for a single click.
	Count int

	// Start is where the current drag began. Set for drags and releases.
	Start Position

	// Rows and Cols are the scroll deltas of a wheel gesture.
	Rows, Cols int
}

// IsDouble reports whether g is the second press of a double click.
func (g Gesture) IsDouble() bool {
	return g.Action == ActionPress && g.Count == 2
}

// Config holds tracker configuration.
type Config struct {
	// DoubleClickTime is the longest gap between clicks of a double click.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the farthest the pointer may move between clicks.
	DoubleClickDistance int

	// MaxClicks is the count after which a click sequence starts over.
	MaxClicks int

	// ScrollLines is the number of rows or columns one wheel notch scrolls.
	ScrollLines int
}

// DefaultConfig returns the configuration used by the grid.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 0,
		MaxClicks:           2,
		ScrollLines:         3,
	}
}

// Tracker classifies terminal reports into gestures. It is not safe for
// concurrent use.
type Tracker struct {
	config Config
	held   Button
	click  *clickTracker
	drag   *dragTracker
}

// NewTracker creates a tracker.
func NewTracker(config Config) *Tracker {
	if config.MaxClicks < 1 {
		config.MaxClicks = 1
	}
	return &Tracker{
		config: config,
		click:  newClickTracker(config.DoubleClickTime, config.DoubleClickDistance, config.MaxClicks),
		drag:   newDragTracker(),
	}
}

// Feed classifies ev.
func (t *Tracker) Feed(ev Event) Gesture {
	g := Gesture{Position: ev.Position, Button: ev.Button, Modifiers: ev.Modifiers}

	switch {
	case ev.Button.IsScroll():
		g.Action = ActionScroll
		g.Rows, g.Cols = scrollDelta(ev, t.config)

	case ev.Button == ButtonNone:
		if t.held == ButtonNone {
			g.Action = ActionMove
			return g
		}
		g.Action = ActionRelease
		g.Button = t.held
		g.Start = t.drag.startPos
		t.held = ButtonNone
		t.drag.end()

	case ev.Button == t.held:
		t.drag.update(ev.Position)
		g.Action = ActionDrag
		g.Start = t.drag.startPos

	default:
		t.held = ev.Button
		g.Action = ActionPress
		g.Count = t.click.recordClick(ev.Position, ev.Timestamp)
		t.drag.start(ev.Position, ev.Button)
	}
	return g
}

// Held returns the button currently held down.
func (t *Tracker) Held() Button {
	return t.held
}

// Drag returns the state of the current drag.
func (t *Tracker) Drag() DragState {
	return t.drag.state()
}

// Reset forgets the held button and the click sequence.
func (t *Tracker) Reset() {
	t.held = ButtonNone
	t.drag.end()
	t.click.reset()
}
