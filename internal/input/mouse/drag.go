package mouse

// dragTracker tracks the button held since the last press.
type dragTracker struct {
	active     bool
	button     Button
	startPos   Position
	currentPos Position
}

func newDragTracker() *dragTracker {
	return &dragTracker{}
}

func (t *dragTracker) start(pos Position, button Button) {
	t.active = true
	t.button = button
	t.startPos = pos
	t.currentPos = pos
}

func (t *dragTracker) update(pos Position) {
	if t.active {
		t.currentPos = pos
	}
}

func (t *dragTracker) end() {
	*t = dragTracker{}
}

// DragState describes a drag in progress.
type DragState struct {
	Active     bool
	Button     Button
	StartPos   Position
	CurrentPos Position
}

// Delta returns the distance dragged from the start.
func (s DragState) Delta() Position {
	return Position{
		X: s.CurrentPos.X - s.StartPos.X,
		Y: s.CurrentPos.Y - s.StartPos.Y,
	}
}

func (t *dragTracker) state() DragState {
	return DragState{
		Active:     t.active,
		Button:     t.button,
		StartPos:   t.startPos,
		CurrentPos: t.currentPos,
	}
}
