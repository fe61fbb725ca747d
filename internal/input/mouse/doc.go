// Package mouse turns the button-state reports of a terminal into pointer
// gestures.
//
// Terminals report which button is held at every motion event rather than
// discrete press and release transitions. A Tracker remembers the held
// button and classifies each report:
//
//	t := mouse.NewTracker(mouse.DefaultConfig())
//	g := t.Feed(mouse.Event{Position: mouse.Position{X: 3, Y: 1}, Button: mouse.ButtonLeft})
//	if g.Action == mouse.ActionPress && g.Count == 2 {
//	    // double click
//	}
//
// Wheel reports become ActionScroll gestures carrying the row and column
// deltas to scroll by.
package mouse
