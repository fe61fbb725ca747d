package mouse

// scrollDelta returns the rows and columns a wheel report scrolls by.
// Shift turns vertical scrolling horizontal, the way most terminals do.
func scrollDelta(ev Event, config Config) (rows, cols int) {
	lines := config.ScrollLines
	if lines <= 0 {
		lines = 1
	}

	switch ev.Button {
	case ButtonScrollUp:
		rows = -lines
	case ButtonScrollDown:
		rows = lines
	case ButtonScrollLeft:
		cols = -lines
	case ButtonScrollRight:
		cols = lines
	}
	if ev.Modifiers.HasShift() && cols == 0 {
		rows, cols = 0, rows
	}
	return rows, cols
}
