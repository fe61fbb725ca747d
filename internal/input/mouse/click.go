package mouse

import "time"

// clickTracker counts rapid clicks on the same spot.
type clickTracker struct {
	maxTime     time.Duration
	maxDistance int
	maxCount    int

	lastPos   Position
	lastTime  time.Time
	lastCount int
}

func newClickTracker(maxTime time.Duration, maxDistance, maxCount int) *clickTracker {
	return &clickTracker{
		maxTime:     maxTime,
		maxDistance: maxDistance,
		maxCount:    maxCount,
	}
}

// recordClick records a click and returns its count in the sequence. The
// count wraps back to 1 after maxCount. A zero timestamp means now.
func (t *clickTracker) recordClick(pos Position, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if t.isPartOfSequence(pos, timestamp) {
		t.lastCount++
		if t.lastCount > t.maxCount {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastPos = pos
	t.lastTime = timestamp
	return t.lastCount
}

func (t *clickTracker) isPartOfSequence(pos Position, timestamp time.Time) bool {
	if t.lastCount == 0 {
		return false
	}
	if timestamp.Sub(t.lastTime) > t.maxTime {
		return false
	}
	return pos.Distance(t.lastPos) <= t.maxDistance
}

func (t *clickTracker) reset() {
	t.lastPos = Position{}
	t.lastTime = time.Time{}
	t.lastCount = 0
}
