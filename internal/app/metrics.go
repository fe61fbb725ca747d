package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Metrics tracks event loop timings.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Input handling
	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64

	// Deferred callbacks run at the start of a frame
	deferredRuns atomic.Uint64

	// Config and script reloads
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFrame records frame timing.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records input processing timing.
func (m *Metrics) RecordInput(duration time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(duration.Nanoseconds())
}

// RecordDeferred records deferred callbacks run by a frame.
func (m *Metrics) RecordDeferred(n int) {
	if n > 0 {
		m.deferredRuns.Add(uint64(n))
	}
}

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload(err error) {
	m.reloads.Add(1)
	if err != nil {
		m.reloadErrors.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     m.frameCount.Load(),
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		InputCount:     m.inputCount.Load(),
		DeferredRuns:   m.deferredRuns.Load(),
		Reloads:        m.reloads.Load(),
		ReloadErrors:   m.reloadErrors.Load(),
	}
	if s.FrameCount > 0 {
		s.AvgFrameTimeNs = m.frameTotalNs.Load() / int64(s.FrameCount)
	}
	if s.InputCount > 0 {
		s.AvgInputTimeNs = m.inputTotalNs.Load() / int64(s.InputCount)
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	InputCount     uint64
	AvgInputTimeNs int64
	DeferredRuns   uint64
	Reloads        uint64
	ReloadErrors   uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameTimeNs)
}

// String summarizes the snapshot on one line.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("%s frames (avg %s, max %s), %s inputs, %s reloads (%d failed), up %s",
		humanize.Comma(int64(s.FrameCount)),
		time.Duration(s.AvgFrameTimeNs),
		time.Duration(s.MaxFrameTimeNs),
		humanize.Comma(int64(s.InputCount)),
		humanize.Comma(int64(s.Reloads)),
		s.ReloadErrors,
		s.Uptime.Round(time.Second))
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
