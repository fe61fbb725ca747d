// Package deferred runs callbacks on the next frame of the host loop.
//
// A frame is one RunFrame call. Callbacks scheduled while a frame executes
// run on the following frame. A Handle cancels its callback if the frame has
// not run it yet.
//
// Thread-safety: All methods are safe for concurrent use. Callbacks run on
// the goroutine calling RunFrame and never while the scheduler lock is held.
package deferred

import (
	"sync"

	"github.com/google/uuid"
)

// Scheduler queues callbacks for the next frame.
type Scheduler struct {
	mu      sync.Mutex
	pending []*entry
}

type entry struct {
	id        string
	fn        func()
	cancelled bool
}

// Handle refers to one scheduled callback.
type Handle struct {
	s *Scheduler
	e *entry
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule queues fn for the next frame.
func (s *Scheduler) Schedule(fn func()) Handle {
	e := &entry{id: uuid.New().String(), fn: fn}
	s.mu.Lock()
	s.pending = append(s.pending, e)
	s.mu.Unlock()
	return Handle{s: s, e: e}
}

// Pending returns the number of callbacks waiting for a frame.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.pending {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// RunFrame executes the callbacks that were pending when it was called and
// returns how many ran.
func (s *Scheduler) RunFrame() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, e := range batch {
		s.mu.Lock()
		fn := e.fn
		skip := e.cancelled
		e.fn = nil
		s.mu.Unlock()
		if skip || fn == nil {
			continue
		}
		fn()
		ran++
	}
	return ran
}

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.pending {
		e.cancelled = true
	}
	s.pending = nil
}

// ID returns the handle's unique identifier.
func (h Handle) ID() string {
	if h.e == nil {
		return ""
	}
	return h.e.id
}

// Valid reports whether the handle refers to a scheduled callback.
func (h Handle) Valid() bool {
	return h.e != nil
}

// Cancel prevents the callback from running. It reports whether the callback
// was still pending.
func (h Handle) Cancel() bool {
	if h.e == nil {
		return false
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if h.e.cancelled || h.e.fn == nil {
		return false
	}
	h.e.cancelled = true
	return true
}
