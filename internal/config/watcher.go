package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay is the quiet period after the last file event before
// the configuration is reloaded.
const DefaultReloadDelay = 100 * time.Millisecond

// Reload carries the outcome of reloading the watched file.
type Reload struct {
	Config *Config
	Err    error
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDelay sets the debounce delay.
func WithReloadDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// Watcher reloads a configuration file when it changes on disk.
//
// The directory containing the file is watched, so editors that replace the
// file through a rename are observed too. Bursts of events are coalesced into
// a single reload after the quiet period. Only the latest Reload is kept when
// the host falls behind.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	path    string
	delay   time.Duration
	timer   *time.Timer
	seq     uint64
	closed  bool
	reloads chan Reload
	errors  chan error
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", abs, err)
	}

	w := &Watcher{
		fsw:     fsw,
		path:    abs,
		delay:   DefaultReloadDelay,
		reloads: make(chan Reload, 1),
		errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the channel of reload outcomes.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. A pending reload is discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// schedule restarts the quiet period.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.seq++
	seq := w.seq
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		current := !w.closed && w.seq == seq
		w.mu.Unlock()
		if current {
			w.reload()
		}
	})
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	r := Reload{Config: cfg, Err: err}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	// Replace a reload the host has not consumed yet.
	select {
	case <-w.reloads:
	default:
	}
	w.reloads <- r
}
