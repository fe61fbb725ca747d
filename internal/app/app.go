// Package app wires the grid engine to a terminal. It owns the event loop,
// the data source, the configuration watcher and the Lua column scripts.
package app

import (
	"sync/atomic"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/resize"
	"github.com/dshills/gridstorm/internal/input/mouse"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/renderer/painter"
	"github.com/dshills/gridstorm/internal/renderer/statusline"
	"github.com/dshills/gridstorm/internal/script"
	"github.com/dshills/gridstorm/internal/source/xlsx"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty uses the defaults.
	ConfigPath string
	// Config replaces loading ConfigPath when set.
	Config *config.Config

	// SourcePath and Sheet override the [source] section.
	SourcePath string
	Sheet      string

	// ExportPath overrides the export file of the [source] section.
	ExportPath string

	// ScriptPath overrides the [script] section.
	ScriptPath string

	// Watch reloads the configuration file when it changes.
	Watch bool

	// Columns and Rows replace the spreadsheet when Rows is set. Rows are
	// keyed by themselves unless they are sheet rows, so they must be
	// comparable.
	Columns []column.Def
	Rows    []any

	Backend backend.Backend
	Logger  *Logger
}

// App is the gridstorm application.
type App struct {
	opts    Options
	cfg     *config.Config
	keymap  *config.Keymap
	log     *Logger
	metrics *Metrics

	backend backend.Backend
	painter *painter.Painter
	status  *statusline.StatusLine

	grid    *grid.TreeGrid
	script  *script.Engine
	watcher *config.Watcher
	sheet   *xlsx.Sheet

	// sourceDefs are the columns before configuration is applied.
	sourceDefs []column.Def
	defs       []column.Def
	// rows is the source order; view is rows in sort order.
	rows    []any
	view    []any
	groupBy []string

	editor *cellEditor
	drag   *resize.Drag
	mouse  *mouse.Tracker

	running atomic.Bool
}

// New creates the application. The backend is not initialized until Run.
func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = NullLogger()
	}
	a := &App{
		opts:    opts,
		log:     opts.Logger.WithComponent("app"),
		metrics: NewMetrics(),
		backend: opts.Backend,
		status:  statusline.New(),
		mouse:   mouse.NewTracker(mouse.DefaultConfig()),
	}
	if err := a.bootstrap(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Grid returns the grid.
func (a *App) Grid() *grid.TreeGrid {
	return a.grid
}

// Rows returns the rows in source order.
func (a *App) Rows() []any {
	return a.rows
}

// Metrics returns the event loop metrics.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Status returns the status line.
func (a *App) Status() *statusline.StatusLine {
	return a.status
}

// Close releases the watcher, the script engine and the grid.
func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing watcher: %v", err)
		}
		a.watcher = nil
	}
	if a.script != nil {
		_ = a.script.Close()
		a.script = nil
	}
	if a.grid != nil {
		a.grid.Close()
	}
}
