// Package main is the entry point for the gridstorm spreadsheet viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gridstorm/internal/app"
	"github.com/dshills/gridstorm/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts     app.Options
	logFile  string
	logLevel string
	stats    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	logger, closeLog, err := openLogger(f.logFile, f.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	f.opts.Logger = logger

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	f.opts.Backend = term

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = application.Run(ctx)
	if f.stats {
		fmt.Fprintln(os.Stderr, application.Metrics().Snapshot())
	}
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openLogger writes logs to path. Without a path logging is disabled: the
// terminal belongs to the grid.
func openLogger(path, level string) (*app.Logger, func(), error) {
	if path == "" {
		return app.NullLogger(), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	cfg := app.DefaultLoggerConfig()
	cfg.Output = file
	cfg.Level = app.ParseLogLevel(level)
	return app.NewLogger(cfg), func() { _ = file.Close() }, nil
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.opts.Sheet, "sheet", "", "Worksheet to open (default: first)")
	flag.StringVar(&f.opts.Sheet, "s", "", "Worksheet to open (shorthand)")
	flag.StringVar(&f.opts.ExportPath, "export", "", "JSON file the export action writes")
	flag.StringVar(&f.opts.ExportPath, "o", "", "JSON file the export action writes (shorthand)")
	flag.StringVar(&f.opts.ScriptPath, "script", "", "Lua file with column functions")
	flag.BoolVar(&f.opts.Watch, "watch", false, "Reload the configuration file when it changes")
	flag.BoolVar(&f.opts.Watch, "w", false, "Reload the configuration file when it changes (shorthand)")
	flag.StringVar(&f.logFile, "log", "", "Write logs to this file")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.stats, "stats", false, "Print frame statistics on exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gridstorm - terminal data grid for spreadsheets and JSON records\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridstorm [options] [file.xlsx|file.json]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gridstorm sales.xlsx                  Open the first sheet\n")
		fmt.Fprintf(os.Stderr, "  gridstorm -s Q3 sales.xlsx            Open the Q3 sheet\n")
		fmt.Fprintf(os.Stderr, "  gridstorm -o out.json events.jsonl     Browse JSON Lines, export with Ctrl+E\n")
		fmt.Fprintf(os.Stderr, "  gridstorm -c grid.toml -w             Use and watch a configuration\n")
		fmt.Fprintf(os.Stderr, "  gridstorm --script cols.lua a.xlsx    Add scripted columns\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("gridstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		f.opts.SourcePath = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one data file, got %d\n", flag.NArg())
		os.Exit(1)
	}
	return f
}
