package app

import (
	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/resize"
	"github.com/dshills/gridstorm/internal/renderer/painter"
	"github.com/dshills/gridstorm/internal/renderer/statusline"
	"github.com/dshills/gridstorm/internal/script"
	"github.com/dshills/gridstorm/internal/source/jsonrows"
	"github.com/dshills/gridstorm/internal/source/xlsx"
)

const (
	// selectColumnWidth fits "[x]" and the separator.
	selectColumnWidth = 4
	// resizeEdge is the width in cells of the header resize handle.
	resizeEdge = 1
)

// bootstrap initializes all components in dependency order.
func (a *App) bootstrap() error {
	// 1. Configuration
	cfg := a.opts.Config
	if cfg == nil {
		cfg = config.Default()
		if a.opts.ConfigPath != "" {
			loaded, err := config.Load(a.opts.ConfigPath)
			if err != nil {
				return NewComponentError("config", "load", err)
			}
			cfg = loaded
		}
	}
	a.applyOverrides(cfg)
	km, err := cfg.Keymap()
	if err != nil {
		return NewComponentError("config", "keymap", err)
	}
	a.cfg, a.keymap = cfg, km

	// 2. Column scripts. A broken script leaves the columns unscripted.
	if err := a.loadScript(); err != nil {
		a.log.WithComponent("script").Warn("%v", err)
		a.status.SetMessage(err.Error(), statusline.MessageError)
	}

	// 3. Data
	if err := a.loadData(); err != nil {
		return err
	}

	// 4. Grid
	a.buildGrid(0, 0)

	if a.backend != nil {
		a.painter = painter.New(a.backend)
	}

	// 5. Watcher
	if a.opts.Watch && a.opts.ConfigPath != "" {
		w, err := config.NewWatcher(a.opts.ConfigPath)
		if err != nil {
			return NewComponentError("config", "watch", err)
		}
		a.watcher = w
	}

	a.status.SetSource(a.sourceName())
	a.log.Info("loaded %d rows, %d columns", len(a.rows), len(a.defs))
	return nil
}

// buildGrid creates the grid from the active configuration.
func (a *App) buildGrid(width, height int) {
	a.grid = grid.NewTree(width, height, nil, a.gridOptions()...)
	a.grid.SetCallbacks(a.callbacks())
	a.applyColumns()
	a.grid.SetRows(a.view)
	a.applySummary()
}

func (a *App) gridOptions() []grid.Option {
	g := a.cfg.Grid
	opts := []grid.Option{
		grid.WithRowHeight(g.RowHeight),
		grid.WithDefaultColumnOptions(a.cfg.Defaults()),
		grid.WithVirtualization(g.Virtualize),
		grid.WithRTL(g.RTL),
		grid.WithTextMeasurer(resize.NewTextMeasurer(g.EastAsianWidth, g.CellPadding)),
		grid.WithRowKeyGetter(rowKey),
		grid.WithResizeEdge(resizeEdge),
	}
	if g.HeaderRowHeight > 0 {
		opts = append(opts, grid.WithHeaderRowHeight(g.HeaderRowHeight))
	}
	if g.SummaryRowHeight > 0 {
		opts = append(opts, grid.WithSummaryRowHeight(g.SummaryRowHeight))
	}
	return opts
}

// applyOverrides applies the command line settings on top of cfg.
func (a *App) applyOverrides(cfg *config.Config) {
	if a.opts.SourcePath != "" {
		cfg.Source.Path = a.opts.SourcePath
	}
	if a.opts.Sheet != "" {
		cfg.Source.Sheet = a.opts.Sheet
	}
	if a.opts.ExportPath != "" {
		cfg.Source.Export = a.opts.ExportPath
	}
	if a.opts.ScriptPath != "" {
		cfg.Script.Path = a.opts.ScriptPath
	}
}

func (a *App) sourceName() string {
	switch {
	case a.sheet != nil && a.sheet.Name != "":
		return a.cfg.Source.Path + " [" + a.sheet.Name + "]"
	case a.cfg.Source.Path != "":
		return a.cfg.Source.Path
	default:
		return "[no source]"
	}
}

// loadScript replaces the script engine with a fresh one running the
// configured file.
func (a *App) loadScript() error {
	path := a.cfg.Script.Path
	if path == "" {
		if a.script != nil {
			_ = a.script.Close()
			a.script = nil
		}
		return nil
	}
	eng := script.New()
	if err := eng.LoadFile(path); err != nil {
		_ = eng.Close()
		return NewOperationError("script", path, err)
	}
	if a.script != nil {
		_ = a.script.Close()
	}
	a.script = eng
	a.log.WithComponent("script").Info("scripted %d columns from %s", eng.Columns(), path)
	return nil
}

// loadData reads the rows and the source columns.
func (a *App) loadData() error {
	switch {
	case a.opts.Rows != nil:
		a.sourceDefs = a.opts.Columns
		a.setRows(a.opts.Rows)
	case a.cfg.Source.Path != "":
		defs, rows, err := a.readSource()
		if err != nil {
			return NewOperationError("load", a.cfg.Source.Path, err)
		}
		a.sourceDefs = defs
		a.setRows(rows)
	default:
		a.sourceDefs = a.opts.Columns
		a.setRows(nil)
	}
	return nil
}

// readSource reads the configured file as JSON records or as a workbook.
func (a *App) readSource() ([]column.Def, []any, error) {
	src := a.cfg.Source
	if ok, lines := jsonrows.IsJSON(src.Path); ok {
		t, err := jsonrows.Open(src.Path, jsonrows.Options{
			Path:    src.Records,
			Include: src.Fields,
			Lines:   lines,
		})
		if err != nil {
			return nil, nil, err
		}
		a.sheet = nil
		return t.Columns, t.Rows, nil
	}
	sheet, err := xlsx.Open(src.Path, xlsx.Options{
		Sheet:     src.Sheet,
		HeaderRow: src.HeaderRow,
	})
	if err != nil {
		return nil, nil, err
	}
	a.sheet = sheet
	return sheet.Columns, sheet.Rows, nil
}

func (a *App) setRows(rows []any) {
	a.rows = rows
	a.view = rows
	if a.grid != nil {
		a.view = a.sorted(rows)
	}
}

// buildDefs merges the source columns with the configured ones. Configured
// columns come first in their configured order; the rest of the source
// columns follow unless any column is configured.
func (a *App) buildDefs() []column.Def {
	byKey := make(map[string]column.Def, len(a.sourceDefs))
	for _, d := range a.sourceDefs {
		byKey[d.Key] = d
	}

	var defs []column.Def
	formats := make(map[string]string)
	if len(a.cfg.Columns) == 0 {
		defs = append(defs, a.sourceDefs...)
	}
	for _, cc := range a.cfg.Columns {
		d, err := cc.Def()
		if err != nil {
			// Validate rejects unparsable widths before we get here.
			continue
		}
		if src, ok := byKey[cc.Key]; ok {
			d.ColSpan = src.ColSpan
			d.Value = src.Value
			if cc.Width == "" {
				d.Width = src.Width
			}
			if cc.Name == "" && src.Name != "" {
				d.Name = src.Name
			}
		}
		if cc.Editable {
			d.RenderEditCell = a.renderEditor
		}
		formats[cc.Key] = cc.Format
		defs = append(defs, withFormat(d, cc.Format))
	}

	if a.script != nil {
		defs = a.script.Apply(defs)
	}
	if a.cfg.Grid.Summary {
		for i := range defs {
			defs[i].RenderSummaryCell = renderSummary(formats[defs[i].Key])
		}
	}
	if a.cfg.Grid.SelectColumn {
		defs = append([]column.Def{column.SelectColumn(selectColumnWidth)}, defs...)
	}
	return defs
}

// applyColumns pushes the merged columns and the group-by keys.
func (a *App) applyColumns() {
	a.defs = a.buildDefs()
	a.grid.SetColumns(a.defs)
	if a.groupBy == nil {
		a.groupBy = append([]string(nil), a.cfg.Grid.GroupBy...)
	}
	a.grid.SetGroupBy(a.groupBy, nil)
}

// applySummary recomputes the bottom summary row.
func (a *App) applySummary() {
	if !a.cfg.Grid.Summary {
		a.grid.SetSummaryRows(nil, nil)
		return
	}
	a.grid.SetSummaryRows(nil, []any{summaryRow(a.rows, a.defs)})
}
