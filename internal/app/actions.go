package app

import (
	"github.com/dustin/go-humanize"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/selection"
	"github.com/dshills/gridstorm/internal/renderer/statusline"
	"github.com/dshills/gridstorm/internal/source/jsonrows"
)

// runAction executes a bound action.
func (a *App) runAction(action string) error {
	a.status.ClearMessage()
	sel := a.grid.Selection()
	idx := sel.Idx

	var err error
	switch action {
	case config.ActionQuit:
		return ErrQuit
	case config.ActionSort, config.ActionSortMulti:
		if idx >= 0 {
			err = a.grid.ToggleSort(idx, action == config.ActionSortMulti)
		}
	case config.ActionToggleGroup:
		a.toggleGroup(sel.RowIdx)
	case config.ActionAutoSize:
		if idx >= 0 {
			_, err = a.grid.AutoSizeColumn(idx)
		}
	case config.ActionResetWidths:
		a.grid.ResetColumnWidths()
	case config.ActionWiden:
		err = a.nudgeColumn(idx, 1)
	case config.ActionNarrow:
		err = a.nudgeColumn(idx, -1)
	case config.ActionSelectAll:
		a.toggleAllRows()
	case config.ActionFillDown:
		if !a.grid.FillToEnd() {
			a.status.SetMessage("nothing to fill", statusline.MessageInfo)
		}
	case config.ActionReload:
		err = a.Reload()
	case config.ActionExport:
		err = a.Export()
	case config.ActionToggleSelect:
		if row, ok := a.rowAt(sel.RowIdx); ok {
			a.selectRow(row, false)
		}
	}
	if err != nil {
		a.log.Warn("%s: %v", action, err)
		a.status.SetMessage(err.Error(), statusline.MessageError)
	}
	return nil
}

// toggleGroup expands or collapses the group at rowIdx, or the group
// holding the row at rowIdx.
func (a *App) toggleGroup(rowIdx int) {
	proj := a.grid.Projection()
	if g, ok := proj.GroupAt(rowIdx); ok {
		a.grid.ToggleGroup(g.ID)
		return
	}
	parent, ok := proj.Parent(rowIdx)
	if !ok {
		return
	}
	g, _ := proj.GroupAt(parent)
	a.grid.SelectCell(selection.Position{Idx: -1, RowIdx: parent}, false)
	a.grid.ToggleGroup(g.ID)
}

// nudgeColumn changes the width of the column at idx by delta cells.
func (a *App) nudgeColumn(idx, delta int) error {
	l := a.grid.Layout()
	if l.Column(idx) == nil {
		return nil
	}
	w := max(1, l.Metric(idx).Width+delta)
	_, err := a.grid.ResizeColumn(idx, column.Px(w))
	return err
}

// Export writes the rows in display order to the configured JSON file.
func (a *App) Export() error {
	path := a.cfg.Source.Export
	if path == "" {
		return ErrNoExport
	}
	keys := make([]string, 0, len(a.defs))
	for _, d := range a.defs {
		if d.Key != column.SelectColumnKey {
			keys = append(keys, d.Key)
		}
	}
	if err := jsonrows.Save(path, a.view, keys); err != nil {
		return NewOperationError("export", path, err)
	}
	a.status.SetMessage("exported "+humanize.Comma(int64(len(a.view)))+" rows to "+path, statusline.MessageInfo)
	a.log.Info("exported %d rows to %s", len(a.view), path)
	return nil
}

// Reload rereads the configuration file and the spreadsheet.
func (a *App) Reload() error {
	fromSheet := a.opts.Rows == nil && a.cfg.Source.Path != ""
	if a.opts.ConfigPath == "" && !fromSheet {
		return ErrNoSource
	}
	if a.opts.ConfigPath != "" {
		cfg, err := config.Load(a.opts.ConfigPath)
		a.applyReload(config.Reload{Config: cfg, Err: err})
		if err != nil {
			return err
		}
	}
	if a.opts.Rows != nil || a.cfg.Source.Path == "" {
		return nil
	}
	if err := a.loadData(); err != nil {
		return err
	}
	a.applyColumns()
	a.grid.SetRows(a.view)
	a.applySummary()
	a.status.SetSource(a.sourceName())
	a.status.SetMessage("reloaded "+a.sourceName(), statusline.MessageInfo)
	a.log.Info("reloaded %d rows", len(a.rows))
	return nil
}

// applyReload switches to a reloaded configuration. The grid is rebuilt
// with the rows, the sort and the selected rows it had.
func (a *App) applyReload(r config.Reload) {
	a.metrics.RecordReload(r.Err)
	if r.Err != nil {
		a.log.WithComponent("config").Warn("reload: %v", r.Err)
		a.status.SetMessage(r.Err.Error(), statusline.MessageError)
		return
	}
	cfg := r.Config
	a.applyOverrides(cfg)
	km, err := cfg.Keymap()
	if err != nil {
		a.status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	a.cfg, a.keymap = cfg, km
	if err := a.loadScript(); err != nil {
		a.log.WithComponent("script").Warn("%v", err)
		a.status.SetMessage(err.Error(), statusline.MessageError)
	}

	old := a.grid
	vp := old.Viewport()
	a.editor, a.drag = nil, nil
	a.groupBy = nil
	a.buildGrid(vp.Width, vp.Height)
	a.grid.SetSortColumns(old.SortColumns())
	a.grid.SetSelectedRows(old.SelectedRows())
	a.view = a.sorted(a.rows)
	a.grid.SetRows(a.view)
	old.Close()

	a.status.SetSource(a.sourceName())
	if msg, _ := a.status.Message(); msg == "" {
		a.status.SetMessage("configuration reloaded", statusline.MessageInfo)
	}
	a.log.WithComponent("config").Info("configuration reloaded")
}
