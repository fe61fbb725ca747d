package grid

// OpenEditor opens the editor on the selected cell if it is editable.
func (g *Grid) OpenEditor() bool {
	return g.nav.OpenEditor(g.context())
}

// EditRow updates the editor's working row. With commit set the row is
// reported through OnRowsChange and the editor closes.
func (g *Grid) EditRow(row any, commit bool) {
	if !g.nav.IsEditing() {
		return
	}
	g.nav.SetEditRow(row)
	if commit {
		g.CloseEditor(true)
	}
}

// CloseEditor closes the editor, committing the working row when commit is
// set.
func (g *Grid) CloseEditor(commit bool) {
	g.outside.Cancel()
	g.nav.CloseEditor(g.context(), commit)
}

// PointerDown reports a pointer press anywhere in the host while the editor
// is open. Unless the press is inside the editor, or the column opts out,
// the edit is committed and the editor closed on the next frame.
func (g *Grid) PointerDown(insideEditor bool) {
	s := g.nav.State()
	if !g.nav.IsEditing() {
		return
	}
	col := g.Layout().Column(s.Idx)
	if col == nil || !col.EditorOptions.CommitsOnOutsideClick() {
		return
	}
	g.outside.Cancel()
	g.outside = g.sched.Schedule(func() {
		g.CloseEditor(true)
	})
	if insideEditor {
		g.outside.Cancel()
	}
}

// closeStaleEditor drops an editor whose row was replaced underneath it.
func (g *Grid) closeStaleEditor() {
	if g.nav.CloseStaleEditor(g.context()) {
		g.outside.Cancel()
	}
}
