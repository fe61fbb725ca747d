package column

// SelectColumnKey is the reserved key of the row-selection column.
// A column with this key always sorts first.
const SelectColumnKey = "select-row"

// DefaultMinWidth is the minimum width applied when neither the column nor
// the defaults declare one.
const DefaultMinWidth = 50

// CellKind identifies the kind of row a cell belongs to.
type CellKind uint8

const (
	CellHeader CellKind = iota
	CellRow
	CellSummary
)

// String implements fmt.Stringer.
func (k CellKind) String() string {
	switch k {
	case CellHeader:
		return "HEADER"
	case CellRow:
		return "ROW"
	case CellSummary:
		return "SUMMARY"
	default:
		return "UNKNOWN"
	}
}

// CellContext is passed to ColSpan. Row is nil for header cells.
type CellContext struct {
	Kind CellKind
	Row  any
}

// CellProps is handed to RenderCell and RenderSummaryCell.
type CellProps struct {
	Column     *Column
	Row        any
	RowIdx     int
	IsEditable bool
	Selected   bool
}

// EditProps is handed to RenderEditCell. OnRowChange updates the working
// copy; commit closes the editor and applies it. OnClose closes the editor,
// applying the working copy when commit is true.
type EditProps struct {
	Column      *Column
	Row         any
	RowIdx      int
	OnRowChange func(row any, commit bool)
	OnClose     func(commit bool)
}

// GroupCellProps is handed to RenderGroupCell.
type GroupCellProps struct {
	Column      *Column
	Row         any
	RowIdx      int
	GroupKey    any
	ChildRows   []any
	IsExpanded  bool
	IsCellFocus bool
	ToggleGroup func()
}

// HeaderProps is handed to RenderHeaderCell.
type HeaderProps struct {
	Column        *Column
	SortDirection string
	Priority      int
	Selected      bool
}

// Behavior holds the optional per-column capabilities. A nil slot falls back
// to the grid default.
type Behavior struct {
	// ColSpan returns how many columns a cell occupies.
	// Values other than integers greater than one mean "no span".
	ColSpan func(CellContext) int

	// Editable is a per-row editability predicate.
	Editable func(row any) bool

	// Value reads the cell value for display. The default looks the key up
	// on maps, Fielder implementations and struct fields.
	Value func(row any) any

	// CellClass returns an extra style class for a data cell.
	CellClass func(row any) string

	RenderCell        func(CellProps) any
	RenderEditCell    func(EditProps) any
	RenderGroupCell   func(GroupCellProps) any
	RenderHeaderCell  func(HeaderProps) any
	RenderSummaryCell func(CellProps) any
}

// EditorOptions tunes the editor lifecycle of a column.
type EditorOptions struct {
	// DisplayCellContent keeps the cell renderer visible under the editor.
	DisplayCellContent bool
	// CommitOnOutsideClick commits the edit when the pointer goes down
	// outside the editor. Nil means true.
	CommitOnOutsideClick *bool
}

// CommitsOnOutsideClick reports the resolved outside-click behavior.
func (o EditorOptions) CommitsOnOutsideClick() bool {
	return o.CommitOnOutsideClick == nil || *o.CommitOnOutsideClick
}

// Def is a raw column definition as supplied by the host.
type Def struct {
	Key  string
	Name string

	Width    Width
	MinWidth *int
	MaxWidth *int

	Frozen              bool
	Resizable           *bool
	Sortable            *bool
	SortDescendingFirst bool

	// EditableFlag is a static editability override; the Editable
	// predicate takes precedence per row.
	EditableFlag *bool

	Behavior
	EditorOptions EditorOptions
}

// Defaults supplies fallback options for every column.
type Defaults struct {
	Width      Width
	MinWidth   *int
	MaxWidth   *int
	Sortable   bool
	Resizable  bool
	RenderCell func(CellProps) any
}

// Column is a normalized column. Columns are produced by Compute and must
// be treated as read-only.
type Column struct {
	Key  string
	Name string
	Idx  int

	Width    Width
	MinWidth int
	// MaxWidth of zero means unbounded.
	MaxWidth int

	Frozen              bool
	IsLastFrozen        bool
	Resizable           bool
	Sortable            bool
	SortDescendingFirst bool
	EditableFlag        *bool

	Behavior
	EditorOptions EditorOptions
}

// HasColSpan reports whether the column declares a ColSpan function.
func (c *Column) HasColSpan() bool {
	return c.ColSpan != nil
}

// IsEditable reports whether the cell of row in this column can be edited.
// The column must have an edit renderer and neither the per-row predicate
// nor the static flag may say no.
func (c *Column) IsEditable(row any) bool {
	if c.RenderEditCell == nil {
		return false
	}
	if c.Editable != nil {
		return c.Editable(row)
	}
	return c.EditableFlag == nil || *c.EditableFlag
}

// Clamp clamps width to the column bounds.
func (c *Column) Clamp(width int) int {
	return ClampWidth(width, c.MinWidth, c.MaxWidth)
}

// GetColSpan returns the resolved span of the cell, or 0 when the cell does
// not span. A frozen column may not span past the frozen prefix.
func GetColSpan(c *Column, lastFrozenIndex int, ctx CellContext) int {
	if c.ColSpan == nil {
		return 0
	}
	span := c.ColSpan(ctx)
	if span <= 1 {
		return 0
	}
	if c.Frozen && c.Idx+span-1 > lastFrozenIndex {
		return 0
	}
	return span
}

// Ptr returns a pointer to v. It is a helper for optional Def fields.
func Ptr[T any](v T) *T {
	return &v
}
