package painter

import "github.com/dshills/gridstorm/internal/renderer/core"

// Theme holds the styles the painter draws with.
type Theme struct {
	Cell        core.Style
	Header      core.Style
	Summary     core.Style
	Frozen      core.Style
	RowSelected core.Style
	Selected    core.Style
	Editing     core.Style
	Copied      core.Style
	DraggedOver core.Style

	// Classes style cells by their class name. Styles are merged over the
	// row style.
	Classes map[string]core.Style

	Separator  rune
	DragHandle rune
}

// Cell classes with built-in meaning.
const (
	ClassNumber   = "number"
	ClassNegative = "negative"
	ClassPositive = "positive"
	ClassMuted    = "muted"
)

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Cell:        core.DefaultStyle(),
		Header:      core.DefaultStyle().Bold().Underline(),
		Summary:     core.DefaultStyle().Bold(),
		Frozen:      core.DefaultStyle().WithForeground(core.ColorCyan),
		RowSelected: core.DefaultStyle().WithBackground(core.ColorBlue),
		Selected:    core.DefaultStyle().Reverse(),
		Editing:     core.DefaultStyle().WithBackground(core.ColorGreen).WithForeground(core.ColorBlack),
		Copied:      core.DefaultStyle().Underline(),
		DraggedOver: core.DefaultStyle().Dim().WithBackground(core.ColorGray),
		Classes: map[string]core.Style{
			ClassNegative: core.DefaultStyle().WithForeground(core.ColorRed),
			ClassPositive: core.DefaultStyle().WithForeground(core.ColorGreen),
			ClassMuted:    core.DefaultStyle().Dim(),
		},
		Separator:  '│',
		DragHandle: '▪',
	}
}
