// Package statusline renders the one-line status bar below the grid.
package statusline

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/renderer/core"
)

// Modes shown at the left of the bar.
const (
	ModeSelect = "SELECT"
	ModeEdit   = "EDIT"
	ModeFill   = "FILL"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// SortKey is one entry of the active sort.
type SortKey struct {
	Name       string
	Descending bool
}

// StatusLine renders the bottom status line.
type StatusLine struct {
	mode   string
	source string

	// Selected position, 1-indexed. Zero hides the axis.
	row, col     int
	rows, cols   int
	selectedRows int
	sort         []SortKey

	message     string
	messageType MessageType

	modeStyles map[string]core.Style
	width      int
}

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{
		mode:       ModeSelect,
		modeStyles: defaultModeStyles(),
	}
}

func defaultModeStyles() map[string]core.Style {
	return map[string]core.Style{
		ModeSelect: core.DefaultStyle().Bold().WithBackground(core.ColorBlue).WithForeground(core.ColorWhite),
		ModeEdit:   core.DefaultStyle().Bold().WithBackground(core.ColorGreen).WithForeground(core.ColorBlack),
		ModeFill:   core.DefaultStyle().Bold().WithBackground(core.ColorMagenta).WithForeground(core.ColorWhite),
	}
}

// SetMode updates the displayed mode.
func (s *StatusLine) SetMode(mode string) {
	s.mode = mode
}

// SetSource updates the name of the data source.
func (s *StatusLine) SetSource(name string) {
	s.source = name
}

// SetPosition updates the selected position (1-indexed) and the totals.
func (s *StatusLine) SetPosition(row, col, rows, cols int) {
	s.row, s.col = row, col
	s.rows, s.cols = rows, cols
}

// SetSelectedRows updates the number of checked rows.
func (s *StatusLine) SetSelectedRows(n int) {
	s.selectedRows = n
}

// SetSort updates the active sort.
func (s *StatusLine) SetSort(keys []SortKey) {
	s.sort = append(s.sort[:0], keys...)
}

// SetMessage displays a status message in place of the source name.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Height returns the number of rows the status line uses.
func (s *StatusLine) Height() int {
	return 1
}

// Render draws the status line to the backend at the given row.
func (s *StatusLine) Render(b backend.Backend, row int) {
	barStyle := core.DefaultStyle().WithBackground(core.ColorGray).WithForeground(core.ColorWhite)
	b.Fill(core.RectFromSize(row, 0, 1, s.width), core.BlankCell(barStyle))

	modeStyle, ok := s.modeStyles[s.mode]
	if !ok {
		modeStyle = barStyle.Bold()
	}
	col := s.put(b, 0, row, " "+s.mode+" ", modeStyle, s.width)
	col++

	right := s.formatPosition()
	rightStart := s.width - core.StringWidth(right) - 1

	text, style := s.source, barStyle
	if s.message != "" {
		text, style = s.message, s.messageStyle(barStyle)
	}
	limit := s.width
	if rightStart > col {
		limit = rightStart - 1
	}
	s.put(b, col, row, text, style, limit)

	if rightStart > col {
		s.put(b, rightStart, row, right, barStyle, s.width)
	}
}

func (s *StatusLine) messageStyle(bar core.Style) core.Style {
	switch s.messageType {
	case MessageError:
		return bar.WithForeground(core.ColorRed).Bold()
	case MessageWarning:
		return bar.WithForeground(core.ColorYellow)
	default:
		return bar
	}
}

// put draws text from x, clipped at limit, and returns the next column.
func (s *StatusLine) put(b backend.Backend, x, row int, text string, style core.Style, limit int) int {
	if x >= limit {
		return x
	}
	text = core.Truncate(text, limit-x)
	for _, c := range core.CellsFromString(text, style) {
		b.SetCell(x, row, c)
		x++
	}
	return x
}

// formatPosition formats the right side, e.g. "▲amount ▼name | 3 sel | R 12/1,204 C 2/6".
func (s *StatusLine) formatPosition() string {
	var parts []string
	if len(s.sort) > 0 {
		keys := make([]string, len(s.sort))
		for i, k := range s.sort {
			arrow := "▲"
			if k.Descending {
				arrow = "▼"
			}
			keys[i] = arrow + k.Name
		}
		parts = append(parts, strings.Join(keys, " "))
	}
	if s.selectedRows > 0 {
		parts = append(parts, humanize.Comma(int64(s.selectedRows))+" sel")
	}
	if s.rows > 0 || s.cols > 0 {
		parts = append(parts, fmt.Sprintf("R %s/%s C %d/%d",
			axis(s.row), humanize.Comma(int64(s.rows)), s.col, s.cols))
	}
	return strings.Join(parts, " | ")
}

func axis(n int) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Comma(int64(n))
}
