package column

import (
	"fmt"
	"strconv"
	"strings"
)

// WidthKind distinguishes how a width was declared.
type WidthKind uint8

const (
	// WidthUnset means no width was declared; defaults apply.
	WidthUnset WidthKind = iota
	// WidthPx is a fixed width in pixels.
	WidthPx
	// WidthAuto sizes the column to its content and the remaining space.
	WidthAuto
	// WidthMaxContent sizes the column to its widest content.
	WidthMaxContent
)

// Width is a declared column width.
type Width struct {
	Kind WidthKind
	Px   int
}

// Px returns a fixed pixel width.
func Px(n int) Width {
	return Width{Kind: WidthPx, Px: n}
}

// Auto returns an auto width.
func Auto() Width {
	return Width{Kind: WidthAuto}
}

// MaxContent returns a max-content width.
func MaxContent() Width {
	return Width{Kind: WidthMaxContent}
}

// IsSet reports whether a width was declared.
func (w Width) IsSet() bool {
	return w.Kind != WidthUnset
}

// IsNumeric reports whether the width is a fixed pixel value.
func (w Width) IsNumeric() bool {
	return w.Kind == WidthPx
}

// Template returns the grid template track for the width.
func (w Width) Template() string {
	switch w.Kind {
	case WidthPx:
		return strconv.Itoa(w.Px) + "px"
	case WidthMaxContent:
		return "max-content"
	default:
		return "auto"
	}
}

// String implements fmt.Stringer.
func (w Width) String() string {
	if w.Kind == WidthUnset {
		return "unset"
	}
	return w.Template()
}

// ParseWidth parses "auto", "max-content", "120" or "120px".
// The empty string yields an unset width.
func ParseWidth(s string) (Width, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Width{}, nil
	case "auto":
		return Auto(), nil
	case "max-content":
		return MaxContent(), nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "px"))
	if err != nil || n < 0 {
		return Width{}, fmt.Errorf("invalid column width %q", s)
	}
	return Px(n), nil
}

// ClampWidth clamps width to [minWidth, maxWidth].
// A maxWidth of zero, or one smaller than minWidth, is ignored.
func ClampWidth(width, minWidth, maxWidth int) int {
	if width < minWidth {
		width = minWidth
	}
	if maxWidth > 0 && maxWidth >= minWidth && width > maxWidth {
		return maxWidth
	}
	return width
}

// Widths maps column keys to pixel widths.
// A Widths value is never mutated once published; use With and Without.
type Widths map[string]int

// Get returns the width for key.
func (w Widths) Get(key string) (int, bool) {
	v, ok := w[key]
	return v, ok
}

// Has reports whether key has a width.
func (w Widths) Has(key string) bool {
	_, ok := w[key]
	return ok
}

// With returns a copy of w with key set to width.
func (w Widths) With(key string, width int) Widths {
	out := make(Widths, len(w)+1)
	for k, v := range w {
		out[k] = v
	}
	out[key] = width
	return out
}

// Without returns a copy of w without key.
func (w Widths) Without(key string) Widths {
	out := make(Widths, len(w))
	for k, v := range w {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// Equal reports whether both tables hold the same entries.
func (w Widths) Equal(other Widths) bool {
	if len(w) != len(other) {
		return false
	}
	for k, v := range w {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
