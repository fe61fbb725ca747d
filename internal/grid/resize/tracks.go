package resize

import (
	"sync"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// Track is one grid column track with the data needed to size it.
type Track struct {
	Template string
	Content  int
	Min      int
	Max      int
}

// Solve resolves track widths within available space. Fixed tracks keep
// their size, max-content tracks take their content width and auto tracks
// take their content width plus an even share of any space left over.
func Solve(tracks []Track, available int) []int {
	widths := make([]int, len(tracks))
	var autos []int
	used := 0
	for i, t := range tracks {
		w, err := column.ParseWidth(t.Template)
		switch {
		case err == nil && w.IsNumeric():
			widths[i] = w.Px
		case err == nil && w.Kind == column.WidthMaxContent:
			widths[i] = column.ClampWidth(t.Content, t.Min, t.Max)
		default:
			widths[i] = column.ClampWidth(t.Content, t.Min, t.Max)
			autos = append(autos, i)
		}
		used += widths[i]
	}

	free := available - used
	for free > 0 && len(autos) > 0 {
		share := max(free/len(autos), 1)
		var growable []int
		for _, i := range autos {
			if free == 0 {
				break
			}
			grow := min(share, free)
			if t := tracks[i]; t.Max > 0 && t.Max >= t.Min {
				grow = min(grow, t.Max-widths[i])
			}
			if grow <= 0 {
				continue
			}
			widths[i] += grow
			free -= grow
			if t := tracks[i]; t.Max <= 0 || t.Max < t.Min || widths[i] < t.Max {
				growable = append(growable, i)
			}
		}
		autos = growable
	}
	return widths
}

// TrackLayout emulates a grid container for hosts without a layout engine
// of their own. It implements Surface and Measurer.
type TrackLayout struct {
	mu        sync.Mutex
	tracks    []string
	columns   []*column.Column
	content   map[string]int
	available int
	widths    []int
}

// NewTrackLayout returns an empty track layout.
func NewTrackLayout() *TrackLayout {
	return &TrackLayout{content: map[string]int{}}
}

// SetColumns sets the columns, the intrinsic content widths of the ones that
// are rendered and the available width.
func (t *TrackLayout) SetColumns(cols []*column.Column, content map[string]int, available int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.columns = cols
	t.content = content
	t.available = available
	t.widths = nil
}

// SetTemplateColumns implements Surface.
func (t *TrackLayout) SetTemplateColumns(tracks []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracks = append(t.tracks[:0], tracks...)
	t.widths = nil
}

// Measure implements Measurer. Only columns with a content reading are
// measurable.
func (t *TrackLayout) Measure(key string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.content[key]; !ok {
		return 0, false
	}
	widths := t.solve()
	for i, c := range t.columns {
		if c.Key == key && i < len(widths) {
			return widths[i], true
		}
	}
	return 0, false
}

// Widths returns the solved width of every track.
func (t *TrackLayout) Widths() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.solve()...)
}

func (t *TrackLayout) solve() []int {
	if t.widths != nil {
		return t.widths
	}
	tracks := make([]Track, len(t.columns))
	for i, c := range t.columns {
		tpl := c.Width.Template()
		if i < len(t.tracks) {
			tpl = t.tracks[i]
		}
		tracks[i] = Track{Template: tpl, Content: t.content[c.Key], Min: c.MinWidth, Max: c.MaxWidth}
	}
	t.widths = Solve(tracks, t.available)
	return t.widths
}
