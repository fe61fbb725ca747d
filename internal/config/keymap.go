package config

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/dshills/gridstorm/internal/input/key"
)

// Actions the host binds to keys. Grid keys (navigation, copy, paste and
// editing) are handled by the grid itself and cannot be rebound.
const (
	ActionQuit         = "quit"
	ActionSort         = "sort"
	ActionSortMulti    = "sort_multi"
	ActionToggleGroup  = "toggle_group"
	ActionAutoSize     = "autosize"
	ActionResetWidths  = "reset_widths"
	ActionWiden        = "widen"
	ActionNarrow       = "narrow"
	ActionSelectAll    = "select_all"
	ActionFillDown     = "fill_down"
	ActionReload       = "reload"
	ActionToggleSelect = "toggle_select"
	ActionExport       = "export"
)

var actions = map[string]string{
	ActionQuit:         "Ctrl+Q",
	ActionSort:         "Ctrl+S",
	ActionSortMulti:    "Ctrl+Alt+S",
	ActionToggleGroup:  "Ctrl+G",
	ActionAutoSize:     "Ctrl+W",
	ActionResetWidths:  "Ctrl+R",
	ActionWiden:        "Alt+Right",
	ActionNarrow:       "Alt+Left",
	ActionSelectAll:    "Ctrl+A",
	ActionFillDown:     "Ctrl+D",
	ActionReload:       "F5",
	ActionToggleSelect: "Alt+Space",
	ActionExport:       "Ctrl+E",
}

// IsAction reports whether name is a known action.
func IsAction(name string) bool {
	_, ok := actions[name]
	return ok
}

// Actions returns every action name in sorted order.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultKeys returns a fresh copy of the default bindings.
func DefaultKeys() map[string]string {
	keys := make(map[string]string, len(actions))
	for action, spec := range actions {
		keys[action] = spec
	}
	return keys
}

// Keymap resolves key events to actions.
type Keymap struct {
	bindings map[key.Event]string
}

// Keymap builds the lookup table of the configured bindings.
// An empty spec unbinds the action.
func (c *Config) Keymap() (*Keymap, error) {
	km := &Keymap{bindings: make(map[key.Event]string, len(c.Keys))}
	names := make([]string, 0, len(c.Keys))
	for action := range c.Keys {
		names = append(names, action)
	}
	sort.Strings(names)

	for _, action := range names {
		spec := c.Keys[action]
		if !IsAction(action) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
		}
		if spec == "" {
			continue
		}
		ev, err := parseBinding(spec)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", action, err)
		}
		if other, dup := km.bindings[ev]; dup {
			return nil, fmt.Errorf("%w: %s is bound to both %s and %s", ErrInvalidConfig, spec, other, action)
		}
		km.bindings[ev] = action
	}
	return km, nil
}

// Lookup returns the action bound to ev.
func (km *Keymap) Lookup(ev key.Event) (string, bool) {
	if km == nil {
		return "", false
	}
	action, ok := km.bindings[normalize(ev)]
	return action, ok
}

// Len returns the number of bindings.
func (km *Keymap) Len() int {
	if km == nil {
		return 0
	}
	return len(km.bindings)
}

func parseBinding(spec string) (key.Event, error) {
	ev, err := key.Parse(spec)
	if err != nil {
		return key.Event{}, err
	}
	return normalize(ev), nil
}

// normalize folds letter case so "Ctrl+S" matches however the terminal
// reports it.
func normalize(ev key.Event) key.Event {
	if ev.IsRune() {
		ev.Rune = unicode.ToLower(ev.Rune)
	}
	return ev
}
