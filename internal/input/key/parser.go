package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Key names: "Enter", "Escape", "Tab", "Home", "PageDown", "Space"
//   - With modifiers: "Shift+Tab", "Ctrl+Home", "Ctrl+C", "Cmd+V"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	// A lone "+" is a character, not a separator.
	if spec == "+" || !strings.Contains(spec, "+") {
		return parseKey(spec, ModNone)
	}

	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]
	mods := ModNone
	if keyPart == "" && len(parts) >= 3 {
		// "Ctrl++"
		keyPart = "+"
		parts = parts[:len(parts)-1]
	}
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(keyPart, mods)
}

// parseKey parses a key part with already-known modifiers.
func parseKey(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	if strings.EqualFold(keyPart, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := FromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	switch {
	case mods.HasCtrl() || mods.HasMeta():
		// Shortcuts are case-insensitive.
		r = unicode.ToLower(r)
	case unicode.IsUpper(r):
		mods = mods.With(ModShift)
	}
	return NewRuneEvent(r, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code and tests.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}
