package key

import "strings"

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewEvent creates a key event.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{Key: key, Rune: r, Modifiers: mods}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsRuneKey reports whether the event is the given character, ignoring case.
func (e Event) IsRuneKey(r rune) bool {
	if !e.IsRune() {
		return false
	}
	return strings.EqualFold(string(e.Rune), string(r))
}

// IsCtrlHeld reports whether Ctrl or Meta is held.
// Clipboard shortcuts accept either so they work on every platform.
func (e Event) IsCtrlHeld() bool {
	return e.Modifiers.HasCtrl() || e.Modifiers.HasMeta()
}

// HasShift reports whether Shift is held.
func (e Event) HasShift() bool {
	return e.Modifiers.HasShift()
}

// IsCellInput reports whether the key should open a cell editor.
// Navigation keys, Tab, Escape, Insert and function keys other than F2
// never start editing.
func (e Event) IsCellInput() bool {
	switch e.Key {
	case KeyNone, KeyEscape, KeyInsert, KeyTab:
		return false
	case KeyF2:
		return true
	}
	if e.Key.IsNavigationKey() || e.Key.IsFunctionKey() {
		return false
	}
	return true
}

// String returns a canonical string representation such as "Ctrl+Home",
// "Shift+Tab" or "a". The result can be parsed back with Parse.
func (e Event) String() string {
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}

	mods := e.Modifiers
	if e.Key == KeyRune && e.Rune != ' ' {
		// Shift is part of the character itself.
		mods = mods.Without(ModShift)
	}
	if mods == ModNone {
		return name
	}
	return mods.String() + "+" + name
}
