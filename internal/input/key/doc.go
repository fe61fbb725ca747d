// Package key provides key event types and parsing for grid input.
//
// This package defines the types the grid engine consumes for keyboard
// input:
//
//   - Key: identifies a keyboard key (navigation keys, editing keys or runes)
//   - Modifier: modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single key press with modifiers
//
// # Key Specifications
//
// Specifications are written as "Tab", "Shift+Tab", "Ctrl+Home" or "Ctrl+C".
// Parse turns them into events; tests and keymaps use them to describe
// input without building events by hand.
//
// # Cell Input
//
// Navigation keys move the selection. Every other key that is not a pure
// modifier or function key is "cell input" and opens the editor of an
// editable cell (see Event.IsCellInput).
package key
