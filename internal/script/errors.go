package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrEngineClosed is returned when operating on a closed engine.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrNoColumnsTable is returned when a script does not define columns.
	ErrNoColumnsTable = errors.New("script does not define a columns table")
)

// CapabilityError records the failure of one column capability.
type CapabilityError struct {
	Column     string
	Capability string
	Err        error
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("column %s: %s: %v", e.Column, e.Capability, e.Err)
}

// Unwrap returns the underlying error.
func (e *CapabilityError) Unwrap() error {
	return e.Err
}
