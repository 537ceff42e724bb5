package service

import (
	"fmt"
)

// ValidationError represents malformed or out-of-range input. The request
// that raised it has no side effect.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
