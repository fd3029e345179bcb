package domain

import "fmt"

// ValidationError reports a malformed or incomplete raw forecast payload.
// It is raised before any risk computation; an invalid payload is never
// partially processed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid forecast payload: %s: %s", e.Field, e.Reason)
}
