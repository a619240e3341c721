package planner

import "fmt"

// ValidationError reports an entity that could not be constructed because a
// required field was missing or invalid. Err is usually a criterio.FieldErrors
// listing each failing field.
type ValidationError struct {
	Entity string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Entity, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
