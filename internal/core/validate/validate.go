// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Name validates a name is non-empty after trimming whitespace.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// NameField returns a criterio validator for entity names.
func NameField(field, name string) error {
	return criterio.Run(field, name, Name)
}

// Reference validates that an id reference is set.
func Reference(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("reference is required")
	}
	return nil
}

// NonNegative validates a count or minute value is zero or greater.
func NonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

// UserID validates a sign-in identity: non-empty and free of whitespace.
func UserID(id string) error {
	if id == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("user id must not contain whitespace")
	}
	return nil
}
