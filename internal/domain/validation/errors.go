// Package validation holds the field-level error type shared by every domain.
package validation

import (
	"sort"
	"strings"
)

// Errors maps an input field to a user-facing message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records the first message for field.
func (e Errors) Add(field, message string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = message
}

// Err returns nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Field builds a single-field error.
func Field(field, message string) Errors {
	return Errors{field: message}
}
