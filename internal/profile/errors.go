package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("profile not found")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrStorage wraps backend failures. Its cause is for logs only.
	ErrStorage = errors.New("profile storage failure")
)

// ValidationError reports malformed or missing fields, keyed by their JSON
// names.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, name := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

// NewValidationError creates a validation error.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
