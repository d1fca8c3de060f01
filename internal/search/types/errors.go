package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
)

// ValidationError reports missing or invalid input. No network call is made when it is returned.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, e.Fields[k])
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports that no region matched a destination query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no city region found for %q", e.Query)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UpstreamError reports a non-success response from the booking API.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Is matches ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
