package app

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to a
	// different user. The two cases are deliberately indistinguishable so a
	// caller cannot probe whether a foreign id exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords. This message is shown to end users and must not enable
	// account enumeration.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrUsernameTaken = errors.New("username already exists")
)

// ValidationError reports malformed or missing input with field-level detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
