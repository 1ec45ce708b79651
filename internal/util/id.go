package util

import "github.com/google/uuid"

// NewID returns a random unique identifier, used for session tokens and
// request ids.
func NewID() string {
	return uuid.NewString()
}
