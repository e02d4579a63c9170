package utils

import "github.com/google/uuid"

// RequestIDHeader is the header carrying the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// NewID returns a time-ordered UUIDv7 string, falling back to a random UUIDv4
// if the v7 generator fails.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
