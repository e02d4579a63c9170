package trackvia

import (
	"errors"

	"github.com/MKhiriev/trackvia-go/internal/adapter"
	"github.com/MKhiriev/trackvia-go/internal/service"
)

// Error classes, matched with errors.Is.
var (
	// ErrNetwork is a transport-level failure: DNS, connection, timeout.
	ErrNetwork = adapter.ErrNetwork
	// ErrProtocol is a response that lacks expected fields or is malformed.
	ErrProtocol = service.ErrProtocol
	// ErrAuth is a login or refresh that was rejected or failed.
	ErrAuth = service.ErrAuth
	// ErrAccountResolution means the authenticated user has no account.
	ErrAccountResolution = service.ErrAccountResolution
)

// HTTP status classes returned by endpoint calls alongside the response.
var (
	ErrBadRequest          = adapter.ErrBadRequest
	ErrUnauthorized        = adapter.ErrUnauthorized
	ErrForbidden           = adapter.ErrForbidden
	ErrNotFound            = adapter.ErrNotFound
	ErrConflict            = adapter.ErrConflict
	ErrInternalServerError = adapter.ErrInternalServerError
)

var (
	// ErrInvalidConfig is returned by New for incomplete configuration.
	ErrInvalidConfig = errors.New("invalid client configuration")
	// ErrMissingParameter is returned when a required identifier is empty.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrStopped is returned by calls made after Stop.
	ErrStopped = errors.New("client stopped")
)
