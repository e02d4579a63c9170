package adapter

import "errors"

// ErrNetwork marks failures where no HTTP response was received: DNS
// resolution, connection setup, TLS, timeouts and cancelled contexts.
var ErrNetwork = errors.New("network error")

// Status errors returned together with the decoded [models.Response] when the
// server answers with a non-2xx code.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)
