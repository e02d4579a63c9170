package service

import "errors"

var (
	// ErrAuth means the token endpoint rejected a login or refresh, or could
	// not be reached. Transport failures stay matchable with adapter.ErrNetwork.
	ErrAuth = errors.New("authentication failed")

	// ErrProtocol means a response was received but lacked expected fields or
	// could not be decoded.
	ErrProtocol = errors.New("unexpected response")

	// ErrAccountResolution means the authenticated user has no account.
	ErrAccountResolution = errors.New("no account for user")

	// ErrNotLoggedIn is returned by operations that need a token before Login
	// has succeeded.
	ErrNotLoggedIn = errors.New("session is not logged in")
)
