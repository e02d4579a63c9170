package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAPIConfigs indicates a missing API URL or a negative request
	// timeout.
	ErrInvalidAPIConfigs = errors.New("invalid api configuration")
	// ErrInvalidAuthConfigs indicates a missing username, password or API key.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidWorkerConfigs indicates a negative refresh margin.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidCommandConfigs indicates an unknown command or missing
	// command arguments.
	ErrInvalidCommandConfigs = errors.New("invalid command configuration")
)
