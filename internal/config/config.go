// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Defaults applied before any other source.
const (
	DefaultClientID       = "TrackViaAPI"
	DefaultRequestTimeout = 30 * time.Second
	DefaultRefreshMargin  = 15 * time.Second
	DefaultLogLevel       = "info"
	DefaultCommand        = CommandApps
)

// Commands understood by the CLI.
const (
	CommandApps    = "apps"
	CommandViews   = "views"
	CommandView    = "view"
	CommandRecords = "records"
	CommandFind    = "find"
	CommandRecord  = "record"
	CommandUsers   = "users"
)

// StructuredConfig is the top-level configuration of the trackvia CLI. It is
// populated by merging defaults, an optional JSON file, environment variables
// and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// API holds where and how requests are sent.
	API API `envPrefix:"TRACKVIA_"`

	// Auth holds the account credentials.
	Auth Auth `envPrefix:"TRACKVIA_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"TRACKVIA_"`

	// Command selects what the CLI does once the client is up. Flags only.
	Command Command

	// LogLevel is a zerolog level name.
	// Env: LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// API holds the TrackVia endpoint settings.
type API struct {
	// URL is the API root, e.g. "https://go.trackvia.com".
	// Env: TRACKVIA_URL
	URL string `env:"URL"`

	// ClientID is the OAuth client id sent on token requests.
	// Env: TRACKVIA_CLIENT_ID
	ClientID string `env:"CLIENT_ID"`

	// RequestTimeout bounds every HTTP round trip (e.g. "30s").
	// Env: TRACKVIA_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Auth holds the credentials used for the password grant and the API key
// sent with every call.
type Auth struct {
	// Env: TRACKVIA_USERNAME
	Username string `env:"USERNAME"`
	// Env: TRACKVIA_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: TRACKVIA_API_KEY
	APIKey string `env:"API_KEY"`
}

// Workers holds background job settings.
type Workers struct {
	// RefreshMargin is how long before expiry the access token is renewed.
	// Env: TRACKVIA_REFRESH_MARGIN
	RefreshMargin time.Duration `env:"REFRESH_MARGIN"`
}

// Command is the CLI command and its arguments.
type Command struct {
	Name     string
	ViewID   string
	RecordID string
	Query    string
	Start    int
	Max      int
	// Watch keeps the client running after the command until the process
	// receives SIGINT or SIGTERM.
	Watch bool
}

func defaults() *StructuredConfig {
	return &StructuredConfig{
		API: API{
			ClientID:       DefaultClientID,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers:  Workers{RefreshMargin: DefaultRefreshMargin},
		Command:  Command{Name: DefaultCommand},
		LogLevel: DefaultLogLevel,
	}
}

// GetStructuredConfig loads, merges, and validates the configuration. Sources
// are applied in this order, later non-zero fields winning:
//  1. Defaults
//  2. JSON file (path from CONFIG or -c / -config)
//  3. Environment variables
//  4. Command-line flags parsed from args
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
