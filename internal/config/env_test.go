// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG",
	"LOG_LEVEL",
	"TRACKVIA_URL",
	"TRACKVIA_USERNAME",
	"TRACKVIA_PASSWORD",
	"TRACKVIA_API_KEY",
	"TRACKVIA_CLIENT_ID",
	"TRACKVIA_REQUEST_TIMEOUT",
	"TRACKVIA_REFRESH_MARGIN",
}

// setEnvVars clears every variable the config reads, then sets vars. The
// previous values are restored by t.Setenv when the test ends.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG":                   "/path/to/config.json",
		"LOG_LEVEL":                "debug",
		"TRACKVIA_URL":             "https://go.trackvia.com",
		"TRACKVIA_USERNAME":        "user@example.com",
		"TRACKVIA_PASSWORD":        "secret",
		"TRACKVIA_API_KEY":         "key",
		"TRACKVIA_CLIENT_ID":       "custom",
		"TRACKVIA_REQUEST_TIMEOUT": "10s",
		"TRACKVIA_REFRESH_MARGIN":  "1m",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, "https://go.trackvia.com", cfg.API.URL)
	assert.Equal(t, "custom", cfg.API.ClientID)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)

	assert.Equal(t, "user@example.com", cfg.Auth.Username)
	assert.Equal(t, "secret", cfg.Auth.Password)
	assert.Equal(t, "key", cfg.Auth.APIKey)

	assert.Equal(t, time.Minute, cfg.Workers.RefreshMargin)
	assert.Equal(t, Command{}, cfg.Command)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"TRACKVIA_URL":     "https://go.trackvia.com",
		"TRACKVIA_API_KEY": "key",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://go.trackvia.com", cfg.API.URL)
	assert.Equal(t, "key", cfg.Auth.APIKey)
	assert.Empty(t, cfg.Auth.Username)
	assert.Zero(t, cfg.API.RequestTimeout)
	assert.Zero(t, cfg.Workers.RefreshMargin)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"TRACKVIA_REQUEST_TIMEOUT": "soon"})

	err := parseEnv(&StructuredConfig{})
	assert.Error(t, err)
}
