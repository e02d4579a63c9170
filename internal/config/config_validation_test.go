// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *StructuredConfig {
	cfg := defaults()
	cfg.API.URL = "https://go.trackvia.com"
	cfg.Auth = Auth{Username: "user", Password: "pass", APIKey: "key"}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*StructuredConfig) {}},
		{name: "missing url", mutate: func(c *StructuredConfig) { c.API.URL = " " }, wantErr: ErrInvalidAPIConfigs},
		{name: "negative timeout", mutate: func(c *StructuredConfig) { c.API.RequestTimeout = -time.Second }, wantErr: ErrInvalidAPIConfigs},
		{name: "missing username", mutate: func(c *StructuredConfig) { c.Auth.Username = "" }, wantErr: ErrInvalidAuthConfigs},
		{name: "missing password", mutate: func(c *StructuredConfig) { c.Auth.Password = "" }, wantErr: ErrInvalidAuthConfigs},
		{name: "missing api key", mutate: func(c *StructuredConfig) { c.Auth.APIKey = "" }, wantErr: ErrInvalidAuthConfigs},
		{name: "negative margin", mutate: func(c *StructuredConfig) { c.Workers.RefreshMargin = -time.Second }, wantErr: ErrInvalidWorkerConfigs},
		{name: "unknown command", mutate: func(c *StructuredConfig) { c.Command.Name = "purge" }, wantErr: ErrInvalidCommandConfigs},
		{name: "view without id", mutate: func(c *StructuredConfig) { c.Command.Name = CommandView }, wantErr: ErrInvalidCommandConfigs},
		{name: "find without view", mutate: func(c *StructuredConfig) { c.Command.Name = CommandFind }, wantErr: ErrInvalidCommandConfigs},
		{
			name: "record without record id",
			mutate: func(c *StructuredConfig) {
				c.Command = Command{Name: CommandRecord, ViewID: "1"}
			},
			wantErr: ErrInvalidCommandConfigs,
		},
		{
			name: "record with ids",
			mutate: func(c *StructuredConfig) {
				c.Command = Command{Name: CommandRecord, ViewID: "1", RecordID: "2"}
			},
		},
		{name: "negative start", mutate: func(c *StructuredConfig) { c.Command.Start = -1 }, wantErr: ErrInvalidCommandConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
