// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the merged [StructuredConfig] is complete enough to
// open a session and run the selected command.
func (cfg *StructuredConfig) validate() error {
	if strings.TrimSpace(cfg.API.URL) == "" || cfg.API.RequestTimeout < 0 {
		return ErrInvalidAPIConfigs
	}

	if cfg.Auth.Username == "" || cfg.Auth.Password == "" || cfg.Auth.APIKey == "" {
		return ErrInvalidAuthConfigs
	}

	if cfg.Workers.RefreshMargin < 0 {
		return ErrInvalidWorkerConfigs
	}

	return cfg.Command.validate()
}

func (c Command) validate() error {
	if c.Start < 0 || c.Max < 0 {
		return fmt.Errorf("%w: negative paging", ErrInvalidCommandConfigs)
	}

	switch c.Name {
	case CommandApps, CommandViews, CommandUsers:
		return nil
	case CommandView, CommandRecords, CommandFind:
		if c.ViewID == "" {
			return fmt.Errorf("%w: %s requires -view", ErrInvalidCommandConfigs, c.Name)
		}
		return nil
	case CommandRecord:
		if c.ViewID == "" || c.RecordID == "" {
			return fmt.Errorf("%w: %s requires -view and -record", ErrInvalidCommandConfigs, c.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidCommandConfigs, c.Name)
	}
}
