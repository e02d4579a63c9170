package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
type StructuredJSONConfig struct {
	API struct {
		URL            string   `json:"url"`
		ClientID       string   `json:"client_id"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"api,omitempty"`

	Auth struct {
		Username string `json:"username"`
		Password string `json:"password"`
		APIKey   string `json:"api_key"`
	} `json:"auth,omitempty"`

	Workers struct {
		RefreshMargin Duration `json:"refresh_margin"`
	} `json:"workers,omitempty"`

	LogLevel string `json:"log_level"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		API: API{
			URL:            jsonCfg.API.URL,
			ClientID:       jsonCfg.API.ClientID,
			RequestTimeout: time.Duration(jsonCfg.API.RequestTimeout),
		},
		Auth: Auth{
			Username: jsonCfg.Auth.Username,
			Password: jsonCfg.Auth.Password,
			APIKey:   jsonCfg.Auth.APIKey,
		},
		Workers: Workers{
			RefreshMargin: time.Duration(jsonCfg.Workers.RefreshMargin),
		},
		LogLevel: jsonCfg.LogLevel,
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
