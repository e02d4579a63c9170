package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// ParseFlags parses all configuration flags from args (without the program
// name).
//
// Flags:
//
//	-u / -url          TrackVia API root
//	-username          account username
//	-password          account password
//	-apikey            API key sent as user_key
//	-client-id         OAuth client id
//	-request-timeout   request timeout (e.g., "30s")
//	-refresh-margin    renew the token this long before expiry (e.g., "15s")
//	-log-level         zerolog level name
//	-c / -config       json file path with configs
//	-cmd               apps|views|view|records|find|record|users
//	-view, -record     view and record ids for the command
//	-q                 search text for find
//	-start, -max       paging for records, find and users
//	-watch             keep running until SIGINT/SIGTERM
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		cfg            StructuredConfig
		requestTimeout time.Duration
		refreshMargin  time.Duration
	)

	fs := flag.NewFlagSet(programName(), flag.ContinueOnError)

	fs.StringVar(&cfg.API.URL, "u", "", "TrackVia API URL")
	fs.StringVar(&cfg.API.URL, "url", "", "TrackVia API URL (alias)")
	fs.StringVar(&cfg.Auth.Username, "username", "", "Account username")
	fs.StringVar(&cfg.Auth.Password, "password", "", "Account password")
	fs.StringVar(&cfg.Auth.APIKey, "apikey", "", "API key (user_key)")
	fs.StringVar(&cfg.API.ClientID, "client-id", "", "OAuth client id")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&refreshMargin, "refresh-margin", 0, "Token refresh margin (e.g., 15s)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")

	fs.StringVar(&cfg.Command.Name, "cmd", "", "Command: apps, views, view, records, find, record, users")
	fs.StringVar(&cfg.Command.ViewID, "view", "", "View id")
	fs.StringVar(&cfg.Command.RecordID, "record", "", "Record id")
	fs.StringVar(&cfg.Command.Query, "q", "", "Search text for find")
	fs.IntVar(&cfg.Command.Start, "start", 0, "Paging offset")
	fs.IntVar(&cfg.Command.Max, "max", 0, "Page size (0 means 50)")
	fs.BoolVar(&cfg.Command.Watch, "watch", false, "Keep running until interrupted")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.API.RequestTimeout = requestTimeout
	cfg.Workers.RefreshMargin = refreshMargin

	return &cfg, nil
}

func programName() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "trackvia"
}
