package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/trackvia-go/internal/client"
	"github.com/MKhiriev/trackvia-go/internal/config"
	"github.com/MKhiriev/trackvia-go/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(2)
	}

	log := logger.NewClientLogger("trackvia-client", cfg.LogLevel)
	printBuildInfo()

	os.Exit(run(context.Background(), client.NewApp(cfg, os.Stdout, log), os.Stderr, log))
}

// run executes app and returns the process exit code.
func run(ctx context.Context, app client.Client, stderr io.Writer, log *logger.Logger) int {
	if err := app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Fprintf(os.Stderr, "Build version: %s\n", buildVersion)
	fmt.Fprintf(os.Stderr, "Build date: %s\n", buildDate)
	fmt.Fprintf(os.Stderr, "Build commit: %s\n", buildCommit)
}
