package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MKhiriev/trackvia-go/internal/config"
	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/models"
	"github.com/MKhiriev/trackvia-go/pkg/trackvia"
)

// Connector opens an authenticated session.
type Connector func(ctx context.Context, cfg trackvia.Config, opts ...trackvia.Option) (API, error)

// App runs one CLI command against TrackVia.
type App struct {
	cfg     *config.StructuredConfig
	connect Connector
	out     io.Writer

	logger *logger.Logger
}

// NewApp returns an App that writes command output to out.
func NewApp(cfg *config.StructuredConfig, out io.Writer, log *logger.Logger) *App {
	return &App{
		cfg:     cfg,
		connect: connect,
		out:     out,
		logger:  log,
	}
}

func connect(ctx context.Context, cfg trackvia.Config, opts ...trackvia.Option) (API, error) {
	c, err := trackvia.New(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Run logs in, executes the configured command and prints its body. With
// Watch set it then blocks until ctx is cancelled or a shutdown signal
// arrives. The session is always stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, stopSignals := NotifyShutdown(ctx)
	defer stopSignals()

	api, err := a.connect(ctx, a.trackviaConfig(),
		trackvia.WithLogger(a.logger.Logger),
		trackvia.WithRefreshErrorHandler(func(err error) {
			a.logger.Warn().Err(err).Msg("token refresh failed")
		}),
	)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer api.Stop()

	a.logger.Info().Str("account_id", api.AccountID()).Str("cmd", a.cfg.Command.Name).Msg("session opened")

	resp, err := a.execute(ctx, api)
	if err != nil {
		return fmt.Errorf("%s: %w", a.cfg.Command.Name, err)
	}
	if err = a.print(resp); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if !a.cfg.Command.Watch {
		return nil
	}

	a.logger.Info().Msg("watching, waiting for shutdown signal")
	<-ctx.Done()
	a.logger.Info().Msg("shutting down")

	return nil
}

func (a *App) trackviaConfig() trackvia.Config {
	return trackvia.Config{
		URL:            a.cfg.API.URL,
		Username:       a.cfg.Auth.Username,
		Password:       a.cfg.Auth.Password,
		APIKey:         a.cfg.Auth.APIKey,
		ClientID:       a.cfg.API.ClientID,
		RequestTimeout: a.cfg.API.RequestTimeout,
		RefreshMargin:  a.cfg.Workers.RefreshMargin,
	}
}

func (a *App) execute(ctx context.Context, api API) (models.Response, error) {
	cmd := a.cfg.Command

	switch cmd.Name {
	case config.CommandApps:
		return api.GetAllApps(ctx)
	case config.CommandViews:
		return api.GetAllViews(ctx)
	case config.CommandView:
		return api.GetView(ctx, cmd.ViewID)
	case config.CommandRecords:
		return api.GetAllRecords(ctx, cmd.ViewID, cmd.Start, cmd.Max)
	case config.CommandFind:
		return api.FindRecords(ctx, models.FindRecordsParams{
			ViewID: cmd.ViewID,
			Query:  cmd.Query,
			Start:  cmd.Start,
			Max:    cmd.Max,
		})
	case config.CommandRecord:
		return api.GetRecord(ctx, cmd.ViewID, cmd.RecordID)
	case config.CommandUsers:
		return api.GetUsers(ctx, models.ListUsersParams{Start: cmd.Start, Max: cmd.Max})
	default:
		return models.Response{}, fmt.Errorf("%w: unknown command %q", config.ErrInvalidCommandConfigs, cmd.Name)
	}
}

// print writes JSON bodies indented and anything else as is.
func (a *App) print(resp models.Response) error {
	if raw, ok := resp.Body.([]byte); ok {
		_, err := a.out.Write(raw)
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Body)
}
