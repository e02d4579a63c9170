package trackvia

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/adapter"
	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/internal/service"
	"github.com/MKhiriev/trackvia-go/internal/workers"
	"github.com/MKhiriev/trackvia-go/models"
	"golang.org/x/oauth2"
)

// Config holds what New needs to open a session.
type Config struct {
	// URL is the API root, e.g. "https://go.trackvia.com". Required.
	URL string
	// Username and Password are used for the initial password grant. Required.
	Username string
	Password string
	// APIKey is sent as user_key on every call. Required.
	APIKey string
	// ClientID is the OAuth client id. Empty means models.DefaultClientID.
	ClientID string
	// RequestTimeout bounds each HTTP round trip. Zero means no client-side
	// timeout beyond the http.Client defaults.
	RequestTimeout time.Duration
	// RefreshMargin is how long before expiry the token is renewed. Zero
	// means 15 seconds.
	RefreshMargin time.Duration
}

func (c Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "url")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.APIKey == "" {
		missing = append(missing, "api key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	if c.RequestTimeout < 0 || c.RefreshMargin < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	return nil
}

// Client is an authenticated TrackVia API client. It is safe for concurrent
// use. Create it with New and release it with Stop.
type Client struct {
	transport adapter.Transport
	session   service.Session
	workers   *workers.Workers

	apiKey  string
	account models.AccountContext

	stopped atomic.Bool
	logger  *logger.Logger
}

// New logs in, resolves the user's account and starts the background token
// refresh, in that order. If any step fails the error is returned and no
// client is created.
//
// ctx bounds the login and account requests only; the refresh job keeps
// running after ctx is cancelled until Stop is called.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger.WithComponent("trackvia")

	transport := o.transport
	if transport == nil {
		var err error
		transport, err = adapter.NewHTTPTransport(adapter.HTTPTransportConfig{
			BaseURL:    cfg.URL,
			Timeout:    cfg.RequestTimeout,
			HTTPClient: o.httpClient,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	creds := models.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		ClientID: cfg.ClientID,
		APIKey:   cfg.APIKey,
	}
	session := service.NewSession(transport, creds, o.clock.Now, log)

	state, err := session.Login(ctx)
	if err != nil {
		transport.Close()
		return nil, err
	}

	account, err := session.ResolveAccount(ctx)
	if err != nil {
		transport.Close()
		return nil, err
	}

	job := service.NewRefreshJob(session, service.RefreshJobConfig{
		Margin:  cfg.RefreshMargin,
		Clock:   o.clock,
		OnError: o.onRefreshError,
	}, o.logger.WithComponent("refresh"))

	c := &Client{
		transport: transport,
		session:   session,
		workers:   workers.New(job),
		apiKey:    cfg.APIKey,
		account:   account,
		logger:    log,
	}
	c.workers.Run(context.WithoutCancel(ctx))

	log.Info().
		Str("account_id", account.AccountID).
		Time("token_expiry", state.Expiry()).
		Msg("client started")

	return c, nil
}

// Stop cancels the pending token refresh and releases idle connections.
// It is safe to call more than once; calls after the first do nothing.
// Endpoint calls made after Stop fail with ErrStopped.
func (c *Client) Stop() {
	c.stopped.Store(true)
	if !c.workers.Stop() {
		return
	}
	c.transport.Close()
	c.logger.Info().Msg("client stopped")
}

// AccountID returns the id of the account resolved at login.
func (c *Client) AccountID() string {
	return c.account.AccountID
}

// Token returns a snapshot of the current token state.
func (c *Client) Token() models.TokenState {
	st, _ := c.session.Current()
	return st
}

// TokenSource exposes the session's current token as an oauth2.TokenSource.
// The source never refreshes on its own; renewal is done by the client.
func (c *Client) TokenSource() oauth2.TokenSource {
	return c.session
}

// do sends req with the token that is current at this moment and the API
// key added to its query.
func (c *Client) do(ctx context.Context, req models.Request) (models.Response, error) {
	if c.stopped.Load() {
		return models.Response{}, ErrStopped
	}

	state, ok := c.session.Current()
	if !ok || state.IsZero() {
		return models.Response{}, fmt.Errorf("%w: %w", ErrAuth, service.ErrNotLoggedIn)
	}

	query := make(url.Values, len(req.Query)+2)
	for k, v := range req.Query {
		query[k] = append([]string(nil), v...)
	}
	query.Set("access_token", state.AccessToken)
	query.Set("user_key", c.apiKey)
	req.Query = query

	return c.transport.Do(ctx, req)
}
