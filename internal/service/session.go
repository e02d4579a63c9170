package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/adapter"
	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/models"
	"golang.org/x/oauth2"
)

const (
	tokenPath = "/oauth/token"
	usersPath = "/users"

	grantPassword     = "password"
	grantRefreshToken = "refresh_token"
)

type session struct {
	transport   adapter.Transport
	credentials models.Credentials
	now         func() time.Time

	state atomic.Pointer[models.TokenState]
	// refreshMu serialises writers; readers go through state only.
	refreshMu sync.Mutex

	logger *logger.Logger
}

// NewSession creates a Session that talks to the token and users endpoints
// through transport. now is used to stamp TokenState.IssuedAt; nil means
// time.Now.
func NewSession(transport adapter.Transport, credentials models.Credentials, now func() time.Time, log *logger.Logger) Session {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}

	return &session{
		transport:   transport,
		credentials: credentials,
		now:         now,
		logger:      log,
	}
}

func (s *session) Login(ctx context.Context) (models.TokenState, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	form := url.Values{
		"grant_type": {grantPassword},
		"client_id":  {s.credentials.OAuthClientID()},
		"username":   {s.credentials.Username},
		"password":   {s.credentials.Password},
	}

	state, err := s.requestToken(ctx, form)
	if err != nil {
		return models.TokenState{}, fmt.Errorf("login: %w", err)
	}

	s.state.Store(&state)
	s.logger.Info().
		Str("username", s.credentials.Username).
		Int64("expires_in", state.ExpiresIn).
		Msg("logged in")

	return state, nil
}

func (s *session) Refresh(ctx context.Context) (models.TokenState, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	current, ok := s.Current()
	if !ok || current.RefreshToken == "" {
		return models.TokenState{}, fmt.Errorf("refresh: %w: %w", ErrAuth, ErrNotLoggedIn)
	}

	form := url.Values{
		"grant_type":    {grantRefreshToken},
		"client_id":     {s.credentials.OAuthClientID()},
		"refresh_token": {current.RefreshToken},
	}

	state, err := s.requestToken(ctx, form)
	if err != nil {
		return models.TokenState{}, fmt.Errorf("refresh: %w", err)
	}

	s.state.Store(&state)
	s.logger.Debug().
		Int64("expires_in", state.ExpiresIn).
		Msg("access token refreshed")

	return state, nil
}

func (s *session) ResolveAccount(ctx context.Context) (models.AccountContext, error) {
	current, ok := s.Current()
	if !ok {
		return models.AccountContext{}, fmt.Errorf("resolve account: %w: %w", ErrAuth, ErrNotLoggedIn)
	}

	resp, err := s.transport.Do(ctx, models.Request{
		Method: http.MethodGet,
		Path:   usersPath,
		Query:  url.Values{"access_token": {current.AccessToken}},
	})
	if err != nil {
		return models.AccountContext{}, fmt.Errorf("resolve account: %w: %w", ErrAuth, err)
	}

	var users models.UsersResponse
	if err = json.Unmarshal(resp.Raw, &users); err != nil {
		return models.AccountContext{}, fmt.Errorf("resolve account: %w: decode users: %w", ErrProtocol, err)
	}
	if len(users.Accounts) == 0 {
		return models.AccountContext{}, fmt.Errorf("resolve account: %w", ErrAccountResolution)
	}

	account := models.AccountContext{AccountID: users.Accounts[0].ID.String()}
	if account.AccountID == "" {
		return models.AccountContext{}, fmt.Errorf("resolve account: %w: empty account id", ErrProtocol)
	}

	return account, nil
}

func (s *session) Current() (models.TokenState, bool) {
	st := s.state.Load()
	if st == nil {
		return models.TokenState{}, false
	}
	return *st, true
}

// Token implements [oauth2.TokenSource] on top of the stored TokenState.
func (s *session) Token() (*oauth2.Token, error) {
	st, ok := s.Current()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return st.OAuth2(), nil
}

func (s *session) requestToken(ctx context.Context, form url.Values) (models.TokenState, error) {
	resp, err := s.transport.Do(ctx, models.Request{
		Method: http.MethodPost,
		Path:   tokenPath,
		Form:   form,
	})
	if err != nil {
		return models.TokenState{}, fmt.Errorf("%w: %w", ErrAuth, err)
	}

	state, err := parseTokenResponse(resp.Raw)
	if err != nil {
		return models.TokenState{}, err
	}
	state.IssuedAt = s.now()

	return state, nil
}

// tokenResponse mirrors the TrackVia token payload:
//
//	{"value": "...", "refreshToken": {"value": "..."}, "expires_in": 3600}
type tokenResponse struct {
	Value        *string         `json:"value"`
	RefreshToken json.RawMessage `json:"refreshToken"`
	ExpiresIn    *json.Number    `json:"expires_in"`
}

func parseTokenResponse(raw []byte) (models.TokenState, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tr tokenResponse
	if err := dec.Decode(&tr); err != nil {
		return models.TokenState{}, fmt.Errorf("%w: decode token response: %w", ErrProtocol, err)
	}

	if tr.Value == nil || *tr.Value == "" {
		return models.TokenState{}, fmt.Errorf("%w: token response has no value", ErrProtocol)
	}

	refreshToken, err := parseRefreshToken(tr.RefreshToken)
	if err != nil {
		return models.TokenState{}, err
	}

	if tr.ExpiresIn == nil {
		return models.TokenState{}, fmt.Errorf("%w: token response has no expires_in", ErrProtocol)
	}
	expiresIn, err := parseSeconds(*tr.ExpiresIn)
	if err != nil {
		return models.TokenState{}, fmt.Errorf("%w: expires_in: %w", ErrProtocol, err)
	}

	return models.TokenState{
		AccessToken:  *tr.Value,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// parseRefreshToken accepts both {"value": "..."} and a bare string.
func parseRefreshToken(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", fmt.Errorf("%w: token response has no refreshToken", ErrProtocol)
	}

	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Value == "" {
			return "", fmt.Errorf("%w: refreshToken has no value", ErrProtocol)
		}
		return obj.Value, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil || str == "" {
		return "", fmt.Errorf("%w: malformed refreshToken", ErrProtocol)
	}
	return str, nil
}

func parseSeconds(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return int64(f), nil
}
