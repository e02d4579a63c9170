// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package fakeapi is an in-process stand-in for the TrackVia REST API.
//
// It implements the token endpoint with the TrackVia token wire format,
// issues HS256-signed JWT access tokens and checks them on every call, and
// keeps views, records, record files and users in memory. Tests mount
// [Server.Handler] on an httptest.Server and point the client at it.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	DefaultUsername  = "user@example.com"
	DefaultPassword  = "secret"
	DefaultAPIKey    = "api-key"
	DefaultClientID  = "TrackViaAPI"
	DefaultAccountID = "1234"
	DefaultExpiresIn = 3600
	DefaultViewID    = "1"
)

// Config describes the single account the fake server knows about.
type Config struct {
	Username  string
	Password  string
	APIKey    string
	ClientID  string
	AccountID string
	// ExpiresIn is the token lifetime reported in seconds. Zero means
	// DefaultExpiresIn; a negative value issues tokens without an exp claim
	// and reports a lifetime of zero.
	ExpiresIn int64
	// NoAccounts makes GET /users answer with an empty account list.
	NoAccounts bool
	// SignKey signs the access tokens. Empty means a fixed test key.
	SignKey string
	// Views are the views exposed by the server. Empty means a single
	// "Contacts" view with id DefaultViewID.
	Views []View
	// Now is used when issuing and checking tokens. Nil means time.Now.
	Now func() time.Time

	Logger *logger.Logger
}

// View is a view known to the fake server.
type View struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Server is the fake TrackVia API. It is safe for concurrent use.
type Server struct {
	cfg Config

	expiresIn   atomic.Int64
	failRefresh atomic.Bool
	logins      atomic.Int64
	refreshes   atomic.Int64

	mu            sync.Mutex
	refreshTokens map[string]string
	requests      []RecordedRequest
	data          *dataStore

	router *chi.Mux
}

// New returns a Server for cfg with defaults applied to empty fields.
func New(cfg Config) *Server {
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.Password == "" {
		cfg.Password = DefaultPassword
	}
	if cfg.APIKey == "" {
		cfg.APIKey = DefaultAPIKey
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.AccountID == "" {
		cfg.AccountID = DefaultAccountID
	}
	if cfg.ExpiresIn == 0 {
		cfg.ExpiresIn = DefaultExpiresIn
	}
	if cfg.SignKey == "" {
		cfg.SignKey = "fakeapi-sign-key"
	}
	if len(cfg.Views) == 0 {
		cfg.Views = []View{{ID: DefaultViewID, Name: "Contacts"}}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	s := &Server{
		cfg:           cfg,
		refreshTokens: make(map[string]string),
		data:          newDataStore(cfg.Views, cfg.Username),
	}
	s.expiresIn.Store(cfg.ExpiresIn)
	s.router = s.routes()

	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.record)
	router.Use(s.withRequestID)
	router.Use(s.withLogging)

	router.Post("/oauth/token", s.token)

	router.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/users", s.accounts)
	})

	router.Route("/openapi", func(r chi.Router) {
		r.Use(s.auth)
		r.Use(s.apiKey)

		r.Get("/apps", s.listApps)
		r.Get("/views", s.listViews)
		r.Route("/views/{viewID}", func(r chi.Router) {
			r.Use(s.knownView)

			r.Get("/", s.getView)
			r.Get("/find", s.findRecords)
			r.Post("/records", s.createRecords)
			r.Route("/records/{recordID}", func(r chi.Router) {
				r.Get("/", s.getRecord)
				r.Put("/", s.updateRecord)
				r.Delete("/", s.deleteRecord)
				r.Get("/files/{field}", s.getFile)
				r.Post("/files/{field}", s.attachFile)
				r.Delete("/files/{field}", s.deleteFile)
			})
		})
		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
	})

	return router
}

// SetExpiresIn changes the lifetime reported for tokens issued from now on.
func (s *Server) SetExpiresIn(seconds int64) {
	s.expiresIn.Store(seconds)
}

// FailRefresh makes refresh_token grants fail with 401 while fail is true.
func (s *Server) FailRefresh(fail bool) {
	s.failRefresh.Store(fail)
}

// Logins returns the number of successful password grants.
func (s *Server) Logins() int64 {
	return s.logins.Load()
}

// Refreshes returns the number of successful refresh_token grants.
func (s *Server) Refreshes() int64 {
	return s.refreshes.Load()
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request to path, if any.
func (s *Server) LastRequest(path string) (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

// SeedRecords stores rows in a view and returns their generated ids.
func (s *Server) SeedRecords(viewID string, rows ...map[string]any) []string {
	return s.data.insert(viewID, rows)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// withRequestID echoes the caller's X-Request-ID, minting one when absent,
// and attaches a request-scoped logger to the context.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.RequestIDHeader)
		if requestID == "" {
			requestID = utils.NewID()
		}

		l := s.cfg.Logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", requestID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(utils.RequestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Debug().
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Int("size", ww.BytesWritten()).
			Send()
	})
}
