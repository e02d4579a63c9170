package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/utils"
	"github.com/google/uuid"
)

const tokenIssuer = "fakeapi"

var (
	errInvalidGrant  = errors.New("invalid_grant")
	errInvalidClient = errors.New("invalid_client")
)

type tokenResponse struct {
	Value        string       `json:"value"`
	RefreshToken refreshValue `json:"refreshToken"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
}

type refreshValue struct {
	Value string `json:"value"`
}

// token serves POST /oauth/token for the password and refresh_token grants.
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if r.PostForm.Get("client_id") != s.cfg.ClientID {
		writeError(w, http.StatusUnauthorized, errInvalidClient.Error(), "unknown client")
		return
	}

	var (
		username string
		err      error
	)
	switch r.PostForm.Get("grant_type") {
	case "password":
		username, err = s.passwordGrant(r)
		if err == nil {
			s.logins.Add(1)
		}
	case "refresh_token":
		username, err = s.refreshGrant(r)
		if err == nil {
			s.refreshes.Add(1)
		}
	default:
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", r.PostForm.Get("grant_type"))
		return
	}
	if err != nil {
		writeError(w, http.StatusUnauthorized, errInvalidGrant.Error(), err.Error())
		return
	}

	resp, err := s.issue(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) passwordGrant(r *http.Request) (string, error) {
	if r.PostForm.Get("username") != s.cfg.Username || r.PostForm.Get("password") != s.cfg.Password {
		return "", errors.New("bad credentials")
	}
	return s.cfg.Username, nil
}

func (s *Server) refreshGrant(r *http.Request) (string, error) {
	if s.failRefresh.Load() {
		return "", errors.New("refresh disabled")
	}

	refresh := r.PostForm.Get("refresh_token")

	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.refreshTokens[refresh]
	if !ok {
		return "", errors.New("unknown refresh token")
	}
	delete(s.refreshTokens, refresh)

	return username, nil
}

// issue signs a new access token for username and stores a fresh refresh
// token for it.
func (s *Server) issue(username string) (tokenResponse, error) {
	expiresIn := max(s.expiresIn.Load(), 0)

	access, err := utils.GenerateJWTToken(tokenIssuer, username, s.cfg.Now(), time.Duration(expiresIn)*time.Second, s.cfg.SignKey)
	if err != nil {
		return tokenResponse{}, err
	}

	refresh := uuid.NewString()
	s.mu.Lock()
	s.refreshTokens[refresh] = username
	s.mu.Unlock()

	return tokenResponse{
		Value:        access.SignedString,
		RefreshToken: refreshValue{Value: refresh},
		ExpiresIn:    expiresIn,
		TokenType:    "bearer",
	}, nil
}

func (s *Server) validate(accessToken string) error {
	_, err := utils.ValidateAndParseJWTToken(accessToken, s.cfg.SignKey, tokenIssuer, s.cfg.Now)
	return err
}

// auth rejects requests whose access_token query parameter is missing or
// not a valid token issued by this server.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("access_token")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "invalid_token", "access_token is required")
			return
		}
		if err := s.validate(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// apiKey rejects requests without the configured user_key.
func (s *Server) apiKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_key") != s.cfg.APIKey {
			writeError(w, http.StatusForbidden, "invalid_user_key", "user_key is missing or wrong")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accounts serves GET /users, the account lookup done right after login.
func (s *Server) accounts(w http.ResponseWriter, _ *http.Request) {
	accounts := []map[string]any{}
	if !s.cfg.NoAccounts {
		var id any = s.cfg.AccountID
		if n, err := strconv.ParseInt(s.cfg.AccountID, 10, 64); err == nil {
			id = n
		}
		accounts = append(accounts, map[string]any{"id": id, "name": "Test Account"})
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	_, _ = utils.WriteJSON(w, v, status)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}
