package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/MKhiriev/trackvia-go/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func postForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func passwordForm() url.Values {
	return url.Values{
		"grant_type": {"password"},
		"client_id":  {DefaultClientID},
		"username":   {DefaultUsername},
		"password":   {DefaultPassword},
	}
}

func login(t *testing.T, s *Server) tokenResponse {
	t.Helper()
	rec := postForm(t, s.Handler(), passwordForm())
	require.Equal(t, http.StatusOK, rec.Code)

	var tok tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	return tok
}

func get(t *testing.T, h http.Handler, path string, q url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authQuery(tok tokenResponse) url.Values {
	return url.Values{"access_token": {tok.Value}, "user_key": {DefaultAPIKey}}
}

// ─────────────────────────────────────────────
// Token endpoint
// ─────────────────────────────────────────────

func TestToken_PasswordGrant(t *testing.T) {
	s := New(Config{})

	rec := postForm(t, s.Handler(), passwordForm())
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotEmpty(t, raw["value"])
	assert.EqualValues(t, DefaultExpiresIn, raw["expires_in"])
	refresh, ok := raw["refreshToken"].(map[string]any)
	require.True(t, ok, "refreshToken must be an object")
	assert.NotEmpty(t, refresh["value"])
	assert.EqualValues(t, 1, s.Logins())
}

func TestToken_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
		status int
	}{
		{"wrong password", func(f url.Values) { f.Set("password", "nope") }, http.StatusUnauthorized},
		{"wrong client", func(f url.Values) { f.Set("client_id", "other") }, http.StatusUnauthorized},
		{"unknown grant", func(f url.Values) { f.Set("grant_type", "implicit") }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{})
			form := passwordForm()
			tt.mutate(form)

			rec := postForm(t, s.Handler(), form)
			assert.Equal(t, tt.status, rec.Code)
			assert.Zero(t, s.Logins())
		})
	}
}

func TestToken_RefreshRotatesToken(t *testing.T) {
	s := New(Config{ExpiresIn: 60})
	first := login(t, s)
	assert.EqualValues(t, 60, first.ExpiresIn)

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {DefaultClientID},
		"refresh_token": {first.RefreshToken.Value},
	}
	rec := postForm(t, s.Handler(), form)
	require.Equal(t, http.StatusOK, rec.Code)

	var second tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.Value, second.Value)
	assert.NotEqual(t, first.RefreshToken.Value, second.RefreshToken.Value)
	assert.EqualValues(t, 1, s.Refreshes())

	// used refresh tokens are gone
	rec = postForm(t, s.Handler(), form)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToken_FailRefresh(t *testing.T) {
	s := New(Config{})
	tok := login(t, s)
	s.FailRefresh(true)

	rec := postForm(t, s.Handler(), url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {DefaultClientID},
		"refresh_token": {tok.RefreshToken.Value},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, s.Refreshes())
}

// ─────────────────────────────────────────────
// Auth middleware
// ─────────────────────────────────────────────

func TestAuth(t *testing.T) {
	s := New(Config{})
	tok := login(t, s)

	assert.Equal(t, http.StatusUnauthorized, get(t, s.Handler(), "/openapi/views", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		get(t, s.Handler(), "/openapi/views", url.Values{"access_token": {"garbage"}, "user_key": {DefaultAPIKey}}).Code)
	assert.Equal(t, http.StatusForbidden,
		get(t, s.Handler(), "/openapi/views", url.Values{"access_token": {tok.Value}}).Code)
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/openapi/views", authQuery(tok)).Code)
}

func TestRequestID(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/openapi/views", nil)
	req.Header.Set(utils.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(utils.RequestIDHeader))

	rec = get(t, s.Handler(), "/openapi/views", nil)
	assert.NotEmpty(t, rec.Header().Get(utils.RequestIDHeader))
}

func TestAccounts(t *testing.T) {
	t.Run("numeric id", func(t *testing.T) {
		s := New(Config{})
		tok := login(t, s)

		rec := get(t, s.Handler(), "/users", url.Values{"access_token": {tok.Value}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"accounts":[{"id":1234,"name":"Test Account"}]}`, rec.Body.String())
	})

	t.Run("no accounts", func(t *testing.T) {
		s := New(Config{NoAccounts: true})
		tok := login(t, s)

		rec := get(t, s.Handler(), "/users", url.Values{"access_token": {tok.Value}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"accounts":[]}`, rec.Body.String())
	})
}

// ─────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────

func TestFindRecords_FilterAndPage(t *testing.T) {
	s := New(Config{})
	tok := login(t, s)
	s.SeedRecords(DefaultViewID,
		map[string]any{"Name": "Alice"},
		map[string]any{"Name": "Bob"},
		map[string]any{"Name": "Alina"},
	)

	q := authQuery(tok)
	q.Set("q", "ali")
	rec := get(t, s.Handler(), "/openapi/views/1/find", q)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []map[string]any `json:"data"`
		TotalCount int              `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalCount)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Alice", body.Data[0]["Name"])

	q = authQuery(tok)
	q.Set("start", "1")
	q.Set("max", "1")
	rec = get(t, s.Handler(), "/openapi/views/1/find", q)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalCount)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Bob", body.Data[0]["Name"])
}

func TestUnknownView(t *testing.T) {
	s := New(Config{})
	tok := login(t, s)

	rec := get(t, s.Handler(), "/openapi/views/99", authQuery(tok))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecord(t *testing.T) {
	s := New(Config{})
	tok := login(t, s)
	ids := s.SeedRecords(DefaultViewID, map[string]any{"Name": "Alice"})
	require.Len(t, ids, 1)

	rec := get(t, s.Handler(), "/openapi/views/1/records/"+ids[0], authQuery(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"`+ids[0]+`","Name":"Alice"}}`, rec.Body.String())

	rec = get(t, s.Handler(), "/openapi/views/1/records/missing", authQuery(tok))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsRequestsAreRecorded(t *testing.T) {
	s := New(Config{})
	tok := login(t, s)

	get(t, s.Handler(), "/openapi/apps", authQuery(tok))

	last, ok := s.LastRequest("/openapi/apps")
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, tok.Value, last.Query.Get("access_token"))
	assert.Len(t, s.Requests(), 2)

	_, ok = s.LastRequest("/nowhere")
	assert.False(t, ok)
}
