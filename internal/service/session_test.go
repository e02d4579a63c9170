package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/adapter"
	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/internal/mock"
	"github.com/MKhiriev/trackvia-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testIssuedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestSession(t *testing.T, ctrl *gomock.Controller) (*session, *mock.MockTransport) {
	t.Helper()
	transport := mock.NewMockTransport(ctrl)
	creds := models.Credentials{Username: "alice", Password: "secret", APIKey: "key"}

	s := NewSession(transport, creds, func() time.Time { return testIssuedAt }, logger.Nop()).(*session)
	return s, transport
}

func tokenBody(access, refresh string, expiresIn int) models.Response {
	raw := fmt.Sprintf(`{"value":%q,"refreshToken":{"value":%q},"expires_in":%d}`, access, refresh, expiresIn)
	return models.Response{StatusCode: http.StatusOK, Raw: []byte(raw)}
}

// ── Login ───────────────────────────────────────────────────────────────────

func TestSession_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)
	ctx := context.Background()

	transport.EXPECT().Do(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.Request) (models.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/oauth/token", req.Path)
			assert.Equal(t, "password", req.Form.Get("grant_type"))
			assert.Equal(t, models.DefaultClientID, req.Form.Get("client_id"))
			assert.Equal(t, "alice", req.Form.Get("username"))
			assert.Equal(t, "secret", req.Form.Get("password"))
			return tokenBody("access-1", "refresh-1", 3600), nil
		},
	)

	got, err := s.Login(ctx)
	require.NoError(t, err)

	want := models.TokenState{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
		IssuedAt:     testIssuedAt,
	}
	assert.Equal(t, want, got)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, want, current)
}

func TestSession_Login_PlainStringRefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)

	transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(models.Response{
		StatusCode: http.StatusOK,
		Raw:        []byte(`{"value":"a","refreshToken":"r","expires_in":"40"}`),
	}, nil)

	got, err := s.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)
	assert.Equal(t, int64(40), got.ExpiresIn)
}

func TestSession_Login_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)

	transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(
		models.Response{StatusCode: http.StatusUnauthorized},
		fmt.Errorf("%w: bad credentials", adapter.ErrUnauthorized),
	)

	_, err := s.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)

	_, ok := s.Current()
	assert.False(t, ok, "rejected login must not store a token")
}

func TestSession_Login_NetworkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)

	transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(
		models.Response{},
		fmt.Errorf("%w: dial tcp: connection refused", adapter.ErrNetwork),
	)

	_, err := s.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, adapter.ErrNetwork)
}

func TestSession_Login_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "missing value", body: `{"refreshToken":{"value":"r"},"expires_in":10}`},
		{name: "empty value", body: `{"value":"","refreshToken":{"value":"r"},"expires_in":10}`},
		{name: "missing refresh token", body: `{"value":"a","expires_in":10}`},
		{name: "refresh token without value", body: `{"value":"a","refreshToken":{},"expires_in":10}`},
		{name: "refresh token wrong type", body: `{"value":"a","refreshToken":7,"expires_in":10}`},
		{name: "missing expires_in", body: `{"value":"a","refreshToken":{"value":"r"}}`},
		{name: "non numeric expires_in", body: `{"value":"a","refreshToken":{"value":"r"},"expires_in":"soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, transport := newTestSession(t, ctrl)
			transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(
				models.Response{StatusCode: http.StatusOK, Raw: []byte(tt.body)}, nil,
			)

			_, err := s.Login(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProtocol)

			_, ok := s.Current()
			assert.False(t, ok)
		})
	}
}

// ── Refresh ─────────────────────────────────────────────────────────────────

func TestSession_Refresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		transport.EXPECT().Do(ctx, gomock.Any()).Return(tokenBody("access-1", "refresh-1", 40), nil),
		transport.EXPECT().Do(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.Request) (models.Response, error) {
				assert.Equal(t, "/oauth/token", req.Path)
				assert.Equal(t, "refresh_token", req.Form.Get("grant_type"))
				assert.Equal(t, "refresh-1", req.Form.Get("refresh_token"))
				assert.Equal(t, models.DefaultClientID, req.Form.Get("client_id"))
				assert.Empty(t, req.Form.Get("password"))
				return tokenBody("access-2", "refresh-2", 3600), nil
			},
		),
	)

	_, err := s.Login(ctx)
	require.NoError(t, err)

	got, err := s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)

	current, _ := s.Current()
	assert.Equal(t, got, current)
}

func TestSession_Refresh_FailureKeepsPreviousState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		transport.EXPECT().Do(ctx, gomock.Any()).Return(tokenBody("access-1", "refresh-1", 40), nil),
		transport.EXPECT().Do(ctx, gomock.Any()).Return(
			models.Response{StatusCode: http.StatusUnauthorized},
			fmt.Errorf("%w: refresh token expired", adapter.ErrUnauthorized),
		),
	)

	before, err := s.Login(ctx)
	require.NoError(t, err)

	_, err = s.Refresh(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)

	after, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestSession_Refresh_BeforeLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newTestSession(t, ctrl)

	_, err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

// ── ResolveAccount ──────────────────────────────────────────────────────────

func TestSession_ResolveAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		transport.EXPECT().Do(ctx, gomock.Any()).Return(tokenBody("access-1", "refresh-1", 3600), nil),
		transport.EXPECT().Do(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.Request) (models.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "/users", req.Path)
				assert.Equal(t, "access-1", req.Query.Get("access_token"))
				return models.Response{
					StatusCode: http.StatusOK,
					Raw:        []byte(`{"accounts":[{"id":1234,"name":"Acme"},{"id":99}]}`),
				}, nil
			},
		),
	)

	_, err := s.Login(ctx)
	require.NoError(t, err)

	account, err := s.ResolveAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1234", account.AccountID)
}

func TestSession_ResolveAccount_NoAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		transport.EXPECT().Do(ctx, gomock.Any()).Return(tokenBody("access-1", "refresh-1", 3600), nil),
		transport.EXPECT().Do(ctx, gomock.Any()).Return(models.Response{
			StatusCode: http.StatusOK,
			Raw:        []byte(`{"accounts":[]}`),
		}, nil),
	)

	_, err := s.Login(ctx)
	require.NoError(t, err)

	_, err = s.ResolveAccount(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccountResolution)
}

func TestSession_ResolveAccount_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		transport.EXPECT().Do(ctx, gomock.Any()).Return(tokenBody("access-1", "refresh-1", 3600), nil),
		transport.EXPECT().Do(ctx, gomock.Any()).Return(
			models.Response{StatusCode: http.StatusForbidden},
			fmt.Errorf("%w: nope", adapter.ErrForbidden),
		),
	)

	_, err := s.Login(ctx)
	require.NoError(t, err)

	_, err = s.ResolveAccount(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, adapter.ErrForbidden)
}

func TestSession_ResolveAccount_BeforeLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newTestSession(t, ctrl)

	_, err := s.ResolveAccount(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

// ── Token / Current ─────────────────────────────────────────────────────────

func TestSession_Token(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)

	_, err := s.Token()
	assert.True(t, errors.Is(err, ErrNotLoggedIn))

	transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(tokenBody("access-1", "refresh-1", 60), nil)
	_, err = s.Login(context.Background())
	require.NoError(t, err)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, testIssuedAt.Add(time.Minute), tok.Expiry)
}

// Concurrent readers must always see a token pair that was issued together.
func TestSession_Current_NoTornReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, transport := newTestSession(t, ctrl)

	var n int
	transport.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.Request) (models.Response, error) {
			n++
			return tokenBody(fmt.Sprintf("access-%d", n), fmt.Sprintf("refresh-%d", n), 60), nil
		},
	).AnyTimes()

	_, err := s.Login(context.Background())
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				st, ok := s.Current()
				if !ok {
					t.Error("state disappeared")
					return
				}
				var a, r int
				_, _ = fmt.Sscanf(st.AccessToken, "access-%d", &a)
				_, _ = fmt.Sscanf(st.RefreshToken, "refresh-%d", &r)
				if a != r {
					t.Errorf("torn read: %s / %s", st.AccessToken, st.RefreshToken)
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		_, err = s.Refresh(context.Background())
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}
