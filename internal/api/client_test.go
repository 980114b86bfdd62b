package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"intra42/internal/apierror"
	"intra42/internal/oauth"
)

type fakeSession struct {
	token       string
	mode        oauth.Mode
	ensureErr   error
	ensures     atomic.Int32
	invalidated atomic.Int32
}

func (s *fakeSession) EnsureValidToken(context.Context) error {
	s.ensures.Add(1)
	return s.ensureErr
}

func (s *fakeSession) CurrentToken() (string, bool) {
	return s.token, s.token != ""
}

func (s *fakeSession) Invalidate() {
	s.invalidated.Add(1)
}

func (s *fakeSession) Credentials() oauth.Credentials {
	return oauth.Credentials{ClientID: "uid", ClientSecret: "secret", Login: "jdoe"}
}

func (s *fakeSession) Mode() oauth.Mode {
	return s.mode
}

func newTestClient(t *testing.T, session Session, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(session,
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRateLimit(rate.Inf, 1),
	)
	require.NoError(t, err)
	return client
}

func TestClient_Call_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected apierror.Kind
	}{
		{"created", http.StatusCreated, apierror.KindProtocol},
		{"accepted", http.StatusAccepted, apierror.KindProtocol},
		{"no content", http.StatusNoContent, apierror.KindProtocol},
		{"partial content", http.StatusPartialContent, apierror.KindProtocol},
		{"unauthorized", http.StatusUnauthorized, apierror.KindUnauthorized},
		{"forbidden", http.StatusForbidden, apierror.KindForbidden},
		{"not found", http.StatusNotFound, apierror.KindNotFound},
		{"server error", http.StatusInternalServerError, apierror.KindProtocol},
		{"teapot", http.StatusTeapot, apierror.KindProtocol},
		{"too many requests", http.StatusTooManyRequests, apierror.KindProtocol},
		{"redirect", http.StatusNotModified, apierror.KindProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
			client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			body, err := client.Call(context.Background(), "/v2/me")

			require.Error(t, err)
			assert.Empty(t, body)
			assert.Equal(t, tt.expected, apierror.KindOf(err))
		})
	}
}

func TestClient_Call_ReturnsBodyVerbatim(t *testing.T) {
	const payload = "{\"id\": 74,\n  \"login\":\"jdoe\"}\n\x00trailing"
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/me", r.URL.Path)
		_, _ = io.WriteString(w, payload)
	}))

	body, err := client.Call(context.Background(), "v2/me")

	require.NoError(t, err)
	assert.Equal(t, payload, body)
	assert.Equal(t, int32(1), session.ensures.Load())
}

func TestClient_Call_NotFoundKeepsToken(t *testing.T) {
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client := newTestClient(t, session, http.NotFoundHandler())

	_, err := client.Call(context.Background(), "/v2/users/0")

	assert.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Equal(t, int32(0), session.invalidated.Load())
	token, ok := session.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, "T1", token)
}

func TestClient_Call_UnauthorizedInvalidatesSession(t *testing.T) {
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.Call(context.Background(), "/v2/me")

	assert.ErrorIs(t, err, apierror.ErrUnauthorized)
	assert.Equal(t, int32(1), session.invalidated.Load())
}

func TestClient_Call_ClientCredentialsEchoesGrantFields(t *testing.T) {
	var form url.Values
	var contentType string
	session := &fakeSession{token: "T1", mode: oauth.ModeClientCredentials}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(raw))
		contentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, "[]")
	}))

	_, err := client.Call(context.Background(), "/v2/users")

	require.NoError(t, err)
	assert.Equal(t, "client_credentials", form.Get("grant_type"))
	assert.Equal(t, "uid", form.Get("client_id"))
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
}

func TestClient_Call_AuthorizationCodeSendsNoBody(t *testing.T) {
	var length int64 = -2
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length = r.ContentLength
	}))

	_, err := client.Call(context.Background(), "/v2/me")

	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}

func TestClient_Call_AbsoluteURLPassesThrough(t *testing.T) {
	var hits atomic.Int32
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v2/cursus", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = io.WriteString(w, "ok")
	}))
	defer other.Close()

	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("base host must not be contacted, got %s", r.URL)
	}))

	body, err := client.Call(context.Background(), other.URL+"/v2/cursus?page=1")

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_Call_SessionErrorPropagates(t *testing.T) {
	var hits atomic.Int32
	ensureErr := apierror.New(apierror.KindTokenInvalid, "ensure valid token", errors.New("rejected"))
	session := &fakeSession{mode: oauth.ModeAuthorizationCode, ensureErr: ensureErr}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := client.Call(context.Background(), "/v2/me")

	assert.Same(t, ensureErr, err)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_Call_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(&fakeSession{token: "T1"}, WithBaseURL(baseURL))
	require.NoError(t, err)

	_, err = client.Call(context.Background(), "/v2/me")

	assert.ErrorIs(t, err, apierror.ErrNetwork)
}

func TestClient_Call_MalformedPath(t *testing.T) {
	session := &fakeSession{token: "T1"}
	client, err := NewClient(session)
	require.NoError(t, err)

	_, err = client.Call(context.Background(), "%zz")

	assert.ErrorIs(t, err, apierror.ErrProtocol)
	assert.Equal(t, int32(0), session.ensures.Load())
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(&fakeSession{}, WithBaseURL("not a url"))
	assert.Error(t, err)
}

func TestClient_Get_DecodeFailureIsProtocol(t *testing.T) {
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))

	var user User
	err := client.Get(context.Background(), "/v2/me", &user)

	assert.ErrorIs(t, err, apierror.ErrProtocol)
}

func TestClient_Call_RateLimited(t *testing.T) {
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client, err := NewClient(session, WithBaseURL(server.URL), WithRateLimit(rate.Limit(10), 1))
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Call(context.Background(), "/v2/me")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestClient_Call_RateLimitHonoursContext(t *testing.T) {
	session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
	client, err := NewClient(session, WithRateLimit(rate.Limit(0.001), 1))
	require.NoError(t, err)
	require.True(t, client.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Call(ctx, "/v2/me")
	assert.ErrorIs(t, err, apierror.ErrNetwork)
}
