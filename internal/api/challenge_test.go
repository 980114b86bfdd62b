package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intra42/internal/apierror"
	"intra42/internal/oauth"
)

func TestParseChallenge(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected *Challenge
		wantErr  bool
	}{
		{
			name:   "expired token",
			header: `Bearer realm="Doorkeeper", error="invalid_token", error_description="The access token expired"`,
			expected: &Challenge{
				Scheme:           "Bearer",
				Realm:            "Doorkeeper",
				Error:            "invalid_token",
				ErrorDescription: "The access token expired",
			},
		},
		{
			name:   "insufficient scope",
			header: `Bearer realm="Doorkeeper", error="insufficient_scope", scope="projects"`,
			expected: &Challenge{
				Scheme: "Bearer",
				Realm:  "Doorkeeper",
				Scope:  "projects",
				Error:  "insufficient_scope",
			},
		},
		{
			name:     "scheme only",
			header:   "Bearer",
			expected: &Challenge{Scheme: "Bearer"},
		},
		{
			name:    "empty",
			header:  "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			challenge, err := ParseChallenge(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, challenge)
		})
	}
}

func TestChallenge_String(t *testing.T) {
	assert.Equal(t, "invalid_token (expired)", (&Challenge{Error: "invalid_token", ErrorDescription: "expired"}).String())
	assert.Equal(t, "invalid_token", (&Challenge{Error: "invalid_token"}).String())
	assert.Equal(t, "", (&Challenge{Scheme: "Bearer"}).String())
}

func TestClient_Call_ErrorDetail(t *testing.T) {
	t.Run("challenge", func(t *testing.T) {
		session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
		client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="Doorkeeper", error="invalid_token", error_description="The access token was revoked"`)
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.Call(context.Background(), "/v2/me")

		require.ErrorIs(t, err, apierror.ErrUnauthorized)
		assert.Contains(t, err.Error(), "invalid_token (The access token was revoked)")
	})

	t.Run("body excerpt", func(t *testing.T) {
		session := &fakeSession{token: "T1", mode: oauth.ModeAuthorizationCode}
		client := newTestClient(t, session, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream\nunavailable")
		}))

		_, err := client.Call(context.Background(), "/v2/me")

		require.ErrorIs(t, err, apierror.ErrProtocol)
		assert.Contains(t, err.Error(), "status 502: upstream unavailable")
	})
}
