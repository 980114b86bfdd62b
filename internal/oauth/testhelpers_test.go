package oauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeProvider serves the token and token info endpoints.
type fakeProvider struct {
	server        *httptest.Server
	tokenRequests atomic.Int32
	infoRequests  atomic.Int32

	tokenHandler http.HandlerFunc
	infoHandler  http.HandlerFunc
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := &fakeProvider{}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		p.tokenRequests.Add(1)
		if p.tokenHandler != nil {
			p.tokenHandler(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "T1",
			"token_type":   "bearer",
			"expires_in":   7200,
			"scope":        "public",
			"created_at":   1700000000,
		})
	})
	mux.HandleFunc("/oauth/token/info", func(w http.ResponseWriter, r *http.Request) {
		p.infoRequests.Add(1)
		if p.infoHandler != nil {
			p.infoHandler(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) options() []Option {
	return []Option{
		WithEndpoints(EndpointsFor(p.server.URL)),
		WithHTTPClient(p.server.Client()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
