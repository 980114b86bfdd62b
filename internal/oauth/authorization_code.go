package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"intra42/internal/apierror"
)

// AuthorizationCodeFlow drives the interactive three-legged grant: it shows
// the operator an authorization URL, waits for the provider to redirect the
// browser to the local callback listener and exchanges the returned code.
type AuthorizationCodeFlow struct {
	creds           Credentials
	endpoints       Endpoints
	bindAddress     string
	redirectURL     string
	callbackTimeout time.Duration
	prompt          Prompt
	stateGenerator  func() (string, error)
	httpClient      *http.Client
	logger          *slog.Logger
}

// NewAuthorizationCodeFlow creates the interactive flow for creds.
func NewAuthorizationCodeFlow(creds Credentials, opts ...Option) *AuthorizationCodeFlow {
	o := newOptions(opts)

	redirectURL := o.redirectURL
	if !o.redirectURLSet && o.bindAddress != DefaultBindAddress {
		// The registered redirect only matches the default listener.
		redirectURL = ""
	}

	return &AuthorizationCodeFlow{
		creds:           creds,
		endpoints:       o.endpoints,
		bindAddress:     o.bindAddress,
		redirectURL:     redirectURL,
		callbackTimeout: o.callbackTimeout,
		prompt:          o.prompt,
		stateGenerator:  o.stateGenerator,
		httpClient:      o.httpClient,
		logger:          o.logger,
	}
}

// Mode reports the grant this flow implements.
func (f *AuthorizationCodeFlow) Mode() Mode {
	return ModeAuthorizationCode
}

// config builds the x/oauth2 configuration for the given redirect URI.
func (f *AuthorizationCodeFlow) config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.creds.ClientID,
		ClientSecret: f.creds.ClientSecret,
		Endpoint:     f.endpoints.OAuth2(),
		RedirectURL:  redirectURL,
		Scopes:       []string{PublicScope},
	}
}

// AuthorizationURL returns the URL the operator must open.
func (f *AuthorizationCodeFlow) AuthorizationURL(redirectURL, state string) string {
	return f.config(redirectURL).AuthCodeURL(state)
}

// Run performs the whole flow and returns the granted token.
//
// Listener failures propagate unchanged. A redirect whose state differs from
// the one generated for this run fails with a Protocol-class error. Any
// failure of the code exchange is reported as Unauthorized.
func (f *AuthorizationCodeFlow) Run(ctx context.Context) (*AccessToken, error) {
	state, err := f.stateGenerator()
	if err != nil {
		return nil, apierror.Protocol("authorization code flow", err)
	}

	listener := NewCallbackListener(f.bindAddress, f.logger)
	if err := listener.Start(); err != nil {
		return nil, err
	}
	defer listener.Stop()

	redirectURL := f.redirectURL
	if redirectURL == "" {
		redirectURL = redirectURLFor(listener.Addr())
	}
	cfg := f.config(redirectURL)
	authURL := cfg.AuthCodeURL(state)

	f.logger.Info("Waiting for authorization redirect",
		"listen_address", listener.Addr().String(),
		"redirect_uri", redirectURL,
		"timeout", f.callbackTimeout.String(),
	)

	if err := f.prompt(ctx, authURL); err != nil {
		return nil, apierror.Network("present authorization URL", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.callbackTimeout)
	defer cancel()

	result, err := listener.Wait(waitCtx)
	if err != nil {
		return nil, err
	}

	if result.State != state {
		f.logger.Warn("OAuth state mismatch detected - possible CSRF attack",
			"expected_state_len", len(state),
			"received_state_len", len(result.State),
		)
		return nil, apierror.Protocolf("authorization code flow", "state mismatch")
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	tok, err := cfg.Exchange(exchangeCtx, result.Code)
	if err != nil {
		f.logger.Warn("OAuth token exchange failed", "error", err.Error())
		return nil, apierror.New(apierror.KindUnauthorized, "authorization code exchange", err)
	}

	token, err := newAccessToken(tok, time.Now())
	if err != nil {
		return nil, apierror.New(apierror.KindUnauthorized, "authorization code exchange", err)
	}

	f.logger.Info("OAuth authorization code exchange successful", "scopes", token.Scopes)
	return token, nil
}

// redirectURLFor builds a localhost redirect URI for a bound listener.
func redirectURLFor(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	return DefaultRedirectURL
}
