package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"intra42/internal/apierror"
	"intra42/internal/oauth"
)

// Flow obtains a fresh access token from the provider.
type Flow interface {
	Run(ctx context.Context) (*oauth.AccessToken, error)
}

// Validator asks the provider about a token. A nil error with an info that
// is not Valid means the token was rejected.
type Validator interface {
	Introspect(ctx context.Context, token string) (*oauth.TokenInfo, error)
}

// maxFlowRetries is the number of extra flow runs allowed after a rejection.
const maxFlowRetries = 1

// Session owns one set of credentials and at most one cached access token.
type Session struct {
	creds     oauth.Credentials
	mode      oauth.Mode
	flow      Flow
	validator Validator
	logger    *slog.Logger
	now       func() time.Time

	group singleflight.Group

	mu         sync.RWMutex
	token      *oauth.AccessToken
	state      State
	validUntil time.Time
}

// New creates a session for creds. Unless overridden with WithFlow and
// WithValidator, the grant flow is chosen by mode and tokens are checked
// against the provider's introspection endpoint.
func New(creds oauth.Credentials, mode oauth.Mode, opts ...Option) *Session {
	o := &options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	oauthOpts := append([]oauth.Option{oauth.WithLogger(o.logger)}, o.oauthOptions...)

	if o.flow == nil {
		switch mode {
		case oauth.ModeAuthorizationCode:
			o.flow = oauth.NewAuthorizationCodeFlow(creds, oauthOpts...)
		default:
			o.flow = oauth.NewClientCredentialsFlow(creds, oauthOpts...)
		}
	}
	if o.validator == nil {
		o.validator = oauth.NewValidator(oauthOpts...)
	}

	return &Session{
		creds:     creds,
		mode:      mode,
		flow:      o.flow,
		validator: o.validator,
		logger:    o.logger.With("component", "session", "mode", mode.String()),
		now:       o.now,
		state:     StateNoToken,
	}
}

// Credentials returns the credentials the session was created with.
func (s *Session) Credentials() oauth.Credentials {
	return s.creds
}

// Mode returns the grant mode of the session.
func (s *Session) Mode() oauth.Mode {
	return s.mode
}

// State returns the current lifecycle state of the cached token.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentToken returns the secret of the cached token, if any.
func (s *Session) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return "", false
	}
	return s.token.Secret, true
}

// Token returns a copy of the cached token.
func (s *Session) Token() (oauth.AccessToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return oauth.AccessToken{}, false
	}
	return *s.token, true
}

// SetToken overwrites the cached token. The token must pass validation
// before it is trusted.
func (s *Session) SetToken(token oauth.AccessToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	s.state = StateUnvalidated
	s.validUntil = time.Time{}
}

// Invalidate marks the cached token as unconfirmed so the next
// EnsureValidToken asks the provider again.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return
	}
	s.state = StateUnvalidated
	s.validUntil = time.Time{}
	s.logger.Debug("Cached token invalidated")
}

// EnsureValidToken makes sure a confirmed token is cached.
//
// Flow errors and validator errors are returned unchanged. If the token is
// still rejected after one extra flow run, the error matches
// apierror.ErrTokenInvalid. Concurrent callers wait for the same operation;
// a caller whose ctx ends first returns ctx.Err() wrapped as a Network error.
// The shared operation does not inherit any caller's cancellation, so one
// caller leaving does not fail the others. It stays bounded by the flow's
// HTTP and callback timeouts.
func (s *Session) EnsureValidToken(ctx context.Context) error {
	if s.trusted() {
		return nil
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("ensure", func() (interface{}, error) {
		return nil, s.ensure(shared)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return apierror.Network("ensure valid token", ctx.Err())
	}
}

// trusted reports whether the cached token is confirmed and not expired.
func (s *Session) trusted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateValid && s.now().Before(s.validUntil)
}

func (s *Session) ensure(ctx context.Context) error {
	if s.trusted() {
		return nil
	}

	_, hasToken := s.CurrentToken()
	needFlow := !hasToken

	for retries := 0; ; retries++ {
		if needFlow {
			if err := s.runFlow(ctx); err != nil {
				return err
			}
		}
		secret, _ := s.CurrentToken()

		info, err := s.validator.Introspect(ctx, secret)
		if err != nil {
			s.logger.Warn("Token validation failed", "error", err)
			return err
		}

		if info.Valid() {
			s.confirm(info)
			return nil
		}

		s.reject()
		if retries >= maxFlowRetries {
			s.logger.Warn("Token still rejected after retry", "flow_retries", retries)
			return apierror.New(apierror.KindTokenInvalid, "ensure valid token",
				fmt.Errorf("token rejected by provider after %d retry", retries))
		}
		needFlow = true
	}
}

func (s *Session) runFlow(ctx context.Context) error {
	s.logger.Info("Running grant flow")
	token, err := s.flow.Run(ctx)
	if err != nil {
		s.logger.Warn("Grant flow failed", "error", err)
		return err
	}
	if token == nil {
		return apierror.Protocolf("grant flow", "flow returned no token")
	}
	s.SetToken(*token)
	return nil
}

func (s *Session) confirm(info *oauth.TokenInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != nil {
		enriched := s.token.WithInfo(info)
		s.token = &enriched
	}
	s.state = StateValid
	s.validUntil = s.now().Add(info.ExpiresIn())
	s.logger.Debug("Token confirmed", "expires_in", info.ExpiresIn().String())
}

func (s *Session) reject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateInvalid
	s.validUntil = time.Time{}
	s.logger.Info("Token rejected by introspection")
}
