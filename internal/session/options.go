package session

import (
	"log/slog"
	"time"

	"intra42/internal/oauth"
)

type options struct {
	flow         Flow
	validator    Validator
	logger       *slog.Logger
	now          func() time.Time
	oauthOptions []oauth.Option
}

// Option configures a Session.
type Option func(*options)

// WithFlow replaces the grant flow derived from the mode.
func WithFlow(flow Flow) Option {
	return func(o *options) {
		o.flow = flow
	}
}

// WithValidator replaces the introspection based validator.
func WithValidator(validator Validator) Option {
	return func(o *options) {
		o.validator = validator
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithOAuthOptions passes options to the default flow and validator.
func WithOAuthOptions(opts ...oauth.Option) Option {
	return func(o *options) {
		o.oauthOptions = append(o.oauthOptions, opts...)
	}
}
