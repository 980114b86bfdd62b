package oauth

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultHTTPTimeout is the default timeout for requests to the provider.
const DefaultHTTPTimeout = 30 * time.Second

// CallbackTimeout is how long the authorization code flow waits for the redirect.
const CallbackTimeout = 10 * time.Minute

type options struct {
	httpClient      *http.Client
	logger          *slog.Logger
	endpoints       Endpoints
	bindAddress     string
	redirectURL     string
	redirectURLSet  bool
	callbackTimeout time.Duration
	prompt          Prompt
	stateGenerator  func() (string, error)
}

// Option configures the validator and the grant flows. Options that do not
// apply to a component are ignored by it.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		httpClient:      &http.Client{Timeout: DefaultHTTPTimeout},
		logger:          slog.Default(),
		endpoints:       DefaultEndpoints(),
		bindAddress:     DefaultBindAddress,
		redirectURL:     DefaultRedirectURL,
		callbackTimeout: CallbackTimeout,
		stateGenerator:  GenerateState,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.prompt == nil {
		o.prompt = PrintPrompt(nil)
	}
	return o
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEndpoints overrides the provider endpoints.
func WithEndpoints(endpoints Endpoints) Option {
	return func(o *options) {
		o.endpoints = endpoints
	}
}

// WithBindAddress sets the local address the callback listener binds to.
func WithBindAddress(addr string) Option {
	return func(o *options) {
		o.bindAddress = addr
	}
}

// WithRedirectURL sets the redirect URI sent to the provider. An empty value
// derives it from the address the callback listener actually bound.
func WithRedirectURL(redirectURL string) Option {
	return func(o *options) {
		o.redirectURL = redirectURL
		o.redirectURLSet = true
	}
}

// WithCallbackTimeout bounds the wait for the authorization redirect.
func WithCallbackTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.callbackTimeout = timeout
		}
	}
}

// WithPrompt sets how the authorization URL is presented to the operator.
func WithPrompt(prompt Prompt) Option {
	return func(o *options) {
		o.prompt = prompt
	}
}

// WithStateGenerator replaces the anti-forgery state generator.
func WithStateGenerator(gen func() (string, error)) Option {
	return func(o *options) {
		if gen != nil {
			o.stateGenerator = gen
		}
	}
}
