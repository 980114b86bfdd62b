package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"intra42/internal/apierror"
	"intra42/internal/oauth"
	textutil "intra42/pkg/strings"
)

// Session is the token source a Client authenticates with.
type Session interface {
	EnsureValidToken(ctx context.Context) error
	CurrentToken() (string, bool)
	Invalidate()
	Credentials() oauth.Credentials
	Mode() oauth.Mode
}

// Client sends authenticated GET requests through a Session.
type Client struct {
	session    Session
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// NewClient creates a client for session.
func NewClient(session Session, opts ...Option) (*Client, error) {
	o := &options{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
		limiter:    rate.NewLimiter(DefaultRateLimit, DefaultBurst),
	}
	for _, opt := range opts {
		opt(o)
	}

	base, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", o.baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", o.baseURL)
	}

	return &Client{
		session:    session,
		baseURL:    base,
		httpClient: o.httpClient,
		logger:     o.logger.With("component", "api"),
		limiter:    o.limiter,
	}, nil
}

// Call fetches pathOrURI and returns the response body. pathOrURI is either
// a path relative to the base URL or an absolute URL, which is used as is.
func (c *Client) Call(ctx context.Context, pathOrURI string) (string, error) {
	op := "GET " + pathOrURI
	callID := uuid.New().String()
	logger := c.logger.With("call_id", callID)

	target, err := c.resolve(pathOrURI)
	if err != nil {
		return "", apierror.Protocol(op, err)
	}

	if err := c.session.EnsureValidToken(ctx); err != nil {
		logger.Debug("No valid token for request", "error", err)
		return "", err
	}
	token, ok := c.session.CurrentToken()
	if !ok {
		return "", apierror.New(apierror.KindTokenInvalid, op, fmt.Errorf("session holds no token"))
	}

	req, err := c.newRequest(ctx, target, token)
	if err != nil {
		return "", apierror.Protocol(op, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", apierror.Network(op, err)
	}

	logger.Debug("Sending API request", "url", redactQuery(target))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierror.Network(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierror.Network(op, fmt.Errorf("failed to read response: %w", err))
	}

	kind := apierror.FromStatus(resp.StatusCode)
	if kind == apierror.KindUnknown {
		logger.Debug("API request succeeded", "status", resp.StatusCode, "bytes", len(body))
		return string(body), nil
	}

	if kind == apierror.KindUnauthorized {
		c.session.Invalidate()
	}
	return "", apierror.New(kind, op, c.statusError(logger, resp, body))
}

// Get fetches pathOrURI and decodes the JSON body into v.
func (c *Client) Get(ctx context.Context, pathOrURI string, v interface{}) error {
	body, err := c.Call(ctx, pathOrURI)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return apierror.Protocol("GET "+pathOrURI, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) resolve(pathOrURI string) (*url.URL, error) {
	ref, err := url.Parse(pathOrURI)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() {
		return ref, nil
	}
	if !strings.HasPrefix(ref.Path, "/") {
		ref.Path = "/" + ref.Path
	}
	return c.baseURL.ResolveReference(ref), nil
}

// newRequest builds the authenticated GET. Client credentials sessions also
// send the grant fields as a form body, which the API accepts on GET.
func (c *Client) newRequest(ctx context.Context, target *url.URL, token string) (*http.Request, error) {
	var body io.Reader
	if c.session.Mode() == oauth.ModeClientCredentials {
		form := url.Values{
			"grant_type": {"client_credentials"},
			"client_id":  {c.session.Credentials().ClientID},
		}
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// statusError describes a failed response using its WWW-Authenticate
// challenge when present, and a body excerpt otherwise.
func (c *Client) statusError(logger *slog.Logger, resp *http.Response, body []byte) error {
	detail := textutil.Snippet(string(body), textutil.DefaultSnippetLen)
	if challenge := challengeFromResponse(resp); challenge != nil && challenge.String() != "" {
		detail = challenge.String()
	}

	logger.Warn("API request failed", "status", resp.StatusCode, "detail", detail)

	if detail == "" {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, detail)
}

// redactQuery drops the query string, which may carry the client id.
func redactQuery(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	return clean.String()
}
