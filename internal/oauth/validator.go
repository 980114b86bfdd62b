package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"intra42/internal/apierror"
)

// Validator asks the provider's introspection endpoint whether a token is
// still honoured.
type Validator struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
}

// NewValidator creates a validator against the configured token info endpoint.
func NewValidator(opts ...Option) *Validator {
	o := newOptions(opts)
	return &Validator{
		httpClient: o.httpClient,
		logger:     o.logger,
		endpoint:   o.endpoints.TokenInfoURL,
	}
}

// Introspect fetches the provider's view of token. An empty token yields an
// empty TokenInfo without a network call. Unreachable endpoints and
// undecodable responses fail with a Network-class error; the response status
// is not inspected because the provider describes rejected tokens in the body.
func (v *Validator) Introspect(ctx context.Context, token string) (*TokenInfo, error) {
	const op = "token introspection"

	if strings.TrimSpace(token) == "" {
		v.logger.Debug("Skipping introspection of empty token")
		return &TokenInfo{}, nil
	}

	target, err := url.Parse(v.endpoint)
	if err != nil {
		return nil, apierror.Network(op, fmt.Errorf("invalid token info endpoint: %w", err))
	}
	query := target.Query()
	query.Set("access_token", token)
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, apierror.Network(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, apierror.Network(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierror.Network(op, fmt.Errorf("failed to read response: %w", err))
	}

	var info TokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, apierror.Network(op, fmt.Errorf("malformed token info (status %d): %w", resp.StatusCode, err))
	}

	v.logger.Debug("Token introspected",
		"status", resp.StatusCode,
		"valid", info.Valid(),
	)

	return &info, nil
}

// IsValid reports whether token is currently valid. A response without
// expires_in_seconds, or an empty token, is invalid rather than an error.
func (v *Validator) IsValid(ctx context.Context, token string) (bool, error) {
	info, err := v.Introspect(ctx, token)
	if err != nil {
		return false, err
	}
	return info.Valid(), nil
}
