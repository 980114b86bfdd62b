package oauth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Mode selects the grant flow a session uses to obtain tokens.
type Mode int

const (
	// ModeClientCredentials is the two-legged machine-to-machine grant.
	ModeClientCredentials Mode = iota
	// ModeAuthorizationCode is the interactive three-legged grant.
	ModeAuthorizationCode
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuthorizationCode:
		return "authorization_code"
	case ModeClientCredentials:
		return "client_credentials"
	default:
		return "unknown"
	}
}

// ParseMode accepts the configuration names and their short aliases.
// An empty name selects client credentials.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "client_credentials", "credentials", "credential":
		return ModeClientCredentials, nil
	case "authorization_code", "code":
		return ModeAuthorizationCode, nil
	default:
		return ModeClientCredentials, fmt.Errorf("unknown grant mode %q", name)
	}
}

// Credentials identify the application to the provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
	// Login is the user whose profile is looked up in client credentials mode.
	Login string
}

// String keeps the client secret out of logs and error messages.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ClientID: %q, ClientSecret: [REDACTED], Login: %q}", c.ClientID, c.Login)
}

// GoString implements fmt.GoStringer for %#v formatting.
func (c Credentials) GoString() string {
	return c.String()
}

// AccessToken is a bearer token with the metadata the provider reported for it.
type AccessToken struct {
	Secret           string
	ExpiresInSeconds *int64
	ResourceOwnerID  *int64
	Scopes           []string
	CreatedAt        *int64
}

// String returns a redacted description of the token.
func (t AccessToken) String() string {
	return fmt.Sprintf("AccessToken{Secret: [REDACTED], Scopes: %v}", t.Scopes)
}

// GoString implements fmt.GoStringer for %#v formatting.
func (t AccessToken) GoString() string {
	return t.String()
}

// WithInfo returns a copy of the token enriched with introspection data.
// Fields absent from info keep their current values.
func (t AccessToken) WithInfo(info *TokenInfo) AccessToken {
	if info == nil {
		return t
	}
	if info.ExpiresInSeconds != nil {
		t.ExpiresInSeconds = info.ExpiresInSeconds
	}
	if info.ResourceOwnerID != nil {
		t.ResourceOwnerID = info.ResourceOwnerID
	}
	if info.Scopes != nil {
		t.Scopes = append([]string(nil), info.Scopes...)
	}
	if info.CreatedAt != nil {
		t.CreatedAt = info.CreatedAt
	}
	return t
}

// TokenInfo is the introspection endpoint's view of a token.
type TokenInfo struct {
	ResourceOwnerID  *int64       `json:"resource_owner_id"`
	Scopes           []string     `json:"scopes"`
	ExpiresInSeconds *int64       `json:"expires_in_seconds"`
	Application      *Application `json:"application"`
	CreatedAt        *int64       `json:"created_at"`
}

// Application identifies the client a token was issued to.
type Application struct {
	UID *string `json:"uid"`
}

// Valid reports whether the provider still honours the token. Only the
// presence of expires_in_seconds matters.
func (i *TokenInfo) Valid() bool {
	return i != nil && i.ExpiresInSeconds != nil
}

// ExpiresIn returns the remaining lifetime reported by the provider.
func (i *TokenInfo) ExpiresIn() time.Duration {
	if !i.Valid() {
		return 0
	}
	return time.Duration(*i.ExpiresInSeconds) * time.Second
}

// SplitScopes splits a granted scope string. The provider separates scopes
// with spaces in some responses and with commas in others.
func SplitScopes(scope string) []string {
	fields := strings.FieldsFunc(scope, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// newAccessToken converts a token endpoint response.
func newAccessToken(tok *oauth2.Token, now time.Time) (*AccessToken, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("token response carries no access token")
	}

	at := &AccessToken{Secret: tok.AccessToken}

	if v, ok := extraInt(tok, "expires_in"); ok {
		at.ExpiresInSeconds = &v
	} else if !tok.Expiry.IsZero() {
		secs := int64(tok.Expiry.Sub(now).Round(time.Second) / time.Second)
		at.ExpiresInSeconds = &secs
	}
	if v, ok := extraInt(tok, "created_at"); ok {
		at.CreatedAt = &v
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		at.Scopes = SplitScopes(scope)
	}

	return at, nil
}

// extraInt reads a numeric field from the raw token response.
func extraInt(tok *oauth2.Token, key string) (int64, bool) {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
