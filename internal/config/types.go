package config

import (
	"fmt"
	"time"

	"intra42/internal/oauth"
)

// Config is the client configuration. The same keys are used in TOML and
// YAML files.
type Config struct {
	ClientID     string `yaml:"client_id" toml:"client_id"`
	ClientSecret string `yaml:"client_secret" toml:"client_secret"`
	// Login selects the user shown in client credentials mode.
	Login string `yaml:"login,omitempty" toml:"login,omitempty"`
	// Mode is the grant mode: authorization_code (code) or
	// client_credentials (credentials).
	Mode string `yaml:"mode,omitempty" toml:"mode,omitempty"`
	// CallbackTimeout bounds the wait for the browser redirect, e.g. "10m".
	CallbackTimeout string `yaml:"callback_timeout,omitempty" toml:"callback_timeout,omitempty"`
	// BaseURL overrides the API host.
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
}

// Credentials returns the application credentials.
func (c Config) Credentials() oauth.Credentials {
	return oauth.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Login:        c.Login,
	}
}

// GrantMode parses Mode.
func (c Config) GrantMode() (oauth.Mode, error) {
	return oauth.ParseMode(c.Mode)
}

// CallbackWait parses CallbackTimeout, falling back to the default.
func (c Config) CallbackWait() (time.Duration, error) {
	if c.CallbackTimeout == "" {
		return oauth.CallbackTimeout, nil
	}
	d, err := time.ParseDuration(c.CallbackTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", c.CallbackTimeout, err)
	}
	return d, nil
}
