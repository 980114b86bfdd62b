package config

import "intra42/internal/oauth"

const (
	// DefaultConfigFile is read when no --config flag is given.
	DefaultConfigFile = "config.toml"

	// DefaultMode is used when the file does not name a grant mode.
	DefaultMode = "client_credentials"
)

// Environment variables that override file values.
const (
	EnvClientID     = "INTRA42_CLIENT_ID"
	EnvClientSecret = "INTRA42_CLIENT_SECRET"
	EnvLogin        = "INTRA42_LOGIN"
	EnvMode         = "INTRA42_MODE"
)

// GetDefaultConfig returns the configuration used before a file is applied.
func GetDefaultConfig() Config {
	return Config{
		Mode:            DefaultMode,
		CallbackTimeout: oauth.CallbackTimeout.String(),
		BaseURL:         oauth.DefaultBaseURL,
	}
}
