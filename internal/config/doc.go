// Package config loads the client configuration.
//
// Configuration is read from a single file passed explicitly by the caller.
// The default is ./config.toml. The format follows the file extension:
//
//	# config.toml
//	client_id = "u-s4t2ud-..."
//	client_secret = "s-s4t2ud-..."
//	login = "jdoe"
//	mode = "client_credentials"
//	callback_timeout = "10m"
//
//	# config.yaml
//	client_id: u-s4t2ud-...
//	client_secret: s-s4t2ud-...
//	mode: authorization_code
//
// # Environment Overrides
//
// INTRA42_CLIENT_ID, INTRA42_CLIENT_SECRET, INTRA42_LOGIN and INTRA42_MODE
// take precedence over file values. When the file is missing, the
// environment alone may supply the configuration.
//
// # Errors
//
// Failures are reported as *ConfigurationError carrying the file path, the
// error type (io, parse, validation, unsupported), the line number for TOML
// syntax errors and suggestions for fixing the problem.
package config
