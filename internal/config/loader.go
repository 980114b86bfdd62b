package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"intra42/internal/oauth"
	"intra42/pkg/logging"
)

// LoadConfig reads the file at path, applies environment overrides and
// validates the result. The format follows the extension: .toml, .yaml or
// .yml. A missing file is not an error as long as the environment supplies
// the required values.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config file found at %s, using defaults and environment", path)
	case err != nil:
		return Config{}, newConfigurationError(path, ErrorTypeIO, err.Error(), err,
			"Check that the file is readable")
	default:
		if err := decode(path, data, &config); err != nil {
			return Config{}, err
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	}

	applyEnv(&config, os.LookupEnv)

	if err := Validate(config); err != nil {
		return Config{}, newConfigurationError(path, ErrorTypeValidation, err.Error(), err,
			fmt.Sprintf("Set client_id and client_secret in %s", path),
			fmt.Sprintf("Or export %s and %s", EnvClientID, EnvClientSecret),
		)
	}

	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, config); err != nil {
			cfgErr := newConfigurationError(path, ErrorTypeParse, err.Error(), err,
				"Check the TOML syntax, e.g. client_id = \"...\"")
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				cfgErr.LineNumber, _ = decodeErr.Position()
			}
			return cfgErr
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return newConfigurationError(path, ErrorTypeParse, err.Error(), err,
				"Check the YAML syntax, e.g. client_id: \"...\"")
		}
	default:
		return newConfigurationError(path, ErrorTypeUnsupported,
			fmt.Sprintf("unsupported config format %q", ext), nil,
			"Use a .toml, .yaml or .yml file")
	}
	return nil
}

// applyEnv overrides file values with the environment.
func applyEnv(config *Config, lookup func(string) (string, bool)) {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvClientID, &config.ClientID},
		{EnvClientSecret, &config.ClientSecret},
		{EnvLogin, &config.Login},
		{EnvMode, &config.Mode},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.target = v
		}
	}
}

// Revalidate checks cfg again after command line overrides were applied to
// it, reporting failures the same way LoadConfig does.
func Revalidate(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return newConfigurationError(path, ErrorTypeValidation, err.Error(), err,
			"Use --mode authorization_code or --mode client_credentials",
		)
	}
	return nil
}

// RequireLogin reports a validation error when cfg looks users up by login
// (client credentials mode) but names none.
func RequireLogin(path string, cfg Config) error {
	mode, err := cfg.GrantMode()
	if err != nil || mode != oauth.ModeClientCredentials || strings.TrimSpace(cfg.Login) != "" {
		return nil
	}
	var errs ValidationErrors
	errs.Add("login", "is required in client_credentials mode")
	return newConfigurationError(path, ErrorTypeValidation, errs.Error(), errs,
		fmt.Sprintf("Set login in %s", path),
		fmt.Sprintf("Or export %s", EnvLogin),
	)
}
