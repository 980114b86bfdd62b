package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

// Validate checks that cfg can build a session.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.ClientID) == "" {
		errs.Add("client_id", "is required")
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		errs.Add("client_secret", "is required")
	}
	if _, err := cfg.GrantMode(); err != nil {
		errs.Add("mode", "must be authorization_code or client_credentials")
	}
	if d, err := cfg.CallbackWait(); err != nil {
		errs.Add("callback_timeout", err.Error())
	} else if d <= 0 {
		errs.Add("callback_timeout", "must be positive")
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("base_url", "must be an absolute URL")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
