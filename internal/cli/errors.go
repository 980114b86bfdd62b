package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"intra42/internal/apierror"
	"intra42/internal/config"
)

// Exit codes returned by the CLI.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (invalid arguments, unknown kind).
	ExitCodeError = 1
	// ExitCodeTokenInvalid indicates no token survived validation.
	ExitCodeTokenInvalid = 2
	// ExitCodeUnauthorized indicates the provider rejected credentials or token.
	ExitCodeUnauthorized = 3
	// ExitCodeForbidden indicates the token lacks rights for the resource.
	ExitCodeForbidden = 4
	// ExitCodeNotFound indicates the resource does not exist.
	ExitCodeNotFound = 5
	// ExitCodeNetwork indicates a transport failure or timeout.
	ExitCodeNetwork = 6
	// ExitCodeProtocol indicates a malformed or unexpected response.
	ExitCodeProtocol = 7
	// ExitCodeConfig indicates the configuration could not be loaded.
	ExitCodeConfig = 8
)

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfig
	}

	switch apierror.KindOf(err) {
	case apierror.KindTokenInvalid:
		return ExitCodeTokenInvalid
	case apierror.KindUnauthorized:
		return ExitCodeUnauthorized
	case apierror.KindForbidden:
		return ExitCodeForbidden
	case apierror.KindNotFound:
		return ExitCodeNotFound
	case apierror.KindNetwork:
		return ExitCodeNetwork
	case apierror.KindProtocol:
		return ExitCodeProtocol
	default:
		return ExitCodeError
	}
}

// Describe returns the message shown to the user for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.DetailedError()
	}

	switch apierror.KindOf(err) {
	case apierror.KindUnauthorized:
		return "Authentication failed: the provider rejected the credentials or the token.\n" +
			"Check client_id and client_secret, then run the command again."
	case apierror.KindForbidden:
		return "Access denied: the token is valid but not allowed to read this resource."
	case apierror.KindNotFound:
		return fmt.Sprintf("Not found: %v", err)
	case apierror.KindTokenInvalid:
		return "The provider rejected every token obtained for this application.\n" +
			"Check that the application is still active on the intranet."
	case apierror.KindNetwork:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("Timed out: %v", err)
		}
		if errors.Is(err, context.Canceled) {
			return "Cancelled."
		}
		connErr := ClassifyConnectionError(err)
		return fmt.Sprintf("%s: %v", connErr.Type, err)
	case apierror.KindProtocol:
		return fmt.Sprintf("Unexpected response: %v", err)
	default:
		return err.Error()
	}
}

// ConnectionErrorType categorizes the type of connection error.
type ConnectionErrorType int

const (
	// ConnectionErrorUnknown indicates an unclassified connection error.
	ConnectionErrorUnknown ConnectionErrorType = iota
	// ConnectionErrorTLS indicates a TLS/certificate verification error.
	ConnectionErrorTLS
	// ConnectionErrorNetwork indicates a refused or unreachable endpoint.
	ConnectionErrorNetwork
	// ConnectionErrorTimeout indicates a connection timeout.
	ConnectionErrorTimeout
	// ConnectionErrorDNS indicates a DNS resolution failure.
	ConnectionErrorDNS
)

// String returns a human-readable name for the connection error type.
func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	default:
		return "Connection error"
	}
}

// ConnectionError is a categorized transport failure.
type ConnectionError struct {
	Type   ConnectionErrorType
	Reason error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Type, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// ClassifyConnectionError categorizes a transport failure. It returns nil
// for a nil error.
func ClassifyConnectionError(err error) *ConnectionError {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	switch {
	case isTLSError(err):
		return &ConnectionError{Type: ConnectionErrorTLS, Reason: err}
	case errors.As(err, &dnsErr):
		return &ConnectionError{Type: ConnectionErrorDNS, Reason: err}
	case isTimeoutError(err):
		return &ConnectionError{Type: ConnectionErrorTimeout, Reason: err}
	case isNetworkError(err.Error()):
		return &ConnectionError{Type: ConnectionErrorNetwork, Reason: err}
	default:
		return &ConnectionError{Type: ConnectionErrorUnknown, Reason: err}
	}
}

func isTLSError(err error) bool {
	var certErr x509.CertificateInvalidError
	var hostErr x509.HostnameError
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &unknownAuthErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "certificate", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "timeout")
}

func isNetworkError(errStr string) bool {
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"address already in use",
	} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
