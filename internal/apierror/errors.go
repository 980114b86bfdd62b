package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies the terminal outcome of one API call attempt.
type Kind int

const (
	// KindUnknown is never produced by this module; it is what KindOf
	// reports for errors that did not come from it.
	KindUnknown Kind = iota
	// KindUnauthorized means the server rejected the token or the authorization.
	KindUnauthorized
	// KindForbidden means the token is valid but lacks the rights for the resource.
	KindForbidden
	// KindNotFound means the requested resource does not exist.
	KindNotFound
	// KindNetwork covers transport and IO failures, including timeouts.
	KindNetwork
	// KindProtocol covers malformed responses, malformed redirects and
	// unexpected HTTP statuses.
	KindProtocol
	// KindTokenInvalid means the validator rejected the token even after a
	// fresh grant.
	KindTokenInvalid
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindProtocol:
		return "protocol"
	case KindTokenInvalid:
		return "token_invalid"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is comparisons. Any *Error with the same Kind matches.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrProtocol     = &Error{Kind: KindProtocol}
	ErrTokenInvalid = &Error{Kind: KindTokenInvalid}
)

// Error is a classified failure. Op names the operation that failed and Err,
// when present, is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to match on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a classified error for op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Network wraps a transport or IO failure.
func Network(op string, err error) *Error {
	return New(KindNetwork, op, err)
}

// Protocol wraps a decode or protocol failure.
func Protocol(op string, err error) *Error {
	return New(KindProtocol, op, err)
}

// Protocolf creates a protocol failure from a formatted message.
func Protocolf(op, format string, args ...interface{}) *Error {
	return New(KindProtocol, op, fmt.Errorf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FromStatus maps an HTTP status code to a Kind. Only 200 maps to
// KindUnknown, meaning "not a failure"; every status without a dedicated
// kind, other 2xx codes included, is Protocol.
func FromStatus(status int) Kind {
	switch {
	case status == 200:
		return KindUnknown
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	default:
		return KindProtocol
	}
}
