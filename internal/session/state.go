package session

// State is the lifecycle position of the cached access token.
type State int

const (
	// StateNoToken means no token has been obtained yet.
	StateNoToken State = iota

	// StateUnvalidated means a token is cached but has not been confirmed
	// by introspection since it was last set.
	StateUnvalidated

	// StateValid means introspection confirmed the token.
	StateValid

	// StateInvalid means introspection rejected the token.
	StateInvalid
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNoToken:
		return "no_token"
	case StateUnvalidated:
		return "unvalidated"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
