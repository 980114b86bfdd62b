// Package session owns the credentials and the cached access token of one
// API consumer.
//
// A Session decides when a grant flow has to run. The first call to
// EnsureValidToken runs the flow selected by the configured mode, then asks
// the provider's introspection endpoint whether the new token is honoured.
// A rejected token earns exactly one more flow run; a second rejection fails
// with apierror.ErrTokenInvalid instead of looping.
//
// Once confirmed, a token is trusted until the lifetime reported by
// introspection runs out or until Invalidate is called, after which the next
// EnsureValidToken re-validates it. Concurrent callers share a single
// in-flight ensure operation, so two grant flows never race.
//
//	s := session.New(creds, oauth.ModeClientCredentials)
//	if err := s.EnsureValidToken(ctx); err != nil {
//		return err
//	}
//	token, _ := s.CurrentToken()
package session
