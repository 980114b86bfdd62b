// Package apierror is the single error taxonomy shared by the token
// lifecycle and the API client.
//
// HTTP statuses are translated into a Kind at the API client boundary and
// never surface as raw codes above it. Callers branch with errors.Is against
// the sentinels:
//
//	if errors.Is(err, apierror.ErrNotFound) { ... }
package apierror
