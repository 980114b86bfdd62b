// Package api issues authenticated requests against the 42 intra REST API.
//
// Every Client.Call first asks the Session for a confirmed token, then sends
// a GET with a bearer Authorization header. Response statuses are translated
// into the apierror taxonomy at this boundary:
//
//   - 200: the raw body is returned uninterpreted
//   - 401: apierror.ErrUnauthorized, and the session token is invalidated
//   - 403: apierror.ErrForbidden
//   - 404: apierror.ErrNotFound
//   - anything else, other 2xx included: apierror.ErrProtocol
//
// Typed helpers such as Me decode well known resources on top of Call.
package api
