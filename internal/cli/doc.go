// Package cli provides the terminal presentation layer of intra42.
//
// It translates errors from the apierror taxonomy into exit codes and
// human-readable messages, renders field rows and go-pretty tables, and
// shows a spinner while the authorization code flow waits for the browser.
//
// Transport failures are further classified into TLS, DNS, timeout and
// refused connection errors so the user gets an actionable hint.
package cli
