// Package oauth implements the OAuth2 client side of intra42.
//
// It contains the pieces a Session composes into a token lifecycle:
//   - Validator, which asks the provider's token info endpoint whether a
//     token is still honoured
//   - CallbackListener, a single-shot local listener that captures the
//     authorization redirect
//   - AuthorizationCodeFlow, the interactive grant built on CallbackListener
//   - ClientCredentialsFlow, the non-interactive grant
//
// The provider endpoints are fixed (see DefaultEndpoints); WithEndpoints only
// exists so tests can point the flows at a local server.
//
// Every failure is classified with the apierror taxonomy. Secrets, codes and
// tokens are never logged; only their lengths are.
package oauth
