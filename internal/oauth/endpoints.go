package oauth

import (
	"strings"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the provider host serving both the OAuth endpoints and the API.
const DefaultBaseURL = "https://api.intra.42.fr"

const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
	tokenInfoPath = "/oauth/token/info"
)

// DefaultRedirectURL is the redirect URI registered for the interactive flow.
const DefaultRedirectURL = "http://localhost:8080"

// DefaultBindAddress is where the callback listener accepts the redirect.
const DefaultBindAddress = "127.0.0.1:8080"

// PublicScope is the only scope requested from the provider.
const PublicScope = "public"

// Endpoints holds the provider URLs used by the grant flows and the validator.
type Endpoints struct {
	AuthURL      string
	TokenURL     string
	TokenInfoURL string
}

// DefaultEndpoints returns the fixed provider endpoints.
func DefaultEndpoints() Endpoints {
	return EndpointsFor(DefaultBaseURL)
}

// EndpointsFor derives the endpoint set from a provider base URL.
func EndpointsFor(baseURL string) Endpoints {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return Endpoints{
		AuthURL:      baseURL + authorizePath,
		TokenURL:     baseURL + tokenPath,
		TokenInfoURL: baseURL + tokenInfoPath,
	}
}

// OAuth2 converts the endpoints for use with golang.org/x/oauth2.
func (e Endpoints) OAuth2() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   e.AuthURL,
		TokenURL:  e.TokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
}
