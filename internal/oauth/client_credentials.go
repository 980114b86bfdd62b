package oauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"intra42/internal/apierror"
)

// ClientCredentialsFlow performs the two-legged grant with the client id and
// secret. No operator interaction and no redirect are involved.
type ClientCredentialsFlow struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClientCredentialsFlow creates the machine-to-machine flow for creds.
func NewClientCredentialsFlow(creds Credentials, opts ...Option) *ClientCredentialsFlow {
	o := newOptions(opts)
	return &ClientCredentialsFlow{
		config: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     o.endpoints.TokenURL,
			Scopes:       []string{PublicScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: o.httpClient,
		logger:     o.logger,
	}
}

// Mode reports the grant this flow implements.
func (f *ClientCredentialsFlow) Mode() Mode {
	return ModeClientCredentials
}

// Run requests a token. A provider rejection is Unauthorized; a transport
// failure is Network.
func (f *ClientCredentialsFlow) Run(ctx context.Context) (*AccessToken, error) {
	const op = "client credentials grant"

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	tok, err := f.config.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			f.logger.Warn("Client credentials grant rejected",
				"status", retrieveErr.Response.StatusCode,
				"error_code", retrieveErr.ErrorCode,
			)
			return nil, apierror.New(apierror.KindUnauthorized, op, err)
		}
		return nil, apierror.Network(op, err)
	}

	token, err := newAccessToken(tok, time.Now())
	if err != nil {
		return nil, apierror.Protocol(op, err)
	}

	f.logger.Debug("Client credentials token obtained", "scopes", token.Scopes)
	return token, nil
}
