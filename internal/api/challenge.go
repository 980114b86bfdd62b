package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Challenge is a parsed Bearer WWW-Authenticate header. The provider sends
// one with 401 and 403 responses.
type Challenge struct {
	Scheme           string
	Realm            string
	Scope            string
	Error            string
	ErrorDescription string
}

var challengeParam = regexp.MustCompile(`(\w+)="([^"]*)"`)

// ParseChallenge parses a WWW-Authenticate header value such as
//
//	Bearer realm="Doorkeeper", error="invalid_token", error_description="The access token expired"
func ParseChallenge(header string) (*Challenge, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, fmt.Errorf("empty WWW-Authenticate header")
	}

	scheme, params, _ := strings.Cut(header, " ")
	challenge := &Challenge{Scheme: scheme}

	for _, m := range challengeParam.FindAllStringSubmatch(params, -1) {
		switch strings.ToLower(m[1]) {
		case "realm":
			challenge.Realm = m[2]
		case "scope":
			challenge.Scope = m[2]
		case "error":
			challenge.Error = m[2]
		case "error_description":
			challenge.ErrorDescription = m[2]
		}
	}

	return challenge, nil
}

// challengeFromResponse returns the challenge of a 401 or 403 response, or
// nil when there is none.
func challengeFromResponse(resp *http.Response) *Challenge {
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return nil
	}
	challenge, err := ParseChallenge(resp.Header.Get("WWW-Authenticate"))
	if err != nil {
		return nil
	}
	return challenge
}

// String renders the error code and description for messages.
func (c *Challenge) String() string {
	switch {
	case c.Error != "" && c.ErrorDescription != "":
		return fmt.Sprintf("%s (%s)", c.Error, c.ErrorDescription)
	case c.Error != "":
		return c.Error
	default:
		return c.ErrorDescription
	}
}
