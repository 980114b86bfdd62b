package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"intra42/internal/apierror"
	"intra42/internal/oauth"
)

// User is the subset of the user resource the CLI displays.
type User struct {
	ID              int64        `json:"id"`
	Login           string       `json:"login"`
	Email           string       `json:"email"`
	DisplayName     string       `json:"displayname"`
	Wallet          int64        `json:"wallet"`
	CorrectionPoint int64        `json:"correction_point"`
	Titles          []Title      `json:"titles"`
	CursusUsers     []CursusUser `json:"cursus_users"`
}

// Title is an honorific shown in front of the login.
type Title struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CursusUser links a user to a cursus.
type CursusUser struct {
	Level  float64 `json:"level"`
	Cursus Cursus  `json:"cursus"`
}

// Cursus is a curriculum.
type Cursus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PrimaryTitle returns the first word of the first title, or "".
func (u *User) PrimaryTitle() string {
	if len(u.Titles) == 0 {
		return ""
	}
	fields := strings.Fields(u.Titles[0].Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Headline is the "<displayname> | <title> <login>" summary line.
func (u *User) Headline() string {
	return fmt.Sprintf("%s | %s %s", u.DisplayName, u.PrimaryTitle(), u.Login)
}

// CursusName returns the main cursus. Students carry the piscine as their
// first entry, so the second one is preferred when present.
func (u *User) CursusName() string {
	switch {
	case len(u.CursusUsers) > 1:
		return u.CursusUsers[1].Cursus.Name
	case len(u.CursusUsers) == 1:
		return u.CursusUsers[0].Cursus.Name
	default:
		return ""
	}
}

// Me returns the user the session acts for. Authorization code sessions
// query /v2/me; client credentials sessions have no resource owner and look
// up login instead.
func (c *Client) Me(ctx context.Context, login string) (*User, error) {
	if c.session.Mode() == oauth.ModeAuthorizationCode {
		var user User
		if err := c.Get(ctx, c.withClientID("/v2/me", nil), &user); err != nil {
			return nil, err
		}
		return &user, nil
	}

	found, err := c.UserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	return c.User(ctx, found.ID)
}

// ErrNoLogin is returned when a user lookup by login is asked for without a
// login. It is a caller mistake, not a missing resource.
var ErrNoLogin = errors.New("login is required")

// UserByLogin finds a user through the login filter.
func (c *Client) UserByLogin(ctx context.Context, login string) (*User, error) {
	const op = "find user by login"
	if login == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoLogin)
	}

	var users []User
	path := c.withClientID("/v2/users", url.Values{"filter[login]": {login}})
	if err := c.Get(ctx, path, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierror.New(apierror.KindNotFound, op, fmt.Errorf("no user with login %q", login))
	}
	return &users[0], nil
}

// User fetches a user by id.
func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.Get(ctx, c.withClientID(fmt.Sprintf("/v2/users/%d", id), nil), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) withClientID(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("client_id", c.session.Credentials().ClientID)
	return path + "?" + query.Encode()
}
