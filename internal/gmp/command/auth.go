package command

import (
	"context"
	"errors"
	"time"

	"gsa/internal/gmp/parser"
	"gsa/internal/gmp/transport"
)

// ErrNoToken is returned when gsad accepted a login without issuing a token.
var ErrNoToken = errors.New("login response carries no token")

// Session is an authenticated gsad session.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"-"`
	SessionID string    `json:"-"`
	Role      string    `json:"role,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	Expires   time.Time `json:"expires"`
}

// Credentials returns the transport credentials of the session.
func (s Session) Credentials() transport.Credentials {
	return transport.Credentials{Token: s.Token, SessionID: s.SessionID}
}

// AuthCommand runs login, logout and session renewal.
type AuthCommand struct {
	sender Sender
}

// NewAuthCommand returns the session commands.
func NewAuthCommand(s Sender) *AuthCommand {
	return &AuthCommand{sender: s}
}

// Login authenticates username and returns the new session.
func (c *AuthCommand) Login(ctx context.Context, username, password string) (Session, error) {
	p := transport.NewParams("login").
		Set("login", username).
		Set("password", password)
	resp, err := c.sender.Post(ctx, p)
	if err != nil {
		return Session{}, err
	}
	if resp.Meta.Token == "" {
		return Session{}, ErrNoToken
	}
	return Session{
		Username:  username,
		Token:     resp.Meta.Token,
		SessionID: resp.SessionID,
		Role:      resp.Meta.Role,
		Timezone:  resp.Meta.Timezone,
		Locale:    resp.Meta.I18n,
		Expires:   resp.Meta.SessionExpiry,
	}, nil
}

// Logout ends the session of ctx.
func (c *AuthCommand) Logout(ctx context.Context) error {
	_, err := c.sender.Post(ctx, transport.NewParams("logout"))
	return err
}

// RenewSession extends the session of ctx and returns the new expiry.
func (c *AuthCommand) RenewSession(ctx context.Context) (time.Time, error) {
	resp, err := c.sender.Post(ctx, transport.NewParams("renew_session"))
	if err != nil {
		return time.Time{}, err
	}
	if !resp.Meta.SessionExpiry.IsZero() {
		return resp.Meta.SessionExpiry, nil
	}
	// older gsad releases answer with <renew_session>timestamp</renew_session>
	if secs, ok := parser.ParseInt(resp.Data.Value()); ok && secs > 0 {
		return time.Unix(int64(secs), 0).UTC(), nil
	}
	return time.Time{}, errors.New("renew_session response carries no expiry")
}
