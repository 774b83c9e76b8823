package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gsa/internal/auth"
	"gsa/internal/gmp/command"
	"gsa/internal/gmp/model"
)

// TokenIssuer signs gateway session tokens. *auth.Issuer implements it.
type TokenIssuer interface {
	Issue(s command.Session) (string, time.Time, error)
}

// LoginRequest is the body of a login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is a signed gateway token and the session it stands for.
type LoginResult struct {
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires"`
	Username string    `json:"username"`
	Role     string    `json:"role,omitempty"`
	Timezone string    `json:"timezone,omitempty"`
}

// Profile describes the session user.
type Profile struct {
	Username     string             `json:"username"`
	Role         string             `json:"role,omitempty"`
	Timezone     string             `json:"timezone,omitempty"`
	Settings     command.Settings   `json:"settings"`
	Capabilities model.Capabilities `json:"capabilities"`
}

// SessionService runs the login lifecycle against gsad.
type SessionService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Logout ends the gsad session whose credentials ctx carries.
	Logout(ctx context.Context) error
	// Renew extends the gsad session and signs a new token for it.
	Renew(ctx context.Context, claims *auth.Claims) (*LoginResult, error)
	Me(ctx context.Context, claims *auth.Claims) (*Profile, error)
}

type sessionService struct {
	auth   *command.AuthCommand
	users  *command.UserCommand
	issuer TokenIssuer
}

// NewSessionService constructs a SessionService.
func NewSessionService(s command.Sender, issuer TokenIssuer) SessionService {
	return &sessionService{
		auth:   command.NewAuthCommand(s),
		users:  command.NewUserCommand(s),
		issuer: issuer,
	}
}

func (s *sessionService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidLogin
	}

	sess, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(sess)
}

func (s *sessionService) issue(sess command.Session) (*LoginResult, error) {
	token, exp, err := s.issuer.Issue(sess)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		Expires:  exp,
		Username: sess.Username,
		Role:     sess.Role,
		Timezone: sess.Timezone,
	}, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	return s.auth.Logout(ctx)
}

func (s *sessionService) Renew(ctx context.Context, claims *auth.Claims) (*LoginResult, error) {
	exp, err := s.auth.RenewSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.issue(command.Session{
		Username:  claims.Subject,
		Token:     claims.Token,
		SessionID: claims.SessionID,
		Role:      claims.Role,
		Timezone:  claims.Timezone,
		Expires:   exp,
	})
}

func (s *sessionService) Me(ctx context.Context, claims *auth.Claims) (*Profile, error) {
	p := &Profile{
		Username: claims.Subject,
		Role:     claims.Role,
		Timezone: claims.Timezone,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings, err := s.users.CurrentSettings(ctx)
		p.Settings = settings
		return err
	})
	g.Go(func() error {
		caps, err := s.users.Capabilities(ctx)
		p.Capabilities = caps
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
