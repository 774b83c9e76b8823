// Package auth issues the gateway session tokens. A token is a signed JWT
// carrying the gsad token and session cookie of one GMP login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/transport"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoSecret     = errors.New("signing secret is empty")
)

// Claims are the claims of a gateway session token.
type Claims struct {
	jwt.RegisteredClaims
	Token     string `json:"gmp_token"`
	SessionID string `json:"gmp_sid,omitempty"`
	Role      string `json:"role,omitempty"`
	Timezone  string `json:"tz,omitempty"`
}

// Credentials returns the gsad credentials stored in the claims.
func (c *Claims) Credentials() transport.Credentials {
	return transport.Credentials{Token: c.Token, SessionID: c.SessionID}
}

// Issuer signs and verifies session tokens with HS256.
type Issuer struct {
	method jwt.SigningMethod
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer signing with secret. Tokens expire after ttl
// or with the gsad session, whichever comes first.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Issuer{
		method: jwt.SigningMethodHS256,
		key:    []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token for the session and its expiry.
func (i *Issuer) Issue(s command.Session) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	if !s.Expires.IsZero() && s.Expires.Before(exp) {
		exp = s.Expires
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   s.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Token:     s.Token,
		SessionID: s.SessionID,
		Role:      s.Role,
		Timezone:  s.Timezone,
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a token and returns its claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Token == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
