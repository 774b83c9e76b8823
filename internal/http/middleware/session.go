package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gsa/internal/auth"
	"gsa/internal/gmp/transport"
)

const (
	// SessionCookie carries the gateway token for browser clients.
	SessionCookie = "gsa_session"
	// ClaimsLocalKey is the Fiber locals key holding the verified claims.
	ClaimsLocalKey = "session_claims"
)

// TokenVerifier verifies gateway tokens. *auth.Issuer implements it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireSession rejects requests without a valid gateway token. The token
// is read from the Authorization bearer header, then from the session cookie.
// The gsad credentials of a valid token are put into the user context, so
// every GMP command of the request runs in that session. Rejected requests
// go through onUnauthorized.
func RequireSession(v TokenVerifier, onUnauthorized fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(SessionCookie)
		}
		if token == "" {
			return onUnauthorized(c)
		}

		claims, err := v.Verify(token)
		if err != nil {
			return onUnauthorized(c)
		}

		c.Locals(ClaimsLocalKey, claims)
		c.SetUserContext(transport.WithCredentials(c.UserContext(), claims.Credentials()))

		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireSession, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

func bearer(h string) string {
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
