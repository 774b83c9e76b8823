package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gsa/internal/http/middleware"
	"gsa/internal/service"
)

func sessionCookie(token string, expires time.Time, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// Login authenticates against gsad and returns a gateway token. The token
// is also set as session cookie.
//
// @Summary Log in
// @Tags session
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /api/v1/login [post]
func Login(svc service.SessionService, secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Cookie(sessionCookie(res.Token, res.Expires, secureCookie))
		return c.JSON(res)
	}
}

// Logout ends the gsad session and clears the session cookie.
//
// @Summary Log out
// @Tags session
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errorPayload
// @Router /api/v1/logout [post]
func Logout(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.ClearCookie(middleware.SessionCookie)
		if err := svc.Logout(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RenewSession extends the gsad session and returns a new token.
//
// @Summary Renew session
// @Tags session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /api/v1/renew [post]
func RenewSession(svc service.SessionService, secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Renew(c.UserContext(), middleware.ClaimsFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Cookie(sessionCookie(res.Token, res.Expires, secureCookie))
		return c.JSON(res)
	}
}

// Me returns the session user with settings and capabilities.
//
// @Summary Current user
// @Tags session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.Profile
// @Failure 401 {object} errorPayload
// @Router /api/v1/me [get]
func Me(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Me(c.UserContext(), middleware.ClaimsFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}
