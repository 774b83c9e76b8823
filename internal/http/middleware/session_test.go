package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsa/internal/auth"
	"gsa/internal/gmp/command"
	"gsa/internal/gmp/transport"
)

func TestRequireSession(t *testing.T) {
	iss, err := auth.NewIssuer("secret", "gsa", time.Hour)
	require.NoError(t, err)
	token, _, err := iss.Issue(command.Session{Username: "admin", Token: "tok", SessionID: "sid"})
	require.NoError(t, err)

	unauthorized := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusUnauthorized) }

	app := fiber.New()
	var buf bytes.Buffer
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))
	app.Use(RequireSession(iss, unauthorized))
	app.Get("/me", func(c *fiber.Ctx) error {
		creds, ok := transport.CredentialsFrom(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user": ClaimsFrom(c).Subject, "token": creds.Token, "sid": creds.SessionID})
	})

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
	}{
		{name: "bearer header", header: "Bearer " + token, wantCode: fiber.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, wantCode: fiber.StatusOK},
		{name: "cookie", cookie: token, wantCode: fiber.StatusOK},
		{name: "missing token", wantCode: fiber.StatusUnauthorized},
		{name: "basic auth", header: "Basic YWRtaW46YWRtaW4=", wantCode: fiber.StatusUnauthorized},
		{name: "invalid token", header: "Bearer not-a-jwt", wantCode: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, SessionCookie+"="+tt.cookie)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			if tt.wantCode != fiber.StatusOK {
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, map[string]string{"user": "admin", "token": "tok", "sid": "sid"}, body)

			var logData map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
			assert.Equal(t, "admin", logData["user"])
		})
	}
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "abc", bearer("Bearer abc"))
	assert.Equal(t, "abc", bearer("BEARER  abc "))
	assert.Empty(t, bearer("Bearer"))
	assert.Empty(t, bearer("Token abc"))
}
