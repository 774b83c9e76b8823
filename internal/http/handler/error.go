package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/transport"
	"gsa/internal/http/middleware"
	"gsa/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// writeServiceError maps service, command and GMP errors to a response.
// Messages of GMP rejections come from gsad and are passed through.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:    "VALIDATION_FAILED",
				Message: "validation failed",
				Fields:  verr.Fields,
			},
		})
	}

	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrNothingToDo):
		return writeError(c, fiber.StatusBadRequest, "NOTHING_SELECTED", "neither ids nor filter given")
	case errors.Is(err, service.ErrInvalidLogin):
		return writeError(c, fiber.StatusBadRequest, "INVALID_LOGIN", "username and password are required")
	case errors.Is(err, command.ErrUnknownType):
		return writeError(c, fiber.StatusNotFound, "UNKNOWN_TYPE", "unknown entity type")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, command.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	}

	var rej *transport.Rejection
	if errors.As(err, &rej) {
		msg := rej.Message
		switch rej.Reason {
		case transport.ReasonUnauthorized:
			return writeError(c, fiber.StatusUnauthorized, "GMP_UNAUTHORIZED", "gsad session expired")
		case transport.ReasonTimeout:
			return writeError(c, fiber.StatusGatewayTimeout, "GMP_TIMEOUT", "gsad did not answer in time")
		}
		switch {
		case rej.Status == fiber.StatusNotFound:
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", orDefault(msg, "resource not found"))
		case rej.Status >= 400 && rej.Status < 500:
			return writeError(c, fiber.StatusBadRequest, "GMP_REJECTED", orDefault(msg, "request rejected by gsad"))
		}
		return writeError(c, fiber.StatusBadGateway, "GMP_ERROR", orDefault(msg, "gsad request failed"))
	}

	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// unauthorized answers requests without a valid gateway session.
func unauthorized(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BODY_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
