package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
)

// invalidFileKey is the localized message key clients show for rejected uploads.
const invalidFileKey = "invalidFile"

// APIError is a structured error response.
type APIError struct {
	Status     int    `json:"status"`
	Code       string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message    string `json:"message"` // Human-readable message
	MessageKey string `json:"message_key,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errUnprocessable returns a 422 error for a rejected upload.
func errUnprocessable(c *fiber.Ctx, code, msg string) error {
	return writeError(c, APIError{Status: 422, Code: code, Message: msg, MessageKey: invalidFileKey})
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errFromDomain maps service errors onto responses.
func errFromDomain(c *fiber.Ctx, err error) error {
	var (
		perr *geometry.ParseError
		verr *geometry.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return errNotFound(c, "editing session not found")
	case errors.Is(err, domain.ErrHearingNotFound):
		return errNotFound(c, "hearing not found")
	case errors.As(err, &perr), errors.As(err, &verr):
		return errUnprocessable(c, geometry.Code(err), err.Error())
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
