package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/http/responses"
	"acl-admin-backend/logger"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	if code >= fiber.StatusInternalServerError {
		logger.Logger.WithError(err).WithField("path", c.Path()).Error("Unhandled error occurred")
	} else {
		logger.Logger.WithError(err).WithField("path", c.Path()).Warn("Request failed")
	}

	message := err.Error()
	if code >= fiber.StatusInternalServerError {
		message = "An unexpected error occurred"
	}

	if WantsJSON(c) {
		return c.Status(code).JSON(responses.ErrorResponse{
			Error:   true,
			Message: message,
		})
	}

	if renderErr := c.Status(code).Render("errors/error", fiber.Map{
		"Title":        "Error",
		"ErrorCode":    code,
		"ErrorMessage": message,
	}, ""); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}

// WantsJSON reports whether the caller expects a json answer rather than
// a page.
func WantsJSON(c *fiber.Ctx) bool {
	return c.XHR() ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) ||
		strings.HasPrefix(c.Path(), "/api/")
}
