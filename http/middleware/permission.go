package middleware

import (
	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/logger"
	"acl-admin-backend/providers/acl"
)

// RequirePermission lets the request through when the caller holds at
// least one of the given permissions.
func RequirePermission(slugs ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if acl.HasPermission(user, slugs...) {
			return c.Next()
		}

		fields := map[string]interface{}{"path": c.Path(), "missing": slugs}
		if user != nil {
			fields["user_id"] = user.ID
		}
		logger.Logger.WithFields(fields).Warn("Permission denied")
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to access this page.")
	}
}
