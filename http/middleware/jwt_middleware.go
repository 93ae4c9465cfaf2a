package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"acl-admin-backend/http/responses"
	"acl-admin-backend/logger"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/auth"
)

const userKey = "user"

type UserLoader interface {
	FindWithPermissions(ctx context.Context, id uint) (*models.User, error)
}

// JWTMiddleware authenticates the caller from the jwt_token cookie or a
// Bearer header and stores the user, with roles and permissions, in the
// request locals. Pages are redirected to loginURL, json callers get 401.
func JWTMiddleware(secret string, users UserLoader, loginURL string) fiber.Handler {
	if secret == "" {
		logger.Logger.Fatal("JWT secret key is missing in configuration")
	}

	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(auth.CookieName)
		if tokenString == "" {
			if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
				tokenString = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if tokenString == "" {
			logger.Logger.WithField("path", c.Path()).Warn("Missing authentication token")
			return unauthenticated(c, loginURL, "Missing authentication token")
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			entry := logger.Logger.WithError(err)
			switch {
			case errors.Is(err, jwt.ErrTokenMalformed):
				entry.Warn("That's not even a token")
			case errors.Is(err, jwt.ErrTokenExpired):
				entry.Warn("Token has expired")
			default:
				entry.Warn("Couldn't handle this token")
			}
			return unauthenticated(c, loginURL, "Invalid or expired token")
		}

		id, err := claims.UserID()
		if err != nil {
			return unauthenticated(c, loginURL, "Invalid or expired token")
		}
		user, err := users.FindWithPermissions(c.UserContext(), id)
		if err != nil {
			logger.Logger.WithError(err).WithField("user_id", id).Warn("Token user could not be loaded")
			return unauthenticated(c, loginURL, "Invalid or expired token")
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated caller, nil outside JWTMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func unauthenticated(c *fiber.Ctx, loginURL, message string) error {
	if WantsJSON(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ErrorResponse{
			Error:   true,
			Message: message,
		})
	}
	return c.Redirect(loginURL)
}
