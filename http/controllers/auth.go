package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/http/middleware"
	"acl-admin-backend/http/requests"
	"acl-admin-backend/http/responses"
	"acl-admin-backend/http/urls"
	"acl-admin-backend/logger"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/auth"
	"acl-admin-backend/providers/flash"
	"acl-admin-backend/repositories"
)

const tokenTTL = 2 * time.Hour

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type AuthController struct {
	users  UserFinder
	secret string
	flash  *flash.Store
}

func NewAuthController(users UserFinder, secret string, flashes *flash.Store) *AuthController {
	return &AuthController{users: users, secret: secret, flash: flashes}
}

func (ac *AuthController) GetLogin(c *fiber.Ctx) error {
	msgs, err := ac.flash.Pop(c)
	if err != nil {
		logger.Logger.WithError(err).Warn("Failed to read flash messages")
	}
	return c.Render("auth/login", fiber.Map{
		"Title":     "Login",
		"Messages":  msgs,
		"ActionURL": urls.Route(c, urls.LoginPost, nil),
	}, "")
}

func (ac *AuthController) PostLogin(c *fiber.Ctx) error {
	var req requests.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Logger.WithError(err).Error("Failed to parse login request")
		return ac.loginFailed(c, fiber.StatusBadRequest, "Invalid input")
	}
	if err := req.Validate(); err != nil {
		return ac.loginFailed(c, fiber.StatusBadRequest, requests.Messages(err)...)
	}

	user, err := ac.users.FindByUsername(c.UserContext(), req.Username)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			logger.Logger.WithError(err).Error("Failed to look up user")
		}
		return ac.loginFailed(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !auth.CheckPassword(req.Password, user.Password) {
		logger.Logger.WithField("username", req.Username).Warn("Invalid password")
		return ac.loginFailed(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := auth.GenerateToken(ac.secret, user, tokenTTL)
	if err != nil {
		logger.Logger.WithError(err).Error("Failed to generate token")
		return fiber.NewError(fiber.StatusInternalServerError, "Could not login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	logger.Logger.WithField("username", user.Username).Info("User logged in")

	if middleware.WantsJSON(c) {
		return c.JSON(responses.SuccessResponse{
			Message: "Logged in",
			Data:    fiber.Map{"token": token},
		})
	}
	return c.Redirect(urls.Route(c, urls.RolesIndex, nil))
}

func (ac *AuthController) PostLogout(c *fiber.Ctx) error {
	c.ClearCookie(auth.CookieName)
	return c.Redirect(urls.Route(c, urls.Login, nil))
}

func (ac *AuthController) loginFailed(c *fiber.Ctx, code int, messages ...string) error {
	if middleware.WantsJSON(c) {
		return fiber.NewError(code, messages[0])
	}
	if err := ac.flash.Add(c, flash.Danger, messages...); err != nil {
		logger.Logger.WithError(err).Warn("Failed to flash messages")
	}
	return c.Redirect(urls.Route(c, urls.Login, nil))
}
