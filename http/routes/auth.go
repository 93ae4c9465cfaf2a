package routes

import (
	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/http/controllers"
	"acl-admin-backend/http/urls"
)

func AuthRoutes(app *fiber.App, ctrl *controllers.AuthController) {
	auth := app.Group("/admin/auth")

	auth.Get("/login", ctrl.GetLogin).Name(urls.Login)
	auth.Post("/login", ctrl.PostLogin).Name(urls.LoginPost)
	auth.Post("/logout", ctrl.PostLogout).Name(urls.Logout)
}
