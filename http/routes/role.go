package routes

import (
	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/http/controllers"
	"acl-admin-backend/http/middleware"
	"acl-admin-backend/http/urls"
	"acl-admin-backend/providers/acl"
)

func RoleRoutes(app *fiber.App, ctrl *controllers.RoleController, authenticate fiber.Handler) {
	roles := app.Group("/admin/acl-roles", authenticate)

	view := middleware.RequirePermission(acl.PermViewRoles)
	roles.Get("", view, ctrl.GetIndex).Name(urls.RolesIndex)
	roles.Post("", view, ctrl.PostListing).Name(urls.RolesListing)

	create := middleware.RequirePermission(acl.PermCreateRoles)
	roles.Get("/create", create, ctrl.GetCreate).Name(urls.RolesCreate)
	roles.Post("/create", create, ctrl.PostCreate).Name(urls.RolesCreatePost)

	edit := middleware.RequirePermission(acl.PermEditRoles)
	roles.Get("/edit/:id", edit, ctrl.GetEdit).Name(urls.RolesEdit)
	roles.Post("/edit/:id", edit, ctrl.PostEdit).Name(urls.RolesEditPost)

	roles.Post("/delete/:id", middleware.RequirePermission(acl.PermDeleteRoles), ctrl.PostDelete).Name(urls.RolesDelete)
}
