// Package urls names the admin routes and resolves them to paths.
package urls

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/logger"
)

const (
	RolesIndex      = "admin::acl-roles.index.get"
	RolesListing    = "admin::acl-roles.index.post"
	RolesCreate     = "admin::acl-roles.create.get"
	RolesCreatePost = "admin::acl-roles.create.post"
	RolesEdit       = "admin::acl-roles.edit.get"
	RolesEditPost   = "admin::acl-roles.edit.post"
	RolesDelete     = "admin::acl-roles.delete.post"

	Login     = "admin::auth.login.get"
	LoginPost = "admin::auth.login.post"
	Logout    = "admin::auth.logout.post"
)

type Resolver interface {
	GetRouteURL(name string, params fiber.Map) (string, error)
}

// Route resolves a named route. An unknown name is logged and resolves
// to the admin root.
func Route(r Resolver, name string, params fiber.Map) string {
	u, err := r.GetRouteURL(name, params)
	if err != nil || u == "" {
		logger.Logger.WithError(err).WithField("route", name).Error("Failed to resolve route")
		return "/admin"
	}
	return u
}

// WithID resolves a named route taking an :id parameter.
func WithID(r Resolver, name string, id uint) string {
	return Route(r, name, fiber.Map{"id": strconv.FormatUint(uint64(id), 10)})
}
