// Package acl holds the access-control policy shared by the role screens.
package acl

import "acl-admin-backend/models"

// SuperAdminSlug identifies the protected role.
const SuperAdminSlug = "super-admin"

// Screen is the name under which role screens report lifecycle events.
const Screen = "webed-acl-role"

const (
	PermViewRoles   = "view-roles"
	PermCreateRoles = "create-roles"
	PermEditRoles   = "edit-roles"
	PermDeleteRoles = "delete-roles"
	PermAssignRoles = "assign-roles"
)

// IsProtected reports whether role may not be deleted nor have its
// permission set changed.
func IsProtected(role *models.Role) bool {
	return role != nil && role.Slug == SuperAdminSlug
}

// HasPermission reports whether user holds at least one of the given
// permission slugs through its roles. Holders of a protected role hold
// every permission. Roles must be loaded with their permissions.
func HasPermission(user *models.User, slugs ...string) bool {
	if user == nil {
		return false
	}
	for i := range user.Roles {
		role := &user.Roles[i]
		if IsProtected(role) {
			return true
		}
		for _, p := range role.Permissions {
			for _, slug := range slugs {
				if p.Slug == slug {
					return true
				}
			}
		}
	}
	return false
}
