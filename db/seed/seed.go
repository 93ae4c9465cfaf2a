// Package seed creates the permission catalog, the super admin role and
// the first admin user.
package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"acl-admin-backend/http/requests"
	"acl-admin-backend/logger"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/acl"
	"acl-admin-backend/providers/auth"
	"acl-admin-backend/repositories"
)

const aclModule = "webed-acl"

// Permissions is the catalog known to the role screens.
var Permissions = []models.Permission{
	{Name: "View roles", Slug: acl.PermViewRoles, Module: aclModule},
	{Name: "Create roles", Slug: acl.PermCreateRoles, Module: aclModule},
	{Name: "Edit roles", Slug: acl.PermEditRoles, Module: aclModule},
	{Name: "Delete roles", Slug: acl.PermDeleteRoles, Module: aclModule},
	{Name: "Assign roles", Slug: acl.PermAssignRoles, Module: aclModule},
}

type Admin struct {
	Username string
	Password string
	Email    string
}

// Run is safe to call repeatedly: existing permissions, the role and the
// user are kept as they are.
func Run(ctx context.Context, database *gorm.DB, admin Admin) error {
	perms := repositories.NewPermissionRepository(database)
	if err := perms.Upsert(ctx, append([]models.Permission(nil), Permissions...)); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}

	var role models.Role
	err := database.WithContext(ctx).
		Where(models.Role{Slug: acl.SuperAdminSlug}).
		Attrs(models.Role{Name: "Super admin"}).
		FirstOrCreate(&role).Error
	if err != nil {
		return fmt.Errorf("seed super admin role: %w", err)
	}

	users := repositories.NewUserRepository(database)
	user, err := users.FindByUsername(ctx, admin.Username)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		if user, err = createAdmin(ctx, users, admin); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("look up admin user: %w", err)
	default:
		logger.Logger.WithField("username", admin.Username).Info("Admin user exists, keeping it")
	}

	if err := users.AttachRoles(ctx, user, role); err != nil {
		return fmt.Errorf("attach super admin role: %w", err)
	}
	return nil
}

func createAdmin(ctx context.Context, users *repositories.UserRepository, admin Admin) (*models.User, error) {
	req := requests.CreateUserRequest{
		Username:    admin.Username,
		Password:    admin.Password,
		DisplayName: "Administrator",
		Email:       admin.Email,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid admin user: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:    req.Username,
		Password:    hash,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	logger.Logger.WithField("username", user.Username).Info("Admin user created")
	return user, nil
}
