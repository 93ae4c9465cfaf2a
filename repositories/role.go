package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"acl-admin-backend/models"
	"acl-admin-backend/providers/acl"
)

type CreateRoleInput struct {
	Name          string
	Slug          string
	PermissionIDs []uint
	ActorID       uint
}

type UpdateRoleInput struct {
	Name          string
	PermissionIDs []uint
	ActorID       uint
}

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Query is the base query the roles grid reads from.
func (r *RoleRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Role{}).Select("id", "name", "slug")
}

func (r *RoleRepository) Find(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// RelatedPermissionIDs returns the ids of the permissions assigned to role.
func (r *RoleRepository) RelatedPermissionIDs(ctx context.Context, role *models.Role) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Where("role_id = ?", role.ID).
		Order("permission_id").
		Pluck("permission_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *RoleRepository) Create(ctx context.Context, in CreateRoleInput) (*models.Role, error) {
	role := models.Role{
		Name:      in.Name,
		Slug:      in.Slug,
		CreatedBy: actor(in.ActorID),
		UpdatedBy: actor(in.ActorID),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Role{}).Where("slug = ?", in.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlugTaken
		}

		if err := tx.Omit("Permissions", "Users").Create(&role).Error; err != nil {
			return err
		}
		return syncPermissions(tx, &role, in.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Update changes name and permissions of role. The permission set of a
// protected role is left as is.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role, in UpdateRoleInput) (*models.Role, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":       in.Name,
			"updated_by": actor(in.ActorID),
		}
		if err := tx.Model(role).Updates(updates).Error; err != nil {
			return err
		}
		if acl.IsProtected(role) {
			return nil
		}
		return syncPermissions(tx, role, in.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Delete removes the roles with the given ids together with their
// permission and user assignments. The whole batch is rejected when it
// contains a protected role.
func (r *RoleRepository) Delete(ctx context.Context, ids ...uint) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	var deleted int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roles []models.Role
		if err := tx.Where("id IN ?", ids).Find(&roles).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return ErrRoleNotFound
		}
		for i := range roles {
			if acl.IsProtected(&roles[i]) {
				return fmt.Errorf("%w: %s", ErrProtectedRole, roles[i].Slug)
			}
		}

		res := tx.Select("Permissions", "Users").Delete(&roles)
		if res.Error != nil {
			return res.Error
		}
		deleted = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func syncPermissions(tx *gorm.DB, role *models.Role, ids []uint) error {
	var perms []models.Permission
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&perms).Error; err != nil {
			return err
		}
	}
	assoc := tx.Model(role).Association("Permissions")
	if len(perms) == 0 {
		if err := assoc.Clear(); err != nil {
			return err
		}
	} else if err := assoc.Replace(perms); err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}

func actor(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
