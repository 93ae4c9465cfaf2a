package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acl-admin-backend/models"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// All returns the permission catalog ordered by module and name.
func (r *PermissionRepository) All(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Order("module, name").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// Upsert inserts the given permissions, keeping rows whose slug exists.
func (r *PermissionRepository) Upsert(ctx context.Context, perms []models.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&perms).Error
}
