package models

import "time"

type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Slug        string       `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedBy   *uint        `json:"createdBy,omitempty"`
	UpdatedBy   *uint        `json:"updatedBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_roles;" json:"-"`
}
