package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `json:"displayName"`
	Email       string    `gorm:"size:255" json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Roles       []Role    `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}
