package models

type Permission struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	Slug   string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Module string `gorm:"size:100" json:"module"`
	Roles  []Role `gorm:"many2many:role_permissions;" json:"-"`
}
