package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records one lifecycle event of an admin screen.
type ActivityLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Screen     string         `gorm:"size:100;index;not null" json:"screen"`
	Action     string         `gorm:"size:50;not null" json:"action"`
	SubjectIDs datatypes.JSON `json:"subjectIds"`
	Payload    datatypes.JSON `json:"payload"`
	UserID     *uint          `gorm:"index" json:"userId,omitempty"`
	Failed     bool           `gorm:"default:false" json:"failed"`
	CreatedAt  time.Time      `json:"createdAt"`
}
