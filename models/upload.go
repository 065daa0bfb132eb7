package models

import (
	"time"
)

// Upload represents an uploaded readout screen image. Simplified to requested fields.
type Upload struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FileName    string  `gorm:"size:255;not null"`
	StorePath   string  `gorm:"column:store_path;size:512"` // public relative path (e.g. public/screens/xxx.jpg)
	ProfileID   uint    `gorm:"index;not null"`             // FK to profiles.id (profile_id)
	Profile     Profile `gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ContentType string  `gorm:"size:128"`
	PitchID     *uint   `gorm:"index"` // FK to pitches.id (nullable until extraction succeeds)
	// Mark upload as failed for recognition processing (do not delete record so front-end/admin can review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
