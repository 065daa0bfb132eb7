package models

import "time"

// Pitch stores one reconciled pitch readout. Metric fields are pointers so a
// partially recognized screen keeps NULLs instead of fake zeros.
type Pitch struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint  `gorm:"index;not null"`
	ProfileID *uint `gorm:"index"`

	PitchType string `gorm:"size:8;index"`
	Hand      string `gorm:"size:8"`

	Speed            *float64
	TotalSpin        *float64
	TrueSpin         *float64
	SpinEfficiency   *float64
	ActiveSpin       *float64
	InducedVertBreak *float64
	HorzBreak        *float64
	ReleaseHeight    *float64
	ReleaseSide      *float64
	Extension        *float64
	Gyro             *float64
	Tilt             string `gorm:"size:8"`
	SpinAxis         *float64

	StuffPlus *float64
	Notes     string `gorm:"size:512"`
}
