package models

import "time"

type BusinessHours struct {
	ID        uint   `gorm:"primaryKey"`
	DayOfWeek int    `gorm:"uniqueIndex;not null"` // 0 = Monday
	OpenTime  string `gorm:"size:5;not null"`      // "10:00"
	CloseTime string `gorm:"size:5;not null"`
	IsOpen    bool   `gorm:"default:true"`
	// AutoUpdate marks rows an external hours sync may overwrite.
	AutoUpdate bool `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
