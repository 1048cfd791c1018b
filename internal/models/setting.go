package models

import "time"

type Setting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:100;uniqueIndex;not null"`
	Value     string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
