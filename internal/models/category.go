package models

import "time"

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	ImageURL    string `gorm:"size:255"`
	Deleted     bool   `gorm:"default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []Product
}
