package models

import "time"

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	Price       int    `gorm:"not null"` // cents
	ImageURL    string `gorm:"size:255"`
	CategoryID  *uint  `gorm:"index"`
	Category    *Category
	Deleted     bool `gorm:"default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
