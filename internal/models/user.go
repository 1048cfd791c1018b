package models

import "time"

type UserRole string

const (
	// Haykakan is the full administrator role inherited from the old system.
	RoleHaykakan UserRole = "haykakan"
	// Festero is the limited role for fiesta participants.
	RoleFestero UserRole = "festero"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Active       bool     `gorm:"default:true;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
