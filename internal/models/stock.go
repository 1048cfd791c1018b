package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock: snapshot of the day's roasting capacity. One live record per day;
// a reset supersedes it with a fresh one, old records are never deleted.
type Stock struct {
	ID           uint            `gorm:"primaryKey"`
	Date         time.Time       `gorm:"index;not null"` // day the snapshot applies to
	InitialStock decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	// ReservedStock/UnreservedStock are audit snapshots maintained by the
	// mutation engine; reads recompute reservations from pending orders.
	ReservedStock   decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	UnreservedStock decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	LastUpdated     time.Time       `gorm:"not null"`
}
