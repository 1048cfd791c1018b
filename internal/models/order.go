package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusError     OrderStatus = "error"
)

type Order struct {
	ID            uint            `gorm:"primaryKey"`
	Reference     string          `gorm:"size:36;uniqueIndex;not null"` // public lookup code
	CustomerName  string          `gorm:"size:100;not null"`
	CustomerPhone string          `gorm:"size:20"`
	CustomerEmail string          `gorm:"size:100"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,1);not null"` // chickens, half units
	Details       string          `gorm:"size:255"`
	TotalAmount   int             `gorm:"not null"` // cents
	Status        OrderStatus     `gorm:"size:20;index;not null"`
	PickupTime    time.Time       `gorm:"index;not null"`
	// Deleted hides the order; it is independent of the terminal statuses.
	Deleted   bool `gorm:"default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the order left the pending state. Terminal
// statuses are sinks: no further transition is accepted.
func (o *Order) Terminal() bool {
	return o.Status != OrderStatusPending
}
