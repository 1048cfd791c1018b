package models

import "time"

type OrderLogAction string

const (
	OrderLogCreate OrderLogAction = "create"
	OrderLogUpdate OrderLogAction = "update"
	OrderLogStatus OrderLogAction = "status"
	OrderLogDelete OrderLogAction = "delete"
)

// OrderLog: audit trail for order changes, one entry per mutation.
type OrderLog struct {
	ID            uint           `gorm:"primaryKey"`
	OrderID       uint           `gorm:"index;not null"`
	Action        OrderLogAction `gorm:"size:20;not null"`
	PreviousState string         `gorm:"type:jsonb"`
	NewState      string         `gorm:"type:jsonb"`
	CreatedBy     StockActor     `gorm:"size:10;not null"`
	CreatedAt     time.Time
}
