package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockAction string

const (
	ActionAddMounted           StockAction = "add_mounted"
	ActionRemoveMounted        StockAction = "remove_mounted"
	ActionMountedCorrection    StockAction = "mounted_correction"
	ActionDirectSale           StockAction = "direct_sale"
	ActionDirectSaleCorrection StockAction = "direct_sale_correction"
	ActionNewOrder             StockAction = "new_order"
	ActionCancelOrder          StockAction = "cancel_order"
	ActionOrderError           StockAction = "order_error"
	ActionOrderDelivered       StockAction = "order_delivered"
	ActionOrderUpdate          StockAction = "order_update"
	ActionResetStock           StockAction = "reset_stock"
)

type StockActor string

const (
	ActorAdmin  StockActor = "admin"
	ActorClient StockActor = "client"
	ActorSystem StockActor = "system"
)

// StockHistory: append-only ledger of stock mutations. For consecutive
// entries on the same stock record, PreviousStock always equals the
// NewStock of the entry before it.
type StockHistory struct {
	ID            uint            `gorm:"primaryKey"`
	StockID       uint            `gorm:"index;not null"`
	Action        StockAction     `gorm:"size:30;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	PreviousStock decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(10,1);not null"`
	CreatedBy     StockActor      `gorm:"size:10;not null"`
	OrderID       *uint           `gorm:"index"`
	CreatedAt     time.Time
}
