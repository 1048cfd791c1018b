package orders

import (
	"encoding/json"
	"errors"
	"time"

	"asador-backend/internal/models"
	"asador-backend/internal/settings"
	"asador-backend/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var half = decimal.New(5, -1)

type CreateInput struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Quantity      decimal.Decimal
	Details       string
	TotalAmount   int
	PickupTime    time.Time
	Actor         models.StockActor
}

type UpdateInput struct {
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Quantity      *decimal.Decimal
	Details       *string
	TotalAmount   *int
	PickupTime    *time.Time
	Actor         models.StockActor
}

// Create validates and persists a new pending order. The order row, its
// reservation ledger entry and the order log commit in one transaction.
func Create(db *gorm.DB, in CreateInput) (*models.Order, error) {
	if in.CustomerName == "" {
		return nil, &ValidationError{Field: "customer_name", Reason: "el nombre es obligatorio"}
	}
	if err := validateQuantity(db, in.Quantity); err != nil {
		return nil, err
	}
	if in.PickupTime.IsZero() {
		return nil, &ValidationError{Field: "pickup_time", Reason: "la hora de recogida no es válida"}
	}

	actor := in.Actor
	if actor == "" {
		actor = models.ActorClient
	}

	order := models.Order{
		Reference:     uuid.NewString(),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Quantity:      in.Quantity,
		Details:       in.Details,
		TotalAmount:   in.TotalAmount,
		Status:        models.OrderStatusPending,
		PickupTime:    in.PickupTime,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if _, err := stock.Apply(tx, stock.Change{
			Action:   models.ActionNewOrder,
			Quantity: order.Quantity,
			Actor:    actor,
			OrderID:  &order.ID,
		}); err != nil {
			return err
		}
		return writeLog(tx, order.ID, models.OrderLogCreate, nil, &order, actor)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// transitionAction maps a terminal target status onto its stock action.
func transitionAction(target models.OrderStatus) (models.StockAction, error) {
	switch target {
	case models.OrderStatusCompleted:
		return models.ActionOrderDelivered, nil
	case models.OrderStatusCancelled:
		return models.ActionCancelOrder, nil
	case models.OrderStatusError:
		return models.ActionOrderError, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Transition moves a pending order into a terminal status. The stock
// mutation and the status change commit together or not at all; a terminal
// order yields ErrFinalized and leaves stock and ledger untouched.
func Transition(db *gorm.DB, id uint, target models.OrderStatus, actor models.StockActor) (*models.Order, error) {
	action, err := transitionAction(target)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if order.Terminal() {
			return ErrFinalized
		}

		if _, err := stock.Apply(tx, stock.Change{
			Action:   action,
			Quantity: order.Quantity,
			Actor:    actor,
			OrderID:  &order.ID,
		}); err != nil {
			return err
		}

		previous := order
		order.Status = target
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", target).Error; err != nil {
			return err
		}
		return writeLog(tx, order.ID, models.OrderLogStatus, &previous, &order, actor)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update edits a pending order. A quantity change emits an order_update
// ledger entry carrying the signed reservation delta.
func Update(db *gorm.DB, id uint, in UpdateInput) (*models.Order, error) {
	actor := in.Actor
	if actor == "" {
		actor = models.ActorAdmin
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if order.Terminal() {
			return ErrFinalized
		}

		previous := order
		if in.CustomerName != nil {
			if *in.CustomerName == "" {
				return &ValidationError{Field: "customer_name", Reason: "el nombre es obligatorio"}
			}
			order.CustomerName = *in.CustomerName
		}
		if in.CustomerPhone != nil {
			order.CustomerPhone = *in.CustomerPhone
		}
		if in.CustomerEmail != nil {
			order.CustomerEmail = *in.CustomerEmail
		}
		if in.Details != nil {
			order.Details = *in.Details
		}
		if in.TotalAmount != nil {
			order.TotalAmount = *in.TotalAmount
		}
		if in.PickupTime != nil {
			if in.PickupTime.IsZero() {
				return &ValidationError{Field: "pickup_time", Reason: "la hora de recogida no es válida"}
			}
			order.PickupTime = *in.PickupTime
		}

		var delta decimal.Decimal
		if in.Quantity != nil && !in.Quantity.Equal(previous.Quantity) {
			if err := validateQuantity(tx, *in.Quantity); err != nil {
				return err
			}
			delta = in.Quantity.Sub(previous.Quantity)
			order.Quantity = *in.Quantity
		}

		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if !delta.IsZero() {
			if _, err := stock.Apply(tx, stock.Change{
				Action:   models.ActionOrderUpdate,
				Quantity: delta,
				Actor:    actor,
				OrderID:  &order.ID,
			}); err != nil {
				return err
			}
		}
		return writeLog(tx, order.ID, models.OrderLogUpdate, &previous, &order, actor)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SoftDelete hides the order from active views. No stock mutation: the
// reservation calculator stops counting it on the next read.
func SoftDelete(db *gorm.DB, id uint, actor models.StockActor) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		previous := order
		order.Deleted = true
		if err := tx.Model(&models.Order{}).Where("id = ?", id).
			Update("deleted", true).Error; err != nil {
			return err
		}
		return writeLog(tx, id, models.OrderLogDelete, &previous, &order, actor)
	})
}

func validateQuantity(db *gorm.DB, q decimal.Decimal) error {
	if !q.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: "la cantidad debe ser mayor que cero"}
	}
	if !q.Mod(half).IsZero() {
		return &ValidationError{Field: "quantity", Reason: "la cantidad debe ser un múltiplo de 0.5"}
	}

	if min, ok := settings.GetDecimal(db, settings.KeyMinOrder); ok && q.LessThan(min) {
		return &ValidationError{Field: "quantity", Reason: "la cantidad es inferior al pedido mínimo"}
	}
	if max, ok := settings.GetDecimal(db, settings.KeyMaxOrder); ok && q.GreaterThan(max) {
		return &ValidationError{Field: "quantity", Reason: "la cantidad supera el pedido máximo"}
	}
	return nil
}

func writeLog(tx *gorm.DB, orderID uint, action models.OrderLogAction, before, after *models.Order, actor models.StockActor) error {
	// jsonb columns need "null", not an empty string
	prevStr := "null"
	newStr := "null"
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			prevStr = string(b)
		}
	}
	if after != nil {
		if b, err := json.Marshal(after); err == nil {
			newStr = string(b)
		}
	}

	entry := models.OrderLog{
		OrderID:       orderID,
		Action:        action,
		PreviousState: prevStr,
		NewState:      newStr,
		CreatedBy:     actor,
	}
	return tx.Create(&entry).Error
}
