package stock

import (
	"errors"
	"time"

	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Change describes one stock mutation. Every write to the stock record goes
// through Apply; no other code path touches currentStock.
type Change struct {
	Action   models.StockAction
	Quantity decimal.Decimal
	Actor    models.StockActor
	OrderID  *uint
}

var half = decimal.New(5, -1) // 0.5

const casAttempts = 3

// Apply executes one stock mutation: exactly one stock write and one ledger
// append, both in the same transaction. The update is guarded by a
// compare-and-swap on the snapshot it read; on contention it retries up to
// casAttempts times before giving up with ErrConflict.
func Apply(db *gorm.DB, ch Change) (*models.Stock, error) {
	if err := validate(ch); err != nil {
		return nil, err
	}

	var out *models.Stock
	for attempt := 0; attempt < casAttempts; attempt++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			s, err := applyOnce(tx, ch)
			if err != nil {
				return err
			}
			out = s
			return nil
		})
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
	}
	return nil, ErrConflict
}

func validate(ch Change) error {
	switch ch.Action {
	case models.ActionMountedCorrection, models.ActionDirectSaleCorrection, models.ActionOrderUpdate:
		// corrections and order edits carry a signed delta
	case models.ActionAddMounted, models.ActionRemoveMounted, models.ActionDirectSale,
		models.ActionNewOrder, models.ActionCancelOrder, models.ActionOrderError,
		models.ActionOrderDelivered, models.ActionResetStock:
		if ch.Quantity.IsNegative() {
			return ErrInvalidQuantity
		}
	default:
		return ErrUnknownAction
	}

	if !ch.Quantity.Mod(half).IsZero() {
		return ErrInvalidQuantity
	}
	return nil
}

func applyOnce(tx *gorm.DB, ch Change) (*models.Stock, error) {
	cur, err := currentRecord(tx)
	if err != nil {
		return nil, err
	}

	if ch.Action == models.ActionResetStock {
		return resetRecord(tx, cur, ch)
	}

	initial, current, reserved := nextSnapshot(cur, ch)
	unreserved := current.Sub(reserved)

	if current.IsNegative() {
		logger.L().Warn("el stock actual queda en negativo",
			zap.String("action", string(ch.Action)),
			zap.String("current", current.StringFixed(1)))
	}

	now := time.Now()
	res := tx.Model(&models.Stock{}).
		Where("id = ? AND current_stock = ? AND reserved_stock = ?",
			cur.ID, cur.CurrentStock, cur.ReservedStock).
		Updates(map[string]interface{}{
			"initial_stock":    initial,
			"current_stock":    current,
			"reserved_stock":   reserved,
			"unreserved_stock": unreserved,
			"last_updated":     now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	if err := appendHistory(tx, cur.ID, ch, cur.CurrentStock, current); err != nil {
		return nil, err
	}

	cur.InitialStock = initial
	cur.CurrentStock = current
	cur.ReservedStock = reserved
	cur.UnreservedStock = unreserved
	cur.LastUpdated = now
	return cur, nil
}

// nextSnapshot applies the action semantics to the snapshot that was read.
// Reservation-only actions leave currentStock untouched: the reservation is
// virtual and only materialises on delivery.
func nextSnapshot(cur *models.Stock, ch Change) (initial, current, reserved decimal.Decimal) {
	initial = cur.InitialStock
	current = cur.CurrentStock
	reserved = cur.ReservedStock
	q := ch.Quantity

	switch ch.Action {
	case models.ActionAddMounted:
		current = current.Add(q)
		if cur.InitialStock.IsZero() && cur.CurrentStock.IsZero() {
			// first load of the day establishes the baseline
			initial = q
		}
	case models.ActionRemoveMounted, models.ActionDirectSale:
		current = current.Sub(q)
	case models.ActionMountedCorrection, models.ActionDirectSaleCorrection:
		current = current.Add(q)
	case models.ActionNewOrder:
		reserved = reserved.Add(q)
	case models.ActionCancelOrder, models.ActionOrderError:
		reserved = reserved.Sub(q)
	case models.ActionOrderDelivered:
		current = current.Sub(q)
		reserved = reserved.Sub(q)
	case models.ActionOrderUpdate:
		reserved = reserved.Add(q)
	}
	return initial, current, reserved
}

// resetRecord supersedes the live record with a fresh zeroed one for today.
// Old records stay untouched; the ledger entry opens the new record's chain.
func resetRecord(tx *gorm.DB, cur *models.Stock, ch Change) (*models.Stock, error) {
	now := time.Now()
	fresh := models.Stock{
		Date:            DayStart(now),
		InitialStock:    decimal.Zero,
		CurrentStock:    decimal.Zero,
		ReservedStock:   decimal.Zero,
		UnreservedStock: decimal.Zero,
		LastUpdated:     now,
	}
	if err := tx.Create(&fresh).Error; err != nil {
		return nil, err
	}

	if err := appendHistory(tx, fresh.ID, ch, cur.CurrentStock, decimal.Zero); err != nil {
		return nil, err
	}
	return &fresh, nil
}

func appendHistory(tx *gorm.DB, stockID uint, ch Change, previous, next decimal.Decimal) error {
	entry := models.StockHistory{
		StockID:       stockID,
		Action:        ch.Action,
		Quantity:      ch.Quantity,
		PreviousStock: previous,
		NewStock:      next,
		CreatedBy:     ch.Actor,
		OrderID:       ch.OrderID,
	}
	return tx.Create(&entry).Error
}

// currentRecord returns today's latest stock record, creating a zeroed one
// when the day has none yet (a subtractive action on an empty day starts
// from zero, matching the old system).
func currentRecord(tx *gorm.DB) (*models.Stock, error) {
	dayStart := DayStart(time.Now())

	var s models.Stock
	err := tx.
		Where("date >= ? AND date < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Order("last_updated DESC, id DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.Stock{
			Date:            dayStart,
			InitialStock:    decimal.Zero,
			CurrentStock:    decimal.Zero,
			ReservedStock:   decimal.Zero,
			UnreservedStock: decimal.Zero,
			LastUpdated:     time.Now(),
		}
		if err := tx.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CurrentRecord exposes today's record for read paths.
func CurrentRecord(db *gorm.DB) (*models.Stock, error) {
	return currentRecord(db)
}

// DayStart truncates a time to local midnight.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
