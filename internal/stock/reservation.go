package stock

import (
	"time"

	"asador-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ComputeReserved sums the quantities of pending, non-deleted orders with a
// pickup on the given day. It is the source of truth for reservations and
// runs on every stock read; the stored reserved_stock column is only an
// audit snapshot.
func ComputeReserved(db *gorm.DB, day time.Time) (decimal.Decimal, error) {
	dayStart := DayStart(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var orders []models.Order
	err := db.
		Where("status = ? AND deleted = ? AND pickup_time >= ? AND pickup_time < ?",
			models.OrderStatusPending, false, dayStart, dayEnd).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Quantity)
	}
	return total, nil
}
