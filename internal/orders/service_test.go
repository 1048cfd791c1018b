package orders

import (
	"testing"
	"time"

	"asador-backend/internal/database"
	"asador-backend/internal/models"
	"asador-backend/internal/settings"
	"asador-backend/internal/stock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func todayNoon() time.Time {
	return stock.DayStart(time.Now()).Add(12 * time.Hour)
}

func createOrder(t *testing.T, db *gorm.DB, q string) *models.Order {
	t.Helper()
	o, err := Create(db, CreateInput{
		CustomerName: "María García",
		Quantity:     decimal.RequireFromString(q),
		TotalAmount:  1500,
		PickupTime:   todayNoon(),
	})
	require.NoError(t, err)
	return o
}

func ledgerCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.StockHistory{}).Count(&n).Error)
	return n
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"missing name", CreateInput{Quantity: decimal.NewFromInt(1), PickupTime: todayNoon()}, "customer_name"},
		{"zero quantity", CreateInput{CustomerName: "x", Quantity: decimal.Zero, PickupTime: todayNoon()}, "quantity"},
		{"negative quantity", CreateInput{CustomerName: "x", Quantity: decimal.NewFromInt(-1), PickupTime: todayNoon()}, "quantity"},
		{"off-grid quantity", CreateInput{CustomerName: "x", Quantity: decimal.RequireFromString("1.3"), PickupTime: todayNoon()}, "quantity"},
		{"missing pickup", CreateInput{CustomerName: "x", Quantity: decimal.NewFromInt(1)}, "pickup_time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(db, tc.in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tc.field, vErr.Field)
		})
	}

	// a rejected order leaves no trace
	require.Zero(t, ledgerCount(t, db))
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestCreateRespectsOrderLimits(t *testing.T) {
	db := newTestDB(t)
	_, err := settings.Set(db, settings.KeyMinOrder, "1")
	require.NoError(t, err)
	_, err = settings.Set(db, settings.KeyMaxOrder, "10")
	require.NoError(t, err)

	_, err = Create(db, CreateInput{CustomerName: "x", Quantity: decimal.RequireFromString("0.5"), PickupTime: todayNoon()})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)

	_, err = Create(db, CreateInput{CustomerName: "x", Quantity: decimal.RequireFromString("10.5"), PickupTime: todayNoon()})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)

	createOrder(t, db, "10")
}

func TestCreateReservesStock(t *testing.T) {
	db := newTestDB(t)

	o := createOrder(t, db, "3")
	require.Equal(t, models.OrderStatusPending, o.Status)
	require.NotEmpty(t, o.Reference)

	s, err := stock.CurrentRecord(db)
	require.NoError(t, err)
	require.Equal(t, "3.0", s.ReservedStock.StringFixed(1))
	require.Equal(t, "0.0", s.CurrentStock.StringFixed(1))

	var entry models.StockHistory
	require.NoError(t, db.Order("id DESC").First(&entry).Error)
	require.Equal(t, models.ActionNewOrder, entry.Action)
	require.NotNil(t, entry.OrderID)
	require.Equal(t, o.ID, *entry.OrderID)

	var logEntry models.OrderLog
	require.NoError(t, db.First(&logEntry, "order_id = ?", o.ID).Error)
	require.Equal(t, models.OrderLogCreate, logEntry.Action)
	require.Equal(t, "null", logEntry.PreviousState)
	require.NotEqual(t, "null", logEntry.NewState)
}

func TestConfirmDeliversStock(t *testing.T) {
	db := newTestDB(t)
	_, err := stock.Apply(db, stock.Change{
		Action:   models.ActionAddMounted,
		Quantity: decimal.NewFromInt(10),
		Actor:    models.ActorAdmin,
	})
	require.NoError(t, err)

	o := createOrder(t, db, "3")

	got, err := Transition(db, o.ID, models.OrderStatusCompleted, models.ActorAdmin)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCompleted, got.Status)

	s, err := stock.CurrentRecord(db)
	require.NoError(t, err)
	require.Equal(t, "7.0", s.CurrentStock.StringFixed(1))
	require.Equal(t, "0.0", s.ReservedStock.StringFixed(1))

	var entry models.StockHistory
	require.NoError(t, db.Order("id DESC").First(&entry).Error)
	require.Equal(t, models.ActionOrderDelivered, entry.Action)
	require.Equal(t, "10.0", entry.PreviousStock.StringFixed(1))
	require.Equal(t, "7.0", entry.NewStock.StringFixed(1))
}

func TestCancelReleasesReservationOnly(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "2.5")

	got, err := Transition(db, o.ID, models.OrderStatusCancelled, models.ActorAdmin)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, got.Status)

	s, err := stock.CurrentRecord(db)
	require.NoError(t, err)
	require.Equal(t, "0.0", s.CurrentStock.StringFixed(1))
	require.Equal(t, "0.0", s.ReservedStock.StringFixed(1))

	reserved, err := stock.ComputeReserved(db, time.Now())
	require.NoError(t, err)
	require.True(t, reserved.IsZero())
}

func TestTransitionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "3")

	_, err := Transition(db, o.ID, models.OrderStatusCompleted, models.ActorAdmin)
	require.NoError(t, err)
	before := ledgerCount(t, db)

	// retried confirm and a conflicting cancel both bounce without side effects
	_, err = Transition(db, o.ID, models.OrderStatusCompleted, models.ActorAdmin)
	require.ErrorIs(t, err, ErrFinalized)
	_, err = Transition(db, o.ID, models.OrderStatusCancelled, models.ActorAdmin)
	require.ErrorIs(t, err, ErrFinalized)

	require.Equal(t, before, ledgerCount(t, db))

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	require.Equal(t, models.OrderStatusCompleted, got.Status)
}

func TestTransitionUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	_, err := Transition(db, 999, models.OrderStatusCompleted, models.ActorAdmin)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionInvalidTarget(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "1")
	_, err := Transition(db, o.ID, models.OrderStatusPending, models.ActorAdmin)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateQuantityEmitsDelta(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "3")

	newQ := decimal.RequireFromString("4.5")
	got, err := Update(db, o.ID, UpdateInput{Quantity: &newQ})
	require.NoError(t, err)
	require.Equal(t, "4.5", got.Quantity.StringFixed(1))

	var entry models.StockHistory
	require.NoError(t, db.Order("id DESC").First(&entry).Error)
	require.Equal(t, models.ActionOrderUpdate, entry.Action)
	require.Equal(t, "1.5", entry.Quantity.StringFixed(1))

	s, err := stock.CurrentRecord(db)
	require.NoError(t, err)
	require.Equal(t, "4.5", s.ReservedStock.StringFixed(1))

	reserved, err := stock.ComputeReserved(db, time.Now())
	require.NoError(t, err)
	require.Equal(t, "4.5", reserved.StringFixed(1))
}

func TestUpdateWithoutQuantityChangeSkipsLedger(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "3")
	before := ledgerCount(t, db)

	name := "Pedro López"
	got, err := Update(db, o.ID, UpdateInput{CustomerName: &name})
	require.NoError(t, err)
	require.Equal(t, name, got.CustomerName)
	require.Equal(t, before, ledgerCount(t, db))
}

func TestUpdateTerminalRejected(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "3")
	_, err := Transition(db, o.ID, models.OrderStatusCancelled, models.ActorAdmin)
	require.NoError(t, err)

	newQ := decimal.NewFromInt(5)
	_, err = Update(db, o.ID, UpdateInput{Quantity: &newQ})
	require.ErrorIs(t, err, ErrFinalized)
}

func TestSoftDeleteHidesFromReservation(t *testing.T) {
	db := newTestDB(t)
	o := createOrder(t, db, "3")
	before := ledgerCount(t, db)

	require.NoError(t, SoftDelete(db, o.ID, models.ActorAdmin))

	// no stock mutation: the calculator simply stops counting it
	require.Equal(t, before, ledgerCount(t, db))

	reserved, err := stock.ComputeReserved(db, time.Now())
	require.NoError(t, err)
	require.True(t, reserved.IsZero())

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	require.True(t, got.Deleted)
	require.Equal(t, models.OrderStatusPending, got.Status)
}

func TestQuantityWireFormat(t *testing.T) {
	o := models.Order{Quantity: decimal.RequireFromString("2.5")}
	resp := orderResponse(&o)
	require.Equal(t, "2.5", resp.Quantity)

	o.Quantity = decimal.NewFromInt(3)
	require.Equal(t, "3.0", orderResponse(&o).Quantity)
}
