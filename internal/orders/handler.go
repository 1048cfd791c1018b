package orders

import (
	"errors"
	"time"

	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"
	"asador-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderResponse struct {
	ID            uint   `json:"id"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Quantity      string `json:"quantity"`
	Details       string `json:"details"`
	TotalAmount   int    `json:"total_amount"`
	Status        string `json:"status"`
	PickupTime    string `json:"pickup_time"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CreateOrderRequest struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail string          `json:"customer_email"`
	Quantity      decimal.Decimal `json:"quantity"`
	Details       string          `json:"details"`
	TotalAmount   int             `json:"total_amount"`
	PickupTime    string          `json:"pickup_time"`
}

type UpdateOrderRequest struct {
	CustomerName  *string          `json:"customer_name"`
	CustomerPhone *string          `json:"customer_phone"`
	CustomerEmail *string          `json:"customer_email"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Details       *string          `json:"details"`
	TotalAmount   *int             `json:"total_amount"`
	PickupTime    *string          `json:"pickup_time"`
}

func orderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		Reference:     o.Reference,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Quantity:      o.Quantity.StringFixed(1),
		Details:       o.Details,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PickupTime:    o.PickupTime.Format("2006-01-02 15:04:05"),
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// parsePickupTime accepts RFC3339 (what the web client sends) and the plain
// back-office format.
func parsePickupTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", raw, time.Local)
}

func mapOrderError(err error) error {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Reason)
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Pedido no encontrado")
	case errors.Is(err, ErrFinalized):
		return fiber.NewError(fiber.StatusConflict, "El pedido ya está finalizado")
	case errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, "Estado de pedido no válido")
	case errors.Is(err, stock.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, "El stock fue modificado por otra operación, inténtalo de nuevo")
	default:
		logger.L().Error("error en la operación de pedidos", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Error al procesar el pedido")
	}
}

// GET /api/orders
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Where("deleted = ?", false)
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if date := c.Query("date"); date != "" {
			day, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha no válida")
			}
			q = q.Where("pickup_time >= ? AND pickup_time < ?", day, day.AddDate(0, 0, 1))
		}

		var items []models.Order
		if err := q.Order("pickup_time ASC, id ASC").Find(&items).Error; err != nil {
			logger.L().Error("error al obtener los pedidos", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los pedidos")
		}

		resp := make([]OrderResponse, 0, len(items))
		for i := range items {
			resp = append(resp, orderResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido no encontrado")
		}
		return c.JSON(orderResponse(&order))
	}
}

// GET /api/orders/reference/:reference
// Public lookup so customers can check their order without logging in.
func GetByReferenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := c.Params("reference")

		var order models.Order
		if err := database.DB.First(&order, "reference = ? AND deleted = ?", ref, false).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido no encontrado")
		}
		return c.JSON(orderResponse(&order))
	}
}

// POST /api/orders
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		pickup, err := parsePickupTime(body.PickupTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "La hora de recogida no es válida")
		}

		order, err := Create(database.DB, CreateInput{
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			CustomerEmail: body.CustomerEmail,
			Quantity:      body.Quantity,
			Details:       body.Details,
			TotalAmount:   body.TotalAmount,
			PickupTime:    pickup,
			Actor:         models.ActorClient,
		})
		if err != nil {
			return mapOrderError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
	}
}

// PATCH /api/orders/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		var body UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		in := UpdateInput{
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			CustomerEmail: body.CustomerEmail,
			Quantity:      body.Quantity,
			Details:       body.Details,
			TotalAmount:   body.TotalAmount,
			Actor:         models.ActorAdmin,
		}
		if body.PickupTime != nil {
			pickup, err := parsePickupTime(*body.PickupTime)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "La hora de recogida no es válida")
			}
			in.PickupTime = &pickup
		}

		order, err := Update(database.DB, uint(id), in)
		if err != nil {
			return mapOrderError(err)
		}
		return c.JSON(orderResponse(order))
	}
}

func transitionHandler(target models.OrderStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		order, err := Transition(database.DB, uint(id), target, models.ActorAdmin)
		if err != nil {
			return mapOrderError(err)
		}
		return c.JSON(orderResponse(order))
	}
}

// PATCH /api/orders/:id/confirm
func ConfirmHandler() fiber.Handler {
	return transitionHandler(models.OrderStatusCompleted)
}

// PATCH /api/orders/:id/cancel
func CancelHandler() fiber.Handler {
	return transitionHandler(models.OrderStatusCancelled)
}

// PATCH /api/orders/:id/error
func ErrorHandler() fiber.Handler {
	return transitionHandler(models.OrderStatusError)
}

// DELETE /api/orders/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		if err := SoftDelete(database.DB, uint(id), models.ActorAdmin); err != nil {
			return mapOrderError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/dashboard-data
// Combined snapshot for the back-office home screen: today's stock plus the
// day's active orders.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := stock.CurrentRecord(database.DB)
		if err != nil {
			logger.L().Error("error al obtener el stock", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los datos del panel")
		}

		reserved, err := stock.ComputeReserved(database.DB, time.Now())
		if err != nil {
			logger.L().Error("error al calcular las reservas", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los datos del panel")
		}

		dayStart := stock.DayStart(time.Now())
		var todays []models.Order
		if err := database.DB.
			Where("deleted = ? AND pickup_time >= ? AND pickup_time < ?", false, dayStart, dayStart.AddDate(0, 0, 1)).
			Order("pickup_time ASC, id ASC").
			Find(&todays).Error; err != nil {
			logger.L().Error("error al obtener los pedidos", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los datos del panel")
		}

		ordersResp := make([]OrderResponse, 0, len(todays))
		pendingCount := 0
		for i := range todays {
			if todays[i].Status == models.OrderStatusPending {
				pendingCount++
			}
			ordersResp = append(ordersResp, orderResponse(&todays[i]))
		}

		return c.JSON(fiber.Map{
			"stock": fiber.Map{
				"id":               s.ID,
				"date":             s.Date.Format("2006-01-02"),
				"initial_stock":    s.InitialStock.StringFixed(1),
				"current_stock":    s.CurrentStock.StringFixed(1),
				"reserved_stock":   reserved.StringFixed(1),
				"unreserved_stock": s.CurrentStock.Sub(reserved).StringFixed(1),
			},
			"orders":         ordersResp,
			"pending_orders": pendingCount,
		})
	}
}
