package stock

import (
	"errors"
	"time"

	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type StockResponse struct {
	ID              uint   `json:"id"`
	Date            string `json:"date"`
	InitialStock    string `json:"initial_stock"`
	CurrentStock    string `json:"current_stock"`
	ReservedStock   string `json:"reserved_stock"`
	UnreservedStock string `json:"unreserved_stock"`
	LastUpdated     string `json:"last_updated"`
}

type QuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type HistoryResponse struct {
	ID            uint   `json:"id"`
	StockID       uint   `json:"stock_id"`
	Action        string `json:"action"`
	Quantity      string `json:"quantity"`
	PreviousStock string `json:"previous_stock"`
	NewStock      string `json:"new_stock"`
	CreatedBy     string `json:"created_by"`
	OrderID       *uint  `json:"order_id"`
	CreatedAt     string `json:"created_at"`
}

// stockResponse recomputes reservations from today's pending orders; the
// stored column is never returned as-is.
func stockResponse(s *models.Stock) (StockResponse, error) {
	reserved, err := ComputeReserved(database.DB, time.Now())
	if err != nil {
		return StockResponse{}, err
	}

	return StockResponse{
		ID:              s.ID,
		Date:            s.Date.Format("2006-01-02"),
		InitialStock:    s.InitialStock.StringFixed(1),
		CurrentStock:    s.CurrentStock.StringFixed(1),
		ReservedStock:   reserved.StringFixed(1),
		UnreservedStock: s.CurrentStock.Sub(reserved).StringFixed(1),
		LastUpdated:     s.LastUpdated.Format("2006-01-02 15:04:05"),
	}, nil
}

func mapStockError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "Cantidad no válida")
	case errors.Is(err, ErrConflict):
		return fiber.NewError(fiber.StatusConflict, "El stock fue modificado por otra operación, inténtalo de nuevo")
	default:
		logger.L().Error("error al actualizar el stock", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el stock")
	}
}

// GET /api/stock
func GetStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := CurrentRecord(database.DB)
		if err != nil {
			logger.L().Error("error al obtener el stock", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el stock")
		}

		resp, err := stockResponse(s)
		if err != nil {
			logger.L().Error("error al calcular las reservas", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el stock")
		}
		return c.JSON(resp)
	}
}

func applyHandler(action models.StockAction, absolute bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body QuantityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		q := body.Quantity
		if absolute {
			q = q.Abs()
		}

		s, err := Apply(database.DB, Change{
			Action:   action,
			Quantity: q,
			Actor:    models.ActorAdmin,
		})
		if err != nil {
			return mapStockError(err)
		}

		resp, err := stockResponse(s)
		if err != nil {
			logger.L().Error("error al calcular las reservas", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el stock")
		}
		return c.JSON(resp)
	}
}

// POST /api/stock/mounted/add
func AddMountedHandler() fiber.Handler {
	return applyHandler(models.ActionAddMounted, true)
}

// POST /api/stock/mounted/remove
func RemoveMountedHandler() fiber.Handler {
	return applyHandler(models.ActionRemoveMounted, true)
}

// POST /api/stock/mounted/correction
// Correction quantities keep their sign.
func MountedCorrectionHandler() fiber.Handler {
	return applyHandler(models.ActionMountedCorrection, false)
}

// POST /api/stock/direct-sale
func DirectSaleHandler() fiber.Handler {
	return applyHandler(models.ActionDirectSale, true)
}

// POST /api/stock/direct-sale/correction
func DirectSaleCorrectionHandler() fiber.Handler {
	return applyHandler(models.ActionDirectSaleCorrection, false)
}

// POST /api/stock/reset
func ResetStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := Apply(database.DB, Change{
			Action:   models.ActionResetStock,
			Quantity: decimal.Zero,
			Actor:    models.ActorAdmin,
		})
		if err != nil {
			return mapStockError(err)
		}

		resp, err := stockResponse(s)
		if err != nil {
			logger.L().Error("error al calcular las reservas", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el stock")
		}
		return c.JSON(resp)
	}
}

// GET /api/stock/history
func HistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entries []models.StockHistory
		if err := database.DB.
			Order("created_at DESC, id DESC").
			Limit(100).
			Find(&entries).Error; err != nil {
			logger.L().Error("error al obtener el historial de stock", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el historial de stock")
		}

		resp := make([]HistoryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, HistoryResponse{
				ID:            e.ID,
				StockID:       e.StockID,
				Action:        string(e.Action),
				Quantity:      e.Quantity.StringFixed(1),
				PreviousStock: e.PreviousStock.StringFixed(1),
				NewStock:      e.NewStock.StringFixed(1),
				CreatedBy:     string(e.CreatedBy),
				OrderID:       e.OrderID,
				CreatedAt:     e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
