package hours

import (
	"regexp"

	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type BusinessHoursResponse struct {
	ID         uint   `json:"id"`
	DayOfWeek  int    `json:"day_of_week"`
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"close_time"`
	IsOpen     bool   `json:"is_open"`
	AutoUpdate bool   `json:"auto_update"`
}

type UpdateBusinessHoursRequest struct {
	OpenTime   *string `json:"open_time"`
	CloseTime  *string `json:"close_time"`
	IsOpen     *bool   `json:"is_open"`
	AutoUpdate *bool   `json:"auto_update"`
}

func hoursResponse(h *models.BusinessHours) BusinessHoursResponse {
	return BusinessHoursResponse{
		ID:         h.ID,
		DayOfWeek:  h.DayOfWeek,
		OpenTime:   h.OpenTime,
		CloseTime:  h.CloseTime,
		IsOpen:     h.IsOpen,
		AutoUpdate: h.AutoUpdate,
	}
}

// Initialize seeds one row per weekday if none exist. Saturday and Sunday
// start closed.
func Initialize(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.BusinessHours{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for day := 0; day < 7; day++ {
		row := models.BusinessHours{
			DayOfWeek:  day,
			OpenTime:   "10:00",
			CloseTime:  "22:00",
			IsOpen:     day < 5,
			AutoUpdate: true,
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// GET /api/business-hours
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.BusinessHours
		if err := database.DB.Order("day_of_week ASC").Find(&items).Error; err != nil {
			logger.L().Error("error al obtener los horarios", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los horarios")
		}

		resp := make([]BusinessHoursResponse, 0, len(items))
		for i := range items {
			resp = append(resp, hoursResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// PATCH /api/business-hours/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		var row models.BusinessHours
		if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Horario no encontrado")
		}

		var body UpdateBusinessHoursRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		if body.OpenTime != nil {
			if !timePattern.MatchString(*body.OpenTime) {
				return fiber.NewError(fiber.StatusBadRequest, "La hora de apertura no es válida")
			}
			row.OpenTime = *body.OpenTime
		}
		if body.CloseTime != nil {
			if !timePattern.MatchString(*body.CloseTime) {
				return fiber.NewError(fiber.StatusBadRequest, "La hora de cierre no es válida")
			}
			row.CloseTime = *body.CloseTime
		}
		if body.IsOpen != nil {
			row.IsOpen = *body.IsOpen
		}
		if body.AutoUpdate != nil {
			row.AutoUpdate = *body.AutoUpdate
		}

		if err := database.DB.Save(&row).Error; err != nil {
			logger.L().Error("error al actualizar el horario", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el horario")
		}
		return c.JSON(hoursResponse(&row))
	}
}

// POST /api/admin/initialize
// Seeds the week schedule and the default settings on a fresh install.
func InitializeHandler(initSettings func(*gorm.DB) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := Initialize(database.DB); err != nil {
			logger.L().Error("error al inicializar los horarios", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al inicializar")
		}
		if initSettings != nil {
			if err := initSettings(database.DB); err != nil {
				logger.L().Error("error al inicializar la configuración", zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "Error al inicializar")
			}
		}
		return c.JSON(fiber.Map{"message": "Inicialización completada"})
	}
}
