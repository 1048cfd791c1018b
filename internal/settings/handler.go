package settings

import (
	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SettingResponse struct {
	ID    uint   `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type UpsertSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func settingResponse(s *models.Setting) SettingResponse {
	return SettingResponse{ID: s.ID, Key: s.Key, Value: s.Value}
}

// GET /api/settings
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.Setting
		if err := database.DB.Order("key ASC").Find(&items).Error; err != nil {
			logger.L().Error("error al obtener la configuración", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener la configuración")
		}

		resp := make([]SettingResponse, 0, len(items))
		for i := range items {
			resp = append(resp, settingResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/settings/:key
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("key")
		var s models.Setting
		if err := database.DB.First(&s, "key = ?", key).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Configuración no encontrada")
		}
		return c.JSON(settingResponse(&s))
	}
}

// PUT /api/settings
func UpsertHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertSettingRequest
		if err := c.BodyParser(&body); err != nil || body.Key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		s, err := Set(database.DB, body.Key, body.Value)
		if err != nil {
			logger.L().Error("error al guardar la configuración", zap.Error(err), zap.String("key", body.Key))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al guardar la configuración")
		}
		return c.JSON(settingResponse(s))
	}
}

// POST /api/settings/initialize
// Seeds the defaults without touching existing values.
func InitializeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := Initialize(database.DB); err != nil {
			logger.L().Error("error al inicializar la configuración", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al inicializar la configuración")
		}

		var items []models.Setting
		if err := database.DB.Order("key ASC").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener la configuración")
		}
		resp := make([]SettingResponse, 0, len(items))
		for i := range items {
			resp = append(resp, settingResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}
