package menu

import (
	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Deleted     bool   `json:"deleted"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func categoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Deleted:     c.Deleted,
	}
}

// GET /api/categories
// Public listing; hidden categories only show up with ?all=true (admin UI).
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")
		if c.Query("all") != "true" {
			q = q.Where("deleted = ?", false)
		}

		var items []models.Category
		if err := q.Find(&items).Error; err != nil {
			logger.L().Error("error al obtener las categorías", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener las categorías")
		}

		resp := make([]CategoryResponse, 0, len(items))
		for i := range items {
			resp = append(resp, categoryResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}

		cat := models.Category{
			Name:        body.Name,
			Description: body.Description,
			ImageURL:    body.ImageURL,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			logger.L().Error("error al crear la categoría", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al crear la categoría")
		}
		return c.Status(fiber.StatusCreated).JSON(categoryResponse(&cat))
	}
}

// PATCH /api/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoría no encontrada")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		if body.Name != "" {
			cat.Name = body.Name
		}
		cat.Description = body.Description
		cat.ImageURL = body.ImageURL
		if err := database.DB.Save(&cat).Error; err != nil {
			logger.L().Error("error al actualizar la categoría", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar la categoría")
		}
		return c.JSON(categoryResponse(&cat))
	}
}

// DELETE /api/categories/:id
// Soft delete; the category stays recoverable via restore.
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		res := database.DB.Model(&models.Category{}).Where("id = ?", id).Update("deleted", true)
		if res.Error != nil {
			logger.L().Error("error al eliminar la categoría", zap.Error(res.Error))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar la categoría")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Categoría no encontrada")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/categories/:id/restore
func RestoreCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		res := database.DB.Model(&models.Category{}).Where("id = ?", id).Update("deleted", false)
		if res.Error != nil {
			logger.L().Error("error al restaurar la categoría", zap.Error(res.Error))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al restaurar la categoría")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Categoría no encontrada")
		}

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al restaurar la categoría")
		}
		return c.JSON(categoryResponse(&cat))
	}
}
