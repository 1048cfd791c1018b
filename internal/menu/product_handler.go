package menu

import (
	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"` // cents
	ImageURL    string `json:"image_url"`
	CategoryID  *uint  `json:"category_id"`
	Deleted     bool   `json:"deleted"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       *int   `json:"price"`
	ImageURL    string `json:"image_url"`
	CategoryID  *uint  `json:"category_id"`
}

func productResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		Deleted:     p.Deleted,
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")
		if c.Query("all") != "true" {
			q = q.Where("deleted = ?", false)
		}
		if cat := c.Query("category_id"); cat != "" {
			q = q.Where("category_id = ?", cat)
		}

		var items []models.Product
		if err := q.Find(&items).Error; err != nil {
			logger.L().Error("error al obtener los productos", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los productos")
		}

		resp := make([]ProductResponse, 0, len(items))
		for i := range items {
			resp = append(resp, productResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}
		if body.Price == nil || *body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El precio no es válido")
		}

		p := models.Product{
			Name:        body.Name,
			Description: body.Description,
			Price:       *body.Price,
			ImageURL:    body.ImageURL,
			CategoryID:  body.CategoryID,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			logger.L().Error("error al crear el producto", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al crear el producto")
		}
		return c.Status(fiber.StatusCreated).JSON(productResponse(&p))
	}
}

// PATCH /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		if body.Name != "" {
			p.Name = body.Name
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "El precio no es válido")
			}
			p.Price = *body.Price
		}
		p.Description = body.Description
		p.ImageURL = body.ImageURL
		if body.CategoryID != nil {
			p.CategoryID = body.CategoryID
		}

		if err := database.DB.Save(&p).Error; err != nil {
			logger.L().Error("error al actualizar el producto", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el producto")
		}
		return c.JSON(productResponse(&p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		res := database.DB.Model(&models.Product{}).Where("id = ?", id).Update("deleted", true)
		if res.Error != nil {
			logger.L().Error("error al eliminar el producto", zap.Error(res.Error))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al eliminar el producto")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/products/:id/restore
func RestoreProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		res := database.DB.Model(&models.Product{}).Where("id = ?", id).Update("deleted", false)
		if res.Error != nil {
			logger.L().Error("error al restaurar el producto", zap.Error(res.Error))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al restaurar el producto")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al restaurar el producto")
		}
		return c.JSON(productResponse(&p))
	}
}
