package users

import (
	"strings"

	"asador-backend/internal/auth"
	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string          `json:"name"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Role     *models.UserRole `json:"role"`
	Active   *bool            `json:"active"`
}

func userResponse(u *models.User) auth.UserResponse {
	return auth.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}

func validRole(r models.UserRole) bool {
	return r == models.RoleHaykakan || r == models.RoleFestero
}

// GET /api/users
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.User
		if err := database.DB.Order("username ASC").Find(&items).Error; err != nil {
			logger.L().Error("error al obtener los usuarios", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener los usuarios")
		}

		resp := make([]auth.UserResponse, 0, len(items))
		for i := range items {
			resp = append(resp, userResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/users
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if body.Username == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Usuario y nombre son obligatorios")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Rol no válido")
		}

		var existing models.User
		if err := database.DB.First(&existing, "username = ?", body.Username).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "El nombre de usuario ya existe")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.L().Error("error al generar el hash de contraseña", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al crear el usuario")
		}

		user := models.User{
			Username:     body.Username,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			Active:       true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			logger.L().Error("error al crear el usuario", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al crear el usuario")
		}
		return c.Status(fiber.StatusCreated).JSON(userResponse(&user))
	}
}

// PATCH /api/users/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición no válido")
		}

		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
			}
			user.Name = *body.Name
		}
		if body.Email != nil {
			user.Email = *body.Email
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				logger.L().Error("error al generar el hash de contraseña", zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el usuario")
			}
			user.PasswordHash = string(hash)
		}
		if body.Role != nil {
			if !validRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Rol no válido")
			}
			user.Role = *body.Role
		}
		if body.Active != nil {
			user.Active = *body.Active
		}

		if err := database.DB.Save(&user).Error; err != nil {
			logger.L().Error("error al actualizar el usuario", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al actualizar el usuario")
		}
		return c.JSON(userResponse(&user))
	}
}

// DELETE /api/users/:id
// Deactivates instead of deleting so the audit trail keeps its author.
func DeactivateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identificador no válido")
		}

		selfID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		if selfID == uint(id) {
			return fiber.NewError(fiber.StatusBadRequest, "No puedes desactivar tu propio usuario")
		}

		res := database.DB.Model(&models.User{}).Where("id = ?", id).Update("active", false)
		if res.Error != nil {
			logger.L().Error("error al desactivar el usuario", zap.Error(res.Error))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al desactivar el usuario")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
