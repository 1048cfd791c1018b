package main

import (
	"os"
	"strings"

	"asador-backend/internal/auth"
	"asador-backend/internal/config"
	"asador-backend/internal/database"
	"asador-backend/internal/hours"
	"asador-backend/internal/logger"
	"asador-backend/internal/menu"
	"asador-backend/internal/models"
	"asador-backend/internal/orders"
	"asador-backend/internal/settings"
	"asador-backend/internal/stock"
	"asador-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(os.Getenv("ENV") == "development"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load(logger.L())
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.L().Error("error inesperado", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public: login, storefront reads and order placement
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Get("/stock", stock.GetStockHandler())
	api.Post("/orders", orders.CreateHandler())
	api.Get("/orders/reference/:reference", orders.GetByReferenceHandler())
	api.Get("/categories", menu.ListCategoriesHandler())
	api.Get("/products", menu.ListProductsHandler())
	api.Get("/business-hours", hours.ListHandler())
	api.Get("/settings", settings.ListHandler())
	api.Get("/settings/:key", settings.GetHandler())

	// Protected: any authenticated back-office user
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/dashboard-data", orders.DashboardHandler())

	protected.Get("/orders", orders.ListHandler())
	protected.Get("/orders/:id", orders.GetHandler())
	protected.Patch("/orders/:id/confirm", orders.ConfirmHandler())
	protected.Patch("/orders/:id/cancel", orders.CancelHandler())
	protected.Patch("/orders/:id/error", orders.ErrorHandler())

	protected.Get("/stock/history", stock.HistoryHandler())

	// Admin only
	admin := protected.Group("")
	admin.Use(auth.RequireRole(models.RoleHaykakan))

	admin.Patch("/orders/:id", orders.UpdateHandler())
	admin.Delete("/orders/:id", orders.DeleteHandler())

	admin.Post("/stock/mounted/add", stock.AddMountedHandler())
	admin.Post("/stock/mounted/remove", stock.RemoveMountedHandler())
	admin.Post("/stock/mounted/correction", stock.MountedCorrectionHandler())
	admin.Post("/stock/direct-sale", stock.DirectSaleHandler())
	admin.Post("/stock/direct-sale/correction", stock.DirectSaleCorrectionHandler())
	admin.Post("/stock/reset", stock.ResetStockHandler())
	admin.Get("/stock/history/export", stock.ExportHistoryHandler())

	admin.Post("/categories", menu.CreateCategoryHandler())
	admin.Patch("/categories/:id", menu.UpdateCategoryHandler())
	admin.Delete("/categories/:id", menu.DeleteCategoryHandler())
	admin.Post("/categories/:id/restore", menu.RestoreCategoryHandler())

	admin.Post("/products", menu.CreateProductHandler())
	admin.Patch("/products/:id", menu.UpdateProductHandler())
	admin.Delete("/products/:id", menu.DeleteProductHandler())
	admin.Post("/products/:id/restore", menu.RestoreProductHandler())

	admin.Patch("/business-hours/:id", hours.UpdateHandler())
	admin.Put("/settings", settings.UpsertHandler())
	admin.Post("/settings/initialize", settings.InitializeHandler())
	admin.Post("/admin/initialize", hours.InitializeHandler(settings.Initialize))

	admin.Get("/users", users.ListHandler())
	admin.Post("/users", users.CreateHandler())
	admin.Patch("/users/:id", users.UpdateHandler())
	admin.Delete("/users/:id", users.DeactivateHandler())

	logger.L().Info("servidor escuchando", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L().Fatal("el servidor se detuvo", zap.Error(err))
	}
}
