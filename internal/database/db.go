package database

import (
	"asador-backend/internal/config"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.L().Fatal("no se pudo conectar a la base de datos", zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		logger.L().Fatal("error en la migración", zap.Error(err))
	}

	logger.L().Info("conexión a base de datos establecida, migración completada")
}

// Migrate runs AutoMigrate for every model. Shared with the sqlite-backed
// test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderLog{},
		&models.Stock{},
		&models.StockHistory{},
		&models.BusinessHours{},
		&models.Setting{},
	)
}
