package settings

import (
	"errors"

	"asador-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Well-known configuration keys.
const (
	KeyMinOrder       = "minimo_pedido"
	KeyMaxOrder       = "maximo_pedido"
	KeyOpenDays       = "dias_abierto"
	KeyOpeningTime    = "horario_abertura"
	KeyClosingTime    = "horario_cerrar"
	KeyPrepTime       = "tiempo_preparacion"
	KeyPickupInterval = "intervalo_recogida"
)

// defaults seeds the initial configuration of a fresh installation.
var defaults = map[string]string{
	KeyOpenDays:       `["V","S","D"]`,
	KeyOpeningTime:    "10:00",
	KeyClosingTime:    "16:00",
	KeyMinOrder:       "1",
	KeyMaxOrder:       "10",
	KeyPrepTime:       "30", // minutes
	KeyPickupInterval: "15", // minutes
}

// Get returns the stored value for key. The second result is false when the
// key has never been set.
func Get(db *gorm.DB, key string) (string, bool) {
	var s models.Setting
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		return "", false
	}
	return s.Value, true
}

// GetDecimal reads a numeric setting. Missing or unparsable values report
// false so callers fall back to their own defaults.
func GetDecimal(db *gorm.DB, key string) (decimal.Decimal, bool) {
	raw, ok := Get(db, key)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Set upserts a setting by key.
func Set(db *gorm.DB, key, value string) (*models.Setting, error) {
	var s models.Setting
	err := db.First(&s, "key = ?", key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s = models.Setting{Key: key, Value: value}
		if err := db.Create(&s).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		s.Value = value
		if err := db.Save(&s).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Initialize writes the default configuration for keys that do not exist
// yet. Existing values are never overwritten.
func Initialize(db *gorm.DB) error {
	for key, value := range defaults {
		var s models.Setting
		err := db.First(&s, "key = ?", key).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
			return err
		}
	}
	return nil
}
