package config

import (
	"os"

	"go.uber.org/zap"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=asador port=5432 sslmode=disable"

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET no está definido; es obligatorio")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET debe tener al menos 32 caracteres")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Warn("DATABASE_DSN usa el valor por defecto; configura tu Postgres en producción")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
