package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	CORSOrigins string

	// StoreBackend: "file" | "postgres" | "memory"
	StoreBackend string
	StorePath    string
	DatabaseDSN  string
}

func Load() *Config {
	// .env es opcional; en producción las variables vienen del entorno.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		StoreBackend: getEnv("STORE_BACKEND", "file"),
		StorePath:    getEnv("STORE_PATH", "./data/paladar.json"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=paladar port=5432 sslmode=disable"),
	}

	if cfg.StoreBackend == "postgres" && cfg.DatabaseDSN == "" {
		GetLogger().Fatal("STORE_BACKEND=postgres requiere DATABASE_DSN")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
