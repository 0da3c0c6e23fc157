package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// Shared secret the external scheduler presents to trigger batch jobs.
	CronSecret string

	RabbitURL string

	PaymentAPIBaseURL string
	PaymentAPIKey     string
}

func Load() (*Config, error) {
	// Missing .env is fine, plain environment variables win either way.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Env:               envOrDefault("APP_ENV", "development"),
		Port:              envOrDefault("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CronSecret:        os.Getenv("CRON_SECRET"),
		RabbitURL:         os.Getenv("RABBITMQ_URL"),
		PaymentAPIBaseURL: envOrDefault("PAYMENT_API_BASE_URL", "https://api.payments.example.com/v1"),
		PaymentAPIKey:     os.Getenv("PAYMENT_API_KEY"),
	}

	ttl, err := time.ParseDuration(envOrDefault("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
