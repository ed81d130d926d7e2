package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Queue    QueueConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// QueueConfig tunes the recalculation queue worker.
type QueueConfig struct {
	DrainInterval time.Duration // cadence of the queue-drain cron job
	BatchSize     int           // tasks processed per drain
	StaleAfter    time.Duration // processing tasks older than this are demoted
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "tallyworks-payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Queue configuration
	drainInterval, err := time.ParseDuration(getEnv("QUEUE_DRAIN_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_DRAIN_INTERVAL: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("QUEUE_BATCH_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_BATCH_SIZE: %w", err)
	}
	staleAfter, err := time.ParseDuration(getEnv("QUEUE_STALE_AFTER", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_STALE_AFTER: %w", err)
	}

	config.Queue = QueueConfig{
		DrainInterval: drainInterval,
		BatchSize:     batchSize,
		StaleAfter:    staleAfter,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Queue.BatchSize < 1 {
		return fmt.Errorf("QUEUE_BATCH_SIZE must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
