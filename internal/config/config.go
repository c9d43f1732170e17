package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Logging mode, "development" or "production"
	Mode string `validate:"oneof=development production"`
	// Telegram bot token
	TelegramToken string `validate:"required"`
	// The only chat the bot answers to; the application is single-user
	OwnerChatID int64 `validate:"required"`
	// Settings store backend
	DBDriver string `validate:"oneof=sqlite3 postgres memory"`
	// SQLite database file, used when DBDriver is sqlite3
	DBPath string `validate:"required_if=DBDriver sqlite3"`
	// Postgres connection string, used when DBDriver is postgres
	DatabaseURL string `validate:"required_if=DBDriver postgres"`
	// Optional catalog file (.yaml, .xlsx or .csv) replacing the built-in German catalog
	CatalogFile string
	// Optional directory with lesson HTML files replacing the embedded ones
	LessonsDir string
	// Length of one quiz time unit
	TimeUnit time.Duration `validate:"gt=0"`
	// Daily study reminder time ("HH:MM", UTC); empty disables it
	ReminderTime string `validate:"omitempty,datetime=15:04"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Mode:     "development",
		DBDriver: "sqlite3",
		DBPath:   "data/blitzkarten.db",
		TimeUnit: time.Second,
	}
}

// Load reads .env (if present) and the environment, then validates the result
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may be set directly
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.Mode = getEnv("APP_ENV", cfg.Mode)
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.CatalogFile = os.Getenv("CATALOG_FILE")
	cfg.LessonsDir = os.Getenv("LESSONS_DIR")
	cfg.ReminderTime = os.Getenv("REMINDER_TIME")

	if v := os.Getenv("OWNER_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OWNER_CHAT_ID %q: %w", v, err)
		}
		cfg.OwnerChatID = id
	}

	if v := os.Getenv("QUIZ_TIME_UNIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid QUIZ_TIME_UNIT %q: %w", v, err)
		}
		cfg.TimeUnit = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
