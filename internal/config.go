package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string // "development" or "production"
	LogLevel      string // debug, info, warn, error
	Port          int
	DatabaseUrl   string
	EncryptionKey string // base64-encoded 32-byte AES key
	PhoneHashKey  string // HMAC key for phone number hashing
	NatsURL       string // empty disables event publishing
}

// LoadConfig reads configuration from the environment, loading a .env
// file first when one exists in the working directory or any parent.
func LoadConfig(logger *slog.Logger) (*Config, error) {
	if path, err := findEnvFile(); err == nil {
		if err := godotenv.Load(path); err != nil {
			logger.Warn("failed to load .env file", "path", path, "error", err)
		} else {
			logger.Debug("loaded environment from file", "path", path)
		}
	}

	cfg := &Config{
		Env:           getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnvInt("PORT", 8080, logger),
		DatabaseUrl:   os.Getenv("DATABASE_URL"),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),
		PhoneHashKey:  os.Getenv("PHONE_HASH_KEY"),
		NatsURL:       os.Getenv("NATS_URL"),
	}

	if err := cfg.validate(logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(logger *slog.Logger) error {
	switch c.Env {
	case "development", "production":
	default:
		logger.Warn("unknown environment, defaulting to development", "environment", c.Env)
		c.Env = "development"
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		logger.Warn("unknown log level, defaulting to info", "log_level", c.LogLevel)
		c.LogLevel = "info"
	}

	if c.DatabaseUrl == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.IsProduction() {
		if c.EncryptionKey == "" {
			return fmt.Errorf("ENCRYPTION_KEY is required in production")
		}
		if c.PhoneHashKey == "" {
			return fmt.Errorf("PHONE_HASH_KEY is required in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// findEnvFile walks up from the working directory looking for a .env file.
func findEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int, logger *slog.Logger) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("invalid integer in environment, using fallback", "key", key, "value", v, "fallback", fallback)
		return fallback
	}
	return n
}
