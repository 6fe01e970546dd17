package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrMissingDSN = errors.New("POSTGRES_DSN is not set")

type Config struct {
	PostgresDSN            string
	HTTPAddr               string
	LogLevel               zapcore.Level
	MultipleBreakdownsFlag string
	DisplayHintPolicy      string
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		HTTPAddr:               getenv("HTTP_ADDR", ":8080"),
		MultipleBreakdownsFlag: getenv("MULTIPLE_BREAKDOWNS_FLAG", "multiple-breakdowns"),
		DisplayHintPolicy:      getenv("DISPLAY_HINT_POLICY", "none"),
	}

	if cfg.PostgresDSN == "" {
		return Config{}, ErrMissingDSN
	}

	level, err := zapcore.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

// NewLogger builds a production zap logger at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
