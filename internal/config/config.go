package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Save backends accepted in YINGZHOU_SAVE_BACKEND.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Environment   string        `env:"YINGZHOU_ENVIRONMENT" envDefault:"development"`
	LogLevelName  string        `env:"YINGZHOU_LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"YINGZHOU_LOG_FILE"`
	SaveBackend   string        `env:"YINGZHOU_SAVE_BACKEND" envDefault:"file"`
	SaveDir       string        `env:"YINGZHOU_SAVE_DIR" envDefault:"./saves"`
	SaveTTL       time.Duration `env:"YINGZHOU_SAVE_TTL" envDefault:"0s"`
	RedisURL      string        `env:"YINGZHOU_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath    string        `env:"YINGZHOU_SQLITE_PATH" envDefault:"yingzhou.db"`
	SaveID        string        `env:"YINGZHOU_SAVE_ID"`
	MaxFrameDelta time.Duration `env:"YINGZHOU_MAX_FRAME_DELTA" envDefault:"100ms"`
	TickRate      int           `env:"YINGZHOU_TICK_RATE" envDefault:"60"`
	QueueCapacity int           `env:"YINGZHOU_QUEUE_CAPACITY" envDefault:"64"`

	LogLevel slog.Level `env:"-"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.SaveBackend = strings.ToLower(strings.TrimSpace(cfg.SaveBackend))
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.SaveBackend {
	case BackendFile, BackendRedis, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown save backend %q", c.SaveBackend))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %d", c.TickRate))
	}
	if c.MaxFrameDelta <= 0 {
		errs = append(errs, fmt.Errorf("max frame delta must be positive, got %s", c.MaxFrameDelta))
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("queue capacity must be positive, got %d", c.QueueCapacity))
	}
	if c.SaveTTL < 0 {
		errs = append(errs, fmt.Errorf("save ttl must not be negative, got %s", c.SaveTTL))
	}
	if _, _, err := c.ResumeID(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TickInterval is the wall-clock period of one simulation frame.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// ResumeID parses SaveID. ok is false when no save was requested.
func (c *Config) ResumeID() (id uuid.UUID, ok bool, err error) {
	if strings.TrimSpace(c.SaveID) == "" {
		return uuid.Nil, false, nil
	}
	id, err = uuid.Parse(strings.TrimSpace(c.SaveID))
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("invalid save id %q: %w", c.SaveID, err)
	}
	return id, true, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
