package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultHTTPAddr    = ":8080"
	defaultPreset      = "level3"
	defaultMaxDepth    = 4
	defaultGameTTLSec  = 86400
	hardMaxSearchDepth = 6
)

type AppConfig struct {
	HTTPAddr string

	RedisURL    string
	DatabaseURL string

	BotDefaultPreset string
	BotPresetDir     string
	BotMaxDepth      int

	GameTTLSec int
}

// Load reads the process environment.
func Load() (*AppConfig, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv.
func LoadFrom(getenv func(string) string) (*AppConfig, error) {
	env := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg := &AppConfig{
		HTTPAddr:         defaultHTTPAddr,
		BotDefaultPreset: defaultPreset,
		BotMaxDepth:      defaultMaxDepth,
		GameTTLSec:       defaultGameTTLSec,
	}

	if v := env("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	cfg.RedisURL = env("REDIS_URL")
	cfg.DatabaseURL = env("DATABASE_URL")

	if v := env("BOT_DEFAULT_PRESET"); v != "" {
		cfg.BotDefaultPreset = v
	}
	cfg.BotPresetDir = env("BOT_PRESET_DIR")
	if v := env("BOT_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("BOT_MAX_DEPTH: %w", err)
		}
		if n <= 0 || n > hardMaxSearchDepth {
			return nil, fmt.Errorf("BOT_MAX_DEPTH must be within 1..%d, got %d", hardMaxSearchDepth, n)
		}
		cfg.BotMaxDepth = n
	}
	if v := env("GAME_TTL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GameTTLSec = n
		}
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	return cfg, nil
}
