// Package builder wires configuration into the running services.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/cheese-negamax/internal/bot"
	"github.com/park285/cheese-negamax/internal/config"
	"github.com/park285/cheese-negamax/internal/game"
	"github.com/park285/cheese-negamax/internal/httpapi"
	"github.com/park285/cheese-negamax/internal/obslog"
)

type Deps struct {
	Engine  *bot.Engine
	Games   *game.Manager
	Store   game.ResultStore
	Server  *httpapi.Server
	closers []func() error
}

func New(ctx context.Context, cfg *config.AppConfig) (*Deps, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	d := &Deps{}

	presets, err := bot.LoadPresets(cfg.BotPresetDir, cfg.BotMaxDepth)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	d.Engine, err = bot.NewEngine(presets, cfg.BotDefaultPreset)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	opts, err := game.ParseRedisURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	d.Games, err = game.NewManager(rdb, d.Engine, time.Duration(cfg.GameTTLSec)*time.Second)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	d.closers = append(d.closers, d.Games.Close)

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pg, err := game.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("init result store: %w", err)
		}
		d.Store = pg
		d.closers = append(d.closers, pg.Close)
	} else {
		obslog.L().Warn("DATABASE_URL not set; finished games are kept in memory only")
		d.Store = game.NewMemoryStore()
	}
	d.Games.AttachStore(d.Store)

	d.Server = httpapi.NewServer(httpapi.Options{Addr: cfg.HTTPAddr}, d.Engine, d.Games)

	obslog.L().Info("deps_ready",
		zap.String("default_preset", cfg.BotDefaultPreset),
		zap.Strings("presets", presets.Names()),
		zap.Int("max_depth", cfg.BotMaxDepth),
		zap.Bool("postgres", strings.TrimSpace(cfg.DatabaseURL) != ""),
	)
	return d, nil
}

// Close releases resources in reverse order of acquisition.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
