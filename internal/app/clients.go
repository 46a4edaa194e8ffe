package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/click-backend/internal/platform/cache"
	"github.com/yungbote/click-backend/internal/platform/gemini"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/openai"
	"github.com/yungbote/click-backend/internal/platform/textgen"
	"github.com/yungbote/click-backend/internal/realtime/bus"
)

type Clients struct {
	// Generator is nil when no provider credentials are configured.
	Generator textgen.Generator
	Redis     *goredis.Client
	Cache     cache.Cache
	Bus       bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	gen, err := NewGenerator(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	if gen == nil {
		log.Warn("No analyzer provider configured; confidence and generation endpoints will return 503",
			"provider", cfg.AnalyzerProvider)
	} else {
		log.Info("Analyzer provider configured", "provider", cfg.AnalyzerProvider, "model", gen.Name())
	}

	out := Clients{Generator: gen, Cache: cache.NewNoop(), Bus: bus.NewNoop()}
	if cfg.RedisAddr == "" {
		return out, nil
	}

	rdb, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	c, err := cache.NewRedisCache(log, rdb, cfg.CacheTTL)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis cache: %w", err)
	}
	b, err := bus.NewRedisBus(log, rdb, cfg.RedisChannel)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}
	out.Redis, out.Cache, out.Bus = rdb, c, b
	return out, nil
}

// NewGenerator picks the text generator for cfg.AnalyzerProvider. "auto" prefers
// Gemini and falls back to OpenAI. Missing credentials yield (nil, nil).
func NewGenerator(ctx context.Context, log *logger.Logger, cfg Config) (textgen.Generator, error) {
	switch cfg.AnalyzerProvider {
	case ProviderGemini:
		return configured(gemini.NewClientWithConfig(ctx, log, cfg.Gemini))
	case ProviderOpenAI:
		return configured(openai.NewClientWithConfig(log, cfg.OpenAI))
	case ProviderAuto, "":
		gen, err := configured(gemini.NewClientWithConfig(ctx, log, cfg.Gemini))
		if err != nil || gen != nil {
			return gen, err
		}
		return configured(openai.NewClientWithConfig(log, cfg.OpenAI))
	default:
		return nil, fmt.Errorf("unknown ANALYZER_PROVIDER %q", cfg.AnalyzerProvider)
	}
}

func configured(gen textgen.Generator, err error) (textgen.Generator, error) {
	if errors.Is(err, textgen.ErrNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init generator: %w", err)
	}
	return gen, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
