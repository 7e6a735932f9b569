package factory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/cache"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/config"
)

// NewCache returns the published story cache, or nil when no Redis URL is
// configured.
func NewCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*cache.RedisCache, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("published story cache disabled")
		return nil, nil
	}
	c, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL())
	if err != nil {
		return nil, err
	}
	log.Debug().Dur("ttl", cfg.CacheTTL()).Msg("published story cache connected")
	return c, nil
}
