package feeds

import (
	"context"
	"fmt"

	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/redis"
)

// Service serves feed snapshots from the Redis cache, regenerating from the
// live catalog when the cache misses. Refresh is also called on a schedule
// by the cron worker.
type Service struct {
	catalog   *catalog.Repository
	cache     *redis.Client
	generator *Generator
	cfg       config.FeedConfig
	logg      *logger.Logger
}

func NewService(catalogRepo *catalog.Repository, cache *redis.Client, cfg config.FeedConfig, logg *logger.Logger) (*Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		catalog:   catalogRepo,
		cache:     cache,
		generator: NewGenerator(cfg.BaseURL, cfg.Brand),
		cfg:       cfg,
		logg:      logg,
	}, nil
}

// Get returns the named feed, preferring the cached snapshot.
func (s *Service) Get(ctx context.Context, name string) ([]byte, error) {
	if name != FeedGoogle && name != FeedPinterest {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "unknown feed %q", name)
	}

	cached, err := s.cache.Get(ctx, s.cache.FeedKey(name))
	if err == nil && cached != "" {
		return []byte(cached), nil
	}
	if err != nil && err != redis.Nil {
		s.logg.Warn(ctx, "feed cache read failed: "+err.Error())
	}

	snapshots, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snapshots[name], nil
}

// Refresh regenerates every feed from the catalog and caches the results.
// Cache write failures are logged, not fatal: the fresh bytes still serve.
func (s *Service) Refresh(ctx context.Context) (map[string][]byte, error) {
	products, err := s.catalog.AllProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog for feeds")
	}

	google, err := s.generator.Google(products)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render google feed")
	}
	pinterest, err := s.generator.Pinterest(products)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render pinterest feed")
	}

	snapshots := map[string][]byte{
		FeedGoogle:    google,
		FeedPinterest: pinterest,
	}
	for name, body := range snapshots {
		if err := s.cache.Set(ctx, s.cache.FeedKey(name), string(body), s.cfg.CacheTTL); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("feed cache write failed for %s: %s", name, err.Error()))
		}
	}
	return snapshots, nil
}
