package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rickgao/longbox/internal/cache"
	"github.com/rickgao/longbox/internal/config"
	"github.com/rickgao/longbox/internal/database"
	"github.com/rickgao/longbox/internal/pricing"
	"github.com/rickgao/longbox/internal/ratelimit"
	"github.com/rickgao/longbox/internal/source"
	"github.com/rickgao/longbox/internal/source/comicvine"
	"github.com/rickgao/longbox/internal/source/marketplace"
	"github.com/rickgao/longbox/internal/source/metron"
	"github.com/rickgao/longbox/internal/wantlist"
)

const retryBackoff = time.Second

// app holds the wired components shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	pool *pgxpool.Pool
	rdb  *redis.Client

	limits    *ratelimit.Registry
	cache     *cache.Tiered
	market    *marketplace.Client
	metron    *metron.Client
	comicvine *comicvine.Client

	history *pricing.Service
	catalog *pricing.Catalog
	store   *database.WantListStore
	matcher *wantlist.Matcher
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	limits, err := ratelimit.NewRegistry(cfg.Intervals())
	if err != nil {
		return nil, fmt.Errorf("build rate limiters: %w", err)
	}
	a.limits = limits

	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.pool = pool

	if err := database.Migrate(ctx, pool); err != nil {
		a.Close()
		return nil, err
	}

	durable, err := a.durableTier(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = cache.New(durable,
		cache.WithPromotionTTL(cfg.Cache.PromotionTTL),
		cache.WithLogger(logger),
	)

	a.market = marketplace.New(a.sourceClient(marketplace.Name, cfg.Sources.Marketplace.SourceConfig,
		source.WithBearerToken(cfg.Sources.Marketplace.Token),
	))
	a.metron = metron.New(a.sourceClient(metron.Name, cfg.Sources.Metron.SourceConfig,
		source.WithBasicAuth(cfg.Sources.Metron.Username, cfg.Sources.Metron.Password),
	))
	a.comicvine = comicvine.New(a.sourceClient(comicvine.Name, cfg.Sources.ComicVine.SourceConfig,
		source.WithAPIKeyParam("api_key", cfg.Sources.ComicVine.APIKey),
	))

	a.history = pricing.NewService(a.cache, a.market,
		pricing.WithTTL(cfg.Cache.HistoryTTL.Ephemeral, cfg.Cache.HistoryTTL.Durable),
		pricing.WithLogger(logger),
	)
	a.catalog = pricing.NewCatalog(a.cache, logger, a.metron, a.comicvine)
	a.catalog.SetTTL(cfg.Cache.IssueTTL.Ephemeral, cfg.Cache.IssueTTL.Durable)

	a.store = database.NewWantListStore(pool)
	a.matcher = wantlist.NewMatcher(a.store, a.market,
		wantlist.WithHistory(a.history),
		wantlist.WithResultLimit(cfg.Matcher.ResultLimit),
		wantlist.WithConcurrency(cfg.Matcher.Concurrency),
		wantlist.WithLogger(logger),
	)

	for _, s := range []interface {
		Name() string
		Enabled() bool
	}{a.market, a.metron, a.comicvine} {
		logger.Info("source configured", "source", s.Name(), "enabled", s.Enabled())
	}

	return a, nil
}

func (a *app) durableTier(ctx context.Context) (cache.Durable, error) {
	switch a.cfg.Cache.DurableBackend {
	case "redis":
		rdb, err := cache.NewRedisClient(ctx, a.cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		return cache.NewRedisStore(rdb), nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return cache.NewPostgresStore(a.pool), nil
	}
}

func (a *app) sourceClient(name string, sc config.SourceConfig, auth source.ClientOption) *source.Client {
	return source.NewClient(name, sc.BaseURL, a.limits.Get(name),
		auth,
		source.WithTimeout(sc.Timeout),
		source.WithRetries(sc.MaxRetries, retryBackoff),
		source.WithLogger(a.logger),
	)
}

// Close releases connections.
func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
