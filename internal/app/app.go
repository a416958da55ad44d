// Package app assembles the audit pipeline from configuration. Both binaries
// build through it so the server and the CLI see the same backends.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/affinity"
	"dossier/internal/audit"
	"dossier/internal/domain"
	"dossier/internal/dossier/cache"
	"dossier/internal/dossier/store"
	"dossier/internal/evidence/registry"
	"dossier/internal/evidence/registry/providers"
	"dossier/internal/judgment"
	"dossier/internal/pipeline"
	"dossier/internal/platform/config"
	"dossier/internal/platform/metrics"
	"dossier/internal/platform/postgres"
	"dossier/internal/platform/redis"
	"dossier/internal/resolver"
	"dossier/internal/scoring"
)

// App is a wired pipeline plus the resources it owns.
type App struct {
	Orchestrator *pipeline.Orchestrator
	Queue        audit.Queue
	Pool         *audit.Pool

	// Checks are health probes keyed by backend name.
	Checks map[string]func(context.Context) error

	closers []func()
}

// Build connects the configured backends and wires the orchestrator. On error
// every resource opened so far is released.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (a *App, err error) {
	built := &App{Checks: map[string]func(context.Context) error{}}
	a = built
	defer func() {
		if err != nil {
			built.Close()
		}
	}()

	dedupe, err := domain.ParseDedupePolicy(cfg.Pipeline.DedupePolicy)
	if err != nil {
		return nil, err
	}
	policy := scoring.DefaultPolicy()
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	blacklist, err := scoring.LoadBlacklist(cfg.Pipeline.BlacklistFile)
	if err != nil {
		return nil, err
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		a.onClose(func() { _ = rdb.Close() })
		a.Checks["redis"] = rdb.Health
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		a.onClose(pool.Close)
		a.Checks["postgres"] = pool.Ping
		if err := store.Migrate(ctx, pool); err != nil {
			return nil, err
		}
	}

	dossiers, backend := selectStore(pool, rdb)
	ttl := cache.TTL{Complete: cfg.Pipeline.CacheTTL, Pending: cfg.Pipeline.PendingTTL}
	var dc cache.Cache = cache.NewMemoryCache(ttl)
	if rdb != nil {
		dc = cache.NewRedisCache(rdb.Client, ttl)
	}

	queue, err := newQueue(ctx, cfg, logger, m)
	if err != nil {
		return nil, err
	}
	a.Queue = queue
	a.onClose(func() { _ = queue.Close() })

	evidence := registry.NewService(registry.NewSources(cfg.Providers, logger),
		providers.WithTimeout(cfg.Providers.Timeout),
		providers.WithLogger(logger),
		providers.WithMetrics(m),
	)
	judge := judgment.NewGuarded(
		judgment.NewModelDelegate(judgment.ModelConfig{
			BaseURL: cfg.Judgment.BaseURL,
			APIKey:  cfg.Judgment.APIKey,
			Model:   cfg.Judgment.Model,
		}, logger),
		judgment.WithTimeout(cfg.Judgment.Timeout),
		judgment.WithLogger(logger),
		judgment.WithMetrics(m),
	)

	a.Orchestrator, err = pipeline.New(pipeline.Deps{
		Evidence: evidence,
		Resolver: resolver.New(evidence,
			resolver.WithLogger(logger),
			resolver.WithMaxSeeds(cfg.Pipeline.MaxSeeds),
			resolver.WithMaxEntities(cfg.Pipeline.MaxEntities),
		),
		Circle:    affinity.NewCircle(evidence, logger),
		Judge:     judge,
		Engine:    scoring.NewEngine(policy),
		Blacklist: blacklist,
		Store:     dossiers,
		Cache:     dc,
		Queue:     queue,
	},
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
		pipeline.WithSettings(pipeline.Settings{
			PreviewTimeout:    cfg.Pipeline.PreviewTimeout,
			PreviewMediaLimit: cfg.Pipeline.PreviewMediaLimit,
			DeepMediaLimit:    cfg.Pipeline.DeepMediaLimit,
			EntityConcurrency: cfg.Pipeline.EntityConcurrency,
			Dedupe:            dedupe,
		}),
	)
	if err != nil {
		return nil, err
	}
	a.Pool = audit.NewPool(cfg.Pipeline.Workers, audit.WithLogger(logger))

	logger.Info("pipeline wired",
		"store", backend,
		"cache", cacheBackend(rdb),
		"queue", queueBackend(cfg),
		"blacklist_entries", blacklist.Len(),
		"judgment_configured", cfg.Judgment.APIKey != "",
	)
	return a, nil
}

// RunWorkers consumes the queue until it is closed.
func (a *App) RunWorkers(ctx context.Context) {
	a.Pool.Run(ctx, a.Queue, a.Orchestrator)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func selectStore(pool *pgxpool.Pool, rdb *redis.Client) (store.Store, string) {
	switch {
	case pool != nil:
		return store.NewPostgresStore(pool), "postgres"
	case rdb != nil:
		return store.NewRedisStore(rdb.Client), "redis"
	default:
		return store.NewMemoryStore(), "memory"
	}
}

func newQueue(ctx context.Context, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (audit.Queue, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return audit.NewChannelQueue(cfg.Pipeline.QueueSize, m), nil
	}
	q, err := audit.NewKafkaQueue(audit.KafkaConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		Group:   cfg.Kafka.Group,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := q.EnsureTopic(ctx, 3, 1); err != nil {
		_ = q.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}
	return q, nil
}

func cacheBackend(rdb *redis.Client) string {
	if rdb != nil {
		return "redis"
	}
	return "memory"
}

func queueBackend(cfg config.Config) string {
	if len(cfg.Kafka.Brokers) > 0 {
		return "kafka"
	}
	return "channel"
}

