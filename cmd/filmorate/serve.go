package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/VeraBsp/filmorate/config"
	"github.com/VeraBsp/filmorate/internal/application/command"
	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/application/eventhandler"
	"github.com/VeraBsp/filmorate/internal/application/query"
	"github.com/VeraBsp/filmorate/internal/domain/catalog"
	"github.com/VeraBsp/filmorate/internal/infrastructure/messaging"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/memory"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/postgres"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/redis"
	httpapi "github.com/VeraBsp/filmorate/internal/interface/http"
	"github.com/VeraBsp/filmorate/internal/interface/http/handlers"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	NoMigrate bool `help:"Skip automatic migrations even when DB_AUTO_MIGRATE is set."`
}

// Run wires the engine, its backing stores and the HTTP server, then blocks
// until ctx is canceled or the server fails.
func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("starting filmorate",
		logger.String("http_address", cfg.HTTP.Address()),
		logger.Bool("database", cfg.Database.Enabled()),
		logger.Bool("redis", !cfg.Redis.Disabled),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 1. ГРАФ В ПАМЯТИ
	// ─────────────────────────────────────────────────────────────────────────
	store := memory.NewStore(nil, nil)
	eng := engine.New(engine.Repositories{
		Users:     store.Users,
		Films:     store.Films,
		Directors: store.Directors,
		Genres:    store.Genres,
		Ratings:   store.Ratings,
	})

	health := handlers.NewCompositeHealthChecker(cfg.App.Version,
		handlers.WithCatalogStats(func() any { return eng.Stats() }))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. POSTGRESQL: МИГРАЦИИ, СНИМОК, ЖУРНАЛ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var journal catalog.Journal = catalog.NopJournal{}

	if cfg.Database.Enabled() {
		conn, err := connectPostgres(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database connection...")
			conn.Close()
		}()

		if cfg.Database.AutoMigrate && !c.NoMigrate {
			applied, err := postgres.NewMigrator(conn).Migrate(ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("migrations completed", logger.Int("applied", applied))
		}

		snap, err := postgres.NewLoader(conn).Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		eng.Hydrate(snap, log)

		stats := eng.Stats()
		log.Info("catalog loaded",
			logger.Int("users", stats.Users),
			logger.Int("films", stats.Films),
			logger.Int("directors", stats.Directors),
		)

		journal = postgres.NewJournal(conn, cfg.Database.QueryTimeout)
		health.AddCheck("postgres", handlers.NewPingCheck(conn))
	} else {
		log.Warn("DATABASE_URL is not set, state will not survive a restart")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ШИНА СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	bus := messaging.NewInMemoryEventBus(busCfg)
	defer func() { _ = bus.Close() }()

	if err := bus.SubscribeAll(eventhandler.NewAuditHandler(log).Handle); err != nil {
		return fmt.Errorf("failed to subscribe audit handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS: КЕШ ПОПУЛЯРНЫХ ФИЛЬМОВ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	rankingOpts := []query.RankingOption{query.WithLogger(log)}

	if !cfg.Redis.Disabled {
		client, err := connectRedis(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing redis connection...")
			_ = client.Close()
		}()

		cache := redis.NewPopularCache(client, cfg.Redis.PopularTTL, redis.DefaultBreakerSettings(), log)
		if err := bus.Subscribe(cache.HandleEvent, redis.InvalidatingEvents...); err != nil {
			return fmt.Errorf("failed to subscribe cache invalidation: %w", err)
		}
		rankingOpts = append(rankingOpts, query.WithPopularCache(cache))

		health.AddCheck("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ПРИЛОЖЕНИЕ И HTTP
	// ─────────────────────────────────────────────────────────────────────────
	commands := command.NewHandlers(command.Deps{
		Engine:    eng,
		Journal:   journal,
		Publisher: bus,
		Logger:    log,
	})
	queries := query.NewHandlers(eng, rankingOpts...)

	server := httpapi.NewServer(httpConfig(cfg), httpapi.Dependencies{
		Commands:      commands,
		Queries:       queries,
		HealthChecker: health,
		Logger:        log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("filmorate stopped")
	return nil
}

func httpConfig(cfg *config.Config) httpapi.Config {
	out := httpapi.DefaultConfig()
	out.Address = cfg.HTTP.Address()
	out.ReadTimeout = cfg.HTTP.ReadTimeout
	out.WriteTimeout = cfg.HTTP.WriteTimeout
	out.IdleTimeout = cfg.HTTP.IdleTimeout
	out.AllowedOrigins = cfg.HTTP.AllowedOrigins
	out.RateLimitPerMinute = cfg.HTTP.RateLimit
	out.EnableMetrics = cfg.Observability.MetricsEnabled
	out.PopularDefaultCount = cfg.App.DefaultPopularCount
	out.Version = cfg.App.Version
	return out
}
