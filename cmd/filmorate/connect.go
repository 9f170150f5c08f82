package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/VeraBsp/filmorate/config"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/postgres"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/redis"
	"github.com/VeraBsp/filmorate/pkg/logger"
	"github.com/VeraBsp/filmorate/pkg/retry"
)

// connectPostgres dials the database, retrying while it starts up.
func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*postgres.Connection, error) {
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.URL
	pgCfg.MaxConns = cfg.MaxConns
	pgCfg.MinConns = cfg.MinConns
	pgCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

	log.Info("connecting to database...")
	var conn *postgres.Connection
	err := retry.Startup(onRetry(log, "postgres")).Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.NewConnection(ctx, pgCfg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")
	return conn, nil
}

// connectRedis dials Redis, retrying while it starts up.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*goredis.Client, error) {
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Host
	redisCfg.Port = cfg.Port
	redisCfg.Password = cfg.Password
	redisCfg.DB = cfg.DB
	redisCfg.PoolSize = cfg.PoolSize
	redisCfg.MinIdleConns = cfg.MinIdleConns
	redisCfg.DialTimeout = cfg.DialTimeout
	redisCfg.ReadTimeout = cfg.ReadTimeout
	redisCfg.WriteTimeout = cfg.WriteTimeout

	log.Info("connecting to Redis...", logger.String("addr", redisCfg.Addr()))
	var client *goredis.Client
	err := retry.Startup(onRetry(log, "redis")).Do(ctx, func(ctx context.Context) error {
		var err error
		client, err = redis.NewClient(ctx, redisCfg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("redis connection established")
	return client, nil
}

// onRetry logs every failed connection attempt.
func onRetry(log *logger.Logger, target string) func(attempt int, err error, delay time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("retry_in", delay),
			logger.Err(err),
		)
	}
}
