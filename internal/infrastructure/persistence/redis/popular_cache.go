package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/infrastructure/metrics"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

const cacheName = "popular"

// InvalidatingEvents are the events that can change the popular ranking.
var InvalidatingEvents = []shared.EventType{
	shared.EventLikeAdded,
	shared.EventLikeRemoved,
	shared.EventFilmCreated,
	shared.EventFilmDeleted,
	shared.EventUserDeleted,
}

// BreakerSettings tunes the circuit breaker around Redis calls.
type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration

	// Interval resets the failure counts while closed.
	Interval time.Duration
}

// DefaultBreakerSettings returns the production breaker settings.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		Interval:            time.Minute,
	}
}

// PopularCache caches top-k popular film ids in the KeyPopular hash.
//
// Every Redis call goes through a circuit breaker. Any failure is reported as
// a miss, so callers always fall back to computing the ranking in memory.
// Writes carry the invalidation generation they were computed under and are
// dropped if an invalidation happened in between.
type PopularCache struct {
	client redis.Cmdable
	cb     *gobreaker.CircuitBreaker[[]byte]
	ttl    time.Duration
	gen    atomic.Uint64
	log    *logger.Logger
}

// NewPopularCache creates a cache over client.
func NewPopularCache(client redis.Cmdable, ttl time.Duration, bs BreakerSettings, log *logger.Logger) *PopularCache {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("popular_cache"))

	breakerName := "redis-" + cacheName
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    bs.Interval,
		Timeout:     bs.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &PopularCache{
		client: client,
		cb:     cb,
		ttl:    ttl,
		log:    log,
	}
}

// Generation returns the current invalidation generation.
func (c *PopularCache) Generation() uint64 {
	return c.gen.Load()
}

// State returns the breaker state.
func (c *PopularCache) State() gobreaker.State {
	return c.cb.State()
}

// Get returns the cached ids for count together with the generation observed
// before the lookup. ok is false on a miss or on any Redis failure.
func (c *PopularCache) Get(ctx context.Context, count int) (ids []shared.FilmID, gen uint64, ok bool) {
	gen = c.gen.Load()

	data, err := c.cb.Execute(func() ([]byte, error) {
		b, err := c.client.HGet(ctx, KeyPopular, field(count)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		c.recordFailure("get", err)
		return nil, gen, false
	}
	if data == nil {
		metrics.RecordCacheLookup(cacheName, "miss")
		return nil, gen, false
	}

	if err := json.Unmarshal(data, &ids); err != nil {
		metrics.RecordCacheLookup(cacheName, "error")
		c.log.Warn("dropping corrupt cache entry", logger.Int("count", count), logger.Err(err))
		_ = c.client.HDel(ctx, KeyPopular, field(count)).Err()
		return nil, gen, false
	}

	metrics.RecordCacheLookup(cacheName, "hit")
	return ids, gen, true
}

// Set stores ids for count if no invalidation happened since gen.
func (c *PopularCache) Set(ctx context.Context, gen uint64, count int, ids []shared.FilmID) error {
	if c.gen.Load() != gen {
		return nil
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	_, err = c.cb.Execute(func() ([]byte, error) {
		pipe := c.client.TxPipeline()
		pipe.HSet(ctx, KeyPopular, field(count), data)
		if c.ttl > 0 {
			pipe.Expire(ctx, KeyPopular, c.ttl)
		}
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		c.recordFailure("set", err)
		return err
	}

	// An invalidation may have deleted the hash before our write landed.
	if c.gen.Load() != gen {
		return c.del(ctx)
	}
	return nil
}

// Invalidate drops every cached ranking.
func (c *PopularCache) Invalidate(ctx context.Context) error {
	c.gen.Add(1)
	return c.del(ctx)
}

// HandleEvent invalidates the cache. It is subscribed to InvalidatingEvents.
func (c *PopularCache) HandleEvent(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate on %s: %w", event.EventType(), err)
	}
	return nil
}

func (c *PopularCache) del(ctx context.Context) error {
	_, err := c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, KeyPopular).Err()
	})
	if err != nil {
		c.recordFailure("invalidate", err)
	}
	return err
}

func (c *PopularCache) recordFailure(op string, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordCacheLookup(cacheName, "rejected")
		return
	}
	metrics.RecordCacheLookup(cacheName, "error")
	c.log.Debug("redis call failed", logger.Operation(op), logger.Err(err))
}

func field(count int) string {
	return strconv.Itoa(count)
}

// stateToFloat converts breaker state to the gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
