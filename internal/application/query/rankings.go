package query

import (
	"context"
	"fmt"
	"time"

	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/filmography"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/infrastructure/metrics"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING QUERIES
// Популярные фильмы, общие фильмы двух пользователей и фильмография режиссёра.
// Все выборки упорядочены по числу лайков, при равенстве - по возрастанию id.
// ══════════════════════════════════════════════════════════════════════════════

// PopularCache хранит готовые выборки популярных фильмов.
// Промах и недоступность кэша неразличимы для вызывающего.
type PopularCache interface {
	// Get возвращает закэшированные id и поколение кэша на момент чтения.
	Get(ctx context.Context, count int) (ids []shared.FilmID, gen uint64, ok bool)

	// Set сохраняет выборку, если поколение не сменилось с момента Get.
	Set(ctx context.Context, gen uint64, count int, ids []shared.FilmID) error
}

// PopularFilmsQuery - самые популярные фильмы.
type PopularFilmsQuery struct {
	// Count - размер выборки; при Count <= 0 выборка пуста.
	Count int
}

// CommonFilmsQuery - фильмы, которые лайкнули оба пользователя.
type CommonFilmsQuery struct {
	UserID   shared.UserID
	FriendID shared.UserID
}

// DirectorFilmsQuery - фильмография режиссёра.
type DirectorFilmsQuery struct {
	DirectorID shared.DirectorID

	// SortBy - "likes" или "year"; пустое значение означает "likes".
	SortBy string
}

// RankingHandler отвечает на запросы рейтингов.
type RankingHandler struct {
	engine *engine.Engine
	cache  PopularCache
	log    *logger.Logger
}

// RankingOption настраивает RankingHandler.
type RankingOption func(*RankingHandler)

// WithPopularCache подключает кэш популярных фильмов.
func WithPopularCache(c PopularCache) RankingOption {
	return func(h *RankingHandler) { h.cache = c }
}

// WithLogger задаёт логгер.
func WithLogger(l *logger.Logger) RankingOption {
	return func(h *RankingHandler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewRankingHandler создаёт RankingHandler.
func NewRankingHandler(e *engine.Engine, opts ...RankingOption) *RankingHandler {
	h := &RankingHandler{
		engine: e,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Popular возвращает min(count, число фильмов) самых популярных фильмов.
// При count <= 0 - пустой список без ошибки.
func (h *RankingHandler) Popular(ctx context.Context, q PopularFilmsQuery) ([]film.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	count := q.Count
	if count <= 0 {
		return []film.Film{}, nil
	}
	defer metrics.ObserveQuery("popular", time.Now())

	var gen uint64
	if h.cache != nil {
		ids, g, ok := h.cache.Get(ctx, count)
		if ok {
			unlock := h.engine.Shared()
			defer unlock()
			return h.engine.Films.GetMany(ids), nil
		}
		gen = g
	}

	// Запись в кеш - вне блокировки движка.
	unlock := h.engine.Shared()
	entries := h.engine.Ranker.Entries(h.engine.Films.IDs(), count)
	films := h.engine.Ranker.Resolve(entries)
	unlock()

	if h.cache != nil {
		ids := make([]shared.FilmID, len(entries))
		for i, e := range entries {
			ids[i] = e.FilmID
		}
		if err := h.cache.Set(ctx, gen, count, ids); err != nil {
			logger.FromContextOr(ctx, h.log).Debug("popular cache write skipped",
				logger.Int("count", count), logger.Err(err))
		}
	}
	return films, nil
}

// CommonFilms возвращает фильмы, которые лайкнули оба пользователя.
// NotFound, если нет любого из пользователей.
func (h *RankingHandler) CommonFilms(ctx context.Context, q CommonFilmsQuery) ([]film.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer metrics.ObserveQuery("common_films", time.Now())

	unlock := h.engine.Shared()
	defer unlock()

	for _, id := range []shared.UserID{q.UserID, q.FriendID} {
		if _, err := h.engine.Users.Get(id); err != nil {
			return nil, fmt.Errorf("get_common_films: %w", err)
		}
	}
	return h.engine.Ranker.CommonFilms(q.UserID, q.FriendID), nil
}

// DirectorFilms возвращает фильмографию режиссёра в выбранном порядке.
// NotFound для неизвестного режиссёра, ErrInvalidSortMode для неверного sortBy.
func (h *RankingHandler) DirectorFilms(ctx context.Context, q DirectorFilmsQuery) ([]film.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer metrics.ObserveQuery("director_films", time.Now())

	unlock := h.engine.Shared()
	defer unlock()

	mode := filmography.SortByLikes
	if q.SortBy != "" {
		m, err := filmography.ParseSortMode(q.SortBy)
		if err != nil {
			return nil, fmt.Errorf("get_director_films: %w", err)
		}
		mode = m
	}

	films, err := h.engine.Filmography.Films(q.DirectorID, mode)
	if err != nil {
		return nil, fmt.Errorf("get_director_films: %w", err)
	}
	return films, nil
}
