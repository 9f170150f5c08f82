// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG QUERIES
// Чтение записей каталога по идентификатору и списком. Записи читаются под
// общей блокировкой движка: изменение, не принятое журналом, не видно.
// ══════════════════════════════════════════════════════════════════════════════

// CatalogHandler отвечает на запросы к записям каталога.
type CatalogHandler struct {
	engine *engine.Engine
}

// NewCatalogHandler создаёт CatalogHandler.
func NewCatalogHandler(e *engine.Engine) *CatalogHandler {
	return &CatalogHandler{engine: e}
}

// User возвращает пользователя или NotFound.
func (h *CatalogHandler) User(ctx context.Context, id shared.UserID) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := h.engine.Shared()
	defer unlock()

	u, err := h.engine.Users.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get_user: %w", err)
	}
	return u, nil
}

// Users возвращает всех пользователей по возрастанию id.
func (h *CatalogHandler) Users(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := h.engine.Shared()
	defer unlock()

	return h.engine.Users.List(), nil
}

// Film возвращает фильм или NotFound.
func (h *CatalogHandler) Film(ctx context.Context, id shared.FilmID) (*film.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := h.engine.Shared()
	defer unlock()

	f, err := h.engine.Films.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get_film: %w", err)
	}
	return f, nil
}

// Films возвращает все фильмы по возрастанию id.
func (h *CatalogHandler) Films(ctx context.Context) ([]film.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := h.engine.Shared()
	defer unlock()

	return h.engine.Films.List(), nil
}

// Director возвращает режиссёра или NotFound.
func (h *CatalogHandler) Director(ctx context.Context, id shared.DirectorID) (*film.Director, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := h.engine.Shared()
	defer unlock()

	d, err := h.engine.Directors.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get_director: %w", err)
	}
	return d, nil
}

// Directors возвращает всех режиссёров по возрастанию id.
func (h *CatalogHandler) Directors(ctx context.Context) ([]film.Director, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := h.engine.Shared()
	defer unlock()

	return h.engine.Directors.List(), nil
}

// Genre возвращает жанр или NotFound.
func (h *CatalogHandler) Genre(ctx context.Context, id shared.GenreID) (*film.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := h.engine.Genres.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get_genre: %w", err)
	}
	return g, nil
}

// Genres возвращает справочник жанров.
func (h *CatalogHandler) Genres(ctx context.Context) ([]film.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.engine.Genres.List(), nil
}

// Rating возвращает рейтинг MPA или NotFound.
func (h *CatalogHandler) Rating(ctx context.Context, id shared.RatingID) (*film.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := h.engine.Ratings.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get_mpa: %w", err)
	}
	return r, nil
}

// Ratings возвращает справочник рейтингов MPA.
func (h *CatalogHandler) Ratings(ctx context.Context) ([]film.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.engine.Ratings.List(), nil
}

// Handlers bundles the query handlers.
type Handlers struct {
	Catalog  *CatalogHandler
	Friends  *FriendsHandler
	Rankings *RankingHandler
}

// NewHandlers creates all query handlers over e.
func NewHandlers(e *engine.Engine, opts ...RankingOption) *Handlers {
	return &Handlers{
		Catalog:  NewCatalogHandler(e),
		Friends:  NewFriendsHandler(e),
		Rankings: NewRankingHandler(e, opts...),
	}
}
