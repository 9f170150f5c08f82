// Package catalog описывает порт долговременного хранения каталога.
//
// Движок графа и рейтингов живёт в памяти. Journal записывает каждое
// применённое изменение во внешнее хранилище, а Snapshot восстанавливает
// состояние при старте.
package catalog

import (
	"context"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

// Entity kinds used as sequence keys.
const (
	KindUser     = "user"
	KindFilm     = "film"
	KindDirector = "director"
)

// Journal - запись изменений каталога. Реализации должны быть идемпотентны:
// повторная запись того же изменения не является ошибкой.
type Journal interface {
	SaveUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id shared.UserID) error

	SaveFilm(ctx context.Context, f *film.Film) error
	DeleteFilm(ctx context.Context, id shared.FilmID) error

	SaveDirector(ctx context.Context, d *film.Director) error
	DeleteDirector(ctx context.Context, id shared.DirectorID) error

	AddFriendship(ctx context.Context, a, b shared.UserID) error
	RemoveFriendship(ctx context.Context, a, b shared.UserID) error

	AddLike(ctx context.Context, filmID shared.FilmID, userID shared.UserID) error
	RemoveLike(ctx context.Context, filmID shared.FilmID, userID shared.UserID) error
}

// Loader читает полное состояние каталога.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// LikeEdge - одна пара (пользователь, фильм).
type LikeEdge struct {
	UserID shared.UserID
	FilmID shared.FilmID
}

// Snapshot - полное состояние каталога.
type Snapshot struct {
	Users       []user.User
	Directors   []film.Director
	Films       []film.Film
	Friendships [][2]shared.UserID
	Likes       []LikeEdge

	// Sequences - последний выданный id по виду сущности.
	Sequences map[string]int64
}

// ══════════════════════════════════════════════════════════════════════════════
// NOP JOURNAL
// ══════════════════════════════════════════════════════════════════════════════

// NopJournal ничего не сохраняет. Используется, когда база не настроена.
type NopJournal struct{}

func (NopJournal) SaveUser(context.Context, *user.User) error { return nil }
func (NopJournal) DeleteUser(context.Context, shared.UserID) error { return nil }
func (NopJournal) SaveFilm(context.Context, *film.Film) error { return nil }
func (NopJournal) DeleteFilm(context.Context, shared.FilmID) error { return nil }
func (NopJournal) SaveDirector(context.Context, *film.Director) error { return nil }
func (NopJournal) DeleteDirector(context.Context, shared.DirectorID) error { return nil }
func (NopJournal) AddFriendship(context.Context, shared.UserID, shared.UserID) error { return nil }
func (NopJournal) RemoveFriendship(context.Context, shared.UserID, shared.UserID) error { return nil }
func (NopJournal) AddLike(context.Context, shared.FilmID, shared.UserID) error { return nil }
func (NopJournal) RemoveLike(context.Context, shared.FilmID, shared.UserID) error { return nil }
