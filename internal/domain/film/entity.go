// Package film содержит доменную модель фильма и справочников:
// режиссёров, жанров и рейтингов MPA.
package film

import (
	"cmp"
	"slices"
	"time"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MaxDescriptionLength - максимальная длина описания в символах.
	MaxDescriptionLength = 200
)

// EarliestReleaseDate - дата первого публичного киносеанса (28 декабря 1895).
// Фильм не может выйти раньше.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Director - режиссёр.
type Director struct {
	ID   shared.DirectorID `json:"id"`
	Name string            `json:"name" validate:"required,notblank"`
}

// EntityID возвращает идентификатор записи.
func (d *Director) EntityID() int64 { return int64(d.ID) }

// AssignID устанавливает идентификатор, выданный индексом.
func (d *Director) AssignID(id int64) { d.ID = shared.DirectorID(id) }

// Clone возвращает независимую копию.
func (d *Director) Clone() *Director {
	c := *d
	return &c
}

// Genre - жанр фильма.
type Genre struct {
	ID   shared.GenreID `json:"id"`
	Name string         `json:"name,omitempty"`
}

// EntityID возвращает идентификатор записи.
func (g *Genre) EntityID() int64 { return int64(g.ID) }

// AssignID устанавливает идентификатор.
func (g *Genre) AssignID(id int64) { g.ID = shared.GenreID(id) }

// Clone возвращает независимую копию.
func (g *Genre) Clone() *Genre {
	c := *g
	return &c
}

// Rating - возрастной рейтинг MPA.
type Rating struct {
	ID   shared.RatingID `json:"id"`
	Name string          `json:"name,omitempty"`
}

// EntityID возвращает идентификатор записи.
func (r *Rating) EntityID() int64 { return int64(r.ID) }

// AssignID устанавливает идентификатор.
func (r *Rating) AssignID(id int64) { r.ID = shared.RatingID(id) }

// Clone возвращает независимую копию.
func (r *Rating) Clone() *Rating {
	c := *r
	return &c
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: Film
// ══════════════════════════════════════════════════════════════════════════════

// Film - фильм каталога. Жанры и режиссёры - множества: порядок вставки
// не значим, после нормализации они упорядочены по идентификатору.
type Film struct {
	ID          shared.FilmID `json:"id"`
	Name        string        `json:"name" validate:"required,notblank"`
	Description string        `json:"description" validate:"max=200"`
	ReleaseDate shared.Date   `json:"releaseDate" validate:"required,releasedate"`
	Duration    int           `json:"duration" validate:"gt=0"`
	MPA         *Rating       `json:"mpa" validate:"required"`
	Genres      []Genre       `json:"genres"`
	Directors   []Director    `json:"directors"`
}

// Normalize убирает дубликаты жанров и режиссёров и сортирует их по id.
func (f *Film) Normalize() {
	f.Genres = dedupe(f.Genres, func(g Genre) shared.GenreID { return g.ID })
	f.Directors = dedupe(f.Directors, func(d Director) shared.DirectorID { return d.ID })
}

// DirectorIDs возвращает идентификаторы режиссёров фильма.
func (f *Film) DirectorIDs() []shared.DirectorID {
	ids := make([]shared.DirectorID, 0, len(f.Directors))
	for _, d := range f.Directors {
		ids = append(ids, d.ID)
	}
	return ids
}

// HasDirector проверяет, снимал ли режиссёр этот фильм.
func (f *Film) HasDirector(id shared.DirectorID) bool {
	return slices.ContainsFunc(f.Directors, func(d Director) bool { return d.ID == id })
}

// EntityID возвращает идентификатор записи.
func (f *Film) EntityID() int64 { return int64(f.ID) }

// AssignID устанавливает идентификатор, выданный индексом.
func (f *Film) AssignID(id int64) { f.ID = shared.FilmID(id) }

// Clone возвращает независимую копию, включая срезы жанров и режиссёров.
func (f *Film) Clone() *Film {
	c := *f
	if f.MPA != nil {
		c.MPA = f.MPA.Clone()
	}
	c.Genres = slices.Clone(f.Genres)
	c.Directors = slices.Clone(f.Directors)
	if c.Genres == nil {
		c.Genres = []Genre{}
	}
	if c.Directors == nil {
		c.Directors = []Director{}
	}
	return &c
}

func dedupe[E any, K cmp.Ordered](items []E, key func(E) K) []E {
	out := make([]E, 0, len(items))
	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b E) int { return cmp.Compare(key(a), key(b)) })
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Getter - поиск фильма по идентификатору.
// Возвращает ошибку с kind shared.ErrNotFound, если фильма нет.
type Getter interface {
	Get(id shared.FilmID) (*Film, error)
}

// DirectorGetter - поиск режиссёра по идентификатору.
type DirectorGetter interface {
	Get(id shared.DirectorID) (*Director, error)
}
