// Package filmography содержит отношение режиссёр-фильм и выборки
// фильмографии режиссёра по популярности или по дате выхода.
package filmography

import (
	"slices"
	"strings"
	"sync"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// SortMode определяет порядок фильмографии.
type SortMode string

const (
	// SortByLikes - по глобальному числу лайков.
	SortByLikes SortMode = "likes"

	// SortByYear - по дате выхода, сначала новые.
	SortByYear SortMode = "year"
)

// IsValid проверяет корректность режима.
func (m SortMode) IsValid() bool {
	return m == SortByLikes || m == SortByYear
}

// ParseSortMode разбирает значение параметра sortBy.
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", shared.ErrInvalidSortMode
	}
	return m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Orderer упорядочивает фильмы по популярности.
type Orderer interface {
	Order(candidates []shared.FilmID) []film.Film
}

// FilmSource разрешает идентификаторы в записи фильмов.
type FilmSource interface {
	GetMany(ids []shared.FilmID) []film.Film
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: Index
// ══════════════════════════════════════════════════════════════════════════════

// Index хранит отношение режиссёр-фильм в обе стороны.
type Index struct {
	mu         sync.RWMutex
	directors  film.DirectorGetter
	films      FilmSource
	ranker     Orderer
	byDirector map[shared.DirectorID]shared.IDSet[shared.FilmID]
	byFilm     map[shared.FilmID]shared.IDSet[shared.DirectorID]
}

// NewIndex создаёт пустой индекс.
func NewIndex(directors film.DirectorGetter, films FilmSource, ranker Orderer) *Index {
	return &Index{
		directors:  directors,
		films:      films,
		ranker:     ranker,
		byDirector: make(map[shared.DirectorID]shared.IDSet[shared.FilmID]),
		byFilm:     make(map[shared.FilmID]shared.IDSet[shared.DirectorID]),
	}
}

// Assign заменяет множество режиссёров фильма.
func (x *Index) Assign(filmID shared.FilmID, directorIDs []shared.DirectorID) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.removeFilm(filmID)
	for _, d := range directorIDs {
		if x.byDirector[d] == nil {
			x.byDirector[d] = shared.NewIDSet[shared.FilmID]()
		}
		if x.byFilm[filmID] == nil {
			x.byFilm[filmID] = shared.NewIDSet[shared.DirectorID]()
		}
		x.byDirector[d].Add(filmID)
		x.byFilm[filmID].Add(d)
	}
}

// DirectorsOf возвращает режиссёров фильма по возрастанию id.
func (x *Index) DirectorsOf(filmID shared.FilmID) []shared.DirectorID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byFilm[filmID].Sorted()
}

// FilmsOf возвращает фильмы режиссёра по возрастанию id.
// Возвращает NotFound для неизвестного режиссёра.
func (x *Index) FilmsOf(directorID shared.DirectorID) ([]shared.FilmID, error) {
	if _, err := x.directors.Get(directorID); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byDirector[directorID].Sorted(), nil
}

// ByPopularity возвращает фильмы режиссёра по числу лайков, при равенстве - по id.
func (x *Index) ByPopularity(directorID shared.DirectorID) ([]film.Film, error) {
	ids, err := x.FilmsOf(directorID)
	if err != nil {
		return nil, err
	}
	return x.ranker.Order(ids), nil
}

// ByReleaseYear возвращает фильмы режиссёра от новых к старым,
// при одинаковой дате - по возрастанию id.
func (x *Index) ByReleaseYear(directorID shared.DirectorID) ([]film.Film, error) {
	ids, err := x.FilmsOf(directorID)
	if err != nil {
		return nil, err
	}

	films := x.films.GetMany(ids)
	slices.SortFunc(films, func(a, b film.Film) int {
		if c := b.ReleaseDate.Compare(a.ReleaseDate.Time); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return films, nil
}

// Films возвращает фильмографию в заданном порядке.
func (x *Index) Films(directorID shared.DirectorID, mode SortMode) ([]film.Film, error) {
	switch mode {
	case SortByLikes:
		return x.ByPopularity(directorID)
	case SortByYear:
		return x.ByReleaseYear(directorID)
	default:
		return nil, shared.ErrInvalidSortMode
	}
}

// RemoveFilm удаляет все рёбра фильма.
func (x *Index) RemoveFilm(filmID shared.FilmID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.removeFilm(filmID)
}

// RemoveDirector удаляет все рёбра режиссёра. Возвращает его фильмы.
func (x *Index) RemoveDirector(directorID shared.DirectorID) []shared.FilmID {
	x.mu.Lock()
	defer x.mu.Unlock()

	films := x.byDirector[directorID].Sorted()
	for _, f := range films {
		x.byFilm[f].Remove(directorID)
		if x.byFilm[f].Len() == 0 {
			delete(x.byFilm, f)
		}
	}
	delete(x.byDirector, directorID)
	return films
}

func (x *Index) removeFilm(filmID shared.FilmID) {
	for d := range x.byFilm[filmID] {
		x.byDirector[d].Remove(filmID)
		if x.byDirector[d].Len() == 0 {
			delete(x.byDirector, d)
		}
	}
	delete(x.byFilm, filmID)
}
