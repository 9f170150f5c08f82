package ranking

import (
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// LikeSource - то, что ранжированию нужно от индекса лайков.
type LikeSource interface {
	// Counts возвращает число лайков для каждого фильма одним снимком.
	Counts(ids []shared.FilmID) map[shared.FilmID]int

	// CommonLikes возвращает фильмы, лайкнутые обоими пользователями.
	CommonLikes(a, b shared.UserID) []shared.FilmID
}

// FilmSource разрешает идентификаторы в записи фильмов, сохраняя порядок
// и пропуская удалённые.
type FilmSource interface {
	GetMany(ids []shared.FilmID) []film.Film
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE: Ranker
// ══════════════════════════════════════════════════════════════════════════════

// Ranker упорядочивает произвольные множества фильмов по глобальному числу лайков.
type Ranker struct {
	likes LikeSource
	films FilmSource
}

// NewRanker создаёт Ranker.
func NewRanker(likes LikeSource, films FilmSource) *Ranker {
	return &Ranker{likes: likes, films: films}
}

// Entries возвращает первые k позиций рейтинга среди кандидатов.
// Повторяющиеся кандидаты учитываются один раз.
func (r *Ranker) Entries(candidates []shared.FilmID, k int) []Entry {
	if k <= 0 || len(candidates) == 0 {
		return []Entry{}
	}

	unique := shared.NewIDSet(candidates...).Sorted()
	counts := r.likes.Counts(unique)

	entries := make([]Entry, 0, len(unique))
	for _, id := range unique {
		entries = append(entries, Entry{FilmID: id, Likes: counts[id]})
	}
	return SelectTop(entries, k)
}

// TopK возвращает k самых популярных фильмов среди кандидатов.
// Длина результата - min(k, число кандидатов); k <= 0 даёт пустой срез.
func (r *Ranker) TopK(candidates []shared.FilmID, k int) []film.Film {
	return r.Resolve(r.Entries(candidates, k))
}

// Order упорядочивает всех кандидатов.
func (r *Ranker) Order(candidates []shared.FilmID) []film.Film {
	return r.TopK(candidates, len(candidates))
}

// CommonFilms возвращает фильмы, лайкнутые обоими пользователями, в порядке
// глобальной популярности. Пустое пересечение - пустой срез.
func (r *Ranker) CommonFilms(a, b shared.UserID) []film.Film {
	return r.Order(r.likes.CommonLikes(a, b))
}

// Resolve превращает позиции рейтинга в записи фильмов.
func (r *Ranker) Resolve(entries []Entry) []film.Film {
	ids := make([]shared.FilmID, len(entries))
	for i, e := range entries {
		ids[i] = e.FilmID
	}
	return r.films.GetMany(ids)
}
