// Package ranking содержит упорядочивание фильмов по популярности.
// Популярность - это число лайков; при равенстве выше фильм с меньшим id,
// поэтому порядок всегда полный и воспроизводимый.
package ranking

import (
	"container/heap"
	"slices"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Entry - позиция фильма в рейтинге.
type Entry struct {
	FilmID shared.FilmID `json:"film_id"`
	Likes  int           `json:"likes"`
}

// Before сообщает, стоит ли e выше other: больше лайков, затем меньший id.
func (e Entry) Before(other Entry) bool {
	if e.Likes != other.Likes {
		return e.Likes > other.Likes
	}
	return e.FilmID < other.FilmID
}

func compare(a, b Entry) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TOP-K SELECTION
// ══════════════════════════════════════════════════════════════════════════════

// SelectTop возвращает k лучших записей в порядке рейтинга.
// k <= 0 даёт пустой срез. При k < len(entries) используется куча размера k,
// иначе - полная сортировка.
func SelectTop(entries []Entry, k int) []Entry {
	if k <= 0 || len(entries) == 0 {
		return []Entry{}
	}
	if k >= len(entries) {
		out := slices.Clone(entries)
		slices.SortFunc(out, compare)
		return out
	}

	// В вершине кучи - худшая из отобранных записей.
	h := make(worstFirst, 0, k)
	for _, e := range entries {
		if h.Len() < k {
			heap.Push(&h, e)
			continue
		}
		if e.Before(h[0]) {
			h[0] = e
			heap.Fix(&h, 0)
		}
	}

	out := []Entry(h)
	slices.SortFunc(out, compare)
	return out
}

// worstFirst - куча, где наверху запись с самым низким рейтингом.
type worstFirst []Entry

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return h[j].Before(h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(Entry)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
