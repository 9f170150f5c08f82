// Package like содержит индекс лайков: отношение многие-ко-многим
// между пользователями и фильмами.
//
// Лайк идемпотентен - повторный лайк того же фильма ничего не меняет.
package like

import (
	"sync"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

// Index хранит обе стороны отношения: кто лайкнул фильм и что лайкнул
// пользователь. Обе стороны меняются под одной блокировкой.
type Index struct {
	mu     sync.RWMutex
	users  user.Getter
	films  film.Getter
	likers map[shared.FilmID]shared.IDSet[shared.UserID]
	liked  map[shared.UserID]shared.IDSet[shared.FilmID]
}

// NewIndex создаёт пустой индекс.
func NewIndex(users user.Getter, films film.Getter) *Index {
	return &Index{
		users:  users,
		films:  films,
		likers: make(map[shared.FilmID]shared.IDSet[shared.UserID]),
		liked:  make(map[shared.UserID]shared.IDSet[shared.FilmID]),
	}
}

// AddLike ставит лайк. Возвращает NotFound, если нет пользователя или фильма.
// Повторный лайк возвращает false без ошибки.
func (x *Index) AddLike(userID shared.UserID, filmID shared.FilmID) (bool, error) {
	if err := x.requireEndpoints(userID, filmID); err != nil {
		return false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.likers[filmID].Has(userID) {
		return false, nil
	}
	x.link(userID, filmID)
	return true, nil
}

// RemoveLike снимает лайк. Снятие отсутствующего лайка - no-op.
func (x *Index) RemoveLike(userID shared.UserID, filmID shared.FilmID) (bool, error) {
	if err := x.requireEndpoints(userID, filmID); err != nil {
		return false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.likers[filmID].Has(userID) {
		return false, nil
	}
	x.unlink(userID, filmID)
	return true, nil
}

// LikeCount возвращает число лайков фильма; 0 для неизвестного фильма.
func (x *Index) LikeCount(filmID shared.FilmID) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.likers[filmID].Len()
}

// Counts возвращает число лайков для каждого из фильмов одним снимком.
func (x *Index) Counts(ids []shared.FilmID) map[shared.FilmID]int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make(map[shared.FilmID]int, len(ids))
	for _, id := range ids {
		out[id] = x.likers[id].Len()
	}
	return out
}

// LikersOf возвращает пользователей, лайкнувших фильм, по возрастанию id.
func (x *Index) LikersOf(filmID shared.FilmID) []shared.UserID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.likers[filmID].Sorted()
}

// LikedFilmsOf возвращает фильмы, лайкнутые пользователем, по возрастанию id.
func (x *Index) LikedFilmsOf(userID shared.UserID) []shared.FilmID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.liked[userID].Sorted()
}

// CommonLikes возвращает фильмы, которые лайкнули оба пользователя.
func (x *Index) CommonLikes(a, b shared.UserID) []shared.FilmID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.liked[a].Intersect(x.liked[b]).Sorted()
}

// RemoveUser удаляет все лайки пользователя. Возвращает затронутые фильмы.
func (x *Index) RemoveUser(userID shared.UserID) []shared.FilmID {
	x.mu.Lock()
	defer x.mu.Unlock()

	films := x.liked[userID].Sorted()
	for _, f := range films {
		x.unlink(userID, f)
	}
	return films
}

// RemoveFilm удаляет все лайки фильма. Возвращает лайкнувших пользователей.
func (x *Index) RemoveFilm(filmID shared.FilmID) []shared.UserID {
	x.mu.Lock()
	defer x.mu.Unlock()

	users := x.likers[filmID].Sorted()
	for _, u := range users {
		x.unlink(u, filmID)
	}
	return users
}

// Link добавляет лайк без проверок. Используется при загрузке из хранилища.
func (x *Index) Link(userID shared.UserID, filmID shared.FilmID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.link(userID, filmID)
}

// ─────────────────────────────────────────────────────────────────────────────

func (x *Index) requireEndpoints(userID shared.UserID, filmID shared.FilmID) error {
	if _, err := x.users.Get(userID); err != nil {
		return err
	}
	if _, err := x.films.Get(filmID); err != nil {
		return err
	}
	return nil
}

func (x *Index) link(userID shared.UserID, filmID shared.FilmID) {
	if x.likers[filmID] == nil {
		x.likers[filmID] = shared.NewIDSet[shared.UserID]()
	}
	if x.liked[userID] == nil {
		x.liked[userID] = shared.NewIDSet[shared.FilmID]()
	}
	x.likers[filmID].Add(userID)
	x.liked[userID].Add(filmID)
}

func (x *Index) unlink(userID shared.UserID, filmID shared.FilmID) {
	x.likers[filmID].Remove(userID)
	x.liked[userID].Remove(filmID)
	if x.likers[filmID].Len() == 0 {
		delete(x.likers, filmID)
	}
	if x.liked[userID].Len() == 0 {
		delete(x.liked, userID)
	}
}
