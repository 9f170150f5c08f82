package like

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

type fakeUsers map[shared.UserID]bool

func (f fakeUsers) Get(id shared.UserID) (*user.User, error) {
	if !f[id] {
		return nil, shared.NotFound("user", int64(id))
	}
	return &user.User{ID: id}, nil
}

type fakeFilms map[shared.FilmID]bool

func (f fakeFilms) Get(id shared.FilmID) (*film.Film, error) {
	if !f[id] {
		return nil, shared.NotFound("film", int64(id))
	}
	return &film.Film{ID: id}, nil
}

func newIndex() *Index {
	return NewIndex(
		fakeUsers{1: true, 2: true, 3: true},
		fakeFilms{10: true, 20: true, 30: true},
	)
}

func TestAddLike_Idempotent(t *testing.T) {
	x := newIndex()

	added, err := x.AddLike(1, 10)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, x.LikeCount(10))

	added, err = x.AddLike(1, 10)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, x.LikeCount(10))
}

func TestAddLike_NotFound(t *testing.T) {
	x := newIndex()

	_, err := x.AddLike(9, 10)
	assert.True(t, shared.IsNotFound(err))

	_, err = x.AddLike(1, 99)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, 0, x.LikeCount(99))
}

func TestRemoveLike_NoOp(t *testing.T) {
	x := newIndex()
	_, err := x.AddLike(1, 10)
	require.NoError(t, err)

	removed, err := x.RemoveLike(1, 10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = x.RemoveLike(1, 10)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 0, x.LikeCount(10))
}

func TestLikersAndLikedFilms(t *testing.T) {
	x := newIndex()
	for _, l := range []struct {
		u shared.UserID
		f shared.FilmID
	}{{1, 10}, {2, 10}, {1, 20}, {3, 30}} {
		_, err := x.AddLike(l.u, l.f)
		require.NoError(t, err)
	}

	assert.Equal(t, []shared.UserID{1, 2}, x.LikersOf(10))
	assert.Equal(t, []shared.FilmID{10, 20}, x.LikedFilmsOf(1))
	assert.Equal(t, []shared.FilmID{10}, x.CommonLikes(1, 2))
	assert.Empty(t, x.CommonLikes(1, 3))
	assert.Equal(t, map[shared.FilmID]int{10: 2, 20: 1, 99: 0}, x.Counts([]shared.FilmID{10, 20, 99}))
}

func TestCascade(t *testing.T) {
	x := newIndex()
	_, _ = x.AddLike(1, 10)
	_, _ = x.AddLike(2, 10)
	_, _ = x.AddLike(1, 20)

	assert.Equal(t, []shared.FilmID{10, 20}, x.RemoveUser(1))
	assert.Equal(t, 1, x.LikeCount(10))
	assert.Equal(t, 0, x.LikeCount(20))
	assert.Empty(t, x.LikedFilmsOf(1))

	assert.Equal(t, []shared.UserID{2}, x.RemoveFilm(10))
	assert.Empty(t, x.LikedFilmsOf(2))
}
