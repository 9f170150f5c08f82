package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/memory"
)

// ═══════════════════════════════════════════════════════════════════════════
// FIXTURES
// ═══════════════════════════════════════════════════════════════════════════

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	s := memory.NewStore(nil, nil)
	return engine.New(engine.Repositories{
		Users:     s.Users,
		Films:     s.Films,
		Directors: s.Directors,
		Genres:    s.Genres,
		Ratings:   s.Ratings,
	})
}

func addUser(t *testing.T, e *engine.Engine, login string) shared.UserID {
	t.Helper()
	u, err := e.Users.Create(&user.User{Email: login + "@example.com", Login: login})
	require.NoError(t, err)
	return u.ID
}

func addFilm(t *testing.T, e *engine.Engine, name string, year int, directors ...shared.DirectorID) shared.FilmID {
	t.Helper()
	f := &film.Film{
		Name:        name,
		ReleaseDate: shared.NewDate(year, 1, 1),
		Duration:    100,
		MPA:         &film.Rating{ID: 1},
	}
	for _, d := range directors {
		f.Directors = append(f.Directors, film.Director{ID: d})
	}
	created, err := e.Films.Create(f)
	require.NoError(t, err)
	e.Filmography.Assign(created.ID, created.DirectorIDs())
	return created.ID
}

func like(t *testing.T, e *engine.Engine, filmID shared.FilmID, users ...shared.UserID) {
	t.Helper()
	for _, u := range users {
		_, err := e.Likes.AddLike(u, filmID)
		require.NoError(t, err)
	}
}

func filmIDs(films []film.Film) []shared.FilmID {
	out := make([]shared.FilmID, len(films))
	for i, f := range films {
		out[i] = f.ID
	}
	return out
}

func userIDs(users []user.User) []shared.UserID {
	out := make([]shared.UserID, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

type fakeCache struct {
	entries map[int][]shared.FilmID
	gen     uint64
	gets    int
	sets    int
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int][]shared.FilmID{}}
}

func (c *fakeCache) Get(_ context.Context, count int) ([]shared.FilmID, uint64, bool) {
	c.gets++
	ids, ok := c.entries[count]
	return ids, c.gen, ok
}

func (c *fakeCache) Set(_ context.Context, gen uint64, count int, ids []shared.FilmID) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	if gen != c.gen {
		return nil
	}
	c.entries[count] = ids
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// CATALOG
// ═══════════════════════════════════════════════════════════════════════════

func TestCatalog_GetAndList(t *testing.T) {
	e := newEngine(t)
	h := NewCatalogHandler(e)
	ctx := context.Background()
	a := addUser(t, e, "a")
	addUser(t, e, "b")

	u, err := h.User(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "a", u.Login)

	_, err = h.User(ctx, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	users, err := h.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	genres, err := h.Genres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, len(memory.DefaultGenres))

	mpa, err := h.Rating(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "PG-13", mpa.Name)

	_, err = h.Genre(ctx, 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ═══════════════════════════════════════════════════════════════════════════
// FRIENDS
// ═══════════════════════════════════════════════════════════════════════════

func TestFriends_SortedRecords(t *testing.T) {
	e := newEngine(t)
	h := NewFriendsHandler(e)
	ctx := context.Background()
	a, b, c, d := addUser(t, e, "a"), addUser(t, e, "b"), addUser(t, e, "c"), addUser(t, e, "d")

	require.NoError(t, e.Friends.AddFriend(a, d))
	require.NoError(t, e.Friends.AddFriend(a, b))
	require.NoError(t, e.Friends.AddFriend(c, b))
	require.NoError(t, e.Friends.AddFriend(c, d))

	friends, err := h.Friends(ctx, FriendsQuery{UserID: a})
	require.NoError(t, err)
	assert.Equal(t, []shared.UserID{b, d}, userIDs(friends))

	common, err := h.CommonFriends(ctx, CommonFriendsQuery{UserID: a, OtherID: c})
	require.NoError(t, err)
	assert.Equal(t, []shared.UserID{b, d}, userIDs(common))

	_, err = h.Friends(ctx, FriendsQuery{UserID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = h.CommonFriends(ctx, CommonFriendsQuery{UserID: a, OtherID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ═══════════════════════════════════════════════════════════════════════════
// POPULAR
// ═══════════════════════════════════════════════════════════════════════════

func TestPopular_OrderAndTies(t *testing.T) {
	e := newEngine(t)
	h := NewRankingHandler(e)
	ctx := context.Background()
	u1, u2, u3 := addUser(t, e, "u1"), addUser(t, e, "u2"), addUser(t, e, "u3")
	f1 := addFilm(t, e, "one", 2001)
	f2 := addFilm(t, e, "two", 2002)
	f3 := addFilm(t, e, "three", 2003)
	f4 := addFilm(t, e, "four", 2004)

	like(t, e, f3, u1, u2, u3)
	like(t, e, f2, u1)
	like(t, e, f4, u2)

	top, err := h.Popular(ctx, PopularFilmsQuery{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f3, f2, f4}, filmIDs(top))

	all, err := h.Popular(ctx, PopularFilmsQuery{Count: 100})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f3, f2, f4, f1}, filmIDs(all))
}

func TestPopular_NonPositiveCountIsEmpty(t *testing.T) {
	e := newEngine(t)
	u := addUser(t, e, "u")
	f1 := addFilm(t, e, "one", 2001)
	addFilm(t, e, "two", 2002)
	like(t, e, f1, u)

	cache := newFakeCache()
	h := NewRankingHandler(e, WithPopularCache(cache))
	ctx := context.Background()

	for _, count := range []int{0, -1, -100} {
		films, err := h.Popular(ctx, PopularFilmsQuery{Count: count})
		require.NoError(t, err, "count=%d", count)
		assert.NotNil(t, films, "count=%d", count)
		assert.Empty(t, films, "count=%d", count)
	}

	films, err := h.Popular(ctx, PopularFilmsQuery{})
	require.NoError(t, err)
	assert.Empty(t, films)
	assert.Zero(t, cache.sets, "empty selections are not cached")
}

func TestPopular_EmptyCatalog(t *testing.T) {
	films, err := NewRankingHandler(newEngine(t)).Popular(context.Background(), PopularFilmsQuery{Count: 5})
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestPopular_UsesCache(t *testing.T) {
	e := newEngine(t)
	u := addUser(t, e, "u")
	f1 := addFilm(t, e, "one", 2001)
	f2 := addFilm(t, e, "two", 2002)
	like(t, e, f2, u)

	cache := newFakeCache()
	h := NewRankingHandler(e, WithPopularCache(cache))
	ctx := context.Background()

	first, err := h.Popular(ctx, PopularFilmsQuery{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f2, f1}, filmIDs(first))
	assert.Equal(t, []shared.FilmID{f2, f1}, cache.entries[2])
	assert.Equal(t, 1, cache.sets)

	second, err := h.Popular(ctx, PopularFilmsQuery{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, filmIDs(first), filmIDs(second))
	assert.Equal(t, 1, cache.sets, "hit must not write back")
}

func TestPopular_CacheWriteFailureIsIgnored(t *testing.T) {
	e := newEngine(t)
	f1 := addFilm(t, e, "one", 2001)

	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	films, err := NewRankingHandler(e, WithPopularCache(cache)).Popular(context.Background(), PopularFilmsQuery{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f1}, filmIDs(films))
}

// ═══════════════════════════════════════════════════════════════════════════
// COMMON FILMS
// ═══════════════════════════════════════════════════════════════════════════

func TestCommonFilms(t *testing.T) {
	e := newEngine(t)
	h := NewRankingHandler(e)
	ctx := context.Background()
	a, b, c := addUser(t, e, "a"), addUser(t, e, "b"), addUser(t, e, "c")
	f1 := addFilm(t, e, "one", 2001)
	f2 := addFilm(t, e, "two", 2002)
	f3 := addFilm(t, e, "three", 2003)

	like(t, e, f1, a, b)
	like(t, e, f2, a, b, c)
	like(t, e, f3, a)

	films, err := h.CommonFilms(ctx, CommonFilmsQuery{UserID: a, FriendID: b})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f2, f1}, filmIDs(films))

	films, err = h.CommonFilms(ctx, CommonFilmsQuery{UserID: b, FriendID: c})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f2}, filmIDs(films))

	_, err = h.CommonFilms(ctx, CommonFilmsQuery{UserID: a, FriendID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ═══════════════════════════════════════════════════════════════════════════
// DIRECTOR FILMS
// ═══════════════════════════════════════════════════════════════════════════

func TestDirectorFilms(t *testing.T) {
	e := newEngine(t)
	h := NewRankingHandler(e)
	ctx := context.Background()

	d, err := e.Directors.Create(&film.Director{Name: "Nolan"})
	require.NoError(t, err)
	u := addUser(t, e, "u")

	older := addFilm(t, e, "Memento", 2000, d.ID)
	newer := addFilm(t, e, "Tenet", 2020, d.ID)
	addFilm(t, e, "Other", 2010)
	like(t, e, older, u)

	byLikes, err := h.DirectorFilms(ctx, DirectorFilmsQuery{DirectorID: d.ID})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{older, newer}, filmIDs(byLikes))

	byYear, err := h.DirectorFilms(ctx, DirectorFilmsQuery{DirectorID: d.ID, SortBy: "year"})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{newer, older}, filmIDs(byYear))

	_, err = h.DirectorFilms(ctx, DirectorFilmsQuery{DirectorID: d.ID, SortBy: "rating"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = h.DirectorFilms(ctx, DirectorFilmsQuery{DirectorID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
