package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/application/query"
	"github.com/VeraBsp/filmorate/internal/domain/catalog"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/memory"
)

// ═══════════════════════════════════════════════════════════════════════════
// FIXTURES
// ═══════════════════════════════════════════════════════════════════════════

var errJournalDown = errors.New("journal unavailable")

// failingJournal fails every write whose op is listed in failOn.
type failingJournal struct {
	catalog.NopJournal
	failOn map[string]bool
	calls  []string
}

func (j *failingJournal) record(op string) error {
	j.calls = append(j.calls, op)
	if j.failOn[op] {
		return errJournalDown
	}
	return nil
}

func (j *failingJournal) SaveUser(context.Context, *user.User) error { return j.record("SaveUser") }
func (j *failingJournal) DeleteUser(context.Context, shared.UserID) error {
	return j.record("DeleteUser")
}
func (j *failingJournal) SaveFilm(context.Context, *film.Film) error { return j.record("SaveFilm") }
func (j *failingJournal) DeleteFilm(context.Context, shared.FilmID) error {
	return j.record("DeleteFilm")
}
func (j *failingJournal) SaveDirector(context.Context, *film.Director) error {
	return j.record("SaveDirector")
}
func (j *failingJournal) DeleteDirector(context.Context, shared.DirectorID) error {
	return j.record("DeleteDirector")
}
func (j *failingJournal) AddFriendship(context.Context, shared.UserID, shared.UserID) error {
	return j.record("AddFriendship")
}
func (j *failingJournal) RemoveFriendship(context.Context, shared.UserID, shared.UserID) error {
	return j.record("RemoveFriendship")
}
func (j *failingJournal) AddLike(context.Context, shared.FilmID, shared.UserID) error {
	return j.record("AddLike")
}
func (j *failingJournal) RemoveLike(context.Context, shared.FilmID, shared.UserID) error {
	return j.record("RemoveLike")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.EventType
}

func (p *recordingPublisher) Publish(e shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e.EventType())
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.EventType(nil), p.events...)
}

type fixture struct {
	engine  *engine.Engine
	journal *failingJournal
	events  *recordingPublisher
	deps    Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithFilms(t, nil)
}

// newFixtureWithFilms builds a fixture whose film index is wrapped by wrap.
func newFixtureWithFilms(t *testing.T, wrap func(film.Repository) film.Repository) *fixture {
	t.Helper()
	s := memory.NewStore(nil, nil)
	var films film.Repository = s.Films
	if wrap != nil {
		films = wrap(films)
	}
	e := engine.New(engine.Repositories{
		Users:     s.Users,
		Films:     films,
		Directors: s.Directors,
		Genres:    s.Genres,
		Ratings:   s.Ratings,
	})
	j := &failingJournal{failOn: map[string]bool{}}
	p := &recordingPublisher{}
	return &fixture{
		engine:  e,
		journal: j,
		events:  p,
		deps:    Deps{Engine: e, Journal: j, Publisher: p},
	}
}

func (f *fixture) user(t *testing.T, login string) shared.UserID {
	t.Helper()
	u, err := NewCreateUserHandler(f.deps).Handle(context.Background(), CreateUserCommand{
		User: user.User{Email: login + "@example.com", Login: login},
	})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) film(t *testing.T, name string, directors ...shared.DirectorID) shared.FilmID {
	t.Helper()
	cmd := CreateFilmCommand{Film: film.Film{
		Name:        name,
		ReleaseDate: shared.NewDate(2000, 1, 1),
		Duration:    90,
		MPA:         &film.Rating{ID: 1},
	}}
	for _, id := range directors {
		cmd.Film.Directors = append(cmd.Film.Directors, film.Director{ID: id})
	}
	created, err := NewCreateFilmHandler(f.deps).Handle(context.Background(), cmd)
	require.NoError(t, err)
	return created.ID
}

func (f *fixture) director(t *testing.T, name string) shared.DirectorID {
	t.Helper()
	d, err := NewCreateDirectorHandler(f.deps).Handle(context.Background(), CreateDirectorCommand{
		Director: film.Director{Name: name},
	})
	require.NoError(t, err)
	return d.ID
}

// ═══════════════════════════════════════════════════════════════════════════
// USERS
// ═══════════════════════════════════════════════════════════════════════════

func TestCreateUser_DefaultsNameToLogin(t *testing.T) {
	f := newFixture(t)

	u, err := NewCreateUserHandler(f.deps).Handle(context.Background(), CreateUserCommand{
		User: user.User{Email: "ann@example.com", Login: "ann"},
	})
	require.NoError(t, err)

	assert.Equal(t, shared.UserID(1), u.ID)
	assert.Equal(t, "ann", u.Name)
	assert.Equal(t, []shared.EventType{shared.EventUserCreated}, f.events.types())
}

func TestCreateUser_JournalFailureRevertsCreate(t *testing.T) {
	f := newFixture(t)
	f.journal.failOn["SaveUser"] = true

	_, err := NewCreateUserHandler(f.deps).Handle(context.Background(), CreateUserCommand{
		User: user.User{Email: "ann@example.com", Login: "ann"},
	})
	require.ErrorIs(t, err, errJournalDown)

	assert.Empty(t, f.engine.Users.List())
	assert.Empty(t, f.events.types())
}

func TestUpdateUser_RequiresID(t *testing.T) {
	f := newFixture(t)

	_, err := NewUpdateUserHandler(f.deps).Handle(context.Background(), UpdateUserCommand{
		User: user.User{Email: "ann@example.com", Login: "ann"},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestUpdateUser_JournalFailureRestoresPrevious(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ann")
	f.journal.failOn["SaveUser"] = true

	_, err := NewUpdateUserHandler(f.deps).Handle(context.Background(), UpdateUserCommand{
		User: user.User{ID: id, Email: "ann@example.com", Login: "annie", Name: "Annie"},
	})
	require.ErrorIs(t, err, errJournalDown)

	stored, err := f.engine.Users.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "ann", stored.Login)
}

func TestDeleteUser_CascadesFriendsAndLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "a"), f.user(t, "b"), f.user(t, "c")
	film1 := f.film(t, "first")

	require.NoError(t, NewAddFriendHandler(f.deps).Handle(ctx, AddFriendCommand{UserID: a, FriendID: b}))
	require.NoError(t, NewAddFriendHandler(f.deps).Handle(ctx, AddFriendCommand{UserID: c, FriendID: a}))
	_, err := NewAddLikeHandler(f.deps).Handle(ctx, AddLikeCommand{FilmID: film1, UserID: a})
	require.NoError(t, err)

	res, err := NewDeleteUserHandler(f.deps).Handle(ctx, DeleteUserCommand{UserID: a})
	require.NoError(t, err)

	assert.Equal(t, a, res.User.ID)
	assert.Equal(t, []shared.UserID{b, c}, res.FormerFriends)
	assert.Equal(t, []shared.FilmID{film1}, res.UnlikedFilms)
	assert.Equal(t, 0, f.engine.Likes.LikeCount(film1))

	friends, err := f.engine.Friends.FriendsOf(b)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// ids are never reused
	assert.Equal(t, shared.UserID(4), f.user(t, "d"))
}

func TestDeleteUser_JournalFailureKeepsUser(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "a"), f.user(t, "b")
	require.NoError(t, NewAddFriendHandler(f.deps).Handle(context.Background(), AddFriendCommand{UserID: a, FriendID: b}))
	f.journal.failOn["DeleteUser"] = true

	_, err := NewDeleteUserHandler(f.deps).Handle(context.Background(), DeleteUserCommand{UserID: a})
	require.ErrorIs(t, err, errJournalDown)

	_, err = f.engine.Users.Get(a)
	require.NoError(t, err)
	assert.True(t, f.engine.Friends.AreFriends(a, b))
}

func TestDeleteUser_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := NewDeleteUserHandler(f.deps).Handle(context.Background(), DeleteUserCommand{UserID: 42})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, f.journal.calls)
}

// ═══════════════════════════════════════════════════════════════════════════
// FRIENDS
// ═══════════════════════════════════════════════════════════════════════════

func TestAddFriend_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "a"), f.user(t, "b")
	h := NewAddFriendHandler(f.deps)

	assert.ErrorIs(t, h.Handle(ctx, AddFriendCommand{UserID: a, FriendID: a}), shared.ErrSelfRelation)
	assert.ErrorIs(t, h.Handle(ctx, AddFriendCommand{UserID: a, FriendID: 99}), shared.ErrNotFound)

	require.NoError(t, h.Handle(ctx, AddFriendCommand{UserID: a, FriendID: b}))
	assert.ErrorIs(t, h.Handle(ctx, AddFriendCommand{UserID: b, FriendID: a}), shared.ErrDuplicateRelation)
}

func TestAddFriend_JournalFailureUnlinks(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "a"), f.user(t, "b")
	f.journal.failOn["AddFriendship"] = true

	err := NewAddFriendHandler(f.deps).Handle(context.Background(), AddFriendCommand{UserID: a, FriendID: b})
	require.ErrorIs(t, err, errJournalDown)
	assert.False(t, f.engine.Friends.AreFriends(a, b))
}

func TestRemoveFriend_MissingEdgeIsNoop(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "a"), f.user(t, "b")
	before := len(f.journal.calls)

	removed, err := NewRemoveFriendHandler(f.deps).Handle(context.Background(), RemoveFriendCommand{UserID: a, FriendID: b})
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, f.journal.calls, before)

	_, err = NewRemoveFriendHandler(f.deps).Handle(context.Background(), RemoveFriendCommand{UserID: a, FriendID: 77})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemoveFriend_JournalFailureRelinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "a"), f.user(t, "b")
	require.NoError(t, NewAddFriendHandler(f.deps).Handle(ctx, AddFriendCommand{UserID: a, FriendID: b}))
	f.journal.failOn["RemoveFriendship"] = true

	removed, err := NewRemoveFriendHandler(f.deps).Handle(ctx, RemoveFriendCommand{UserID: b, FriendID: a})
	require.ErrorIs(t, err, errJournalDown)
	assert.False(t, removed)
	assert.True(t, f.engine.Friends.AreFriends(a, b))
}

// ═══════════════════════════════════════════════════════════════════════════
// LIKES
// ═══════════════════════════════════════════════════════════════════════════

func TestAddLike_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a")
	id := f.film(t, "film")
	h := NewAddLikeHandler(f.deps)

	added, err := h.Handle(ctx, AddLikeCommand{FilmID: id, UserID: u})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = h.Handle(ctx, AddLikeCommand{FilmID: id, UserID: u})
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, f.engine.Likes.LikeCount(id))
	likeEvents := 0
	for _, et := range f.events.types() {
		if et == shared.EventLikeAdded {
			likeEvents++
		}
	}
	assert.Equal(t, 1, likeEvents)
}

func TestAddLike_UnknownEndpoints(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a")
	id := f.film(t, "film")
	h := NewAddLikeHandler(f.deps)

	_, err := h.Handle(context.Background(), AddLikeCommand{FilmID: 99, UserID: u})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = h.Handle(context.Background(), AddLikeCommand{FilmID: id, UserID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLike_JournalFailureCompensates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a")
	id := f.film(t, "film")

	f.journal.failOn["AddLike"] = true
	_, err := NewAddLikeHandler(f.deps).Handle(ctx, AddLikeCommand{FilmID: id, UserID: u})
	require.ErrorIs(t, err, errJournalDown)
	assert.Equal(t, 0, f.engine.Likes.LikeCount(id))

	f.journal.failOn["AddLike"] = false
	_, err = NewAddLikeHandler(f.deps).Handle(ctx, AddLikeCommand{FilmID: id, UserID: u})
	require.NoError(t, err)

	f.journal.failOn["RemoveLike"] = true
	_, err = NewRemoveLikeHandler(f.deps).Handle(ctx, RemoveLikeCommand{FilmID: id, UserID: u})
	require.ErrorIs(t, err, errJournalDown)
	assert.Equal(t, 1, f.engine.Likes.LikeCount(id))
}

// ═══════════════════════════════════════════════════════════════════════════
// FILMS AND DIRECTORS
// ═══════════════════════════════════════════════════════════════════════════

func TestDeleteFilm_RemovesLikesAndFilmography(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.director(t, "Nolan")
	u := f.user(t, "a")
	id := f.film(t, "Memento", d)
	_, err := NewAddLikeHandler(f.deps).Handle(ctx, AddLikeCommand{FilmID: id, UserID: u})
	require.NoError(t, err)

	removed, err := NewDeleteFilmHandler(f.deps).Handle(ctx, DeleteFilmCommand{FilmID: id})
	require.NoError(t, err)
	assert.Equal(t, "Memento", removed.Name)

	assert.Empty(t, f.engine.Likes.LikedFilmsOf(u))
	films, err := f.engine.Filmography.FilmsOf(d)
	require.NoError(t, err)
	assert.Empty(t, films)

	_, err = NewDeleteFilmHandler(f.deps).Handle(ctx, DeleteFilmCommand{FilmID: id})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateFilm_UnknownDirector(t *testing.T) {
	f := newFixture(t)

	_, err := NewCreateFilmHandler(f.deps).Handle(context.Background(), CreateFilmCommand{Film: film.Film{
		Name:        "Ghost",
		ReleaseDate: shared.NewDate(2000, 1, 1),
		Duration:    90,
		MPA:         &film.Rating{ID: 1},
		Directors:   []film.Director{{ID: 5}},
	}})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, f.engine.Films.IDs())
}

func TestUpdateFilm_JournalFailureRestoresDirectors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d1, d2 := f.director(t, "One"), f.director(t, "Two")
	id := f.film(t, "Film", d1)
	f.journal.failOn["SaveFilm"] = true

	_, err := NewUpdateFilmHandler(f.deps).Handle(ctx, UpdateFilmCommand{Film: film.Film{
		ID:          id,
		Name:        "Film",
		ReleaseDate: shared.NewDate(2000, 1, 1),
		Duration:    90,
		MPA:         &film.Rating{ID: 1},
		Directors:   []film.Director{{ID: d2}},
	}})
	require.ErrorIs(t, err, errJournalDown)

	assert.Equal(t, []shared.DirectorID{d1}, f.engine.Filmography.DirectorsOf(id))
	stored, err := f.engine.Films.Get(id)
	require.NoError(t, err)
	assert.True(t, stored.HasDirector(d1))
}

func TestUpdateDirector_RenamesInFilms(t *testing.T) {
	f := newFixture(t)
	d := f.director(t, "Old")
	id := f.film(t, "Film", d)

	_, err := NewUpdateDirectorHandler(f.deps).Handle(context.Background(), UpdateDirectorCommand{
		Director: film.Director{ID: d, Name: "New"},
	})
	require.NoError(t, err)

	stored, err := f.engine.Films.Get(id)
	require.NoError(t, err)
	require.Len(t, stored.Directors, 1)
	assert.Equal(t, "New", stored.Directors[0].Name)
}

func TestDeleteDirector_UnlinksFilms(t *testing.T) {
	f := newFixture(t)
	d := f.director(t, "Gone")
	id := f.film(t, "Film", d)

	res, err := NewDeleteDirectorHandler(f.deps).Handle(context.Background(), DeleteDirectorCommand{DirectorID: d})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{id}, res.AffectedFilms)

	stored, err := f.engine.Films.Get(id)
	require.NoError(t, err)
	assert.Empty(t, stored.Directors)

	_, err = f.engine.Filmography.FilmsOf(d)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestHandlers_CanceledContext(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "a"), f.user(t, "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewAddFriendHandler(f.deps).Handle(ctx, AddFriendCommand{UserID: a, FriendID: b})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.engine.Friends.AreFriends(a, b))
}

// ═══════════════════════════════════════════════════════════════════════════
// CONCURRENCY
// ═══════════════════════════════════════════════════════════════════════════

const settle = 50 * time.Millisecond

// pausingFilms holds the first Update after the record is written, before
// the handler re-links directors.
type pausingFilms struct {
	film.Repository
	once    sync.Once
	paused  chan struct{}
	release chan struct{}
}

func (r *pausingFilms) Update(f *film.Film) (*film.Film, *film.Film, error) {
	updated, previous, err := r.Repository.Update(f)
	r.once.Do(func() {
		close(r.paused)
		<-r.release
	})
	return updated, previous, err
}

func TestUpdateFilm_ConcurrentUpdatesKeepRecordAndIndexInSync(t *testing.T) {
	films := &pausingFilms{paused: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWithFilms(t, func(inner film.Repository) film.Repository {
		films.Repository = inner
		return films
	})
	ctx := context.Background()
	d1, d2 := f.director(t, "One"), f.director(t, "Two")
	id := f.film(t, "Film")

	update := func(d shared.DirectorID) UpdateFilmCommand {
		return UpdateFilmCommand{Film: film.Film{
			ID:          id,
			Name:        "Film",
			ReleaseDate: shared.NewDate(2000, 1, 1),
			Duration:    90,
			MPA:         &film.Rating{ID: 1},
			Directors:   []film.Director{{ID: d}},
		}}
	}
	h := NewUpdateFilmHandler(f.deps)

	first := make(chan error, 1)
	go func() {
		_, err := h.Handle(ctx, update(d1))
		first <- err
	}()
	<-films.paused

	second := make(chan error, 1)
	go func() {
		_, err := h.Handle(ctx, update(d2))
		second <- err
	}()

	select {
	case err := <-second:
		t.Fatalf("second update finished while the first was in flight: %v", err)
	case <-time.After(settle):
	}

	close(films.release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	stored, err := f.engine.Films.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []shared.DirectorID{d2}, stored.DirectorIDs())
	assert.Equal(t, []shared.DirectorID{d2}, f.engine.Filmography.DirectorsOf(id))

	ofFirst, err := f.engine.Filmography.FilmsOf(d1)
	require.NoError(t, err)
	assert.Empty(t, ofFirst)
}

// stallingJournal blocks AddLike until released, then rejects it.
type stallingJournal struct {
	catalog.NopJournal
	entered chan struct{}
	release chan struct{}
}

func (j *stallingJournal) AddLike(context.Context, shared.FilmID, shared.UserID) error {
	close(j.entered)
	<-j.release
	return errJournalDown
}

// lastSetCache keeps whatever ranking was written last.
type lastSetCache struct {
	mu  sync.Mutex
	ids map[int][]shared.FilmID
}

func (c *lastSetCache) Get(_ context.Context, count int) ([]shared.FilmID, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.ids[count]
	return ids, 0, ok
}

func (c *lastSetCache) Set(_ context.Context, _ uint64, count int, ids []shared.FilmID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[count] = ids
	return nil
}

func TestAddLike_RejectedLikeNeverReachesRanking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "u")
	f1, f2 := f.film(t, "one"), f.film(t, "two")

	journal := &stallingJournal{entered: make(chan struct{}), release: make(chan struct{})}
	deps := f.deps
	deps.Journal = journal

	cache := &lastSetCache{ids: map[int][]shared.FilmID{}}
	rankings := query.NewRankingHandler(f.engine, query.WithPopularCache(cache))

	liked := make(chan error, 1)
	go func() {
		_, err := NewAddLikeHandler(deps).Handle(ctx, AddLikeCommand{FilmID: f2, UserID: u})
		liked <- err
	}()
	<-journal.entered

	ranked := make(chan []film.Film, 1)
	go func() {
		top, err := rankings.Popular(ctx, query.PopularFilmsQuery{Count: 2})
		assert.NoError(t, err)
		ranked <- top
	}()

	select {
	case <-ranked:
		t.Fatal("ranking computed while the like was not journaled")
	case <-time.After(settle):
	}

	close(journal.release)
	require.ErrorIs(t, <-liked, errJournalDown)

	top := <-ranked
	require.Len(t, top, 2)
	assert.Equal(t, []shared.FilmID{f1, f2}, []shared.FilmID{top[0].ID, top[1].ID})

	cached, err := rankings.Popular(ctx, query.PopularFilmsQuery{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, []shared.FilmID{f1, f2}, []shared.FilmID{cached[0].ID, cached[1].ID})
	assert.Zero(t, f.engine.Likes.LikeCount(f2))
}

// lockCheckingPublisher checks on every event that a reader can take the
// engine lock.
type lockCheckingPublisher struct {
	engine  *engine.Engine
	mu      sync.Mutex
	blocked []shared.EventType
}

func (p *lockCheckingPublisher) Publish(e shared.Event) error {
	acquired := make(chan struct{})
	go func() {
		unlock := p.engine.Shared()
		unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		p.mu.Lock()
		p.blocked = append(p.blocked, e.EventType())
		p.mu.Unlock()
	}
	return nil
}

func TestHandlers_PublishAfterReleasingEngineLock(t *testing.T) {
	f := newFixture(t)
	pub := &lockCheckingPublisher{engine: f.engine}
	f.deps.Publisher = pub
	ctx := context.Background()

	a, b := f.user(t, "a"), f.user(t, "b")
	d := f.director(t, "Dir")
	id := f.film(t, "Film", d)

	require.NoError(t, NewAddFriendHandler(f.deps).Handle(ctx, AddFriendCommand{UserID: a, FriendID: b}))
	_, err := NewAddLikeHandler(f.deps).Handle(ctx, AddLikeCommand{FilmID: id, UserID: a})
	require.NoError(t, err)
	_, err = NewDeleteDirectorHandler(f.deps).Handle(ctx, DeleteDirectorCommand{DirectorID: d})
	require.NoError(t, err)
	_, err = NewDeleteUserHandler(f.deps).Handle(ctx, DeleteUserCommand{UserID: b})
	require.NoError(t, err)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Empty(t, pub.blocked)
}
