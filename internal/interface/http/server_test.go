package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeraBsp/filmorate/internal/application/command"
	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/application/query"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/memory"
	"github.com/VeraBsp/filmorate/internal/interface/http/handlers"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// FIXTURES
// ═══════════════════════════════════════════════════════════════════════════

func newTestServer(t *testing.T, health handlers.HealthChecker, opts ...func(*Config)) *httptest.Server {
	t.Helper()
	s := memory.NewStore(nil, nil)
	e := engine.New(engine.Repositories{
		Users:     s.Users,
		Films:     s.Films,
		Directors: s.Directors,
		Genres:    s.Genres,
		Ratings:   s.Ratings,
	})

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	cfg.EnableMetrics = false
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := NewServer(cfg, Dependencies{
		Commands:      command.NewHandlers(command.Deps{Engine: e}),
		Queries:       query.NewHandlers(e),
		HealthChecker: health,
		Logger:        logger.Nop(),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func createUser(t *testing.T, ts *httptest.Server, login string) user.User {
	t.Helper()
	status, raw := do(t, ts, http.MethodPost, "/users",
		`{"email":"`+login+`@example.com","login":"`+login+`","birthday":"1990-05-01"}`)
	require.Equal(t, http.StatusOK, status, string(raw))
	return decode[user.User](t, raw)
}

func createFilm(t *testing.T, ts *httptest.Server, name, date string, extra string) film.Film {
	t.Helper()
	body := `{"name":"` + name + `","description":"d","releaseDate":"` + date + `","duration":100,"mpa":{"id":1}` + extra + `}`
	status, raw := do(t, ts, http.MethodPost, "/films", body)
	require.Equal(t, http.StatusOK, status, string(raw))
	return decode[film.Film](t, raw)
}

// ═══════════════════════════════════════════════════════════════════════════
// USERS & FRIENDS
// ═══════════════════════════════════════════════════════════════════════════

func TestUsers_CreateGetUpdate(t *testing.T) {
	ts := newTestServer(t, nil)

	u := createUser(t, ts, "ann")
	assert.EqualValues(t, 1, u.ID)
	assert.Equal(t, "ann", u.Name)

	status, raw := do(t, ts, http.MethodPut, "/users",
		`{"id":1,"email":"ann@example.com","login":"ann","name":"Anna"}`)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Anna", decode[user.User](t, raw).Name)

	status, raw = do(t, ts, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Anna", decode[user.User](t, raw).Name)

	status, raw = do(t, ts, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]user.User](t, raw), 1)
}

func TestUsers_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	createUser(t, ts, "ann")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown user", http.MethodGet, "/users/42", "", http.StatusNotFound, codeNotFound},
		{"bad id", http.MethodGet, "/users/abc", "", http.StatusBadRequest, codeValidation},
		{"invalid login", http.MethodPost, "/users", `{"email":"b@example.com","login":"b b"}`, http.StatusBadRequest, codeValidation},
		{"invalid email", http.MethodPost, "/users", `{"email":"nope","login":"b"}`, http.StatusBadRequest, codeValidation},
		{"duplicate email", http.MethodPost, "/users", `{"email":"ANN@example.com","login":"b"}`, http.StatusConflict, codeConflict},
		{"malformed body", http.MethodPost, "/users", `{"email":`, http.StatusBadRequest, codeValidation},
		{"update unknown", http.MethodPut, "/users", `{"id":9,"email":"z@example.com","login":"z"}`, http.StatusNotFound, codeNotFound},
		{"self friendship", http.MethodPut, "/users/1/friends/1", "", http.StatusBadRequest, codeValidation},
		{"unknown friend", http.MethodPut, "/users/1/friends/5", "", http.StatusNotFound, codeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := do(t, ts, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status, string(raw))

			resp := decode[JSONResponse](t, raw)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestFriends_Flow(t *testing.T) {
	ts := newTestServer(t, nil)
	createUser(t, ts, "a")
	createUser(t, ts, "b")
	createUser(t, ts, "c")

	for _, path := range []string{"/users/1/friends/2", "/users/3/friends/2"} {
		status, raw := do(t, ts, http.MethodPut, path, "")
		require.Equal(t, http.StatusOK, status, string(raw))
	}

	status, _ := do(t, ts, http.MethodPut, "/users/2/friends/1", "")
	assert.Equal(t, http.StatusConflict, status)

	status, raw := do(t, ts, http.MethodGet, "/users/2/friends", "")
	require.Equal(t, http.StatusOK, status)
	friends := decode[[]user.User](t, raw)
	require.Len(t, friends, 2)
	assert.EqualValues(t, 1, friends[0].ID)
	assert.EqualValues(t, 3, friends[1].ID)

	status, raw = do(t, ts, http.MethodGet, "/users/1/friends/common/3", "")
	require.Equal(t, http.StatusOK, status)
	common := decode[[]user.User](t, raw)
	require.Len(t, common, 1)
	assert.EqualValues(t, 2, common[0].ID)

	status, _ = do(t, ts, http.MethodDelete, "/users/1/friends/2", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, ts, http.MethodDelete, "/users/1/friends/2", "")
	assert.Equal(t, http.StatusOK, status, "removing a missing friendship is a no-op")

	status, raw = do(t, ts, http.MethodGet, "/users/1/friends", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]user.User](t, raw))
}

// ═══════════════════════════════════════════════════════════════════════════
// FILMS, LIKES & RANKINGS
// ═══════════════════════════════════════════════════════════════════════════

func TestFilms_CreateResolvesReferences(t *testing.T) {
	ts := newTestServer(t, nil)

	f := createFilm(t, ts, "Matrix", "1999-03-31", `,"genres":[{"id":6},{"id":4},{"id":6}]`)
	require.NotNil(t, f.MPA)
	assert.Equal(t, "G", f.MPA.Name)
	require.Len(t, f.Genres, 2)
	assert.Equal(t, "Триллер", f.Genres[0].Name)
	assert.Equal(t, "Боевик", f.Genres[1].Name)

	status, raw := do(t, ts, http.MethodPost, "/films",
		`{"name":"Old","releaseDate":"1895-12-27","duration":10,"mpa":{"id":1}}`)
	assert.Equal(t, http.StatusBadRequest, status, string(raw))

	status, raw = do(t, ts, http.MethodPost, "/films",
		`{"name":"Bad","releaseDate":"2000-01-01","duration":10,"mpa":{"id":99}}`)
	assert.Equal(t, http.StatusNotFound, status, string(raw))
}

func TestPopular_CountHandling(t *testing.T) {
	ts := newTestServer(t, nil)
	createUser(t, ts, "a")
	createUser(t, ts, "b")
	createFilm(t, ts, "one", "2001-01-01", "")
	createFilm(t, ts, "two", "2002-01-01", "")
	createFilm(t, ts, "three", "2003-01-01", "")

	for _, path := range []string{"/films/3/like/1", "/films/3/like/2", "/films/2/like/1"} {
		status, raw := do(t, ts, http.MethodPut, path, "")
		require.Equal(t, http.StatusOK, status, string(raw))
	}

	status, raw := do(t, ts, http.MethodGet, "/films/popular?count=2", "")
	require.Equal(t, http.StatusOK, status)
	top := decode[[]film.Film](t, raw)
	require.Len(t, top, 2)
	assert.EqualValues(t, 3, top[0].ID)
	assert.EqualValues(t, 2, top[1].ID)

	status, raw = do(t, ts, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]film.Film](t, raw), 3)

	for _, bad := range []string{"0", "-1", "ten"} {
		status, _ = do(t, ts, http.MethodGet, "/films/popular?count="+bad, "")
		assert.Equal(t, http.StatusBadRequest, status, bad)
	}
}

func TestPopular_ConfiguredDefaultCount(t *testing.T) {
	ts := newTestServer(t, nil, func(c *Config) { c.PopularDefaultCount = 2 })
	for _, name := range []string{"one", "two", "three"} {
		createFilm(t, ts, name, "2001-01-01", "")
	}

	status, raw := do(t, ts, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]film.Film](t, raw), 2)
}

func TestLikes_AndCommonFilms(t *testing.T) {
	ts := newTestServer(t, nil)
	createUser(t, ts, "a")
	createUser(t, ts, "b")
	createFilm(t, ts, "one", "2001-01-01", "")
	createFilm(t, ts, "two", "2002-01-01", "")

	status, raw := do(t, ts, http.MethodPut, "/films/1/like/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[film.Film](t, raw).ID)

	for _, path := range []string{"/films/1/like/1", "/films/1/like/2", "/films/2/like/1"} {
		status, _ = do(t, ts, http.MethodPut, path, "")
		require.Equal(t, http.StatusOK, status)
	}

	status, raw = do(t, ts, http.MethodGet, "/films/common?userId=1&friendId=2", "")
	require.Equal(t, http.StatusOK, status)
	common := decode[[]film.Film](t, raw)
	require.Len(t, common, 1)
	assert.EqualValues(t, 1, common[0].ID)

	status, _ = do(t, ts, http.MethodGet, "/films/common?userId=1", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPut, "/films/9/like/1", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, ts, http.MethodDelete, "/films/1/like/2", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestDirectorFilms_Sorting(t *testing.T) {
	ts := newTestServer(t, nil)
	createUser(t, ts, "a")

	status, raw := do(t, ts, http.MethodPost, "/directors", `{"name":"Nolan"}`)
	require.Equal(t, http.StatusOK, status, string(raw))

	createFilm(t, ts, "Memento", "2000-09-05", `,"directors":[{"id":1}]`)
	createFilm(t, ts, "Tenet", "2020-08-26", `,"directors":[{"id":1}]`)
	status, _ = do(t, ts, http.MethodPut, "/films/1/like/1", "")
	require.Equal(t, http.StatusOK, status)

	status, raw = do(t, ts, http.MethodGet, "/films/director/1?sortBy=year", "")
	require.Equal(t, http.StatusOK, status)
	byYear := decode[[]film.Film](t, raw)
	require.Len(t, byYear, 2)
	assert.Equal(t, "Tenet", byYear[0].Name)

	status, raw = do(t, ts, http.MethodGet, "/films/director/1?sortBy=likes", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Memento", decode[[]film.Film](t, raw)[0].Name)

	status, _ = do(t, ts, http.MethodGet, "/films/director/1?sortBy=title", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodGet, "/films/director/7", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, ts, http.MethodDelete, "/directors/1", "")
	require.Equal(t, http.StatusOK, status)

	status, raw = do(t, ts, http.MethodGet, "/films/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[film.Film](t, raw).Directors)
}

func TestDictionaries(t *testing.T) {
	ts := newTestServer(t, nil)

	status, raw := do(t, ts, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]film.Genre](t, raw), len(memory.DefaultGenres))

	status, raw = do(t, ts, http.MethodGet, "/mpa/5", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "NC-17", decode[film.Rating](t, raw).Name)

	status, _ = do(t, ts, http.MethodGet, "/mpa/6", "")
	assert.Equal(t, http.StatusNotFound, status)
}

// ═══════════════════════════════════════════════════════════════════════════
// HEALTH & MIDDLEWARE
// ═══════════════════════════════════════════════════════════════════════════

func TestHealth(t *testing.T) {
	checker := handlers.NewCompositeHealthChecker("test")
	checker.AddCheck("postgres", func(context.Context) error { return nil })
	ts := newTestServer(t, checker)

	status, raw := do(t, ts, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[handlers.HealthStatus](t, raw).Healthy)

	checker.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })
	status, raw = do(t, ts, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, status)
	hs := decode[handlers.HealthStatus](t, raw)
	assert.False(t, hs.Healthy)
	assert.Contains(t, hs.Message, "redis")
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/live", nil)
	require.NoError(t, err)
	req.Header.Set(headerRequestID, "req-123")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(headerRequestID))

	resp2, err := ts.Client().Get(ts.URL + "/live")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(headerRequestID))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	status, raw := do(t, ts, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, codeNotFound, decode[JSONResponse](t, raw).Error.Code)
}
