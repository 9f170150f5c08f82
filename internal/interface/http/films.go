package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/VeraBsp/filmorate/internal/application/command"
	"github.com/VeraBsp/filmorate/internal/application/query"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// FILM HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListFilms handles GET /films
func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.deps.Queries.Catalog.Films(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}

// handleGetFilm handles GET /films/{id}
func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.FilmID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.deps.Queries.Catalog.Film(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// handleCreateFilm handles POST /films
func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	var f film.Film
	if err := decodeJSON(r, &f); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.deps.Commands.CreateFilm.Handle(r.Context(), command.CreateFilmCommand{Film: f})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logger.FromContextOr(r.Context(), s.logger).Info("film created", logger.FilmID(int64(created.ID)))
	writeJSON(w, http.StatusOK, created)
}

// handleUpdateFilm handles PUT /films
func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	var f film.Film
	if err := decodeJSON(r, &f); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.deps.Commands.UpdateFilm.Handle(r.Context(), command.UpdateFilmCommand{Film: f})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteFilm handles DELETE /films/{id}
func (s *Server) handleDeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.FilmID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.deps.Commands.DeleteFilm.Handle(r.Context(), command.DeleteFilmCommand{FilmID: id}); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func likePair(r *http.Request) (shared.FilmID, shared.UserID, error) {
	filmID, err := pathID[shared.FilmID](r, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := pathID[shared.UserID](r, "userId")
	if err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}

// handleAddLike handles PUT /films/{id}/like/{userId} and returns the film.
func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := likePair(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.deps.Commands.AddLike.Handle(r.Context(), command.AddLikeCommand{FilmID: filmID, UserID: userID}); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.deps.Queries.Catalog.Film(r.Context(), filmID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// handleRemoveLike handles DELETE /films/{id}/like/{userId}
func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := likePair(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.deps.Commands.RemoveLike.Handle(r.Context(), command.RemoveLikeCommand{FilmID: filmID, UserID: userID}); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handlePopularFilms handles GET /films/popular?count=
// A missing count uses the configured default; count must be positive.
func (s *Server) handlePopularFilms(w http.ResponseWriter, r *http.Request) {
	q := query.PopularFilmsQuery{Count: s.config.PopularDefaultCount}
	if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, shared.NewDomainError("film", "Popular", shared.ErrInvalidInput, "count must be a positive integer"))
			return
		}
		q.Count = n
	}

	films, err := s.deps.Queries.Rankings.Popular(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}

// handleCommonFilms handles GET /films/common?userId=&friendId=
func (s *Server) handleCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID[shared.UserID](r, "userId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	friendID, err := queryID[shared.UserID](r, "friendId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	films, err := s.deps.Queries.Rankings.CommonFilms(r.Context(), query.CommonFilmsQuery{UserID: userID, FriendID: friendID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}

// handleDirectorFilms handles GET /films/director/{directorId}?sortBy=likes|year
func (s *Server) handleDirectorFilms(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.DirectorID](r, "directorId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	films, err := s.deps.Queries.Rankings.DirectorFilms(r.Context(), query.DirectorFilmsQuery{
		DirectorID: id,
		SortBy:     r.URL.Query().Get("sortBy"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}
