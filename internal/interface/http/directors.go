package http

import (
	"net/http"

	"github.com/VeraBsp/filmorate/internal/application/command"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListDirectors handles GET /directors
func (s *Server) handleListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := s.deps.Queries.Catalog.Directors(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, directors)
}

// handleGetDirector handles GET /directors/{id}
func (s *Server) handleGetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.DirectorID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.deps.Queries.Catalog.Director(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleCreateDirector handles POST /directors
func (s *Server) handleCreateDirector(w http.ResponseWriter, r *http.Request) {
	var d film.Director
	if err := decodeJSON(r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.deps.Commands.CreateDirector.Handle(r.Context(), command.CreateDirectorCommand{Director: d})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// handleUpdateDirector handles PUT /directors
func (s *Server) handleUpdateDirector(w http.ResponseWriter, r *http.Request) {
	var d film.Director
	if err := decodeJSON(r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.deps.Commands.UpdateDirector.Handle(r.Context(), command.UpdateDirectorCommand{Director: d})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteDirector handles DELETE /directors/{id}
func (s *Server) handleDeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.DirectorID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Commands.DeleteDirector.Handle(r.Context(), command.DeleteDirectorCommand{DirectorID: id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logger.FromContextOr(r.Context(), s.logger).Info("director deleted",
		logger.DirectorID(int64(id)),
		logger.Int("affected_films", len(res.AffectedFilms)),
	)
	w.WriteHeader(http.StatusOK)
}

// ══════════════════════════════════════════════════════════════════════════════
// DICTIONARY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListGenres handles GET /genres
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.deps.Queries.Catalog.Genres(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

// handleGetGenre handles GET /genres/{id}
func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.GenreID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.deps.Queries.Catalog.Genre(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleListRatings handles GET /mpa
func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.deps.Queries.Catalog.Ratings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

// handleGetRating handles GET /mpa/{id}
func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.RatingID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rating, err := s.deps.Queries.Catalog.Rating(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}
