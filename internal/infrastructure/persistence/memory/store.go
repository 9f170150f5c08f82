package memory

import (
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

var (
	_ user.Repository         = (*UserIndex)(nil)
	_ film.Repository         = (*FilmIndex)(nil)
	_ film.DirectorRepository = (*DirectorIndex)(nil)
	_ film.GenreRepository    = (*GenreIndex)(nil)
	_ film.RatingRepository   = (*RatingIndex)(nil)
)

// DefaultGenres is the genre dictionary the service starts with.
var DefaultGenres = []film.Genre{
	{ID: 1, Name: "Комедия"},
	{ID: 2, Name: "Драма"},
	{ID: 3, Name: "Мультфильм"},
	{ID: 4, Name: "Триллер"},
	{ID: 5, Name: "Документальный"},
	{ID: 6, Name: "Боевик"},
}

// DefaultRatings is the MPA rating dictionary the service starts with.
var DefaultRatings = []film.Rating{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}

// Store groups the entity tables.
type Store struct {
	Users     *UserIndex
	Films     *FilmIndex
	Directors *DirectorIndex
	Genres    *GenreIndex
	Ratings   *RatingIndex
}

// NewStore creates a store seeded with the given dictionaries. Empty
// dictionaries fall back to DefaultGenres and DefaultRatings.
func NewStore(genres []film.Genre, ratings []film.Rating) *Store {
	if len(genres) == 0 {
		genres = DefaultGenres
	}
	if len(ratings) == 0 {
		ratings = DefaultRatings
	}

	s := &Store{
		Users:     NewUserIndex(),
		Directors: NewDirectorIndex(),
		Genres:    NewGenreIndex(genres...),
		Ratings:   NewRatingIndex(ratings...),
	}
	s.Films = NewFilmIndex(s.Ratings, s.Genres, s.Directors)
	return s
}
