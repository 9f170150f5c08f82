package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/VeraBsp/filmorate/internal/domain/catalog"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

// Loader implements catalog.Loader for PostgreSQL.
type Loader struct {
	conn *Connection
}

var _ catalog.Loader = (*Loader)(nil)

// NewLoader creates a new Loader.
func NewLoader(conn *Connection) *Loader {
	return &Loader{conn: conn}
}

// Load reads the whole catalog in one consistent transaction.
func (l *Loader) Load(ctx context.Context) (*catalog.Snapshot, error) {
	snap := &catalog.Snapshot{Sequences: make(map[string]int64)}

	err := l.conn.WithTx(ctx, SnapshotTxOptions(), func(tx pgx.Tx) error {
		steps := []struct {
			name string
			fn   func(context.Context, pgx.Tx, *catalog.Snapshot) error
		}{
			{"users", loadUsers},
			{"directors", loadDirectors},
			{"films", loadFilms},
			{"friends", loadFriendships},
			{"likes", loadLikes},
			{"sequences", loadSequences},
		}
		for _, step := range steps {
			if err := step.fn(ctx, tx, snap); err != nil {
				return fmt.Errorf("failed to load %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return snap, nil
}

func loadUsers(ctx context.Context, tx pgx.Tx, snap *catalog.Snapshot) error {
	rows, err := tx.Query(ctx, `
		SELECT user_id, email, login, name, birthday
		FROM users
		ORDER BY user_id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			u        user.User
			id       int64
			birthday *time.Time
		)
		if err := rows.Scan(&id, &u.Email, &u.Login, &u.Name, &birthday); err != nil {
			return err
		}
		u.ID = shared.UserID(id)
		if birthday != nil {
			u.Birthday = shared.DateOf(*birthday)
		}
		snap.Users = append(snap.Users, u)
	}
	return rows.Err()
}

func loadDirectors(ctx context.Context, tx pgx.Tx, snap *catalog.Snapshot) error {
	rows, err := tx.Query(ctx, `
		SELECT director_id, director_name
		FROM directors
		ORDER BY director_id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d  film.Director
			id int64
		)
		if err := rows.Scan(&id, &d.Name); err != nil {
			return err
		}
		d.ID = shared.DirectorID(id)
		snap.Directors = append(snap.Directors, d)
	}
	return rows.Err()
}

func loadFilms(ctx context.Context, tx pgx.Tx, snap *catalog.Snapshot) error {
	rows, err := tx.Query(ctx, `
		SELECT f.film_id, f.film_name, f.description, f.release_date, f.duration,
		       r.rating_id, r.rating_title
		FROM films f
		JOIN rating r ON r.rating_id = f.rating_id
		ORDER BY f.film_id
	`)
	if err != nil {
		return err
	}

	var films []film.Film
	index := make(map[int64]int)
	for rows.Next() {
		var (
			f        film.Film
			id       int64
			released time.Time
			ratingID int64
			rating   string
		)
		if err := rows.Scan(&id, &f.Name, &f.Description, &released, &f.Duration, &ratingID, &rating); err != nil {
			rows.Close()
			return err
		}
		f.ID = shared.FilmID(id)
		f.ReleaseDate = shared.DateOf(released)
		f.MPA = &film.Rating{ID: shared.RatingID(ratingID), Name: rating}
		f.Genres = []film.Genre{}
		f.Directors = []film.Director{}
		index[id] = len(films)
		films = append(films, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	genres, err := tx.Query(ctx, `
		SELECT fg.film_id, g.genre_id, g.genre_title
		FROM film_genre fg
		JOIN genres g ON g.genre_id = fg.genre_id
		ORDER BY fg.film_id, g.genre_id
	`)
	if err != nil {
		return err
	}
	for genres.Next() {
		var (
			filmID, genreID int64
			title           string
		)
		if err := genres.Scan(&filmID, &genreID, &title); err != nil {
			genres.Close()
			return err
		}
		if i, ok := index[filmID]; ok {
			films[i].Genres = append(films[i].Genres, film.Genre{ID: shared.GenreID(genreID), Name: title})
		}
	}
	genres.Close()
	if err := genres.Err(); err != nil {
		return err
	}

	directors, err := tx.Query(ctx, `
		SELECT fd.film_id, d.director_id, d.director_name
		FROM film_director fd
		JOIN directors d ON d.director_id = fd.director_id
		ORDER BY fd.film_id, d.director_id
	`)
	if err != nil {
		return err
	}
	defer directors.Close()
	for directors.Next() {
		var (
			filmID, directorID int64
			name               string
		)
		if err := directors.Scan(&filmID, &directorID, &name); err != nil {
			return err
		}
		if i, ok := index[filmID]; ok {
			films[i].Directors = append(films[i].Directors, film.Director{ID: shared.DirectorID(directorID), Name: name})
		}
	}
	if err := directors.Err(); err != nil {
		return err
	}

	snap.Films = films
	return nil
}

func loadFriendships(ctx context.Context, tx pgx.Tx, snap *catalog.Snapshot) error {
	rows, err := tx.Query(ctx, `SELECT user_id, friend_id FROM friends ORDER BY user_id, friend_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a, b int64
		if err := rows.Scan(&a, &b); err != nil {
			return err
		}
		snap.Friendships = append(snap.Friendships, [2]shared.UserID{shared.UserID(a), shared.UserID(b)})
	}
	return rows.Err()
}

func loadLikes(ctx context.Context, tx pgx.Tx, snap *catalog.Snapshot) error {
	rows, err := tx.Query(ctx, `SELECT film_id, user_id FROM film_like ORDER BY film_id, user_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var filmID, userID int64
		if err := rows.Scan(&filmID, &userID); err != nil {
			return err
		}
		snap.Likes = append(snap.Likes, catalog.LikeEdge{
			UserID: shared.UserID(userID),
			FilmID: shared.FilmID(filmID),
		})
	}
	return rows.Err()
}

func loadSequences(ctx context.Context, tx pgx.Tx, snap *catalog.Snapshot) error {
	rows, err := tx.Query(ctx, `SELECT kind, last_id FROM entity_sequences`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind string
			last int64
		)
		if err := rows.Scan(&kind, &last); err != nil {
			return err
		}
		snap.Sequences[kind] = last
	}
	return rows.Err()
}
