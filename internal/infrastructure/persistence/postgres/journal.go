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
	"github.com/VeraBsp/filmorate/internal/infrastructure/metrics"
	"github.com/VeraBsp/filmorate/pkg/retry"
)

// Journal implements catalog.Journal for PostgreSQL.
// Every write is an upsert or a conditional delete, so replaying it is safe.
type Journal struct {
	conn    *Connection
	timeout time.Duration
}

var _ catalog.Journal = (*Journal)(nil)

// NewJournal creates a new Journal. A zero timeout means no per-write deadline.
func NewJournal(conn *Connection, timeout time.Duration) *Journal {
	return &Journal{conn: conn, timeout: timeout}
}

// write runs fn in a transaction under the per-write deadline and records the
// outcome. Serialization failures and deadlocks are retried.
func (j *Journal) write(ctx context.Context, op string, fn func(pgx.Tx) error) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	err := retry.Journal().Do(ctx, func(ctx context.Context) error {
		err := j.conn.WithTx(ctx, DefaultTxOptions(), fn)
		if isSerializationFailure(err) {
			return retry.Transient(err)
		}
		return err
	})
	metrics.RecordJournalWrite(op, err)
	if err != nil {
		return fmt.Errorf("journal %s: %w", op, err)
	}
	return nil
}

// advanceSequence moves the stored counter for kind forward to id.
func advanceSequence(ctx context.Context, q Querier, kind string, id int64) error {
	_, err := q.Exec(ctx, `
		INSERT INTO entity_sequences (kind, last_id)
		VALUES ($1, $2)
		ON CONFLICT (kind) DO UPDATE
		SET last_id = GREATEST(entity_sequences.last_id, EXCLUDED.last_id)
	`, kind, id)
	if err != nil {
		return fmt.Errorf("failed to advance %s sequence: %w", kind, err)
	}
	return nil
}

// orderedPair returns the pair with the smaller id first.
func orderedPair(a, b shared.UserID) (shared.UserID, shared.UserID) {
	if a > b {
		return b, a
	}
	return a, b
}

// ─────────────────────────────────────────────────────────────────────────────
// USERS
// ─────────────────────────────────────────────────────────────────────────────

// SaveUser inserts or replaces a user row. A row of another user holding the
// same email fails with shared.ErrEmailTaken.
func (j *Journal) SaveUser(ctx context.Context, u *user.User) error {
	return j.write(ctx, "save_user", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (user_id, email, login, name, birthday)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE
			SET email = EXCLUDED.email,
			    login = EXCLUDED.login,
			    name = EXCLUDED.name,
			    birthday = EXCLUDED.birthday
		`,
			int64(u.ID),
			u.Email,
			u.Login,
			u.Name,
			nullableDate(u.Birthday),
		)
		if isUniqueViolation(err, constraintUserEmail) {
			return fmt.Errorf("%w: %v", shared.ErrEmailTaken, err)
		}
		if err != nil {
			return fmt.Errorf("failed to upsert user: %w", err)
		}
		return advanceSequence(ctx, tx, catalog.KindUser, int64(u.ID))
	})
}

// DeleteUser removes a user row. Friend and like rows go with it.
func (j *Journal) DeleteUser(ctx context.Context, id shared.UserID) error {
	return j.write(ctx, "delete_user", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, int64(id))
		return err
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// FILMS
// ─────────────────────────────────────────────────────────────────────────────

// SaveFilm inserts or replaces a film row together with its genre and
// director links.
func (j *Journal) SaveFilm(ctx context.Context, f *film.Film) error {
	return j.write(ctx, "save_film", func(tx pgx.Tx) error {
		var ratingID int64
		if f.MPA != nil {
			ratingID = int64(f.MPA.ID)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO films (film_id, film_name, description, release_date, duration, rating_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (film_id) DO UPDATE
			SET film_name = EXCLUDED.film_name,
			    description = EXCLUDED.description,
			    release_date = EXCLUDED.release_date,
			    duration = EXCLUDED.duration,
			    rating_id = EXCLUDED.rating_id
		`,
			int64(f.ID),
			f.Name,
			f.Description,
			f.ReleaseDate.Time,
			f.Duration,
			ratingID,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert film: %w", err)
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM film_genre WHERE film_id = $1`, int64(f.ID))
		batch.Queue(`DELETE FROM film_director WHERE film_id = $1`, int64(f.ID))
		for _, g := range f.Genres {
			batch.Queue(`INSERT INTO film_genre (film_id, genre_id) VALUES ($1, $2)`, int64(f.ID), int64(g.ID))
		}
		for _, d := range f.Directors {
			batch.Queue(`INSERT INTO film_director (film_id, director_id) VALUES ($1, $2)`, int64(f.ID), int64(d.ID))
		}

		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to write film links: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to write film links: %w", err)
		}

		return advanceSequence(ctx, tx, catalog.KindFilm, int64(f.ID))
	})
}

// DeleteFilm removes a film row. Like, genre and director links go with it.
func (j *Journal) DeleteFilm(ctx context.Context, id shared.FilmID) error {
	return j.write(ctx, "delete_film", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM films WHERE film_id = $1`, int64(id))
		return err
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// DIRECTORS
// ─────────────────────────────────────────────────────────────────────────────

// SaveDirector inserts or replaces a director row.
func (j *Journal) SaveDirector(ctx context.Context, d *film.Director) error {
	return j.write(ctx, "save_director", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO directors (director_id, director_name)
			VALUES ($1, $2)
			ON CONFLICT (director_id) DO UPDATE
			SET director_name = EXCLUDED.director_name
		`, int64(d.ID), d.Name)
		if err != nil {
			return fmt.Errorf("failed to upsert director: %w", err)
		}
		return advanceSequence(ctx, tx, catalog.KindDirector, int64(d.ID))
	})
}

// DeleteDirector removes a director row and its film links.
func (j *Journal) DeleteDirector(ctx context.Context, id shared.DirectorID) error {
	return j.write(ctx, "delete_director", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM directors WHERE director_id = $1`, int64(id))
		return err
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// RELATIONS
// ─────────────────────────────────────────────────────────────────────────────

// AddFriendship stores the pair once, smaller id first.
func (j *Journal) AddFriendship(ctx context.Context, a, b shared.UserID) error {
	lo, hi := orderedPair(a, b)
	return j.write(ctx, "add_friendship", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO friends (user_id, friend_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, friend_id) DO NOTHING
		`, int64(lo), int64(hi))
		return err
	})
}

// RemoveFriendship deletes the pair if present.
func (j *Journal) RemoveFriendship(ctx context.Context, a, b shared.UserID) error {
	lo, hi := orderedPair(a, b)
	return j.write(ctx, "remove_friendship", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`, int64(lo), int64(hi))
		return err
	})
}

// AddLike stores a like edge.
func (j *Journal) AddLike(ctx context.Context, filmID shared.FilmID, userID shared.UserID) error {
	return j.write(ctx, "add_like", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO film_like (film_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (film_id, user_id) DO NOTHING
		`, int64(filmID), int64(userID))
		return err
	})
}

// RemoveLike deletes a like edge if present.
func (j *Journal) RemoveLike(ctx context.Context, filmID shared.FilmID, userID shared.UserID) error {
	return j.write(ctx, "remove_like", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM film_like WHERE film_id = $1 AND user_id = $2`, int64(filmID), int64(userID))
		return err
	})
}

func nullableDate(d shared.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
