package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: REFERENCE DATA
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create genre and MPA rating dictionaries
-- Version: 001

CREATE TABLE IF NOT EXISTS genres (
    genre_id BIGINT PRIMARY KEY,
    genre_title VARCHAR(50) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS rating (
    rating_id BIGINT PRIMARY KEY,
    rating_title VARCHAR(10) NOT NULL UNIQUE
);

INSERT INTO genres (genre_id, genre_title) VALUES
    (1, 'Комедия'),
    (2, 'Драма'),
    (3, 'Мультфильм'),
    (4, 'Триллер'),
    (5, 'Документальный'),
    (6, 'Боевик')
ON CONFLICT (genre_id) DO NOTHING;

INSERT INTO rating (rating_id, rating_title) VALUES
    (1, 'G'),
    (2, 'PG'),
    (3, 'PG-13'),
    (4, 'R'),
    (5, 'NC-17')
ON CONFLICT (rating_id) DO NOTHING;
`

const migration001Down = `
DROP TABLE IF EXISTS rating;
DROP TABLE IF EXISTS genres;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CATALOG
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create users, films and directors
-- Version: 002
-- Ids are assigned by the service, not by the database.

CREATE TABLE IF NOT EXISTS users (
    user_id BIGINT PRIMARY KEY,
    email VARCHAR(255) NOT NULL,
    login VARCHAR(100) NOT NULL,
    name VARCHAR(255) NOT NULL,
    birthday DATE,

    CONSTRAINT valid_login CHECK (login !~ '\s')
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS directors (
    director_id BIGINT PRIMARY KEY,
    director_name VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS films (
    film_id BIGINT PRIMARY KEY,
    film_name VARCHAR(255) NOT NULL,
    description VARCHAR(200) NOT NULL DEFAULT '',
    release_date DATE NOT NULL,
    duration INTEGER NOT NULL,
    rating_id BIGINT NOT NULL REFERENCES rating(rating_id),

    CONSTRAINT valid_duration CHECK (duration > 0),
    CONSTRAINT valid_release_date CHECK (release_date >= DATE '1895-12-28')
);

CREATE TABLE IF NOT EXISTS film_genre (
    film_id BIGINT NOT NULL REFERENCES films(film_id) ON DELETE CASCADE,
    genre_id BIGINT NOT NULL REFERENCES genres(genre_id),
    PRIMARY KEY (film_id, genre_id)
);

CREATE TABLE IF NOT EXISTS film_director (
    film_id BIGINT NOT NULL REFERENCES films(film_id) ON DELETE CASCADE,
    director_id BIGINT NOT NULL REFERENCES directors(director_id) ON DELETE CASCADE,
    PRIMARY KEY (film_id, director_id)
);

CREATE INDEX IF NOT EXISTS idx_film_director_director ON film_director(director_id);
`

const migration002Down = `
DROP TABLE IF EXISTS film_director;
DROP TABLE IF EXISTS film_genre;
DROP TABLE IF EXISTS films;
DROP TABLE IF EXISTS directors;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: RELATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create friendship and like edges
-- Version: 003
-- Friendship is symmetric: one row per pair, smaller id first.

CREATE TABLE IF NOT EXISTS friends (
    user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    friend_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (user_id, friend_id),
    CONSTRAINT ordered_pair CHECK (user_id < friend_id)
);

CREATE INDEX IF NOT EXISTS idx_friends_friend ON friends(friend_id);

CREATE TABLE IF NOT EXISTS film_like (
    film_id BIGINT NOT NULL REFERENCES films(film_id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (film_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_film_like_user ON film_like(user_id);
`

const migration003Down = `
DROP TABLE IF EXISTS film_like;
DROP TABLE IF EXISTS friends;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: SEQUENCES
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Track the last id issued per entity kind
-- Version: 004
-- Deleted ids are never reissued, so the counter cannot be derived from MAX(id).

CREATE TABLE IF NOT EXISTS entity_sequences (
    kind VARCHAR(20) PRIMARY KEY,
    last_id BIGINT NOT NULL DEFAULT 0
);

INSERT INTO entity_sequences (kind, last_id)
SELECT 'user', COALESCE(MAX(user_id), 0) FROM users
ON CONFLICT (kind) DO NOTHING;

INSERT INTO entity_sequences (kind, last_id)
SELECT 'film', COALESCE(MAX(film_id), 0) FROM films
ON CONFLICT (kind) DO NOTHING;

INSERT INTO entity_sequences (kind, last_id)
SELECT 'director', COALESCE(MAX(director_id), 0) FROM directors
ON CONFLICT (kind) DO NOTHING;
`

const migration004Down = `
DROP TABLE IF EXISTS entity_sequences;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_reference_data",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_catalog",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_relations",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_entity_sequences",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
	}
}
