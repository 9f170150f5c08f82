// Package engine assembles the in-memory catalog: entity indexes, the friend
// graph, the like index, the ranker and the director filmography.
package engine

import (
	"sync"

	"github.com/VeraBsp/filmorate/internal/domain/catalog"
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/filmography"
	"github.com/VeraBsp/filmorate/internal/domain/like"
	"github.com/VeraBsp/filmorate/internal/domain/ranking"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/social"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// Repositories are the entity indexes the engine is built over.
type Repositories struct {
	Users     user.Repository
	Films     film.Repository
	Directors film.DirectorRepository
	Genres    film.GenreRepository
	Ratings   film.RatingRepository
}

// Engine wires the relation components over the entity indexes.
type Engine struct {
	Users     user.Repository
	Films     film.Repository
	Directors film.DirectorRepository
	Genres    film.GenreRepository
	Ratings   film.RatingRepository

	Friends     *social.FriendGraph
	Likes       *like.Index
	Ranker      *ranking.Ranker
	Filmography *filmography.Index

	// cascade serialises mutations together with their journal write, so a
	// reader never sees a change the journal has not accepted yet.
	cascade sync.RWMutex
}

// New builds an empty engine over repos.
func New(repos Repositories) *Engine {
	e := &Engine{
		Users:     repos.Users,
		Films:     repos.Films,
		Directors: repos.Directors,
		Genres:    repos.Genres,
		Ratings:   repos.Ratings,
	}

	e.Friends = social.NewFriendGraph(e.Users)
	e.Likes = like.NewIndex(e.Users, e.Films)
	e.Ranker = ranking.NewRanker(e.Likes, e.Films)
	e.Filmography = filmography.NewIndex(e.Directors, e.Films, e.Ranker)

	return e
}

// Shared takes the cascade lock for a read. The returned func releases it.
func (e *Engine) Shared() func() {
	e.cascade.RLock()
	return e.cascade.RUnlock
}

// Exclusive takes the cascade lock for a mutation. The returned func
// releases it.
func (e *Engine) Exclusive() func() {
	e.cascade.Lock()
	return e.cascade.Unlock
}

// Stats is a count of engine contents.
type Stats struct {
	Users       int `json:"users"`
	Films       int `json:"films"`
	Directors   int `json:"directors"`
	Friendships int `json:"friendships"`
}

// Stats returns current counts.
func (e *Engine) Stats() Stats {
	return Stats{
		Users:       len(e.Users.List()),
		Films:       len(e.Films.IDs()),
		Directors:   len(e.Directors.List()),
		Friendships: len(e.Friends.Edges()),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HYDRATION
// ══════════════════════════════════════════════════════════════════════════════

// Hydrate loads a snapshot into an empty engine. Edges that reference missing
// entities are skipped and logged. Sequences are restored last so ids deleted
// before the snapshot are never reissued.
func (e *Engine) Hydrate(snap *catalog.Snapshot, log *logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	unlock := e.Exclusive()
	defer unlock()

	for i := range snap.Users {
		e.Users.Restore(&snap.Users[i])
	}
	for i := range snap.Directors {
		e.Directors.Restore(&snap.Directors[i])
	}
	for i := range snap.Films {
		f := &snap.Films[i]
		e.Films.Restore(f)
		e.Filmography.Assign(f.ID, f.DirectorIDs())
	}

	skipped := 0
	for _, pair := range snap.Friendships {
		if pair[0] == pair[1] || !e.exists(pair[0]) || !e.exists(pair[1]) {
			skipped++
			continue
		}
		e.Friends.Link(pair[0], pair[1])
	}
	for _, edge := range snap.Likes {
		if !e.exists(edge.UserID) {
			skipped++
			continue
		}
		if _, err := e.Films.Get(edge.FilmID); err != nil {
			skipped++
			continue
		}
		e.Likes.Link(edge.UserID, edge.FilmID)
	}

	e.Users.SetSequence(snap.Sequences[catalog.KindUser])
	e.Films.SetSequence(snap.Sequences[catalog.KindFilm])
	e.Directors.SetSequence(snap.Sequences[catalog.KindDirector])

	if skipped > 0 {
		log.Warn("skipped dangling edges while hydrating", logger.Int("count", skipped))
	}
	log.Info("catalog hydrated",
		logger.Int("users", len(snap.Users)),
		logger.Int("films", len(snap.Films)),
		logger.Int("directors", len(snap.Directors)),
		logger.Int("friendships", len(snap.Friendships)),
		logger.Int("likes", len(snap.Likes)),
	)
}

func (e *Engine) exists(id shared.UserID) bool {
	_, err := e.Users.Get(id)
	return err == nil
}
