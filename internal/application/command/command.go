// Package command contains write operations (CQRS - Commands).
//
// Every mutation is applied to the in-memory engine first, then written to the
// journal. If the journal write fails the in-memory change is undone and the
// error is returned. Deletions run the other way round: they are journaled
// first and applied only after the journal accepted them. Both steps run under
// the exclusive engine lock, so queries never see a change the journal may
// still reject. Domain events are published after the lock is released.
package command

import (
	"context"
	"fmt"

	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/domain/catalog"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// Deps are the collaborators shared by all command handlers.
type Deps struct {
	Engine    *engine.Engine
	Journal   catalog.Journal
	Publisher shared.EventPublisher
	Logger    *logger.Logger
}

// base is embedded by every handler.
type base struct {
	engine    *engine.Engine
	journal   catalog.Journal
	publisher shared.EventPublisher
	log       *logger.Logger
}

func newBase(d Deps) base {
	b := base{
		engine:    d.Engine,
		journal:   d.Journal,
		publisher: d.Publisher,
		log:       d.Logger,
	}
	if b.journal == nil {
		b.journal = catalog.NopJournal{}
	}
	if b.log == nil {
		b.log = logger.Nop()
	}
	return b
}

// begin checks that the request is still wanted before anything is mutated.
func begin(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// publish sends the event. Publishing failures are logged; the mutation stands.
func (b base) publish(ctx context.Context, event shared.Event) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(event); err != nil {
		logger.FromContextOr(ctx, b.log).Warn("failed to publish event",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
	}
}

// compensate runs undo after a failed journal write and returns the journal error.
func (b base) compensate(ctx context.Context, op string, journalErr error, undo func() error) error {
	log := logger.FromContextOr(ctx, b.log).With(logger.Operation(op))
	log.Error("journal write failed, reverting in-memory change", logger.Err(journalErr))

	if undo != nil {
		if err := undo(); err != nil {
			log.Error("failed to revert in-memory change", logger.Err(err))
		}
	}
	return fmt.Errorf("%s: %w", op, journalErr)
}

// Handlers bundles every command handler over one set of dependencies.
type Handlers struct {
	CreateUser     *CreateUserHandler
	UpdateUser     *UpdateUserHandler
	DeleteUser     *DeleteUserHandler
	CreateFilm     *CreateFilmHandler
	UpdateFilm     *UpdateFilmHandler
	DeleteFilm     *DeleteFilmHandler
	CreateDirector *CreateDirectorHandler
	UpdateDirector *UpdateDirectorHandler
	DeleteDirector *DeleteDirectorHandler
	AddFriend      *AddFriendHandler
	RemoveFriend   *RemoveFriendHandler
	AddLike        *AddLikeHandler
	RemoveLike     *RemoveLikeHandler
}

// NewHandlers creates all command handlers.
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		CreateUser:     NewCreateUserHandler(d),
		UpdateUser:     NewUpdateUserHandler(d),
		DeleteUser:     NewDeleteUserHandler(d),
		CreateFilm:     NewCreateFilmHandler(d),
		UpdateFilm:     NewUpdateFilmHandler(d),
		DeleteFilm:     NewDeleteFilmHandler(d),
		CreateDirector: NewCreateDirectorHandler(d),
		UpdateDirector: NewUpdateDirectorHandler(d),
		DeleteDirector: NewDeleteDirectorHandler(d),
		AddFriend:      NewAddFriendHandler(d),
		RemoveFriend:   NewRemoveFriendHandler(d),
		AddLike:        NewAddLikeHandler(d),
		RemoveLike:     NewRemoveLikeHandler(d),
	}
}
