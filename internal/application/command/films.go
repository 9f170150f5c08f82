package command

import (
	"context"
	"fmt"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE FILM COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateFilmCommand adds a film. Rating, genres and directors are referenced
// by id; their names are filled in from the dictionaries.
type CreateFilmCommand struct {
	Film film.Film
}

// CreateFilmHandler handles CreateFilmCommand.
type CreateFilmHandler struct{ base }

// NewCreateFilmHandler creates a new CreateFilmHandler.
func NewCreateFilmHandler(d Deps) *CreateFilmHandler {
	return &CreateFilmHandler{newBase(d)}
}

// Handle creates the film, links its directors and returns the stored record.
func (h *CreateFilmHandler) Handle(ctx context.Context, cmd CreateFilmCommand) (*film.Film, error) {
	const op = "create_film"
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	created, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventFilmCreated, int64(created.ID)))
	return created, nil
}

func (h *CreateFilmHandler) apply(ctx context.Context, op string, cmd CreateFilmCommand) (*film.Film, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	created, err := h.engine.Films.Create(&cmd.Film)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.engine.Filmography.Assign(created.ID, created.DirectorIDs())

	if err := h.journal.SaveFilm(ctx, created); err != nil {
		return nil, h.compensate(ctx, op, err, func() error {
			h.engine.Filmography.RemoveFilm(created.ID)
			_, err := h.engine.Films.Delete(created.ID)
			return err
		})
	}
	return created, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE FILM COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateFilmCommand replaces a film record identified by Film.ID.
// The director set is replaced as a whole.
type UpdateFilmCommand struct {
	Film film.Film
}

// Validate validates the command.
func (c UpdateFilmCommand) Validate() error {
	if !c.Film.ID.IsValid() {
		return shared.NewDomainError("film", "Update", shared.ErrInvalidID, "film id is required")
	}
	return nil
}

// UpdateFilmHandler handles UpdateFilmCommand.
type UpdateFilmHandler struct{ base }

// NewUpdateFilmHandler creates a new UpdateFilmHandler.
func NewUpdateFilmHandler(d Deps) *UpdateFilmHandler {
	return &UpdateFilmHandler{newBase(d)}
}

// Handle updates the film and re-links its directors. The record and its
// director edges change together: no other mutation runs in between.
func (h *UpdateFilmHandler) Handle(ctx context.Context, cmd UpdateFilmCommand) (*film.Film, error) {
	const op = "update_film"
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	updated, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventFilmUpdated, int64(updated.ID)))
	return updated, nil
}

func (h *UpdateFilmHandler) apply(ctx context.Context, op string, cmd UpdateFilmCommand) (*film.Film, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	updated, previous, err := h.engine.Films.Update(&cmd.Film)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.engine.Filmography.Assign(updated.ID, updated.DirectorIDs())

	if err := h.journal.SaveFilm(ctx, updated); err != nil {
		return nil, h.compensate(ctx, op, err, func() error {
			h.engine.Filmography.Assign(previous.ID, previous.DirectorIDs())
			_, _, err := h.engine.Films.Update(previous)
			return err
		})
	}
	return updated, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE FILM COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteFilmCommand removes a film with its likes and director links.
type DeleteFilmCommand struct {
	FilmID shared.FilmID
}

// DeleteFilmHandler handles DeleteFilmCommand.
type DeleteFilmHandler struct{ base }

// NewDeleteFilmHandler creates a new DeleteFilmHandler.
func NewDeleteFilmHandler(d Deps) *DeleteFilmHandler {
	return &DeleteFilmHandler{newBase(d)}
}

// Handle deletes the film and returns the removed record.
func (h *DeleteFilmHandler) Handle(ctx context.Context, cmd DeleteFilmCommand) (*film.Film, error) {
	const op = "delete_film"
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	removed, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventFilmDeleted, int64(cmd.FilmID)))
	return removed, nil
}

func (h *DeleteFilmHandler) apply(ctx context.Context, op string, cmd DeleteFilmCommand) (*film.Film, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	if _, err := h.engine.Films.Get(cmd.FilmID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := h.journal.DeleteFilm(ctx, cmd.FilmID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	removed, err := h.engine.Films.Delete(cmd.FilmID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.engine.Likes.RemoveFilm(cmd.FilmID)
	h.engine.Filmography.RemoveFilm(cmd.FilmID)
	return removed, nil
}
