package command

import (
	"context"
	"fmt"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE DIRECTOR COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateDirectorCommand adds a director.
type CreateDirectorCommand struct {
	Director film.Director
}

// CreateDirectorHandler handles CreateDirectorCommand.
type CreateDirectorHandler struct{ base }

// NewCreateDirectorHandler creates a new CreateDirectorHandler.
func NewCreateDirectorHandler(d Deps) *CreateDirectorHandler {
	return &CreateDirectorHandler{newBase(d)}
}

// Handle creates the director and returns the stored record.
func (h *CreateDirectorHandler) Handle(ctx context.Context, cmd CreateDirectorCommand) (*film.Director, error) {
	const op = "create_director"
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	created, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventDirectorCreated, int64(created.ID)))
	return created, nil
}

func (h *CreateDirectorHandler) apply(ctx context.Context, op string, cmd CreateDirectorCommand) (*film.Director, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	created, err := h.engine.Directors.Create(&cmd.Director)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := h.journal.SaveDirector(ctx, created); err != nil {
		return nil, h.compensate(ctx, op, err, func() error {
			_, err := h.engine.Directors.Delete(created.ID)
			return err
		})
	}
	return created, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE DIRECTOR COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateDirectorCommand renames a director identified by Director.ID.
type UpdateDirectorCommand struct {
	Director film.Director
}

// Validate validates the command.
func (c UpdateDirectorCommand) Validate() error {
	if !c.Director.ID.IsValid() {
		return shared.NewDomainError("director", "Update", shared.ErrInvalidID, "director id is required")
	}
	return nil
}

// UpdateDirectorHandler handles UpdateDirectorCommand.
type UpdateDirectorHandler struct{ base }

// NewUpdateDirectorHandler creates a new UpdateDirectorHandler.
func NewUpdateDirectorHandler(d Deps) *UpdateDirectorHandler {
	return &UpdateDirectorHandler{newBase(d)}
}

// Handle updates the director and the name embedded in its films.
func (h *UpdateDirectorHandler) Handle(ctx context.Context, cmd UpdateDirectorCommand) (*film.Director, error) {
	const op = "update_director"
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

	h.publish(ctx, shared.NewEntityEvent(shared.EventDirectorUpdated, int64(updated.ID)))
	return updated, nil
}

func (h *UpdateDirectorHandler) apply(ctx context.Context, op string, cmd UpdateDirectorCommand) (*film.Director, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	updated, previous, err := h.engine.Directors.Update(&cmd.Director)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.engine.Films.RenameDirector(*updated)

	if err := h.journal.SaveDirector(ctx, updated); err != nil {
		return nil, h.compensate(ctx, op, err, func() error {
			h.engine.Films.RenameDirector(*previous)
			_, _, err := h.engine.Directors.Update(previous)
			return err
		})
	}
	return updated, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE DIRECTOR COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteDirectorCommand removes a director and unlinks it from every film.
type DeleteDirectorCommand struct {
	DirectorID shared.DirectorID
}

// DeleteDirectorResult describes what the cascade touched.
type DeleteDirectorResult struct {
	Director      *film.Director
	AffectedFilms []shared.FilmID
}

// DeleteDirectorHandler handles DeleteDirectorCommand.
type DeleteDirectorHandler struct{ base }

// NewDeleteDirectorHandler creates a new DeleteDirectorHandler.
func NewDeleteDirectorHandler(d Deps) *DeleteDirectorHandler {
	return &DeleteDirectorHandler{newBase(d)}
}

// Handle deletes the director. Returns NotFound for an unknown director.
func (h *DeleteDirectorHandler) Handle(ctx context.Context, cmd DeleteDirectorCommand) (*DeleteDirectorResult, error) {
	const op = "delete_director"
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	res, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventDirectorDeleted, int64(cmd.DirectorID)))
	return res, nil
}

func (h *DeleteDirectorHandler) apply(ctx context.Context, op string, cmd DeleteDirectorCommand) (*DeleteDirectorResult, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	if _, err := h.engine.Directors.Get(cmd.DirectorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := h.journal.DeleteDirector(ctx, cmd.DirectorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	removed, err := h.engine.Directors.Delete(cmd.DirectorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.engine.Filmography.RemoveDirector(cmd.DirectorID)
	affected := h.engine.Films.DropDirector(cmd.DirectorID)
	return &DeleteDirectorResult{Director: removed, AffectedFilms: affected}, nil
}
