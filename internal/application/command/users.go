package command

import (
	"context"
	"fmt"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateUserCommand registers a new user. The id in User is ignored.
type CreateUserCommand struct {
	User user.User
}

// CreateUserHandler handles CreateUserCommand.
type CreateUserHandler struct{ base }

// NewCreateUserHandler creates a new CreateUserHandler.
func NewCreateUserHandler(d Deps) *CreateUserHandler {
	return &CreateUserHandler{newBase(d)}
}

// Handle creates the user and returns the stored record.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*user.User, error) {
	const op = "create_user"
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	created, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventUserCreated, int64(created.ID)))
	return created, nil
}

func (h *CreateUserHandler) apply(ctx context.Context, op string, cmd CreateUserCommand) (*user.User, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	created, err := h.engine.Users.Create(&cmd.User)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := h.journal.SaveUser(ctx, created); err != nil {
		return nil, h.compensate(ctx, op, err, func() error {
			_, err := h.engine.Users.Delete(created.ID)
			return err
		})
	}
	return created, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateUserCommand replaces a user record identified by User.ID.
type UpdateUserCommand struct {
	User user.User
}

// Validate validates the command.
func (c UpdateUserCommand) Validate() error {
	if !c.User.ID.IsValid() {
		return shared.NewDomainError("user", "Update", shared.ErrInvalidID, "user id is required")
	}
	return nil
}

// UpdateUserHandler handles UpdateUserCommand.
type UpdateUserHandler struct{ base }

// NewUpdateUserHandler creates a new UpdateUserHandler.
func NewUpdateUserHandler(d Deps) *UpdateUserHandler {
	return &UpdateUserHandler{newBase(d)}
}

// Handle updates the user and returns the stored record.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*user.User, error) {
	const op = "update_user"
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

	h.publish(ctx, shared.NewEntityEvent(shared.EventUserUpdated, int64(updated.ID)))
	return updated, nil
}

func (h *UpdateUserHandler) apply(ctx context.Context, op string, cmd UpdateUserCommand) (*user.User, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	previous, err := h.engine.Users.Get(cmd.User.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := h.engine.Users.Update(&cmd.User)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := h.journal.SaveUser(ctx, updated); err != nil {
		return nil, h.compensate(ctx, op, err, func() error {
			_, err := h.engine.Users.Update(previous)
			return err
		})
	}
	return updated, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteUserCommand removes a user with all friendships and likes.
type DeleteUserCommand struct {
	UserID shared.UserID
}

// DeleteUserResult describes what the cascade removed.
type DeleteUserResult struct {
	User          *user.User
	FormerFriends []shared.UserID
	UnlikedFilms  []shared.FilmID
}

// DeleteUserHandler handles DeleteUserCommand.
type DeleteUserHandler struct{ base }

// NewDeleteUserHandler creates a new DeleteUserHandler.
func NewDeleteUserHandler(d Deps) *DeleteUserHandler {
	return &DeleteUserHandler{newBase(d)}
}

// Handle deletes the user. Returns NotFound for an unknown user.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) (*DeleteUserResult, error) {
	const op = "delete_user"
	if err := begin(ctx, op); err != nil {
		return nil, err
	}

	result, err := h.apply(ctx, op, cmd)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, shared.NewEntityEvent(shared.EventUserDeleted, int64(cmd.UserID)))
	return result, nil
}

func (h *DeleteUserHandler) apply(ctx context.Context, op string, cmd DeleteUserCommand) (*DeleteUserResult, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	if _, err := h.engine.Users.Get(cmd.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := h.journal.DeleteUser(ctx, cmd.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	removed, err := h.engine.Users.Delete(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &DeleteUserResult{
		User:          removed,
		FormerFriends: h.engine.Friends.RemoveUser(cmd.UserID),
		UnlikedFilms:  h.engine.Likes.RemoveUser(cmd.UserID),
	}, nil
}
