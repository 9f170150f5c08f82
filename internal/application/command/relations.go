package command

import (
	"context"
	"fmt"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/infrastructure/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD FRIEND COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddFriendCommand befriends two users. Friendship is symmetric.
type AddFriendCommand struct {
	UserID   shared.UserID
	FriendID shared.UserID
}

// AddFriendHandler handles AddFriendCommand.
type AddFriendHandler struct{ base }

// NewAddFriendHandler creates a new AddFriendHandler.
func NewAddFriendHandler(d Deps) *AddFriendHandler {
	return &AddFriendHandler{newBase(d)}
}

// Handle adds the edge. Returns ErrSelfFriendship for a self-loop, NotFound
// for an unknown user and ErrFriendshipExists for an existing edge.
func (h *AddFriendHandler) Handle(ctx context.Context, cmd AddFriendCommand) (err error) {
	const op = "add_friend"
	defer func() { metrics.RecordMutation("friendship", "add", err == nil, err) }()

	if err := begin(ctx, op); err != nil {
		return err
	}
	if err := h.apply(ctx, op, cmd); err != nil {
		return err
	}

	h.publish(ctx, shared.NewFriendshipEvent(shared.EventFriendAdded, cmd.UserID, cmd.FriendID))
	return nil
}

func (h *AddFriendHandler) apply(ctx context.Context, op string, cmd AddFriendCommand) error {
	unlock := h.engine.Exclusive()
	defer unlock()

	if err := h.engine.Friends.AddFriend(cmd.UserID, cmd.FriendID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := h.journal.AddFriendship(ctx, cmd.UserID, cmd.FriendID); err != nil {
		return h.compensate(ctx, op, err, func() error {
			_, err := h.engine.Friends.RemoveFriend(cmd.UserID, cmd.FriendID)
			return err
		})
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE FRIEND COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RemoveFriendCommand ends a friendship. Removing a missing edge is a no-op.
type RemoveFriendCommand struct {
	UserID   shared.UserID
	FriendID shared.UserID
}

// RemoveFriendHandler handles RemoveFriendCommand.
type RemoveFriendHandler struct{ base }

// NewRemoveFriendHandler creates a new RemoveFriendHandler.
func NewRemoveFriendHandler(d Deps) *RemoveFriendHandler {
	return &RemoveFriendHandler{newBase(d)}
}

// Handle removes the edge and reports whether it existed.
func (h *RemoveFriendHandler) Handle(ctx context.Context, cmd RemoveFriendCommand) (removed bool, err error) {
	const op = "remove_friend"
	defer func() { metrics.RecordMutation("friendship", "remove", removed, err) }()

	if err := begin(ctx, op); err != nil {
		return false, err
	}
	removed, err = h.apply(ctx, op, cmd)
	if err != nil || !removed {
		return false, err
	}

	h.publish(ctx, shared.NewFriendshipEvent(shared.EventFriendRemoved, cmd.UserID, cmd.FriendID))
	return true, nil
}

func (h *RemoveFriendHandler) apply(ctx context.Context, op string, cmd RemoveFriendCommand) (bool, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	removed, err := h.engine.Friends.RemoveFriend(cmd.UserID, cmd.FriendID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		return false, nil
	}

	if err := h.journal.RemoveFriendship(ctx, cmd.UserID, cmd.FriendID); err != nil {
		return false, h.compensate(ctx, op, err, func() error {
			h.engine.Friends.Link(cmd.UserID, cmd.FriendID)
			return nil
		})
	}
	return true, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ADD LIKE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddLikeCommand records that a user likes a film. Liking twice is a no-op.
type AddLikeCommand struct {
	FilmID shared.FilmID
	UserID shared.UserID
}

// AddLikeHandler handles AddLikeCommand.
type AddLikeHandler struct{ base }

// NewAddLikeHandler creates a new AddLikeHandler.
func NewAddLikeHandler(d Deps) *AddLikeHandler {
	return &AddLikeHandler{newBase(d)}
}

// Handle adds the like and reports whether it was new.
func (h *AddLikeHandler) Handle(ctx context.Context, cmd AddLikeCommand) (added bool, err error) {
	const op = "add_like"
	defer func() { metrics.RecordMutation("like", "add", added, err) }()

	if err := begin(ctx, op); err != nil {
		return false, err
	}
	added, err = h.apply(ctx, op, cmd)
	if err != nil || !added {
		return false, err
	}

	h.publish(ctx, shared.NewLikeEvent(shared.EventLikeAdded, cmd.FilmID, cmd.UserID))
	return true, nil
}

func (h *AddLikeHandler) apply(ctx context.Context, op string, cmd AddLikeCommand) (bool, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	added, err := h.engine.Likes.AddLike(cmd.UserID, cmd.FilmID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !added {
		return false, nil
	}

	if err := h.journal.AddLike(ctx, cmd.FilmID, cmd.UserID); err != nil {
		return false, h.compensate(ctx, op, err, func() error {
			_, err := h.engine.Likes.RemoveLike(cmd.UserID, cmd.FilmID)
			return err
		})
	}
	return true, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE LIKE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RemoveLikeCommand withdraws a like. Removing a missing like is a no-op.
type RemoveLikeCommand struct {
	FilmID shared.FilmID
	UserID shared.UserID
}

// RemoveLikeHandler handles RemoveLikeCommand.
type RemoveLikeHandler struct{ base }

// NewRemoveLikeHandler creates a new RemoveLikeHandler.
func NewRemoveLikeHandler(d Deps) *RemoveLikeHandler {
	return &RemoveLikeHandler{newBase(d)}
}

// Handle removes the like and reports whether it existed.
func (h *RemoveLikeHandler) Handle(ctx context.Context, cmd RemoveLikeCommand) (removed bool, err error) {
	const op = "remove_like"
	defer func() { metrics.RecordMutation("like", "remove", removed, err) }()

	if err := begin(ctx, op); err != nil {
		return false, err
	}
	removed, err = h.apply(ctx, op, cmd)
	if err != nil || !removed {
		return false, err
	}

	h.publish(ctx, shared.NewLikeEvent(shared.EventLikeRemoved, cmd.FilmID, cmd.UserID))
	return true, nil
}

func (h *RemoveLikeHandler) apply(ctx context.Context, op string, cmd RemoveLikeCommand) (bool, error) {
	unlock := h.engine.Exclusive()
	defer unlock()

	removed, err := h.engine.Likes.RemoveLike(cmd.UserID, cmd.FilmID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		return false, nil
	}

	if err := h.journal.RemoveLike(ctx, cmd.FilmID, cmd.UserID); err != nil {
		return false, h.compensate(ctx, op, err, func() error {
			h.engine.Likes.Link(cmd.UserID, cmd.FilmID)
			return nil
		})
	}
	return true, nil
}
