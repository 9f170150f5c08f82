package query

import (
	"context"
	"fmt"
	"time"

	"github.com/VeraBsp/filmorate/internal/application/engine"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/internal/infrastructure/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// FRIENDS QUERIES
// Друзья пользователя и общие друзья двух пользователей.
// Дружба симметрична, поэтому направление запроса не важно.
// ══════════════════════════════════════════════════════════════════════════════

// FriendsQuery - друзья пользователя.
type FriendsQuery struct {
	UserID shared.UserID
}

// CommonFriendsQuery - общие друзья двух пользователей.
type CommonFriendsQuery struct {
	UserID  shared.UserID
	OtherID shared.UserID
}

// FriendsHandler отвечает на запросы к графу дружбы.
type FriendsHandler struct {
	engine *engine.Engine
}

// NewFriendsHandler создаёт FriendsHandler.
func NewFriendsHandler(e *engine.Engine) *FriendsHandler {
	return &FriendsHandler{engine: e}
}

// Friends возвращает записи друзей по возрастанию id.
// NotFound, если пользователя нет.
func (h *FriendsHandler) Friends(ctx context.Context, q FriendsQuery) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer metrics.ObserveQuery("friends", time.Now())

	unlock := h.engine.Shared()
	defer unlock()

	ids, err := h.engine.Friends.FriendsOf(q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_friends: %w", err)
	}
	return h.engine.Users.GetMany(ids), nil
}

// CommonFriends возвращает записи общих друзей по возрастанию id.
// NotFound, если нет любого из пользователей.
func (h *FriendsHandler) CommonFriends(ctx context.Context, q CommonFriendsQuery) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer metrics.ObserveQuery("common_friends", time.Now())

	unlock := h.engine.Shared()
	defer unlock()

	ids, err := h.engine.Friends.CommonFriends(q.UserID, q.OtherID)
	if err != nil {
		return nil, fmt.Errorf("get_common_friends: %w", err)
	}
	return h.engine.Users.GetMany(ids), nil
}
