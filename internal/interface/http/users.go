package http

import (
	"net/http"

	"github.com/VeraBsp/filmorate/internal/application/command"
	"github.com/VeraBsp/filmorate/internal/application/query"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListUsers handles GET /users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Queries.Catalog.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleGetUser handles GET /users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.UserID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.deps.Queries.Catalog.User(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleCreateUser handles POST /users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u user.User
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.deps.Commands.CreateUser.Handle(r.Context(), command.CreateUserCommand{User: u})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logger.FromContextOr(r.Context(), s.logger).Info("user created", logger.UserID(int64(created.ID)))
	writeJSON(w, http.StatusOK, created)
}

// handleUpdateUser handles PUT /users
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var u user.User
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.deps.Commands.UpdateUser.Handle(r.Context(), command.UpdateUserCommand{User: u})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteUser handles DELETE /users/{id}
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.UserID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Commands.DeleteUser.Handle(r.Context(), command.DeleteUserCommand{UserID: id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logger.FromContextOr(r.Context(), s.logger).Info("user deleted",
		logger.UserID(int64(id)),
		logger.Int("former_friends", len(res.FormerFriends)),
		logger.Int("unliked_films", len(res.UnlikedFilms)),
	)
	w.WriteHeader(http.StatusOK)
}

// ══════════════════════════════════════════════════════════════════════════════
// FRIEND HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// friendPair parses {id} and {friendId}.
func friendPair(r *http.Request, other string) (shared.UserID, shared.UserID, error) {
	id, err := pathID[shared.UserID](r, "id")
	if err != nil {
		return 0, 0, err
	}
	friendID, err := pathID[shared.UserID](r, other)
	if err != nil {
		return 0, 0, err
	}
	return id, friendID, nil
}

// handleAddFriend handles PUT /users/{id}/friends/{friendId}
func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, err := friendPair(r, "friendId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Commands.AddFriend.Handle(r.Context(), command.AddFriendCommand{UserID: id, FriendID: friendID}); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleRemoveFriend handles DELETE /users/{id}/friends/{friendId}
func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, err := friendPair(r, "friendId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.deps.Commands.RemoveFriend.Handle(r.Context(), command.RemoveFriendCommand{UserID: id, FriendID: friendID}); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleGetFriends handles GET /users/{id}/friends
func (s *Server) handleGetFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[shared.UserID](r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	friends, err := s.deps.Queries.Friends.Friends(r.Context(), query.FriendsQuery{UserID: id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// handleGetCommonFriends handles GET /users/{id}/friends/common/{otherId}
func (s *Server) handleGetCommonFriends(w http.ResponseWriter, r *http.Request) {
	id, otherID, err := friendPair(r, "otherId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	common, err := s.deps.Queries.Friends.CommonFriends(r.Context(), query.CommonFriendsQuery{UserID: id, OtherID: otherID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, common)
}
