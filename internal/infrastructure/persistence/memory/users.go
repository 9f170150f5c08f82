package memory

import (
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
	"github.com/VeraBsp/filmorate/pkg/validation"
)

// UserIndex holds user records and enforces email uniqueness.
type UserIndex struct {
	t       *table[user.User, *user.User]
	byEmail map[string]shared.UserID
}

// NewUserIndex creates an empty user index.
func NewUserIndex() *UserIndex {
	return &UserIndex{
		t:       newTable[user.User](),
		byEmail: make(map[string]shared.UserID),
	}
}

// Create validates u, assigns it an id and stores it.
func (x *UserIndex) Create(u *user.User) (*user.User, error) {
	u = u.Clone()
	u.Normalize()
	if err := validation.Struct(u); err != nil {
		return nil, shared.WrapError("user", "Create", shared.ErrValidation, "invalid user", err)
	}

	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	if _, taken := x.byEmail[u.EmailKey()]; taken {
		return nil, shared.ErrEmailTaken
	}
	created := x.t.insert(u)
	x.byEmail[created.EmailKey()] = created.ID
	return created, nil
}

// Get returns a copy of the user.
func (x *UserIndex) Get(id shared.UserID) (*user.User, error) {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	u, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("user", int64(id))
	}
	return u, nil
}

// Exists reports whether the user is present.
func (x *UserIndex) Exists(id shared.UserID) bool {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.has(int64(id))
}

// GetMany returns the users with the given ids in the given order, skipping
// ids that are no longer present.
func (x *UserIndex) GetMany(ids []shared.UserID) []user.User {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	out := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := x.t.get(int64(id)); ok {
			out = append(out, *u)
		}
	}
	return out
}

// Update replaces the stored user. The email must stay unique among other users.
func (x *UserIndex) Update(u *user.User) (*user.User, error) {
	u = u.Clone()
	u.Normalize()
	if err := validation.Struct(u); err != nil {
		return nil, shared.WrapError("user", "Update", shared.ErrValidation, "invalid user", err)
	}

	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	prev, ok := x.t.get(int64(u.ID))
	if !ok {
		return nil, shared.NotFound("user", int64(u.ID))
	}
	if owner, taken := x.byEmail[u.EmailKey()]; taken && owner != u.ID {
		return nil, shared.ErrEmailTaken
	}

	delete(x.byEmail, prev.EmailKey())
	x.byEmail[u.EmailKey()] = u.ID
	x.t.replace(u)
	return u.Clone(), nil
}

// Delete removes the user record. Relation edges are not touched here.
func (x *UserIndex) Delete(id shared.UserID) (*user.User, error) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	prev, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("user", int64(id))
	}
	x.t.remove(int64(id))
	delete(x.byEmail, prev.EmailKey())
	return prev, nil
}

// List returns all users ordered by id.
func (x *UserIndex) List() []user.User {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.list()
}

// Restore inserts a stored user with its original id.
func (x *UserIndex) Restore(u *user.User) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	x.t.restore(u)
	x.byEmail[u.EmailKey()] = u.ID
}

// Sequence returns the last assigned id.
func (x *UserIndex) Sequence() int64 {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.seq
}

// SetSequence moves the counter forward to seq. Lower values are ignored.
func (x *UserIndex) SetSequence(seq int64) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	x.t.setSequence(seq)
}
