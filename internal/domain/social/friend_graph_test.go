package social

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

type fakeUsers map[shared.UserID]bool

func (f fakeUsers) Get(id shared.UserID) (*user.User, error) {
	if !f[id] {
		return nil, shared.NotFound("user", int64(id))
	}
	return &user.User{ID: id}, nil
}

func newGraph(ids ...shared.UserID) *FriendGraph {
	users := fakeUsers{}
	for _, id := range ids {
		users[id] = true
	}
	return NewFriendGraph(users)
}

func TestAddFriend_Symmetric(t *testing.T) {
	g := newGraph(1, 2)

	require.NoError(t, g.AddFriend(1, 2))

	f1, err := g.FriendsOf(1)
	require.NoError(t, err)
	f2, err := g.FriendsOf(2)
	require.NoError(t, err)

	assert.Equal(t, []shared.UserID{2}, f1)
	assert.Equal(t, []shared.UserID{1}, f2)
	assert.True(t, g.AreFriends(2, 1))
}

func TestAddFriend_Self(t *testing.T) {
	g := newGraph(1)

	err := g.AddFriend(1, 1)
	assert.ErrorIs(t, err, shared.ErrSelfRelation)

	// Self check comes first, even for unknown users.
	err = g.AddFriend(99, 99)
	assert.ErrorIs(t, err, shared.ErrSelfRelation)
}

func TestAddFriend_UnknownUser(t *testing.T) {
	g := newGraph(1)

	err := g.AddFriend(1, 2)
	assert.True(t, shared.IsNotFound(err))

	err = g.AddFriend(2, 1)
	assert.True(t, shared.IsNotFound(err))
	assert.Empty(t, g.Edges())
}

func TestAddFriend_Duplicate(t *testing.T) {
	g := newGraph(1, 2)
	require.NoError(t, g.AddFriend(1, 2))

	assert.ErrorIs(t, g.AddFriend(1, 2), shared.ErrDuplicateRelation)
	assert.ErrorIs(t, g.AddFriend(2, 1), shared.ErrDuplicateRelation)
}

func TestRemoveFriend_Idempotent(t *testing.T) {
	g := newGraph(1, 2)
	require.NoError(t, g.AddFriend(1, 2))

	removed, err := g.RemoveFriend(2, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = g.RemoveFriend(2, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	f1, _ := g.FriendsOf(1)
	assert.Empty(t, f1)
}

func TestFriendsOf_NoFriendsIsEmptyNotError(t *testing.T) {
	g := newGraph(1)

	friends, err := g.FriendsOf(1)
	require.NoError(t, err)
	assert.NotNil(t, friends)
	assert.Empty(t, friends)

	_, err = g.FriendsOf(5)
	assert.True(t, shared.IsNotFound(err))
}

func TestCommonFriends(t *testing.T) {
	g := newGraph(1, 2, 3, 4, 5)
	require.NoError(t, g.AddFriend(1, 3))
	require.NoError(t, g.AddFriend(1, 4))
	require.NoError(t, g.AddFriend(1, 5))
	require.NoError(t, g.AddFriend(2, 4))
	require.NoError(t, g.AddFriend(2, 5))

	ab, err := g.CommonFriends(1, 2)
	require.NoError(t, err)
	ba, err := g.CommonFriends(2, 1)
	require.NoError(t, err)

	assert.Equal(t, []shared.UserID{4, 5}, ab)
	assert.Equal(t, ab, ba)
}

func TestCommonFriends_EmptyAndMissing(t *testing.T) {
	g := newGraph(1, 2)

	common, err := g.CommonFriends(1, 2)
	require.NoError(t, err)
	assert.Empty(t, common)

	_, err = g.CommonFriends(1, 3)
	assert.True(t, shared.IsNotFound(err))
}

func TestRemoveUser_Cascade(t *testing.T) {
	g := newGraph(1, 2, 3)
	require.NoError(t, g.AddFriend(1, 2))
	require.NoError(t, g.AddFriend(1, 3))
	require.NoError(t, g.AddFriend(2, 3))

	former := g.RemoveUser(1)
	assert.Equal(t, []shared.UserID{2, 3}, former)

	f2, _ := g.FriendsOf(2)
	assert.Equal(t, []shared.UserID{3}, f2)
	assert.Equal(t, [][2]shared.UserID{{2, 3}}, g.Edges())
}

func TestAddFriend_ConcurrentSamePair(t *testing.T) {
	g := newGraph(1, 2)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := shared.UserID(1), shared.UserID(2)
			if i%2 == 0 {
				a, b = b, a
			}
			if g.AddFriend(a, b) == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, success, "exactly one add must win")
	assert.Len(t, g.Edges(), 1)
}
