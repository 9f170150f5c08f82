// Package social содержит граф дружбы пользователей.
//
// Дружба симметрична: ребро добавляется сразу в обе стороны под одной
// блокировкой, поэтому ни один читатель не увидит дружбу "в одну сторону".
package social

import (
	"sync"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: FriendGraph
// ══════════════════════════════════════════════════════════════════════════════

// FriendGraph - симметричный список смежности над идентификаторами пользователей.
type FriendGraph struct {
	mu    sync.RWMutex
	users user.Getter
	adj   map[shared.UserID]shared.IDSet[shared.UserID]
}

// NewFriendGraph создаёт пустой граф. users используется для проверки
// существования концов ребра.
func NewFriendGraph(users user.Getter) *FriendGraph {
	return &FriendGraph{
		users: users,
		adj:   make(map[shared.UserID]shared.IDSet[shared.UserID]),
	}
}

// AddFriend добавляет дружбу a-b.
// Возвращает ErrSelfFriendship при a == b, NotFound если кого-то из
// пользователей нет, ErrFriendshipExists если они уже друзья.
func (g *FriendGraph) AddFriend(a, b shared.UserID) error {
	if a == b {
		return shared.ErrSelfFriendship
	}
	if err := g.requireUsers(a, b); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.adj[a].Has(b) {
		return shared.ErrFriendshipExists
	}
	g.link(a, b)
	return nil
}

// RemoveFriend удаляет дружбу a-b, если она есть. Повторный вызов - no-op.
// Возвращает true, если ребро было удалено.
func (g *FriendGraph) RemoveFriend(a, b shared.UserID) (bool, error) {
	if err := g.requireUsers(a, b); err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.adj[a].Has(b) {
		return false, nil
	}
	g.unlink(a, b)
	return true, nil
}

// FriendsOf возвращает друзей пользователя по возрастанию id.
// Пустой срез, если друзей нет.
func (g *FriendGraph) FriendsOf(a shared.UserID) ([]shared.UserID, error) {
	if _, err := g.users.Get(a); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.adj[a].Sorted(), nil
}

// CommonFriends возвращает пересечение друзей a и b по возрастанию id.
// Результат не зависит от порядка аргументов.
func (g *FriendGraph) CommonFriends(a, b shared.UserID) ([]shared.UserID, error) {
	if err := g.requireUsers(a, b); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.adj[a].Intersect(g.adj[b]).Sorted(), nil
}

// AreFriends проверяет наличие ребра a-b.
func (g *FriendGraph) AreFriends(a, b shared.UserID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.adj[a].Has(b)
}

// RemoveUser удаляет все рёбра пользователя (каскад при удалении).
// Возвращает бывших друзей.
func (g *FriendGraph) RemoveUser(id shared.UserID) []shared.UserID {
	g.mu.Lock()
	defer g.mu.Unlock()

	friends := g.adj[id].Sorted()
	for _, f := range friends {
		g.adj[f].Remove(id)
		if g.adj[f].Len() == 0 {
			delete(g.adj, f)
		}
	}
	delete(g.adj, id)
	return friends
}

// Link добавляет ребро без проверок. Используется при загрузке из хранилища.
func (g *FriendGraph) Link(a, b shared.UserID) {
	if a == b {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.link(a, b)
}

// Edges возвращает каждое ребро один раз, как пару (меньший id, больший id).
func (g *FriendGraph) Edges() [][2]shared.UserID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var edges [][2]shared.UserID
	for a, set := range g.adj {
		for b := range set {
			if a < b {
				edges = append(edges, [2]shared.UserID{a, b})
			}
		}
	}
	return edges
}

// ─────────────────────────────────────────────────────────────────────────────

func (g *FriendGraph) requireUsers(a, b shared.UserID) error {
	if _, err := g.users.Get(a); err != nil {
		return err
	}
	if _, err := g.users.Get(b); err != nil {
		return err
	}
	return nil
}

func (g *FriendGraph) link(a, b shared.UserID) {
	if g.adj[a] == nil {
		g.adj[a] = shared.NewIDSet[shared.UserID]()
	}
	if g.adj[b] == nil {
		g.adj[b] = shared.NewIDSet[shared.UserID]()
	}
	g.adj[a].Add(b)
	g.adj[b].Add(a)
}

func (g *FriendGraph) unlink(a, b shared.UserID) {
	g.adj[a].Remove(b)
	g.adj[b].Remove(a)
	if g.adj[a].Len() == 0 {
		delete(g.adj, a)
	}
	if g.adj[b].Len() == 0 {
		delete(g.adj, b)
	}
}
