// Package user содержит доменную модель пользователя Filmorate.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"strings"

	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: User
// ══════════════════════════════════════════════════════════════════════════════

// User - зарегистрированный пользователь. Друзья и лайки хранятся в отдельных
// индексах отношений, сама запись ссылок на них не содержит.
type User struct {
	ID       shared.UserID `json:"id"`
	Email    string        `json:"email" validate:"required,email"`
	Login    string        `json:"login" validate:"required,nospaces"`
	Name     string        `json:"name"`
	Birthday shared.Date   `json:"birthday" validate:"notfuture"`
}

// Normalize приводит запись к каноническому виду: пустое имя заменяется логином.
func (u *User) Normalize() {
	u.Email = strings.TrimSpace(u.Email)
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}

// EmailKey возвращает ключ уникальности email (без учёта регистра).
func (u *User) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

// EntityID возвращает идентификатор записи.
func (u *User) EntityID() int64 { return int64(u.ID) }

// AssignID устанавливает идентификатор, выданный индексом.
func (u *User) AssignID(id int64) { u.ID = shared.UserID(id) }

// Clone возвращает независимую копию.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Getter - поиск пользователя по идентификатору.
// Возвращает ошибку с kind shared.ErrNotFound, если пользователя нет.
type Getter interface {
	Get(id shared.UserID) (*User, error)
}
