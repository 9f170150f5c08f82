package user

import "github.com/VeraBsp/filmorate/internal/domain/shared"

// Repository - индекс пользователей (EntityIndex для User).
// Идентификаторы выдаются монотонно и никогда не переиспользуются.
type Repository interface {
	Getter

	// Create проверяет запись, выдаёт id и сохраняет.
	// Возвращает shared.ErrEmailTaken, если email уже занят.
	Create(u *User) (*User, error)

	// Update заменяет запись. Возвращает NotFound, если пользователя нет.
	Update(u *User) (*User, error)

	// Delete удаляет запись и возвращает её последнюю версию.
	Delete(id shared.UserID) (*User, error)

	// List возвращает всех пользователей по возрастанию id.
	List() []User

	// GetMany возвращает существующих пользователей в заданном порядке.
	GetMany(ids []shared.UserID) []User

	// Restore вставляет запись из хранилища с её собственным id.
	Restore(u *User)

	// Sequence и SetSequence - счётчик id для сохранения между запусками.
	Sequence() int64
	SetSequence(seq int64)
}
