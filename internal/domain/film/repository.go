package film

import "github.com/VeraBsp/filmorate/internal/domain/shared"

// Repository - индекс фильмов (EntityIndex для Film).
type Repository interface {
	Getter

	// Create проверяет запись, разрешает ссылки на рейтинг, жанры и
	// режиссёров, выдаёт id и сохраняет.
	Create(f *Film) (*Film, error)

	// Update заменяет запись и возвращает предыдущую версию.
	Update(f *Film) (updated, previous *Film, err error)

	// Delete удаляет запись и возвращает её последнюю версию.
	Delete(id shared.FilmID) (*Film, error)

	List() []Film
	IDs() []shared.FilmID
	GetMany(ids []shared.FilmID) []Film

	// RenameDirector обновляет имя режиссёра во всех фильмах.
	RenameDirector(d Director)

	// DropDirector убирает режиссёра из всех фильмов.
	DropDirector(id shared.DirectorID) []shared.FilmID

	Restore(f *Film)
	Sequence() int64
	SetSequence(seq int64)
}

// DirectorRepository - индекс режиссёров.
type DirectorRepository interface {
	DirectorGetter

	Create(d *Director) (*Director, error)
	Update(d *Director) (updated, previous *Director, err error)
	Delete(id shared.DirectorID) (*Director, error)
	List() []Director

	Restore(d *Director)
	Sequence() int64
	SetSequence(seq int64)
}

// GenreRepository - справочник жанров (только чтение).
type GenreRepository interface {
	Get(id shared.GenreID) (*Genre, error)
	List() []Genre
}

// RatingRepository - справочник рейтингов MPA (только чтение).
type RatingRepository interface {
	Get(id shared.RatingID) (*Rating, error)
	List() []Rating
}
