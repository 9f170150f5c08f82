package memory

import (
	"slices"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/validation"
)

// FilmIndex holds film records. References to ratings, genres and directors
// are resolved against their indexes on every write.
type FilmIndex struct {
	t         *table[film.Film, *film.Film]
	ratings   *RatingIndex
	genres    *GenreIndex
	directors *DirectorIndex
}

// NewFilmIndex creates an empty film index over the given reference tables.
func NewFilmIndex(ratings *RatingIndex, genres *GenreIndex, directors *DirectorIndex) *FilmIndex {
	return &FilmIndex{
		t:         newTable[film.Film](),
		ratings:   ratings,
		genres:    genres,
		directors: directors,
	}
}

// resolve validates f and fills reference names. It must be called without
// holding the film lock.
func (x *FilmIndex) resolve(op string, f *film.Film) (*film.Film, error) {
	f = f.Clone()
	f.Normalize()
	if err := validation.Struct(f); err != nil {
		return nil, shared.WrapError("film", op, shared.ErrValidation, "invalid film", err)
	}

	mpa, err := x.ratings.Get(f.MPA.ID)
	if err != nil {
		return nil, err
	}
	f.MPA = mpa

	for i := range f.Genres {
		g, err := x.genres.Get(f.Genres[i].ID)
		if err != nil {
			return nil, err
		}
		f.Genres[i] = *g
	}
	for i := range f.Directors {
		d, err := x.directors.Get(f.Directors[i].ID)
		if err != nil {
			return nil, err
		}
		f.Directors[i] = *d
	}
	return f, nil
}

// Create validates f, assigns it an id and stores it.
func (x *FilmIndex) Create(f *film.Film) (*film.Film, error) {
	f, err := x.resolve("Create", f)
	if err != nil {
		return nil, err
	}

	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	return x.t.insert(f), nil
}

// Get returns a copy of the film.
func (x *FilmIndex) Get(id shared.FilmID) (*film.Film, error) {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	f, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("film", int64(id))
	}
	return f, nil
}

// GetMany returns the films with the given ids in the given order, skipping
// ids that are no longer present.
func (x *FilmIndex) GetMany(ids []shared.FilmID) []film.Film {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	out := make([]film.Film, 0, len(ids))
	for _, id := range ids {
		if f, ok := x.t.get(int64(id)); ok {
			out = append(out, *f)
		}
	}
	return out
}

// IDs returns every film id in ascending order.
func (x *FilmIndex) IDs() []shared.FilmID {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	raw := x.t.ids()
	out := make([]shared.FilmID, len(raw))
	for i, id := range raw {
		out[i] = shared.FilmID(id)
	}
	return out
}

// Update replaces the stored film and returns the previous version.
func (x *FilmIndex) Update(f *film.Film) (updated, previous *film.Film, err error) {
	f, err = x.resolve("Update", f)
	if err != nil {
		return nil, nil, err
	}

	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	prev, ok := x.t.get(int64(f.ID))
	if !ok {
		return nil, nil, shared.NotFound("film", int64(f.ID))
	}
	x.t.replace(f)
	return f.Clone(), prev, nil
}

// Delete removes the film record. Relation edges are not touched here.
func (x *FilmIndex) Delete(id shared.FilmID) (*film.Film, error) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	prev, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("film", int64(id))
	}
	x.t.remove(int64(id))
	return prev, nil
}

// List returns all films ordered by id.
func (x *FilmIndex) List() []film.Film {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.list()
}

// RenameDirector refreshes the director name embedded in every film record.
func (x *FilmIndex) RenameDirector(d film.Director) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	for _, f := range x.t.rows {
		for i := range f.Directors {
			if f.Directors[i].ID == d.ID {
				f.Directors[i].Name = d.Name
			}
		}
	}
}

// DropDirector removes the director from every film record and returns the
// affected film ids.
func (x *FilmIndex) DropDirector(id shared.DirectorID) []shared.FilmID {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	var touched []shared.FilmID
	for _, f := range x.t.rows {
		if !f.HasDirector(id) {
			continue
		}
		kept := f.Directors[:0]
		for _, d := range f.Directors {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		f.Directors = kept
		touched = append(touched, f.ID)
	}
	slices.Sort(touched)
	return touched
}

// Restore inserts a stored film with its original id, as is.
func (x *FilmIndex) Restore(f *film.Film) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	x.t.restore(f)
}

// Sequence returns the last assigned id.
func (x *FilmIndex) Sequence() int64 {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.seq
}

// SetSequence moves the counter forward to seq. Lower values are ignored.
func (x *FilmIndex) SetSequence(seq int64) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	x.t.setSequence(seq)
}
