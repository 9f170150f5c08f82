package memory

import (
	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORS
// ══════════════════════════════════════════════════════════════════════════════

// DirectorIndex holds director records.
type DirectorIndex struct {
	t *table[film.Director, *film.Director]
}

// NewDirectorIndex creates an empty director index.
func NewDirectorIndex() *DirectorIndex {
	return &DirectorIndex{t: newTable[film.Director]()}
}

// Create validates d, assigns it an id and stores it.
func (x *DirectorIndex) Create(d *film.Director) (*film.Director, error) {
	if err := validation.Struct(d); err != nil {
		return nil, shared.WrapError("director", "Create", shared.ErrValidation, "invalid director", err)
	}

	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	return x.t.insert(d.Clone()), nil
}

// Get returns a copy of the director.
func (x *DirectorIndex) Get(id shared.DirectorID) (*film.Director, error) {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	d, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("director", int64(id))
	}
	return d, nil
}

// Update replaces the stored director and returns the previous version.
func (x *DirectorIndex) Update(d *film.Director) (updated, previous *film.Director, err error) {
	if err := validation.Struct(d); err != nil {
		return nil, nil, shared.WrapError("director", "Update", shared.ErrValidation, "invalid director", err)
	}

	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	prev, ok := x.t.get(int64(d.ID))
	if !ok {
		return nil, nil, shared.NotFound("director", int64(d.ID))
	}
	x.t.replace(d)
	return d.Clone(), prev, nil
}

// Delete removes the director record.
func (x *DirectorIndex) Delete(id shared.DirectorID) (*film.Director, error) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()

	prev, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("director", int64(id))
	}
	x.t.remove(int64(id))
	return prev, nil
}

// List returns all directors ordered by id.
func (x *DirectorIndex) List() []film.Director {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.list()
}

// Restore inserts a stored director with its original id.
func (x *DirectorIndex) Restore(d *film.Director) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	x.t.restore(d)
}

// Sequence returns the last assigned id.
func (x *DirectorIndex) Sequence() int64 {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.seq
}

// SetSequence moves the counter forward to seq. Lower values are ignored.
func (x *DirectorIndex) SetSequence(seq int64) {
	x.t.mu.Lock()
	defer x.t.mu.Unlock()
	x.t.setSequence(seq)
}

// ══════════════════════════════════════════════════════════════════════════════
// GENRES & RATINGS (read-only)
// ══════════════════════════════════════════════════════════════════════════════

// GenreIndex holds the genre dictionary.
type GenreIndex struct {
	t *table[film.Genre, *film.Genre]
}

// NewGenreIndex creates a genre index holding genres with their own ids.
func NewGenreIndex(genres ...film.Genre) *GenreIndex {
	x := &GenreIndex{t: newTable[film.Genre]()}
	for i := range genres {
		x.t.restore(&genres[i])
	}
	return x
}

// Get returns a copy of the genre.
func (x *GenreIndex) Get(id shared.GenreID) (*film.Genre, error) {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	g, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("genre", int64(id))
	}
	return g, nil
}

// List returns all genres ordered by id.
func (x *GenreIndex) List() []film.Genre {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.list()
}

// RatingIndex holds the MPA rating dictionary.
type RatingIndex struct {
	t *table[film.Rating, *film.Rating]
}

// NewRatingIndex creates a rating index holding ratings with their own ids.
func NewRatingIndex(ratings ...film.Rating) *RatingIndex {
	x := &RatingIndex{t: newTable[film.Rating]()}
	for i := range ratings {
		x.t.restore(&ratings[i])
	}
	return x
}

// Get returns a copy of the rating.
func (x *RatingIndex) Get(id shared.RatingID) (*film.Rating, error) {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()

	r, ok := x.t.get(int64(id))
	if !ok {
		return nil, shared.NotFound("mpa", int64(id))
	}
	return r, nil
}

// List returns all ratings ordered by id.
func (x *RatingIndex) List() []film.Rating {
	x.t.mu.RLock()
	defer x.t.mu.RUnlock()
	return x.t.list()
}
