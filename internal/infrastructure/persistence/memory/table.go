// Package memory implements the in-memory entity index: canonical records for
// users, films, directors, genres and MPA ratings keyed by identifier.
//
// Each table owns a monotonically increasing id counter. Deleted ids are never
// handed out again, and the counter cannot be moved backwards from outside.
package memory

import (
	"slices"
	"sync"
)

// record is satisfied by pointers to entity structs.
type record[T any] interface {
	*T
	EntityID() int64
	AssignID(id int64)
	Clone() *T
}

// table stores records of one kind. Records are cloned on the way in and out,
// so callers never share memory with the table.
type table[T any, P record[T]] struct {
	mu   sync.RWMutex
	rows map[int64]P
	seq  int64
}

func newTable[T any, P record[T]]() *table[T, P] {
	return &table[T, P]{rows: make(map[int64]P)}
}

// insert assigns the next id and stores a copy of r.
func (t *table[T, P]) insert(r P) P {
	t.seq++
	r.AssignID(t.seq)
	t.rows[t.seq] = P(r.Clone())
	return P(r.Clone())
}

// restore stores r under its own id and advances the counter past it.
func (t *table[T, P]) restore(r P) {
	id := r.EntityID()
	t.rows[id] = P(r.Clone())
	if id > t.seq {
		t.seq = id
	}
}

func (t *table[T, P]) get(id int64) (P, bool) {
	r, ok := t.rows[id]
	if !ok {
		var zero P
		return zero, false
	}
	return P(r.Clone()), true
}

func (t *table[T, P]) has(id int64) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T, P]) replace(r P) bool {
	id := r.EntityID()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = P(r.Clone())
	return true
}

func (t *table[T, P]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns copies ordered by id.
func (t *table[T, P]) list() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.rows[id].Clone())
	}
	return out
}

func (t *table[T, P]) ids() []int64 {
	out := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (t *table[T, P]) setSequence(seq int64) {
	if seq > t.seq {
		t.seq = seq
	}
}
