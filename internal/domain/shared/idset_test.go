package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet_AddRemove(t *testing.T) {
	s := NewIDSet[UserID]()

	assert.True(t, s.Add(3))
	assert.False(t, s.Add(3), "second add must not change the set")
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove(3))
	assert.False(t, s.Remove(3))
	assert.Equal(t, 0, s.Len())
}

func TestIDSet_NilIsEmpty(t *testing.T) {
	var s IDSet[FilmID]

	assert.False(t, s.Has(1))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []FilmID{}, s.Sorted())
	assert.False(t, s.Remove(1))
}

func TestIDSet_Intersect(t *testing.T) {
	a := NewIDSet[UserID](1, 2, 3, 4, 5)
	b := NewIDSet[UserID](4, 2, 9)

	assert.Equal(t, []UserID{2, 4}, a.Intersect(b).Sorted())
	assert.Equal(t, a.Intersect(b).Sorted(), b.Intersect(a).Sorted())
	assert.Equal(t, []UserID{}, a.Intersect(nil).Sorted())
}

func TestIDSet_CloneIsIndependent(t *testing.T) {
	a := NewIDSet[UserID](1)
	c := a.Clone()
	c.Add(2)

	assert.False(t, a.Has(2))
	assert.True(t, c.Has(2))
}
