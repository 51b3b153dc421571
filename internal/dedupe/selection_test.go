package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.Toggle("g1"))
	assert.True(t, s.Has("g1"))
	assert.False(t, s.Toggle("g1"))
	assert.False(t, s.Has("g1"))
	assert.Equal(t, 0, s.Len())
}

func TestSelectionDoubleToggleRestoresState(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("c")
	before := s.IDs()

	for _, id := range []string{"a", "b", "c"} {
		s.Toggle(id)
		s.Toggle(id)
		assert.Equal(t, before, s.IDs(), "double toggle of %s changed the selection", id)
	}
}

func TestSelectionNoDuplicates(t *testing.T) {
	s := NewSelection()
	s.Toggle("x")
	s.Toggle("y")
	s.Toggle("x")
	s.Toggle("x")

	assert.Equal(t, []string{"x", "y"}, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("b")
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
	assert.True(t, s.Toggle("a"), "selection usable after Clear")
}
