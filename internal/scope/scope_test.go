package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LazyAllocation(t *testing.T) {
	s := New()
	_, ok := s.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.values, "a read must not allocate")

	s.Set("x", 4)
	v, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
	assert.Equal(t, map[string]float64{"x": 4}, s.Snapshot())
}

func TestApply(t *testing.T) {
	v, err := Apply(5, "+", 2)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = Apply(7, "-", 10)
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)

	v, err = Apply(7, "=", 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = Apply(7, "cw", 10)
	require.ErrorIs(t, err, ErrInvalidCommand)
	assert.Equal(t, 7.0, v)
}
