package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDefaults(t *testing.T) {
	m := NewMemory()

	b, err := m.GetBool("Prefix Verbs.lesson")
	require.NoError(t, err)
	assert.False(t, b)

	n, err := m.GetInt("Prefix Verbs.score")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SetBool("Prefix Verbs.lesson", true))
	require.NoError(t, m.SetInt("Prefix Verbs.score", 180))

	b, err := m.GetBool("Prefix Verbs.lesson")
	require.NoError(t, err)
	assert.True(t, b)

	n, err := m.GetInt("Prefix Verbs.score")
	require.NoError(t, err)
	assert.Equal(t, 180, n)
	assert.Equal(t, 2, m.Len())
}

func TestMemoryTypeMismatch(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SetBool("x.lesson", true))

	_, err := m.GetInt("x.lesson")
	assert.Error(t, err)
}
