package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueStringIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := UniqueString(50)
		require.NoError(t, err)
		require.False(t, seen[s], "duplicate random string")
		seen[s] = true
	}
}

func TestUniqueStringIsURLSafe(t *testing.T) {
	s, err := UniqueString(100)
	require.NoError(t, err)

	assert.NotContains(t, s, "+")
	assert.NotContains(t, s, "/")
	assert.NotContains(t, s, "=")
}
