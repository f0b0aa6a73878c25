package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	// Generate many IDs and verify they're unique
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	prefixes := []string{"user", "recipe", "tag", "session"}

	for _, prefix := range prefixes {
		id, err := Generate(prefix)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, prefix+"-"), "ID should start with prefix: %s", id)

		// Default NanoID is 21 characters plus prefix and separator.
		assert.Len(t, id, len(prefix)+1+21)
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("recipe")
		assert.True(t, strings.HasPrefix(id, "recipe-"))
	})
}
