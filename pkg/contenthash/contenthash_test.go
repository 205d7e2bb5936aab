package contenthash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitHash(t *testing.T) {
	h1, err := CommitHash("alice", []byte("salt"), []byte("content"))
	require.NoError(t, err)
	assert.NotEmpty(t, h1)
	assert.True(t, strings.HasPrefix(h1, "b"), "base32 multibase prefix")

	// deterministic for the same triple
	h2, err := CommitHash("alice", []byte("salt"), []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// any component changing changes the hash
	for name, other := range map[string][3]string{
		"creator": {"bob", "salt", "content"},
		"salt":    {"alice", "pepper", "content"},
		"content": {"alice", "salt", "different"},
	} {
		h, err := CommitHash(other[0], []byte(other[1]), []byte(other[2]))
		require.NoError(t, err)
		assert.NotEqual(t, h1, h, name)
	}
}

func TestCommitHash_EmptyInputs(t *testing.T) {
	h, err := CommitHash("", nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, h)
}
