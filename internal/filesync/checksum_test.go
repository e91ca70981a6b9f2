package filesync

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalChecksum_Deterministic(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/a.yml", []byte("hello: world\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/b.yml", []byte("hello: world\n"), 0o644))

	a := LocalChecksum(fs, "/p/a.yml")
	b := LocalChecksum(fs, "/p/b.yml")
	assert.Equal(t, a, b)
	assert.Equal(t, a, LocalChecksum(fs, "/p/a.yml"))
	assert.Equal(t, ChecksumBytes([]byte("hello: world\n")), a)
	assert.Len(t, a.String(), 40)
}

func TestLocalChecksum_EmptySentinel(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/empty.yml", nil, 0o644))

	assert.Equal(t, EmptyChecksum, LocalChecksum(fs, "/p/missing.yml"))
	assert.Equal(t, EmptyChecksum, LocalChecksum(fs, "/p/empty.yml"))
	assert.Equal(t, EmptyChecksum, ChecksumBytes(nil))
	assert.True(t, EmptyChecksum.IsEmpty())

	for _, content := range []string{"a", " ", "\n", "0"} {
		assert.NotEqual(t, EmptyChecksum, ChecksumBytes([]byte(content)), "content %q", content)
	}
}

func TestDisplayPair(t *testing.T) {
	local := Checksum("0123456789abcdef")
	assert.Equal(t, "0123456..-------", DisplayPair(local, EmptyChecksum))
	assert.Equal(t, "-------..0123456", DisplayPair(EmptyChecksum, local))
	assert.Equal(t, "abc..0123456", DisplayPair("abc", local))
}
