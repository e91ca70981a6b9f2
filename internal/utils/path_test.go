package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{
			name:      "empty path",
			input:     "",
			wantError: true,
		},
		{
			name:      "relative path",
			input:     "./locales",
			wantError: false,
		},
		{
			name:      "absolute path",
			input:     "/tmp/locales",
			wantError: false,
		},
		{
			name:      "home path",
			input:     "~/project",
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolvePath(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(result))
		})
	}
}

func TestEnsureParentAndFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "fr.yml")
	assert.False(t, FileExists(path))

	require.NoError(t, EnsureParent(path))
	assert.DirExists(t, filepath.Dir(path))
	// idempotent
	require.NoError(t, EnsureParent(path))

	require.NoError(t, os.WriteFile(path, []byte("fr: {}"), 0o644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))
}

func TestEnsureDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	assert.Error(t, EnsureDir(path))
	assert.NoError(t, EnsureDir(filepath.Join(t.TempDir(), "a", "b")))
}
