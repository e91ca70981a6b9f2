package filesync

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte("greeting: hello\n")
	require.NoError(t, afero.WriteFile(fs, "/p/en.yml", content, 0o644))
	sum := ChecksumBytes(content)

	tests := []struct {
		name   string
		desc   FileDescriptor
		force  bool
		expect Decision
	}{
		{
			name:   "matching checksums skip",
			desc:   FileDescriptor{LocalPath: "/p/en.yml", RemoteChecksum: sum},
			expect: DecisionSkip,
		},
		{
			name:   "force transfers",
			desc:   FileDescriptor{LocalPath: "/p/en.yml", RemoteChecksum: sum},
			force:  true,
			expect: DecisionTransfer,
		},
		{
			name:   "different checksums transfer",
			desc:   FileDescriptor{LocalPath: "/p/en.yml", RemoteChecksum: "deadbeef"},
			expect: DecisionTransfer,
		},
		{
			name:   "unknown remote checksum transfers",
			desc:   FileDescriptor{LocalPath: "/p/en.yml"},
			expect: DecisionTransfer,
		},
		{
			name:   "missing local file transfers",
			desc:   FileDescriptor{LocalPath: "/p/fr.yml", RemoteChecksum: sum},
			expect: DecisionTransfer,
		},
		{
			name:   "missing local file with empty remote transfers",
			desc:   FileDescriptor{LocalPath: "/p/fr.yml"},
			expect: DecisionTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Inspect(fs, tt.desc, tt.force)
			assert.Equal(t, tt.expect, state.Decision)
			assert.Equal(t, tt.expect == DecisionTransfer, ShouldTransfer(fs, tt.desc, tt.force))
		})
	}
}

func TestInspect_RecomputesLocalChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/en.yml", []byte("v1"), 0o644))
	d := FileDescriptor{LocalPath: "/p/en.yml", RemoteChecksum: ChecksumBytes([]byte("v1"))}

	assert.False(t, ShouldTransfer(fs, d, false))

	require.NoError(t, afero.WriteFile(fs, "/p/en.yml", []byte("v2"), 0o644))
	assert.True(t, ShouldTransfer(fs, d, false))
}

func TestInspect_EmptyLocalFileAlwaysTransfers(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/en.yml", nil, 0o644))

	state := Inspect(fs, FileDescriptor{LocalPath: "/p/en.yml", RemoteChecksum: EmptyChecksum}, false)
	assert.True(t, state.Exists)
	assert.Equal(t, DecisionTransfer, state.Decision)
}

func TestFileDescriptor_Copies(t *testing.T) {
	d := FileDescriptor{ID: "1", LocalPath: "en.yml", SourceLocale: "en"}
	updated := d.WithRemoteChecksum("abc").WithFresh(true)

	assert.Equal(t, EmptyChecksum, d.RemoteChecksum)
	assert.False(t, d.Fresh)
	assert.Equal(t, Checksum("abc"), updated.RemoteChecksum)
	assert.True(t, updated.Fresh)

	assert.True(t, d.IsMaster())
	assert.Equal(t, "en", d.URLLocale())
	assert.Equal(t, "*en.yml", d.DisplayPath())
	assert.Equal(t, "en.yml", updated.DisplayPath())

	fr := FileDescriptor{Locale: "fr", SourceLocale: "en"}
	assert.False(t, fr.IsMaster())
	assert.Equal(t, "fr", fr.URLLocale())
}
