package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j := New(filepath.Join(t.TempDir(), ".transync", "journal.db"))
	require.NoError(t, j.Open())
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_SetGet(t *testing.T) {
	j := openJournal(t)

	got, err := j.Get("config/locales/fr.yml")
	require.NoError(t, err)
	assert.Nil(t, got)

	syncedAt := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, j.Set(&Entry{Path: "config/locales/fr.yml", FileID: "2", Locale: "fr", Checksum: "abc", SyncedAt: syncedAt}))

	got, err = j.Get("config/locales/fr.yml")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.FileID)
	assert.Equal(t, "fr", got.Locale)
	assert.Equal(t, "abc", got.Checksum)
	assert.True(t, syncedAt.Equal(got.SyncedAt))

	require.NoError(t, j.Set(&Entry{Path: "config/locales/fr.yml", FileID: "2", Locale: "fr", Checksum: "def"}))
	got, err = j.Get("config/locales/fr.yml")
	require.NoError(t, err)
	assert.Equal(t, "def", got.Checksum)
	assert.False(t, got.SyncedAt.IsZero())
}

func TestJournal_AllAndDelete(t *testing.T) {
	j := openJournal(t)

	require.NoError(t, j.Set(&Entry{Path: "en.yml", FileID: "1", Checksum: "a"}))
	require.NoError(t, j.Set(&Entry{Path: "fr.yml", FileID: "2", Locale: "fr", Checksum: "b"}))

	all, err := j.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "b", all["fr.yml"].Checksum)

	require.NoError(t, j.Delete("en.yml"))
	all, err = j.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "fr.yml")
}

func TestJournal_OpenTwiceAndClosed(t *testing.T) {
	j := openJournal(t)
	assert.ErrorIs(t, j.Open(), ErrAlreadyOpen)

	closed := New(filepath.Join(t.TempDir(), "journal.db"))
	_, err := closed.Get("x")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, closed.Set(&Entry{Path: "x"}), ErrNotOpen)
	assert.ErrorIs(t, closed.Close(), ErrNotOpen)
}
