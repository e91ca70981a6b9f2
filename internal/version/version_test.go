package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Revision)

	assert.Contains(t, Short(), Version)
	assert.Contains(t, Short(), Revision)

	detailed := Detailed()
	assert.Contains(t, detailed, Version)
	assert.Contains(t, detailed, "/")
	assert.True(t, strings.HasPrefix(DetailedWithApp(), AppName+" "))

	assert.True(t, strings.HasPrefix(UserAgent(), AppName+"/"+Version))
}

func TestApplyBuildInfo(t *testing.T) {
	origVersion, origRevision, origBuildDate := Version, Revision, BuildDate
	t.Cleanup(func() {
		Version, Revision, BuildDate = origVersion, origRevision, origBuildDate
	})

	t.Run("fills defaults", func(t *testing.T) {
		Version, Revision, BuildDate = devVersion, "HEAD", ""

		applyBuildInfo("v1.2.3", map[string]string{
			"vcs.revision": "abcdef1234567890",
			"vcs.modified": "true",
			"vcs.time":     "2025-12-12T01:00:00Z",
		})

		assert.Equal(t, "1.2.3", Version)
		assert.Equal(t, "abcdef1234567890-dirty", Revision)
		assert.Equal(t, "2025-12-12T01:00:00Z", BuildDate)
	})

	t.Run("keeps ldflags values", func(t *testing.T) {
		Version, Revision, BuildDate = "2.0.0", "cafe", "yesterday"

		applyBuildInfo("(devel)", map[string]string{"vcs.revision": "beef"})

		assert.Equal(t, "2.0.0", Version)
		assert.Equal(t, "cafe", Revision)
		assert.Equal(t, "yesterday", BuildDate)
	})
}
