package syncsdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://127.0.0.1:8080", ProjectKey: "key"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing base url fails", func(t *testing.T) {
		cfg := &Config{ProjectKey: "key"}
		assert.ErrorIs(t, cfg.Validate(), ErrNoServerURL)
	})

	t.Run("bad scheme fails", func(t *testing.T) {
		cfg := &Config{BaseURL: "ftp://example.com", ProjectKey: "key"}
		assert.ErrorIs(t, cfg.Validate(), ErrNoServerURL)
	})

	t.Run("missing project key fails", func(t *testing.T) {
		cfg := &Config{BaseURL: "https://example.com"}
		assert.ErrorIs(t, cfg.Validate(), ErrNoProjectKey)
	})
}

func TestNew(t *testing.T) {
	c, err := New(&Config{BaseURL: "https://example.com", ProjectKey: "key", Timeout: time.Second})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "https://example.com", c.BaseURL())
	assert.NotNil(t, c.Projects)
	assert.NotNil(t, c.Authorizer())

	_, err = New(&Config{})
	assert.ErrorIs(t, err, ErrNoServerURL)
}
