package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("negative weight", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Alpha = -0.5
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("empty k stages", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.KStages = nil
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("non-increasing k stages", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.KStages = []int{30, 30, 100}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("decreasing k stages", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.KStages = []int{100, 60, 30}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("max tau below min tau", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinTau = 800
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("agree k below two", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AgreeK = 1
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "freshet.yaml")
		data := []byte("alpha: 2.0\nk_stages: [10, 20]\nmargin_thresh: 0.1\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 2.0, cfg.Alpha)
		assert.Equal(t, []int{10, 20}, cfg.KStages)
		assert.Equal(t, 0.1, cfg.MarginThresh)
		// untouched fields keep defaults
		assert.Equal(t, 1.0, cfg.Beta)
		assert.Equal(t, 2.5, cfg.BaseDelta)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "freshet.yaml")
		require.NoError(t, os.WriteFile(path, []byte("k_stages: [50, 20]\n"), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
