package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 1280, cfg.CanvasWidth)
	assert.Equal(t, 720, cfg.CanvasHeight)
	assert.Equal(t, 32.0, cfg.GridSpacing)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/canvas")
	t.Setenv("GRID_SPACING", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/canvas", cfg.DatabaseURL)
	assert.Equal(t, 16.0, cfg.GridSpacing)
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("CANVAS_WIDTH", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CANVAS_WIDTH", "abc")
	_, err = Load()
	assert.Error(t, err)
}
