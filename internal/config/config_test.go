package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjkrol/polyspin/internal/config"
	"github.com/kjkrol/polyspin/pkg/scene"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	sc := cfg.SceneConfig()
	assert.Equal(t, scene.DefaultConfig(), sc)

	wc := cfg.WindowConfig()
	assert.Equal(t, 640, wc.Width)
	assert.Equal(t, 480, wc.Height)
	assert.Equal(t, 3, wc.Slider.Min)
	assert.Equal(t, 12, wc.Slider.Max)
	assert.Equal(t, 6, wc.Slider.Value)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "polyspin.toml", `
refresh_rate = 30

[window]
width = 800
height = 800

[shape]
sides = 9
degrees_per_second = 90.0

[colors]
fill = [1.0, 0.0, 0.0, 1.0]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.RefreshRate)
	assert.Equal(t, "polyspin", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 9, cfg.Shape.Sides)
	assert.Equal(t, 12, cfg.Shape.MaxSides)
	assert.Equal(t, 0.5, cfg.Shape.Radius)

	sc := cfg.SceneConfig()
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, sc.Fill)
	assert.Equal(t, scene.DefaultBackground, sc.Background)
	assert.Equal(t, float32(1), sc.Viewport.Aspect())
	assert.Equal(t, 90.0, sc.DegreesPerSecond)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "polyspin.yaml", `
window:
  title: spin
shape:
  sides: 3
  radius: 0.75
colors:
  background: [0, 0, 0, 1]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "spin", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 3, cfg.Shape.Sides)
	assert.Equal(t, 0.75, cfg.Shape.Radius)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Colors.Background)
	assert.Equal(t, 3, cfg.WindowConfig().Slider.Value)
}

func TestLoad_EmptyYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "empty.yml", "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"unsupported extension", "polyspin.json", `{}`},
		{"unknown toml key", "bad.toml", "[shape]\ncorners = 5\n"},
		{"unknown yaml key", "bad.yaml", "shape:\n  corners: 5\n"},
		{"malformed toml", "bad.toml", "[shape\n"},
		{"short colour", "bad.yaml", "colors:\n  fill: [1, 1]\n"},
		{"sides above max", "bad.toml", "[shape]\nsides = 13\n"},
		{"zero radius", "bad.yaml", "shape:\n  radius: 0\n"},
		{"colour out of range", "bad.toml", "[colors]\nfill = [2.0, 0.0, 0.0, 1.0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, config.ErrInvalid)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width = 0
	cfg.Shape.MinSides = 2
	cfg.RefreshRate = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "window size 0x480")
	assert.Contains(t, err.Error(), "min_sides 2 below 3")
	assert.Contains(t, err.Error(), "refresh_rate -1")
}
