// Package config holds the tunable constants of the demo and loads
// overrides from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kjkrol/polyspin/pkg/gfx"
	"github.com/kjkrol/polyspin/pkg/poly"
	"github.com/kjkrol/polyspin/pkg/scene"
)

// ErrInvalid marks a configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

const DefaultRefreshRate = 60

type Config struct {
	Window      WindowConfig `toml:"window" yaml:"window"`
	Shape       ShapeConfig  `toml:"shape" yaml:"shape"`
	Colors      ColorConfig  `toml:"colors" yaml:"colors"`
	RefreshRate int          `toml:"refresh_rate" yaml:"refresh_rate"`
}

type WindowConfig struct {
	Title       string `toml:"title" yaml:"title"`
	Width       int    `toml:"width" yaml:"width"`
	Height      int    `toml:"height" yaml:"height"`
	PositionX   int    `toml:"position_x" yaml:"position_x"`
	PositionY   int    `toml:"position_y" yaml:"position_y"`
	BorderWidth int    `toml:"border_width" yaml:"border_width"`
}

type ShapeConfig struct {
	Sides            int     `toml:"sides" yaml:"sides"`
	MinSides         int     `toml:"min_sides" yaml:"min_sides"`
	MaxSides         int     `toml:"max_sides" yaml:"max_sides"`
	Radius           float64 `toml:"radius" yaml:"radius"`
	DegreesPerSecond float64 `toml:"degrees_per_second" yaml:"degrees_per_second"`
}

// ColorConfig holds RGBA colours with components in [0, 1].
type ColorConfig struct {
	Background [4]float32 `toml:"background" yaml:"background"`
	Fill       [4]float32 `toml:"fill" yaml:"fill"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "polyspin",
			Width:  scene.DefaultWidth,
			Height: scene.DefaultHeight,
		},
		Shape: ShapeConfig{
			Sides:            scene.DefaultSides,
			MinSides:         scene.DefaultMinSides,
			MaxSides:         scene.DefaultMaxSides,
			Radius:           scene.DefaultRadius,
			DegreesPerSecond: gfx.DefaultDegreesPerSecond,
		},
		Colors: ColorConfig{
			Background: scene.DefaultBackground,
			Fill:       scene.DefaultFill,
		},
		RefreshRate: DefaultRefreshRate,
	}
}

// Load reads path over the defaults. The decoder is chosen by extension:
// .toml, .yaml or .yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %s: unsupported format %q", ErrInvalid, path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem found, joined, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Shape.MinSides < poly.MinSides {
		bad("min_sides %d below %d", c.Shape.MinSides, poly.MinSides)
	}
	if c.Shape.MaxSides < c.Shape.MinSides {
		bad("max_sides %d below min_sides %d", c.Shape.MaxSides, c.Shape.MinSides)
	}
	if c.Shape.Sides < c.Shape.MinSides || c.Shape.Sides > c.Shape.MaxSides {
		bad("sides %d outside [%d, %d]", c.Shape.Sides, c.Shape.MinSides, c.Shape.MaxSides)
	}
	if c.Shape.Radius <= 0 {
		bad("radius %g", c.Shape.Radius)
	}
	if c.RefreshRate < 0 {
		bad("refresh_rate %d", c.RefreshRate)
	}
	checkColor := func(name string, col [4]float32) {
		for _, v := range col {
			if v < 0 || v > 1 {
				bad("%s colour %v outside [0, 1]", name, col)
				return
			}
		}
	}
	checkColor("background", c.Colors.Background)
	checkColor("fill", c.Colors.Fill)
	return errors.Join(errs...)
}

// SceneConfig converts the shape, colour and window settings for scene.New.
func (c Config) SceneConfig() scene.Config {
	return scene.Config{
		Sides:            c.Shape.Sides,
		MinSides:         c.Shape.MinSides,
		MaxSides:         c.Shape.MaxSides,
		Radius:           c.Shape.Radius,
		DegreesPerSecond: c.Shape.DegreesPerSecond,
		Background:       mgl32.Vec4(c.Colors.Background),
		Fill:             mgl32.Vec4(c.Colors.Fill),
		Viewport:         gfx.Viewport{Width: c.Window.Width, Height: c.Window.Height},
	}
}

// WindowConfig converts the window settings, including the side-count
// slider.
func (c Config) WindowConfig() gfx.WindowConfig {
	return gfx.WindowConfig{
		PositionX:   c.Window.PositionX,
		PositionY:   c.Window.PositionY,
		Width:       c.Window.Width,
		Height:      c.Window.Height,
		BorderWidth: c.Window.BorderWidth,
		Title:       c.Window.Title,
		Slider: gfx.SliderConfig{
			Min:   c.Shape.MinSides,
			Max:   c.Shape.MaxSides,
			Value: c.Shape.Sides,
		},
	}
}
