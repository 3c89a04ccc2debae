// Package config holds the constants that drive a batch run.
//
// A Config is built once at startup, either from Default or by overlaying a
// YAML file with Load, and then passed by value to every component. Nothing
// in this package is mutated after construction.
//
// The color band table is deliberately not part of Config; see
// detection.Bands.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/color-regions/internal/imaging"
)

// Color is an RGBA color written as a hex string ("#00FF00") in YAML.
type Color struct {
	color.RGBA
}

// UnmarshalYAML parses a hex color string.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	rgba, err := imaging.ParseHexColor(s)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", s, err)
	}
	c.RGBA = rgba
	return nil
}

// MarshalYAML writes the color as "#RRGGBB".
func (c Color) MarshalYAML() (interface{}, error) {
	return imaging.HexString(c.RGBA), nil
}

// Label controls where label anchors go and how collisions are resolved.
type Label struct {
	// Margin is the padding in pixels around the label text background.
	Margin int `yaml:"margin"`

	// AboveOffset is how far above the box top the anchor is placed.
	AboveOffset int `yaml:"above_offset"`

	// MinTop is the smallest anchor y allowed above a box; if y-AboveOffset
	// is not greater than MinTop the label goes below the box instead.
	MinTop int `yaml:"min_top"`

	// BelowOffset is how far below the box bottom the anchor is placed.
	BelowOffset int `yaml:"below_offset"`

	// OverlapX and OverlapY are the distances under which two anchors
	// collide. Both must be strictly smaller for a collision.
	OverlapX int `yaml:"overlap_x"`
	OverlapY int `yaml:"overlap_y"`

	// ShiftStep is added to the colliding anchor's y to get the new y.
	ShiftStep int `yaml:"shift_step"`
}

// Config holds every tunable constant of a run.
type Config struct {
	// CanvasWidth and CanvasHeight are the output dimensions of every image.
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`

	// MinArea is the smallest region area that is annotated.
	MinArea float64 `yaml:"min_area"`

	// BoxColor is used for box outlines and label backgrounds.
	BoxColor Color `yaml:"box_color"`

	// TextColor is used for label text.
	TextColor Color `yaml:"text_color"`

	// Thickness is the box outline width in pixels.
	Thickness float64 `yaml:"thickness"`

	// FontScale scales the label font; 1.0 is roughly 22 pixels tall.
	FontScale float64 `yaml:"font_scale"`

	Label Label `yaml:"label"`

	// Workers is the number of images processed at once.
	Workers int `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CanvasWidth:  800,
		CanvasHeight: 800,
		MinArea:      7000,
		BoxColor:     Color{color.RGBA{R: 0, G: 255, B: 0, A: 255}},
		TextColor:    Color{color.RGBA{R: 0, G: 0, B: 0, A: 255}},
		Thickness:    2,
		FontScale:    0.6,
		Label: Label{
			Margin:      5,
			AboveOffset: 10,
			MinTop:      10,
			BelowOffset: 20,
			OverlapX:    100,
			OverlapY:    30,
			ShiftStep:   30,
		},
		Workers: 1,
	}
}

// Load reads a YAML file and overlays it on Default.
//
// Keys missing from the file keep their default values. The result is
// validated before it is returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting, if any.
func (c Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	case c.MinArea < 0:
		return errors.New("min_area must not be negative")
	case c.Thickness <= 0:
		return errors.New("thickness must be positive")
	case c.FontScale <= 0:
		return errors.New("font_scale must be positive")
	case c.Label.Margin < 0:
		return errors.New("label margin must not be negative")
	case c.Label.OverlapX < 0 || c.Label.OverlapY < 0:
		return errors.New("label overlap distances must not be negative")
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
