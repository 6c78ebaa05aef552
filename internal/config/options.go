// Package config loads render options from YAML and keeps the settings that
// can change while running.
package config

import (
	"errors"
	"fmt"
	"g2d/internal/graphics/shapes"
	"os"

	"gopkg.in/yaml.v3"
)

// Truncation names the capacity policy in config files.
type Truncation string

const (
	TruncateSilently Truncation = "silent"
	TruncateStrict   Truncation = "strict"
)

// UnmarshalYAML implements yaml.Unmarshaler for Truncation.
func (t *Truncation) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch Truncation(s) {
	case "":
		*t = TruncateSilently
	case TruncateSilently, TruncateStrict:
		*t = Truncation(s)
	default:
		return fmt.Errorf("invalid truncation %q: want %q or %q", s, TruncateSilently, TruncateStrict)
	}
	return nil
}

// Window configures the demo window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"` // 0 disables the limiter
	VSync  bool   `yaml:"vsync"`
}

// Texture is an atlas to preload before the first frame.
type Texture struct {
	URL        string `yaml:"url"`
	CellHeight int    `yaml:"cell_height"` // 0 loads the image as one layer
}

// Options is the top-level config file.
type Options struct {
	MaxInstances         int          `yaml:"max_instances"`
	CirclePoints         int          `yaml:"circle_points"`
	Truncation           Truncation   `yaml:"truncation"`
	MaxConcurrentFetches int          `yaml:"max_concurrent_fetches"`
	ClearColor           shapes.Color `yaml:"clear_color"`
	Window               Window       `yaml:"window"`
	AssetRoot            string       `yaml:"asset_root,omitempty"`
	ShaderDir            string       `yaml:"shader_dir,omitempty"` // overrides the built-in shaders
	DownloadProgress     bool         `yaml:"download_progress"`
	Textures             []Texture    `yaml:"textures,omitempty"`
	Scene                Scene        `yaml:"scene"`
}

// Default returns the options used when no file is given.
func Default() Options {
	return Options{
		MaxInstances:         100,
		CirclePoints:         50,
		Truncation:           TruncateSilently,
		MaxConcurrentFetches: 4,
		ClearColor:           shapes.RGBA(0.08, 0.08, 0.1, 1),
		Window: Window{
			Width:  900,
			Height: 600,
			Title:  "g2d",
			FPS:    120,
		},
		Scene: Scene{Camera: Camera{Scale: 1}},
	}
}

// Strict reports whether draws past capacity should fail.
func (o Options) Strict() bool {
	return o.Truncation == TruncateStrict
}

// LoadFile reads options from a YAML file. Missing keys keep their defaults.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	o, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Options, error) {
	o := Default()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for explicit zeros
	def := Default()
	if o.MaxInstances == 0 {
		o.MaxInstances = def.MaxInstances
	}
	if o.CirclePoints == 0 {
		o.CirclePoints = def.CirclePoints
	}
	if o.MaxConcurrentFetches == 0 {
		o.MaxConcurrentFetches = def.MaxConcurrentFetches
	}
	if o.Truncation == "" {
		o.Truncation = TruncateSilently
	}
	if o.Scene.Camera.Scale == 0 {
		o.Scene.Camera.Scale = 1
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks ranges and that every scene shape can be built.
func (o *Options) Validate() error {
	var errs []error
	if o.MaxInstances < 0 {
		errs = append(errs, fmt.Errorf("max_instances must be positive, got %d", o.MaxInstances))
	}
	if o.CirclePoints < 3 {
		errs = append(errs, fmt.Errorf("circle_points must be at least 3, got %d", o.CirclePoints))
	}
	if o.MaxConcurrentFetches < 0 {
		errs = append(errs, fmt.Errorf("max_concurrent_fetches must be positive, got %d", o.MaxConcurrentFetches))
	}
	if o.Window.Width <= 0 || o.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is invalid", o.Window.Width, o.Window.Height))
	}
	for i, t := range o.Textures {
		if t.URL == "" {
			errs = append(errs, fmt.Errorf("textures[%d]: missing url", i))
		}
		if t.CellHeight < 0 {
			errs = append(errs, fmt.Errorf("textures[%d]: cell_height must not be negative", i))
		}
	}
	if err := o.Scene.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
