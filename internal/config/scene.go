package config

import (
	"fmt"
	"g2d/internal/graphics"
	"g2d/internal/graphics/shapes"
)

// Camera is the scene's initial view.
type Camera struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Scale float32 `yaml:"scale"`
}

// ToCamera converts to the renderer's camera.
func (c Camera) ToCamera() graphics.Camera {
	return graphics.Camera{X: c.X, Y: c.Y, Scale: c.Scale}
}

// Scene is a static list of layers drawn every frame in order.
type Scene struct {
	Camera Camera  `yaml:"camera"`
	Layers []Layer `yaml:"layers,omitempty"`
}

// Layer groups shapes drawn with one mode and, for sprites, one texture.
type Layer struct {
	Mode    string      `yaml:"mode,omitempty"` // solid (default) or outline
	Texture string      `yaml:"texture,omitempty"`
	Shapes  []ShapeSpec `yaml:"shapes"`
}

// ShapeSpec is one shape as written in YAML. Kind selects which fields are
// read.
type ShapeSpec struct {
	Kind     string       `yaml:"kind"` // rectangle, circle, line, sprite
	X        float32      `yaml:"x"`
	Y        float32      `yaml:"y"`
	Z        float32      `yaml:"z,omitempty"`
	X2       float32      `yaml:"x2,omitempty"`
	Y2       float32      `yaml:"y2,omitempty"`
	Rotation [3]float32   `yaml:"rotation,omitempty"`
	Width    float32      `yaml:"width,omitempty"`
	Height   float32      `yaml:"height,omitempty"`
	Radius   float32      `yaml:"radius,omitempty"`
	Layer    int          `yaml:"layer,omitempty"`
	Color    shapes.Color `yaml:"color"`
	Spin     float32      `yaml:"spin,omitempty"` // radians per second about Z
}

// ParseMode maps a config mode name to shapes.Mode.
func ParseMode(s string) (shapes.Mode, error) {
	switch s {
	case "", "solid":
		return shapes.ModeSolid, nil
	case "outline":
		return shapes.ModeOutline, nil
	default:
		return 0, fmt.Errorf("invalid mode %q", s)
	}
}

// ToShape builds the shape value.
func (s ShapeSpec) ToShape() (shapes.Shape, error) {
	rect := shapes.Rectangle{
		X: s.X, Y: s.Y, Z: s.Z,
		RX: s.Rotation[0], RY: s.Rotation[1], RZ: s.Rotation[2],
		Width: s.Width, Height: s.Height,
		Color: s.Color,
	}
	switch s.Kind {
	case "rectangle", "rect":
		return rect, nil
	case "circle":
		return shapes.Circle{
			X: s.X, Y: s.Y, Z: s.Z,
			RX: s.Rotation[0], RY: s.Rotation[1], RZ: s.Rotation[2],
			Radius: s.Radius,
			Color:  s.Color,
		}, nil
	case "line":
		return shapes.Line{X1: s.X, Y1: s.Y, X2: s.X2, Y2: s.Y2, Color: s.Color}, nil
	case "sprite":
		if s.Layer < 0 {
			return nil, fmt.Errorf("sprite layer %d is negative", s.Layer)
		}
		return shapes.Sprite{Rectangle: rect, Layer: s.Layer}, nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
}

// Build converts every shape of the layer.
func (l Layer) Build() (shapes.Mode, []shapes.Shape, error) {
	mode, err := ParseMode(l.Mode)
	if err != nil {
		return 0, nil, err
	}
	out := make([]shapes.Shape, 0, len(l.Shapes))
	for i, spec := range l.Shapes {
		sh, err := spec.ToShape()
		if err != nil {
			return 0, nil, fmt.Errorf("shapes[%d]: %w", i, err)
		}
		if sh.Family() == shapes.FamilySprite && l.Texture == "" {
			return 0, nil, fmt.Errorf("shapes[%d]: sprite in a layer without texture", i)
		}
		out = append(out, sh)
	}
	return mode, out, nil
}

// Validate checks that every layer builds.
func (s Scene) Validate() error {
	for i, l := range s.Layers {
		if _, _, err := l.Build(); err != nil {
			return fmt.Errorf("scene.layers[%d]: %w", i, err)
		}
	}
	return nil
}
