// Package shapes defines the per-instance records the renderer draws. Values
// are supplied fresh on every draw call; nothing here carries identity across
// frames.
package shapes

import "image/color"

// Family is the closed set of shape kinds the renderer knows how to batch.
type Family int

const (
	FamilyRectangle Family = iota
	FamilyCircle
	FamilyLine
	FamilySprite
)

func (f Family) String() string {
	switch f {
	case FamilyRectangle:
		return "rectangle"
	case FamilyCircle:
		return "circle"
	case FamilyLine:
		return "line"
	case FamilySprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// Mode selects filled or outlined primitives for rectangles and circles.
type Mode int

const (
	ModeSolid Mode = iota
	ModeOutline
)

// Color is RGBA. Components are not clamped; that happens on the GPU.
type Color [4]float32

// RGBA builds a Color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// FromColor converts a color.Color to normalized float components.
func FromColor(c color.Color) Color {
	if c == nil {
		return Color{}
	}
	r, g, b, a := c.RGBA()
	const inv = 1.0 / 65535.0
	return Color{
		float32(r) * inv,
		float32(g) * inv,
		float32(b) * inv,
		float32(a) * inv,
	}
}

// Shape is implemented only by the types in this package.
type Shape interface {
	Family() Family
	shape()
}

// Rectangle is centered on (X, Y) and rotated about each axis by RX, RY, RZ
// radians.
type Rectangle struct {
	X, Y, Z    float32
	RX, RY, RZ float32
	Width      float32
	Height     float32
	Color      Color
}

func (Rectangle) Family() Family { return FamilyRectangle }
func (Rectangle) shape()         {}

// Circle is centered on (X, Y).
type Circle struct {
	X, Y, Z    float32
	RX, RY, RZ float32
	Radius     float32
	Color      Color
}

func (Circle) Family() Family { return FamilyCircle }
func (Circle) shape()         {}

// Line is a single segment between two free endpoints.
type Line struct {
	X1, Y1 float32
	X2, Y2 float32
	Color  Color
}

func (Line) Family() Family { return FamilyLine }
func (Line) shape()         {}

// Sprite is a textured quad. Layer selects the atlas cell sampled.
type Sprite struct {
	Rectangle
	Layer int
}

func (Sprite) Family() Family { return FamilySprite }
func (Sprite) shape()         {}
