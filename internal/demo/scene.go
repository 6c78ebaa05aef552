// Package demo holds the renderables and frame pacing used by the demo
// command.
package demo

import (
	"fmt"
	"g2d/internal/config"
	"g2d/internal/graphics/renderer"
	"g2d/internal/graphics/shapes"
	"math"
)

type layer struct {
	mode    shapes.Mode
	texture string
	base    []shapes.Shape
	spin    []float32
	frame   []shapes.Shape
}

// Scene draws the configured layers every frame, rotating shapes that have a
// spin rate. An empty config gets a generated showcase.
type Scene struct {
	cfg     config.Scene
	layers  []layer
	elapsed float64
}

func NewScene(cfg config.Scene) *Scene {
	return &Scene{cfg: cfg}
}

func (s *Scene) Init(ctx *renderer.Context) error {
	cfgLayers := s.cfg.Layers
	if len(cfgLayers) == 0 {
		w, h := ctx.Viewport()
		cfgLayers = Showcase(float32(w), float32(h))
	}

	s.layers = s.layers[:0]
	for i, cl := range cfgLayers {
		mode, items, err := cl.Build()
		if err != nil {
			return fmt.Errorf("scene layer %d: %w", i, err)
		}
		l := layer{
			mode:    mode,
			texture: cl.Texture,
			base:    items,
			spin:    make([]float32, len(cl.Shapes)),
			frame:   make([]shapes.Shape, len(items)),
		}
		for j, spec := range cl.Shapes {
			l.spin[j] = spec.Spin
		}
		s.layers = append(s.layers, l)
	}
	return nil
}

// Render draws every layer. Textured layers are skipped until their texture
// has been uploaded.
func (s *Scene) Render(ctx *renderer.Context, frame renderer.Frame) error {
	s.elapsed += frame.DT
	outline := config.GetOutline()

	for i := range s.layers {
		l := &s.layers[i]
		if l.texture != "" {
			if _, ok := ctx.Texture(l.texture); !ok {
				continue
			}
		}
		mode := l.mode
		if outline {
			mode = shapes.ModeOutline
		}
		for j, sh := range l.base {
			l.frame[j] = spun(sh, l.spin[j]*float32(s.elapsed))
		}
		if err := ctx.DrawShapes(mode, l.texture, l.frame, frame.Camera); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) Dispose() {
	s.layers = nil
}

// spun returns sh rotated by angle radians about Z.
func spun(sh shapes.Shape, angle float32) shapes.Shape {
	if angle == 0 {
		return sh
	}
	switch v := sh.(type) {
	case shapes.Rectangle:
		v.RZ += angle
		return v
	case shapes.Circle:
		v.RZ += angle
		return v
	case shapes.Sprite:
		v.RZ += angle
		return v
	default:
		return sh
	}
}

// Showcase lays out a grid of spinning rectangles, a ring of circles and a
// fan of lines sized to the viewport.
func Showcase(w, h float32) []config.Layer {
	var rects, circles, lines config.Layer
	circles.Mode = "outline"

	const cols, rows = 8, 4
	cw, ch := w/cols, h/2/rows
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := float32(r*cols+c) / (cols * rows)
			rects.Shapes = append(rects.Shapes, config.ShapeSpec{
				Kind:   "rectangle",
				X:      (float32(c)+0.5)*cw - w/2,
				Y:      (float32(r)+0.5)*ch - h/2,
				Width:  cw * 0.6,
				Height: ch * 0.6,
				Color:  shapes.RGBA(t, 0.4, 1-t, 0.9),
				Spin:   0.5 + t,
			})
		}
	}

	const ring = 24
	radius := min(w, h) / 5
	for i := 0; i < ring; i++ {
		a := 2 * math.Pi * float64(i) / ring
		circles.Shapes = append(circles.Shapes, config.ShapeSpec{
			Kind:   "circle",
			X:      radius * float32(math.Cos(a)),
			Y:      h/4 + radius*float32(math.Sin(a)),
			Radius: radius / 6,
			Color:  shapes.RGBA(1, float32(i)/ring, 0.2, 1),
		})
	}

	const fan = 16
	for i := 0; i < fan; i++ {
		a := math.Pi * float64(i) / (fan - 1)
		lines.Shapes = append(lines.Shapes, config.ShapeSpec{
			Kind:  "line",
			X:     0,
			Y:     h / 2,
			X2:    w / 2 * float32(math.Cos(a)),
			Y2:    h/2 - h/3*float32(math.Sin(a)),
			Color: shapes.RGBA(0.9, 0.9, 0.9, 0.6),
		})
	}

	return []config.Layer{rects, circles, lines}
}
