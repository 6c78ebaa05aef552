package renderer

import (
	"g2d/internal/graphics"
)

// Frame is the per-frame state shared with every renderable.
type Frame struct {
	Camera graphics.Camera
	DT     float64
	Width  int
	Height int
}

// Renderable is a feature drawn once per frame through a Context.
type Renderable interface {
	Init(ctx *Context) error
	Render(ctx *Context, frame Frame) error
	Dispose()
}
