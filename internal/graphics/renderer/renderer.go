package renderer

import (
	"fmt"
	"g2d/internal/graphics"
	"g2d/internal/graphics/shapes"
	"g2d/internal/profiling"
	"log/slog"
)

// Renderer orchestrates a frame: clear, upload finished textures, then run
// every renderable in order.
type Renderer struct {
	ctx         *Context
	renderables []Renderable
	background  shapes.Color
	camera      graphics.Camera
}

// NewRenderer initializes rs against ctx. On error the renderables already
// initialized are disposed.
func NewRenderer(ctx *Context, background shapes.Color, rs ...Renderable) (*Renderer, error) {
	r := &Renderer{
		ctx:        ctx,
		background: background,
		camera:     graphics.DefaultCamera(),
	}
	for i, rr := range rs {
		if err := rr.Init(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, fmt.Errorf("init renderable %d: %w", i, err)
		}
	}
	r.renderables = rs
	return r, nil
}

// Render draws one frame. A renderable error is logged and does not stop
// the others; the first error is returned.
func (r *Renderer) Render(dt float64) error {
	defer profiling.Track("renderer.Render")()
	r.ctx.Fill(r.background)
	r.ctx.Pump()

	w, h := r.ctx.Viewport()
	frame := Frame{Camera: r.camera, DT: dt, Width: w, Height: h}

	var first error
	for i, rr := range r.renderables {
		if err := rr.Render(r.ctx, frame); err != nil {
			graphics.Logger().Warn("render failed",
				slog.Int("renderable", i),
				slog.String("error", err.Error()))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Camera returns the camera used for the next frame.
func (r *Renderer) Camera() graphics.Camera {
	return r.camera
}

// SetCamera replaces the camera used for the next frame.
func (r *Renderer) SetCamera(cam graphics.Camera) {
	r.camera = cam
}

// Context returns the draw context the renderables share.
func (r *Renderer) Context() *Context {
	return r.ctx
}

// UpdateViewport resizes the surface.
func (r *Renderer) UpdateViewport(width, height int) {
	r.ctx.Resize(width, height)
}

// Dispose cleans up all renderables in reverse order.
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.renderables = nil
}
