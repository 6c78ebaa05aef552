package graphics

import (
	"g2d/internal/graphics/matrix"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the 2D view: the world point at the center of the viewport and
// a zoom factor. Scale 2 shows twice as much of the world.
type Camera struct {
	X, Y  float32
	Scale float32
}

// DefaultCamera looks at the origin without zoom.
func DefaultCamera() Camera {
	return Camera{Scale: 1}
}

// Projector turns a Camera and the viewport size into an orthographic
// projection with a top-left origin.
type Projector struct {
	width, height int
	matrix        mgl32.Mat4
}

func NewProjector(width, height int) *Projector {
	p := &Projector{width: width, height: height}
	p.Update(DefaultCamera())
	return p
}

// SetViewport records the new surface size. The next Update uses it.
func (p *Projector) SetViewport(width, height int) {
	p.width = width
	p.height = height
}

// Viewport returns the surface size in pixels.
func (p *Projector) Viewport() (int, int) {
	return p.width, p.height
}

// Update recomputes the projection for cam and returns it. The returned
// matrix is owned by the projector and rewritten by the next call.
func (p *Projector) Update(cam Camera) *mgl32.Mat4 {
	scale := cam.Scale
	if scale == 0 {
		scale = 1
	}
	w := float32(p.width) * 0.5 * scale
	h := float32(p.height) * 0.5 * scale
	matrix.Orthographic(&p.matrix, cam.X-w, cam.X+w, cam.Y+h, cam.Y-h, -1, 1)
	return &p.matrix
}

// Matrix returns the most recent projection.
func (p *Projector) Matrix() *mgl32.Mat4 {
	return &p.matrix
}
