// Package transform packs shape instances into the per-instance transform and
// color buffers.
package transform

import (
	"errors"
	"fmt"
	"g2d/internal/graphics"
	"g2d/internal/graphics/buffer"
	"g2d/internal/graphics/matrix"
	"g2d/internal/graphics/shapes"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform segment: a column-major mat4, then the atlas layer, then one pad
// half to keep the stride at 36 bytes.
const (
	TransformSegmentLength = 18
	TransformStride        = TransformSegmentLength * graphics.HalfSize
	DepthIndex             = 16
	DepthOffset            = DepthIndex * graphics.HalfSize

	ColorSegmentLength = 4
	ColorStride        = ColorSegmentLength * graphics.HalfSize
)

// Policy decides what happens to instances beyond buffer capacity.
type Policy int

const (
	// TruncateSilently draws the first capacity instances and drops the rest.
	TruncateSilently Policy = iota
	// Strict rejects the whole list with a CapacityExceededError.
	Strict
)

// ErrCapacityExceeded is matched by CapacityExceededError.
var ErrCapacityExceeded = errors.New("instance capacity exceeded")

type CapacityExceededError struct {
	Family    shapes.Family
	Requested int
	Capacity  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%d %s instances exceed capacity %d", e.Requested, e.Family, e.Capacity)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// Updater rewrites the instance buffers for one draw call. Slot i always
// holds instance i of the current list; slots past the list keep whatever
// they held before.
type Updater struct {
	Transforms *buffer.Segmented
	Colors     *buffer.Segmented
	Policy     Policy

	scratch mgl32.Mat4
}

func New(transforms, colors *buffer.Segmented, policy Policy) *Updater {
	return &Updater{Transforms: transforms, Colors: colors, Policy: policy}
}

// Capacity is the number of instances one draw call can carry.
func (u *Updater) Capacity() int {
	return min(u.Transforms.Capacity(), u.Colors.Capacity())
}

// Rectangles packs rs and returns how many were written.
func (u *Updater) Rectangles(rs []shapes.Rectangle) (int, error) {
	n, err := u.limit(shapes.FamilyRectangle, len(rs))
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		r := &rs[i]
		u.setTransform(i, r.X, r.Y, r.Z, r.RX, r.RY, r.RZ, r.Width, r.Height)
		u.setColor(i, r.Color)
	}
	u.flush()
	return n, nil
}

// Circles packs cs. The unit circle is scaled so the drawn radius is Radius.
func (u *Updater) Circles(cs []shapes.Circle) (int, error) {
	n, err := u.limit(shapes.FamilyCircle, len(cs))
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		c := &cs[i]
		d := c.Radius * 2
		u.setTransform(i, c.X, c.Y, c.Z, c.RX, c.RY, c.RZ, d, d)
		u.setColor(i, c.Color)
	}
	u.flush()
	return n, nil
}

// Sprites packs ss, writing each atlas layer into the depth slot.
func (u *Updater) Sprites(ss []shapes.Sprite) (int, error) {
	n, err := u.limit(shapes.FamilySprite, len(ss))
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		s := &ss[i]
		u.setTransform(i, s.X, s.Y, s.Z, s.RX, s.RY, s.RZ, s.Width, s.Height)
		u.Transforms.Segment(i).Set(DepthIndex, float32(s.Layer))
		u.setColor(i, s.Color)
	}
	u.flush()
	return n, nil
}

// SingleColor writes c to slot 0 and uploads only the color buffer. Used for
// primitives drawn one at a time.
func (u *Updater) SingleColor(c shapes.Color) {
	u.setColor(0, c)
	u.Colors.Refresh()
}

func (u *Updater) limit(family shapes.Family, n int) (int, error) {
	c := u.Capacity()
	if n <= c {
		return n, nil
	}
	if u.Policy == Strict {
		return 0, &CapacityExceededError{Family: family, Requested: n, Capacity: c}
	}
	graphics.Logger().Debug("instances truncated",
		slog.String("family", family.String()),
		slog.Int("requested", n),
		slog.Int("capacity", c))
	return c, nil
}

func (u *Updater) setTransform(i int, x, y, z, rx, ry, rz, w, h float32) {
	matrix.ComposeTransform(&u.scratch,
		mgl32.Vec3{x, y, z},
		mgl32.Vec3{rx, ry, rz},
		mgl32.Vec3{w * 0.5, h * 0.5, 1})
	u.Transforms.Segment(i).Put(0, u.scratch[:]...)
}

func (u *Updater) setColor(i int, c shapes.Color) {
	u.Colors.Segment(i).Put(0, c[:]...)
}

func (u *Updater) flush() {
	u.Transforms.Refresh()
	u.Colors.Refresh()
}
