package buffer

import "math"

// Unit geometry shared by every instance. Instances scale these by half
// their size, so the shapes span [-1, 1].
var (
	// QuadVertices is a fan/loop order quad.
	QuadVertices = []float32{-1, -1, 1, -1, 1, 1, -1, 1}
	// StripVertices is the same quad in triangle strip order.
	StripVertices = []float32{-1, -1, 1, -1, -1, 1, 1, 1}
	// StripTexCoords matches StripVertices.
	StripTexCoords = []float32{0, 0, 1, 0, 0, 1, 1, 1}
)

// CircleVertices returns points evenly spaced on the unit circle.
func CircleVertices(points int) []float32 {
	out := make([]float32, 0, points*2)
	for i := 0; i < points; i++ {
		a := 2 * math.Pi * float64(i) / float64(points)
		out = append(out, float32(math.Cos(a)), float32(math.Sin(a)))
	}
	return out
}
