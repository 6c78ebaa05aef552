package graphics

import (
	"fmt"
	"g2d/internal/graphics/shapes"
	"log/slog"
)

// HalfSize is the byte width of one half-precision float.
const HalfSize = 2

// Step is how often an attribute advances.
type Step int

const (
	StepVertex Step = iota
	StepInstance
)

func (s Step) divisor() uint32 {
	if s == StepInstance {
		return 1
	}
	return 0
}

// Attribute binds one named shader input to a buffer stream. Size, Stride
// and Offset are in half floats per element and bytes respectively. Columns
// greater than one spreads a matrix over consecutive locations, each column
// Size halfs wide.
type Attribute struct {
	Name    string
	Buffer  BufferID
	Size    int
	Stride  int
	Offset  int
	Step    Step
	Columns int
}

// PerVertex is a tightly packed geometry attribute.
func PerVertex(name string, buf BufferID, size int) Attribute {
	return Attribute{Name: name, Buffer: buf, Size: size, Step: StepVertex, Columns: 1}
}

// PerInstance is an attribute read once per instance.
func PerInstance(name string, buf BufferID, size, stride, offset int) Attribute {
	return Attribute{Name: name, Buffer: buf, Size: size, Stride: stride, Offset: offset, Step: StepInstance, Columns: 1}
}

// Matrix4 is a per-instance mat4 attribute spread over four locations, one
// vec4 column each.
func Matrix4(name string, buf BufferID, stride, offset int) Attribute {
	return Attribute{Name: name, Buffer: buf, Size: 4, Stride: stride, Offset: offset, Step: StepInstance, Columns: 4}
}

// Layout is an immutable vertex array describing how one family's inputs
// map onto buffers.
type Layout struct {
	Family     shapes.Family
	VAO        VertexArrayID
	Attributes []Attribute
	dev        Device
}

// Activate binds the layout's vertex array.
func (l *Layout) Activate() {
	l.dev.BindVertexArray(l.VAO)
}

// BindLayout creates the vertex array for family. A family can only be bound
// once per program.
func (p *Program) BindLayout(family shapes.Family, attrs ...Attribute) (*Layout, error) {
	if _, ok := p.layouts[family]; ok {
		return nil, fmt.Errorf("%s: %w", family, ErrLayoutBound)
	}

	locations := make([]uint32, len(attrs))
	for i, a := range attrs {
		loc, ok := p.dev.AttribLocation(p.ID, a.Name)
		if !ok {
			return nil, &UnresolvedAttributeError{Name: a.Name}
		}
		locations[i] = loc
	}

	vao := p.dev.CreateVertexArray()
	p.dev.BindVertexArray(vao)
	for i, a := range attrs {
		cols := max(a.Columns, 1)
		for c := 0; c < cols; c++ {
			offset := a.Offset + c*a.Size*HalfSize
			p.dev.VertexAttrib(locations[i]+uint32(c), a.Buffer, a.Size, a.Stride, offset, a.Step.divisor())
		}
	}
	p.dev.BindVertexArray(0)

	l := &Layout{
		Family:     family,
		VAO:        vao,
		Attributes: append([]Attribute(nil), attrs...),
		dev:        p.dev,
	}
	p.layouts[family] = l
	Logger().Debug("layout bound",
		slog.String("family", family.String()),
		slog.Int("attributes", len(attrs)))
	return l, nil
}
