package buffer

import (
	"g2d/internal/graphics"

	"github.com/x448/float16"
)

// Static is a vertex buffer uploaded whole: geometry that never changes, or
// small scratch buffers rewritten with Update.
type Static struct {
	dev  graphics.Device
	id   graphics.BufferID
	data []float16.Float16
}

// NewStatic uploads vals with the given usage hint.
func NewStatic(dev graphics.Device, vals []float32, usage graphics.Usage) *Static {
	data := make([]float16.Float16, len(vals))
	for i, v := range vals {
		data[i] = float16.Fromfloat32(v)
	}
	return &Static{
		dev:  dev,
		id:   dev.CreateBuffer(data, usage),
		data: data,
	}
}

// Update overwrites the leading values and uploads the whole buffer.
func (s *Static) Update(vals ...float32) {
	for i, v := range vals {
		s.data[i] = float16.Fromfloat32(v)
	}
	s.dev.BufferSubData(s.id, 0, s.data)
}

func (s *Static) Handle() graphics.BufferID { return s.id }

// Len is the number of halfs held.
func (s *Static) Len() int { return len(s.data) }

func (s *Static) Release() {
	if s.id != 0 {
		s.dev.DeleteBuffer(s.id)
		s.id = 0
	}
}
