// Package buffer wraps GPU vertex buffers whose CPU copy is kept as
// half-precision floats.
package buffer

import (
	"fmt"
	"g2d/internal/graphics"
	"log/slog"

	"github.com/x448/float16"
)

// Segment is a fixed-size window onto a Segmented buffer's backing slice.
// Writes land directly in the backing slice; nothing reaches the GPU until
// Refresh.
type Segment []float16.Float16

// Set writes v at index k.
func (s Segment) Set(k int, v float32) {
	s[k] = float16.Fromfloat32(v)
}

// At reads the value at index k.
func (s Segment) At(k int) float32 {
	return s[k].Float32()
}

// Put writes vals starting at index off.
func (s Segment) Put(off int, vals ...float32) {
	for i, v := range vals {
		s[off+i] = float16.Fromfloat32(v)
	}
}

// Float32s decodes the whole segment.
func (s Segment) Float32s() []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = v.Float32()
	}
	return out
}

// Segmented is one GPU buffer divided into capacity segments of
// segmentLength halfs, one per instance slot.
type Segmented struct {
	dev      graphics.Device
	id       graphics.BufferID
	data     []float16.Float16
	segLen   int
	capacity int
	segments []Segment
}

// NewSegmented allocates the backing slice and a matching dynamic GPU
// buffer, uploaded once zeroed.
func NewSegmented(dev graphics.Device, segmentLength, capacity int) (*Segmented, error) {
	if segmentLength <= 0 || capacity <= 0 {
		return nil, fmt.Errorf("invalid segmented buffer shape %dx%d", segmentLength, capacity)
	}

	data := make([]float16.Float16, segmentLength*capacity)
	b := &Segmented{
		dev:      dev,
		id:       dev.CreateBuffer(data, graphics.UsageDynamic),
		data:     data,
		segLen:   segmentLength,
		capacity: capacity,
		segments: make([]Segment, capacity),
	}
	for i := range b.segments {
		start := i * segmentLength
		b.segments[i] = Segment(data[start : start+segmentLength : start+segmentLength])
	}

	graphics.Logger().Debug("segmented buffer created",
		slog.Uint64("buffer", uint64(b.id)),
		slog.Int("segment", segmentLength),
		slog.Int("capacity", capacity))
	return b, nil
}

// Segment returns the view for slot i. i must be below Capacity.
func (b *Segmented) Segment(i int) Segment {
	return b.segments[i]
}

// Refresh uploads the entire backing slice to the GPU buffer.
func (b *Segmented) Refresh() {
	b.dev.BufferSubData(b.id, 0, b.data)
}

func (b *Segmented) Handle() graphics.BufferID { return b.id }
func (b *Segmented) Capacity() int             { return b.capacity }
func (b *Segmented) SegmentLength() int        { return b.segLen }

// Bytes is the size of the GPU buffer.
func (b *Segmented) Bytes() int {
	return len(b.data) * graphics.HalfSize
}

// Release deletes the GPU buffer.
func (b *Segmented) Release() {
	if b.id != 0 {
		b.dev.DeleteBuffer(b.id)
		b.id = 0
	}
}
