// Package graphicstest provides a recording graphics.Device for tests that
// run without a GPU context.
package graphicstest

import (
	"errors"
	"g2d/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// Draw is one recorded draw call.
type Draw struct {
	Mode      graphics.Primitive
	First     int
	Count     int
	Instances int
	Instanced bool
	Program   graphics.ProgramID
	VAO       graphics.VertexArrayID
}

// Upload is one recorded BufferSubData call, decoded to float32.
type Upload struct {
	Buffer graphics.BufferID
	Offset int
	Data   []float32
}

// Binding is one recorded VertexAttrib call.
type Binding struct {
	VAO      graphics.VertexArrayID
	Location uint32
	Buffer   graphics.BufferID
	Size     int
	Stride   int
	Offset   int
	Divisor  uint32
}

// Texture is a texture array created through the device.
type Texture struct {
	Width, Height, Layers int
	Pix                   []byte
}

// Device records every call made against it. Configure Uniforms, Attributes,
// CompileFailures and LinkFailure before building programs.
type Device struct {
	// Uniforms maps the uniform names every program exposes to locations.
	Uniforms map[string]graphics.UniformLocation
	// Attributes maps attribute names to their first location.
	Attributes map[string]uint32
	// CompileFailures makes CompileShader fail for a stage with the given log.
	CompileFailures map[graphics.ShaderStage]string
	// LinkFailure makes LinkProgram fail with the given log when non-empty.
	LinkFailure string

	Ops      []string
	Draws    []Draw
	Uploads  []Upload
	Bindings []Binding
	Buffers  map[graphics.BufferID][]float16.Float16
	Usages   map[graphics.BufferID]graphics.Usage
	Textures map[graphics.TextureID]Texture
	Matrices map[graphics.UniformLocation]mgl32.Mat4
	Ints     map[graphics.UniformLocation]int32
	Units    map[int]graphics.TextureID
	Cleared  [][4]float32
	View     [4]int
	Blend    bool

	program graphics.ProgramID
	vao     graphics.VertexArrayID
	next    uint32
}

// New returns a device exposing the attribute and uniform names used by the
// default shaders.
func New() *Device {
	return &Device{
		Uniforms: map[string]graphics.UniformLocation{
			"u_projection": 0,
			"u_texture":    1,
		},
		Attributes: map[string]uint32{
			"a_position":  0,
			"a_texcoord":  1,
			"a_transform": 2,
			"a_color":     6,
			"a_depth":     10,
		},
		CompileFailures: make(map[graphics.ShaderStage]string),
		Buffers:         make(map[graphics.BufferID][]float16.Float16),
		Usages:          make(map[graphics.BufferID]graphics.Usage),
		Textures:        make(map[graphics.TextureID]Texture),
		Matrices:        make(map[graphics.UniformLocation]mgl32.Mat4),
		Ints:            make(map[graphics.UniformLocation]int32),
		Units:           make(map[int]graphics.TextureID),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) op(name string) {
	d.Ops = append(d.Ops, name)
}

// ReadBuffer returns the GPU-side contents of buf as float32.
func (d *Device) ReadBuffer(buf graphics.BufferID) []float32 {
	return decode(d.Buffers[buf])
}

// ResetLog forgets recorded ops, draws and uploads but keeps resources.
func (d *Device) ResetLog() {
	d.Ops = nil
	d.Draws = nil
	d.Uploads = nil
}

// UploadsTo returns the recorded uploads for buf in call order.
func (d *Device) UploadsTo(buf graphics.BufferID) []Upload {
	var out []Upload
	for _, u := range d.Uploads {
		if u.Buffer == buf {
			out = append(out, u)
		}
	}
	return out
}

func (d *Device) CreateBuffer(data []float16.Float16, usage graphics.Usage) graphics.BufferID {
	d.op("CreateBuffer")
	id := graphics.BufferID(d.id())
	d.Buffers[id] = append([]float16.Float16(nil), data...)
	d.Usages[id] = usage
	return id
}

func (d *Device) BufferSubData(buf graphics.BufferID, offset int, data []float16.Float16) {
	d.op("BufferSubData")
	dst, ok := d.Buffers[buf]
	if !ok {
		panic("graphicstest: BufferSubData on unknown buffer")
	}
	start := offset / graphics.HalfSize
	if start+len(data) > len(dst) {
		panic("graphicstest: BufferSubData out of range")
	}
	copy(dst[start:], data)
	d.Uploads = append(d.Uploads, Upload{Buffer: buf, Offset: offset, Data: decode(data)})
}

func (d *Device) DeleteBuffer(buf graphics.BufferID) {
	d.op("DeleteBuffer")
	delete(d.Buffers, buf)
}

func (d *Device) CompileShader(stage graphics.ShaderStage, source string) (graphics.ShaderID, error) {
	d.op("CompileShader")
	if log, ok := d.CompileFailures[stage]; ok {
		return 0, errors.New(log)
	}
	return graphics.ShaderID(d.id()), nil
}

func (d *Device) LinkProgram(vertex, fragment graphics.ShaderID) (graphics.ProgramID, error) {
	d.op("LinkProgram")
	if d.LinkFailure != "" {
		return 0, errors.New(d.LinkFailure)
	}
	return graphics.ProgramID(d.id()), nil
}

func (d *Device) DeleteShader(graphics.ShaderID)   { d.op("DeleteShader") }
func (d *Device) DeleteProgram(graphics.ProgramID) { d.op("DeleteProgram") }

func (d *Device) UseProgram(program graphics.ProgramID) {
	d.op("UseProgram")
	d.program = program
}

func (d *Device) UniformLocation(_ graphics.ProgramID, name string) (graphics.UniformLocation, bool) {
	loc, ok := d.Uniforms[name]
	return loc, ok
}

func (d *Device) AttribLocation(_ graphics.ProgramID, name string) (uint32, bool) {
	loc, ok := d.Attributes[name]
	return loc, ok
}

func (d *Device) UniformMatrix4(loc graphics.UniformLocation, m *mgl32.Mat4) {
	d.op("UniformMatrix4")
	d.Matrices[loc] = *m
}

func (d *Device) Uniform1i(loc graphics.UniformLocation, v int32) {
	d.op("Uniform1i")
	d.Ints[loc] = v
}

func (d *Device) CreateVertexArray() graphics.VertexArrayID {
	d.op("CreateVertexArray")
	return graphics.VertexArrayID(d.id())
}

func (d *Device) BindVertexArray(vao graphics.VertexArrayID) {
	d.op("BindVertexArray")
	d.vao = vao
}

func (d *Device) DeleteVertexArray(graphics.VertexArrayID) { d.op("DeleteVertexArray") }

func (d *Device) VertexAttrib(location uint32, buf graphics.BufferID, size, stride, offset int, divisor uint32) {
	d.op("VertexAttrib")
	d.Bindings = append(d.Bindings, Binding{
		VAO:      d.vao,
		Location: location,
		Buffer:   buf,
		Size:     size,
		Stride:   stride,
		Offset:   offset,
		Divisor:  divisor,
	})
}

func (d *Device) CreateTextureArray(width, height, layers int, pix []byte) graphics.TextureID {
	d.op("CreateTextureArray")
	id := graphics.TextureID(d.id())
	d.Textures[id] = Texture{Width: width, Height: height, Layers: layers, Pix: append([]byte(nil), pix...)}
	return id
}

func (d *Device) BindTextureArray(unit int, tex graphics.TextureID) {
	d.op("BindTextureArray")
	d.Units[unit] = tex
}

func (d *Device) DeleteTexture(tex graphics.TextureID) {
	d.op("DeleteTexture")
	delete(d.Textures, tex)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.op("Viewport")
	d.View = [4]int{x, y, width, height}
}

func (d *Device) Clear(r, g, b, a float32) {
	d.op("Clear")
	d.Cleared = append(d.Cleared, [4]float32{r, g, b, a})
}

func (d *Device) EnableBlend() {
	d.op("EnableBlend")
	d.Blend = true
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int) {
	d.op("DrawArrays")
	d.Draws = append(d.Draws, Draw{Mode: mode, First: first, Count: count, Instances: 1, Program: d.program, VAO: d.vao})
}

func (d *Device) DrawArraysInstanced(mode graphics.Primitive, first, count, instances int) {
	d.op("DrawArraysInstanced")
	d.Draws = append(d.Draws, Draw{Mode: mode, First: first, Count: count, Instances: instances, Instanced: true, Program: d.program, VAO: d.vao})
}

func decode(data []float16.Float16) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = v.Float32()
	}
	return out
}

var _ graphics.Device = (*Device)(nil)
