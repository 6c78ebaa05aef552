// Package gldevice implements graphics.Device on an OpenGL 4.1 core context.
// Every method must be called from the thread that owns the context.
package gldevice

import (
	"errors"
	"fmt"
	"g2d/internal/graphics"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// Device issues OpenGL calls. The zero value is ready to use once gl.Init
// has succeeded on the current context.
type Device struct{}

// Init loads the OpenGL function pointers for the current context and
// returns a Device for it.
func Init() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	graphics.Logger().Info("opengl initialized",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return &Device{}, nil
}

var primitives = [...]uint32{
	graphics.Triangles:     gl.TRIANGLES,
	graphics.TriangleFan:   gl.TRIANGLE_FAN,
	graphics.TriangleStrip: gl.TRIANGLE_STRIP,
	graphics.Lines:         gl.LINES,
	graphics.LineLoop:      gl.LINE_LOOP,
}

func usage(u graphics.Usage) uint32 {
	if u == graphics.UsageDynamic {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func (d *Device) CreateBuffer(data []float16.Float16, u graphics.Usage) graphics.BufferID {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*graphics.HalfSize, gl.Ptr(data), usage(u))
	}
	return graphics.BufferID(id)
}

func (d *Device) BufferSubData(buf graphics.BufferID, offset int, data []float16.Float16) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.BufferSubData(gl.ARRAY_BUFFER, offset, len(data)*graphics.HalfSize, gl.Ptr(data))
}

func (d *Device) DeleteBuffer(buf graphics.BufferID) {
	id := uint32(buf)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) CompileShader(stage graphics.ShaderStage, source string) (graphics.ShaderID, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == graphics.StageFragment {
		shaderType = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return graphics.ShaderID(shader), nil
}

func (d *Device) LinkProgram(vertex, fragment graphics.ShaderID) (graphics.ProgramID, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return graphics.ProgramID(program), nil
}

func (d *Device) DeleteShader(shader graphics.ShaderID)    { gl.DeleteShader(uint32(shader)) }
func (d *Device) DeleteProgram(program graphics.ProgramID) { gl.DeleteProgram(uint32(program)) }
func (d *Device) UseProgram(program graphics.ProgramID)    { gl.UseProgram(uint32(program)) }

func (d *Device) UniformLocation(program graphics.ProgramID, name string) (graphics.UniformLocation, bool) {
	loc := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
	return graphics.UniformLocation(loc), loc >= 0
}

func (d *Device) AttribLocation(program graphics.ProgramID, name string) (uint32, bool) {
	loc := gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, false
	}
	return uint32(loc), true
}

func (d *Device) UniformMatrix4(loc graphics.UniformLocation, m *mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (d *Device) Uniform1i(loc graphics.UniformLocation, v int32) {
	gl.Uniform1i(int32(loc), v)
}

func (d *Device) CreateVertexArray() graphics.VertexArrayID {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return graphics.VertexArrayID(vao)
}

func (d *Device) BindVertexArray(vao graphics.VertexArrayID) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) DeleteVertexArray(vao graphics.VertexArrayID) {
	id := uint32(vao)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) VertexAttrib(location uint32, buf graphics.BufferID, size, stride, offset int, divisor uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, int32(size), gl.HALF_FLOAT, false, int32(stride), uintptr(offset))
	gl.VertexAttribDivisor(location, divisor)
}

func (d *Device) CreateTextureArray(width, height, layers int, pix []byte) graphics.TextureID {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, texture)

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Layers are stacked vertically in pix, one depth slice each.
	ptr := gl.Ptr(nil)
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.RGBA8,
		int32(width),
		int32(height),
		int32(layers),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		ptr,
	)

	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	return graphics.TextureID(texture)
}

func (d *Device) BindTextureArray(unit int, tex graphics.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, uint32(tex))
}

func (d *Device) DeleteTexture(tex graphics.TextureID) {
	id := uint32(tex)
	gl.DeleteTextures(1, &id)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) EnableBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int) {
	gl.DrawArrays(primitives[mode], int32(first), int32(count))
}

func (d *Device) DrawArraysInstanced(mode graphics.Primitive, first, count, instances int) {
	gl.DrawArraysInstanced(primitives[mode], int32(first), int32(count), int32(instances))
}

var _ graphics.Device = (*Device)(nil)
