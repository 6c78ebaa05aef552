package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// Handles returned by a Device. Zero is never a valid handle.
type (
	BufferID        uint32
	ShaderID        uint32
	ProgramID       uint32
	VertexArrayID   uint32
	TextureID       uint32
	UniformLocation int32
)

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Usage is the update-frequency hint given when a buffer is created.
type Usage int

const (
	// UsageStatic buffers are written once.
	UsageStatic Usage = iota
	// UsageDynamic buffers are rewritten frequently, typically every frame.
	UsageDynamic
)

// Primitive is the topology used to assemble vertices.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleFan
	TriangleStrip
	Lines
	LineLoop
)

// Device is the rendering surface the pipeline draws on. All calls must come
// from the goroutine that owns the underlying context.
//
// Every vertex buffer holds half-precision floats.
type Device interface {
	CreateBuffer(data []float16.Float16, usage Usage) BufferID
	// BufferSubData overwrites the buffer starting at offset bytes.
	BufferSubData(buf BufferID, offset int, data []float16.Float16)
	DeleteBuffer(buf BufferID)

	// CompileShader returns the compiler's diagnostic text as the error.
	CompileShader(stage ShaderStage, source string) (ShaderID, error)
	// LinkProgram returns the linker's diagnostic text as the error.
	LinkProgram(vertex, fragment ShaderID) (ProgramID, error)
	DeleteShader(shader ShaderID)
	DeleteProgram(program ProgramID)
	UseProgram(program ProgramID)
	UniformLocation(program ProgramID, name string) (UniformLocation, bool)
	AttribLocation(program ProgramID, name string) (uint32, bool)
	UniformMatrix4(loc UniformLocation, m *mgl32.Mat4)
	Uniform1i(loc UniformLocation, v int32)

	CreateVertexArray() VertexArrayID
	BindVertexArray(vao VertexArrayID)
	DeleteVertexArray(vao VertexArrayID)
	// VertexAttrib binds buf to location in the current vertex array as
	// size half floats starting at offset bytes, advancing stride bytes per
	// step. A divisor of 0 steps per vertex, 1 per instance.
	VertexAttrib(location uint32, buf BufferID, size, stride, offset int, divisor uint32)

	// CreateTextureArray uploads pix (tightly packed RGBA8) as layers
	// stacked width x height images.
	CreateTextureArray(width, height, layers int, pix []byte) TextureID
	BindTextureArray(unit int, tex TextureID)
	DeleteTexture(tex TextureID)

	Viewport(x, y, width, height int)
	Clear(r, g, b, a float32)
	EnableBlend()
	DrawArrays(mode Primitive, first, count int)
	DrawArraysInstanced(mode Primitive, first, count, instances int)
}
