package graphics

import (
	"g2d/internal/graphics/shapes"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked vertex+fragment program together with the uniform
// handles and per-family vertex layouts bound to it. It is built once during
// setup and is immutable afterwards.
type Program struct {
	ID       ProgramID
	dev      Device
	uniforms map[string]UniformLocation
	layouts  map[shapes.Family]*Layout
}

// CompileProgram compiles both stages and links them.
func CompileProgram(dev Device, vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := dev.CompileShader(StageVertex, vertexSrc)
	if err != nil {
		return nil, &CompileError{Stage: StageVertex, Log: err.Error()}
	}
	fs, err := dev.CompileShader(StageFragment, fragmentSrc)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, &CompileError{Stage: StageFragment, Log: err.Error()}
	}

	id, err := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if err != nil {
		return nil, &LinkError{Log: err.Error()}
	}

	Logger().Info("program linked", slog.Uint64("program", uint64(id)))
	return &Program{
		ID:       id,
		dev:      dev,
		uniforms: make(map[string]UniformLocation),
		layouts:  make(map[shapes.Family]*Layout),
	}, nil
}

// Use activates the program.
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// CacheUniform resolves a uniform handle once. Every uniform used later must
// be cached before the program's first use.
func (p *Program) CacheUniform(name string) error {
	loc, ok := p.dev.UniformLocation(p.ID, name)
	if !ok {
		return &UnresolvedUniformError{Name: name}
	}
	p.uniforms[name] = loc
	return nil
}

// Uniform returns a cached uniform handle.
func (p *Program) Uniform(name string) (UniformLocation, error) {
	loc, ok := p.uniforms[name]
	if !ok {
		return 0, &UnresolvedUniformError{Name: name}
	}
	return loc, nil
}

// SetMatrix4 uploads m to a cached mat4 uniform.
func (p *Program) SetMatrix4(name string, m *mgl32.Mat4) error {
	loc, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.dev.UniformMatrix4(loc, m)
	return nil
}

// SetInt uploads v to a cached int or sampler uniform.
func (p *Program) SetInt(name string, v int32) error {
	loc, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.dev.Uniform1i(loc, v)
	return nil
}

// Layout returns the vertex layout bound for family.
func (p *Program) Layout(family shapes.Family) (*Layout, bool) {
	l, ok := p.layouts[family]
	return l, ok
}

// Release deletes the program and every layout bound to it.
func (p *Program) Release() {
	for f, l := range p.layouts {
		p.dev.DeleteVertexArray(l.VAO)
		delete(p.layouts, f)
	}
	if p.ID != 0 {
		p.dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}
