// Package renderer batches shape instances into instanced draw calls.
package renderer

import (
	"context"
	"fmt"
	"g2d/internal/bitmap"
	"g2d/internal/graphics"
	"g2d/internal/graphics/atlas"
	"g2d/internal/graphics/buffer"
	"g2d/internal/graphics/shaders"
	"g2d/internal/graphics/shapes"
	"g2d/internal/graphics/transform"
	"g2d/internal/profiling"
	"log/slog"
)

const (
	uniformProjection = "u_projection"
	uniformTexture    = "u_texture"

	// textureUnit is the sampler unit every textured draw binds to.
	textureUnit = 0
)

// Context owns the programs, buffers, projector and texture atlas used to
// draw. It is not safe for concurrent use; every method except
// LoadTextureAsync must run on the render thread.
type Context struct {
	dev graphics.Device

	colorProgram   *graphics.Program
	lineProgram    *graphics.Program
	textureProgram *graphics.Program

	quad      *buffer.Static
	strip     *buffer.Static
	texcoords *buffer.Static
	circle    *buffer.Static
	line      *buffer.Static

	transforms *buffer.Segmented
	colors     *buffer.Segmented
	updater    *transform.Updater

	projector    *graphics.Projector
	atlas        *atlas.Cache
	circlePoints int

	scratch scratch
}

// New builds every program, buffer and vertex layout. Any error is a setup
// failure and leaves nothing allocated.
func New(dev graphics.Device, opts ...Option) (*Context, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.shaders == nil {
		s.shaders = shaders.Default()
	}
	if s.provider == nil {
		s.provider = bitmap.NewProvider("")
	}

	c := &Context{
		dev:          dev,
		projector:    graphics.NewProjector(s.width, s.height),
		circlePoints: s.circlePoints,
	}
	if err := c.init(s); err != nil {
		c.Release()
		return nil, err
	}
	c.atlas = atlas.New(dev, s.provider, atlas.WithMaxConcurrentFetches(s.maxFetches))

	dev.EnableBlend()
	c.Resize(s.width, s.height)

	graphics.Logger().Info("render context ready",
		slog.Int("capacity", s.maxInstances),
		slog.Int("circlePoints", s.circlePoints),
		slog.Int("width", s.width),
		slog.Int("height", s.height))
	return c, nil
}

func (c *Context) init(s settings) error {
	var err error
	c.quad = buffer.NewStatic(c.dev, buffer.QuadVertices, graphics.UsageStatic)
	c.strip = buffer.NewStatic(c.dev, buffer.StripVertices, graphics.UsageStatic)
	c.texcoords = buffer.NewStatic(c.dev, buffer.StripTexCoords, graphics.UsageStatic)
	c.circle = buffer.NewStatic(c.dev, buffer.CircleVertices(s.circlePoints), graphics.UsageStatic)
	c.line = buffer.NewStatic(c.dev, make([]float32, 4), graphics.UsageDynamic)

	if c.transforms, err = buffer.NewSegmented(c.dev, transform.TransformSegmentLength, s.maxInstances); err != nil {
		return fmt.Errorf("transform buffer: %w", err)
	}
	if c.colors, err = buffer.NewSegmented(c.dev, transform.ColorSegmentLength, s.maxInstances); err != nil {
		return fmt.Errorf("color buffer: %w", err)
	}
	c.updater = transform.New(c.transforms, c.colors, s.policy)

	if c.colorProgram, err = c.compile(s.shaders, shaders.Color, uniformProjection); err != nil {
		return err
	}
	if c.lineProgram, err = c.compile(s.shaders, shaders.Line, uniformProjection); err != nil {
		return err
	}
	if c.textureProgram, err = c.compile(s.shaders, shaders.Texture, uniformProjection, uniformTexture); err != nil {
		return err
	}
	return c.bindLayouts()
}

func (c *Context) compile(set shaders.Set, name string, uniforms ...string) (*graphics.Program, error) {
	src, ok := set[name]
	if !ok {
		return nil, fmt.Errorf("%s program: %w: no source", name, graphics.ErrSetup)
	}
	p, err := graphics.CompileProgram(c.dev, src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}
	for _, u := range uniforms {
		if err := p.CacheUniform(u); err != nil {
			p.Release()
			return nil, fmt.Errorf("%s program: %w", name, err)
		}
	}
	return p, nil
}

func (c *Context) bindLayouts() error {
	transforms := graphics.Matrix4("a_transform", c.transforms.Handle(), transform.TransformStride, 0)
	colors := graphics.PerInstance("a_color", c.colors.Handle(), 4, transform.ColorStride, 0)

	bindings := []struct {
		program *graphics.Program
		family  shapes.Family
		attrs   []graphics.Attribute
	}{
		{c.colorProgram, shapes.FamilyRectangle, []graphics.Attribute{
			graphics.PerVertex("a_position", c.quad.Handle(), 2), transforms, colors,
		}},
		{c.colorProgram, shapes.FamilyCircle, []graphics.Attribute{
			graphics.PerVertex("a_position", c.circle.Handle(), 2), transforms, colors,
		}},
		{c.lineProgram, shapes.FamilyLine, []graphics.Attribute{
			graphics.PerVertex("a_position", c.line.Handle(), 2), colors,
		}},
		{c.textureProgram, shapes.FamilySprite, []graphics.Attribute{
			graphics.PerVertex("a_position", c.strip.Handle(), 2),
			graphics.PerVertex("a_texcoord", c.texcoords.Handle(), 2),
			transforms,
			colors,
			graphics.PerInstance("a_depth", c.transforms.Handle(), 1, transform.TransformStride, transform.DepthOffset),
		}},
	}
	for _, b := range bindings {
		if _, err := b.program.BindLayout(b.family, b.attrs...); err != nil {
			return fmt.Errorf("%s layout: %w", b.family, err)
		}
	}
	return nil
}

// begin activates program and the family's layout and uploads the
// projection for cam.
func (c *Context) begin(p *graphics.Program, family shapes.Family, cam graphics.Camera) error {
	p.Use()
	l, ok := p.Layout(family)
	if !ok {
		return fmt.Errorf("%s: no layout bound", family)
	}
	l.Activate()
	return p.SetMatrix4(uniformProjection, c.projector.Update(cam))
}

func (c *Context) drawInstanced(mode graphics.Primitive, vertices, n int) {
	if n == 0 {
		return
	}
	c.dev.DrawArraysInstanced(mode, 0, vertices, n)
	profiling.CountDraw(n)
}

func fill(mode shapes.Mode) graphics.Primitive {
	if mode == shapes.ModeOutline {
		return graphics.LineLoop
	}
	return graphics.TriangleFan
}

// Fill clears the surface with col.
func (c *Context) Fill(col shapes.Color) {
	c.dev.Clear(col[0], col[1], col[2], col[3])
}

// DrawRectangles draws rs in one instanced call. Instances past capacity are
// handled by the configured policy.
func (c *Context) DrawRectangles(mode shapes.Mode, rs []shapes.Rectangle, cam graphics.Camera) error {
	defer profiling.Track("renderer.DrawRectangles")()
	if err := c.begin(c.colorProgram, shapes.FamilyRectangle, cam); err != nil {
		return err
	}
	n, err := c.updater.Rectangles(rs)
	if err != nil {
		return err
	}
	profiling.CountUpload(2)
	c.drawInstanced(fill(mode), len(buffer.QuadVertices)/2, n)
	return nil
}

// DrawCircles draws cs in one instanced call.
func (c *Context) DrawCircles(mode shapes.Mode, cs []shapes.Circle, cam graphics.Camera) error {
	defer profiling.Track("renderer.DrawCircles")()
	if err := c.begin(c.colorProgram, shapes.FamilyCircle, cam); err != nil {
		return err
	}
	n, err := c.updater.Circles(cs)
	if err != nil {
		return err
	}
	profiling.CountUpload(2)
	c.drawInstanced(fill(mode), c.circlePoints, n)
	return nil
}

// DrawLines draws each line with its own call, rewriting the line vertices
// and color slot 0 every time.
func (c *Context) DrawLines(ls []shapes.Line, cam graphics.Camera) error {
	defer profiling.Track("renderer.DrawLines")()
	if err := c.begin(c.lineProgram, shapes.FamilyLine, cam); err != nil {
		return err
	}
	for i := range ls {
		l := &ls[i]
		c.line.Update(l.X1, l.Y1, l.X2, l.Y2)
		c.updater.SingleColor(l.Color)
		c.dev.DrawArrays(graphics.Lines, 0, 2)
		profiling.CountUpload(2)
		profiling.CountDraw(1)
	}
	return nil
}

// DrawTexture draws ss with the texture array loaded under key. Each
// sprite's Layer selects the array layer. The texture must already be loaded;
// a missing key returns a TextureNotLoadedError and draws nothing.
func (c *Context) DrawTexture(key string, ss []shapes.Sprite, cam graphics.Camera) error {
	defer profiling.Track("renderer.DrawTexture")()
	entry, ok := c.atlas.Get(key)
	if !ok {
		return &TextureNotLoadedError{Key: key}
	}
	if err := c.begin(c.textureProgram, shapes.FamilySprite, cam); err != nil {
		return err
	}
	n, err := c.updater.Sprites(ss)
	if err != nil {
		return err
	}
	profiling.CountUpload(2)
	c.dev.BindTextureArray(textureUnit, entry.Texture)
	if err := c.textureProgram.SetInt(uniformTexture, textureUnit); err != nil {
		return err
	}
	c.drawInstanced(graphics.TriangleStrip, len(buffer.StripVertices)/2, n)
	return nil
}

// Resize sets the viewport. The projection picks up the new size on the next
// draw.
func (c *Context) Resize(width, height int) {
	c.projector.SetViewport(width, height)
	c.dev.Viewport(0, 0, width, height)
}

// Viewport returns the current surface size.
func (c *Context) Viewport() (int, int) {
	return c.projector.Viewport()
}

// Capacity is the number of instances one draw call can carry.
func (c *Context) Capacity() int {
	return c.updater.Capacity()
}

// LoadTexture blocks until url is uploaded as a texture array with layers of
// cellHeight pixels, or ctx is done.
func (c *Context) LoadTexture(ctx context.Context, url string, cellHeight int) (*atlas.Entry, error) {
	return c.atlas.Load(ctx, url, cellHeight)
}

// LoadTextureAsync starts loading url in the background. The upload happens
// in a later Pump. It is safe to call from any goroutine.
func (c *Context) LoadTextureAsync(url string, cellHeight int) *atlas.Pending {
	return c.atlas.LoadAsync(url, cellHeight)
}

// Texture returns the loaded entry for key.
func (c *Context) Texture(key string) (*atlas.Entry, bool) {
	return c.atlas.Get(key)
}

// Pump uploads textures that finished loading in the background.
func (c *Context) Pump() int {
	defer profiling.Track("renderer.Pump")()
	return c.atlas.Pump()
}

// Stats are the counters of the current frame plus resource totals.
type Stats struct {
	profiling.Counters
	Textures int
	Capacity int
}

func (c *Context) Stats() Stats {
	return Stats{
		Counters: profiling.Frame(),
		Textures: c.atlas.Len(),
		Capacity: c.Capacity(),
	}
}

// Release deletes every GPU resource the context owns.
func (c *Context) Release() {
	if c.atlas != nil {
		c.atlas.Release()
	}
	for _, p := range []*graphics.Program{c.colorProgram, c.lineProgram, c.textureProgram} {
		if p != nil {
			p.Release()
		}
	}
	for _, b := range []*buffer.Static{c.quad, c.strip, c.texcoords, c.circle, c.line} {
		if b != nil {
			b.Release()
		}
	}
	for _, b := range []*buffer.Segmented{c.transforms, c.colors} {
		if b != nil {
			b.Release()
		}
	}
}
