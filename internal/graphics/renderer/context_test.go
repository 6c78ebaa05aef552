package renderer

import (
	"context"
	"errors"
	"g2d/internal/bitmap"
	"g2d/internal/graphics"
	"g2d/internal/graphics/graphicstest"
	"g2d/internal/graphics/shapes"
	"g2d/internal/graphics/transform"
	"g2d/internal/profiling"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// blankProvider serves transparent images of a fixed size for any url.
func blankProvider(w, h int) bitmap.Provider {
	return bitmap.ProviderFunc(func(ctx context.Context, url string) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, w, h)), nil
	})
}

func newContext(t *testing.T, opts ...Option) (*Context, *graphicstest.Device) {
	t.Helper()
	dev := graphicstest.New()
	opts = append([]Option{WithProvider(blankProvider(4, 16)), WithViewport(200, 100)}, opts...)
	c, err := New(dev, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Release)
	dev.ResetLog()
	return c, dev
}

func rects(n int) []shapes.Rectangle {
	out := make([]shapes.Rectangle, n)
	for i := range out {
		out[i] = shapes.Rectangle{X: float32(i * 10), Y: 5, Width: 8, Height: 4, Color: shapes.RGBA(1, 0, 0, 1)}
	}
	return out
}

func countOps(dev *graphicstest.Device, name string) int {
	n := 0
	for _, op := range dev.Ops {
		if op == name {
			n++
		}
	}
	return n
}

func TestNewEnablesBlendAndViewport(t *testing.T) {
	dev := graphicstest.New()
	c, err := New(dev, WithViewport(640, 480), WithProvider(blankProvider(1, 1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Release()

	if !dev.Blend {
		t.Error("blending not enabled")
	}
	if dev.View != [4]int{0, 0, 640, 480} {
		t.Errorf("viewport %v", dev.View)
	}
	if c.Capacity() != DefaultMaxInstances {
		t.Errorf("capacity %d", c.Capacity())
	}
}

func TestNewSetupErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *graphicstest.Device)
		check func(error) bool
	}{
		{"compile", func(d *graphicstest.Device) {
			d.CompileFailures[graphics.StageFragment] = "0:3: syntax error"
		}, func(err error) bool {
			var ce *graphics.CompileError
			return errors.As(err, &ce) && ce.Stage == graphics.StageFragment
		}},
		{"link", func(d *graphicstest.Device) {
			d.LinkFailure = "varying mismatch"
		}, func(err error) bool {
			var le *graphics.LinkError
			return errors.As(err, &le)
		}},
		{"uniform", func(d *graphicstest.Device) {
			delete(d.Uniforms, "u_texture")
		}, func(err error) bool {
			var ue *graphics.UnresolvedUniformError
			return errors.As(err, &ue) && ue.Name == "u_texture"
		}},
		{"attribute", func(d *graphicstest.Device) {
			delete(d.Attributes, "a_depth")
		}, func(err error) bool {
			var ae *graphics.UnresolvedAttributeError
			return errors.As(err, &ae) && ae.Name == "a_depth"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := graphicstest.New()
			tt.setup(dev)
			_, err := New(dev)
			if !errors.Is(err, graphics.ErrSetup) {
				t.Fatalf("expected setup error, got %v", err)
			}
			if !tt.check(err) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if len(dev.Buffers) != 0 {
				t.Fatalf("%d buffers leaked", len(dev.Buffers))
			}
		})
	}
}

func TestDrawRectanglesSingleInstancedCall(t *testing.T) {
	c, dev := newContext(t)

	if err := c.DrawRectangles(shapes.ModeSolid, rects(3), graphics.DefaultCamera()); err != nil {
		t.Fatalf("DrawRectangles: %v", err)
	}
	if len(dev.Draws) != 1 {
		t.Fatalf("%d draws, want 1", len(dev.Draws))
	}
	d := dev.Draws[0]
	if !d.Instanced || d.Instances != 3 || d.Count != 4 || d.Mode != graphics.TriangleFan {
		t.Fatalf("draw %+v", d)
	}
	if d.Program != c.colorProgram.ID {
		t.Fatal("rectangles drawn with the wrong program")
	}
	l, _ := c.colorProgram.Layout(shapes.FamilyRectangle)
	if d.VAO != l.VAO {
		t.Fatal("rectangle layout not active")
	}
	if len(dev.UploadsTo(c.transforms.Handle())) != 1 || len(dev.UploadsTo(c.colors.Handle())) != 1 {
		t.Fatal("expected one upload per instance buffer")
	}

	dev.ResetLog()
	if err := c.DrawRectangles(shapes.ModeOutline, rects(2), graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	if dev.Draws[0].Mode != graphics.LineLoop {
		t.Fatalf("outline mode drew %v", dev.Draws[0].Mode)
	}
}

func TestDrawCirclesUsesCirclePoints(t *testing.T) {
	c, dev := newContext(t, WithCirclePoints(12))
	cs := []shapes.Circle{{X: 1, Radius: 4}, {X: 2, Radius: 8}}

	if err := c.DrawCircles(shapes.ModeOutline, cs, graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	d := dev.Draws[0]
	if d.Count != 12 || d.Instances != 2 || d.Mode != graphics.LineLoop {
		t.Fatalf("draw %+v", d)
	}
	if got := len(dev.ReadBuffer(c.circle.Handle())); got != 24 {
		t.Fatalf("circle buffer holds %d values", got)
	}
}

func TestZeroInstancesSkipDraw(t *testing.T) {
	c, dev := newContext(t)
	if err := c.DrawRectangles(shapes.ModeSolid, nil, graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	if len(dev.Draws) != 0 {
		t.Fatalf("%d draws for an empty list", len(dev.Draws))
	}
	if countOps(dev, "UniformMatrix4") != 1 {
		t.Fatal("projection should still be uploaded")
	}
}

func TestProjectionUploadedEveryCall(t *testing.T) {
	c, dev := newContext(t)
	loc := dev.Uniforms["u_projection"]

	cams := []graphics.Camera{{X: 0, Y: 0, Scale: 1}, {X: 50, Y: -20, Scale: 2}}
	for _, cam := range cams {
		if err := c.DrawRectangles(shapes.ModeSolid, rects(1), cam); err != nil {
			t.Fatal(err)
		}
		w, h := 100*cam.Scale, 50*cam.Scale
		want := mgl32.Ortho(cam.X-w, cam.X+w, cam.Y+h, cam.Y-h, -1, 1)
		if !dev.Matrices[loc].ApproxEqual(want) {
			t.Fatalf("camera %+v: projection\n%v\nwant\n%v", cam, dev.Matrices[loc], want)
		}
	}
	if countOps(dev, "UniformMatrix4") != len(cams) {
		t.Fatalf("projection uploaded %d times", countOps(dev, "UniformMatrix4"))
	}
}

func TestResizeChangesProjection(t *testing.T) {
	c, dev := newContext(t)
	c.Resize(320, 200)
	if dev.View != [4]int{0, 0, 320, 200} {
		t.Fatalf("viewport %v", dev.View)
	}
	if w, h := c.Viewport(); w != 320 || h != 200 {
		t.Fatalf("Viewport() = %d, %d", w, h)
	}

	if err := c.DrawCircles(shapes.ModeSolid, []shapes.Circle{{Radius: 1}}, graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	want := mgl32.Ortho(-160, 160, 100, -100, -1, 1)
	if got := dev.Matrices[dev.Uniforms["u_projection"]]; !got.ApproxEqual(want) {
		t.Fatalf("projection after resize\n%v", got)
	}
}

func TestFill(t *testing.T) {
	c, dev := newContext(t)
	c.Fill(shapes.RGBA(0.25, 0.5, 0.75, 1))
	if len(dev.Cleared) != 1 || dev.Cleared[0] != [4]float32{0.25, 0.5, 0.75, 1} {
		t.Fatalf("cleared %v", dev.Cleared)
	}
}

func TestDrawLinesOneCallPerLine(t *testing.T) {
	c, dev := newContext(t)
	ls := []shapes.Line{
		{X1: 1, Y1: 2, X2: 3, Y2: 4, Color: shapes.RGBA(1, 0, 0, 1)},
		{X1: 10, Y1: 20, X2: 30, Y2: 40, Color: shapes.RGBA(0, 0, 1, 0.5)},
	}
	if err := c.DrawLines(ls, graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}

	if len(dev.Draws) != 2 {
		t.Fatalf("%d draws, want 2", len(dev.Draws))
	}
	for _, d := range dev.Draws {
		if d.Instanced || d.Mode != graphics.Lines || d.Count != 2 {
			t.Fatalf("draw %+v", d)
		}
	}

	lineUploads := dev.UploadsTo(c.line.Handle())
	colorUploads := dev.UploadsTo(c.colors.Handle())
	if len(lineUploads) != 2 || len(colorUploads) != 2 {
		t.Fatalf("uploads: %d line, %d color", len(lineUploads), len(colorUploads))
	}
	for i, l := range ls {
		want := []float32{l.X1, l.Y1, l.X2, l.Y2}
		for k, v := range want {
			if lineUploads[i].Data[k] != v {
				t.Fatalf("line %d upload %v, want %v", i, lineUploads[i].Data, want)
			}
		}
		for k := 0; k < 4; k++ {
			if colorUploads[i].Data[k] != l.Color[k] {
				t.Fatalf("line %d color %v", i, colorUploads[i].Data[:4])
			}
		}
	}

	// Each draw follows its own two uploads.
	var sinceDraw int
	for _, op := range dev.Ops {
		switch op {
		case "BufferSubData":
			sinceDraw++
		case "DrawArrays":
			if sinceDraw != 2 {
				t.Fatalf("draw preceded by %d uploads", sinceDraw)
			}
			sinceDraw = 0
		}
	}
}

func TestDrawTextureNotLoaded(t *testing.T) {
	c, dev := newContext(t)
	err := c.DrawTexture("missing.png", []shapes.Sprite{{}}, graphics.DefaultCamera())
	if !errors.Is(err, ErrTextureNotLoaded) {
		t.Fatalf("expected ErrTextureNotLoaded, got %v", err)
	}
	var te *TextureNotLoadedError
	if !errors.As(err, &te) || te.Key != "missing.png" {
		t.Fatalf("error %v", err)
	}
	if len(dev.Draws) != 0 || len(dev.Textures) != 0 {
		t.Fatal("a missing texture must not draw or load")
	}
}

func TestDrawTexture(t *testing.T) {
	c, dev := newContext(t)
	entry, err := c.LoadTexture(context.Background(), "tiles.png", 4)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if entry.Layers != 4 {
		t.Fatalf("layers %d", entry.Layers)
	}

	ss := []shapes.Sprite{
		{Rectangle: shapes.Rectangle{Width: 16, Height: 16, Color: shapes.RGBA(1, 1, 1, 1)}, Layer: 3},
		{Rectangle: shapes.Rectangle{X: 20, Width: 16, Height: 16, Color: shapes.RGBA(1, 1, 1, 1)}, Layer: 1},
	}
	if err := c.DrawTexture("tiles.png", ss, graphics.DefaultCamera()); err != nil {
		t.Fatalf("DrawTexture: %v", err)
	}

	d := dev.Draws[len(dev.Draws)-1]
	if d.Mode != graphics.TriangleStrip || d.Count != 4 || d.Instances != 2 {
		t.Fatalf("draw %+v", d)
	}
	if d.Program != c.textureProgram.ID {
		t.Fatal("sprites drawn with the wrong program")
	}
	if dev.Units[0] != entry.Texture {
		t.Fatalf("unit 0 bound to %d, want %d", dev.Units[0], entry.Texture)
	}
	if dev.Ints[dev.Uniforms["u_texture"]] != 0 {
		t.Fatal("u_texture not set to unit 0")
	}
	if got := c.transforms.Segment(0).At(transform.DepthIndex); got != 3 {
		t.Fatalf("layer slot = %v", got)
	}
}

func TestTextureLayoutReadsDepthSlot(t *testing.T) {
	dev := graphicstest.New()
	c, err := New(dev, WithProvider(blankProvider(1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()

	l, _ := c.textureProgram.Layout(shapes.FamilySprite)
	var found bool
	for _, b := range dev.Bindings {
		if b.VAO == l.VAO && b.Location == dev.Attributes["a_depth"] {
			found = true
			if b.Buffer != c.transforms.Handle() || b.Offset != 32 || b.Stride != 36 || b.Size != 1 || b.Divisor != 1 {
				t.Fatalf("a_depth binding %+v", b)
			}
		}
	}
	if !found {
		t.Fatal("a_depth not bound")
	}
}

func TestCapacityPolicies(t *testing.T) {
	c, dev := newContext(t, WithMaxInstances(2))
	if err := c.DrawRectangles(shapes.ModeSolid, rects(5), graphics.DefaultCamera()); err != nil {
		t.Fatalf("truncating draw failed: %v", err)
	}
	if dev.Draws[0].Instances != 2 {
		t.Fatalf("instances %d, want 2", dev.Draws[0].Instances)
	}

	strict, sdev := newContext(t, WithMaxInstances(2), WithPolicy(transform.Strict))
	err := strict.DrawRectangles(shapes.ModeSolid, rects(3), graphics.DefaultCamera())
	if !errors.Is(err, transform.ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if len(sdev.Draws) != 0 {
		t.Fatal("strict mode drew past capacity")
	}
}

func TestDrawShapesGroupsRuns(t *testing.T) {
	c, dev := newContext(t, WithCirclePoints(8))
	if _, err := c.LoadTexture(context.Background(), "tiles.png", 4); err != nil {
		t.Fatal(err)
	}
	dev.ResetLog()

	r := shapes.Rectangle{Width: 2, Height: 2}
	items := []shapes.Shape{
		r, &r,
		shapes.Circle{Radius: 1},
		shapes.Line{X2: 1, Y2: 1},
		shapes.Line{X2: 2, Y2: 2},
		shapes.Sprite{Rectangle: r},
		r,
	}
	if err := c.DrawShapes(shapes.ModeSolid, "tiles.png", items, graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}

	want := []graphicstest.Draw{
		{Mode: graphics.TriangleFan, Count: 4, Instances: 2, Instanced: true},
		{Mode: graphics.TriangleFan, Count: 8, Instances: 1, Instanced: true},
		{Mode: graphics.Lines, Count: 2, Instances: 1},
		{Mode: graphics.Lines, Count: 2, Instances: 1},
		{Mode: graphics.TriangleStrip, Count: 4, Instances: 1, Instanced: true},
		{Mode: graphics.TriangleFan, Count: 4, Instances: 1, Instanced: true},
	}
	if len(dev.Draws) != len(want) {
		t.Fatalf("%d draws, want %d", len(dev.Draws), len(want))
	}
	for i, w := range want {
		d := dev.Draws[i]
		if d.Mode != w.Mode || d.Count != w.Count || d.Instances != w.Instances || d.Instanced != w.Instanced {
			t.Errorf("draw %d = %+v, want %+v", i, d, w)
		}
	}
}

func TestStatsCountsFrame(t *testing.T) {
	c, _ := newContext(t)
	profiling.ResetFrame()
	defer profiling.ResetFrame()

	if err := c.DrawRectangles(shapes.ModeSolid, rects(3), graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	if err := c.DrawLines([]shapes.Line{{}, {}}, graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	s := c.Stats()
	if s.DrawCalls != 3 || s.Instances != 5 {
		t.Fatalf("stats %+v", s)
	}
	if s.Capacity != DefaultMaxInstances || s.Textures != 0 {
		t.Fatalf("stats %+v", s)
	}
}

func TestReleaseFreesResources(t *testing.T) {
	dev := graphicstest.New()
	c, err := New(dev, WithProvider(blankProvider(2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoadTexture(context.Background(), "a.png", 2); err != nil {
		t.Fatal(err)
	}
	c.Release()
	if len(dev.Buffers) != 0 || len(dev.Textures) != 0 {
		t.Fatalf("leaked %d buffers, %d textures", len(dev.Buffers), len(dev.Textures))
	}
}
