package demo

import (
	"context"
	"g2d/internal/bitmap"
	"g2d/internal/config"
	"g2d/internal/graphics"
	"g2d/internal/graphics/graphicstest"
	"g2d/internal/graphics/renderer"
	"g2d/internal/graphics/shapes"
	"image"
	"testing"
	"time"
)

func newContext(t *testing.T) (*renderer.Context, *graphicstest.Device) {
	t.Helper()
	dev := graphicstest.New()
	provider := bitmap.ProviderFunc(func(ctx context.Context, url string) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, 8, 16)), nil
	})
	c, err := renderer.New(dev, renderer.WithProvider(provider), renderer.WithViewport(800, 600))
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}
	t.Cleanup(c.Release)
	dev.ResetLog()
	return c, dev
}

func frame() renderer.Frame {
	return renderer.Frame{Camera: graphics.DefaultCamera(), DT: 0.5, Width: 800, Height: 600}
}

func TestShowcaseScene(t *testing.T) {
	config.ResetRenderSettings()
	defer config.ResetRenderSettings()

	c, dev := newContext(t)
	s := NewScene(config.Scene{})
	if err := s.Init(c); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Render(c, frame()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// One instanced call each for rectangles and circles, one call per line.
	if len(dev.Draws) != 2+16 {
		t.Fatalf("%d draws", len(dev.Draws))
	}
	if d := dev.Draws[0]; d.Instances != 32 || d.Mode != graphics.TriangleFan {
		t.Fatalf("rectangles %+v", d)
	}
	if d := dev.Draws[1]; d.Instances != 24 || d.Mode != graphics.LineLoop {
		t.Fatalf("circles %+v", d)
	}

	config.ToggleOutline()
	dev.ResetLog()
	if err := s.Render(c, frame()); err != nil {
		t.Fatal(err)
	}
	if dev.Draws[0].Mode != graphics.LineLoop {
		t.Fatal("outline override ignored")
	}
}

func TestTexturedLayerWaitsForUpload(t *testing.T) {
	c, dev := newContext(t)
	s := NewScene(config.Scene{Layers: []config.Layer{{
		Texture: "tiles.png",
		Shapes:  []config.ShapeSpec{{Kind: "sprite", Width: 8, Height: 8, Layer: 1}},
	}}})
	if err := s.Init(c); err != nil {
		t.Fatal(err)
	}

	if err := s.Render(c, frame()); err != nil {
		t.Fatalf("Render before load: %v", err)
	}
	if len(dev.Draws) != 0 {
		t.Fatal("drew a layer whose texture is not loaded")
	}

	if _, err := c.LoadTexture(context.Background(), "tiles.png", 8); err != nil {
		t.Fatal(err)
	}
	if err := s.Render(c, frame()); err != nil {
		t.Fatal(err)
	}
	if len(dev.Draws) != 1 || dev.Draws[0].Mode != graphics.TriangleStrip {
		t.Fatalf("draws %+v", dev.Draws)
	}
}

func TestSceneInitRejectsBadLayer(t *testing.T) {
	c, _ := newContext(t)
	s := NewScene(config.Scene{Layers: []config.Layer{{Mode: "dashed"}}})
	if err := s.Init(c); err == nil {
		t.Fatal("expected error")
	}
}

func TestSpun(t *testing.T) {
	r := spun(shapes.Rectangle{RZ: 1}, 0.5).(shapes.Rectangle)
	if r.RZ != 1.5 {
		t.Fatalf("RZ = %v", r.RZ)
	}
	l := shapes.Line{X2: 1}
	if spun(l, 2) != shapes.Shape(l) {
		t.Fatal("lines do not rotate")
	}
}

func TestStatsLoggerInterval(t *testing.T) {
	c, _ := newContext(t)
	calls := 0
	s := &StatsLogger{Interval: time.Second, Enabled: func() bool { calls++; return true }}
	if err := s.Init(c); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Render(c, frame()); err != nil {
			t.Fatal(err)
		}
	}
	// 0.5s per frame: logs after frames 2 and 4.
	if calls != 2 {
		t.Fatalf("logged %d times", calls)
	}
}

func TestFrameLimiter(t *testing.T) {
	off := NewFrameLimiter(config.Window{FPS: 0})
	if off.Period() != 0 {
		t.Fatalf("period %v for unlimited window", off.Period())
	}
	start := time.Now()
	off.Wait()
	if time.Since(start) > 5*time.Millisecond {
		t.Fatal("unlimited limiter blocked")
	}

	f := NewFrameLimiter(config.Window{FPS: 100})
	if f.Period() != 10*time.Millisecond {
		t.Fatalf("period %v, want 10ms", f.Period())
	}
	start = time.Now()
	for i := 0; i < 3; i++ {
		f.Wait()
	}
	if el := time.Since(start); el < 25*time.Millisecond {
		t.Fatalf("three frames at 100 fps took %v", el)
	}
}

func TestFrameLimiterResyncsAfterStall(t *testing.T) {
	f := NewFrameLimiter(config.Window{FPS: 100})
	f.Wait()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	f.Wait()
	if el := time.Since(start); el < 5*time.Millisecond {
		t.Fatalf("wait after stall returned in %v, want a full period", el)
	}
}
