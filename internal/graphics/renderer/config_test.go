package renderer

import (
	"errors"
	"g2d/internal/config"
	"g2d/internal/graphics"
	"g2d/internal/graphics/graphicstest"
	"g2d/internal/graphics/shaders"
	"g2d/internal/graphics/shapes"
	"g2d/internal/graphics/transform"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestFromConfig(t *testing.T) {
	o := config.Default()
	o.MaxInstances = 3
	o.CirclePoints = 16
	o.Truncation = config.TruncateStrict
	o.Window.Width, o.Window.Height = 320, 240

	dev := graphicstest.New()
	c, err := FromConfig(dev, &o)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	defer c.Release()

	if c.Capacity() != 3 {
		t.Errorf("capacity %d", c.Capacity())
	}
	if dev.View != [4]int{0, 0, 320, 240} {
		t.Errorf("viewport %v", dev.View)
	}
	err = c.DrawCircles(shapes.ModeSolid, make([]shapes.Circle, 4), graphics.DefaultCamera())
	if !errors.Is(err, transform.ErrCapacityExceeded) {
		t.Errorf("expected strict policy, got %v", err)
	}
	if err := c.DrawCircles(shapes.ModeSolid, make([]shapes.Circle, 2), graphics.DefaultCamera()); err != nil {
		t.Fatal(err)
	}
	if d := dev.Draws[len(dev.Draws)-1]; d.Count != 16 {
		t.Errorf("circle points %d", d.Count)
	}
}

func TestFromConfigShaderDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range shaders.Names {
		for _, ext := range []string{".vert", ".frag"} {
			if err := os.WriteFile(filepath.Join(dir, name+ext), []byte("// "+name), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	o := config.Default()
	o.ShaderDir = dir
	c, err := FromConfig(graphicstest.New(), &o)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	c.Release()

	o.ShaderDir = filepath.Join(dir, "missing")
	if _, err := FromConfig(graphicstest.New(), &o); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
