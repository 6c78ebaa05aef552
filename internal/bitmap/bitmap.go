// Package bitmap fetches and decodes images for texture upload.
package bitmap

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Provider returns a decoded image for a URL. Implementations may block and
// are called off the render thread.
type Provider interface {
	Fetch(ctx context.Context, url string) (*image.RGBA, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, url string) (*image.RGBA, error)

func (f ProviderFunc) Fetch(ctx context.Context, url string) (*image.RGBA, error) {
	return f(ctx, url)
}

// Decode reads any registered image format and returns it as tightly packed
// RGBA with a zero origin.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img itself when it is already a packed zero-origin RGBA,
// otherwise a converted copy.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
