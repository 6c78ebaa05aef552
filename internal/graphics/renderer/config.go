package renderer

import (
	"fmt"
	"g2d/internal/bitmap"
	"g2d/internal/config"
	"g2d/internal/graphics"
	"g2d/internal/graphics/shaders"
	"g2d/internal/graphics/transform"
	"os"
)

// FromConfig builds a Context from loaded options.
func FromConfig(dev graphics.Device, o *config.Options, extra ...Option) (*Context, error) {
	provider := bitmap.NewProvider(o.AssetRoot)
	provider.HTTP.Progress = o.DownloadProgress

	opts := []Option{
		WithMaxInstances(o.MaxInstances),
		WithCirclePoints(o.CirclePoints),
		WithMaxConcurrentFetches(o.MaxConcurrentFetches),
		WithViewport(o.Window.Width, o.Window.Height),
		WithProvider(provider),
	}
	if o.Strict() {
		opts = append(opts, WithPolicy(transform.Strict))
	}
	if o.ShaderDir != "" {
		set, err := shaders.Load(os.DirFS(o.ShaderDir), ".")
		if err != nil {
			return nil, fmt.Errorf("shader_dir %s: %w", o.ShaderDir, err)
		}
		opts = append(opts, WithShaders(set))
	}
	return New(dev, append(opts, extra...)...)
}
