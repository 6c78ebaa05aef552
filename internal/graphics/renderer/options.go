package renderer

import (
	"g2d/internal/bitmap"
	"g2d/internal/graphics/atlas"
	"g2d/internal/graphics/shaders"
	"g2d/internal/graphics/transform"
)

const (
	// DefaultMaxInstances is how many instances one draw call can carry.
	DefaultMaxInstances = 100
	// DefaultCirclePoints is the number of vertices on the unit circle.
	DefaultCirclePoints = 50
	DefaultWidth        = 800
	DefaultHeight       = 600
)

type settings struct {
	maxInstances int
	circlePoints int
	policy       transform.Policy
	provider     bitmap.Provider
	maxFetches   int
	shaders      shaders.Set
	width        int
	height       int
}

func defaultSettings() settings {
	return settings{
		maxInstances: DefaultMaxInstances,
		circlePoints: DefaultCirclePoints,
		policy:       transform.TruncateSilently,
		maxFetches:   atlas.DefaultMaxConcurrentFetches,
		width:        DefaultWidth,
		height:       DefaultHeight,
	}
}

// Option configures a Context.
type Option func(*settings)

// WithMaxInstances sets the per-draw instance capacity.
func WithMaxInstances(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxInstances = n
		}
	}
}

// WithCirclePoints sets how many vertices approximate a circle.
func WithCirclePoints(n int) Option {
	return func(s *settings) {
		if n >= 3 {
			s.circlePoints = n
		}
	}
}

// WithPolicy chooses what happens to instances beyond capacity.
func WithPolicy(p transform.Policy) Option {
	return func(s *settings) { s.policy = p }
}

// WithProvider sets where texture bitmaps come from. The default reads
// local files relative to the working directory and downloads http(s) urls.
func WithProvider(p bitmap.Provider) Option {
	return func(s *settings) { s.provider = p }
}

// WithMaxConcurrentFetches bounds background texture fetches.
func WithMaxConcurrentFetches(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxFetches = n
		}
	}
}

// WithShaders replaces the built-in shader sources.
func WithShaders(set shaders.Set) Option {
	return func(s *settings) { s.shaders = set }
}

// WithViewport sets the initial surface size.
func WithViewport(width, height int) Option {
	return func(s *settings) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}
