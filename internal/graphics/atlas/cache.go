// Package atlas caches texture arrays keyed by url. Bitmaps are fetched and
// decoded in the background and uploaded on the render thread by Pump.
package atlas

import (
	"context"
	"errors"
	"fmt"
	"g2d/internal/bitmap"
	"g2d/internal/graphics"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrentFetches bounds background fetches when no option is
// given.
const DefaultMaxConcurrentFetches = 4

// ErrInvalidCellHeight is returned when a bitmap cannot be cut into equal
// layers of the requested height.
var ErrInvalidCellHeight = errors.New("invalid cell height")

// ErrEmptyImage is returned when a provider yields no pixels.
var ErrEmptyImage = errors.New("empty image")

// ErrReleased is returned for loads that finish after the cache is released.
var ErrReleased = errors.New("atlas released")

// Entry is an uploaded texture array. Each layer is Width x CellHeight.
type Entry struct {
	URL        string
	Texture    graphics.TextureID
	Width      int
	Height     int
	CellHeight int
	Layers     int
}

// Pending is the future for one load. It resolves exactly once.
type Pending struct {
	URL   string
	done  chan struct{}
	entry *Entry
	err   error
}

func newPending(url string) *Pending {
	return &Pending{URL: url, done: make(chan struct{})}
}

func (p *Pending) resolve(e *Entry, err error) {
	p.entry, p.err = e, err
	close(p.done)
}

// Done is closed once the load has been uploaded or has failed.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Ready reports whether the future has resolved.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Result returns the entry or the load error. It must only be called after
// Done is closed.
func (p *Pending) Result() (*Entry, error) {
	return p.entry, p.err
}

type fetched struct {
	pending    *Pending
	cellHeight int
	img        *image.RGBA
	err        error
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxConcurrentFetches bounds how many bitmaps are fetched at once.
func WithMaxConcurrentFetches(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxFetches = n
		}
	}
}

// Cache maps urls to texture arrays. Device calls happen only inside Pump,
// Load and Release, which must run on the render thread.
type Cache struct {
	dev        graphics.Device
	provider   bitmap.Provider
	maxFetches int
	sem        *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	entries  map[string]*Entry
	inflight map[string]*Pending
	ready    []fetched
	released bool
	notify   chan struct{}
}

func New(dev graphics.Device, provider bitmap.Provider, opts ...Option) *Cache {
	c := &Cache{
		dev:        dev,
		provider:   provider,
		maxFetches: DefaultMaxConcurrentFetches,
		entries:    make(map[string]*Entry),
		inflight:   make(map[string]*Pending),
		notify:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sem = semaphore.NewWeighted(int64(c.maxFetches))
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Get returns the entry for url if it has been uploaded. It never starts a
// load.
func (c *Cache) Get(url string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	return e, ok
}

// Len is the number of uploaded entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// LoadAsync starts loading url unless it is cached or already in flight.
// Concurrent callers for the same url share one future. The cell height of
// the first request wins while a load is in flight. A cell height of zero or
// less loads the whole bitmap as a single layer.
func (c *Cache) LoadAsync(url string, cellHeight int) *Pending {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		c.mu.Unlock()
		p := newPending(url)
		p.resolve(e, nil)
		return p
	}
	if p, ok := c.inflight[url]; ok {
		c.mu.Unlock()
		return p
	}
	if c.released {
		c.mu.Unlock()
		p := newPending(url)
		p.resolve(nil, ErrReleased)
		return p
	}
	p := newPending(url)
	c.inflight[url] = p
	c.mu.Unlock()

	go c.fetch(p, cellHeight)
	return p
}

func (c *Cache) fetch(p *Pending, cellHeight int) {
	if err := c.sem.Acquire(c.ctx, 1); err != nil {
		c.push(fetched{pending: p, err: err})
		return
	}
	defer c.sem.Release(1)

	img, err := c.provider.Fetch(c.ctx, p.URL)
	c.push(fetched{pending: p, cellHeight: cellHeight, img: img, err: err})
}

func (c *Cache) push(f fetched) {
	c.mu.Lock()
	c.ready = append(c.ready, f)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Pump uploads every bitmap fetched since the last call and resolves their
// futures. It returns the number of futures resolved.
func (c *Cache) Pump() int {
	c.mu.Lock()
	batch := c.ready
	c.ready = nil
	released := c.released
	c.mu.Unlock()

	for _, f := range batch {
		switch {
		case released:
			c.fail(f.pending, ErrReleased)
		case f.err != nil:
			c.fail(f.pending, f.err)
		case f.img == nil:
			c.fail(f.pending, fmt.Errorf("%s: provider returned no image: %w", f.pending.URL, ErrEmptyImage))
		default:
			e, err := c.upload(f.pending.URL, f.img, f.cellHeight)
			if err != nil {
				c.fail(f.pending, err)
				continue
			}
			c.mu.Lock()
			c.entries[e.URL] = e
			delete(c.inflight, e.URL)
			c.mu.Unlock()
			f.pending.resolve(e, nil)
		}
	}
	return len(batch)
}

func (c *Cache) upload(url string, img *image.RGBA, cellHeight int) (*Entry, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%s: %w %dx%d", url, ErrEmptyImage, w, h)
	}
	if cellHeight <= 0 {
		cellHeight = h
	}
	if h < cellHeight || h%cellHeight != 0 {
		return nil, fmt.Errorf("%s: %w %d for height %d", url, ErrInvalidCellHeight, cellHeight, h)
	}
	img = bitmap.ToRGBA(img)

	e := &Entry{
		URL:        url,
		Width:      w,
		Height:     h,
		CellHeight: cellHeight,
		Layers:     h / cellHeight,
	}
	e.Texture = c.dev.CreateTextureArray(w, cellHeight, e.Layers, img.Pix)
	graphics.Logger().Info("texture uploaded",
		slog.String("url", url),
		slog.Int("width", w),
		slog.Int("height", h),
		slog.Int("layers", e.Layers))
	return e, nil
}

func (c *Cache) fail(p *Pending, err error) {
	c.mu.Lock()
	delete(c.inflight, p.URL)
	c.mu.Unlock()
	graphics.Logger().Warn("texture load failed",
		slog.String("url", p.URL),
		slog.String("error", err.Error()))
	p.resolve(nil, err)
}

// Load blocks until url is uploaded or ctx is done, pumping the ready queue
// while it waits. It must be called on the render thread.
func (c *Cache) Load(ctx context.Context, url string, cellHeight int) (*Entry, error) {
	p := c.LoadAsync(url, cellHeight)
	for {
		c.Pump()
		if p.Ready() {
			return p.Result()
		}
		select {
		case <-c.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Release deletes every texture and cancels outstanding fetches. Futures
// still in flight resolve with ErrReleased on the next Pump.
func (c *Cache) Release() {
	c.cancel()

	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*Entry)
	c.released = true
	c.mu.Unlock()

	for _, e := range entries {
		c.dev.DeleteTexture(e.Texture)
	}
}
