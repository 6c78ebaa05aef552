package main

import (
	"context"
	"flag"
	"fmt"
	"g2d/internal/config"
	"g2d/internal/demo"
	"g2d/internal/graphics"
	"g2d/internal/graphics/gldevice"
	"g2d/internal/graphics/renderer"
	"g2d/internal/profiling"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/schollz/progressbar/v3"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	fps := flag.Int("fps", -1, "frame rate cap, 0 disables (overrides config)")
	preloadTimeout := flag.Duration("preload-timeout", 30*time.Second, "time allowed for preloading textures")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	graphics.SetLogger(logger)

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		opts = *loaded
	}
	if *fps >= 0 {
		opts.Window.FPS = *fps
	}

	if err := run(&opts, *preloadTimeout); err != nil {
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(opts *config.Options, preloadTimeout time.Duration) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(opts.Window)
	if err != nil {
		return err
	}

	dev, err := gldevice.Init()
	if err != nil {
		return err
	}

	ctx, err := renderer.FromConfig(dev, opts)
	if err != nil {
		return err
	}
	defer ctx.Release()

	fbw, fbh := window.GetFramebufferSize()
	ctx.Resize(fbw, fbh)

	if err := preload(ctx, opts.Textures, preloadTimeout); err != nil {
		return err
	}

	r, err := renderer.NewRenderer(ctx, opts.ClearColor,
		demo.NewScene(opts.Scene),
		&demo.StatsLogger{Interval: time.Second, Enabled: config.GetShowStats},
	)
	if err != nil {
		return err
	}
	defer r.Dispose()

	cam := newCameraController(opts.Scene.Camera.ToCamera())
	setupInputHandlers(window, r, cam)

	runLoop(window, r, cam, demo.NewFrameLimiter(opts.Window))
	return nil
}

func setupWindow(w config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(w.Width, w.Height, w.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	if w.VSync {
		glfw.SwapInterval(1)
	} else {
		// Disable V-Sync; demo.FrameLimiter paces frames
		glfw.SwapInterval(0)
	}
	return window, nil
}

// preload starts every texture fetch at once, then waits for each in turn.
func preload(ctx *renderer.Context, textures []config.Texture, timeout time.Duration) error {
	if len(textures) == 0 {
		return nil
	}
	loadCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, t := range textures {
		ctx.LoadTextureAsync(t.URL, t.CellHeight)
	}

	pb := progressbar.Default(int64(len(textures)), "textures")
	defer pb.Close()

	for _, t := range textures {
		entry, err := ctx.LoadTexture(loadCtx, t.URL, t.CellHeight)
		if err != nil {
			return fmt.Errorf("preload %s: %w", t.URL, err)
		}
		slog.Debug("texture ready", "url", entry.URL, "layers", entry.Layers)
		pb.Add(1)
	}
	return nil
}

func runLoop(window *glfw.Window, r *renderer.Renderer, cam *cameraController, limiter *demo.FrameLimiter) {
	lastTime := time.Now()

	for !window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		func() { defer profiling.Track("input.Update")(); cam.update(window, dt) }()
		r.SetCamera(cam.camera())

		if err := r.Render(dt); err != nil {
			slog.Debug("frame had errors", "error", err)
		}

		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

		limiter.Wait()
	}
}
