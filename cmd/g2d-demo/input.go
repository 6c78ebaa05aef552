package main

import (
	"g2d/internal/config"
	"g2d/internal/graphics"
	"g2d/internal/graphics/renderer"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// panSpeed is in screen widths per second.
const panSpeed = 0.5

// cameraController moves the scene camera from keyboard state.
type cameraController struct {
	base graphics.Camera
	x, y float32
}

func newCameraController(base graphics.Camera) *cameraController {
	return &cameraController{base: base, x: base.X, y: base.Y}
}

func (c *cameraController) update(w *glfw.Window, dt float64) {
	width, _ := w.GetFramebufferSize()
	step := float32(dt) * panSpeed * float32(width) * c.camera().Scale
	if w.GetKey(glfw.KeyLeft) == glfw.Press || w.GetKey(glfw.KeyA) == glfw.Press {
		c.x -= step
	}
	if w.GetKey(glfw.KeyRight) == glfw.Press || w.GetKey(glfw.KeyD) == glfw.Press {
		c.x += step
	}
	if w.GetKey(glfw.KeyUp) == glfw.Press || w.GetKey(glfw.KeyW) == glfw.Press {
		c.y -= step
	}
	if w.GetKey(glfw.KeyDown) == glfw.Press || w.GetKey(glfw.KeyS) == glfw.Press {
		c.y += step
	}
}

func (c *cameraController) camera() graphics.Camera {
	scale := c.base.Scale
	if scale == 0 {
		scale = 1
	}
	return graphics.Camera{X: c.x, Y: c.y, Scale: scale * config.GetZoom()}
}

func (c *cameraController) reset() {
	c.x, c.y = c.base.X, c.base.Y
	config.SetZoom(1)
}

func setupInputHandlers(window *glfw.Window, r *renderer.Renderer, cam *cameraController) {
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.UpdateViewport(width, height)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		config.SetZoom(config.GetZoom() * (1 - float32(yoff)*0.1))
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyO:
			slog.Info("outline override", "enabled", config.ToggleOutline())
		case glfw.KeyP:
			slog.Info("frame stats", "enabled", config.ToggleShowStats())
		case glfw.KeyEqual, glfw.KeyKPAdd:
			config.SetZoom(config.GetZoom() * 0.8)
		case glfw.KeyMinus, glfw.KeyKPSubtract:
			config.SetZoom(config.GetZoom() * 1.25)
		case glfw.Key0, glfw.KeyHome:
			cam.reset()
		}
	})
}
