package config

import "sync"

const (
	minZoom = 0.1
	maxZoom = 10
)

// RenderSettings holds values toggled while the demo runs.
type RenderSettings struct {
	mu        sync.RWMutex
	outline   bool
	showStats bool
	zoom      float32
}

var globalRenderSettings = &RenderSettings{
	zoom: 1, // default value
}

// GetOutline reports whether every layer is forced to outline mode.
func GetOutline() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.outline
}

// ToggleOutline flips the outline override and returns the new value.
func ToggleOutline() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.outline = !globalRenderSettings.outline
	return globalRenderSettings.outline
}

// GetShowStats reports whether per-frame stats are logged.
func GetShowStats() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.showStats
}

// ToggleShowStats flips stats logging and returns the new value.
func ToggleShowStats() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.showStats = !globalRenderSettings.showStats
	return globalRenderSettings.showStats
}

// GetZoom returns the camera scale multiplier.
func GetZoom() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.zoom
}

// SetZoom sets the camera scale multiplier.
func SetZoom(zoom float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}

	globalRenderSettings.zoom = zoom
}

// ResetRenderSettings restores the defaults.
func ResetRenderSettings() {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.outline = false
	globalRenderSettings.showStats = false
	globalRenderSettings.zoom = 1
}
