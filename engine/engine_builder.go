package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// EngineBuilderOption configures an Engine during NewEngine.
type EngineBuilderOption func(*engine)

// WithProfiling starts the engine with the profiler on.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerInterval sets how often profiling output is logged.
func WithProfilerInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilerInterval = interval
	}
}

// WithTickRate sets how many fixed update steps run per second. Non-positive rates select 60.
//
// Parameters:
//   - fps: ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickDuration(fps)
	}
}

// WithWindow sets the window the engine swaps buffers on and takes resize events from.
//
// Parameters:
//   - w: a window whose GL context is current on the calling thread, usually a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Surface) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithLoader sets the loader whose shader updates are applied each frame and which is closed when
// Run returns.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithScene adds a render layer, as AddScene does.
//
// Parameters:
//   - key: the layer order, lower keys draw first
//   - s: the Scene to register
//   - cam: the camera it is drawn through
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene, cam camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.AddScene(key, s, cam)
	}
}

// WithRenderFrameLimit caps frames per second by sleeping after each swap. 0 leaves the loop
// uncapped.
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}
