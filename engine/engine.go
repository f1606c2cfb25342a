// Package engine runs the frame loop: fixed-rate ticks, shader hot reload, scene rendering and
// buffer swaps, all on the thread that owns the GL context.
package engine

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// maxTicksPerFrame bounds catch-up after a stall.
const maxTicksPerFrame = 8

// Surface is the window the engine presents to. window.Window satisfies it.
type Surface interface {
	Width() int
	Height() int
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	ProcessMessages()
	SwapBuffers()
	Close() error
}

// layer is a scene and the camera it is drawn through.
type layer struct {
	scene  scene.Scene
	camera camera.Camera
}

// engine implements the Engine interface.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once

	window   Surface
	renderer renderer.Renderer
	loader   loader.Loader

	profiler         *profiler.Profiler
	profilerInterval time.Duration
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	layers map[int]layer

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastFrame   time.Time
	accumulator time.Duration
}

// Engine is the main entry point. It owns the frame loop over a window, a renderer and an optional
// loader.
type Engine interface {
	// Window returns the surface, or nil.
	Window() Surface

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// Loader returns the loader, or nil.
	Loader() loader.Loader

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback and scene updates run at this rate regardless of the frame rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic, input processing and animation.
	//
	// Parameters:
	//   - callback: function receiving the fixed tick length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame after the scenes are drawn and
	// before the buffers are swapped.
	//
	// Parameters:
	//   - callback: function receiving the frame time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene and its camera at the given z-index key.
	// Scenes are drawn in ascending key order over one clear, so later scenes layer on top. The
	// camera aspect follows the window size.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	//   - cam: the camera it is drawn through
	AddScene(key int, s scene.Scene, cam camera.Camera)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key, or nil.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// Run drives the frame loop from the window's message loop. Blocks until the window closes or
	// Quit is called, then closes the loader and window.
	Run()

	// Quit stops the frame loop. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine. A renderer is required; the engine takes over clearing, so the
// renderer's auto clear is turned off.
//
// Parameters:
//   - r: the renderer drawing every scene
//   - options: functional options for engine configuration (window, loader, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: nil renderer")
	}

	e := &engine{
		quitChannel:    make(chan struct{}),
		renderer:       r,
		layers:         make(map[int]layer),
		engineTickRate: time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.profilerInterval)

	r.SetAutoClear(false)

	if e.window != nil {
		e.resize(e.window.Width(), e.window.Height())
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() Surface {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run needs a window")
	}

	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
			return
		default:
		}
		e.frame(time.Now())
	})
	e.window.ProcessMessages()
	e.signalQuit()
	_ = e.window.Close()

	if e.loader != nil {
		if err := e.loader.Close(); err != nil {
			common.Logger().Warn("loader close failed", "error", err)
		}
	}
	for _, l := range e.layers {
		l.scene.Close()
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) resize(width, height int) {
	e.renderer.SetSize(width, height)
	if height <= 0 {
		return
	}
	for _, l := range e.layers {
		if l.camera != nil {
			l.camera.SetAspect(float32(width) / float32(height))
		}
	}
}

// frame runs one iteration of the loop: pending ticks, shader reloads, the scenes in key order, the
// render callback, the swap and the frame limit.
func (e *engine) frame(now time.Time) {
	elapsed := now.Sub(e.lastFrame)
	if e.lastFrame.IsZero() {
		elapsed = 0
	}
	e.lastFrame = now
	dt := float32(elapsed.Seconds())

	e.accumulator += elapsed
	tickDt := float32(e.engineTickRate.Seconds())
	for ticks := 0; e.accumulator >= e.engineTickRate; ticks++ {
		if ticks == maxTicksPerFrame {
			e.accumulator = 0
			break
		}
		e.accumulator -= e.engineTickRate
		if e.tickCallback != nil {
			e.tickCallback(tickDt)
		}
		for _, l := range e.layers {
			l.scene.Update(tickDt)
		}
	}

	if e.loader != nil {
		if updates := e.loader.Drain(); len(updates) > 0 {
			e.renderer.ApplyShaderUpdates(updates)
		}
	}

	e.renderer.Clear()
	keys := make([]int, 0, len(e.layers))
	for k := range e.layers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		l := e.layers[k]
		e.renderer.Render(l.scene, l.camera)
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	if e.window != nil {
		e.window.SwapBuffers()
	}

	if e.profilingEnabled {
		e.profiler.Tick(e.renderer.Stats())
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickDuration(fps)
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene, cam camera.Camera) {
	if s == nil || cam == nil {
		panic(fmt.Sprintf("engine: AddScene(%d) needs a scene and a camera", key))
	}
	e.layers[key] = layer{scene: s, camera: cam}
	if e.window != nil && e.window.Height() > 0 {
		cam.SetAspect(float32(e.window.Width()) / float32(e.window.Height()))
	}
}

func (e *engine) RemoveScene(key int) {
	delete(e.layers, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.layers[key].scene
}

func (e *engine) Scenes() map[int]scene.Scene {
	cp := make(map[int]scene.Scene, len(e.layers))
	for k, v := range e.layers {
		cp[k] = v.scene
	}
	return cp
}
