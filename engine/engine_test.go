package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (*engine, *backendtest.Recorder) {
	t.Helper()
	rec := backendtest.NewRecorder()
	r, err := renderer.NewRenderer(rec)
	require.NoError(t, err)
	return NewEngine(r, options...).(*engine), rec
}

func spinningTriangle(speed float32) game_object.GameObject {
	g := model.NewGeometry(
		model.WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}),
		model.WithFaces(model.NewFace3(0, 1, 2)),
	)
	g.ComputeFaceNormals()
	obj := game_object.NewMesh(g, material.NewMaterial(material.KindBasic))
	obj.SetRotationSpeed(0, speed, 0)
	return obj
}

func newTestScene(t *testing.T, objects ...game_object.GameObject) scene.Scene {
	t.Helper()
	s := scene.NewScene("test", scene.WithObjects(objects...), scene.WithUpdateWorkers(1))
	t.Cleanup(s.Close)
	return s
}

func newTestCamera() camera.Camera {
	return camera.NewCamera(camera.WithPosition(0, 0, 5), camera.WithTarget(0, 0, 0))
}

func TestFixedRateTicks(t *testing.T) {
	obj := spinningTriangle(1)
	ticks := 0
	var tickDt float32

	e, _ := newTestEngine(t, WithTickRate(10), WithScene(0, newTestScene(t, obj), newTestCamera()))
	e.SetTickCallback(func(dt float32) {
		ticks++
		tickDt = dt
	})

	start := time.Now()
	e.frame(start)
	e.frame(start.Add(50 * time.Millisecond))
	assert.Equal(t, 0, ticks)

	e.frame(start.Add(250 * time.Millisecond))
	assert.Equal(t, 2, ticks)
	assert.InDelta(t, 0.1, tickDt, 1e-6)
	assert.InDelta(t, 0.2, obj.Rotation().Y(), 1e-5, "scene objects update once per tick")

	e.frame(start.Add(time.Hour))
	assert.Equal(t, 2+maxTicksPerFrame, ticks, "catch-up is bounded")
	assert.Zero(t, e.accumulator)
}

func TestFrameClearsOnceAndDrawsEveryLayer(t *testing.T) {
	e, rec := newTestEngine(t)
	e.AddScene(1, newTestScene(t, spinningTriangle(0)), newTestCamera())
	e.AddScene(0, newTestScene(t, spinningTriangle(0)), newTestCamera())

	var renderDt float32 = -1
	e.SetRenderCallback(func(dt float32) { renderDt = dt })

	rec.Reset()
	now := time.Now()
	e.frame(now)
	e.frame(now.Add(20 * time.Millisecond))

	assert.Equal(t, 2, rec.Count("Clear"))
	assert.Len(t, rec.Draws, 4)
	assert.InDelta(t, 0.02, renderDt, 1e-6)
	assert.Len(t, e.Scenes(), 2)

	e.RemoveScene(1)
	assert.Nil(t, e.Scene(1))
	assert.NotNil(t, e.Scene(0))
}

func TestNewEngineTakesOverClearing(t *testing.T) {
	e, rec := newTestEngine(t)
	e.AddScene(0, newTestScene(t), newTestCamera())

	rec.Reset()
	e.renderer.Render(e.Scene(0), e.layers[0].camera)
	assert.Zero(t, rec.Count("Clear"), "auto clear is off")
}

func TestShaderUpdatesAppliedEachFrame(t *testing.T) {
	dir := t.TempDir()
	vertexPath := filepath.Join(dir, "s.vert")
	fragmentPath := filepath.Join(dir, "s.frag")
	require.NoError(t, os.WriteFile(vertexPath, []byte("void main() { gl_Position = vec4(0.0); }"), 0o644))
	require.NoError(t, os.WriteFile(fragmentPath, []byte("void main() {}"), 0o644))

	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithWorkers(1))
	t.Cleanup(func() { _ = l.Close() })

	mat := material.NewMaterial(material.KindShader)
	require.NoError(t, l.WatchShader(mat, vertexPath, fragmentPath))

	e, _ := newTestEngine(t, WithLoader(l))
	assert.Same(t, l, e.Loader())
	e.frame(time.Now())

	assert.Equal(t, "void main() { gl_Position = vec4(0.0); }", mat.VertexSource())
	assert.Equal(t, "void main() {}", mat.FragmentSource())
	assert.Empty(t, l.Drain())
}

func TestRateSetters(t *testing.T) {
	e, _ := newTestEngine(t, WithRenderFrameLimit(50), WithProfiling(true), WithProfilerInterval(time.Minute))
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	assert.True(t, e.profilingEnabled)

	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)
	e.SetTickRate(4)
	assert.Equal(t, 250*time.Millisecond, e.engineTickRate)

	e.DisableProfiler()
	assert.False(t, e.profilingEnabled)
	e.EnableProfiler()
	e.frame(time.Now())
}

func TestAddScenePanicsWithoutCamera(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Panics(t, func() { e.AddScene(0, newTestScene(t), nil) })
	assert.Panics(t, func() { NewEngine(nil) })
}

type fakeSurface struct {
	width, height int
	frames        int
	update        func()
	resize        func(width, height int)
	swaps         int
	closes        int
}

func (f *fakeSurface) Width() int                                { return f.width }
func (f *fakeSurface) Height() int                               { return f.height }
func (f *fakeSurface) SetUpdateCallback(callback func())         { f.update = callback }
func (f *fakeSurface) SetResizeCallback(callback func(w, h int)) { f.resize = callback }
func (f *fakeSurface) SwapBuffers()                              { f.swaps++ }
func (f *fakeSurface) Close() error                              { f.closes++; return nil }

func (f *fakeSurface) ProcessMessages() {
	for range f.frames {
		f.update()
	}
}

func TestRunDrivesFramesFromSurface(t *testing.T) {
	surface := &fakeSurface{width: 640, height: 480, frames: 3}
	cam := newTestCamera()
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithWorkers(1))

	e, rec := newTestEngine(t, WithWindow(surface), WithLoader(l), WithScene(0, newTestScene(t, spinningTriangle(0)), cam))
	w, h := e.Renderer().Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.InDelta(t, 640.0/480.0, cam.Aspect(), 1e-6)

	surface.resize(800, 400)
	assert.InDelta(t, 2, cam.Aspect(), 1e-6)
	w, _ = e.Renderer().Size()
	assert.Equal(t, 800, w)

	rec.Reset()
	e.Run()
	assert.Equal(t, 3, surface.swaps)
	assert.Equal(t, 3, rec.Count("Clear"))
	assert.Equal(t, 1, surface.closes)
	assert.ErrorIs(t, l.WatchShader(material.NewMaterial(material.KindShader), "a", "b"), loader.ErrClosed)
}

func TestQuitStopsFrames(t *testing.T) {
	surface := &fakeSurface{frames: 2}
	e, _ := newTestEngine(t, WithWindow(surface))
	e.Quit()
	e.Quit()
	e.Run()
	assert.Zero(t, surface.swaps)
	assert.Equal(t, 3, surface.closes)
	assert.Same(t, surface, e.Window())
}
