package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// ErrContextUnavailable is returned by NewRenderer when there is no usable GPU context.
var ErrContextUnavailable = errors.New("renderer: graphics context unavailable")

// CullMode selects which faces SetFaceCulling discards.
type CullMode int

const (
	// CullNone disables face culling.
	CullNone CullMode = iota
	CullBack
	CullFront
	CullFrontAndBack
)

// Winding selects which vertex order SetFaceCulling treats as front-facing.
type Winding int

const (
	// WindingUnset behaves as WindingCounterClockwise.
	WindingUnset Winding = iota
	WindingCounterClockwise
	WindingClockwise
)

// Stats describes the most recent Render call.
type Stats struct {
	// Frame counts Render calls since construction.
	Frame uint64
	// Groups is the length of the render list.
	Groups int
	// DrawCalls is the number of indexed draws issued.
	DrawCalls int
	// Triangles is the number of triangles drawn.
	Triangles int
	// Lines is the number of line segments drawn.
	Lines int
	// ProgramSwitches is the number of program binds.
	ProgramSwitches int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backend  backend.Backend
	ctx      *renderContext
	factory  shader.Factory
	buffers  *bufferCache
	textures *textureManager
	binder   *uniformBinder

	width, height int
	autoClear     bool
	clearColor    [3]float32
	clearAlpha    float32

	// Pre-creation config collected from builder options
	lightCeiling     int
	budgetScene      scene.Scene
	dedupedWireframe bool
	factoryOptions   []shader.FactoryBuilderOption

	stats Stats

	// warned holds program keys whose skipped draws were already logged.
	warned map[string]bool
}

// Renderer draws a scene through a camera into the current GL context. Every method must be called
// from the thread that owns the context.
type Renderer interface {
	// SetSize sets the viewport to width by height pixels.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	SetSize(width, height int)

	// Size returns the last size passed to SetSize.
	Size() (width, height int)

	// Clear clears the color and depth buffers.
	Clear()

	// SetClearColor sets the color and alpha Clear fills the color buffer with.
	//
	// Parameters:
	//   - color: the RGB clear color
	//   - alpha: the clear alpha
	SetClearColor(color [3]float32, alpha float32)

	// SetAutoClear controls whether Render clears before drawing.
	SetAutoClear(autoClear bool)

	// Render draws every visible object of s as seen from cam. Objects met for the first time get
	// their GPU buffers built and join the scene's render list. Opaque normal-blended materials draw
	// first, then additive and subtractive opaque materials, then additive, subtractive and normal
	// transparent materials.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the viewpoint
	Render(s scene.Scene, cam camera.Camera)

	// Remove drops obj's groups from the scene's render list. GPU buffers are kept.
	//
	// Parameters:
	//   - s: the scene obj was drawn in
	//   - obj: the object to stop drawing
	Remove(s scene.Scene, obj game_object.GameObject)

	// SetBlending sets the blend equation and factors for mode.
	//
	// Parameters:
	//   - mode: the compositing mode
	SetBlending(mode material.Blending)

	// SetFaceCulling sets which faces are discarded. CullNone disables culling.
	//
	// Parameters:
	//   - cull: the faces to discard
	//   - winding: the front-facing vertex order
	SetFaceCulling(cull CullMode, winding Winding)

	// ApplyShaderUpdates swaps new sources into custom shader materials and drops their cached
	// programs so the next draw recompiles them.
	//
	// Parameters:
	//   - updates: the pending source changes
	//
	// Returns:
	//   - int: the number of updates applied
	ApplyShaderUpdates(updates []material.SourceUpdate) int

	// Factory returns the program factory.
	Factory() shader.Factory

	// Stats returns the statistics of the most recent Render call.
	Stats() Stats
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer on b. The backend is initialized, the ubershader is generated for
// the light budget and the initial pipeline state is set: clear color (0, 0, 0, 0), depth test
// LEQUAL, counter-clockwise front faces with back faces culled, normal blending.
//
// Parameters:
//   - b: the GPU backend
//   - options: variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error wrapping ErrContextUnavailable if b is nil or fails to initialize, or the
//     ubershader generation error
func NewRenderer(b backend.Backend, options ...RendererBuilderOption) (Renderer, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrContextUnavailable)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}

	r := &renderer{
		backend:      b,
		ctx:          newRenderContext(b),
		autoClear:    true,
		lightCeiling: shader.DefaultLightCeiling,
		warned:       make(map[string]bool),
	}
	for _, opt := range options {
		opt(r)
	}

	budget := shader.DefaultLightBudget(r.lightCeiling)
	if r.budgetScene != nil {
		directional, point := countLights(r.budgetScene.Lights())
		budget = shader.AllocateLightBudget(directional, point, r.lightCeiling)
	}

	factory, err := shader.NewFactory(b, budget, r.factoryOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader factory: %w", err)
	}
	r.factory = factory
	r.buffers = newBufferCache(b, r.dedupedWireframe)
	r.textures = newTextureManager(b)
	r.binder = &uniformBinder{ctx: r.ctx, textures: r.textures}

	b.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearAlpha)
	b.ClearDepth(1)
	b.Enable(backend.CapabilityDepthTest)
	b.DepthFunc(backend.DepthFuncLessEqual)
	b.FrontFace(backend.FrontFaceCCW)
	b.CullFace(backend.CullFaceBack)
	b.Enable(backend.CapabilityCullFace)
	b.Enable(backend.CapabilityBlend)
	r.SetBlending(material.BlendingNormal)

	if uber := factory.Ubershader(); uber.Ready() {
		r.ctx.use(uber)
		r.ctx.set1i(uber, "tCube", cubeUnit)
	}

	common.Logger().Info("renderer ready", "budget", budget.String(), "autoClear", r.autoClear)
	return r, nil
}

func (r *renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	r.backend.Viewport(0, 0, width, height)
}

func (r *renderer) Size() (width, height int) {
	return r.width, r.height
}

func (r *renderer) Clear() {
	r.backend.Clear(true, true)
}

func (r *renderer) SetClearColor(color [3]float32, alpha float32) {
	r.clearColor, r.clearAlpha = color, alpha
	r.backend.ClearColor(color[0], color[1], color[2], alpha)
}

func (r *renderer) SetAutoClear(autoClear bool) {
	r.autoClear = autoClear
}

func (r *renderer) Remove(s scene.Scene, obj game_object.GameObject) {
	if s == nil || obj == nil {
		return
	}
	s.Prune(obj)
}

func (r *renderer) SetBlending(mode material.Blending) {
	switch mode {
	case material.BlendingAdditive:
		r.backend.BlendEquation(backend.BlendEquationAdd)
		r.backend.BlendFunc(backend.BlendFactorOne, backend.BlendFactorOne)
	case material.BlendingSubtractive:
		r.backend.BlendFunc(backend.BlendFactorDstColor, backend.BlendFactorZero)
	default:
		r.backend.BlendEquation(backend.BlendEquationAdd)
		r.backend.BlendFunc(backend.BlendFactorOne, backend.BlendFactorOneMinusSrcAlpha)
	}
}

func (r *renderer) SetFaceCulling(cull CullMode, winding Winding) {
	if cull == CullNone {
		r.backend.Disable(backend.CapabilityCullFace)
		return
	}

	if winding == WindingUnset || winding == WindingCounterClockwise {
		r.backend.FrontFace(backend.FrontFaceCCW)
	} else {
		r.backend.FrontFace(backend.FrontFaceCW)
	}

	switch cull {
	case CullBack:
		r.backend.CullFace(backend.CullFaceBack)
	case CullFront:
		r.backend.CullFace(backend.CullFaceFront)
	default:
		r.backend.CullFace(backend.CullFaceFrontAndBack)
	}
	r.backend.Enable(backend.CapabilityCullFace)
}

func (r *renderer) ApplyShaderUpdates(updates []material.SourceUpdate) int {
	applied := 0
	for _, u := range updates {
		if u.Material == nil || u.Material.Kind() != material.KindShader {
			continue
		}
		u.Material.SetSources(u.Vertex, u.Fragment)
		if old := r.factory.Invalidate(u.Material); old != nil {
			r.ctx.forget(old)
			delete(r.warned, old.Key())
		}
		applied++
		common.Logger().Info("shader source updated", "material", u.Material.Name())
	}
	return applied
}

func (r *renderer) Factory() shader.Factory {
	return r.factory
}

func (r *renderer) Stats() Stats {
	return r.stats
}
