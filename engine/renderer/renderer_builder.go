package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLightCeiling sets the maximum number of light slots compiled into the ubershader.
//
// Parameters:
//   - n: the light slot ceiling; values below 1 fall back to shader.DefaultLightCeiling
//
// Returns:
//   - RendererBuilderOption: a function that applies the ceiling option to a renderer
func WithLightCeiling(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.lightCeiling = n
	}
}

// WithScene sizes the ubershader's light budget from the lights s holds at construction time.
// Without it the budget is one directional slot plus point slots up to the ceiling.
//
// Parameters:
//   - s: the scene whose lights decide the budget
//
// Returns:
//   - RendererBuilderOption: a function that applies the scene option to a renderer
func WithScene(s scene.Scene) RendererBuilderOption {
	return func(r *renderer) {
		r.budgetScene = s
	}
}

// WithDedupedWireframe removes duplicate edges from wireframe index buffers.
func WithDedupedWireframe(dedupe bool) RendererBuilderOption {
	return func(r *renderer) {
		r.dedupedWireframe = dedupe
	}
}

// WithClearColor sets the initial clear color and alpha.
//
// Parameters:
//   - color: the RGB clear color
//   - alpha: the clear alpha
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color [3]float32, alpha float32) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
		r.clearAlpha = alpha
	}
}

// WithAutoClear controls whether Render clears before drawing. Defaults to true.
func WithAutoClear(autoClear bool) RendererBuilderOption {
	return func(r *renderer) {
		r.autoClear = autoClear
	}
}

// WithFactoryOptions forwards options to the shader factory.
//
// Parameters:
//   - options: the factory options, such as extra chunks or a custom pre-processor
//
// Returns:
//   - RendererBuilderOption: a function that applies the factory options to a renderer
func WithFactoryOptions(options ...shader.FactoryBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.factoryOptions = append(r.factoryOptions, options...)
	}
}
