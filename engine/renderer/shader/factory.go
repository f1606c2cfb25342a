package shader

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// ErrReservedChunk is returned for custom shader sources that include a chunk only the ubershader
// can use. The lights chunk is sized by the light budget and its uniforms are written to the
// ubershader alone.
var ErrReservedChunk = errors.New("shader: chunk is reserved for the ubershader")

// factory is the implementation of the Factory interface.
type factory struct {
	backend    backend.Backend
	budget     LightBudget
	pp         PreProcessor
	ubershader *program

	// custom holds one program per custom shader material, keyed by material identity.
	custom map[material.Material]*program
}

// Factory owns the shared ubershader and the programs of custom shader materials.
// It is used only from the render thread.
type Factory interface {
	// Budget returns the light budget the ubershader was generated for.
	//
	// Returns:
	//   - LightBudget: the fixed light slot counts
	Budget() LightBudget

	// Ubershader returns the shared program used by every built-in material kind.
	//
	// Returns:
	//   - Program: the ubershader, possibly Failed if it did not compile
	Ubershader() Program

	// ProgramFor selects the program that draws m. Built-in kinds share the ubershader. Custom shader
	// materials compile once on first request and are cached until Invalidate. Other kinds return nil.
	//
	// Parameters:
	//   - m: the material to draw
	//
	// Returns:
	//   - Program: the program, or nil when the kind has no program
	ProgramFor(m material.Material) Program

	// Invalidate drops the cached program of a custom shader material and deletes its GPU program.
	// The next ProgramFor call compiles it again from the material's current sources. Nothing is
	// compiled here.
	//
	// Parameters:
	//   - m: the material whose program should be rebuilt
	//
	// Returns:
	//   - Program: the dropped program, or nil when none was cached
	Invalidate(m material.Material) Program

	// Cached returns the number of custom programs currently cached.
	Cached() int
}

var _ Factory = &factory{}

// NewFactory generates, validates and compiles the ubershader for budget.
// A compile failure does not return an error: the ubershader is left Failed and logged.
//
// Parameters:
//   - b: the backend programs are compiled on
//   - budget: the light slot counts to generate the ubershader for
//   - options: variadic list of FactoryBuilderOption functions to configure the factory
//
// Returns:
//   - Factory: the factory
//   - error: an error wrapping ErrValidation if the generated source is malformed
func NewFactory(b backend.Backend, budget LightBudget, options ...FactoryBuilderOption) (Factory, error) {
	f := &factory{
		backend: b,
		budget:  budget,
		pp:      NewPreProcessor(),
		custom:  make(map[material.Material]*program),
	}
	for _, opt := range options {
		opt(f)
	}

	src, err := generateUbershader(f.pp, budget)
	if err != nil {
		return nil, err
	}
	common.Logger().Info("ubershader generated", "budget", budget.String())

	f.ubershader = buildProgram(b, "ubershader", src, UbershaderUniforms(budget))
	return f, nil
}

func (f *factory) Budget() LightBudget {
	return f.budget
}

func (f *factory) Ubershader() Program {
	return f.ubershader
}

func (f *factory) ProgramFor(m material.Material) Program {
	if m == nil {
		return nil
	}
	switch {
	case m.Kind().Builtin():
		return f.ubershader
	case m.Kind() == material.KindShader:
		if p, ok := f.custom[m]; ok {
			return p
		}
		p := f.buildCustom(m)
		f.custom[m] = p
		return p
	default:
		return nil
	}
}

// buildCustom pre-processes and compiles a custom shader material.
func (f *factory) buildCustom(m material.Material) *program {
	key := m.Name()
	if key == "" {
		key = fmt.Sprintf("shader@%p", m)
	}

	vertex, err := f.processCustom(m.VertexSource())
	if err != nil {
		return failedProgram(key, fmt.Errorf("vertex: %w", err))
	}
	fragment, err := f.processCustom(m.FragmentSource())
	if err != nil {
		return failedProgram(key, fmt.Errorf("fragment: %w", err))
	}

	names := slices.Concat(MatrixUniforms, slices.Sorted(maps.Keys(m.Uniforms())))
	return buildProgram(f.backend, key, Source{Vertex: vertex, Fragment: fragment}, names)
}

// processCustom expands the includes of one custom stage, refusing ubershader-only chunks.
func (f *factory) processCustom(source string) (string, error) {
	out, err := f.pp.Process(source)
	if err != nil {
		return "", err
	}
	if slices.Contains(f.pp.Includes(), AnnotationArgLights) {
		return "", fmt.Errorf("%w: %s", ErrReservedChunk, AnnotationArgLights)
	}
	return out, nil
}

func (f *factory) Invalidate(m material.Material) Program {
	p, ok := f.custom[m]
	if !ok {
		return nil
	}
	p.release()
	delete(f.custom, m)
	return p
}

func (f *factory) Cached() int {
	return len(f.custom)
}
