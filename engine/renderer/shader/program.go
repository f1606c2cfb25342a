package shader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// ErrCompile wraps compile and link failures reported by the backend.
var ErrCompile = errors.New("shader: program failed to compile")

// program is the implementation of the Program interface.
type program struct {
	key       string
	backend   backend.Backend
	handle    backend.Program
	residency common.Residency
	source    Source
	err       error

	uniforms map[string]backend.UniformLocation
	attribs  map[string]backend.AttribLocation

	// reported holds names already logged as unresolved.
	reported map[string]bool
}

// Program is a compiled GPU program with its resolved uniform and attribute locations.
// A program whose residency is not Ready must never be bound.
type Program interface {
	// Key returns the identifier used in logs ("ubershader" or the material name).
	Key() string

	// Handle returns the backend program handle. Zero when the program is not Ready.
	Handle() backend.Program

	// Residency returns the lifecycle state of the program.
	Residency() common.Residency

	// Ready reports whether the program compiled and linked.
	Ready() bool

	// Err returns the compile or link failure, wrapping ErrCompile, or nil.
	Err() error

	// Source returns the stage sources the program was built from, after pre-processing.
	Source() Source

	// Uniform returns the location of a uniform, resolving and caching names on first use.
	// Unresolved names return backend.InvalidLocation and are logged once at debug level.
	//
	// Parameters:
	//   - name: the uniform identifier
	//
	// Returns:
	//   - backend.UniformLocation: the location, or backend.InvalidLocation
	Uniform(name string) backend.UniformLocation

	// Attrib returns the location of a vertex input, with the same caching and logging as Uniform.
	//
	// Parameters:
	//   - name: the attribute identifier
	//
	// Returns:
	//   - backend.AttribLocation: the location, or backend.InvalidLocation
	Attrib(name string) backend.AttribLocation

	// Uniforms returns the sorted names of every resolved uniform.
	Uniforms() []string
}

var _ Program = &program{}

// buildProgram compiles src and resolves locations for the given uniform names plus every uniform
// declared in either stage and every vertex input. Failures are logged and leave the program Failed.
func buildProgram(b backend.Backend, key string, src Source, uniformNames []string) *program {
	p := &program{
		key:       key,
		backend:   b,
		residency: common.ResidencyLoading,
		source:    src,
		uniforms:  make(map[string]backend.UniformLocation),
		attribs:   make(map[string]backend.AttribLocation),
		reported:  make(map[string]bool),
	}

	handle, err := b.CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		p.fail(fmt.Errorf("%w: %s: %w", ErrCompile, key, err))
		return p
	}
	p.handle = handle
	p.residency = common.ResidencyReady

	names := slices.Clone(uniformNames)
	for _, u := range parseUniforms(src.Vertex) {
		names = append(names, u.name)
	}
	for _, u := range parseUniforms(src.Fragment) {
		names = append(names, u.name)
	}
	for _, name := range names {
		if _, ok := p.uniforms[name]; !ok {
			p.uniforms[name] = b.UniformLocation(handle, name)
		}
	}
	for _, in := range parseInputs(src.Vertex) {
		p.attribs[in.name] = b.AttribLocation(handle, in.name)
	}

	common.Logger().Info("shader program built", "program", key, "uniforms", len(p.Uniforms()), "attributes", len(p.attribs))
	return p
}

// failedProgram returns a program that never compiled because its source could not be prepared.
func failedProgram(key string, err error) *program {
	p := &program{key: key}
	p.fail(fmt.Errorf("%w: %s: %w", ErrCompile, key, err))
	return p
}

func (p *program) fail(err error) {
	p.err = err
	p.handle = 0
	p.residency = common.ResidencyFailed
	common.Logger().Error("shader program failed", "program", p.key, "error", err)
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Handle() backend.Program {
	return p.handle
}

func (p *program) Residency() common.Residency {
	return p.residency
}

func (p *program) Ready() bool {
	return p.residency == common.ResidencyReady
}

func (p *program) Err() error {
	return p.err
}

func (p *program) Source() Source {
	return p.source
}

func (p *program) Uniform(name string) backend.UniformLocation {
	if !p.Ready() {
		return backend.InvalidLocation
	}
	loc, ok := p.uniforms[name]
	if !ok {
		loc = p.backend.UniformLocation(p.handle, name)
		p.uniforms[name] = loc
	}
	if !loc.Valid() {
		p.report("uniform", name)
	}
	return loc
}

func (p *program) Attrib(name string) backend.AttribLocation {
	if !p.Ready() {
		return backend.InvalidLocation
	}
	loc, ok := p.attribs[name]
	if !ok {
		loc = p.backend.AttribLocation(p.handle, name)
		p.attribs[name] = loc
	}
	if !loc.Valid() {
		p.report("attribute", name)
	}
	return loc
}

func (p *program) Uniforms() []string {
	var names []string
	for name, loc := range p.uniforms {
		if loc.Valid() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// report logs an unresolved name once per program.
func (p *program) report(kind, name string) {
	if p.reported[name] {
		return
	}
	p.reported[name] = true
	common.Logger().Debug("unresolved "+kind+", write skipped", "program", p.key, "name", name)
}

// release deletes the backend program and marks it unloaded.
func (p *program) release() {
	if p.Ready() {
		p.backend.DeleteProgram(p.handle)
	}
	p.handle = 0
	p.residency = common.ResidencyUnloaded
	clear(p.uniforms)
	clear(p.attribs)
}
