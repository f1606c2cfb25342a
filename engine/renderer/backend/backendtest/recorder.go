// Package backendtest provides an in-memory backend.Backend that records every call so renderer
// behavior can be asserted without a GPU or a window.
package backendtest

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// Call is one recorded backend invocation.
type Call struct {
	Name string
	Args []any
}

// ProgramRecord is what the recorder knows about a compiled program.
type ProgramRecord struct {
	Vertex   string
	Fragment string
	Deleted  bool
	// Uniforms holds the last value written to each named uniform while the program was current.
	Uniforms map[string]any
}

// Draw captures the state a DrawElements call was issued under.
type Draw struct {
	Program       backend.Program
	Mode          backend.Primitive
	Count         int
	ElementBuffer backend.Buffer
	Indices       []uint32
	BlendEquation backend.BlendEquation
	BlendSrc      backend.BlendFactor
	BlendDst      backend.BlendFactor
	LineWidth     float32
	// Uniforms is a snapshot of the current program's uniform values at draw time.
	Uniforms map[string]any
}

// TexUpload captures one TexImage2D call.
type TexUpload struct {
	Target  backend.TextureTarget
	Texture backend.Texture
	Width   int
	Height  int
}

// Recorder implements backend.Backend in memory. Handles are assigned sequentially from 1.
// Uniform and attribute names resolve when they appear in the program source, so names a
// program does not declare come back as backend.InvalidLocation.
type Recorder struct {
	// InitErr is returned by Init when set.
	InitErr error
	// CompileErr is returned by CompileProgram when set.
	CompileErr error
	// CompileErrFor is consulted when CompileErr is nil; a non-nil result fails the compile.
	CompileErrFor func(vertex, fragment string) error
	// PendingErrors are drained one per Err call.
	PendingErrors []error

	Calls     []Call
	Buffers   map[backend.Buffer][]byte
	Programs  map[backend.Program]*ProgramRecord
	Textures  []backend.Texture
	Uploads   []TexUpload
	Draws     []Draw
	Enabled   map[backend.Capability]bool
	Current   backend.Program
	UseCount  int
	ViewRect  [4]int
	Clears    int
	ClearRGBA [4]float32

	DepthFunction backend.DepthFunc
	Front         backend.FrontFace
	Cull          backend.CullFace
	BlendEq       backend.BlendEquation
	BlendSrc      backend.BlendFactor
	BlendDst      backend.BlendFactor
	Width         float32

	nextBuffer  backend.Buffer
	nextProgram backend.Program
	nextTexture backend.Texture
	nextLoc     int32

	element    backend.Buffer
	boundTex   map[int]map[backend.TextureTarget]backend.Texture
	activeUnit int
	locNames   map[backend.UniformLocation]string
	locProgram map[backend.UniformLocation]backend.Program
	uniformLoc map[backend.Program]map[string]backend.UniformLocation
}

var _ backend.Backend = &Recorder{}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Buffers:    make(map[backend.Buffer][]byte),
		Programs:   make(map[backend.Program]*ProgramRecord),
		Enabled:    make(map[backend.Capability]bool),
		boundTex:   make(map[int]map[backend.TextureTarget]backend.Texture),
		locNames:   make(map[backend.UniformLocation]string),
		locProgram: make(map[backend.UniformLocation]backend.Program),
		uniformLoc: make(map[backend.Program]map[string]backend.UniformLocation),
		Width:      1,
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

// CallNames returns the recorded call names in order.
func (r *Recorder) CallNames() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many calls with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and draws but keeps every created resource.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
	r.Uploads = nil
	r.UseCount = 0
}

// Uniform returns the last value written to name on program p.
func (r *Recorder) Uniform(p backend.Program, name string) (any, bool) {
	rec, ok := r.Programs[p]
	if !ok {
		return nil, false
	}
	v, ok := rec.Uniforms[name]
	return v, ok
}

// Floats decodes a buffer's contents as float32 values.
func (r *Recorder) Floats(buf backend.Buffer) []float32 {
	return common.BytesToFloat32(r.Buffers[buf])
}

// Indices decodes a buffer's contents as uint32 indices.
func (r *Recorder) Indices(buf backend.Buffer) []uint32 {
	return common.BytesToUint32(r.Buffers[buf])
}

func (r *Recorder) Init() error {
	r.record("Init")
	return r.InitErr
}

func (r *Recorder) Viewport(x, y, width, height int) {
	r.record("Viewport", x, y, width, height)
	r.ViewRect = [4]int{x, y, width, height}
}

func (r *Recorder) ClearColor(cr, g, b, a float32) {
	r.record("ClearColor", cr, g, b, a)
	r.ClearRGBA = [4]float32{cr, g, b, a}
}

func (r *Recorder) ClearDepth(depth float32) {
	r.record("ClearDepth", depth)
}

func (r *Recorder) Clear(color, depth bool) {
	r.record("Clear", color, depth)
	r.Clears++
}

func (r *Recorder) Enable(c backend.Capability) {
	r.record("Enable", c)
	r.Enabled[c] = true
}

func (r *Recorder) Disable(c backend.Capability) {
	r.record("Disable", c)
	r.Enabled[c] = false
}

func (r *Recorder) DepthFunc(f backend.DepthFunc) {
	r.record("DepthFunc", f)
	r.DepthFunction = f
}

func (r *Recorder) FrontFace(f backend.FrontFace) {
	r.record("FrontFace", f)
	r.Front = f
}

func (r *Recorder) CullFace(f backend.CullFace) {
	r.record("CullFace", f)
	r.Cull = f
}

func (r *Recorder) BlendEquation(eq backend.BlendEquation) {
	r.record("BlendEquation", eq)
	r.BlendEq = eq
}

func (r *Recorder) BlendFunc(src, dst backend.BlendFactor) {
	r.record("BlendFunc", src, dst)
	r.BlendSrc, r.BlendDst = src, dst
}

func (r *Recorder) LineWidth(width float32) {
	r.record("LineWidth", width)
	r.Width = width
}

func (r *Recorder) CreateBuffer() (backend.Buffer, error) {
	r.nextBuffer++
	r.record("CreateBuffer", r.nextBuffer)
	r.Buffers[r.nextBuffer] = nil
	return r.nextBuffer, nil
}

func (r *Recorder) BufferData(target backend.BufferTarget, buf backend.Buffer, data []byte) {
	r.record("BufferData", target, buf, len(data))
	cp := make([]byte, len(data))
	copy(cp, data)
	r.Buffers[buf] = cp
	if target == backend.BufferTargetElementArray {
		r.element = buf
	}
}

func (r *Recorder) BindBuffer(target backend.BufferTarget, buf backend.Buffer) {
	r.record("BindBuffer", target, buf)
	if target == backend.BufferTargetElementArray {
		r.element = buf
	}
}

func (r *Recorder) CompileProgram(vertexSource, fragmentSource string) (backend.Program, error) {
	r.record("CompileProgram")
	err := r.CompileErr
	if err == nil && r.CompileErrFor != nil {
		err = r.CompileErrFor(vertexSource, fragmentSource)
	}
	if err != nil {
		return 0, err
	}
	r.nextProgram++
	r.Programs[r.nextProgram] = &ProgramRecord{
		Vertex:   vertexSource,
		Fragment: fragmentSource,
		Uniforms: make(map[string]any),
	}
	r.uniformLoc[r.nextProgram] = make(map[string]backend.UniformLocation)
	return r.nextProgram, nil
}

func (r *Recorder) DeleteProgram(p backend.Program) {
	r.record("DeleteProgram", p)
	if rec, ok := r.Programs[p]; ok {
		rec.Deleted = true
	}
}

func (r *Recorder) UseProgram(p backend.Program) {
	r.record("UseProgram", p)
	r.Current = p
	r.UseCount++
}

// declares reports whether name appears as an identifier in the program source.
func (r *Recorder) declares(p backend.Program, name string) bool {
	rec, ok := r.Programs[p]
	if !ok {
		return false
	}
	for _, src := range []string{rec.Vertex, rec.Fragment} {
		for i := strings.Index(src, name); i >= 0; {
			end := i + len(name)
			before := i == 0 || !isIdent(src[i-1])
			after := end == len(src) || !isIdent(src[end])
			if before && after {
				return true
			}
			next := strings.Index(src[i+1:], name)
			if next < 0 {
				break
			}
			i += next + 1
		}
	}
	return false
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (r *Recorder) UniformLocation(p backend.Program, name string) backend.UniformLocation {
	r.record("UniformLocation", p, name)
	if loc, ok := r.uniformLoc[p][name]; ok {
		return loc
	}
	if !r.declares(p, name) {
		return backend.InvalidLocation
	}
	loc := backend.UniformLocation(r.nextLoc)
	r.nextLoc++
	r.uniformLoc[p][name] = loc
	r.locNames[loc] = name
	r.locProgram[loc] = p
	return loc
}

func (r *Recorder) AttribLocation(p backend.Program, name string) backend.AttribLocation {
	r.record("AttribLocation", p, name)
	if !r.declares(p, name) {
		return backend.InvalidLocation
	}
	switch name {
	case "position":
		return 0
	case "normal":
		return 1
	case "uv":
		return 2
	default:
		return 3
	}
}

// setUniform stores a value on the program that owns loc. Writes to a location that does not
// belong to the current program are recorded under a "!" prefix so tests can catch them.
func (r *Recorder) setUniform(fn string, loc backend.UniformLocation, v any) {
	r.record(fn, loc, v)
	name, ok := r.locNames[loc]
	if !ok {
		return
	}
	owner := r.locProgram[loc]
	rec := r.Programs[r.Current]
	if rec == nil {
		return
	}
	if owner != r.Current {
		name = "!" + name
	}
	rec.Uniforms[name] = v
}

func (r *Recorder) Uniform1i(loc backend.UniformLocation, v int32) {
	r.setUniform("Uniform1i", loc, v)
}

func (r *Recorder) Uniform1f(loc backend.UniformLocation, v float32) {
	r.setUniform("Uniform1f", loc, v)
}

func (r *Recorder) Uniform3f(loc backend.UniformLocation, x, y, z float32) {
	r.setUniform("Uniform3f", loc, [3]float32{x, y, z})
}

func (r *Recorder) Uniform4f(loc backend.UniformLocation, x, y, z, w float32) {
	r.setUniform("Uniform4f", loc, [4]float32{x, y, z, w})
}

func (r *Recorder) Uniform3fv(loc backend.UniformLocation, v []float32) {
	cp := make([]float32, len(v))
	copy(cp, v)
	r.setUniform("Uniform3fv", loc, cp)
}

func (r *Recorder) UniformMatrix3f(loc backend.UniformLocation, m mgl32.Mat3) {
	r.setUniform("UniformMatrix3f", loc, m)
}

func (r *Recorder) UniformMatrix4f(loc backend.UniformLocation, m mgl32.Mat4) {
	r.setUniform("UniformMatrix4f", loc, m)
}

func (r *Recorder) VertexAttrib(a backend.AttribLocation, buf backend.Buffer, size int) {
	r.record("VertexAttrib", a, buf, size)
}

func (r *Recorder) DisableVertexAttrib(a backend.AttribLocation) {
	r.record("DisableVertexAttrib", a)
}

func (r *Recorder) CreateTexture() (backend.Texture, error) {
	r.nextTexture++
	r.record("CreateTexture", r.nextTexture)
	r.Textures = append(r.Textures, r.nextTexture)
	return r.nextTexture, nil
}

func (r *Recorder) ActiveTexture(unit int) {
	r.record("ActiveTexture", unit)
	r.activeUnit = unit
}

func (r *Recorder) BindTexture(target backend.TextureTarget, t backend.Texture) {
	r.record("BindTexture", target, t)
	if r.boundTex[r.activeUnit] == nil {
		r.boundTex[r.activeUnit] = make(map[backend.TextureTarget]backend.Texture)
	}
	r.boundTex[r.activeUnit][target] = t
}

// Bound returns the texture bound to target on unit.
func (r *Recorder) Bound(unit int, target backend.TextureTarget) backend.Texture {
	return r.boundTex[unit][target]
}

func (r *Recorder) TexImage2D(target backend.TextureTarget, width, height int, pixels []byte) {
	r.record("TexImage2D", target, width, height)
	bind := target
	if target != backend.TextureTarget2D {
		bind = backend.TextureTargetCubeMap
	}
	r.Uploads = append(r.Uploads, TexUpload{
		Target:  target,
		Texture: r.boundTex[r.activeUnit][bind],
		Width:   width,
		Height:  height,
	})
}

func (r *Recorder) TexWrap(target backend.TextureTarget, s, t backend.TextureWrap) {
	r.record("TexWrap", target, s, t)
}

func (r *Recorder) TexFilter(target backend.TextureTarget, min, mag backend.TextureFilter) {
	r.record("TexFilter", target, min, mag)
}

func (r *Recorder) GenerateMipmap(target backend.TextureTarget) {
	r.record("GenerateMipmap", target)
}

func (r *Recorder) DrawElements(mode backend.Primitive, count int) {
	r.record("DrawElements", mode, count)
	snapshot := make(map[string]any)
	if rec := r.Programs[r.Current]; rec != nil {
		for k, v := range rec.Uniforms {
			snapshot[k] = v
		}
	}
	r.Draws = append(r.Draws, Draw{
		Program:       r.Current,
		Mode:          mode,
		Count:         count,
		ElementBuffer: r.element,
		Indices:       r.Indices(r.element),
		BlendEquation: r.BlendEq,
		BlendSrc:      r.BlendSrc,
		BlendDst:      r.BlendDst,
		LineWidth:     r.Width,
		Uniforms:      snapshot,
	})
}

func (r *Recorder) Err() error {
	r.record("Err")
	if len(r.PendingErrors) == 0 {
		return nil
	}
	err := r.PendingErrors[0]
	r.PendingErrors = r.PendingErrors[1:]
	return err
}

// String summarizes the recorder for failure messages.
func (r *Recorder) String() string {
	return fmt.Sprintf("Recorder{calls: %d, draws: %d, programs: %d, textures: %d}",
		len(r.Calls), len(r.Draws), len(r.Programs), len(r.Textures))
}
