// Package glbackend implements backend.Backend on an OpenGL 4.1 core context through go-gl. It is
// the only package that links against the system GL library.
package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// glBackend implements Backend on an OpenGL 4.1 core profile context through go-gl.
// The context must already be current on the calling thread when Init runs.
//
// go-gl reference: https://pkg.go.dev/github.com/go-gl/gl/v4.1-core/gl
type glBackend struct {
	vao uint32
}

var _ backend.Backend = &glBackend{}

// New creates the OpenGL backend. No GL call is made until Init.
//
// Returns:
//   - Backend: the OpenGL backend
func New() backend.Backend {
	return &glBackend{}
}

func (b *glBackend) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	if gl.GetString(gl.VERSION) == nil {
		return fmt.Errorf("no current OpenGL context")
	}

	// The core profile refuses to draw without a bound vertex array object.
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return nil
}

func (b *glBackend) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (b *glBackend) ClearColor(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
}

func (b *glBackend) ClearDepth(depth float32) {
	gl.ClearDepth(float64(depth))
}

func (b *glBackend) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (b *glBackend) Enable(c backend.Capability) {
	gl.Enable(glCapability(c))
}

func (b *glBackend) Disable(c backend.Capability) {
	gl.Disable(glCapability(c))
}

func (b *glBackend) DepthFunc(f backend.DepthFunc) {
	switch f {
	case backend.DepthFuncLess:
		gl.DepthFunc(gl.LESS)
	case backend.DepthFuncAlways:
		gl.DepthFunc(gl.ALWAYS)
	default:
		gl.DepthFunc(gl.LEQUAL)
	}
}

func (b *glBackend) FrontFace(f backend.FrontFace) {
	if f == backend.FrontFaceCW {
		gl.FrontFace(gl.CW)
		return
	}
	gl.FrontFace(gl.CCW)
}

func (b *glBackend) CullFace(f backend.CullFace) {
	switch f {
	case backend.CullFaceFront:
		gl.CullFace(gl.FRONT)
	case backend.CullFaceFrontAndBack:
		gl.CullFace(gl.FRONT_AND_BACK)
	default:
		gl.CullFace(gl.BACK)
	}
}

func (b *glBackend) BlendEquation(eq backend.BlendEquation) {
	switch eq {
	case backend.BlendEquationSubtract:
		gl.BlendEquation(gl.FUNC_SUBTRACT)
	case backend.BlendEquationReverseSubtract:
		gl.BlendEquation(gl.FUNC_REVERSE_SUBTRACT)
	default:
		gl.BlendEquation(gl.FUNC_ADD)
	}
}

func (b *glBackend) BlendFunc(src, dst backend.BlendFactor) {
	gl.BlendFunc(glBlendFactor(src), glBlendFactor(dst))
}

func (b *glBackend) LineWidth(width float32) {
	gl.LineWidth(backend.CoreLineWidth(width))
}

func (b *glBackend) CreateBuffer() (backend.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glGenBuffers returned no buffer")
	}
	return backend.Buffer(id), nil
}

func (b *glBackend) BufferData(target backend.BufferTarget, buf backend.Buffer, data []byte) {
	t := glBufferTarget(target)
	gl.BindBuffer(t, uint32(buf))
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(t, len(data), ptr, gl.STATIC_DRAW)
}

func (b *glBackend) BindBuffer(target backend.BufferTarget, buf backend.Buffer) {
	gl.BindBuffer(glBufferTarget(target), uint32(buf))
}

func (b *glBackend) CompileProgram(vertexSource, fragmentSource string) (backend.Program, error) {
	vert, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(infoLog))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(infoLog, "\x00"))
	}
	return backend.Program(prog), nil
}

// compileShader compiles one stage and returns the info log as the error on failure.
func compileShader(source string, stage uint32) (uint32, error) {
	shader := gl.CreateShader(stage)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(infoLog, "\x00"))
	}
	return shader, nil
}

func (b *glBackend) DeleteProgram(p backend.Program) {
	gl.DeleteProgram(uint32(p))
}

func (b *glBackend) UseProgram(p backend.Program) {
	gl.UseProgram(uint32(p))
}

func (b *glBackend) UniformLocation(p backend.Program, name string) backend.UniformLocation {
	return backend.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (b *glBackend) AttribLocation(p backend.Program, name string) backend.AttribLocation {
	return backend.AttribLocation(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (b *glBackend) Uniform1i(loc backend.UniformLocation, v int32) {
	gl.Uniform1i(int32(loc), v)
}

func (b *glBackend) Uniform1f(loc backend.UniformLocation, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (b *glBackend) Uniform3f(loc backend.UniformLocation, x, y, z float32) {
	gl.Uniform3f(int32(loc), x, y, z)
}

func (b *glBackend) Uniform4f(loc backend.UniformLocation, x, y, z, w float32) {
	gl.Uniform4f(int32(loc), x, y, z, w)
}

func (b *glBackend) Uniform3fv(loc backend.UniformLocation, v []float32) {
	if len(v) < 3 {
		return
	}
	gl.Uniform3fv(int32(loc), int32(len(v)/3), &v[0])
}

func (b *glBackend) UniformMatrix3f(loc backend.UniformLocation, m mgl32.Mat3) {
	gl.UniformMatrix3fv(int32(loc), 1, false, &m[0])
}

func (b *glBackend) UniformMatrix4f(loc backend.UniformLocation, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (b *glBackend) VertexAttrib(a backend.AttribLocation, buf backend.Buffer, size int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.VertexAttribPointer(uint32(a), int32(size), gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(uint32(a))
}

func (b *glBackend) DisableVertexAttrib(a backend.AttribLocation) {
	gl.DisableVertexAttribArray(uint32(a))
}

func (b *glBackend) CreateTexture() (backend.Texture, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glGenTextures returned no texture")
	}
	return backend.Texture(id), nil
}

func (b *glBackend) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (b *glBackend) BindTexture(target backend.TextureTarget, t backend.Texture) {
	gl.BindTexture(glTextureBinding(target), uint32(t))
}

func (b *glBackend) TexImage2D(target backend.TextureTarget, width, height int, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(glTextureImageTarget(target), 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (b *glBackend) TexWrap(target backend.TextureTarget, s, t backend.TextureWrap) {
	bind := glTextureBinding(target)
	gl.TexParameteri(bind, gl.TEXTURE_WRAP_S, glWrap(s))
	gl.TexParameteri(bind, gl.TEXTURE_WRAP_T, glWrap(t))
	if bind == gl.TEXTURE_CUBE_MAP {
		gl.TexParameteri(bind, gl.TEXTURE_WRAP_R, glWrap(t))
	}
}

func (b *glBackend) TexFilter(target backend.TextureTarget, min, mag backend.TextureFilter) {
	bind := glTextureBinding(target)
	gl.TexParameteri(bind, gl.TEXTURE_MIN_FILTER, glFilter(min))
	gl.TexParameteri(bind, gl.TEXTURE_MAG_FILTER, glFilter(mag))
}

func (b *glBackend) GenerateMipmap(target backend.TextureTarget) {
	gl.GenerateMipmap(glTextureBinding(target))
}

func (b *glBackend) DrawElements(mode backend.Primitive, count int) {
	prim := uint32(gl.TRIANGLES)
	if mode == backend.PrimitiveLines {
		prim = gl.LINES
	}
	gl.DrawElements(prim, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (b *glBackend) Err() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	return fmt.Errorf("gl error %s (0x%04x)", glErrorName(code), code)
}

func glCapability(c backend.Capability) uint32 {
	switch c {
	case backend.CapabilityBlend:
		return gl.BLEND
	case backend.CapabilityCullFace:
		return gl.CULL_FACE
	default:
		return gl.DEPTH_TEST
	}
}

func glBlendFactor(f backend.BlendFactor) uint32 {
	switch f {
	case backend.BlendFactorOne:
		return gl.ONE
	case backend.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case backend.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case backend.BlendFactorDstColor:
		return gl.DST_COLOR
	case backend.BlendFactorOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	default:
		return gl.ZERO
	}
}

func glBufferTarget(t backend.BufferTarget) uint32 {
	if t == backend.BufferTargetElementArray {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// glTextureBinding maps a target to the bind point; cube faces bind as the cube map.
func glTextureBinding(t backend.TextureTarget) uint32 {
	if t == backend.TextureTarget2D {
		return gl.TEXTURE_2D
	}
	return gl.TEXTURE_CUBE_MAP
}

func glTextureImageTarget(t backend.TextureTarget) uint32 {
	switch t {
	case backend.TextureTargetCubePositiveX:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X
	case backend.TextureTargetCubeNegativeX:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_X
	case backend.TextureTargetCubePositiveY:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_Y
	case backend.TextureTargetCubeNegativeY:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_Y
	case backend.TextureTargetCubePositiveZ:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_Z
	case backend.TextureTargetCubeNegativeZ:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_Z
	default:
		return gl.TEXTURE_2D
	}
}

func glWrap(w backend.TextureWrap) int32 {
	switch w {
	case backend.TextureWrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case backend.TextureWrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func glFilter(f backend.TextureFilter) int32 {
	switch f {
	case backend.TextureFilterNearest:
		return gl.NEAREST
	case backend.TextureFilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func glErrorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	default:
		return "UNKNOWN"
	}
}
