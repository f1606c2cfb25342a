// Package backend defines the GPU API the renderer drives. The OpenGL implementation is in glbackend.
//
// The interface mirrors the shape of a GL-style immediate API: mutable blend and cull state,
// programs with named uniform locations, and indexed draws. Everything the core issues goes
// through it, so the renderer can be exercised against the in-memory recorder in backendtest.
package backend

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Buffer is a GPU buffer object handle. Zero is never a valid buffer.
type Buffer uint32

// Program is a linked GPU program handle. Zero is never a valid program.
type Program uint32

// Texture is a GPU texture object handle. Zero is never a valid texture.
type Texture uint32

// UniformLocation is a resolved uniform location. Negative values are unresolved.
type UniformLocation int32

// AttribLocation is a resolved vertex attribute location. Negative values are unresolved.
type AttribLocation int32

// InvalidLocation is returned for names the linked program does not expose.
const InvalidLocation = -1

// Valid reports whether the uniform location was resolved.
func (l UniformLocation) Valid() bool { return l >= 0 }

// Valid reports whether the attribute location was resolved.
func (l AttribLocation) Valid() bool { return l >= 0 }

// BufferTarget selects the binding point a buffer is used on.
type BufferTarget int

const (
	// BufferTargetArray holds per-vertex attribute data.
	BufferTargetArray BufferTarget = iota
	// BufferTargetElementArray holds draw indices.
	BufferTargetElementArray
)

// Primitive selects how indexed vertices are assembled.
type Primitive int

const (
	// PrimitiveTriangles draws each index triple as a filled triangle.
	PrimitiveTriangles Primitive = iota
	// PrimitiveLines draws each index pair as a line segment.
	PrimitiveLines
)

// String returns the GL-style primitive name.
// CoreLineWidth maps a requested line width into (0, 1], the range a forward-compatible core
// profile accepts without GL_INVALID_VALUE. Wider and non-positive widths become 1.
func CoreLineWidth(width float32) float32 {
	if width <= 0 || width > 1 {
		return 1
	}
	return width
}

func (p Primitive) String() string {
	if p == PrimitiveLines {
		return "LINES"
	}
	return "TRIANGLES"
}

// BlendEquation selects how source and destination terms are combined.
type BlendEquation int

const (
	// BlendEquationAdd adds the weighted source and destination.
	BlendEquationAdd BlendEquation = iota
	// BlendEquationSubtract subtracts the weighted destination from the weighted source.
	BlendEquationSubtract
	// BlendEquationReverseSubtract subtracts the weighted source from the weighted destination.
	BlendEquationReverseSubtract
)

// BlendFactor weights a blend term.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
)

// CullFace selects which polygon faces are discarded when culling is enabled.
type CullFace int

const (
	CullFaceBack CullFace = iota
	CullFaceFront
	CullFaceFrontAndBack
)

// FrontFace selects the winding order treated as front-facing.
type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// Capability is a toggleable pipeline feature.
type Capability int

const (
	CapabilityDepthTest Capability = iota
	CapabilityBlend
	CapabilityCullFace
)

// DepthFunc selects the depth comparison.
type DepthFunc int

const (
	DepthFuncLess DepthFunc = iota
	DepthFuncLessEqual
	DepthFuncAlways
)

// TextureTarget selects a texture binding point or, for uploads, a cube face.
type TextureTarget int

const (
	TextureTarget2D TextureTarget = iota
	TextureTargetCubeMap
	TextureTargetCubePositiveX
	TextureTargetCubeNegativeX
	TextureTargetCubePositiveY
	TextureTargetCubeNegativeY
	TextureTargetCubePositiveZ
	TextureTargetCubeNegativeZ
)

// CubeFaces lists the six cube face upload targets in +X, -X, +Y, -Y, +Z, -Z order.
var CubeFaces = [6]TextureTarget{
	TextureTargetCubePositiveX,
	TextureTargetCubeNegativeX,
	TextureTargetCubePositiveY,
	TextureTargetCubeNegativeY,
	TextureTargetCubePositiveZ,
	TextureTargetCubeNegativeZ,
}

// TextureWrap selects how coordinates outside [0, 1] are resolved.
type TextureWrap int

const (
	TextureWrapRepeat TextureWrap = iota
	TextureWrapClampToEdge
	TextureWrapMirroredRepeat
)

// TextureFilter selects the sampling filter.
type TextureFilter int

const (
	TextureFilterNearest TextureFilter = iota
	TextureFilterLinear
	TextureFilterLinearMipmapLinear
)

// Backend is the GPU API collaborator driven by the renderer. Implementations are not safe for
// concurrent use: every call must come from the thread that owns the context.
type Backend interface {
	// Init validates the context and prepares global state (vertex array object, pixel store).
	// It is called once by the renderer constructor before any other method.
	//
	// Returns:
	//   - error: error if no usable context is current
	Init() error

	// Viewport sets the rectangle draws are mapped into, in pixels.
	Viewport(x, y, width, height int)

	// ClearColor sets the color used when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// ClearDepth sets the value used when clearing the depth buffer.
	ClearDepth(depth float32)

	// Clear clears the selected buffers.
	Clear(color, depth bool)

	// Enable turns a capability on.
	Enable(c Capability)

	// Disable turns a capability off.
	Disable(c Capability)

	// DepthFunc sets the depth comparison.
	DepthFunc(f DepthFunc)

	// FrontFace sets the winding order treated as front-facing.
	FrontFace(f FrontFace)

	// CullFace sets which faces are discarded while culling is enabled.
	CullFace(f CullFace)

	// BlendEquation sets the blend equation.
	BlendEquation(eq BlendEquation)

	// BlendFunc sets the source and destination blend factors.
	BlendFunc(src, dst BlendFactor)

	// LineWidth sets the rasterized width of line primitives. Forward-compatible core contexts only
	// accept widths up to 1; see CoreLineWidth.
	LineWidth(width float32)

	// CreateBuffer allocates a new buffer object.
	//
	// Returns:
	//   - Buffer: the new handle
	//   - error: error if the driver could not allocate one
	CreateBuffer() (Buffer, error)

	// BufferData binds buf to target and replaces its contents with data (static usage).
	BufferData(target BufferTarget, buf Buffer, data []byte)

	// BindBuffer binds buf to target.
	BindBuffer(target BufferTarget, buf Buffer)

	// CompileProgram compiles a vertex and fragment stage and links them.
	//
	// Parameters:
	//   - vertexSource: the vertex stage source
	//   - fragmentSource: the fragment stage source
	//
	// Returns:
	//   - Program: the linked program
	//   - error: the compile or link info log when either step fails
	CompileProgram(vertexSource, fragmentSource string) (Program, error)

	// DeleteProgram releases a program.
	DeleteProgram(p Program)

	// UseProgram makes p the current program.
	UseProgram(p Program)

	// UniformLocation resolves a uniform by name, or InvalidLocation.
	UniformLocation(p Program, name string) UniformLocation

	// AttribLocation resolves a vertex attribute by name, or InvalidLocation.
	AttribLocation(p Program, name string) AttribLocation

	Uniform1i(loc UniformLocation, v int32)
	Uniform1f(loc UniformLocation, v float32)
	Uniform3f(loc UniformLocation, x, y, z float32)
	Uniform4f(loc UniformLocation, x, y, z, w float32)

	// Uniform3fv uploads len(v)/3 vec3 values starting at loc.
	Uniform3fv(loc UniformLocation, v []float32)

	UniformMatrix3f(loc UniformLocation, m mgl32.Mat3)
	UniformMatrix4f(loc UniformLocation, m mgl32.Mat4)

	// VertexAttrib binds buf as the float source of attribute a with size components per vertex
	// and enables the attribute array.
	VertexAttrib(a AttribLocation, buf Buffer, size int)

	// DisableVertexAttrib disables the attribute array a.
	DisableVertexAttrib(a AttribLocation)

	// CreateTexture allocates a new texture object.
	//
	// Returns:
	//   - Texture: the new handle
	//   - error: error if the driver could not allocate one
	CreateTexture() (Texture, error)

	// ActiveTexture selects the texture unit subsequent BindTexture calls affect.
	ActiveTexture(unit int)

	// BindTexture binds t to target on the active unit.
	BindTexture(target TextureTarget, t Texture)

	// TexImage2D uploads RGBA8 pixels to target (2D or one cube face) at mip level 0.
	TexImage2D(target TextureTarget, width, height int, pixels []byte)

	// TexWrap sets the S and T wrap modes of the texture bound to target.
	TexWrap(target TextureTarget, s, t TextureWrap)

	// TexFilter sets the minification and magnification filters of the texture bound to target.
	TexFilter(target TextureTarget, min, mag TextureFilter)

	// GenerateMipmap builds the mip chain of the texture bound to target.
	GenerateMipmap(target TextureTarget)

	// DrawElements draws count indices from the bound element buffer.
	DrawElements(mode Primitive, count int)

	// Err returns and clears the oldest pending GPU error, or nil.
	Err() error
}
