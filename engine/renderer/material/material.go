package material

import (
	"maps"

	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// Kind is the closed set of material variants. Built-in kinds share the ubershader and their
// numeric value is the discriminator the fragment stage switches on.
type Kind int

const (
	KindBasic Kind = iota
	KindLambert
	KindPhong
	KindDepth
	KindNormal
	KindCube
	// KindShader compiles user supplied source into its own program.
	KindShader
	// KindFace marks a mesh material slot that defers to each face's own material list.
	KindFace
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindLambert:
		return "lambert"
	case KindPhong:
		return "phong"
	case KindDepth:
		return "depth"
	case KindNormal:
		return "normal"
	case KindCube:
		return "cube"
	case KindShader:
		return "shader"
	case KindFace:
		return "face"
	default:
		return "unknown"
	}
}

// Builtin reports whether the kind is drawn by the shared ubershader.
func (k Kind) Builtin() bool {
	return k >= KindBasic && k <= KindCube
}

// Blending is the compositing mode applied while a material draws.
type Blending int

const (
	BlendingNormal Blending = iota
	BlendingAdditive
	BlendingSubtractive
)

// String returns the lower-case blending name.
func (b Blending) String() string {
	switch b {
	case BlendingAdditive:
		return "additive"
	case BlendingSubtractive:
		return "subtractive"
	default:
		return "normal"
	}
}

// Shading selects between per-vertex and per-face normals.
type Shading int

const (
	ShadingSmooth Shading = iota
	ShadingFlat
)

// Combine selects how an environment map is applied over the diffuse color.
type Combine int

const (
	// CombineMultiply multiplies the diffuse color by the environment sample.
	CombineMultiply Combine = iota
	// CombineMix blends diffuse and environment by the reflectivity factor.
	CombineMix
)

// UniformType is the declared type of a custom shader uniform.
type UniformType int

const (
	UniformTypeInt UniformType = iota
	UniformTypeFloat
	UniformTypeTexture
)

// Uniform is one typed value in a custom shader material's uniform map.
// Texture uniforms carry the unit they bind to and either a 2D or a cube texture.
type Uniform struct {
	Type    UniformType
	Int     int32
	Float   float32
	Unit    int32
	Texture texture.Texture2D
	Cube    texture.CubeTexture
}

// IntUniform returns an int uniform.
func IntUniform(v int32) Uniform {
	return Uniform{Type: UniformTypeInt, Int: v}
}

// FloatUniform returns a float uniform.
func FloatUniform(v float32) Uniform {
	return Uniform{Type: UniformTypeFloat, Float: v}
}

// TextureUniform returns a sampler uniform bound to unit and sampling a 2D texture.
func TextureUniform(unit int32, t texture.Texture2D) Uniform {
	return Uniform{Type: UniformTypeTexture, Unit: unit, Texture: t}
}

// CubeUniform returns a sampler uniform bound to unit and sampling a cube texture.
func CubeUniform(unit int32, c texture.CubeTexture) Uniform {
	return Uniform{Type: UniformTypeTexture, Unit: unit, Cube: c}
}

// material is the implementation of the Material interface.
type material struct {
	kind            Kind
	name            string
	color           [3]float32
	opacity         float32
	ambient         [3]float32
	specular        [3]float32
	shininess       float32
	blending        Blending
	shading         Shading
	wireframe       bool
	lineWidth       float32
	diffuseMap      texture.Texture2D
	envMap          texture.CubeTexture
	combine         Combine
	reflectivity    float32
	refractionRatio float32
	near            float32
	far             float32
	vertexSource    string
	fragmentSource  string
	uniforms        map[string]Uniform
}

// Material describes how a group of faces is shaded. Every kind shares this interface; properties
// a kind does not use are ignored by the renderer and keep their defaults.
//
// Opacity below 1 moves a material into the transparent pass. Blending selects the compositing
// bucket within that pass ordering.
type Material interface {
	// Kind returns the variant discriminator.
	//
	// Returns:
	//   - Kind: the material kind
	Kind() Kind

	// Name returns the material identifier used in logs.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color returns the diffuse RGB color (Basic, Lambert, Phong).
	//
	// Returns:
	//   - [3]float32: the color, each channel in [0, 1]
	Color() [3]float32

	// Opacity returns the alpha in [0, 1]. Anything below 1 is drawn in the transparent pass.
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// Ambient returns the ambient reflectance color (Phong).
	Ambient() [3]float32

	// Specular returns the specular highlight color (Phong).
	Specular() [3]float32

	// Shininess returns the specular exponent (Phong).
	Shininess() float32

	// Blending returns the compositing mode.
	Blending() Blending

	// Shading returns whether smooth per-vertex normals are requested.
	Shading() Shading

	// Wireframe reports whether the material draws edges instead of filled triangles.
	Wireframe() bool

	// LineWidth returns the rasterized width of wireframe edges.
	LineWidth() float32

	// Map returns the diffuse texture, or nil.
	Map() texture.Texture2D

	// EnvMap returns the environment cube texture, or nil (Basic, Lambert, Phong, Cube).
	EnvMap() texture.CubeTexture

	// Combine returns how the environment map is applied over the diffuse color.
	Combine() Combine

	// Reflectivity returns the environment mix factor used with CombineMix.
	Reflectivity() float32

	// RefractionRatio returns the index ratio used when the environment map refracts.
	RefractionRatio() float32

	// Near returns the depth range start (Depth).
	Near() float32

	// Far returns the depth range end (Depth).
	Far() float32

	// VertexSource returns the custom vertex stage source (Shader).
	VertexSource() string

	// FragmentSource returns the custom fragment stage source (Shader).
	FragmentSource() string

	// Uniforms returns the custom uniform map (Shader). The map is owned by the material; callers
	// must not modify it directly and should use SetUniform instead.
	//
	// Returns:
	//   - map[string]Uniform: the uniforms keyed by name
	Uniforms() map[string]Uniform

	// SetColor replaces the diffuse color.
	SetColor(color [3]float32)

	// SetOpacity replaces the opacity. Values are clamped to [0, 1].
	SetOpacity(opacity float32)

	// SetBlending replaces the compositing mode.
	SetBlending(blending Blending)

	// SetWireframe toggles edge drawing.
	SetWireframe(wireframe bool)

	// SetUniform adds or replaces one custom uniform.
	//
	// Parameters:
	//   - name: the uniform identifier as declared in the shader source
	//   - u: the typed value
	SetUniform(name string, u Uniform)

	// SetSources replaces the custom shader stages. A program compiled from the previous sources
	// stays cached until the renderer invalidates it.
	//
	// Parameters:
	//   - vertex: the vertex stage source
	//   - fragment: the fragment stage source
	SetSources(vertex, fragment string)
}

var _ Material = &material{}

// NewMaterial creates a material of the given kind configured with the provided options.
//
// Parameters:
//   - kind: the material variant
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(kind Kind, options ...MaterialBuilderOption) Material {
	m := &material{
		kind:            kind,
		color:           [3]float32{1, 1, 1},
		opacity:         1,
		ambient:         [3]float32{0.02, 0.02, 0.02},
		specular:        [3]float32{0.07, 0.07, 0.07},
		shininess:       30,
		lineWidth:       1,
		reflectivity:    1,
		refractionRatio: 0.98,
		near:            1,
		far:             1000,
		uniforms:        make(map[string]Uniform),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewFaceMaterial returns the marker material that tells a mesh to use each face's own materials.
func NewFaceMaterial() Material {
	return NewMaterial(KindFace)
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() [3]float32 {
	return m.color
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Ambient() [3]float32 {
	return m.ambient
}

func (m *material) Specular() [3]float32 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Blending() Blending {
	return m.blending
}

func (m *material) Shading() Shading {
	return m.shading
}

func (m *material) Wireframe() bool {
	return m.wireframe
}

func (m *material) LineWidth() float32 {
	return m.lineWidth
}

func (m *material) Map() texture.Texture2D {
	return m.diffuseMap
}

func (m *material) EnvMap() texture.CubeTexture {
	return m.envMap
}

func (m *material) Combine() Combine {
	return m.combine
}

func (m *material) Reflectivity() float32 {
	return m.reflectivity
}

func (m *material) RefractionRatio() float32 {
	return m.refractionRatio
}

func (m *material) Near() float32 {
	return m.near
}

func (m *material) Far() float32 {
	return m.far
}

func (m *material) VertexSource() string {
	return m.vertexSource
}

func (m *material) FragmentSource() string {
	return m.fragmentSource
}

func (m *material) Uniforms() map[string]Uniform {
	return m.uniforms
}

func (m *material) SetColor(color [3]float32) {
	m.color = color
}

func (m *material) SetOpacity(opacity float32) {
	m.opacity = clamp01(opacity)
}

func (m *material) SetBlending(blending Blending) {
	m.blending = blending
}

func (m *material) SetWireframe(wireframe bool) {
	m.wireframe = wireframe
}

func (m *material) SetUniform(name string, u Uniform) {
	m.uniforms[name] = u
}

func (m *material) SetSources(vertex, fragment string) {
	m.vertexSource = vertex
	m.fragmentSource = fragment
}

// cloneUniforms copies a caller supplied map so later caller edits do not leak into the material.
func cloneUniforms(in map[string]Uniform) map[string]Uniform {
	out := make(map[string]Uniform, len(in))
	maps.Copy(out, in)
	return out
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}

// SourceUpdate is replacement stage source for a custom shader material, produced off the render
// thread and applied on it.
type SourceUpdate struct {
	Material Material
	Vertex   string
	Fragment string
}
