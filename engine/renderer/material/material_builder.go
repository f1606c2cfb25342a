package material

import "github.com/Carmen-Shannon/oxy-gl/engine/texture"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the diffuse RGB color of the material.
//
// Parameters:
//   - color: the color as RGB float32 values in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithHexColor sets the diffuse color from a 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithHexColor(hex uint32) MaterialBuilderOption {
	return func(m *material) {
		m.color = HexColor(hex)
	}
}

// WithOpacity is an option builder that sets the opacity, clamped to [0, 1].
// Materials with an opacity below 1 are drawn in the transparent pass.
//
// Parameters:
//   - opacity: the alpha value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = clamp01(opacity)
	}
}

// WithAmbient sets the Phong ambient reflectance color.
func WithAmbient(ambient [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = ambient
	}
}

// WithSpecular sets the Phong specular color.
func WithSpecular(specular [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.specular = specular
	}
}

// WithShininess sets the Phong specular exponent.
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}

// WithBlending is an option builder that sets the compositing mode.
//
// Parameters:
//   - blending: BlendingNormal, BlendingAdditive or BlendingSubtractive
//
// Returns:
//   - MaterialBuilderOption: a function that applies the blending option to a material
func WithBlending(blending Blending) MaterialBuilderOption {
	return func(m *material) {
		m.blending = blending
	}
}

// WithShading selects smooth or flat normals for the faces using this material.
func WithShading(shading Shading) MaterialBuilderOption {
	return func(m *material) {
		m.shading = shading
	}
}

// WithWireframe draws edges instead of filled triangles, lineWidth pixels wide.
//
// Parameters:
//   - lineWidth: the edge width; values <= 0 keep the default of 1
//
// Returns:
//   - MaterialBuilderOption: a function that applies the wireframe option to a material
func WithWireframe(lineWidth float32) MaterialBuilderOption {
	return func(m *material) {
		m.wireframe = true
		if lineWidth > 0 {
			m.lineWidth = lineWidth
		}
	}
}

// WithMap sets the diffuse texture.
func WithMap(t texture.Texture2D) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseMap = t
	}
}

// WithEnvMap is an option builder that sets the environment cube texture and how it combines
// with the diffuse color.
//
// Parameters:
//   - c: the environment cube texture
//   - combine: CombineMultiply or CombineMix
//   - reflectivity: the mix factor used with CombineMix
//
// Returns:
//   - MaterialBuilderOption: a function that applies the environment option to a material
func WithEnvMap(c texture.CubeTexture, combine Combine, reflectivity float32) MaterialBuilderOption {
	return func(m *material) {
		m.envMap = c
		m.combine = combine
		m.reflectivity = reflectivity
	}
}

// WithRefractionRatio sets the index ratio used when the environment map refracts.
func WithRefractionRatio(ratio float32) MaterialBuilderOption {
	return func(m *material) {
		m.refractionRatio = ratio
	}
}

// WithDepthRange sets the near and far planes a Depth material maps to black and white.
func WithDepthRange(near, far float32) MaterialBuilderOption {
	return func(m *material) {
		m.near = near
		m.far = far
	}
}

// WithSources is an option builder that sets the custom shader stages of a Shader material.
//
// Parameters:
//   - vertex: the vertex stage source
//   - fragment: the fragment stage source
//
// Returns:
//   - MaterialBuilderOption: a function that applies the source option to a material
func WithSources(vertex, fragment string) MaterialBuilderOption {
	return func(m *material) {
		m.vertexSource = vertex
		m.fragmentSource = fragment
	}
}

// WithUniforms sets the custom uniform map of a Shader material. The map is copied.
func WithUniforms(uniforms map[string]Uniform) MaterialBuilderOption {
	return func(m *material) {
		m.uniforms = cloneUniforms(uniforms)
	}
}

// HexColor unpacks a 0xRRGGBB value into RGB channels in [0, 1].
func HexColor(hex uint32) [3]float32 {
	return [3]float32{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
