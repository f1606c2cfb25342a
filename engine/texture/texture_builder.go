package texture

import "github.com/Carmen-Shannon/oxy-gl/common"

// Texture2DBuilderOption is a functional option for configuring a 2D texture.
type Texture2DBuilderOption func(*texture2D)

// WithName sets the texture identifier used in logs.
//
// Parameters:
//   - name: the identifier
//
// Returns:
//   - Texture2DBuilderOption: option function to apply
func WithName(name string) Texture2DBuilderOption {
	return func(t *texture2D) {
		t.name = name
	}
}

// WithWrap sets the wrap mode of both axes.
//
// Parameters:
//   - s: horizontal wrap mode
//   - t: vertical wrap mode
//
// Returns:
//   - Texture2DBuilderOption: option function to apply
func WithWrap(s, t Wrap) Texture2DBuilderOption {
	return func(tex *texture2D) {
		tex.wrapS = s
		tex.wrapT = t
	}
}

// WithImage supplies already-decoded pixels, so the texture starts loaded.
//
// Parameters:
//   - data: the decoded RGBA image
//
// Returns:
//   - Texture2DBuilderOption: option function to apply
func WithImage(data *common.TextureStagingData) Texture2DBuilderOption {
	return func(t *texture2D) {
		if data == nil {
			return
		}
		t.image = data
		t.loaded.Store(true)
	}
}

// CubeTextureBuilderOption is a functional option for configuring a cube texture.
type CubeTextureBuilderOption func(*cubeTexture)

// WithCubeName sets the cube texture identifier used in logs.
func WithCubeName(name string) CubeTextureBuilderOption {
	return func(c *cubeTexture) {
		c.name = name
	}
}

// WithMapping selects reflection or refraction sampling.
func WithMapping(mapping Mapping) CubeTextureBuilderOption {
	return func(c *cubeTexture) {
		c.mapping = mapping
	}
}

// WithFaces supplies all six decoded faces (+X, -X, +Y, -Y, +Z, -Z). Nil entries stay unloaded.
//
// Parameters:
//   - faces: the decoded RGBA images
//
// Returns:
//   - CubeTextureBuilderOption: option function to apply
func WithFaces(faces [CubeFaceCount]*common.TextureStagingData) CubeTextureBuilderOption {
	return func(c *cubeTexture) {
		for i, f := range faces {
			if f == nil || c.faces[i] != nil {
				continue
			}
			c.faces[i] = f
			c.loadCount.Add(1)
		}
	}
}
