// Package texture holds the image-backed textures materials sample from.
//
// A texture only carries image data and readiness signals. Loaders fill them from any goroutine;
// the renderer polls Loaded and LoadCount on its own thread and owns every GPU handle.
package texture

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Wrap selects how texture coordinates outside [0, 1] are resolved on one axis.
type Wrap int

const (
	// WrapRepeat tiles the image.
	WrapRepeat Wrap = iota
	// WrapClampToEdge repeats the edge texels.
	WrapClampToEdge
	// WrapMirroredRepeat tiles the image, mirroring every other repetition.
	WrapMirroredRepeat
)

// Mapping selects how an environment cube texture is sampled.
type Mapping int

const (
	// MappingReflection samples along the view vector reflected about the surface normal.
	MappingReflection Mapping = iota
	// MappingRefraction samples along the view vector refracted through the surface.
	MappingRefraction
)

// CubeFaceCount is the number of images a cube texture needs before it can be uploaded.
const CubeFaceCount = 6

// Texture2D is a single image texture.
type Texture2D interface {
	// Name returns the texture identifier used in logs.
	Name() string

	// WrapS returns the wrap mode along the horizontal axis.
	WrapS() Wrap

	// WrapT returns the wrap mode along the vertical axis.
	WrapT() Wrap

	// Loaded reports whether image data is available. Safe to call from any goroutine.
	//
	// Returns:
	//   - bool: true once SetImage has been called with non-nil data
	Loaded() bool

	// Image returns the staged pixel data, or nil before it is loaded.
	Image() *common.TextureStagingData

	// SetImage publishes the pixel data and then marks the texture loaded.
	// Safe to call from a loader goroutine. Nil data is ignored.
	//
	// Parameters:
	//   - data: the decoded RGBA image
	SetImage(data *common.TextureStagingData)
}

// CubeTexture is an environment map built from six square images.
type CubeTexture interface {
	// Name returns the texture identifier used in logs.
	Name() string

	// Mapping returns whether the cube is sampled by reflection or refraction.
	Mapping() Mapping

	// LoadCount returns how many distinct faces have image data, 0 through 6.
	// Safe to call from any goroutine.
	LoadCount() int

	// Face returns the staged image for face i (+X, -X, +Y, -Y, +Z, -Z), or nil.
	Face(i int) *common.TextureStagingData

	// SetFace publishes the image for face i and counts it as loaded the first time the face is set.
	// Out-of-range indices and nil data are ignored.
	//
	// Parameters:
	//   - i: the face index, 0 through 5
	//   - data: the decoded RGBA image
	SetFace(i int, data *common.TextureStagingData)
}

// texture2D is the implementation of the Texture2D interface.
type texture2D struct {
	name   string
	wrapS  Wrap
	wrapT  Wrap
	mu     *sync.Mutex
	image  *common.TextureStagingData
	loaded atomic.Bool
}

var _ Texture2D = &texture2D{}

// NewTexture2D creates a 2D texture. Without WithImage it starts unloaded.
//
// Parameters:
//   - options: functional options configuring the texture
//
// Returns:
//   - Texture2D: the new texture
func NewTexture2D(options ...Texture2DBuilderOption) Texture2D {
	t := &texture2D{
		wrapS: WrapRepeat,
		wrapT: WrapRepeat,
		mu:    &sync.Mutex{},
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *texture2D) Name() string {
	return t.name
}

func (t *texture2D) WrapS() Wrap {
	return t.wrapS
}

func (t *texture2D) WrapT() Wrap {
	return t.wrapT
}

func (t *texture2D) Loaded() bool {
	return t.loaded.Load()
}

func (t *texture2D) Image() *common.TextureStagingData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.image
}

func (t *texture2D) SetImage(data *common.TextureStagingData) {
	if data == nil {
		return
	}
	t.mu.Lock()
	t.image = data
	t.mu.Unlock()
	t.loaded.Store(true)
}

// cubeTexture is the implementation of the CubeTexture interface.
type cubeTexture struct {
	name      string
	mapping   Mapping
	mu        *sync.Mutex
	faces     [CubeFaceCount]*common.TextureStagingData
	loadCount atomic.Int32
}

var _ CubeTexture = &cubeTexture{}

// NewCubeTexture creates a cube texture. Without WithFaces it starts with a load count of zero.
//
// Parameters:
//   - options: functional options configuring the texture
//
// Returns:
//   - CubeTexture: the new texture
func NewCubeTexture(options ...CubeTextureBuilderOption) CubeTexture {
	c := &cubeTexture{
		mapping: MappingReflection,
		mu:      &sync.Mutex{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cubeTexture) Name() string {
	return c.name
}

func (c *cubeTexture) Mapping() Mapping {
	return c.mapping
}

func (c *cubeTexture) LoadCount() int {
	return int(c.loadCount.Load())
}

func (c *cubeTexture) Face(i int) *common.TextureStagingData {
	if i < 0 || i >= CubeFaceCount {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.faces[i]
}

func (c *cubeTexture) SetFace(i int, data *common.TextureStagingData) {
	if i < 0 || i >= CubeFaceCount || data == nil {
		return
	}
	c.mu.Lock()
	first := c.faces[i] == nil
	c.faces[i] = data
	c.mu.Unlock()
	if first {
		c.loadCount.Add(1)
	}
}
