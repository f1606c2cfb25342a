package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// Texture units the ubershader samples from.
const (
	mapUnit  = 0
	cubeUnit = 1
)

// textureRecord holds the GPU handle of one texture.
type textureRecord struct {
	residency common.Residency
	handle    backend.Texture
}

// textureManager is the side table from texture identity to GPU handle. A handle, once created,
// is never recreated.
type textureManager struct {
	backend backend.Backend
	flat    map[texture.Texture2D]*textureRecord
	cubes   map[texture.CubeTexture]*textureRecord
}

func newTextureManager(b backend.Backend) *textureManager {
	return &textureManager{
		backend: b,
		flat:    make(map[texture.Texture2D]*textureRecord),
		cubes:   make(map[texture.CubeTexture]*textureRecord),
	}
}

var wrapModes = map[texture.Wrap]backend.TextureWrap{
	texture.WrapRepeat:         backend.TextureWrapRepeat,
	texture.WrapClampToEdge:    backend.TextureWrapClampToEdge,
	texture.WrapMirroredRepeat: backend.TextureWrapMirroredRepeat,
}

// Ensure2D uploads tex on the active unit once its image is loaded. It reports whether the handle is
// ready for sampling this frame.
func (m *textureManager) Ensure2D(tex texture.Texture2D) (backend.Texture, bool) {
	rec := m.flat[tex]
	if rec == nil {
		rec = &textureRecord{}
		m.flat[tex] = rec
	}

	switch rec.residency {
	case common.ResidencyReady:
		return rec.handle, true
	case common.ResidencyFailed:
		return 0, false
	}

	img := tex.Image()
	if !tex.Loaded() || img == nil {
		if rec.residency == common.ResidencyUnloaded {
			rec.residency = common.ResidencyLoading
			common.Logger().Debug("texture not loaded, deferring", "texture", tex.Name())
		}
		return 0, false
	}

	h, err := m.backend.CreateTexture()
	if err != nil {
		rec.residency = common.ResidencyFailed
		common.Logger().Warn("texture allocation failed", "texture", tex.Name(), "error", err)
		return 0, false
	}

	m.backend.BindTexture(backend.TextureTarget2D, h)
	m.backend.TexImage2D(backend.TextureTarget2D, img.Width, img.Height, img.Pixels)
	m.backend.TexWrap(backend.TextureTarget2D, wrapModes[tex.WrapS()], wrapModes[tex.WrapT()])
	m.backend.TexFilter(backend.TextureTarget2D, backend.TextureFilterLinearMipmapLinear, backend.TextureFilterLinear)
	m.backend.GenerateMipmap(backend.TextureTarget2D)

	rec.handle = h
	rec.residency = common.ResidencyReady
	return h, true
}

// EnsureCube uploads all six faces of cube in one step once every face is loaded. It reports whether
// the handle is ready for sampling this frame.
func (m *textureManager) EnsureCube(cube texture.CubeTexture) (backend.Texture, bool) {
	rec := m.cubes[cube]
	if rec == nil {
		rec = &textureRecord{}
		m.cubes[cube] = rec
	}

	switch rec.residency {
	case common.ResidencyReady:
		return rec.handle, true
	case common.ResidencyFailed:
		return 0, false
	}

	if cube.LoadCount() < texture.CubeFaceCount {
		if rec.residency == common.ResidencyUnloaded {
			rec.residency = common.ResidencyLoading
			common.Logger().Debug("cube texture incomplete, deferring", "texture", cube.Name(), "faces", cube.LoadCount())
		}
		return 0, false
	}

	h, err := m.backend.CreateTexture()
	if err != nil {
		rec.residency = common.ResidencyFailed
		common.Logger().Warn("cube texture allocation failed", "texture", cube.Name(), "error", err)
		return 0, false
	}

	m.backend.BindTexture(backend.TextureTargetCubeMap, h)
	m.backend.TexWrap(backend.TextureTargetCubeMap, backend.TextureWrapClampToEdge, backend.TextureWrapClampToEdge)
	m.backend.TexFilter(backend.TextureTargetCubeMap, backend.TextureFilterLinearMipmapLinear, backend.TextureFilterLinear)
	for i, target := range backend.CubeFaces {
		img := cube.Face(i)
		m.backend.TexImage2D(target, img.Width, img.Height, img.Pixels)
	}
	m.backend.GenerateMipmap(backend.TextureTargetCubeMap)

	rec.handle = h
	rec.residency = common.ResidencyReady
	return h, true
}

// bind2D makes tex current on unit. It reports false while the texture is not ready.
func (m *textureManager) bind2D(unit int, tex texture.Texture2D) bool {
	m.backend.ActiveTexture(unit)
	h, ok := m.Ensure2D(tex)
	if !ok {
		return false
	}
	m.backend.BindTexture(backend.TextureTarget2D, h)
	return true
}

// bindCube makes cube current on unit. It reports false while the texture is not ready.
func (m *textureManager) bindCube(unit int, cube texture.CubeTexture) bool {
	m.backend.ActiveTexture(unit)
	h, ok := m.EnsureCube(cube)
	if !ok {
		return false
	}
	m.backend.BindTexture(backend.TextureTargetCubeMap, h)
	return true
}
