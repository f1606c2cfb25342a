package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser *gltfParser
}

// gltfMaterialExtractor maps glTF metallic-roughness materials onto the subset a Phong material can
// express: base color, opacity and the base color texture.
type gltfMaterialExtractor interface {
	// ExtractAllMaterials converts every material in the document.
	//
	// Returns:
	//   - []model.ImportedMaterial: one entry per glTF material, in document order
	//   - error: error if a texture reference is out of range or an embedded image cannot be read
	ExtractAllMaterials() ([]model.ImportedMaterial, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

func newGLTFMaterialExtractor(parser *gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]model.ImportedMaterial, error) {
	doc := e.parser.document
	out := make([]model.ImportedMaterial, len(doc.Materials))
	for i := range doc.Materials {
		mat := &doc.Materials[i]
		result := model.ImportedMaterial{
			Name:        mat.Name,
			BaseColor:   [4]float32{1, 1, 1, 1},
			DoubleSided: mat.DoubleSided,
			WrapS:       texture.WrapRepeat,
			WrapT:       texture.WrapRepeat,
		}
		if result.Name == "" {
			result.Name = fmt.Sprintf("material_%d", i)
		}

		if pbr := mat.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				result.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.BaseColorTexture != nil {
				if err := e.resolveTexture(pbr.BaseColorTexture.Index, &result); err != nil {
					return nil, fmt.Errorf("material %q: base color texture: %w", result.Name, err)
				}
			}
		}
		out[i] = result
	}
	return out, nil
}

// resolveTexture fills the diffuse texture and wrap modes of result. Embedded images carry their
// bytes; external images carry only a path and are decoded later.
func (e *gltfMaterialExtractorImpl) resolveTexture(textureIndex int, result *model.ImportedMaterial) error {
	doc := e.parser.document
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return fmt.Errorf("texture index %d out of range", textureIndex)
	}

	tex := &doc.Textures[textureIndex]
	if tex.Sampler != nil && *tex.Sampler >= 0 && *tex.Sampler < len(doc.Samplers) {
		s := &doc.Samplers[*tex.Sampler]
		result.WrapS = gltfWrap(s.WrapS)
		result.WrapT = gltfWrap(s.WrapT)
	}
	if tex.Source == nil {
		return nil
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		return fmt.Errorf("image index %d out of range", *tex.Source)
	}

	img := &doc.Images[*tex.Source]
	imported := &common.ImportedTexture{Name: img.Name, MimeType: img.MimeType}
	if imported.Name == "" {
		imported.Name = fmt.Sprintf("image_%d", *tex.Source)
	}

	switch {
	case img.BufferView != nil:
		view, err := e.parser.bufferView(*img.BufferView)
		if err != nil {
			return fmt.Errorf("failed to read image buffer view: %w", err)
		}
		imported.Data = append([]byte(nil), view...)
	case strings.HasPrefix(img.URI, "data:"):
		data, mimeType, err := decodeDataURI(img.URI)
		if err != nil {
			return fmt.Errorf("failed to decode image data URI: %w", err)
		}
		imported.Data = data
		imported.MimeType = common.Coalesce(imported.MimeType, mimeType)
	case img.URI != "":
		imported.Path = filepath.Join(e.parser.baseDir, filepath.FromSlash(img.URI))
	default:
		return nil
	}

	result.DiffuseTexture = imported
	return nil
}

// gltfWrap converts a glTF sampler wrap constant. Unset means repeat.
func gltfWrap(mode *int) texture.Wrap {
	if mode == nil {
		return texture.WrapRepeat
	}
	switch *mode {
	case gltfWrapClampToEdge:
		return texture.WrapClampToEdge
	case gltfWrapMirroredRepeat:
		return texture.WrapMirroredRepeat
	default:
		return texture.WrapRepeat
	}
}
