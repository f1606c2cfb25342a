package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter combines the parser and extractors to produce an ImportedModel.
type gltfImporter interface {
	// Import loads a glTF or GLB file. Meshes referenced by the default scene are flattened into
	// model space with their node transforms applied.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	Import(path string) (*model.ImportedModel, error)

	// ImportReader loads a glTF document from a reader. External URIs resolve against the working
	// directory.
	//
	// Parameters:
	//   - name: the model name
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.parseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, name)
}

func (imp *gltfImporterImpl) importFromParser(parser *gltfParser, fallbackName string) (*model.ImportedModel, error) {
	doc := parser.document
	if len(doc.ExtensionsRequired) > 0 {
		return nil, fmt.Errorf("%w: required extensions %v", ErrUnsupportedFormat, doc.ExtensionsRequired)
	}

	meshExtractor := newGLTFMeshExtractor(parser)
	materials, err := newGLTFMaterialExtractor(parser).ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}

	result := &model.ImportedModel{Name: common.Coalesce(fallbackName, "gltf"), Materials: materials}

	emit := func(meshIndex int, world mgl32.Mat4) error {
		meshes, err := meshExtractor.ExtractMesh(meshIndex)
		if err != nil {
			return err
		}
		for i := range meshes {
			transformMesh(&meshes[i], world)
			if meshes[i].MaterialIndex >= len(materials) {
				meshes[i].MaterialIndex = -1
			}
		}
		result.Meshes = append(result.Meshes, meshes...)
		return nil
	}

	roots := gltfSceneRoots(doc)
	if len(doc.Nodes) == 0 {
		for i := range doc.Meshes {
			if err := emit(i, mgl32.Ident4()); err != nil {
				return nil, fmt.Errorf("mesh extraction failed: %w", err)
			}
		}
		return result, nil
	}

	visited := make(map[int]bool, len(doc.Nodes))
	var walk func(nodeIndex int, parent mgl32.Mat4) error
	walk = func(nodeIndex int, parent mgl32.Mat4) error {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) || visited[nodeIndex] {
			return fmt.Errorf("invalid or cyclic node reference %d", nodeIndex)
		}
		visited[nodeIndex] = true

		node := &doc.Nodes[nodeIndex]
		world := parent.Mul4(nodeLocalMatrix(node))
		if node.Mesh != nil {
			if err := emit(*node.Mesh, world); err != nil {
				return fmt.Errorf("node %d: %w", nodeIndex, err)
			}
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, mgl32.Ident4()); err != nil {
			return nil, fmt.Errorf("mesh extraction failed: %w", err)
		}
	}
	return result, nil
}

// gltfSceneRoots returns the root nodes of the default scene, or every parentless node when the
// document declares no scenes.
func gltfSceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		sceneIndex := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			sceneIndex = *doc.Scene
		}
		return doc.Scenes[sceneIndex].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}
