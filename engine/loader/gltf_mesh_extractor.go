package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser *gltfParser
}

// gltfMeshExtractor reads mesh primitives out of a parsed glTF document.
type gltfMeshExtractor interface {
	// ExtractMesh reads every triangle primitive of one glTF mesh. Primitives with other modes are
	// skipped.
	//
	// Parameters:
	//   - meshIndex: the index into the document's meshes array
	//
	// Returns:
	//   - []model.ImportedMesh: one entry per triangle primitive
	//   - error: error if an accessor cannot be read
	ExtractMesh(meshIndex int) ([]model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser *gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]model.ImportedMesh, error) {
	doc := e.parser.document
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	var out []model.ImportedMesh
	for i := range mesh.Primitives {
		prim := &mesh.Primitives[i]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}

		name := mesh.Name
		if len(mesh.Primitives) > 1 {
			name = fmt.Sprintf("%s_%d", mesh.Name, i)
		}
		imported, err := e.extractPrimitive(prim, name)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, i, err)
		}
		out = append(out, imported)
	}
	return out, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string) (model.ImportedMesh, error) {
	imported := model.ImportedMesh{Name: name, MaterialIndex: -1}
	if prim.Material != nil {
		imported.MaterialIndex = *prim.Material
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return imported, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := e.parser.readVec3(posIdx)
	if err != nil {
		return imported, fmt.Errorf("positions: %w", err)
	}
	imported.Positions = positions

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.readVec3(idx)
		if err != nil {
			return imported, fmt.Errorf("normals: %w", err)
		}
		if len(normals) == len(positions) {
			imported.Normals = normals
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := e.parser.readVec2(idx)
		if err != nil {
			return imported, fmt.Errorf("texcoords: %w", err)
		}
		if len(uvs) == len(positions) {
			imported.UVs = uvs
		}
	}

	if prim.Indices != nil {
		indices, err := e.parser.readIndices(*prim.Indices)
		if err != nil {
			return imported, fmt.Errorf("indices: %w", err)
		}
		imported.Indices = indices
	} else {
		imported.Indices = make([]uint32, len(positions))
		for i := range imported.Indices {
			imported.Indices[i] = uint32(i)
		}
	}

	for _, idx := range imported.Indices {
		if int(idx) >= len(positions) {
			return imported, fmt.Errorf("index %d out of range for %d positions", idx, len(positions))
		}
	}
	imported.Indices = imported.Indices[:len(imported.Indices)/3*3]

	imported.BoundingMin, imported.BoundingMax = meshBounds(positions)
	return imported, nil
}

// transformMesh applies a node's world matrix to a mesh in place. Normals use the inverse
// transpose of the upper 3x3.
func transformMesh(m *model.ImportedMesh, world mgl32.Mat4) {
	if world == mgl32.Ident4() {
		return
	}
	for i, p := range m.Positions {
		m.Positions[i] = mgl32.TransformCoordinate(p, world)
	}
	normalMatrix := world.Mat3().Inv().Transpose()
	for i, n := range m.Normals {
		if t := normalMatrix.Mul3x1(n); t.Len() > 0 {
			m.Normals[i] = t.Normalize()
		}
	}
	if world.Det() < 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
	m.BoundingMin, m.BoundingMax = meshBounds(m.Positions)
}

func meshBounds(positions []mgl32.Vec3) (lo, hi [3]float32) {
	if len(positions) == 0 {
		return lo, hi
	}
	lo, hi = positions[0], positions[0]
	for _, p := range positions[1:] {
		for k := range 3 {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

// nodeLocalMatrix returns a node's matrix, or T * R * S from its components.
func nodeLocalMatrix(n *gltfNode) mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	m := mgl32.Ident4()
	if n.Translation != nil {
		t := n.Translation
		m = m.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if n.Rotation != nil {
		r := n.Rotation
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if n.Scale != nil {
		s := n.Scale
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}
