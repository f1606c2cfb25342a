package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// --- Face Types ---

// FaceKind distinguishes triangles from quads.
type FaceKind int

const (
	// Face3 is a triangle over three vertices.
	Face3 FaceKind = 3
	// Face4 is a quad over four vertices, drawn as two triangles sharing the first vertex.
	Face4 FaceKind = 4
)

// Face is one polygon of a Geometry. Corner data (VertexNormals, UVs) is either empty or has one
// entry per corner; anything else is treated as absent.
type Face struct {
	// Kind is Face3 or Face4.
	Kind FaceKind

	// Indices are the vertex indices of each corner. Only the first Kind entries are used.
	Indices [4]int

	// Normal is the flat face normal.
	Normal mgl32.Vec3

	// VertexNormals holds one normal per corner for smooth shading.
	VertexNormals []mgl32.Vec3

	// UVs holds one texture coordinate per corner.
	UVs []mgl32.Vec2

	// Materials is the face's material list, used when the mesh defers to per-face materials.
	Materials []material.Material
}

// NewFace3 creates a triangle face.
//
// Parameters:
//   - a, b, c: the vertex indices in counter-clockwise order
//   - materials: the face's material list
//
// Returns:
//   - *Face: the new face with a zero normal until ComputeFaceNormals runs
func NewFace3(a, b, c int, materials ...material.Material) *Face {
	return &Face{Kind: Face3, Indices: [4]int{a, b, c, 0}, Materials: materials}
}

// NewFace4 creates a quad face.
//
// Parameters:
//   - a, b, c, d: the vertex indices in counter-clockwise order
//   - materials: the face's material list
//
// Returns:
//   - *Face: the new face with a zero normal until ComputeFaceNormals runs
func NewFace4(a, b, c, d int, materials ...material.Material) *Face {
	return &Face{Kind: Face4, Indices: [4]int{a, b, c, d}, Materials: materials}
}

// Corners returns the number of vertices the face spans.
func (f *Face) Corners() int {
	if f.Kind == Face4 {
		return 4
	}
	return 3
}

// Vertices returns the used vertex indices.
func (f *Face) Vertices() []int {
	return f.Indices[:f.Corners()]
}

// HasVertexNormals reports whether the face carries one normal per corner.
func (f *Face) HasVertexNormals() bool {
	return len(f.VertexNormals) == f.Corners()
}

// HasUVs reports whether the face carries one texture coordinate per corner.
func (f *Face) HasUVs() bool {
	return len(f.UVs) == f.Corners()
}

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers (glTF, etc.) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data, one entry per primitive.
	Meshes []ImportedMesh

	// Materials are referenced by ImportedMesh.MaterialIndex.
	Materials []ImportedMaterial
}

// ImportedMesh represents a single triangle list within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Positions are the vertex positions in model space.
	Positions []mgl32.Vec3

	// Normals are per-vertex normals, empty if the source had none.
	Normals []mgl32.Vec3

	// UVs are the first texture coordinate set, empty if the source had none.
	UVs []mgl32.Vec2

	// Indices are the triangle indices, three per triangle.
	Indices []uint32

	// MaterialIndex references ImportedModel.Materials, or -1.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// ImportedMaterial holds the material properties an importer can map onto a Phong material.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo color (RGBA). Alpha becomes the opacity.
	BaseColor [4]float32

	// DoubleSided is informational; culling is a renderer-wide setting.
	DoubleSided bool

	// DiffuseTexture holds the diffuse image, embedded or by path, or nil.
	DiffuseTexture *common.ImportedTexture

	// WrapS and WrapT are the diffuse texture's sampler wrap modes.
	WrapS, WrapT texture.Wrap
}
