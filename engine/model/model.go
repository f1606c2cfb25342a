package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// geometry is the implementation of the Geometry interface.
type geometry struct {
	name     string
	vertices []mgl32.Vec3
	faces    []*Face
}

// Geometry is the CPU-side shape of a mesh: shared vertex positions and the faces over them.
// Geometry is not safe for concurrent modification; build it before handing it to a mesh.
type Geometry interface {
	// Name retrieves the geometry identifier.
	//
	// Returns:
	//   - string: the geometry name
	Name() string

	// Vertices retrieves the vertex positions.
	//
	// Returns:
	//   - []mgl32.Vec3: the positions, indexed by Face.Indices
	Vertices() []mgl32.Vec3

	// Faces retrieves the faces in insertion order.
	//
	// Returns:
	//   - []*Face: the faces
	Faces() []*Face

	// AddVertex appends a position.
	//
	// Parameters:
	//   - v: the position in model space
	//
	// Returns:
	//   - int: the index of the new vertex
	AddVertex(v mgl32.Vec3) int

	// AddFace appends a face. Its indices must refer to existing vertices.
	//
	// Parameters:
	//   - f: the face to add
	AddFace(f *Face)

	// ComputeFaceNormals sets every face's flat normal from its first three corners.
	ComputeFaceNormals()

	// ComputeVertexNormals averages the flat normals of the faces sharing each vertex and stores
	// the result on every face corner. Flat normals are computed first.
	ComputeVertexNormals()

	// BoundingRadius returns the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Geometry = &geometry{}

// NewGeometry creates a new Geometry instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of GeometryBuilderOption functions to configure the Geometry
//
// Returns:
//   - Geometry: a new instance of Geometry configured with the provided options
func NewGeometry(options ...GeometryBuilderOption) Geometry {
	g := &geometry{}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *geometry) Name() string {
	return g.name
}

func (g *geometry) Vertices() []mgl32.Vec3 {
	return g.vertices
}

func (g *geometry) Faces() []*Face {
	return g.faces
}

func (g *geometry) AddVertex(v mgl32.Vec3) int {
	g.vertices = append(g.vertices, v)
	return len(g.vertices) - 1
}

func (g *geometry) AddFace(f *Face) {
	g.faces = append(g.faces, f)
}

func (g *geometry) ComputeFaceNormals() {
	for _, f := range g.faces {
		a := g.vertices[f.Indices[0]]
		b := g.vertices[f.Indices[1]]
		c := g.vertices[f.Indices[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		f.Normal = n
	}
}

func (g *geometry) ComputeVertexNormals() {
	g.ComputeFaceNormals()

	sums := make([]mgl32.Vec3, len(g.vertices))
	for _, f := range g.faces {
		for _, vi := range f.Vertices() {
			sums[vi] = sums[vi].Add(f.Normal)
		}
	}
	for i, n := range sums {
		if n.Len() > 0 {
			sums[i] = n.Normalize()
		}
	}

	for _, f := range g.faces {
		normals := make([]mgl32.Vec3, f.Corners())
		for corner, vi := range f.Vertices() {
			normals[corner] = sums[vi]
		}
		f.VertexNormals = normals
	}
}

func (g *geometry) BoundingRadius() float32 {
	var maxDistSq float32
	for _, v := range g.vertices {
		maxDistSq = max(maxDistSq, v.Dot(v))
	}
	return math32.Sqrt(maxDistSq)
}
