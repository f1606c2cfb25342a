package model

import "github.com/go-gl/mathgl/mgl32"

// GeometryBuilderOption is a functional option for configuring a Geometry via NewGeometry.
type GeometryBuilderOption func(*geometry)

// WithName is an option builder that sets the name of the Geometry.
//
// Parameters:
//   - name: the geometry identifier
//
// Returns:
//   - GeometryBuilderOption: a function that applies the name option to a geometry
func WithName(name string) GeometryBuilderOption {
	return func(g *geometry) {
		g.name = name
	}
}

// WithVertices is an option builder that sets the vertex positions of the Geometry.
//
// Parameters:
//   - vertices: the positions in model space
//
// Returns:
//   - GeometryBuilderOption: a function that applies the vertices option to a geometry
func WithVertices(vertices ...mgl32.Vec3) GeometryBuilderOption {
	return func(g *geometry) {
		g.vertices = append(g.vertices, vertices...)
	}
}

// WithFaces is an option builder that appends faces to the Geometry.
//
// Parameters:
//   - faces: the faces, indexing the geometry's vertices
//
// Returns:
//   - GeometryBuilderOption: a function that applies the faces option to a geometry
func WithFaces(faces ...*Face) GeometryBuilderOption {
	return func(g *geometry) {
		g.faces = append(g.faces, faces...)
	}
}
