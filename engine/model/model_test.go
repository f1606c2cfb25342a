package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

func triangle() Geometry {
	return NewGeometry(
		WithName("tri"),
		WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}),
		WithFaces(NewFace3(0, 1, 2)),
	)
}

func TestFaceCorners(t *testing.T) {
	f3 := NewFace3(4, 5, 6)
	f4 := NewFace4(0, 1, 2, 3)
	assert.Equal(t, []int{4, 5, 6}, f3.Vertices())
	assert.Equal(t, []int{0, 1, 2, 3}, f4.Vertices())
	assert.False(t, f3.HasVertexNormals())

	f3.VertexNormals = []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}}
	assert.False(t, f3.HasVertexNormals())
	f3.UVs = []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}
	assert.True(t, f3.HasUVs())
}

func TestComputeFaceNormals(t *testing.T) {
	g := triangle()
	g.ComputeFaceNormals()
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, g.Faces()[0].Normal)
	assert.Equal(t, "tri", g.Name())
}

func TestComputeVertexNormals(t *testing.T) {
	g := NewGeometry(
		WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}),
		WithFaces(NewFace3(0, 1, 2), NewFace3(0, 3, 1)),
	)
	g.ComputeVertexNormals()

	shared := g.Faces()[0].VertexNormals[0]
	assert.InDelta(t, 1, shared.Len(), 1e-6)
	assert.InDelta(t, shared[1], shared[2], 1e-6)
	assert.Equal(t, shared, g.Faces()[1].VertexNormals[0])
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, g.Faces()[0].VertexNormals[2])
	assert.True(t, g.Faces()[1].HasVertexNormals())
}

func TestAddVertexAndFace(t *testing.T) {
	g := NewGeometry()
	a := g.AddVertex(mgl32.Vec3{3, 4, 0})
	b := g.AddVertex(mgl32.Vec3{0, 0, 0})
	c := g.AddVertex(mgl32.Vec3{1, 0, 0})
	g.AddFace(NewFace3(a, b, c))

	assert.Equal(t, 2, c)
	assert.Len(t, g.Faces(), 1)
	assert.InDelta(t, 5, g.BoundingRadius(), 1e-6)
}

func TestNewCube(t *testing.T) {
	mats := make([]material.Material, 6)
	for i := range mats {
		mats[i] = material.NewMaterial(material.KindBasic)
	}
	g := NewCube(2, 4, 6, mats...)

	require.Len(t, g.Faces(), 6)
	assert.Len(t, g.Vertices(), 24)
	expected := []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for i, f := range g.Faces() {
		assert.Equal(t, Face4, f.Kind)
		assert.InDeltaSlice(t, expected[i][:], f.Normal[:], 1e-6, "side %d", i)
		assert.True(t, f.HasUVs())
		require.Len(t, f.Materials, 1)
		assert.Same(t, mats[i], f.Materials[0])
	}
	assert.InDelta(t, mgl32.Vec3{1, 2, 3}.Len(), g.BoundingRadius(), 1e-5)

	shared := material.NewMaterial(material.KindPhong)
	for _, f := range NewCube(1, 1, 1, shared).Faces() {
		assert.Equal(t, []material.Material{shared}, f.Materials)
	}
}

func TestNewPlane(t *testing.T) {
	g := NewPlane(2, 2, 2, 1)
	assert.Len(t, g.Vertices(), 6)
	require.Len(t, g.Faces(), 2)
	for _, f := range g.Faces() {
		assert.InDeltaSlice(t, []float32{0, 0, 1}, f.Normal[:], 1e-6)
		assert.True(t, f.HasUVs())
	}
	assert.Equal(t, mgl32.Vec3{-1, 1, 0}, g.Vertices()[0])
	assert.Equal(t, mgl32.Vec2{0, 1}, g.Faces()[0].UVs[0])
}

func TestNewSphere(t *testing.T) {
	g := NewSphere(2, 8, 4)
	assert.Len(t, g.Vertices(), 9*5)
	require.Len(t, g.Faces(), 8*4)

	var tris, quads int
	for _, f := range g.Faces() {
		if f.Kind == Face3 {
			tris++
		} else {
			quads++
		}
		require.True(t, f.HasVertexNormals())
		for corner, vi := range f.Vertices() {
			p := g.Vertices()[vi]
			assert.InDelta(t, 2, p.Len(), 1e-5)
			assert.InDelta(t, 1, f.VertexNormals[corner].Len(), 1e-5)
		}
		centroid := mgl32.Vec3{}
		for _, vi := range f.Vertices() {
			centroid = centroid.Add(g.Vertices()[vi])
		}
		assert.Greater(t, f.Normal.Dot(centroid), float32(0), "faces point outward")
	}
	assert.Equal(t, 16, tris)
	assert.Equal(t, 16, quads)
	assert.InDelta(t, 2, g.BoundingRadius(), 1e-5)
}
