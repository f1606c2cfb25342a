package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

func groupOf(geo model.Geometry, faces ...*model.Face) *game_object.MaterialFaceGroup {
	g := &game_object.MaterialFaceGroup{
		Object:   game_object.NewMesh(geo, material.NewMaterial(material.KindBasic)),
		Geometry: geo,
		Faces:    faces,
	}
	for _, f := range faces {
		g.VertexCount += f.Corners()
	}
	return g
}

func TestBuildGeometryArraysQuad(t *testing.T) {
	quad := model.NewFace4(0, 1, 2, 3)
	quad.Normal = mgl32.Vec3{0, 0, 1}
	tri := model.NewFace3(0, 2, 3)
	tri.Normal = mgl32.Vec3{0, 0, 1}

	geo := model.NewGeometry(
		model.WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0}),
		model.WithFaces(quad, tri),
	)
	arrays := BuildGeometryArrays(groupOf(geo, quad, tri), false)

	assert.Equal(t, 7, arrays.VertexCount)
	assert.Len(t, arrays.Positions, 21)
	assert.Len(t, arrays.Normals, 21)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6}, arrays.Triangles)
	assert.Equal(t, []uint32{0, 1, 0, 2, 0, 3, 1, 2, 2, 3, 4, 5, 4, 6, 5, 6}, arrays.Lines)
	assert.Equal(t, []float32{1, 1, 0}, arrays.Positions[6:9])
	assert.False(t, arrays.HasUVs())
}

func TestBuildGeometryArraysNormals(t *testing.T) {
	f := model.NewFace3(0, 1, 2)
	f.Normal = mgl32.Vec3{0, 0, 1}
	f.VertexNormals = []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	geo := model.NewGeometry(
		model.WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}),
		model.WithFaces(f),
	)
	group := groupOf(geo, f)

	flat := BuildGeometryArrays(group, false)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, flat.Normals)

	smooth := BuildGeometryArrays(group, true)
	assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, -1}, smooth.Normals)
}

func TestBuildGeometryArraysUVs(t *testing.T) {
	geo := model.NewPlane(2, 2, 2, 1)
	groups := game_object.NewMesh(geo, material.NewMaterial(material.KindBasic)).MaterialFaceGroups()
	require.Len(t, groups, 1)

	arrays := BuildGeometryArrays(groups[0], false)
	assert.Equal(t, 8, arrays.VertexCount)
	assert.True(t, arrays.HasUVs())
	assert.Len(t, arrays.UVs, 16)
	assert.Equal(t, uint32(7), arrays.Triangles[len(arrays.Triangles)-1])
}

func TestDedupeLines(t *testing.T) {
	assert.Equal(t, []uint32{0, 1, 1, 2}, DedupeLines([]uint32{0, 1, 1, 0, 1, 2, 2, 1}, nil))
	assert.Empty(t, DedupeLines(nil, nil))

	// Local vertices 2 and 3 are copies of 1 and 0.
	sources := []int{0, 1, 1, 0, 7}
	assert.Equal(t, []uint32{0, 1, 2, 4}, DedupeLines([]uint32{0, 1, 2, 3, 2, 4}, sources))
}

func TestBufferCacheEnsure(t *testing.T) {
	rec := backendtest.NewRecorder()
	cache := newBufferCache(rec, false)
	group := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic)).MaterialFaceGroups()[0]

	first := cache.Ensure(group)
	require.Equal(t, common.ResidencyReady, first.residency)
	assert.Same(t, first, cache.Ensure(group))
	assert.Equal(t, 5, rec.Count("CreateBuffer"))
	assert.Equal(t, 1, cache.Len())

	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, rec.Floats(first.position))
	assert.Equal(t, []uint32{0, 1, 2}, rec.Indices(first.triangles))
	assert.Equal(t, 3, first.triangleCount)
	assert.Equal(t, 6, first.lineCount)
	assert.False(t, first.hasUV)
}

func TestBufferCacheEmptyGroupFails(t *testing.T) {
	rec := backendtest.NewRecorder()
	cache := newBufferCache(rec, false)
	group := &game_object.MaterialFaceGroup{Geometry: model.NewGeometry()}

	assert.Equal(t, common.ResidencyFailed, cache.Ensure(group).residency)
	assert.Equal(t, common.ResidencyFailed, cache.Ensure(group).residency)
	assert.Equal(t, 0, rec.Count("CreateBuffer"))
}

func TestBufferCacheDedupedWireframe(t *testing.T) {
	plane := model.NewPlane(2, 1, 2, 1)
	group := game_object.NewMesh(plane, material.NewMaterial(material.KindBasic)).MaterialFaceGroups()[0]

	plain := newBufferCache(backendtest.NewRecorder(), false)
	assert.Equal(t, 20, plain.Ensure(group).lineCount, "two quads emit five edges each")

	rec := backendtest.NewRecorder()
	cache := newBufferCache(rec, true)
	deduped := cache.Ensure(group)
	require.Equal(t, common.ResidencyReady, deduped.residency)
	assert.Equal(t, 18, deduped.lineCount, "the shared middle edge is kept once")
	assert.Equal(t, []uint32{0, 1, 0, 2, 0, 3, 1, 2, 2, 3, 4, 6, 4, 7, 5, 6, 6, 7}, rec.Indices(deduped.lines))
	assert.Equal(t, backend.BufferTargetElementArray, rec.Calls[len(rec.Calls)-1].Args[0])
}

func TestBuildGeometryArraysSources(t *testing.T) {
	geo := model.NewPlane(2, 1, 2, 1)
	arrays := BuildGeometryArrays(groupOf(geo, geo.Faces()...), false)
	assert.Equal(t, []int{0, 3, 4, 1, 1, 4, 5, 2}, arrays.Sources)
}

func TestPackLights(t *testing.T) {
	dim := light.NewAmbientLight(0.1, 0.1, 0.1)
	off := light.NewPointLight(1, 0, 0, 0, 0, 0)
	off.SetEnabled(false)
	lights := []light.Light{
		dim,
		light.NewAmbientLight(0.2, 0.2, 0.2),
		light.NewDirectionalLight(1, 1, 1, 0, -1, 0),
		light.NewDirectionalLight(0, 1, 0, 1, 0, 0),
		off,
		light.NewPointLight(0, 0, 1, 1, 2, 3),
		light.NewLight(light.LightTypeSpot),
	}

	u := packLights(lights, shader.LightBudget{Directional: 1, Point: 2})
	assert.True(t, u.enabled)
	assert.InDelta(t, 0.3, u.ambient[0], 1e-6)
	assert.Equal(t, []float32{1, 1, 1}, u.dirColors)
	assert.Equal(t, []float32{0, 1, 0}, u.dirDirs, "directions point toward the light")
	assert.Equal(t, []float32{0, 0, 1}, u.ptColors)
	assert.Equal(t, []float32{1, 2, 3}, u.ptPos)

	d, p := countLights(lights)
	assert.Equal(t, 2, d)
	assert.Equal(t, 1, p)

	assert.False(t, packLights(nil, shader.LightBudget{}).enabled)
}
