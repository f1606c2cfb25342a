package game_object

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Visible())
	assert.True(t, obj.AutoUpdateMatrix())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Equal(t, mgl32.Ident4(), obj.Matrix())
	assert.Nil(t, obj.MaterialFaceGroups())
	assert.Nil(t, obj.Light())
}

func TestGameObjectOptions(t *testing.T) {
	l := light.NewPointLight(1, 1, 1, 0, 0, 0)
	m := material.NewMaterial(material.KindBasic)
	obj := NewGameObject(
		WithID(7),
		WithName("crate"),
		WithVisible(false),
		WithMaterials(m),
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
		WithRotationSpeed(0, 1, 0),
		WithAutoUpdateMatrix(false),
		WithLight(l),
	)
	assert.Equal(t, uint64(7), obj.ID())
	assert.Equal(t, "crate", obj.Name())
	assert.False(t, obj.Visible())
	assert.Equal(t, []material.Material{m}, obj.Materials())
	assert.False(t, obj.AutoUpdateMatrix())
	assert.Equal(t, l, obj.Light())

	// the constructor builds the matrix once even with auto updates off
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, obj.Matrix().Col(3).Vec3())
	assert.InDelta(t, 2, obj.Matrix().At(0, 0), 1e-6)
}

func TestUpdateMatrixOrder(t *testing.T) {
	obj := NewGameObject(WithPosition(5, 0, 0), WithRotation(0, mgl32.DegToRad(90), 0))
	// +X rotated 90 degrees about Y points to -Z, then translated.
	p := obj.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 5, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, -1, p.Z(), 1e-5)
}

func TestUpdateAppliesRotationSpeed(t *testing.T) {
	obj := NewGameObject(WithRotationSpeed(1, 0, 0.5))
	obj.Update(2)
	assert.Equal(t, mgl32.Vec3{2, 0, 1}, obj.Rotation())
	assert.Equal(t, mgl32.Ident4(), obj.Matrix(), "Update does not rebuild the matrix")
	obj.UpdateMatrix()
	assert.NotEqual(t, mgl32.Ident4(), obj.Matrix())
}

func TestSetters(t *testing.T) {
	obj := NewGameObject()
	obj.SetID(3)
	obj.SetVisible(false)
	obj.SetPosition(1, 1, 1)
	obj.SetRotation(0, 0, 1)
	obj.SetScale(3, 3, 3)
	obj.SetRotationSpeed(1, 1, 1)
	obj.SetAutoUpdateMatrix(false)
	assert.Equal(t, uint64(3), obj.ID())
	assert.False(t, obj.Visible())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, obj.Rotation())
	assert.Equal(t, mgl32.Vec3{3, 3, 3}, obj.Scale())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.RotationSpeed())
	assert.False(t, obj.AutoUpdateMatrix())

	l := light.NewPointLight(1, 0, 0, 0, 0, 0)
	obj.SetLight(l)
	assert.Equal(t, l, obj.Light())
	obj.SetLight(nil)
	assert.Nil(t, obj.Light())
}

func TestFaceGroupsByMaterialList(t *testing.T) {
	red := material.NewMaterial(material.KindBasic)
	blue := material.NewMaterial(material.KindBasic)
	geo := model.NewCube(1, 1, 1, red, blue, red, blue, red, blue)

	obj := NewMesh(geo, material.NewFaceMaterial())
	groups := obj.MaterialFaceGroups()
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Faces, 3)
	assert.Len(t, groups[1].Faces, 3)
	assert.Equal(t, 12, groups[0].VertexCount)
	assert.Same(t, red, groups[0].Materials[0])
	assert.Same(t, blue, groups[1].Materials[0])

	again := obj.MaterialFaceGroups()
	assert.Same(t, groups[0], again[0], "groups are cached")
}

func TestFaceGroupsSplitAtVertexLimit(t *testing.T) {
	geo := model.NewGeometry()
	for i := 0; i < 3; i++ {
		geo.AddVertex(mgl32.Vec3{float32(i), 0, 0})
	}
	faces := MaxGroupVertices/3 + 1
	for i := 0; i < faces; i++ {
		geo.AddFace(model.NewFace3(0, 1, 2))
	}

	obj := NewMesh(geo, material.NewMaterial(material.KindBasic))
	groups := obj.MaterialFaceGroups()
	require.Len(t, groups, 2)
	assert.Equal(t, MaxGroupVertices, groups[0].VertexCount)
	assert.Equal(t, 3, groups[1].VertexCount)
}

func TestDrawMaterialsExpandsFaceMarker(t *testing.T) {
	faceMat := material.NewMaterial(material.KindLambert, material.WithShading(material.ShadingFlat))
	overlay := material.NewMaterial(material.KindBasic, material.WithWireframe(1), material.WithShading(material.ShadingFlat))
	geo := model.NewGeometry(
		model.WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}),
		model.WithFaces(model.NewFace3(0, 1, 2, faceMat)),
	)

	obj := NewMesh(geo, material.NewFaceMaterial(), overlay)
	groups := obj.MaterialFaceGroups()
	require.Len(t, groups, 1)
	draw := groups[0].DrawMaterials()
	require.Len(t, draw, 2)
	assert.Same(t, faceMat, draw[0])
	assert.Same(t, overlay, draw[1])
	assert.False(t, groups[0].NeedsSmoothNormals())

	obj.SetMaterials(material.NewMaterial(material.KindPhong))
	assert.True(t, groups[0].NeedsSmoothNormals())
}
