package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

func newMesh() game_object.GameObject {
	return game_object.NewMesh(model.NewCube(1, 1, 1), material.NewMaterial(material.KindBasic))
}

func TestAddAssignsIDs(t *testing.T) {
	s := NewScene("test", WithUpdateWorkers(1))
	defer s.Close()

	a, b := newMesh(), newMesh()
	assert.Equal(t, uint64(1), s.Add(a))
	assert.Equal(t, uint64(2), s.Add(b))
	assert.Equal(t, uint64(2), s.Add(b), "adding twice is a no-op")
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []game_object.GameObject{a, b}, s.Objects())
	assert.Equal(t, b, s.Get(2))
	assert.Nil(t, s.Get(9))
}

func TestWithObjects(t *testing.T) {
	a := game_object.NewGameObject(game_object.WithID(10))
	s := NewScene("test", WithObjects(a, newMesh()))
	defer s.Close()

	objs := s.Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, uint64(10), objs[0].ID())
	assert.Equal(t, uint64(11), objs[1].ID())
}

func TestRemoveDetachesLight(t *testing.T) {
	s := NewScene("test")
	defer s.Close()

	l := light.NewPointLight(1, 1, 1, 0, 0, 0)
	obj := game_object.NewGameObject(game_object.WithLight(l))
	ambient := light.NewAmbientLight(0.1, 0.1, 0.1)
	s.AddLight(ambient)
	id := s.Add(obj)
	assert.Equal(t, []light.Light{ambient, l}, s.Lights())

	s.Remove(id)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, []light.Light{ambient}, s.Lights())

	s.RemoveLight(ambient)
	assert.Empty(t, s.Lights())
}

func TestRenderListPrune(t *testing.T) {
	s := NewScene("test")
	defer s.Close()

	a, b := newMesh(), newMesh()
	for _, g := range a.MaterialFaceGroups() {
		s.RegisterResident(g)
	}
	for _, g := range b.MaterialFaceGroups() {
		s.RegisterResident(g)
	}
	for _, g := range a.MaterialFaceGroups() {
		s.RegisterResident(g)
	}
	assert.True(t, s.Resident(a))
	assert.Len(t, s.RenderList(), 3)

	s.Prune(a)
	list := s.RenderList()
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0].Object)
	assert.False(t, s.Resident(a))
	assert.True(t, s.Resident(b))
}

func TestUpdateAdvancesObjectsAndSyncsLights(t *testing.T) {
	s := NewScene("test", WithUpdateWorkers(2))
	defer s.Close()

	l := light.NewPointLight(1, 1, 1, 0, 0, 0)
	spinner := game_object.NewGameObject(game_object.WithRotationSpeed(0, 1, 0))
	carrier := game_object.NewGameObject(game_object.WithLight(l), game_object.WithPosition(3, 4, 5))
	s.Add(spinner)
	s.Add(carrier)

	s.Update(0.5)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, spinner.Rotation())
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, l.Position())
}

func TestClearKeepsRenderList(t *testing.T) {
	s := NewScene("test")
	defer s.Close()

	obj := newMesh()
	s.Add(obj)
	s.RegisterResident(obj.MaterialFaceGroups()[0])
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Len(t, s.RenderList(), 1)
}
