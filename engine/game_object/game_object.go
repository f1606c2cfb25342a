package game_object

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

type gameObject struct {
	id               uint64
	name             string
	visible          atomic.Bool
	geometry         model.Geometry
	materials        []material.Material
	attachedLight    light.Light
	autoUpdateMatrix bool

	position      mgl32.Vec3
	rotation      mgl32.Vec3
	scale         mgl32.Vec3
	rotationSpeed mgl32.Vec3
	matrix        mgl32.Mat4

	groups []*MaterialFaceGroup
}

// GameObject defines the interface for a drawable scene entity: a geometry, the materials it is
// drawn with, and a transform. The renderer reads the object matrix each draw and splits the
// geometry into MaterialFaceGroups once, on first use.
type GameObject interface {
	// ID returns the object's unique identifier.
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name used in logs.
	Name() string

	// Visible returns whether this object is drawn.
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// Geometry returns the shape drawn by this object.
	// Returns:
	//   - model.Geometry: the geometry, or nil
	Geometry() model.Geometry

	// Materials returns the object's material list. An entry of kind material.KindFace defers to the
	// material list of each face group.
	// Returns:
	//   - []material.Material: the materials in draw order
	Materials() []material.Material

	// Position returns the translation component of the transform.
	Position() mgl32.Vec3

	// Rotation returns the Euler rotation in radians, applied in X, Y, Z order.
	Rotation() mgl32.Vec3

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// RotationSpeed returns the Euler rotation applied per second by Update.
	RotationSpeed() mgl32.Vec3

	// Matrix returns the object-to-world matrix as of the last UpdateMatrix call.
	// Returns:
	//   - mgl32.Mat4: the object matrix
	Matrix() mgl32.Mat4

	// AutoUpdateMatrix reports whether the renderer should rebuild the matrix before each draw.
	AutoUpdateMatrix() bool

	// UpdateMatrix rebuilds the object matrix from position, rotation and scale.
	UpdateMatrix()

	// Update advances the rotation by RotationSpeed over dt seconds.
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// MaterialFaceGroups returns the geometry's faces grouped by material list, splitting any group
	// that would exceed MaxGroupVertices. The groups are built once and then reused, so their
	// identity is stable for the lifetime of the object.
	// Returns:
	//   - []*MaterialFaceGroup: the groups in first-appearance order
	MaterialFaceGroups() []*MaterialFaceGroup

	// Light returns the Light attached to this object, or nil if none is set.
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// SetID sets the object's unique identifier.
	SetID(id uint64)

	// SetVisible sets whether the object is drawn.
	SetVisible(visible bool)

	// SetMaterials replaces the material list. Face groups are not rebuilt.
	SetMaterials(materials ...material.Material)

	// SetPosition sets the translation.
	SetPosition(x, y, z float32)

	// SetRotation sets the Euler rotation in radians.
	SetRotation(rx, ry, rz float32)

	// SetRotationSpeed sets the rotation applied per second by Update.
	SetRotationSpeed(rx, ry, rz float32)

	// SetScale sets the per-axis scale.
	SetScale(sx, sy, sz float32)

	// SetAutoUpdateMatrix toggles the per-draw matrix rebuild.
	SetAutoUpdateMatrix(auto bool)

	// SetLight attaches a Light to this object. When the object is added to a
	// scene, the scene syncs the light's position from the object's transform
	// every frame. Pass nil to detach.
	// Parameters:
	//   - l: the Light to attach, or nil to detach
	SetLight(l light.Light)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start visible, with auto matrix updates on and an identity transform.
// Parameters:
//   - options: functional options to configure the object
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale:            mgl32.Vec3{1, 1, 1},
		matrix:           mgl32.Ident4(),
		autoUpdateMatrix: true,
	}
	obj.visible.Store(true)
	for _, option := range options {
		option(obj)
	}
	obj.UpdateMatrix()
	return obj
}

// NewMesh is shorthand for an object drawing geometry with materials.
func NewMesh(geometry model.Geometry, materials ...material.Material) GameObject {
	return NewGameObject(WithGeometry(geometry), WithMaterials(materials...))
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Visible() bool {
	return g.visible.Load()
}

func (g *gameObject) Geometry() model.Geometry {
	return g.geometry
}

func (g *gameObject) Materials() []material.Material {
	return g.materials
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	return g.rotationSpeed
}

func (g *gameObject) Matrix() mgl32.Mat4 {
	return g.matrix
}

func (g *gameObject) AutoUpdateMatrix() bool {
	return g.autoUpdateMatrix
}

func (g *gameObject) UpdateMatrix() {
	rotation := mgl32.HomogRotate3DX(g.rotation[0]).
		Mul4(mgl32.HomogRotate3DY(g.rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(g.rotation[2]))
	g.matrix = mgl32.Translate3D(g.position[0], g.position[1], g.position[2]).
		Mul4(rotation).
		Mul4(mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2]))
}

func (g *gameObject) Update(dt float32) {
	g.rotation = g.rotation.Add(g.rotationSpeed.Mul(dt))
}

func (g *gameObject) MaterialFaceGroups() []*MaterialFaceGroup {
	if g.groups == nil && g.geometry != nil {
		g.groups = buildFaceGroups(g, g.geometry)
	}
	return g.groups
}

func (g *gameObject) Light() light.Light {
	return g.attachedLight
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetVisible(visible bool) {
	g.visible.Store(visible)
}

func (g *gameObject) SetMaterials(materials ...material.Material) {
	g.materials = materials
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = mgl32.Vec3{x, y, z}
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.rotation = mgl32.Vec3{rx, ry, rz}
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.rotationSpeed = mgl32.Vec3{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.scale = mgl32.Vec3{sx, sy, sz}
}

func (g *gameObject) SetAutoUpdateMatrix(auto bool) {
	g.autoUpdateMatrix = auto
}

func (g *gameObject) SetLight(l light.Light) {
	g.attachedLight = l
}
