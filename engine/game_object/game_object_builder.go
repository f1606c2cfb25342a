package game_object

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name used in log output.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithVisible sets whether the GameObject is drawn.
//
// Parameters:
//   - visible: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the visible state
func WithVisible(visible bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.visible.Store(visible)
	}
}

// WithGeometry sets the geometry the object draws.
//
// Parameters:
//   - geometry: the shape to draw
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the geometry
func WithGeometry(geometry model.Geometry) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.geometry = geometry
	}
}

// WithMaterials sets the object's material list.
//
// Parameters:
//   - materials: the materials, drawn in order
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the materials
func WithMaterials(materials ...material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.materials = materials
	}
}

// WithPosition sets the initial translation.
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial Euler rotation in radians.
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithScale sets the initial per-axis scale.
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithRotationSpeed sets the Euler rotation applied per second by Update.
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}

// WithAutoUpdateMatrix controls whether the renderer rebuilds the matrix before each draw.
func WithAutoUpdateMatrix(auto bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.autoUpdateMatrix = auto
	}
}

// WithLight attaches a Light to the GameObject. The scene keeps the light's
// position in sync with the object's translation.
//
// Parameters:
//   - l: the Light to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach the light
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.attachedLight = l
	}
}
