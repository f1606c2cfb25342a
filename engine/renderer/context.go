package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// renderContext carries the per-frame state every draw reads: the backend, the bound program and
// the scratch matrices of the object being drawn.
type renderContext struct {
	backend backend.Backend

	program  shader.Program
	switches int

	view       mgl32.Mat4
	projection mgl32.Mat4
	cameraPos  mgl32.Vec3

	objMatrix mgl32.Mat4
	modelView mgl32.Mat4
	normal    mgl32.Mat3
}

func newRenderContext(b backend.Backend) *renderContext {
	return &renderContext{backend: b}
}

// beginFrame captures the camera matrices for the frame.
func (c *renderContext) beginFrame(cam camera.Camera) {
	c.view = cam.ViewMatrix()
	c.projection = cam.ProjectionMatrix()
	c.cameraPos = cam.Position()
	c.switches = 0
}

// use binds p unless it is already current. It reports whether a switch happened.
func (c *renderContext) use(p shader.Program) bool {
	if c.program == p {
		return false
	}
	c.backend.UseProgram(p.Handle())
	c.program = p
	c.switches++
	return true
}

// forget drops p if it is the bound program, forcing the next use to rebind.
func (c *renderContext) forget(p shader.Program) {
	if c.program == p {
		c.program = nil
	}
}

func (c *renderContext) set1i(p shader.Program, name string, v int32) {
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.Uniform1i(loc, v)
	}
}

func (c *renderContext) set1f(p shader.Program, name string, v float32) {
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.Uniform1f(loc, v)
	}
}

func (c *renderContext) set3f(p shader.Program, name string, v [3]float32) {
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (c *renderContext) set4f(p shader.Program, name string, x, y, z, w float32) {
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.Uniform4f(loc, x, y, z, w)
	}
}

func (c *renderContext) set3fv(p shader.Program, name string, v []float32) {
	if len(v) == 0 {
		return
	}
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.Uniform3fv(loc, v)
	}
}

func (c *renderContext) setMat3(p shader.Program, name string, m mgl32.Mat3) {
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.UniformMatrix3f(loc, m)
	}
}

func (c *renderContext) setMat4(p shader.Program, name string, m mgl32.Mat4) {
	if loc := p.Uniform(name); loc.Valid() {
		c.backend.UniformMatrix4f(loc, m)
	}
}

// setupMatrices computes the scratch matrices for obj, rebuilding its own matrix first when it
// updates automatically.
func (c *renderContext) setupMatrices(obj game_object.GameObject) {
	if obj.AutoUpdateMatrix() {
		obj.UpdateMatrix()
	}
	c.objMatrix = obj.Matrix()
	c.modelView = c.view.Mul4(c.objMatrix)
	c.normal = c.modelView.Mat3().Inv().Transpose()
}

// loadMatrices writes the five scratch matrices into p. It runs before every draw.
func (c *renderContext) loadMatrices(p shader.Program) {
	c.setMat4(p, "viewMatrix", c.view)
	c.setMat4(p, "modelViewMatrix", c.modelView)
	c.setMat4(p, "projectionMatrix", c.projection)
	c.setMat3(p, "normalMatrix", c.normal)
	c.setMat4(p, "objMatrix", c.objMatrix)
}

// loadCamera writes the camera position into p.
func (c *renderContext) loadCamera(p shader.Program) {
	c.set3f(p, "cameraPosition", c.cameraPos)
}
