package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// lightUniforms is the per-frame light data packed for upload.
type lightUniforms struct {
	enabled   bool
	ambient   mgl32.Vec3
	dirColors []float32
	dirDirs   []float32
	ptColors  []float32
	ptPos     []float32
}

// packLights sums ambient lights and packs directional and point lights in scene order, keeping at
// most budget slots of each. Directions are uploaded pointing toward the light. Spot lights and
// disabled lights are ignored.
func packLights(lights []light.Light, budget shader.LightBudget) lightUniforms {
	var out lightUniforms
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case light.LightTypeAmbient:
			out.enabled = true
			out.ambient = out.ambient.Add(l.Radiance())
		case light.LightTypeDirectional:
			out.enabled = true
			if len(out.dirColors)/3 >= budget.Directional {
				continue
			}
			c, d := l.Radiance(), l.Direction().Mul(-1)
			out.dirColors = append(out.dirColors, c[0], c[1], c[2])
			out.dirDirs = append(out.dirDirs, d[0], d[1], d[2])
		case light.LightTypePoint:
			out.enabled = true
			if len(out.ptColors)/3 >= budget.Point {
				continue
			}
			c, p := l.Radiance(), l.Position()
			out.ptColors = append(out.ptColors, c[0], c[1], c[2])
			out.ptPos = append(out.ptPos, p[0], p[1], p[2])
		}
	}
	return out
}

// setupLights writes the frame's light uniforms into p, which must be current.
func (r *renderer) setupLights(p shader.Program, lights []light.Light) {
	budget := r.factory.Budget()
	u := packLights(lights, budget)

	r.ctx.set1i(p, "enableLighting", boolInt(u.enabled))
	r.ctx.set3f(p, "ambientLightColor", u.ambient)

	if budget.Directional > 0 {
		r.ctx.set1i(p, "directionalLightNumber", int32(len(u.dirColors)/3))
		r.ctx.set3fv(p, "directionalLightColor", u.dirColors)
		r.ctx.set3fv(p, "directionalLightDirection", u.dirDirs)
	}
	if budget.Point > 0 {
		r.ctx.set1i(p, "pointLightNumber", int32(len(u.ptColors)/3))
		r.ctx.set3fv(p, "pointLightColor", u.ptColors)
		r.ctx.set3fv(p, "pointLightPosition", u.ptPos)
	}
}

// countLights returns how many directional and point lights are enabled.
func countLights(lights []light.Light) (directional, point int) {
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case light.LightTypeDirectional:
			directional++
		case light.LightTypePoint:
			point++
		}
	}
	return directional, point
}
