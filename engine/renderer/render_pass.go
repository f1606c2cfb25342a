package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// passKey selects the materials one pass draws.
type passKey struct {
	blending    material.Blending
	transparent bool
}

// transparentPasses is the order materials are drawn in within each group after the opaque pass.
var transparentPasses = []passKey{
	{material.BlendingAdditive, false},
	{material.BlendingSubtractive, false},
	{material.BlendingAdditive, true},
	{material.BlendingSubtractive, true},
	{material.BlendingNormal, true},
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) {
	if s == nil || cam == nil {
		return
	}

	r.stats = Stats{Frame: r.stats.Frame + 1}
	r.residencyPass(s)

	if r.autoClear {
		r.Clear()
	}
	if cam.AutoUpdateMatrix() {
		cam.UpdateMatrix()
	}
	r.ctx.beginFrame(cam)

	if uber := r.factory.Ubershader(); uber.Ready() {
		r.ctx.use(uber)
		r.ctx.loadCamera(uber)
		r.setupLights(uber, s.Lights())
	}

	list := s.RenderList()
	r.stats.Groups = len(list)

	for _, group := range list {
		if !drawable(group) {
			continue
		}
		r.ctx.setupMatrices(group.Object)
		r.renderPass(group, passKey{material.BlendingNormal, false})
	}

	for _, group := range list {
		if !drawable(group) {
			continue
		}
		r.ctx.setupMatrices(group.Object)
		for _, pass := range transparentPasses {
			r.renderPass(group, pass)
		}
	}

	r.stats.ProgramSwitches = r.ctx.switches
	if err := r.backend.Err(); err != nil {
		common.Logger().Warn("gpu error after frame", "frame", r.stats.Frame, "error", err)
	}
}

func drawable(group *game_object.MaterialFaceGroup) bool {
	return group != nil && group.Object != nil && group.Object.Visible()
}

// residencyPass builds buffers for visible objects the scene has not drawn before and registers
// their ready groups in the render list.
func (r *renderer) residencyPass(s scene.Scene) {
	for _, obj := range s.Objects() {
		if obj == nil || !obj.Visible() || s.Resident(obj) {
			continue
		}
		for _, group := range obj.MaterialFaceGroups() {
			if rec := r.buffers.Ensure(group); rec.residency == common.ResidencyReady {
				s.RegisterResident(group)
			}
		}
	}
}

// renderPass draws group once per material matching pass.
func (r *renderer) renderPass(group *game_object.MaterialFaceGroup, pass passKey) {
	for _, m := range group.DrawMaterials() {
		if m.Blending() != pass.blending || (m.Opacity() < 1) != pass.transparent {
			continue
		}
		r.SetBlending(m.Blending())
		r.renderBuffer(group, m)
	}
}

// renderBuffer issues one indexed draw of group with m.
func (r *renderer) renderBuffer(group *game_object.MaterialFaceGroup, m material.Material) {
	prog := r.factory.ProgramFor(m)
	if prog == nil {
		return
	}
	if !prog.Ready() {
		if !r.warned[prog.Key()] {
			r.warned[prog.Key()] = true
			common.Logger().Warn("skipping draws with unusable program", "program", prog.Key(), "error", prog.Err())
		}
		return
	}

	rec := r.buffers.Ensure(group)
	if rec.residency != common.ResidencyReady {
		return
	}

	r.ctx.use(prog)
	if m.Kind() == material.KindShader {
		r.ctx.loadCamera(prog)
	}
	r.ctx.loadMatrices(prog)
	r.binder.bind(prog, m)

	if a := prog.Attrib("position"); a.Valid() {
		r.backend.VertexAttrib(a, rec.position, 3)
	}
	if a := prog.Attrib("normal"); a.Valid() {
		r.backend.VertexAttrib(a, rec.normal, 3)
	}
	if a := prog.Attrib("uv"); a.Valid() {
		if rec.hasUV && (m.Map() != nil || m.Kind() == material.KindShader) {
			r.backend.VertexAttrib(a, rec.uv, 2)
		} else {
			r.backend.DisableVertexAttrib(a)
		}
	}

	if m.Wireframe() {
		r.backend.LineWidth(m.LineWidth())
		r.backend.BindBuffer(backend.BufferTargetElementArray, rec.lines)
		r.backend.DrawElements(backend.PrimitiveLines, rec.lineCount)
		r.stats.Lines += rec.lineCount / 2
	} else {
		r.backend.BindBuffer(backend.BufferTargetElementArray, rec.triangles)
		r.backend.DrawElements(backend.PrimitiveTriangles, rec.triangleCount)
		r.stats.Triangles += rec.triangleCount / 3
	}
	r.stats.DrawCalls++
}
