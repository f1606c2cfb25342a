package game_object

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// MaxGroupVertices is the largest number of vertices a single face group may hold.
const MaxGroupVertices = 65535

// MaterialFaceGroup is the set of faces of one object that share a material list. It is the unit
// the renderer uploads and draws; GPU buffers for it live in the renderer, keyed by the group pointer.
type MaterialFaceGroup struct {
	// Object is the owning object.
	Object GameObject

	// Geometry is the geometry the faces index into.
	Geometry model.Geometry

	// Faces are the group's faces in geometry order.
	Faces []*model.Face

	// Materials is the material list shared by every face in the group.
	Materials []material.Material

	// VertexCount is the number of face corners in the group.
	VertexCount int
}

// DrawMaterials expands the owning object's material list against this group: a face material
// marker is replaced by the group's own materials, any other entry is used as-is.
//
// Returns:
//   - []material.Material: the materials to draw the group with, in order
func (g *MaterialFaceGroup) DrawMaterials() []material.Material {
	var out []material.Material
	for _, m := range g.Object.Materials() {
		if m == nil {
			continue
		}
		if m.Kind() == material.KindFace {
			for _, fm := range g.Materials {
				if fm != nil {
					out = append(out, fm)
				}
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

// NeedsSmoothNormals reports whether any material the group draws with asks for smooth shading.
func (g *MaterialFaceGroup) NeedsSmoothNormals() bool {
	for _, m := range g.DrawMaterials() {
		if m.Shading() == material.ShadingSmooth {
			return true
		}
	}
	return false
}

// buildFaceGroups groups faces by material list identity, starting a new group for a list once the
// current one would pass MaxGroupVertices.
func buildFaceGroups(obj GameObject, geo model.Geometry) []*MaterialFaceGroup {
	current := make(map[string]*MaterialFaceGroup)
	var groups []*MaterialFaceGroup

	for _, f := range geo.Faces() {
		key := materialListKey(f.Materials)
		g := current[key]
		if g == nil || g.VertexCount+f.Corners() > MaxGroupVertices {
			g = &MaterialFaceGroup{Object: obj, Geometry: geo, Materials: f.Materials}
			current[key] = g
			groups = append(groups, g)
		}
		g.Faces = append(g.Faces, f)
		g.VertexCount += f.Corners()
	}
	return groups
}

// materialListKey identifies a material list by the identity of its entries.
func materialListKey(list []material.Material) string {
	var sb strings.Builder
	for i, m := range list {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%p", m)
	}
	return sb.String()
}
