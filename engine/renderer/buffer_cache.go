package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// GeometryArrays is the flattened, group-local vertex data of one MaterialFaceGroup.
type GeometryArrays struct {
	// Positions holds 3 floats per vertex.
	Positions []float32
	// Normals holds 3 floats per vertex.
	Normals []float32
	// UVs holds 2 floats per vertex for faces that carry one UV per corner.
	UVs []float32
	// Triangles indexes Positions as triangle triples.
	Triangles []uint32
	// Lines indexes Positions as edge pairs.
	Lines []uint32
	// Sources holds, per emitted vertex, the geometry vertex it was copied from.
	Sources []int
	// VertexCount is the number of emitted vertices.
	VertexCount int
}

// HasUVs reports whether every vertex received a texture coordinate.
func (a GeometryArrays) HasUVs() bool {
	return a.VertexCount > 0 && len(a.UVs) == a.VertexCount*2
}

var (
	face3Triangles = []uint32{0, 1, 2}
	face3Lines     = []uint32{0, 1, 0, 2, 1, 2}
	face4Triangles = []uint32{0, 1, 2, 0, 2, 3}
	face4Lines     = []uint32{0, 1, 0, 2, 0, 3, 1, 2, 2, 3}
)

// BuildGeometryArrays flattens a group's faces into per-corner vertex arrays. Every face gets its own
// vertices; indices restart at zero for each group.
//
// Parameters:
//   - group: the faces to flatten
//   - smooth: use per-corner normals where a face carries one per corner
//
// Returns:
//   - GeometryArrays: the flattened arrays
func BuildGeometryArrays(group *game_object.MaterialFaceGroup, smooth bool) GeometryArrays {
	var out GeometryArrays
	if group == nil || group.Geometry == nil {
		return out
	}
	vertices := group.Geometry.Vertices()

	for _, f := range group.Faces {
		corners := f.Corners()
		base := uint32(out.VertexCount)

		for i, vi := range f.Vertices() {
			var p [3]float32
			if vi >= 0 && vi < len(vertices) {
				p = vertices[vi]
			}
			out.Positions = append(out.Positions, p[0], p[1], p[2])
			out.Sources = append(out.Sources, vi)

			n := f.Normal
			if smooth && f.HasVertexNormals() {
				n = f.VertexNormals[i]
			}
			out.Normals = append(out.Normals, n[0], n[1], n[2])
		}

		if f.HasUVs() {
			for _, uv := range f.UVs {
				out.UVs = append(out.UVs, uv[0], uv[1])
			}
		}

		tris, lines := face3Triangles, face3Lines
		if f.Kind == model.Face4 {
			tris, lines = face4Triangles, face4Lines
		}
		for _, i := range tris {
			out.Triangles = append(out.Triangles, base+i)
		}
		for _, i := range lines {
			out.Lines = append(out.Lines, base+i)
		}
		out.VertexCount += corners
	}
	return out
}

// DedupeLines removes repeated undirected edges, keeping the first occurrence of each. Faces never
// share emitted vertices, so edges are compared by the geometry vertices they were copied from.
//
// Parameters:
//   - lines: group-local index pairs
//   - sources: the geometry vertex of each local index; nil compares the local indices
//
// Returns:
//   - []uint32: the local pairs without duplicates
func DedupeLines(lines []uint32, sources []int) []uint32 {
	key := func(i uint32) int {
		if int(i) < len(sources) {
			return sources[i]
		}
		return int(i)
	}
	seen := make(map[[2]int]struct{}, len(lines)/2)
	out := make([]uint32, 0, len(lines))
	for i := 0; i+1 < len(lines); i += 2 {
		a, b := key(lines[i]), key(lines[i+1])
		edge := [2]int{min(a, b), max(a, b)}
		if _, ok := seen[edge]; ok {
			continue
		}
		seen[edge] = struct{}{}
		out = append(out, lines[i], lines[i+1])
	}
	return out
}

// bufferRecord holds the GPU buffers of one group.
type bufferRecord struct {
	residency common.Residency

	position  backend.Buffer
	normal    backend.Buffer
	uv        backend.Buffer
	triangles backend.Buffer
	lines     backend.Buffer

	triangleCount int
	lineCount     int
	hasUV         bool
}

// bufferCache is the side table from group identity to GPU buffers.
type bufferCache struct {
	backend backend.Backend
	records map[*game_object.MaterialFaceGroup]*bufferRecord
	dedupe  bool
}

func newBufferCache(b backend.Backend, dedupe bool) *bufferCache {
	return &bufferCache{
		backend: b,
		records: make(map[*game_object.MaterialFaceGroup]*bufferRecord),
		dedupe:  dedupe,
	}
}

// Ensure returns the group's buffer record, building and uploading it on first call. Groups with no
// vertices or whose buffers cannot be allocated are marked Failed and never retried.
func (c *bufferCache) Ensure(group *game_object.MaterialFaceGroup) *bufferRecord {
	if rec, ok := c.records[group]; ok {
		return rec
	}

	rec := &bufferRecord{residency: common.ResidencyLoading}
	c.records[group] = rec

	arrays := BuildGeometryArrays(group, group.NeedsSmoothNormals())
	if arrays.VertexCount == 0 {
		rec.residency = common.ResidencyFailed
		common.Logger().Debug("skipping empty face group", "object", objectName(group.Object))
		return rec
	}
	lines := arrays.Lines
	if c.dedupe {
		lines = DedupeLines(lines, arrays.Sources)
	}

	handles := make([]backend.Buffer, 5)
	for i := range handles {
		h, err := c.backend.CreateBuffer()
		if err != nil {
			rec.residency = common.ResidencyFailed
			common.Logger().Warn("buffer allocation failed", "object", objectName(group.Object), "error", err)
			return rec
		}
		handles[i] = h
	}
	rec.position, rec.normal, rec.uv, rec.triangles, rec.lines = handles[0], handles[1], handles[2], handles[3], handles[4]

	c.backend.BufferData(backend.BufferTargetArray, rec.position, common.Float32Bytes(arrays.Positions))
	c.backend.BufferData(backend.BufferTargetArray, rec.normal, common.Float32Bytes(arrays.Normals))
	c.backend.BufferData(backend.BufferTargetArray, rec.uv, common.Float32Bytes(arrays.UVs))
	c.backend.BufferData(backend.BufferTargetElementArray, rec.triangles, common.Uint32Bytes(arrays.Triangles))
	c.backend.BufferData(backend.BufferTargetElementArray, rec.lines, common.Uint32Bytes(lines))

	rec.triangleCount = len(arrays.Triangles)
	rec.lineCount = len(lines)
	rec.hasUV = arrays.HasUVs()
	rec.residency = common.ResidencyReady
	return rec
}

// Len returns the number of groups with a record.
func (c *bufferCache) Len() int {
	return len(c.records)
}

// objectName returns a loggable name for obj.
func objectName(obj game_object.GameObject) string {
	if obj == nil {
		return ""
	}
	if obj.Name() != "" {
		return obj.Name()
	}
	return fmt.Sprintf("object#%d", obj.ID())
}
