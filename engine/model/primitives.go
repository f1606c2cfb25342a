package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// cubeSide is one side of a box: its outward axis and the right and up axes of its quad.
type cubeSide struct {
	normal, right, up mgl32.Vec3
}

// cubeSides lists the box sides in +X, -X, +Y, -Y, +Z, -Z order. right × up == normal for each.
var cubeSides = [6]cubeSide{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// quadUVs are the corner coordinates of a quad in top-left, bottom-left, bottom-right, top-right order.
var quadUVs = []mgl32.Vec2{{0, 1}, {0, 0}, {1, 0}, {1, 1}}

// NewCube builds an axis-aligned box centered on the origin with one Face4 per side.
// Each side has its own four vertices so flat normals and UVs stay per side.
//
// Parameters:
//   - width, height, depth: the box extents along X, Y and Z
//   - materials: six materials assign one per side in +X, -X, +Y, -Y, +Z, -Z order;
//     any other count is used as every side's material list
//
// Returns:
//   - Geometry: the box geometry with face normals computed
func NewCube(width, height, depth float32, materials ...material.Material) Geometry {
	half := mgl32.Vec3{width / 2, height / 2, depth / 2}
	g := &geometry{name: "cube"}

	for i, side := range cubeSides {
		corner := func(r, u float32) int {
			p := side.normal.Add(side.right.Mul(r)).Add(side.up.Mul(u))
			return g.AddVertex(mgl32.Vec3{p[0] * half[0], p[1] * half[1], p[2] * half[2]})
		}
		a := corner(-1, 1)
		b := corner(-1, -1)
		c := corner(1, -1)
		d := corner(1, 1)

		list := materials
		if len(materials) == len(cubeSides) {
			list = []material.Material{materials[i]}
		}
		f := NewFace4(a, b, c, d, list...)
		f.UVs = append([]mgl32.Vec2(nil), quadUVs...)
		g.AddFace(f)
	}

	g.ComputeFaceNormals()
	return g
}

// NewPlane builds a plane in the XY plane facing +Z, centered on the origin and split into a grid
// of Face4 quads.
//
// Parameters:
//   - width, height: the plane extents along X and Y
//   - segmentsW, segmentsH: the grid resolution, at least 1 each
//   - materials: the material list of every face
//
// Returns:
//   - Geometry: the plane geometry with face normals computed
func NewPlane(width, height float32, segmentsW, segmentsH int, materials ...material.Material) Geometry {
	segmentsW = max(segmentsW, 1)
	segmentsH = max(segmentsH, 1)
	segW := width / float32(segmentsW)
	segH := height / float32(segmentsH)

	g := &geometry{name: "plane"}
	index := func(ix, iy int) int { return iy*(segmentsW+1) + ix }
	for iy := 0; iy <= segmentsH; iy++ {
		for ix := 0; ix <= segmentsW; ix++ {
			g.AddVertex(mgl32.Vec3{float32(ix)*segW - width/2, height/2 - float32(iy)*segH, 0})
		}
	}

	uv := func(ix, iy int) mgl32.Vec2 {
		return mgl32.Vec2{float32(ix) / float32(segmentsW), 1 - float32(iy)/float32(segmentsH)}
	}
	for iy := 0; iy < segmentsH; iy++ {
		for ix := 0; ix < segmentsW; ix++ {
			f := NewFace4(index(ix, iy), index(ix, iy+1), index(ix+1, iy+1), index(ix+1, iy), materials...)
			f.UVs = []mgl32.Vec2{uv(ix, iy), uv(ix, iy+1), uv(ix+1, iy+1), uv(ix+1, iy)}
			g.AddFace(f)
		}
	}

	g.ComputeFaceNormals()
	return g
}

// NewSphere builds a UV sphere centered on the origin. Rows touching a pole use Face3, every other
// cell is a Face4. Vertex normals point away from the center.
//
// Parameters:
//   - radius: the sphere radius
//   - segmentsW: the number of segments around the equator, at least 3
//   - segmentsH: the number of rings from pole to pole, at least 2
//   - materials: the material list of every face
//
// Returns:
//   - Geometry: the sphere geometry with face and vertex normals set
func NewSphere(radius float32, segmentsW, segmentsH int, materials ...material.Material) Geometry {
	segmentsW = max(segmentsW, 3)
	segmentsH = max(segmentsH, 2)

	g := &geometry{name: "sphere"}
	grid := make([][]int, segmentsH+1)
	uvs := make([][]mgl32.Vec2, segmentsH+1)

	for y := 0; y <= segmentsH; y++ {
		v := float32(y) / float32(segmentsH)
		for x := 0; x <= segmentsW; x++ {
			u := float32(x) / float32(segmentsW)
			sinV, cosV := math32.Sincos(v * math32.Pi)
			sinU, cosU := math32.Sincos(u * 2 * math32.Pi)
			p := mgl32.Vec3{-radius * cosU * sinV, radius * cosV, radius * sinU * sinV}
			grid[y] = append(grid[y], g.AddVertex(p))
			uvs[y] = append(uvs[y], mgl32.Vec2{u, 1 - v})
		}
	}

	normal := func(i int) mgl32.Vec3 {
		p := g.vertices[i]
		if p.Len() == 0 {
			return mgl32.Vec3{0, 1, 0}
		}
		return p.Normalize()
	}

	for y := 0; y < segmentsH; y++ {
		for x := 0; x < segmentsW; x++ {
			v1, v2, v3, v4 := grid[y][x+1], grid[y][x], grid[y+1][x], grid[y+1][x+1]
			t1, t2, t3, t4 := uvs[y][x+1], uvs[y][x], uvs[y+1][x], uvs[y+1][x+1]

			var f *Face
			switch {
			case y == 0:
				f = NewFace3(v1, v3, v4, materials...)
				f.UVs = []mgl32.Vec2{t1, t3, t4}
			case y == segmentsH-1:
				f = NewFace3(v1, v2, v3, materials...)
				f.UVs = []mgl32.Vec2{t1, t2, t3}
			default:
				f = NewFace4(v1, v2, v3, v4, materials...)
				f.UVs = []mgl32.Vec2{t1, t2, t3, t4}
			}
			for _, vi := range f.Vertices() {
				f.VertexNormals = append(f.VertexNormals, normal(vi))
			}
			g.AddFace(f)
		}
	}

	g.ComputeFaceNormals()
	return g
}
