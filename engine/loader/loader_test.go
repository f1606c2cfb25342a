package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// triangleBin holds three VEC3 positions, three uint16 indices padded to 8 bytes and three VEC2 UVs.
const triangleBin = "AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAAAAABAAIAAAAAAAAAAAAAAAAAgD8AAAAAAAAAAAAAgD8="

const triangleLayout = `
	"accessors": [
		{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
		{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		{"bufferView": 2, "componentType": 5126, "count": 3, "type": "VEC2"}
	],
	"bufferViews": [
		{"buffer": 0, "byteOffset": 0, "byteLength": 36},
		{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		{"buffer": 0, "byteOffset": 44, "byteLength": 24}
	],
	"meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 2}, "indices": 1, "material": 0}]}]`

func triangleGLTF(extra string) string {
	return `{
	"asset": {"version": "2.0"},
	"scene": 0,
	"scenes": [{"nodes": [0]}],
	"nodes": [{"mesh": 0, "translation": [1, 0, 0]}],` + triangleLayout + `,
	"buffers": [{"byteLength": 68, "uri": "data:application/octet-stream;base64,` + triangleBin + `"}],
	"materials": [{"name": "red", "pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 0.5]` + extra + `}}]
}`
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pngBytes(t, 2, 2), 0o644))
	return path
}

func newTestLoader(t *testing.T) Loader {
	t.Helper()
	l := NewLoader(BackendTypeGLTF, WithWorkers(2))
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLoadGeometryReader(t *testing.T) {
	l := newTestLoader(t)

	geo, err := l.LoadGeometryReader("tri", strings.NewReader(triangleGLTF("")), false)
	require.NoError(t, err)

	assert.Equal(t, []mgl32.Vec3{{1, 0, 0}, {2, 0, 0}, {1, 1, 0}}, geo.Vertices(), "node translation applied")
	require.Len(t, geo.Faces(), 1)

	face := geo.Faces()[0]
	assert.Equal(t, model.Face3, face.Kind)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, face.Normal)
	assert.Equal(t, []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}, face.UVs)
	assert.False(t, face.HasVertexNormals())

	require.Len(t, face.Materials, 1)
	mat := face.Materials[0]
	assert.Equal(t, material.KindPhong, mat.Kind())
	assert.Equal(t, "red", mat.Name())
	assert.Equal(t, [3]float32{1, 0, 0}, mat.Color())
	assert.InDelta(t, 0.5, mat.Opacity(), 1e-6)
	assert.Nil(t, mat.Map())

	assert.Same(t, geo, l.Get("tri"))
	assert.Nil(t, l.Get("missing"))
}

func TestLoadGeometryFileIsCached(t *testing.T) {
	l := newTestLoader(t)
	path := filepath.Join(t.TempDir(), "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(triangleGLTF("")), 0o644))

	first, err := l.LoadGeometry(path)
	require.NoError(t, err)
	second, err := l.LoadGeometry(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "tri", first.Name())
}

func TestLoadGeometryUnsupported(t *testing.T) {
	l := newTestLoader(t)
	_, err := l.LoadGeometry("model.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	doc := strings.Replace(triangleGLTF(""), `"scene": 0,`, `"scene": 0, "extensionsRequired": ["KHR_draco_mesh_compression"],`, 1)
	_, err = l.LoadGeometryReader("draco", strings.NewReader(doc), false)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.LoadGeometryReader("old", strings.NewReader(`{"asset": {"version": "1.0"}}`), false)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func makeGLB(t *testing.T, jsonChunk string, bin []byte) []byte {
	t.Helper()
	js := []byte(jsonChunk)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var buf bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(js)), ChunkType: gltfGLBChunkJSON}))
	buf.Write(js)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN}))
	buf.Write(bin)
	return buf.Bytes()
}

func TestLoadGeometryGLB(t *testing.T) {
	bin, err := base64.StdEncoding.DecodeString(triangleBin)
	require.NoError(t, err)

	doc := `{"asset": {"version": "2.0"},` + triangleLayout + `, "buffers": [{"byteLength": 68}]}`
	glb := makeGLB(t, doc, bin)

	l := newTestLoader(t)
	geo, err := l.LoadGeometryReader("glb", bytes.NewReader(glb), true)
	require.NoError(t, err)

	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, geo.Vertices(), "meshes used as-is without nodes")
	require.Len(t, geo.Faces(), 1)
	assert.Equal(t, material.KindPhong, geo.Faces()[0].Materials[0].Kind(), "fallback material for out-of-range index")

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, os.WriteFile(path, glb, 0o644))
	fromFile, err := l.LoadGeometry(path)
	require.NoError(t, err)
	assert.Len(t, fromFile.Faces(), 1)

	_, err = l.LoadGeometryReader("bad", bytes.NewReader([]byte("nope, not glb")), true)
	assert.ErrorIs(t, err, errInvalidGLBMagic)
}

func TestAccessorBoundsChecked(t *testing.T) {
	doc := strings.Replace(triangleGLTF(""), `"count": 3, "type": "VEC2"`, `"count": 30, "type": "VEC2"`, 1)
	_, err := newTestLoader(t).LoadGeometryReader("oob", strings.NewReader(doc), false)
	assert.ErrorIs(t, err, errAccessorBounds)
}

func TestEmbeddedTextureDecodedInBackground(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 4, 2))
	doc := strings.Replace(triangleGLTF(`, "baseColorTexture": {"index": 0}`), `"materials"`, fmt.Sprintf(`
	"images": [{"uri": %q}],
	"samplers": [{"wrapS": 33071, "wrapT": 33648}],
	"textures": [{"source": 0, "sampler": 0}],
	"materials"`, uri), 1)

	l := newTestLoader(t)
	geo, err := l.LoadGeometryReader("textured", strings.NewReader(doc), false)
	require.NoError(t, err)

	tex := geo.Faces()[0].Materials[0].Map()
	require.NotNil(t, tex)
	assert.Equal(t, texture.WrapClampToEdge, tex.WrapS())
	assert.Equal(t, texture.WrapMirroredRepeat, tex.WrapT())

	l.Wait()
	require.True(t, tex.Loaded())
	assert.Equal(t, 4, tex.Image().Width)
	assert.Equal(t, 2, tex.Image().Height)
}

func TestLoadTexture(t *testing.T) {
	dir := t.TempDir()
	l := newTestLoader(t)

	tex := l.LoadTexture(writePNG(t, dir, "a.png"), texture.WithWrap(texture.WrapClampToEdge, texture.WrapRepeat))
	missing := l.LoadTexture(filepath.Join(dir, "missing.png"))
	l.Wait()

	require.True(t, tex.Loaded())
	assert.Equal(t, 2, tex.Image().Width)
	assert.Equal(t, texture.WrapClampToEdge, tex.WrapS())
	assert.False(t, missing.Loaded())
}

func TestLoadCubeTexture(t *testing.T) {
	dir := t.TempDir()
	var paths [texture.CubeFaceCount]string
	for i := range paths {
		paths[i] = writePNG(t, dir, fmt.Sprintf("face%d.png", i))
	}

	l := newTestLoader(t)
	cube := l.LoadCubeTexture(paths, texture.WithMapping(texture.MappingRefraction))
	l.Wait()

	assert.Equal(t, texture.CubeFaceCount, cube.LoadCount())
	assert.Equal(t, texture.MappingRefraction, cube.Mapping())
	assert.NotNil(t, cube.Face(5))
}

func TestWatchShader(t *testing.T) {
	dir := t.TempDir()
	vertexPath := filepath.Join(dir, "wave.vert")
	fragmentPath := filepath.Join(dir, "wave.frag")
	require.NoError(t, os.WriteFile(vertexPath, []byte("vertex v1"), 0o644))
	require.NoError(t, os.WriteFile(fragmentPath, []byte("fragment v1"), 0o644))

	l := newTestLoader(t)
	assert.Error(t, l.WatchShader(material.NewMaterial(material.KindBasic), vertexPath, fragmentPath))
	assert.Error(t, l.WatchShader(material.NewMaterial(material.KindShader), filepath.Join(dir, "none.vert"), fragmentPath))

	mat := material.NewMaterial(material.KindShader, material.WithName("wave"))
	require.NoError(t, l.WatchShader(mat, vertexPath, fragmentPath))

	initial := l.Drain()
	require.Len(t, initial, 1)
	assert.Same(t, mat, initial[0].Material)
	assert.Equal(t, "vertex v1", initial[0].Vertex)
	assert.Equal(t, "fragment v1", initial[0].Fragment)
	assert.Empty(t, l.Drain())

	require.NoError(t, os.WriteFile(fragmentPath, []byte("fragment v2"), 0o644))

	var got []material.SourceUpdate
	require.Eventually(t, func() bool {
		got = append(got, l.Drain()...)
		for _, u := range got {
			if u.Fragment == "fragment v2" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
	assert.Same(t, mat, got[len(got)-1].Material)
	assert.Equal(t, "vertex v1", got[len(got)-1].Vertex)
}

func TestCloseIsIdempotent(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	dir := t.TempDir()
	path := filepath.Join(dir, "s.glsl")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.ErrorIs(t, l.WatchShader(material.NewMaterial(material.KindShader), path, path), ErrClosed)
	assert.False(t, l.LoadTexture(path).Loaded())
}

func TestTransformMeshMirrorFlipsWinding(t *testing.T) {
	mesh := model.ImportedMesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
	scale := [3]float32{-2, 1, 1}
	transformMesh(&mesh, nodeLocalMatrix(&gltfNode{Scale: &scale}))

	assert.Equal(t, mgl32.Vec3{-2, 0, 0}, mesh.Positions[1])
	assert.Equal(t, []uint32{0, 2, 1}, mesh.Indices)
	assert.Equal(t, [3]float32{-2, 0, 0}, mesh.BoundingMin)
	assert.Equal(t, [3]float32{0, 1, 0}, mesh.BoundingMax)
	assert.InDelta(t, 1, mesh.Normals[0].Z(), 1e-6)
}
