package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

const waveVertex = `#version 410 core
//@oxy:include attributes
//@oxy:include matrices
out vec2 vUv;
void main() {
    vUv = uv;
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
`

const waveFragment = `#version 410 core
uniform float time;
in vec2 vUv;
out vec4 fragColor;
void main() {
    fragColor = vec4(vUv, time, 1.0);
}
`

func triangle() model.Geometry {
	g := model.NewGeometry(
		model.WithVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}),
		model.WithFaces(model.NewFace3(0, 1, 2)),
	)
	g.ComputeFaceNormals()
	return g
}

func pixel() *common.TextureStagingData {
	return &common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
}

func newTestRenderer(t *testing.T, rec *backendtest.Recorder, options ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(rec, options...)
	require.NoError(t, err)
	return r
}

func newTestScene(t *testing.T, objects ...game_object.GameObject) scene.Scene {
	t.Helper()
	s := scene.NewScene("test", scene.WithObjects(objects...), scene.WithUpdateWorkers(1))
	t.Cleanup(s.Close)
	return s
}

func newTestCamera() camera.Camera {
	return camera.NewCamera(camera.WithPosition(0, 0, 5), camera.WithTarget(0, 0, 0))
}

func TestNewRendererContextUnavailable(t *testing.T) {
	_, err := NewRenderer(nil)
	assert.ErrorIs(t, err, ErrContextUnavailable)

	rec := backendtest.NewRecorder()
	rec.InitErr = errors.New("no current context")
	_, err = NewRenderer(rec)
	assert.ErrorIs(t, err, ErrContextUnavailable)
	assert.ErrorContains(t, err, "no current context")
}

func TestNewRendererInitialState(t *testing.T) {
	rec := backendtest.NewRecorder()
	newTestRenderer(t, rec)

	assert.Equal(t, [4]float32{0, 0, 0, 0}, rec.ClearRGBA)
	assert.Equal(t, backend.DepthFuncLessEqual, rec.DepthFunction)
	assert.Equal(t, backend.FrontFaceCCW, rec.Front)
	assert.Equal(t, backend.CullFaceBack, rec.Cull)
	assert.True(t, rec.Enabled[backend.CapabilityDepthTest])
	assert.True(t, rec.Enabled[backend.CapabilityCullFace])
	assert.True(t, rec.Enabled[backend.CapabilityBlend])
	assert.Equal(t, backend.BlendFactorOne, rec.BlendSrc)
	assert.Equal(t, backend.BlendFactorOneMinusSrcAlpha, rec.BlendDst)
	assert.Equal(t, "Init", rec.CallNames()[0])
}

func TestSetSizeAndClear(t *testing.T) {
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec, WithClearColor([3]float32{0.1, 0.2, 0.3}, 1))
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, rec.ClearRGBA)

	r.SetSize(640, 480)
	assert.Equal(t, [4]int{0, 0, 640, 480}, rec.ViewRect)
	w, h := r.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	r.Clear()
	assert.Equal(t, 1, rec.Clears)
}

func TestSetBlending(t *testing.T) {
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.SetBlending(material.BlendingAdditive)
	assert.Equal(t, backend.BlendEquationAdd, rec.BlendEq)
	assert.Equal(t, backend.BlendFactorOne, rec.BlendSrc)
	assert.Equal(t, backend.BlendFactorOne, rec.BlendDst)

	rec.Reset()
	r.SetBlending(material.BlendingSubtractive)
	assert.Equal(t, 0, rec.Count("BlendEquation"), "subtractive only sets the factors")
	assert.Equal(t, backend.BlendFactorDstColor, rec.BlendSrc)
	assert.Equal(t, backend.BlendFactorZero, rec.BlendDst)

	r.SetBlending(material.BlendingNormal)
	assert.Equal(t, backend.BlendEquationAdd, rec.BlendEq)
	assert.Equal(t, backend.BlendFactorOne, rec.BlendSrc)
	assert.Equal(t, backend.BlendFactorOneMinusSrcAlpha, rec.BlendDst)
}

func TestSetFaceCulling(t *testing.T) {
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.SetFaceCulling(CullNone, WindingUnset)
	assert.False(t, rec.Enabled[backend.CapabilityCullFace])

	r.SetFaceCulling(CullFront, WindingClockwise)
	assert.True(t, rec.Enabled[backend.CapabilityCullFace])
	assert.Equal(t, backend.FrontFaceCW, rec.Front)
	assert.Equal(t, backend.CullFaceFront, rec.Cull)

	r.SetFaceCulling(CullFrontAndBack, WindingUnset)
	assert.Equal(t, backend.FrontFaceCCW, rec.Front)
	assert.Equal(t, backend.CullFaceFrontAndBack, rec.Cull)

	r.SetFaceCulling(CullBack, WindingCounterClockwise)
	assert.Equal(t, backend.FrontFaceCCW, rec.Front)
	assert.Equal(t, backend.CullFaceBack, rec.Cull)
}

func TestRenderDepthMaterialPlanes(t *testing.T) {
	obj := game_object.NewMesh(triangle(), material.NewMaterial(material.KindDepth,
		material.WithDepthRange(1, 20), material.WithOpacity(0.5)))
	s := newTestScene(t, obj)

	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec, WithScene(s))
	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.Equal(t, int32(material.KindDepth), draw.Uniforms["material"])
	assert.Equal(t, float32(2), draw.Uniforms["m2Near"])
	assert.Equal(t, float32(21), draw.Uniforms["mFarPlusNear"])
	assert.Equal(t, float32(19), draw.Uniforms["mFarMinusNear"])
	assert.Equal(t, float32(0.5), draw.Uniforms["mOpacity"])
}

func TestRenderSingleLitTriangle(t *testing.T) {
	obj := game_object.NewMesh(triangle(), material.NewMaterial(material.KindLambert))
	s := newTestScene(t, obj)
	s.AddLight(light.NewDirectionalLight(1, 1, 1, 0, 0, -1))

	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec, WithScene(s))
	assert.Equal(t, 1, r.Factory().Budget().Directional)
	assert.Equal(t, 0, r.Factory().Budget().Point)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.Equal(t, backend.PrimitiveTriangles, draw.Mode)
	assert.Equal(t, 3, draw.Count)
	assert.Equal(t, []uint32{0, 1, 2}, draw.Indices)
	assert.Equal(t, int32(1), draw.Uniforms["enableLighting"])
	assert.Equal(t, int32(1), draw.Uniforms["directionalLightNumber"])
	assert.Equal(t, []float32{1, 1, 1}, draw.Uniforms["directionalLightColor"])
	assert.Equal(t, [3]float32{0, 0, 0}, draw.Uniforms["ambientLightColor"])
	assert.Equal(t, int32(material.KindLambert), draw.Uniforms["material"])
	assert.Contains(t, draw.Uniforms, "modelViewMatrix")
	assert.Contains(t, draw.Uniforms, "normalMatrix")
	assert.Equal(t, 1, rec.Clears)

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.Frame)
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 1, stats.DrawCalls)
	assert.Equal(t, 1, stats.Triangles)
}

func TestRenderBuffersUploadedOnce(t *testing.T) {
	obj := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic))
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	cam := newTestCamera()

	r.Render(s, cam)
	r.Render(s, cam)

	assert.Equal(t, 5, rec.Count("CreateBuffer"))
	assert.Equal(t, 5, rec.Count("BufferData"))
	assert.Len(t, rec.Draws, 2)
	assert.Len(t, s.RenderList(), 1)
}

func TestRenderPassOrder(t *testing.T) {
	transparent := material.NewMaterial(material.KindBasic, material.WithName("glass"), material.WithOpacity(0.5))
	additive := material.NewMaterial(material.KindBasic, material.WithName("glow"), material.WithBlending(material.BlendingAdditive))
	subtractive := material.NewMaterial(material.KindBasic, material.WithName("shade"), material.WithBlending(material.BlendingSubtractive))
	opaque := material.NewMaterial(material.KindBasic, material.WithName("solid"))

	obj := game_object.NewMesh(triangle(), transparent, additive, subtractive, opaque)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 4)
	assert.Equal(t, backend.BlendFactorOneMinusSrcAlpha, rec.Draws[0].BlendDst)
	assert.Equal(t, float32(1), rec.Draws[0].Uniforms["mOpacity"])
	assert.Equal(t, backend.BlendFactorOne, rec.Draws[1].BlendDst)
	assert.Equal(t, backend.BlendFactorDstColor, rec.Draws[2].BlendSrc)
	assert.Equal(t, backend.BlendFactorOneMinusSrcAlpha, rec.Draws[3].BlendDst)
	assert.Equal(t, float32(0.5), rec.Draws[3].Uniforms["mOpacity"])
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 0.5}, rec.Draws[3].Uniforms["mColor"])
}

func TestRenderPassOrderAcrossObjects(t *testing.T) {
	glass := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic,
		material.WithColor([3]float32{0, 0, 1}), material.WithOpacity(0.5)))
	glow := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic,
		material.WithColor([3]float32{0, 1, 0}), material.WithBlending(material.BlendingAdditive)))
	solid := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic,
		material.WithColor([3]float32{1, 0, 0})))
	s := newTestScene(t, glass, glow, solid)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 3)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, rec.Draws[0].Uniforms["mColor"], "opaque normal first")
	assert.Equal(t, [4]float32{0, 1, 0, 1}, rec.Draws[1].Uniforms["mColor"], "opaque additive second")
	assert.Equal(t, backend.BlendFactorOne, rec.Draws[1].BlendDst)
	assert.Equal(t, [4]float32{0, 0, 0.5, 0.5}, rec.Draws[2].Uniforms["mColor"], "transparent last")
	assert.Equal(t, backend.BlendFactorOneMinusSrcAlpha, rec.Draws[2].BlendDst)
}

func TestRenderWritesMatricesEveryDraw(t *testing.T) {
	obj := game_object.NewMesh(triangle(),
		material.NewMaterial(material.KindBasic),
		material.NewMaterial(material.KindNormal))
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 2)
	assert.Equal(t, 8, rec.Count("UniformMatrix4f"))
	assert.Equal(t, 2, rec.Count("UniformMatrix3f"))
}

func TestRenderFaceMaterials(t *testing.T) {
	red := material.NewMaterial(material.KindBasic, material.WithColor([3]float32{1, 0, 0}))
	blue := material.NewMaterial(material.KindBasic, material.WithColor([3]float32{0, 0, 1}))
	geo := model.NewCube(1, 1, 1, red, blue, red, blue, red, blue)

	obj := game_object.NewMesh(geo, material.NewFaceMaterial())
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 2)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, rec.Draws[0].Uniforms["mColor"])
	assert.Equal(t, [4]float32{0, 0, 1, 1}, rec.Draws[1].Uniforms["mColor"])
	assert.Equal(t, 18, rec.Draws[0].Count)
	assert.Equal(t, 12, r.Stats().Triangles)
}

func TestRenderWireframe(t *testing.T) {
	wire := material.NewMaterial(material.KindBasic, material.WithWireframe(2))
	obj := game_object.NewMesh(triangle(), wire)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 1)
	assert.Equal(t, backend.PrimitiveLines, rec.Draws[0].Mode)
	assert.Equal(t, 6, rec.Draws[0].Count)
	assert.Equal(t, float32(2), rec.Draws[0].LineWidth)
	assert.Equal(t, 3, r.Stats().Lines)
}

func TestRenderSkipsHiddenObjects(t *testing.T) {
	obj := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic))
	obj.SetVisible(false)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())
	assert.Empty(t, rec.Draws)
	assert.Equal(t, 0, rec.Count("CreateBuffer"))

	obj.SetVisible(true)
	r.Render(s, newTestCamera())
	assert.Len(t, rec.Draws, 1)
}

func TestRenderAutoClearOff(t *testing.T) {
	s := newTestScene(t)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec, WithAutoClear(false))

	r.Render(s, newTestCamera())
	assert.Equal(t, 0, rec.Clears)

	r.SetAutoClear(true)
	r.Render(s, newTestCamera())
	assert.Equal(t, 1, rec.Clears)
}

func TestRenderRemove(t *testing.T) {
	obj := game_object.NewMesh(triangle(), material.NewMaterial(material.KindBasic))
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	cam := newTestCamera()

	r.Render(s, cam)
	require.Len(t, s.RenderList(), 1)

	r.Remove(s, obj)
	s.Remove(obj.ID())
	assert.Empty(t, s.RenderList())

	rec.Reset()
	r.Render(s, cam)
	assert.Empty(t, rec.Draws)
	assert.Equal(t, 0, rec.Count("CreateBuffer"))
}

func TestRenderCubeTextureUploadedOnce(t *testing.T) {
	faces := [texture.CubeFaceCount]*common.TextureStagingData{pixel(), pixel(), pixel(), pixel(), pixel(), pixel()}
	cube := texture.NewCubeTexture(texture.WithCubeName("sky"), texture.WithFaces(faces))
	m := material.NewMaterial(material.KindCube, material.WithEnvMap(cube, material.CombineMultiply, 1))

	obj := game_object.NewMesh(model.NewCube(10, 10, 10), m)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	cam := newTestCamera()

	r.Render(s, cam)
	r.Render(s, cam)

	require.Len(t, rec.Uploads, 6)
	for i, up := range rec.Uploads {
		assert.Equal(t, backend.CubeFaces[i], up.Target)
	}
	assert.Equal(t, 1, rec.Count("CreateTexture"))
	assert.Equal(t, rec.Uploads[0].Texture, rec.Bound(cubeUnit, backend.TextureTargetCubeMap))
}

func TestRenderDefersUnloadedMap(t *testing.T) {
	tex := texture.NewTexture2D(texture.WithName("crate"))
	m := material.NewMaterial(material.KindBasic, material.WithMap(tex))
	obj := game_object.NewMesh(model.NewPlane(1, 1, 1, 1), m)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	cam := newTestCamera()

	r.Render(s, cam)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, int32(0), rec.Draws[0].Uniforms["enableMap"])
	assert.Empty(t, rec.Uploads)

	tex.SetImage(pixel())
	rec.Reset()
	r.Render(s, cam)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, int32(1), rec.Draws[0].Uniforms["enableMap"])
	assert.Equal(t, int32(mapUnit), rec.Draws[0].Uniforms["tMap"])
	require.Len(t, rec.Uploads, 1)
	assert.Equal(t, backend.TextureTarget2D, rec.Uploads[0].Target)
	assert.Equal(t, 1, rec.Count("GenerateMipmap"))
}

func TestRenderCustomShader(t *testing.T) {
	m := material.NewMaterial(material.KindShader,
		material.WithSources(waveVertex, waveFragment),
		material.WithUniforms(map[string]material.Uniform{"time": material.FloatUniform(2)}),
	)
	obj := game_object.NewMesh(model.NewPlane(1, 1, 1, 1), m)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)

	r.Render(s, newTestCamera())

	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.NotEqual(t, r.Factory().Ubershader().Handle(), draw.Program)
	assert.Equal(t, float32(2), draw.Uniforms["time"])
	assert.Contains(t, draw.Uniforms, "projectionMatrix")
	assert.Contains(t, draw.Uniforms, "cameraPosition")
	for name := range draw.Uniforms {
		assert.False(t, strings.HasPrefix(name, "!"), "uniform %s written to a program that was not current", name)
	}
	assert.Contains(t, rec.Calls, backendtest.Call{Name: "VertexAttrib", Args: []any{backend.AttribLocation(2), backend.Buffer(3), 2}})
}

func TestRenderSkipsFailedProgram(t *testing.T) {
	broken := material.NewMaterial(material.KindShader, material.WithSources(waveVertex, "broken"))
	good := material.NewMaterial(material.KindBasic)

	s := newTestScene(t,
		game_object.NewMesh(triangle(), broken),
		game_object.NewMesh(triangle(), good),
	)
	rec := backendtest.NewRecorder()
	rec.CompileErrFor = func(_, fragment string) error {
		if strings.Contains(fragment, "broken") {
			return errors.New("syntax error")
		}
		return nil
	}
	r := newTestRenderer(t, rec)
	cam := newTestCamera()

	r.Render(s, cam)
	r.Render(s, cam)

	assert.Len(t, rec.Draws, 2, "only the working material draws")
	for _, d := range rec.Draws {
		assert.Equal(t, r.Factory().Ubershader().Handle(), d.Program)
	}
}

func TestApplyShaderUpdates(t *testing.T) {
	m := material.NewMaterial(material.KindShader, material.WithSources(waveVertex, waveFragment))
	obj := game_object.NewMesh(triangle(), m)
	s := newTestScene(t, obj)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	cam := newTestCamera()

	r.Render(s, cam)
	compiled := rec.Count("CompileProgram")
	first := rec.Draws[0].Program

	updated := strings.Replace(waveFragment, "time, 1.0", "time, 0.5", 1)
	n := r.ApplyShaderUpdates([]material.SourceUpdate{
		{Material: m, Vertex: waveVertex, Fragment: updated},
		{Material: material.NewMaterial(material.KindBasic), Vertex: "x", Fragment: "y"},
		{},
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, updated, m.FragmentSource())

	r.Render(s, cam)
	assert.Equal(t, compiled+1, rec.Count("CompileProgram"))
	require.Len(t, rec.Draws, 2)
	assert.NotEqual(t, first, rec.Draws[1].Program)
}

func TestApplyShaderUpdatesBeforeFirstDraw(t *testing.T) {
	m := material.NewMaterial(material.KindShader, material.WithName("pending"))
	s := newTestScene(t, game_object.NewMesh(triangle(), m))
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	compiled := rec.Count("CompileProgram")

	n := r.ApplyShaderUpdates([]material.SourceUpdate{{Material: m, Vertex: waveVertex, Fragment: waveFragment}})
	assert.Equal(t, 1, n)
	assert.Equal(t, compiled, rec.Count("CompileProgram"), "nothing compiles until the material is drawn")
	assert.Zero(t, r.Factory().Cached())

	r.Render(s, newTestCamera())
	assert.Equal(t, compiled+1, rec.Count("CompileProgram"))
	require.Len(t, rec.Draws, 1)
	assert.NotEqual(t, r.Factory().Ubershader().Handle(), rec.Draws[0].Program)
}

func TestRenderLogsGPUErrors(t *testing.T) {
	s := newTestScene(t)
	rec := backendtest.NewRecorder()
	r := newTestRenderer(t, rec)
	rec.PendingErrors = []error{errors.New("GL_INVALID_OPERATION")}

	r.Render(s, newTestCamera())
	assert.Empty(t, rec.PendingErrors)
	assert.Equal(t, 1, rec.Count("Err"))
}
