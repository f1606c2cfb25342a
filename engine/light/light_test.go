package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint)
	assert.Equal(t, LightTypePoint, l.Type())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
	assert.Equal(t, float32(1), l.Intensity())
	assert.True(t, l.Enabled())
}

func TestLightOptions(t *testing.T) {
	l := NewLight(LightTypeSpot,
		WithPosition(1, 2, 3),
		WithDirection(0, 0, -5),
		WithColor(1, 0.5, 0),
		WithIntensity(2),
		WithRange(20),
		WithSpotCone(60, 60),
		WithEnabled(false),
	)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, l.Direction())
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, l.Radiance())
	assert.Equal(t, float32(20), l.Range())
	assert.InDelta(t, 0.5, l.InnerCone(), 1e-6)
	assert.InDelta(t, 0.5, l.OuterCone(), 1e-6)
	assert.False(t, l.Enabled())
}

func TestLightSetters(t *testing.T) {
	l := NewAmbientLight(0.1, 0.1, 0.1)
	l.SetColor(0.2, 0.3, 0.4)
	l.SetIntensity(0.5)
	l.SetDirection(0, 0, 0)
	l.SetPosition(4, 5, 6)
	l.SetEnabled(false)

	assert.Equal(t, LightTypeAmbient, l.Type())
	radiance := l.Radiance()
	assert.InDeltaSlice(t, []float32{0.1, 0.15, 0.2}, radiance[:], 1e-6)
	assert.Equal(t, mgl32.Vec3{}, l.Direction())
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, l.Position())
	assert.False(t, l.Enabled())
}

func TestShorthands(t *testing.T) {
	d := NewDirectionalLight(1, 1, 1, 0, -2, 0)
	assert.Equal(t, LightTypeDirectional, d.Type())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, d.Direction())

	p := NewPointLight(1, 0, 0, 0, 3, 0)
	assert.Equal(t, LightTypePoint, p.Type())
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, p.Position())

	assert.Equal(t, "spot", LightTypeSpot.String())
	assert.Equal(t, "unknown", LightType(9).String())
}
