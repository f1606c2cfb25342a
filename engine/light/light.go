package light

import "github.com/go-gl/mathgl/mgl32"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient adds a constant color to every lit fragment. It has no position or direction.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional

	// LightTypePoint represents a light that emits in all directions from a position.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// The renderer's lighting model has no spot term; spot lights are carried by the scene
	// but not drawn.
	LightTypeSpot
)

// String returns the lower-case light type name.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	position   mgl32.Vec3
	direction  mgl32.Vec3
	color      mgl32.Vec3
	intensity  float32
	lightRange float32
	innerCone  float32 // stored as cos(angle in radians)
	outerCone  float32 // stored as cos(angle in radians)
	enabled    bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities that contribute to the final pixel color
// of lit materials. Each frame the renderer reads every enabled light's type, color and
// intensity, plus direction for directional lights and position for point lights.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningful for point and spot lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the normalized direction the light travels in.
	// Meaningful for directional and spot lights.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the color
	Color() mgl32.Vec3

	// Intensity returns the scalar brightness multiplier.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// Radiance returns Color scaled by Intensity, the value uploaded to the GPU.
	//
	// Returns:
	//   - mgl32.Vec3: the scaled color
	Radiance() mgl32.Vec3

	// Range returns the maximum distance of a point or spot light's influence.
	Range() float32

	// InnerCone returns the cosine of the spot light's inner half-angle.
	InnerCone() float32

	// OuterCone returns the cosine of the spot light's outer half-angle.
	OuterCone() float32

	// Enabled returns whether the light contributes to rendering.
	Enabled() bool

	// SetPosition sets the world-space position.
	//
	// Parameters:
	//   - x, y, z: the position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction the light travels in. The vector is normalized.
	//
	// Parameters:
	//   - x, y, z: the direction components
	SetDirection(x, y, z float32)

	// SetColor sets the linear RGB color.
	SetColor(r, g, b float32)

	// SetIntensity sets the brightness multiplier.
	SetIntensity(intensity float32)

	// SetRange sets the maximum influence distance.
	SetRange(lightRange float32)

	// SetSpotCone sets the spot light's inner and outer half-angles in degrees.
	SetSpotCone(innerDeg, outerDeg float32)

	// SetEnabled toggles the light.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new light of the given type configured with the provided options.
//
// Parameters:
//   - lightType: the kind of light source
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  mgl32.Vec3{0, -1, 0},
		color:      mgl32.Vec3{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		innerCone:  0.9063, // cos(25°)
		outerCone:  0.8192, // cos(35°)
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewAmbientLight is shorthand for an ambient light of the given color.
func NewAmbientLight(r, g, b float32) Light {
	return NewLight(LightTypeAmbient, WithColor(r, g, b))
}

// NewDirectionalLight is shorthand for a directional light of the given color travelling along (x, y, z).
func NewDirectionalLight(r, g, b float32, x, y, z float32) Light {
	return NewLight(LightTypeDirectional, WithColor(r, g, b), WithDirection(x, y, z))
}

// NewPointLight is shorthand for a point light of the given color at (x, y, z).
func NewPointLight(r, g, b float32, x, y, z float32) Light {
	return NewLight(LightTypePoint, WithColor(r, g, b), WithPosition(x, y, z))
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Radiance() mgl32.Vec3 {
	return l.color.Mul(l.intensity)
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	return l.outerCone
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotCone(innerDeg, outerDeg float32) {
	l.innerCone = cosDeg(innerDeg)
	l.outerCone = cosDeg(outerDeg)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
