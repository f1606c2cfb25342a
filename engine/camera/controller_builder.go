package camera

import "github.com/go-gl/mathgl/mgl32"

// ControllerBuilderOption is a functional option for configuring an orbit Controller.
type ControllerBuilderOption func(*orbitController)

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance from target
//
// Returns:
//   - ControllerBuilderOption: functional option to set the radius
func WithRadius(radius float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.radius = radius
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
func WithAngles(azimuth, elevation float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.azimuth = azimuth
		cc.elevation = elevation
	}
}

// WithOrbitTarget sets the initial pivot point.
func WithOrbitTarget(x, y, z float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.target = mgl32.Vec3{x, y, z}
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: closest allowed distance
//   - max: farthest allowed distance
//
// Returns:
//   - ControllerBuilderOption: functional option to set the bounds
func WithRadiusBounds(min, max float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationBounds sets the vertical angle limits in radians.
func WithElevationBounds(min, max float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithSpeeds sets the orbit, mouse, zoom and pan multipliers. Zero values keep the defaults.
func WithSpeeds(orbit, mouse, zoom, pan float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		if orbit > 0 {
			cc.orbitSpeed = orbit
		}
		if mouse > 0 {
			cc.mouseSensitivity = mouse
		}
		if zoom > 0 {
			cc.zoomSpeed = zoom
		}
		if pan > 0 {
			cc.panSpeed = pan
		}
	}
}
