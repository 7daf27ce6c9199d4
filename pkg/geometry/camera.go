package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera.
// Center must differ from LookAt, and Up must be non-zero and not parallel to
// Center-LookAt, otherwise the camera basis is degenerate.
// Scene files are checked by loaders.Validate; built-in scenes must hold this themselves.
type CameraConfig struct {
	Center        core.Point3 // Eye position
	LookAt        core.Point3 // Point the camera looks at
	Up            core.Vec3   // Up direction hint
	VFov          float64     // Vertical field of view in degrees
	AspectRatio   float64     // Width / height
	Aperture      float64     // Lens diameter, 0 for a pinhole camera
	FocusDistance float64     // Distance to the plane in focus, 0 = distance to LookAt
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera generates rays for rendering. All fields are derived once at construction,
// so a camera can be shared by concurrent workers.
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal basis, w points back from the target
	lensRadius      float64
	config          CameraConfig
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		config:          config,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1,
// s running left to right and t bottom to top.
// With a lens the origin is jittered across the aperture and aimed at the focus plane.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))

	return core.NewRay(origin, target.Subtract(origin))
}

// GetCameraForward returns the unit direction the camera looks along
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
