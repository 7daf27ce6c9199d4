package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter returns false when the incoming ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray, starting at the hit point
	Attenuation core.Color // Per-channel tint applied to the light arriving along Scattered
}

// HitRecord contains information about a ray-object intersection.
// It is a transient query result and refers to the material of the shape that was hit.
type HitRecord struct {
	Point     core.Point3 // Point of intersection
	Normal    core.Vec3   // Unit surface normal, always facing against the incoming ray
	T         float64     // Parameter t along the ray
	FrontFace bool        // Whether ray hit the outside of the surface
	Material  Material    // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
