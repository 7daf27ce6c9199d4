package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// RefractionRatio returns the incident over transmitted index for a ray hitting
// the given face: 1/ior entering from outside, ior leaving.
func (d *Dielectric) RefractionRatio(frontFace bool) float64 {
	if frontFace {
		return 1.0 / d.RefractiveIndex
	}
	return d.RefractiveIndex
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass does not tint
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	unitDirection := rayIn.Direction.Normalize()
	refractionRatio := d.RefractionRatio(hit.FrontFace)

	direction, refracted := core.RefractProbabilistic(unitDirection, hit.Normal, refractionRatio, sampler)
	if !refracted {
		// Total internal reflection or Fresnel reflection
		direction = core.Reflect(unitDirection, hit.Normal)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}
