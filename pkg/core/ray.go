package core

import "math"

// ShadowEpsilon is the lower bound of every scene intersection query.
// Hits closer than this to a ray's origin are treated as self-intersections.
const ShadowEpsilon = 0.001

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Point3
	Direction Vec3 // not necessarily unit length
}

// NewRay creates a new ray
func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Reflect mirrors v about the normal n: v - 2*dot(v,n)*n
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// CanRefract reports whether a unit direction uv meeting the unit normal n can
// leave the surface with the given ratio of refractive indices.
// It returns false on total internal reflection.
func CanRefract(uv, n Vec3, etaiOverEtat float64) bool {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	return etaiOverEtat*sinTheta <= 1.0
}

// Refract bends the unit direction uv through a surface with unit normal n (facing
// against uv) using Snell's law. The caller must check CanRefract first.
func Refract(uv, n Vec3, etaiOverEtat float64) Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// RefractProbabilistic refracts uv through n unless refraction is impossible (total
// internal reflection) or a uniform draw falls below the Schlick reflectance.
// The boolean is false when the caller should reflect instead.
func RefractProbabilistic(uv, n Vec3, etaiOverEtat float64, sampler Sampler) (Vec3, bool) {
	if !CanRefract(uv, n, etaiOverEtat) {
		return Vec3{}, false
	}
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	if sampler.Get1D() < Reflectance(cosTheta, etaiOverEtat) {
		return Vec3{}, false
	}
	return Refract(uv, n, etaiOverEtat), true
}
