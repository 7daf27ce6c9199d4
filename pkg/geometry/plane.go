package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Point3       // A point on the plane
	Normal   core.Vec3         // Unit normal
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point core.Point3, normal core.Vec3, material material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: material,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never meet the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !inOpenInterval(t, tMin, tMax) {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}
