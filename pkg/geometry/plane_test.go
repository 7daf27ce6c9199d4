package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 2, 0), ground)

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray, core.ShadowEpsilon, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}

	if hit.Point.Subtract(core.NewVec3(0, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected hit point at origin, got %v", hit.Point)
	}

	if hit.Material != ground {
		t.Errorf("Hit record should carry the plane's material")
	}
}

func TestPlane_Hit_Misses(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"parallel ray", core.NewVec3(1, 0, 0)},
		{"plane behind ray", core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 1, 0), tt.direction)
			if hit, isHit := plane.Hit(ray, core.ShadowEpsilon, math.Inf(1)); isHit {
				t.Errorf("Expected miss, but got hit at t=%f", hit.T)
			}
		})
	}
}

func TestPlane_Hit_FaceNormal(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit (from above)",
			rayOrigin:      core.NewVec3(0, 1, 0),
			rayDirection:   core.NewVec3(0, -1, 0),
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:           "back face hit (from below)",
			rayOrigin:      core.NewVec3(0, -1, 0),
			rayDirection:   core.NewVec3(0, 1, 0),
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, -1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := plane.Hit(ray, core.ShadowEpsilon, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}
