package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// CoverSeed is the default seed for the random sphere field
const CoverSeed = 42

// NewCoverScene creates the random sphere field with three large feature spheres.
// The layout is fully determined by seed.
func NewCoverScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}, cameraOverrides)

	s := NewScene("cover", cameraConfig, core.SamplingConfig{
		Width:           1200,
		SamplesPerPixel: 500,
		MaxDepth:        50,
	})

	sampler := core.NewSeededSampler(seed)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	// Keep the small spheres clear of the large metal sphere
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			offset := sampler.Get2D()
			center := core.NewVec3(float64(a)+0.9*offset.X, 0.2, float64(b)+0.9*offset.Y)

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				sphereMaterial = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				sphereMaterial = material.NewMetal(albedo, fuzz)
			default:
				sphereMaterial = material.NewDielectric(1.5)
			}

			s.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
