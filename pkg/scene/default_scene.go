package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// NewDefaultScene creates three spheres (diffuse, hollow glass, metal) on a yellow ground
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 16.0 / 9.0,
	}, cameraOverrides)

	s := NewScene("materials", cameraConfig, core.SamplingConfig{
		Width:           400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	})

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		// Negative radius flips the normals, making a hollow glass bubble
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold),
	)

	return s
}
