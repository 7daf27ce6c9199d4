package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// NewBasicScene creates a single grey sphere resting on a huge grey ground sphere
func NewBasicScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 16.0 / 9.0,
	}, cameraOverrides)

	s := NewScene("basic", cameraConfig, core.SamplingConfig{
		Width:           400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	})

	grey := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, grey),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, grey),
	)

	return s
}
