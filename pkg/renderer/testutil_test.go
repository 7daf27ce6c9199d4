package renderer

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// newTestScene creates a small diffuse sphere scene sized width x height
func newTestScene(width, height int) *scene.Scene {
	s := scene.NewScene("test", geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: float64(width) / float64(height),
	}, core.SamplingConfig{Width: width, Height: height, SamplesPerPixel: 4, MaxDepth: 5})

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.3)),
	)
	return s
}

// newEmptyScene has no objects, so every pixel shows the sky gradient
func newEmptyScene(width, height int) *scene.Scene {
	return scene.NewScene("empty", geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: float64(width) / float64(height),
	}, core.SamplingConfig{Width: width, Height: height, SamplesPerPixel: 2, MaxDepth: 5})
}
