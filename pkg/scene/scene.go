package scene

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	World          *geometry.HittableList // Objects in the scene
	TopColor       core.Color             // Sky color straight up
	BottomColor    core.Color             // Sky color straight down
	SamplingConfig core.SamplingConfig    // Recommended image size and sampling
	CameraConfig   geometry.CameraConfig
}

// Default sky gradient
var (
	DefaultTopColor    = core.NewVec3(0.5, 0.7, 1.0)
	DefaultBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// NewScene creates an empty scene viewed through the given camera configuration.
// Height is derived from width and the camera aspect ratio when not set.
func NewScene(name string, cameraConfig geometry.CameraConfig, samplingConfig core.SamplingConfig) *Scene {
	if cameraConfig.AspectRatio <= 0 {
		cameraConfig.AspectRatio = float64(samplingConfig.Width) / float64(samplingConfig.Height)
	}
	if samplingConfig.Height <= 0 {
		samplingConfig.Height = int(math.Round(float64(samplingConfig.Width) / cameraConfig.AspectRatio))
	}

	return &Scene{
		Name:           name,
		Camera:         geometry.NewCamera(cameraConfig),
		World:          geometry.NewHittableList(),
		TopColor:       DefaultTopColor,
		BottomColor:    DefaultBottomColor,
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.World.Add(shapes...)
}

// Hit finds the nearest intersection across every object in the scene
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return s.World.Hit(ray, tMin, tMax)
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// applyOverrides merges optional camera overrides into a builder's defaults
func applyOverrides(defaults geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}
