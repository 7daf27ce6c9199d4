package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// NewSceneFromFile loads a YAML scene description and builds a renderable scene
func NewSceneFromFile(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}

	name := sf.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return BuildScene(name, sf, cameraOverrides...)
}

// BuildScene converts a validated scene description into a renderable scene
func BuildScene(name string, sf *loaders.SceneFile, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	samplingConfig := core.DefaultSamplingConfig()
	if sf.Image.Width > 0 {
		samplingConfig.Width = sf.Image.Width
		samplingConfig.Height = 0 // Derived from the aspect ratio unless given
	}
	if sf.Image.Height > 0 {
		samplingConfig.Height = sf.Image.Height
	}
	if sf.Image.Samples > 0 {
		samplingConfig.SamplesPerPixel = sf.Image.Samples
	}
	if sf.Image.MaxDepth > 0 {
		samplingConfig.MaxDepth = sf.Image.MaxDepth
	}

	up := core.NewVec3(0, 1, 0)
	if sf.Camera.Up != nil {
		up = toVec3(*sf.Camera.Up)
	}
	vfov := sf.Camera.VFov
	if vfov == 0 {
		vfov = 90
	}

	aspect := 16.0 / 9.0
	if samplingConfig.Height > 0 {
		aspect = float64(samplingConfig.Width) / float64(samplingConfig.Height)
	}

	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center:        toVec3(sf.Camera.Center),
		LookAt:        toVec3(sf.Camera.LookAt),
		Up:            up,
		VFov:          vfov,
		AspectRatio:   aspect,
		Aperture:      sf.Camera.Aperture,
		FocusDistance: sf.Camera.FocusDistance,
	}, cameraOverrides)

	s := NewScene(name, cameraConfig, samplingConfig)
	if sf.Background != nil {
		s.TopColor = toVec3(sf.Background.Top)
		s.BottomColor = toVec3(sf.Background.Bottom)
	}

	materials := make(map[string]material.Material, len(sf.Materials))
	for key, spec := range sf.Materials {
		m, err := buildMaterial(spec)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", key, err)
		}
		materials[key] = m
	}

	for i, obj := range sf.Objects {
		m := materials[obj.Material]
		switch obj.Type {
		case loaders.ObjectSphere:
			s.Add(geometry.NewSphere(toVec3(obj.Center), obj.Radius, m))
		case loaders.ObjectPlane:
			s.Add(geometry.NewPlane(toVec3(obj.Point), toVec3(obj.Normal), m))
		default:
			return nil, fmt.Errorf("%w: object %d has unknown type %q", loaders.ErrInvalidScene, i, obj.Type)
		}
	}

	return s, nil
}

func buildMaterial(spec loaders.MaterialSpec) (material.Material, error) {
	switch spec.Type {
	case loaders.MaterialLambertian:
		return material.NewLambertian(toVec3(spec.Albedo)), nil
	case loaders.MaterialMetal:
		return material.NewMetal(toVec3(spec.Albedo), spec.Fuzz), nil
	case loaders.MaterialDielectric:
		return material.NewDielectric(spec.IOR), nil
	default:
		return nil, fmt.Errorf("%w: unknown material type %q", loaders.ErrInvalidScene, spec.Type)
	}
}

func toVec3(t loaders.Triple) core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}
