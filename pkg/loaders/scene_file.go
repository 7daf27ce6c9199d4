package loaders

import (
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is wrapped by every validation failure
var ErrInvalidScene = errors.New("invalid scene")

// Material type names accepted in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Object type names accepted in scene files
const (
	ObjectSphere = "sphere"
	ObjectPlane  = "plane"
)

// Triple is an x, y, z (or r, g, b) sequence in a scene file
type Triple [3]float64

// UnmarshalYAML decodes a three-element sequence
func (t *Triple) UnmarshalYAML(value *yaml.Node) error {
	var values []float64
	if err := value.Decode(&values); err != nil {
		return err
	}
	if len(values) != 3 {
		return fmt.Errorf("line %d: expected 3 components, got %d", value.Line, len(values))
	}
	copy(t[:], values)
	return nil
}

// SceneFile is the decoded form of a YAML scene description
type SceneFile struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Group       string                  `yaml:"group"`
	Image       ImageSpec               `yaml:"image"`
	Camera      CameraSpec              `yaml:"camera"`
	Background  *BackgroundSpec         `yaml:"background"`
	Materials   map[string]MaterialSpec `yaml:"materials"`
	Objects     []ObjectSpec            `yaml:"objects"`
}

// ImageSpec holds the recommended output size and sampling
type ImageSpec struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Samples  int `yaml:"samples"`
	MaxDepth int `yaml:"max_depth"`
}

// CameraSpec describes the viewpoint
type CameraSpec struct {
	Center        Triple  `yaml:"center"`
	LookAt        Triple  `yaml:"look_at"`
	Up            *Triple `yaml:"up"`
	VFov          float64 `yaml:"vfov"`
	Aperture      float64 `yaml:"aperture"`
	FocusDistance float64 `yaml:"focus_distance"`
}

// BackgroundSpec holds the sky gradient colors
type BackgroundSpec struct {
	Top    Triple `yaml:"top"`
	Bottom Triple `yaml:"bottom"`
}

// MaterialSpec describes one named material
type MaterialSpec struct {
	Type   string  `yaml:"type"`
	Albedo Triple  `yaml:"albedo"`
	Fuzz   float64 `yaml:"fuzz"`
	IOR    float64 `yaml:"ior"`
}

// ObjectSpec describes one primitive
type ObjectSpec struct {
	Type     string  `yaml:"type"`
	Material string  `yaml:"material"`
	Center   Triple  `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Point    Triple  `yaml:"point"`
	Normal   Triple  `yaml:"normal"`
}

// LoadSceneFile reads, decodes and validates a scene description
func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	sf, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

// ParseSceneFile decodes and validates a scene description
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// cameraUpDegenerate reports whether up (default +Y) leaves no horizontal camera axis
func cameraUpDegenerate(c CameraSpec) bool {
	up := core.NewVec3(0, 1, 0)
	if c.Up != nil {
		up = core.NewVec3(c.Up[0], c.Up[1], c.Up[2])
	}
	w := core.NewVec3(c.Center[0]-c.LookAt[0], c.Center[1]-c.LookAt[1], c.Center[2]-c.LookAt[2])
	return up.Cross(w).Length() <= 1e-8*up.Length()*w.Length()
}

// Validate checks references and parameter ranges
func (sf *SceneFile) Validate() error {
	if sf.Image.Width < 0 || sf.Image.Height < 0 || sf.Image.Samples < 0 || sf.Image.MaxDepth < 0 {
		return fmt.Errorf("%w: image settings must not be negative", ErrInvalidScene)
	}
	if sf.Camera.VFov < 0 || sf.Camera.VFov >= 180 {
		return fmt.Errorf("%w: vfov %g outside [0, 180)", ErrInvalidScene, sf.Camera.VFov)
	}
	if sf.Camera.Aperture < 0 {
		return fmt.Errorf("%w: aperture must not be negative", ErrInvalidScene)
	}
	if sf.Camera.Center == sf.Camera.LookAt {
		return fmt.Errorf("%w: camera center and look_at coincide", ErrInvalidScene)
	}
	if cameraUpDegenerate(sf.Camera) {
		return fmt.Errorf("%w: camera up is zero or parallel to the view direction", ErrInvalidScene)
	}

	for name, m := range sf.Materials {
		switch m.Type {
		case MaterialLambertian:
		case MaterialMetal:
			if m.Fuzz < 0 || m.Fuzz > 1 {
				return fmt.Errorf("%w: material %q fuzz %g outside [0, 1]", ErrInvalidScene, name, m.Fuzz)
			}
		case MaterialDielectric:
			if m.IOR <= 0 {
				return fmt.Errorf("%w: material %q needs a positive ior", ErrInvalidScene, name)
			}
		default:
			return fmt.Errorf("%w: material %q has unknown type %q", ErrInvalidScene, name, m.Type)
		}
	}

	if len(sf.Objects) == 0 {
		return fmt.Errorf("%w: no objects", ErrInvalidScene)
	}
	for i, o := range sf.Objects {
		if _, ok := sf.Materials[o.Material]; !ok {
			return fmt.Errorf("%w: object %d references unknown material %q", ErrInvalidScene, i, o.Material)
		}
		switch o.Type {
		case ObjectSphere:
			// Negative radii are hollow shells; zero has no surface normal
			if o.Radius == 0 {
				return fmt.Errorf("%w: object %d is a sphere with zero radius", ErrInvalidScene, i)
			}
		case ObjectPlane:
			if o.Normal == (Triple{}) {
				return fmt.Errorf("%w: object %d is a plane with zero normal", ErrInvalidScene, i)
			}
		default:
			return fmt.Errorf("%w: object %d has unknown type %q", ErrInvalidScene, i, o.Type)
		}
	}

	return nil
}

// SceneMetadata is the descriptive header of a scene file
type SceneMetadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Group       string `yaml:"group"`
}

// ReadSceneMetadata decodes only the descriptive header of a scene file
func ReadSceneMetadata(path string) (SceneMetadata, error) {
	var meta SceneMetadata

	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("failed to read scene file: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to decode scene metadata: %w", err)
	}
	return meta, nil
}
