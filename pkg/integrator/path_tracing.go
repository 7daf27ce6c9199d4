package integrator

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing where light only
// enters through the background on a miss
type PathTracingIntegrator struct {
	config core.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config core.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a ray using the configured bounce limit
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Color {
	return pt.RayColorDepth(ray, scene, sampler, pt.config.MaxDepth)
}

// RayColorDepth computes the color for a ray allowing at most depth more bounces
func (pt *PathTracingIntegrator) RayColorDepth(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := scene.Hit(ray, core.ShadowEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray, scene.TopColor, scene.BottomColor)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Color{} // Material absorbed the ray
	}

	// Attenuation tints per channel
	return scatter.Attenuation.MultiplyVec(
		pt.RayColorDepth(scatter.Scattered, scene, sampler, depth-1))
}

// BackgroundGradient blends bottomColor into topColor by the height of the ray direction
func BackgroundGradient(r core.Ray, topColor, bottomColor core.Color) core.Color {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return bottomColor.Lerp(topColor, t)
}
