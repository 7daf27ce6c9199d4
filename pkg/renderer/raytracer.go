package renderer

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Raytracer renders a whole image in a single thread
type Raytracer struct {
	scene   *scene.Scene
	width   int
	height  int
	config  core.SamplingConfig
	sampler core.Sampler
	logger  core.Logger
}

// NewRaytracer creates a new raytracer using the scene's sampling settings
func NewRaytracer(scene *scene.Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:   scene,
		width:   width,
		height:  height,
		config:  scene.SamplingConfig,
		sampler: core.NewSeededSampler(42), // Deterministic for testing
		logger:  nopLogger{},
	}
}

// SetSampler replaces the random source
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// SetLogger enables per-row progress output
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

// RenderPass renders every pixel with SamplesPerPixel samples, one row at a time from the top,
// logging the scanlines remaining. Cancellation is checked before each pixel.
func (rt *Raytracer) RenderPass(ctx context.Context) (*image.RGBA, RenderStats, error) {
	tr := NewTileRenderer(rt.scene, integrator.NewPathTracingIntegrator(rt.config), rt.width, rt.height)
	pixelStats := newPixelStats(rt.width, rt.height)

	stats := newRenderStats(rt.width*rt.height, rt.config.SamplesPerPixel)
	for y := 0; y < rt.height; y++ {
		rt.logger.Printf("\rScanlines remaining: %d ", rt.height-y)
		row := image.Rect(0, y, rt.width, y+1)
		if _, err := tr.RenderTileBounds(ctx, row, pixelStats, rt.sampler, rt.config.SamplesPerPixel); err != nil {
			rt.logger.Printf("\n")
			return nil, RenderStats{}, err
		}
		for x := 0; x < rt.width; x++ {
			stats.addPixel(pixelStats[y][x].SampleCount)
		}
	}
	rt.logger.Printf("\rDone.                    \n")
	stats.finalize()

	return assembleImage(pixelStats, rt.width, rt.height), stats, nil
}

// ColorToRGB encodes an averaged linear color as 8-bit values:
// gamma 2, clamp to [0,1], scale by 255.999 and truncate
func ColorToRGB(c core.Color) (r, g, b uint8) {
	c = core.NewVec3(nonNegative(c.X), nonNegative(c.Y), nonNegative(c.Z))
	c = c.GammaCorrect(2.0).Clamp(0.0, 1.0)
	return uint8(math.Floor(255.999 * c.X)),
		uint8(math.Floor(255.999 * c.Y)),
		uint8(math.Floor(255.999 * c.Z))
}

// nonNegative maps NaN and negative channels to 0 so the square root stays defined
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// vec3ToColor converts a linear color to an opaque RGBA pixel
func vec3ToColor(c core.Color) color.RGBA {
	r, g, b := ColorToRGB(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// assembleImage encodes the average of every pixel
func assembleImage(pixelStats [][]PixelStats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}
	return img
}
