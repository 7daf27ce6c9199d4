package renderer

import (
	"context"
	"image"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// TileRenderer samples pixels within a region of the image using an integrator
type TileRenderer struct {
	scene         *scene.Scene
	integrator    integrator.Integrator
	width, height int
}

// NewTileRenderer creates a tile renderer for a width x height image of the scene
func NewTileRenderer(scene *scene.Scene, integratorInst integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds tops up every pixel in bounds to targetSamples samples.
// Bounds use image coordinates with y growing downward. Cancellation is checked before
// each pixel; on cancellation the stats cover the pixels finished so far.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) (RenderStats, error) {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if err := ctx.Err(); err != nil {
				stats.finalize()
				return stats, err
			}
			ps := &pixelStats[y][x]
			for ps.SampleCount < targetSamples {
				ps.AddSample(tr.samplePixel(x, y, sampler))
			}
			stats.addPixel(ps.SampleCount)
		}
	}

	stats.finalize()
	return stats, nil
}

// samplePixel traces one jittered camera ray through pixel (x, y)
func (tr *TileRenderer) samplePixel(x, y int, sampler core.Sampler) core.Color {
	// Camera coordinates count rows from the bottom
	i := x
	j := tr.height - 1 - y

	jitter := sampler.Get2D()
	s := (float64(i) + jitter.X) / float64(max(tr.width-1, 1))
	t := (float64(j) + jitter.Y) / float64(max(tr.height-1, 1))

	ray := tr.scene.Camera.GetRay(s, t, sampler)
	return tr.integrator.RayColor(ray, tr.scene, sampler)
}
