package renderer

import (
	"image"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Target samples per pixel
	MinSamples     int     // Minimum samples taken by any pixel
	MaxSamplesUsed int     // Maximum samples actually taken by any pixel
}

// PixelStats accumulates samples for a single pixel
type PixelStats struct {
	ColorAccum  core.Color // Sum of all sample colors
	SampleCount int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Color{}
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// newPixelStats allocates a height x width grid indexed [y][x]
func newPixelStats(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

// newRenderStats starts statistics for pixelCount pixels targeting maxSamples
func newRenderStats(pixelCount, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  maxSamples,
		MinSamples:  -1,
	}
}

// addPixel records the samples a single pixel holds
func (rs *RenderStats) addPixel(samples int) {
	rs.TotalSamples += samples
	if rs.MinSamples < 0 || samples < rs.MinSamples {
		rs.MinSamples = samples
	}
	rs.MaxSamplesUsed = max(rs.MaxSamplesUsed, samples)
}

// finalize computes the averages
func (rs *RenderStats) finalize() {
	if rs.MinSamples < 0 {
		rs.MinSamples = 0
	}
	if rs.TotalPixels > 0 {
		rs.AverageSamples = float64(rs.TotalSamples) / float64(rs.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean luminance of an encoded image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r), float64(g), float64(b)).Divide(0xffff)
			total += c.Luminance()
		}
	}
	return total / float64(pixels)
}
