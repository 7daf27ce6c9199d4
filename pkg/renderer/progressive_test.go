package renderer

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = 50
	config.MaxPasses = 7

	pr := &ProgressiveRaytracer{
		config: config,
	}

	// Pass 2-6: (50-1)/6 = 8 samples per pass; pass 7 gets all remaining
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}

	for pass := 1; pass <= 7; pass++ {
		totalSamples := pr.getSamplesForPass(pass)

		if totalSamples != expectedTotalSamples[pass-1] {
			t.Errorf("Pass %d: expected %d total samples, got %d",
				pass, expectedTotalSamples[pass-1], totalSamples)
		}
	}

	pr.config.MaxPasses = 1
	if got := pr.getSamplesForPass(1); got != 50 {
		t.Errorf("Single pass should use all samples, got %d", got)
	}
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}
	if config.InitialSamples != 1 {
		t.Errorf("Expected default initial samples 1, got %d", config.InitialSamples)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	invalid := []ProgressiveConfig{
		{TileSize: 0, InitialSamples: 1, MaxSamplesPerPixel: 10, MaxPasses: 2},
		{TileSize: 8, InitialSamples: 0, MaxSamplesPerPixel: 10, MaxPasses: 2},
		{TileSize: 8, InitialSamples: 20, MaxSamplesPerPixel: 10, MaxPasses: 2},
		{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 10, MaxPasses: 0},
	}
	for i, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("Config %d should be rejected: %+v", i, c)
		}
	}
}

func TestNewTileGrid(t *testing.T) {
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize, 42)

	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Errorf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestTileDeterministicRandom(t *testing.T) {
	bounds := image.Rect(0, 0, 64, 64)
	tile1 := NewTile(3, bounds, 42)
	tile2 := NewTile(3, bounds, 42)

	val1 := tile1.Sampler.Get1D()
	val2 := tile2.Sampler.Get1D()
	if val1 != val2 {
		t.Errorf("Tiles with same seed should produce same random values: %f != %f", val1, val2)
	}

	tile3 := NewTile(4, bounds, 43)
	if val1 == tile3.Sampler.Get1D() {
		t.Error("Tiles with different seeds should produce different random values")
	}
}

func renderProgressive(t *testing.T, config ProgressiveConfig) (*image.RGBA, RenderStats) {
	t.Helper()
	pr, err := NewProgressiveRaytracer(newTestScene(24, 16), 24, 16, config, nil)
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer: %v", err)
	}
	img, stats, err := pr.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return img, stats
}

func TestProgressiveRender_ReachesMaxSamples(t *testing.T) {
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 6, MaxPasses: 3, NumWorkers: 2, Seed: 7}
	img, stats := renderProgressive(t, config)

	if img.Bounds() != image.Rect(0, 0, 24, 16) {
		t.Errorf("Unexpected image bounds %v", img.Bounds())
	}
	if stats.TotalPixels != 24*16 {
		t.Errorf("Expected %d pixels, got %d", 24*16, stats.TotalPixels)
	}
	if stats.MinSamples != 6 || stats.MaxSamplesUsed != 6 || stats.AverageSamples != 6 {
		t.Errorf("Every pixel should hold 6 samples, got %+v", stats)
	}
}

func TestProgressiveRender_IndependentOfWorkerCount(t *testing.T) {
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 2, NumWorkers: 1, Seed: 11}
	single, _ := renderProgressive(t, config)

	config.NumWorkers = 4
	parallel, _ := renderProgressive(t, config)

	for i := range single.Pix {
		if single.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Images differ at byte %d: %d vs %d", i, single.Pix[i], parallel.Pix[i])
		}
	}
}

func TestProgressiveRender_PassEventsAndTiles(t *testing.T) {
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 3, MaxPasses: 3, NumWorkers: 2, Seed: 1}
	pr, err := NewProgressiveRaytracer(newTestScene(16, 16), 16, 16, config, nil)
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer: %v", err)
	}

	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true})

	tileCount := make(chan int)
	go func() {
		n := 0
		for tile := range tileChan {
			if tile.TileImage.Bounds().Dx() != 8 || tile.TotalTiles != 4 {
				t.Errorf("Unexpected tile event %+v", tile)
			}
			n++
		}
		tileCount <- n
	}()

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	for i, p := range passes {
		if p.PassNumber != i+1 {
			t.Errorf("Pass %d reported number %d", i+1, p.PassNumber)
		}
		if p.Stats.MinSamples != i+1 {
			t.Errorf("Pass %d: expected %d samples per pixel, got %d", i+1, i+1, p.Stats.MinSamples)
		}
		if p.IsLast != (i == 2) {
			t.Errorf("Pass %d: IsLast = %t", i+1, p.IsLast)
		}
	}

	if n := <-tileCount; n == 0 || n > 12 {
		t.Errorf("Expected between 1 and 12 tile events, got %d", n)
	}
}

func TestProgressiveRender_Cancelled(t *testing.T) {
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 2, MaxPasses: 2, Seed: 1}
	pr, err := NewProgressiveRaytracer(newTestScene(8, 8), 8, 8, config, nil)
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := pr.Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProgressiveRender_CancelledMidPass(t *testing.T) {
	// A single pass on one worker with far more samples than the deadline allows
	config := ProgressiveConfig{TileSize: 64, InitialSamples: 1, MaxSamplesPerPixel: 2000, MaxPasses: 1, NumWorkers: 1, Seed: 1}
	pr, err := NewProgressiveRaytracer(newTestScene(120, 68), 120, 68, config, nil)
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	img, _, err := pr.Render(ctx)
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if img != nil {
		t.Error("A cancelled render should not return an image")
	}
	if elapsed > 2*time.Second {
		t.Errorf("Render took %v to stop after cancellation", elapsed)
	}
}

func TestNewProgressiveRaytracer_RejectsBadSize(t *testing.T) {
	if _, err := NewProgressiveRaytracer(newTestScene(8, 8), 0, 8, DefaultProgressiveConfig(), nil); err == nil {
		t.Error("Expected error for zero width")
	}
}
