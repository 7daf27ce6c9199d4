package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed; tile n draws from Seed+n
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 100,
		MaxPasses:          5,
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               42,
	}
}

// Validate rejects configurations that cannot render
func (c ProgressiveConfig) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	case c.MaxSamplesPerPixel <= 0:
		return fmt.Errorf("max samples per pixel must be positive, got %d", c.MaxSamplesPerPixel)
	case c.MaxPasses <= 0:
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	case c.InitialSamples <= 0 || c.InitialSamples > c.MaxSamplesPerPixel:
		return fmt.Errorf("initial samples must be in [1, %d], got %d", c.MaxSamplesPerPixel, c.InitialSamples)
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	workerPool    *WorkerPool    // Worker pool for parallel processing
	logger        core.Logger    // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene *scene.Scene, width, height int, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progressive config: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}
	if logger == nil {
		logger = nopLogger{}
	}

	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)
	tileRenderer := NewTileRenderer(scene, integrator.NewPathTracingIntegrator(scene.SamplingConfig), width, height)

	return &ProgressiveRaytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: newPixelStats(width, height),
		workerPool: NewWorkerPool(tileRenderer, len(tiles), config.NumWorkers),
		logger:     logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing.
// Pixels keep the samples of earlier passes and are topped up to the pass target.
// Cancelling ctx stops every tile at its next pixel and returns ctx.Err().
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Ctx:           ctx,
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Drain every result even after a failure so no worker is left blocked
	var firstErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}
	if firstErr != nil {
		return nil, RenderStats{}, fmt.Errorf("pass %d failed: %w", passNumber, firstErr)
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// Close stops the worker pool. RenderProgressive closes it on its own.
func (pr *ProgressiveRaytracer) Close() {
	pr.workerPool.Stop()
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, vec3ToColor(pr.pixelStats[y][x].GetColor()))
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Duration   time.Duration
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass in the background and streams the results.
// Cancellation is checked between passes and between pixels within a pass. If options.TileUpdates is false the tile
// channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer, drop the update
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				if ctx.Err() != nil {
					pr.logger.Printf("Rendering cancelled during pass %d\n", pass)
				}
				errChan <- err
				return
			}

			passTime := time.Since(startTime)
			pr.logger.Printf("Pass %d completed in %v (%.1f samples/pixel)\n",
				pass, passTime, stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, Duration: passTime, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Render runs every pass and returns the final image
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})

	var last PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, RenderStats{}, err
	}
	return last.Image, last.Stats, nil
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	stats := newRenderStats(pr.width*pr.height, targetSamples)
	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			stats.addPixel(pr.pixelStats[y][x].SampleCount)
		}
	}
	stats.finalize()

	return assembleImage(pr.pixelStats, pr.width, pr.height), stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int                 // Unique tile identifier
	Bounds          image.Rectangle     // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int                 // Number of passes completed for this tile
	Sampler         *core.RandomSampler // Tile-specific random source for deterministic results
}

// NewTile creates a new tile whose sampler is seeded with seed
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image in row-major order
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed+int64(tileID)))
			tileID++
		}
	}

	return tiles
}
