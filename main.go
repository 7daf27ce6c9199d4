package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName string
	scenesDir string
	width     int
	samples   int
	depth     int
	passes    int
	workers   int
	tileSize  int
	seed      int64
	format    string
	output    string
	simple    bool
	list      bool
	help      bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneName, "scene", "materials", "Scene name, or path to a YAML scene file")
	fs.StringVar(&opts.scenesDir, "scenes-dir", "scenes", "Directory searched for YAML scenes by name")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	fs.IntVar(&opts.passes, "passes", 1, "Number of progressive passes")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.tileSize, "tile", 64, "Tile size in pixels")
	fs.Int64Var(&opts.seed, "seed", 42, "Random seed for sampling and generated scenes")
	fs.StringVar(&opts.format, "format", renderer.FormatPPM, "Output format: ppm or png")
	fs.StringVar(&opts.output, "output", "", "Output file, '-' for stdout (default output/<scene>/render_<timestamp>.<format>)")
	fs.BoolVar(&opts.simple, "simple", false, "Render single-threaded row by row with scanline progress (ignores -passes, -workers, -tile)")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// Restore default handling so a second interrupt kills the process
		<-ctx.Done()
		stop()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.help {
		fmt.Fprintln(stdout, "Weekend Raytracer")
		fmt.Fprintln(stdout, "Usage: raytracer [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		fmt.Fprintln(stdout)
		return listScenes(stdout, opts.scenesDir)
	}

	if opts.list {
		return listScenes(stdout, opts.scenesDir)
	}

	// Keep stdout clean when the image goes there
	logger := renderer.NewWriterLogger(stdout)
	if opts.output == "-" {
		logger = renderer.NewWriterLogger(stderr)
	}

	selectedScene, err := createScene(opts.sceneName, opts.scenesDir, opts.seed)
	if err != nil {
		return err
	}
	width, height := applyOverrides(selectedScene, opts)

	logger.Printf("Rendering scene %q at %dx%d, %d samples, depth %d\n",
		selectedScene.Name, width, height, selectedScene.SamplingConfig.SamplesPerPixel, selectedScene.SamplingConfig.MaxDepth)

	startTime := time.Now()
	img, stats, err := renderScene(ctx, selectedScene, width, height, opts, logger)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d), average luminance %.3f\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, renderer.CalculateAverageLuminance(img))

	if opts.output == "-" {
		return renderer.WriteImage(stdout, img, opts.format)
	}

	filename := opts.output
	if filename == "" {
		outputDir := filepath.Join("output", selectedScene.Name)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.%s", timestamp, opts.format))
	}

	if err := renderer.SaveImage(filename, img, opts.format); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// renderScene runs either the single-threaded driver or the progressive tile renderer
func renderScene(ctx context.Context, s *scene.Scene, width, height int, opts *options, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	if opts.simple {
		rt := renderer.NewRaytracer(s, width, height)
		rt.SetSampler(core.NewSeededSampler(opts.seed))
		rt.SetLogger(logger)
		return rt.RenderPass(ctx)
	}

	config := renderer.DefaultProgressiveConfig()
	config.TileSize = opts.tileSize
	config.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxPasses = opts.passes
	config.InitialSamples = min(config.InitialSamples, config.MaxSamplesPerPixel)
	config.NumWorkers = opts.workers
	config.Seed = opts.seed

	pr, err := renderer.NewProgressiveRaytracer(s, width, height, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return pr.Render(ctx)
}

// createScene resolves a built-in name, a YAML path, or a YAML name inside scenesDir
func createScene(name, scenesDir string, seed int64) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}

	info, err := scene.FindScene(name, scenesDir)
	if err != nil {
		return nil, err
	}
	return scene.Load(info, seed)
}

// applyOverrides applies command line settings to the scene and returns the image size
func applyOverrides(s *scene.Scene, opts *options) (width, height int) {
	if opts.samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.samples
	}
	if opts.depth > 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	if opts.width > 0 {
		s.SamplingConfig.Width = opts.width
		s.SamplingConfig.Height = max(1, int(math.Round(float64(opts.width)/s.CameraConfig.AspectRatio)))
	}
	return s.SamplingConfig.Width, s.SamplingConfig.Height
}

func listScenes(w io.Writer, scenesDir string) error {
	groups, err := scene.ListAllScenes(scenesDir, renderer.NewWriterLogger(w))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available scenes:")
	for _, group := range groups {
		fmt.Fprintf(w, "  %s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "    %-20s %s\n", info.ID, info.Description)
		}
	}
	return nil
}
