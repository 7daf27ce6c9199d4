package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"basic scene", "basic", false},
		{"materials scene", "materials", false},
		{"cover scene", "cover", false},

		// YAML scenes (by name)
		{"three-spheres YAML", "three-spheres", false},
		{"glass-bubble YAML", "glass-bubble", false},

		// YAML scenes (by path)
		{"direct YAML path", "scenes/three-spheres.yaml", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid YAML path", "scenes/nonexistent.yaml", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType, "scenes", 42)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if !errors.Is(err, scene.ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene, got %v", err)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.SamplingConfig.Width <= 0 || s.SamplingConfig.Height <= 0 {
				t.Errorf("Scene size should be positive, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
			}
			if s.SamplingConfig.SamplesPerPixel <= 0 || s.SamplingConfig.MaxDepth <= 0 {
				t.Errorf("Scene sampling should be positive, got %+v", s.SamplingConfig)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Scene should contain objects")
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	s := scene.NewBasicScene()
	width, height := applyOverrides(s, &options{width: 160, samples: 3, depth: 7})

	if width != 160 || height != 90 {
		t.Errorf("Expected 160x90, got %dx%d", width, height)
	}
	if s.SamplingConfig.SamplesPerPixel != 3 || s.SamplingConfig.MaxDepth != 7 {
		t.Errorf("Overrides not applied: %+v", s.SamplingConfig)
	}
}

func TestRun_PPMToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"-scene", "basic", "-width", "16", "-samples", "2", "-depth", "4", "-output", "-"}

	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3+16*9 {
		t.Fatalf("Expected %d lines, got %d", 3+16*9, len(lines))
	}
	if lines[0] != "P3" || lines[1] != "16 9" || lines[2] != "255" {
		t.Errorf("Unexpected header %q", lines[:3])
	}
	if !strings.Contains(stderr.String(), "Render completed") {
		t.Errorf("Progress should go to stderr, got %q", stderr.String())
	}
}

func TestRun_PNGToFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "render.png")
	args := []string{"-scene", "materials", "-width", "20", "-samples", "2", "-passes", "2", "-format", "png", "-output", path}

	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Output is not a PNG")
	}
	if !strings.Contains(stdout.String(), "Render saved as") {
		t.Errorf("Expected save message, got %q", stdout.String())
	}
}

func TestRun_Simple(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"-simple", "-scene", "basic", "-width", "16", "-samples", "2", "-depth", "4", "-output", "-"}

	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.HasPrefix(stdout.String(), "P3\n16 9\n255\n") {
		t.Errorf("Unexpected header %q", stdout.String()[:min(20, stdout.Len())])
	}
	for _, want := range []string{"Scanlines remaining: 9", "Done.", "Render completed"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("Expected %q in progress output, got %q", want, stderr.String())
		}
	}
}

func TestRun_InterruptStopsRender(t *testing.T) {
	for _, mode := range []string{"-passes=1", "-simple"} {
		t.Run(mode, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := []string{mode, "-scene", "cover", "-width", "120", "-samples", "400", "-workers", "1", "-output", "-"}

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(100 * time.Millisecond)
				cancel()
			}()

			start := time.Now()
			err := run(ctx, args, &stdout, &stderr)
			elapsed := time.Since(start)

			if !errors.Is(err, context.Canceled) {
				t.Fatalf("Expected context.Canceled, got %v", err)
			}
			if stdout.Len() != 0 {
				t.Error("No image should be written after an interrupt")
			}
			if elapsed > 3*time.Second {
				t.Errorf("run took %v to stop after the interrupt", elapsed)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"-scene", "nonexistent"}},
		{"bad flag", []string{"-bogus"}},
		{"unknown format", []string{"-scene", "basic", "-width", "4", "-samples", "1", "-format", "tiff", "-output", "-"}},
		{"zero passes", []string{"-scene", "basic", "-width", "4", "-passes", "0", "-output", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), tt.args, &stdout, &stderr); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRun_List(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-list"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{"Built-in Scenes", "materials", "cover", "three-spheres"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("Listing should mention %q, got:\n%s", want, stdout.String())
		}
	}
}
