package renderer

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
)

// Output formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown image format")

// WritePPM writes img as a plain-text P3 PPM, one "r g b" line per pixel from the top-left
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8); err != nil {
				return fmt.Errorf("failed to write PPM pixel: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}

// WritePNG writes img as a PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriteImage writes img in the named format
func WriteImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		return WritePNG(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SaveImage writes img to path in the named format
func SaveImage(path string, img image.Image, format string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	return WriteImage(file, img, format)
}
