package renderer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SupportedImageExtensions lists the base image formats LoadImage decodes.
var SupportedImageExtensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}

// LoadImage decodes a still image and flattens it onto opaque black, so any
// transparency becomes dark rather than undefined. The result is anchored at
// the origin. All failures wrap ErrImageLoad.
func LoadImage(filename string) (*image.RGBA, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		ext := strings.ToLower(filepath.Ext(filename))
		return nil, fmt.Errorf("%w: %s (%s): %w", ErrImageLoad, filepath.Base(filename), ext, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: %s image %s has no pixels", ErrImageLoad, format, filepath.Base(filename))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Over)

	return rgba, nil
}
