// bench-effects is a standalone benchmark for the effect chain.
// Designed to be called by hyperfine for statistical analysis.
//
// Usage:
//
//	bench-effects [--frames N] [--preset NAME] [--size WxH]
package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/linuxmatters/pulsefire/internal/effects"
)

// testPattern builds a colourful gradient so colour effects have work to do.
func testPattern(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 255 / width)
			img.Pix[i+1] = uint8(y * 255 / height)
			img.Pix[i+2] = uint8((x + y) % 256)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// levels synthesises a 120 bpm kick pattern at 30 fps.
func levels(frame int) (overall, bass float64) {
	phase := float64(frame%15) / 15
	bass = math.Exp(-6 * phase)
	overall = 0.4 + 0.4*math.Abs(math.Sin(float64(frame)*0.13))
	return overall, bass
}

func main() {
	frames := flag.Int("frames", 300, "number of frames to render")
	preset := flag.String("preset", "energetic", "effect preset")
	size := flag.String("size", "1280x720", "frame size as WxH")
	verbose := flag.Bool("v", false, "print timing")
	flag.Parse()

	var width, height int
	if _, err := fmt.Sscanf(*size, "%dx%d", &width, &height); err != nil || width <= 0 || height <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid size: %s (use WxH)\n", *size)
		os.Exit(1)
	}

	chain, err := effects.NewChain(testPattern(width, height), effects.FromPreset(*preset))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build chain: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	for i := 0; i < *frames; i++ {
		overall, bass := levels(i)
		chain.Render(overall, bass, i)
	}
	elapsed := time.Since(start)

	if *verbose {
		fmt.Printf("%s %dx%d: %d frames in %v (%.2f ms/frame, %d vignette masks)\n",
			effects.ParsePreset(*preset), width, height, *frames, elapsed,
			float64(elapsed.Microseconds())/1000/float64(max(*frames, 1)),
			chain.CachedMasks())
	}
}
