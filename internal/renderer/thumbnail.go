package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/pulsefire/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// GenerateThumbnail writes a poster PNG of frame. When title is non-empty it
// is set in two lines across the top half, tilted slightly clockwise.
func GenerateThumbnail(outputPath string, frame *image.RGBA, title string, textColour color.RGBA) error {
	if frame == nil || frame.Bounds().Empty() {
		return fmt.Errorf("%w: empty poster frame", ErrFrameInvariant)
	}

	poster := image.NewRGBA(frame.Bounds())
	draw.Draw(poster, poster.Bounds(), frame, frame.Bounds().Min, draw.Src)

	if strings.TrimSpace(title) != "" {
		parsedFont, err := truetype.Parse(gobold.TTF)
		if err != nil {
			return fmt.Errorf("failed to parse font: %w", err)
		}

		line1, line2 := splitTitle(title)
		size := findOptimalFontSize(parsedFont, poster.Bounds(), line1, line2)
		face := truetype.NewFace(parsedFont, &truetype.Options{Size: size, DPI: 72})
		defer face.Close()

		drawTitle(poster, face, textColour, line1, line2)
	}

	if err := savePNG(poster, outputPath); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

// splitTitle splits the title into 2 roughly equal lines
func splitTitle(title string) (string, string) {
	words := strings.Fields(title)
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return words[0], ""
	}

	mid := len(words) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}

// findOptimalFontSize finds the largest size at which both lines fit inside
// the side margins and line 2 ends above the vertical centre.
func findOptimalFontSize(parsedFont *truetype.Font, bounds image.Rectangle, line1, line2 string) float64 {
	maxWidth := bounds.Dx() - 2*config.ThumbnailMargin
	centerY := bounds.Dy() / 2

	for size := config.ThumbnailFontSize * 2; size > 10.0; size -= 2.0 {
		face := truetype.NewFace(parsedFont, &truetype.Options{Size: size, DPI: 72})
		width1, bounds1 := measureText(face, line1)
		width2, bounds2 := measureText(face, line2)
		face.Close()

		if width1 > maxWidth || width2 > maxWidth {
			continue
		}

		height := lineHeight(bounds1) + int(size*0.5) + lineHeight(bounds2)
		if config.ThumbnailMargin+height <= centerY {
			return size
		}
	}

	return 10.0
}

// measureText returns the width and glyph bounds of text. Min.Y is the
// (negative) ascent, Max.Y the descent.
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), bounds
}

func lineHeight(b fixed.Rectangle26_6) int {
	return (b.Max.Y - b.Min.Y).Ceil()
}

// drawTitle renders both lines onto a square scratch image, rotates it about
// its centre and composites it so the highest rotated point sits on the top
// margin.
func drawTitle(img *image.RGBA, face font.Face, colour color.RGBA, line1, line2 string) {
	width1, bounds1 := measureText(face, line1)
	width2, bounds2 := measureText(face, line2)

	spacing := int(float64(face.Metrics().Height) / 64.0 * 0.5)
	height1, height2 := lineHeight(bounds1), lineHeight(bounds2)
	total := height1 + spacing + height2

	// Oversized so rotation never clips
	tempSize := int(float64(max(width1, width2)+total) * 1.5)
	temp := image.NewRGBA(image.Rect(0, 0, tempSize, tempSize))

	top1 := tempSize/2 - total/2
	top2 := top1 + height1 + spacing
	drawCentredLine(temp, face, colour, line1, top1-bounds1.Min.Y.Ceil())
	drawCentredLine(temp, face, colour, line2, top2-bounds2.Min.Y.Ceil())

	angle := -config.ThumbnailTextRotationDegrees * math.Pi / 180.0
	cos, sin := math.Cos(angle), math.Sin(angle)
	c := float64(tempSize) / 2.0

	rotated := image.NewRGBA(temp.Bounds())
	m := f64.Aff3{
		cos, -sin, c - cos*c + sin*c,
		sin, cos, c - sin*c - cos*c,
	}
	draw.BiLinear.Transform(rotated, m, temp, temp.Bounds(), draw.Over, nil)

	// The top-right corner of line 1 is the highest point after a clockwise turn
	rx := float64(width1) / 2.0
	ry := float64(top1) - c
	highest := sin*rx + cos*ry + c

	destX := (img.Bounds().Dx() - tempSize) / 2
	destY := int(float64(config.ThumbnailMargin) - highest)
	draw.Draw(img, image.Rect(destX, destY, destX+tempSize, destY+tempSize), rotated, image.Point{}, draw.Over)
}

func drawCentredLine(img *image.RGBA, face font.Face, colour color.RGBA, text string, baselineY int) {
	if text == "" {
		return
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colour),
		Face: face,
	}
	width, _ := measureText(face, text)
	d.Dot = freetype.Pt((img.Bounds().Dx()-width)/2, baselineY)
	d.DrawString(text)
}

func savePNG(img image.Image, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(outputPath)
		return err
	}
	return f.Close()
}
