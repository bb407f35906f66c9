package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/linuxmatters/pulsefire/internal/config"
	"golang.org/x/image/draw"
)

// vignetteMask returns the mask for strength rounded to two decimals,
// building it on first use. The mask is built from the rounded key so the
// result does not depend on which strength arrived first.
func (c *Chain) vignetteMask(strength float64) *image.Gray {
	key := int(math.Round(strength * config.VignetteCacheScale))
	if mask, ok := c.vignettes[key]; ok {
		return mask
	}

	mask := buildVignetteMask(c.width, c.height, float64(key)/config.VignetteCacheScale)
	c.vignettes[key] = mask
	return mask
}

// buildVignetteMask paints concentric ellipses from the outer corner radius
// inwards in 2 pixel steps. The inner half of the radius stays at full
// brightness; beyond it brightness falls off with the 1.5 power of distance.
// Corners outside the largest ellipse take the outermost ring's value.
func buildVignetteMask(width, height int, strength float64) *image.Gray {
	dc := gg.NewContext(width, height)
	dc.SetColor(vignetteShade(1, strength))
	dc.Clear()

	cx, cy := width/2, height/2
	maxRadius := math.Sqrt(float64(cx*cx + cy*cy))

	for i := int(maxRadius); i > 0; i -= 2 {
		ry := i * height / width
		if ry == 0 {
			continue
		}
		dc.SetColor(vignetteShade(float64(i)/maxRadius, strength))
		dc.DrawEllipse(float64(cx), float64(cy), float64(i), float64(ry))
		dc.Fill()
	}

	mask := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(mask, mask.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return mask
}

// vignetteShade is the mask value at ratio = radius / maxRadius.
func vignetteShade(ratio, strength float64) color.Gray {
	alpha := 255.0
	if ratio > 0.5 {
		alpha = 255 * (1 - strength*math.Pow((ratio-0.5)/0.5, 1.5))
	}
	return color.Gray{Y: uint8(clampTo(alpha, 0, 255))}
}
