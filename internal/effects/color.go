package effects

import (
	"image"
	"math"
)

// Enhance factors closer to 1 than this change no channel by half a level.
const factorEpsilon = 0.5 / 255

// Hue shifts below this many degrees are skipped
const hueMinShift = 1.0

// luma returns the ITU-R 601 grey level used by the colour enhancers.
func luma(r, g, b uint8) float64 {
	return float64((uint32(r)*19595+uint32(g)*38470+uint32(b)*7471+0x8000)>>16)
}

func toByte(v float64) uint8 {
	return uint8(clampTo(math.Round(v), 0, 255))
}

// applyLUT maps every colour channel through a 256-entry table.
func applyLUT(img *image.RGBA, lut *[256]uint8) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i] = lut[img.Pix[i]]
		out.Pix[i+1] = lut[img.Pix[i+1]]
		out.Pix[i+2] = lut[img.Pix[i+2]]
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// applySaturation blends each pixel away from (factor > 1) or towards
// (factor < 1) its grey level.
func (c *Chain) applySaturation(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Saturation) {
		return img
	}

	factor := c.smooth.saturation.next(c.cfg.Saturation.Lerp(c.drive(Saturation, level)), alphaSaturation)
	if math.Abs(factor-1) < factorEpsilon {
		return img
	}

	out := image.NewRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		grey := luma(r, g, b)
		out.Pix[i] = toByte(grey + factor*(float64(r)-grey))
		out.Pix[i+1] = toByte(grey + factor*(float64(g)-grey))
		out.Pix[i+2] = toByte(grey + factor*(float64(b)-grey))
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// applyContrast scales every channel's distance from the frame's mean grey.
func (c *Chain) applyContrast(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Contrast) {
		return img
	}

	factor := c.smooth.contrast.next(c.cfg.Contrast.Lerp(c.drive(Contrast, level)), alphaContrast)
	if math.Abs(factor-1) < factorEpsilon {
		return img
	}

	var sum float64
	for i := 0; i < len(img.Pix); i += 4 {
		sum += luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
	}
	mean := math.Floor(sum/float64(len(img.Pix)/4) + 0.5)

	var lut [256]uint8
	for v := range lut {
		lut[v] = toByte(mean + factor*(float64(v)-mean))
	}
	return applyLUT(img, &lut)
}

// applyBrightness scales every channel towards black or white.
func (c *Chain) applyBrightness(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Brightness) {
		return img
	}

	factor := c.smooth.brightness.next(c.cfg.Brightness.Lerp(c.drive(Brightness, level)), alphaBrightness)
	if math.Abs(factor-1) < factorEpsilon {
		return img
	}

	var lut [256]uint8
	for v := range lut {
		lut[v] = toByte(float64(v) * factor)
	}
	return applyLUT(img, &lut)
}

// hueMatrix is the luminance-preserving RGB rotation about the grey axis.
func hueMatrix(degrees float64) [9]float64 {
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return [9]float64{
		0.213 + 0.787*cos - 0.213*sin, 0.715 - 0.715*cos - 0.715*sin, 0.072 - 0.072*cos + 0.928*sin,
		0.213 - 0.213*cos + 0.143*sin, 0.715 + 0.285*cos + 0.140*sin, 0.072 - 0.072*cos - 0.283*sin,
		0.213 - 0.213*cos - 0.787*sin, 0.715 - 0.715*cos + 0.715*sin, 0.072 + 0.928*cos + 0.072*sin,
	}
}

// applyHue rotates colours with a single matrix per pixel.
func (c *Chain) applyHue(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Hue) {
		return img
	}

	shift := c.smooth.hue.next(lerp(0, c.cfg.HueMaxShift, c.drive(Hue, level)), alphaHue)
	if math.Abs(shift) < hueMinShift {
		return img
	}

	m := hueMatrix(shift)
	out := image.NewRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b := float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2])
		out.Pix[i] = toByte(m[0]*r + m[1]*g + m[2]*b)
		out.Pix[i+1] = toByte(m[3]*r + m[4]*g + m[5]*b)
		out.Pix[i+2] = toByte(m[6]*r + m[7]*g + m[8]*b)
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}
