package effects

import (
	"image"
	"math"

	"github.com/disintegration/gift"
	"github.com/linuxmatters/pulsefire/internal/config"
)

// Glow blend grows with drive up to the cap
const glowBlendPerDrive = 0.3

// applyGlow mixes a Gaussian-blurred copy back into the frame.
func (c *Chain) applyGlow(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Glow) {
		return img
	}

	drive := c.drive(Glow, level)
	target := math.Trunc(c.cfg.GlowRadius.Lerp(drive))
	radius := int(c.smooth.glow.next(target, alphaGlow))
	if radius < 1 {
		return img
	}

	blend := math.Min(glowBlendPerDrive*drive, config.GlowBlendCap)
	if blend*255 < 0.5 {
		return img
	}

	blurred := filter(img, gift.GaussianBlur(float32(radius)))

	out := image.NewRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		for ch := 0; ch < 3; ch++ {
			a, b := float64(img.Pix[i+ch]), float64(blurred.Pix[i+ch])
			out.Pix[i+ch] = toByte(a + blend*(b-a))
		}
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// applyChromatic pushes the red channel right and the blue channel left,
// filling the uncovered edge with zero.
func (c *Chain) applyChromatic(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Chromatic) {
		return img
	}

	target := math.Trunc(lerp(0, c.cfg.ChromaticShift, c.drive(Chromatic, level)))
	offset := int(c.smooth.chromatic.next(target, alphaChromatic))
	if offset < 1 {
		return img
	}

	w := c.width
	out := image.NewRGBA(img.Bounds())
	for y := 0; y < c.height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			if sx := x - offset; sx >= 0 {
				dst[x*4] = src[sx*4]
			}
			dst[x*4+1] = src[x*4+1]
			if sx := x + offset; sx < w {
				dst[x*4+2] = src[sx*4+2]
			}
			dst[x*4+3] = src[x*4+3]
		}
	}
	return out
}

// applyMotionBlur box-blurs the frame on strong beats only. Below the
// threshold the smoothed radius still decays so the next beat starts clean.
func (c *Chain) applyMotionBlur(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Blur) {
		return img
	}

	threshold := config.MotionBlurThreshold
	if level < threshold {
		c.smooth.blur.next(0, alphaBlur)
		return img
	}

	drive := clamp01((level - threshold) / (1 - threshold) * c.cfg.Intensity(Blur))
	target := math.Trunc(lerp(0, c.cfg.BlurMaxRadius, drive))
	radius := int(c.smooth.blur.next(target, alphaBlur))
	if radius < 1 {
		return img
	}

	// A box blur of radius r is a square mean over (2r+1)² pixels
	return filter(img, gift.Mean(2*radius+1, false))
}

// applyVignette darkens the edges. Loud passages shrink the vignette, so
// drive is inverted.
func (c *Chain) applyVignette(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Vignette) {
		return img
	}

	drive := clamp01((1 - level) * c.cfg.Intensity(Vignette))
	strength := c.smooth.vignette.next(c.cfg.Vignette.Lerp(drive), alphaVignette)
	if strength < config.VignetteMinStrength {
		return img
	}

	mask := c.vignetteMask(strength)

	out := image.NewRGBA(img.Bounds())
	for y := 0; y < c.height; y++ {
		m := mask.Pix[y*mask.Stride : y*mask.Stride+c.width]
		src := img.Pix[y*img.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x, a := range m {
			i := x * 4
			dst[i] = uint8((uint32(src[i])*uint32(a) + 127) / 255)
			dst[i+1] = uint8((uint32(src[i+1])*uint32(a) + 127) / 255)
			dst[i+2] = uint8((uint32(src[i+2])*uint32(a) + 127) / 255)
			dst[i+3] = src[i+3]
		}
	}
	return out
}

// filter runs a gift filter into a new RGBA image of the same bounds.
func filter(img *image.RGBA, f gift.Filter) *image.RGBA {
	g := gift.New(f)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
