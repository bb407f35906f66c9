package effects

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// applyScale zooms in around the centre and crops back to the frame size.
func (c *Chain) applyScale(img *image.RGBA, level float64) *image.RGBA {
	if !c.cfg.Enabled(Scale) {
		return img
	}

	factor := c.smooth.scale.next(c.cfg.Scale.Lerp(c.drive(Scale, level)), alphaScale)
	newW := int(float64(c.width) * factor)
	newH := int(float64(c.height) * factor)
	if newW <= c.width && newH <= c.height {
		return img
	}

	// Same result as resizing to newW×newH and cropping the centre, in one pass
	left := float64((newW - c.width) / 2)
	top := float64((newH - c.height) / 2)
	sx := float64(newW) / float64(c.width)
	sy := float64(newH) / float64(c.height)

	out := image.NewRGBA(img.Bounds())
	s2d := f64.Aff3{
		sx, 0, -left,
		0, sy, -top,
	}
	draw.CatmullRom.Transform(out, s2d, img, img.Bounds(), draw.Src, nil)
	return out
}

// applyShake offsets the frame on a black canvas. The raw offset comes from
// a generator seeded with the frame index, so a frame always shakes the same
// way no matter how it was reached.
func (c *Chain) applyShake(img *image.RGBA, level float64, frameIdx int) *image.RGBA {
	if !c.cfg.Enabled(Shake) {
		return img
	}

	maxOffset := int(c.cfg.ShakeMaxPixels * c.drive(Shake, level))

	var tx, ty float64
	if maxOffset >= 1 {
		rng := rand.New(rand.NewPCG(uint64(frameIdx), 0))
		tx = float64(rng.IntN(2*maxOffset+1) - maxOffset)
		ty = float64(rng.IntN(2*maxOffset+1) - maxOffset)
	}

	dx := int(c.smooth.shakeX.next(tx, alphaShake))
	dy := int(c.smooth.shakeY.next(ty, alphaShake))
	if dx == 0 && dy == 0 {
		return img
	}

	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(out, img.Bounds().Add(image.Pt(dx, dy)), img, img.Bounds().Min, draw.Src)
	return out
}

// Warp wave parameters
const (
	warpSpatialFreq = 0.02 // Radians per pixel
	warpPhaseStep   = 0.1  // Radians per frame
	warpMinStrength = 0.001
)

// applyWarp displaces every pixel along a sine wave of the orthogonal axis.
// Sample coordinates are clamped to the frame, never wrapped.
func (c *Chain) applyWarp(img *image.RGBA, level float64, frameIdx int) *image.RGBA {
	if !c.cfg.Enabled(Warp) {
		return img
	}

	strength := c.smooth.warp.next(c.cfg.WarpStrength*c.drive(Warp, level), alphaWarp)
	if strength < warpMinStrength {
		return img
	}

	w, h := c.width, c.height
	phase := float64(frameIdx) * warpPhaseStep

	// Horizontal displacement depends only on y, vertical only on x
	dx := make([]float64, h)
	for y := range dx {
		dx[y] = math.Sin(float64(y)*warpSpatialFreq+phase) * strength * float64(w)
	}
	dy := make([]float64, w)
	for x := range dy {
		dy[x] = math.Cos(float64(x)*warpSpatialFreq+phase) * strength * float64(h)
	}

	out := image.NewRGBA(img.Bounds())
	for y := 0; y < h; y++ {
		dstRow := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			sx := int(clampTo(float64(x)+dx[y], 0, float64(w-1)))
			sy := int(clampTo(float64(y)+dy[x], 0, float64(h-1)))
			si := sy*img.Stride + sx*4
			copy(dstRow[x*4:x*4+4], img.Pix[si:si+4])
		}
	}
	return out
}
