package effects

import "math"

// Toggle is the per-effect switch: whether it runs and how strongly the
// audio level drives it.
type Toggle struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"`
}

// Range bounds the property an effect modulates. Audio interpolates from
// Min (silence) to Max (full drive).
type Range struct {
	Min float64
	Max float64
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return lerp(r.Min, r.Max, t)
}

// Config describes one render session's effects. It is a plain value:
// copies are independent and a Chain never modifies the Config it was
// given.
type Config struct {
	Effects [NumKinds]Toggle

	Scale          Range   // Zoom factor
	ShakeMaxPixels float64 // Largest camera offset
	GlowRadius     Range   // Gaussian sigma in pixels
	Saturation     Range   // Colour enhance factor, 1 is unchanged
	Contrast       Range   // Contrast enhance factor, 1 is unchanged
	Brightness     Range   // Brightness enhance factor, 1 is unchanged
	HueMaxShift    float64 // Degrees
	Vignette       Range   // Edge darkening strength in [0, 1]
	ChromaticShift float64 // Largest red/blue channel offset in pixels
	BlurMaxRadius  float64 // Box blur radius in pixels
	WarpStrength   float64 // Displacement as a fraction of frame size
}

// DefaultConfig returns the baseline used when no preset is chosen.
func DefaultConfig() Config {
	c := Config{
		Scale:          Range{1.0, 1.08},
		ShakeMaxPixels: 15,
		GlowRadius:     Range{0, 8},
		Saturation:     Range{0.9, 1.4},
		Contrast:       Range{0.95, 1.2},
		Brightness:     Range{0.95, 1.15},
		HueMaxShift:    15,
		Vignette:       Range{0, 0.4},
		ChromaticShift: 8,
		BlurMaxRadius:  3,
		WarpStrength:   0.02,
	}
	c.Effects[Scale] = Toggle{true, 0.5}
	c.Effects[Shake] = Toggle{true, 0.4}
	c.Effects[Glow] = Toggle{true, 0.5}
	c.Effects[Saturation] = Toggle{true, 0.5}
	c.Effects[Contrast] = Toggle{true, 0.4}
	c.Effects[Brightness] = Toggle{true, 0.3}
	c.Effects[Hue] = Toggle{false, 0.3}
	c.Effects[Vignette] = Toggle{true, 0.5}
	c.Effects[Chromatic] = Toggle{true, 0.4}
	c.Effects[Blur] = Toggle{false, 0.3}
	c.Effects[Warp] = Toggle{false, 0.3}
	return c
}

// Enabled reports whether effect k runs.
func (c Config) Enabled(k Kind) bool {
	return c.Effects[k].Enabled
}

// Intensity returns the drive multiplier of effect k.
func (c Config) Intensity(k Kind) float64 {
	return c.Effects[k].Intensity
}

// Limits applied by Clamped. Values outside them are pulled in, never
// rejected: effects degrade gracefully at the extremes.
var (
	scaleLimits    = Range{1, 2}
	factorLimits   = Range{0, 3}
	vignetteLimits = Range{0, 1}
	glowLimits     = Range{0, 64}
	shakeLimit     = 200.0
	hueLimit       = 180.0
	chromaticLimit = 64.0
	blurLimit      = 32.0
	warpLimit      = 0.2
)

// Clamped returns a copy with every numeric field inside its usable range.
// Intensities go to [0, 1], inverted ranges are swapped and NaN becomes the
// lower limit.
func (c Config) Clamped() Config {
	for i := range c.Effects {
		c.Effects[i].Intensity = clampTo(c.Effects[i].Intensity, 0, 1)
	}
	c.Scale = c.Scale.clamp(scaleLimits)
	c.GlowRadius = c.GlowRadius.clamp(glowLimits)
	c.Saturation = c.Saturation.clamp(factorLimits)
	c.Contrast = c.Contrast.clamp(factorLimits)
	c.Brightness = c.Brightness.clamp(factorLimits)
	c.Vignette = c.Vignette.clamp(vignetteLimits)
	c.ShakeMaxPixels = clampTo(c.ShakeMaxPixels, 0, shakeLimit)
	c.HueMaxShift = clampTo(c.HueMaxShift, -hueLimit, hueLimit)
	c.ChromaticShift = clampTo(c.ChromaticShift, 0, chromaticLimit)
	c.BlurMaxRadius = clampTo(c.BlurMaxRadius, 0, blurLimit)
	c.WarpStrength = clampTo(c.WarpStrength, 0, warpLimit)
	return c
}

func (r Range) clamp(limits Range) Range {
	r.Min = clampTo(r.Min, limits.Min, limits.Max)
	r.Max = clampTo(r.Max, limits.Min, limits.Max)
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

func clampTo(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	return clampTo(v, 0, 1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
