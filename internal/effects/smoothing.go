package effects

// Smoothing factors per property. Higher follows the target faster.
const (
	alphaScale      = 0.4
	alphaShake      = 0.5
	alphaWarp       = 0.4
	alphaSaturation = 0.35
	alphaContrast   = 0.35
	alphaBrightness = 0.35
	alphaHue        = 0.3
	alphaGlow       = 0.4
	alphaChromatic  = 0.4
	alphaBlur       = 0.5
	alphaVignette   = 0.3
)

// slot holds the last emitted value of one smoothed property. The first
// target it sees is taken as-is.
type slot struct {
	value  float64
	primed bool
}

func (s *slot) next(target, alpha float64) float64 {
	if !s.primed {
		s.value, s.primed = target, true
		return target
	}
	s.value = lerp(s.value, target, alpha)
	return s.value
}

// smoothing has exactly one slot per smoothed property.
type smoothing struct {
	scale, shakeX, shakeY, warp           slot
	saturation, contrast, brightness, hue slot
	glow, chromatic, blur, vignette       slot
}

// State is a snapshot of the smoothed values a chain last emitted. Fields
// of effects that have not run yet are zero.
type State struct {
	Scale      float64
	ShakeX     float64
	ShakeY     float64
	Warp       float64
	Saturation float64
	Contrast   float64
	Brightness float64
	Hue        float64
	Glow       float64
	Chromatic  float64
	Blur       float64
	Vignette   float64
}

func (s *smoothing) state() State {
	return State{
		Scale:      s.scale.value,
		ShakeX:     s.shakeX.value,
		ShakeY:     s.shakeY.value,
		Warp:       s.warp.value,
		Saturation: s.saturation.value,
		Contrast:   s.contrast.value,
		Brightness: s.brightness.value,
		Hue:        s.hue.value,
		Glow:       s.glow.value,
		Chromatic:  s.chromatic.value,
		Blur:       s.blur.value,
		Vignette:   s.vignette.value,
	}
}
