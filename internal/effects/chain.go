package effects

import (
	"errors"
	"image"
	"math"

	"github.com/linuxmatters/pulsefire/internal/config"
	"golang.org/x/image/draw"
)

// ErrInvalidImage is returned when the base image is missing or empty.
var ErrInvalidImage = errors.New("base image is empty")

// Chain renders audio-reactive frames from one base image. It carries
// smoothing state between calls, so frames must be rendered in order, and it
// must not be shared between goroutines. Run independent sessions on
// independent chains.
type Chain struct {
	base   *image.RGBA
	cfg    Config
	width  int
	height int

	smooth    smoothing
	vignettes map[int]*image.Gray
}

// NewChain copies the base image into an opaque RGBA buffer anchored at the
// origin and clamps cfg.
func NewChain(base image.Image, cfg Config) (*Chain, error) {
	if base == nil || base.Bounds().Empty() {
		return nil, ErrInvalidImage
	}

	b := base.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), base, b.Min, draw.Src)
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 0xff
	}

	return &Chain{
		base:      rgba,
		cfg:       cfg.Clamped(),
		width:     b.Dx(),
		height:    b.Dy(),
		vignettes: make(map[int]*image.Gray),
	}, nil
}

// Config returns the clamped configuration the chain renders with.
func (c *Chain) Config() Config {
	return c.cfg
}

// Bounds returns the size every rendered frame has.
func (c *Chain) Bounds() image.Rectangle {
	return c.base.Bounds()
}

// State returns a copy of the current smoothing values.
func (c *Chain) State() State {
	return c.smooth.state()
}

// CachedMasks reports how many vignette masks have been built.
func (c *Chain) CachedMasks() int {
	return len(c.vignettes)
}

// Render produces the frame for frameIdx. Levels are clamped to [0, 1].
// Geometric and post effects follow the impact level, colour effects follow
// the overall level, except brightness which punches with impact. The
// returned image is newly allocated and owned by the caller.
func (c *Chain) Render(overall, bass float64, frameIdx int) *image.RGBA {
	overall = clamp01(overall)
	bass = clamp01(bass)
	impact := math.Min(1, math.Max(overall, bass*config.BassPunch))

	img := c.base

	img = c.applyScale(img, impact)
	img = c.applyShake(img, impact, frameIdx)
	img = c.applyWarp(img, impact, frameIdx)

	img = c.applySaturation(img, overall)
	img = c.applyContrast(img, overall)
	img = c.applyBrightness(img, impact)
	img = c.applyHue(img, overall)

	img = c.applyGlow(img, impact)
	img = c.applyChromatic(img, impact)
	img = c.applyMotionBlur(img, impact)
	img = c.applyVignette(img, overall)

	if img == c.base {
		img = cloneRGBA(c.base)
	}
	return img
}

// drive is the interpolation factor for an effect at the given level.
func (c *Chain) drive(k Kind, level float64) float64 {
	return clamp01(level * c.cfg.Effects[k].Intensity)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
