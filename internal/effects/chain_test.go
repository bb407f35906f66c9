package effects

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"
)

const (
	testW = 64
	testH = 36
)

// testImage is a colourful gradient with a checker overlay, so every
// transform has edges and saturation to act on.
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, testW, testH))
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			b := uint8(40)
			if (x/4+y/4)%2 == 0 {
				b = 220
			}
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / testW), G: uint8(y * 255 / testH), B: b, A: 255})
		}
	}
	return img
}

// only returns a config with a single effect enabled at full intensity.
func only(k Kind) Config {
	cfg := DefaultConfig()
	for i := range cfg.Effects {
		cfg.Effects[i] = Toggle{false, 0}
	}
	cfg.Effects[k] = Toggle{true, 1}
	return cfg
}

func allDisabled() Config {
	cfg := DefaultConfig()
	for i := range cfg.Effects {
		cfg.Effects[i].Enabled = false
	}
	return cfg
}

func newChain(t *testing.T, cfg Config) *Chain {
	t.Helper()
	c, err := NewChain(testImage(), cfg)
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}
	return c
}

func TestNewChain_RejectsEmptyImage(t *testing.T) {
	if _, err := NewChain(nil, DefaultConfig()); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("nil image: err = %v, want ErrInvalidImage", err)
	}
	if _, err := NewChain(image.NewRGBA(image.Rect(0, 0, 0, 10)), DefaultConfig()); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("zero width: err = %v, want ErrInvalidImage", err)
	}
}

func TestNewChain_NormalisesOffsetBounds(t *testing.T) {
	src := testImage()
	sub := src.SubImage(image.Rect(10, 5, 42, 25))

	c, err := NewChain(sub, allDisabled())
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}

	frame := c.Render(0.5, 0.5, 0)
	if frame.Bounds() != image.Rect(0, 0, 32, 20) {
		t.Errorf("bounds = %v, want (0,0)-(32,20)", frame.Bounds())
	}
	if frame.RGBAAt(0, 0) != src.RGBAAt(10, 5) {
		t.Errorf("origin pixel = %v, want %v", frame.RGBAAt(0, 0), src.RGBAAt(10, 5))
	}
}

func TestRender_AlwaysBaseResolution(t *testing.T) {
	c := newChain(t, FromPreset("psychedelic"))
	levels := []float64{0, 0.3, 1, 1.7, -2, math.NaN(), math.Inf(1)}

	for i, overall := range levels {
		for j, bass := range levels {
			frame := c.Render(overall, bass, i*len(levels)+j)
			if frame.Bounds() != c.Bounds() {
				t.Fatalf("overall=%v bass=%v: bounds %v, want %v", overall, bass, frame.Bounds(), c.Bounds())
			}
		}
	}
}

func TestRender_DeterministicAcrossFreshChains(t *testing.T) {
	run := func() [][]byte {
		c := newChain(t, FromPreset("aggressive"))
		var frames [][]byte
		for i := 0; i < 24; i++ {
			overall := 0.5 + 0.5*math.Sin(float64(i)*0.7)
			bass := math.Abs(math.Cos(float64(i) * 0.3))
			frames = append(frames, c.Render(overall, bass, i).Pix)
		}
		return frames
	}

	first, second := run(), run()
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Errorf("frame %d differs between runs", i)
		}
	}
}

func TestRender_AllDisabledIsIdentity(t *testing.T) {
	c := newChain(t, allDisabled())
	base := testImage()

	for i := 0; i < 10; i++ {
		if frame := c.Render(float64(i)/9, 1-float64(i)/9, i); !bytes.Equal(base.Pix, frame.Pix) {
			t.Errorf("frame %d differs from the base image", i)
		}
	}
}

// TestRender_DisabledEffectIsNoop checks each effect in isolation: enabled
// on its own it changes the picture at a driving level where it is active,
// and the same config with the flag cleared returns the base image.
func TestRender_DisabledEffectIsNoop(t *testing.T) {
	base := testImage()

	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			// Vignette is driven by quiet passages, everything else by loud ones
			level := 1.0
			if k == Vignette {
				level = 0
			}

			on := newChain(t, only(k))
			changed := false
			for i := 0; i < 8 && !changed; i++ {
				changed = !bytes.Equal(base.Pix, on.Render(level, level, i).Pix)
			}
			if !changed {
				t.Errorf("%s never changed the image", k)
			}

			cfg := only(k)
			cfg.Effects[k].Enabled = false
			off := newChain(t, cfg)
			for i := 0; i < 8; i++ {
				if !bytes.Equal(base.Pix, off.Render(level, level, i).Pix) {
					t.Errorf("%s disabled changed frame %d", k, i)
				}
			}
		})
	}
}

// TestRender_SilenceHoldsMinimums renders two seconds of silence at 30fps.
// Every audio-driven property must sit at its silent value and the inverted
// vignette at the top of its range.
func TestRender_SilenceHoldsMinimums(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Effects[Vignette] = Toggle{true, 1}
	cfg.Effects[Hue].Enabled = true
	cfg.Effects[Blur].Enabled = true
	cfg.Effects[Warp].Enabled = true
	c := newChain(t, cfg)

	want := State{
		Scale:      cfg.Scale.Min,
		Saturation: cfg.Saturation.Min,
		Contrast:   cfg.Contrast.Min,
		Brightness: cfg.Brightness.Min,
		Glow:       cfg.GlowRadius.Min,
		Vignette:   cfg.Vignette.Max,
	}

	for i := 0; i < 60; i++ {
		frame := c.Render(0, 0, i)
		if frame.Bounds() != c.Bounds() {
			t.Fatalf("frame %d bounds = %v", i, frame.Bounds())
		}
		if s := c.State(); s != want {
			t.Fatalf("frame %d state = %+v, want %+v", i, s, want)
		}
	}
	if c.CachedMasks() != 1 {
		t.Errorf("CachedMasks() = %d, want 1", c.CachedMasks())
	}
}

func TestRender_AggressiveAtFullLevels(t *testing.T) {
	cfg := FromPreset("aggressive")
	c := newChain(t, cfg)

	frame := c.Render(1.0, 1.0, 0)
	if frame.Bounds() != c.Bounds() {
		t.Errorf("bounds = %v, want %v", frame.Bounds(), c.Bounds())
	}
	if bytes.Equal(testImage().Pix, frame.Pix) {
		t.Error("full levels left the image unchanged")
	}

	// A fresh chain takes its first target directly: full drive times the
	// preset's scale intensity
	if got, want := c.State().Scale, cfg.Scale.Lerp(cfg.Intensity(Scale)); math.Abs(got-want) > 1e-12 {
		t.Errorf("scale = %v, want %v", got, want)
	}

	// At full intensity the zoom reaches the top of the range
	cfg.Effects[Scale].Intensity = 1
	full := newChain(t, cfg)
	full.Render(1.0, 1.0, 0)
	if got := full.State().Scale; math.Abs(got-cfg.Scale.Max) > 1e-12 {
		t.Errorf("full-intensity scale = %v, want %v", got, cfg.Scale.Max)
	}
}

func TestRender_SmoothingFollowsAlpha(t *testing.T) {
	cfg := only(Scale)
	c := newChain(t, cfg)

	c.Render(0, 0, 0)
	if got := c.State().Scale; got != cfg.Scale.Min {
		t.Errorf("first frame scale = %v, want %v", got, cfg.Scale.Min)
	}

	c.Render(1, 1, 1)
	want := lerp(cfg.Scale.Min, cfg.Scale.Max, alphaScale)
	if got := c.State().Scale; math.Abs(got-want) > 1e-12 {
		t.Errorf("second frame scale = %v, want %v", got, want)
	}
}

// TestRender_SmoothingStaysInRange feeds random levels and checks that no
// smoothed property leaves its configured range.
func TestRender_SmoothingStaysInRange(t *testing.T) {
	cfg := FromPreset("aggressive")
	c := newChain(t, cfg)
	rng := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 200; i++ {
		c.Render(rng.Float64(), rng.Float64(), i)
		s := c.State()

		checks := []struct {
			name      string
			v, lo, hi float64
		}{
			{"scale", s.Scale, cfg.Scale.Min, cfg.Scale.Max},
			{"shake x", s.ShakeX, -cfg.ShakeMaxPixels, cfg.ShakeMaxPixels},
			{"shake y", s.ShakeY, -cfg.ShakeMaxPixels, cfg.ShakeMaxPixels},
			{"warp", s.Warp, 0, cfg.WarpStrength},
			{"saturation", s.Saturation, cfg.Saturation.Min, cfg.Saturation.Max},
			{"contrast", s.Contrast, cfg.Contrast.Min, cfg.Contrast.Max},
			{"brightness", s.Brightness, cfg.Brightness.Min, cfg.Brightness.Max},
			{"hue", s.Hue, 0, cfg.HueMaxShift},
			{"glow", s.Glow, cfg.GlowRadius.Min, cfg.GlowRadius.Max},
			{"chromatic", s.Chromatic, 0, cfg.ChromaticShift},
			{"blur", s.Blur, 0, cfg.BlurMaxRadius},
			{"vignette", s.Vignette, cfg.Vignette.Min, cfg.Vignette.Max},
		}
		for _, chk := range checks {
			if chk.v < chk.lo-1e-9 || chk.v > chk.hi+1e-9 {
				t.Fatalf("frame %d: %s = %v outside [%v, %v]", i, chk.name, chk.v, chk.lo, chk.hi)
			}
		}
	}
	if c.CachedMasks() > 101 {
		t.Errorf("CachedMasks() = %d, want at most 101", c.CachedMasks())
	}
}

func TestShake_ReproducibleByFrameIndex(t *testing.T) {
	a := newChain(t, only(Shake))
	b := newChain(t, only(Shake))

	if !bytes.Equal(a.Render(1, 1, 42).Pix, b.Render(1, 1, 42).Pix) {
		t.Error("same frame index shook differently")
	}
	if a.State().ShakeX != b.State().ShakeX || a.State().ShakeY != b.State().ShakeY {
		t.Errorf("shake state differs: %+v vs %+v", a.State(), b.State())
	}

	// The uncovered canvas is opaque black
	frame := newChain(t, only(Shake)).Render(1, 1, 3)
	for i := 3; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 255 {
			t.Fatalf("alpha at byte %d = %d, want 255", i, frame.Pix[i])
		}
	}
}

func TestMotionBlur_OnlyAboveThreshold(t *testing.T) {
	base := testImage()
	c := newChain(t, only(Blur))

	for i, level := range []float64{0, 0.3, 0.59} {
		if !bytes.Equal(base.Pix, c.Render(level, 0, i).Pix) {
			t.Errorf("level %.2f blurred the frame", level)
		}
	}
	if bytes.Equal(base.Pix, c.Render(1, 0, 3).Pix) {
		t.Error("level 1 left the frame sharp")
	}
}

// TestMotionBlur_BoxMean checks the blur is a plain box: at full drive a
// fresh chain blurs with the maximum radius r, so an interior pixel is the
// mean of its (2r+1)² neighbourhood.
func TestMotionBlur_BoxMean(t *testing.T) {
	cfg := only(Blur)
	c := newChain(t, cfg)
	base := testImage()

	frame := c.Render(1, 0, 0)
	r := int(cfg.BlurMaxRadius)
	if got := int(c.State().Blur); got != r {
		t.Fatalf("blur radius = %d, want %d", got, r)
	}

	cx, cy := testW/2, testH/2
	var sum [3]float64
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			p := base.RGBAAt(x, y)
			sum[0] += float64(p.R)
			sum[1] += float64(p.G)
			sum[2] += float64(p.B)
		}
	}

	n := float64((2*r + 1) * (2*r + 1))
	got := frame.RGBAAt(cx, cy)
	for i, v := range []uint8{got.R, got.G, got.B} {
		if want := sum[i] / n; math.Abs(float64(v)-want) > 1 {
			t.Errorf("channel %d = %d, want the neighbourhood mean %.2f", i, v, want)
		}
	}
}

// TestWarp_ClampsToEdges drives a wide frame hard enough that displaced
// samples run off every edge. They must repeat the border row or column,
// never wrap round to the opposite side.
func TestWarp_ClampsToEdges(t *testing.T) {
	const w, h = 200, 100

	// Each pixel records its own coordinates
	base := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	cfg := only(Warp)
	cfg.WarpStrength = warpLimit
	c, err := NewChain(base, cfg)
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}

	// Frame 0 has zero phase: the bottom row samples about 37px to the
	// right, the left column 20px below and the right column about 13px above
	frame := c.Render(1, 1, 0)

	for x := w - 30; x < w; x++ {
		if got := frame.RGBAAt(x, h-1).R; got != w-1 {
			t.Errorf("bottom row x=%d samples column %d, want the right border %d", x, got, w-1)
		}
	}
	for y := h - 15; y < h; y++ {
		if got := frame.RGBAAt(0, y).G; got != h-1 {
			t.Errorf("left column y=%d samples row %d, want the bottom border %d", y, got, h-1)
		}
	}
	for y := 0; y < 10; y++ {
		if got := frame.RGBAAt(w-1, y).G; got != 0 {
			t.Errorf("right column y=%d samples row %d, want the top border 0", y, got)
		}
	}
}

func TestChromatic_ShiftsRedAndBlueApart(t *testing.T) {
	cfg := only(Chromatic)
	c := newChain(t, cfg)
	base := testImage()

	frame := c.Render(1, 1, 0)
	offset := int(cfg.ChromaticShift)

	for y := 0; y < testH; y++ {
		for x := 0; x < offset; x++ {
			if r := frame.RGBAAt(x, y).R; r != 0 {
				t.Fatalf("red at (%d,%d) = %d, want 0", x, y, r)
			}
		}

		x := testW / 2
		got := frame.RGBAAt(x, y)
		if got.R != base.RGBAAt(x-offset, y).R {
			t.Errorf("row %d: red not shifted right by %d", y, offset)
		}
		if got.G != base.RGBAAt(x, y).G {
			t.Errorf("row %d: green moved", y)
		}
		if got.B != base.RGBAAt(x+offset, y).B {
			t.Errorf("row %d: blue not shifted left by %d", y, offset)
		}
		if b := frame.RGBAAt(testW-1, y).B; b != 0 {
			t.Errorf("row %d: blue at the right edge = %d, want 0", y, b)
		}
	}
}

func TestHueMatrix_ZeroIsIdentity(t *testing.T) {
	m := hueMatrix(0)
	identity := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range m {
		if math.Abs(m[i]-identity[i]) > 1e-9 {
			t.Errorf("element %d = %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestHueMatrix_PreservesGrey(t *testing.T) {
	for _, deg := range []float64{5, 45, 180, -30} {
		m := hueMatrix(deg)
		for row := 0; row < 3; row++ {
			if sum := m[row*3] + m[row*3+1] + m[row*3+2]; math.Abs(sum-1) > 2e-3 {
				t.Errorf("row %d at %.0f degrees sums to %v, want 1", row, deg, sum)
			}
		}
	}
}

func TestVignetteMask(t *testing.T) {
	mask := buildVignetteMask(200, 100, 0.6)
	centre := mask.GrayAt(100, 50).Y
	corner := mask.GrayAt(0, 0).Y
	edge := mask.GrayAt(0, 50).Y

	if centre != 255 {
		t.Errorf("centre = %d, want 255", centre)
	}
	if !(corner < edge && edge < centre) {
		t.Errorf("want corner < edge < centre, got %d %d %d", corner, edge, centre)
	}

	flat := buildVignetteMask(200, 100, 0)
	if flat.GrayAt(0, 0).Y != 255 || flat.GrayAt(199, 99).Y != 255 {
		t.Error("zero strength mask is not flat white")
	}
}

func TestVignetteMask_CachedByRoundedStrength(t *testing.T) {
	c := newChain(t, only(Vignette))

	first := c.vignetteMask(0.301)
	second := c.vignetteMask(0.304)
	if first != second {
		t.Error("strengths with the same rounded key built separate masks")
	}
	if c.CachedMasks() != 1 {
		t.Errorf("CachedMasks() = %d, want 1", c.CachedMasks())
	}

	c.vignetteMask(0.31)
	if c.CachedMasks() != 2 {
		t.Errorf("CachedMasks() = %d, want 2", c.CachedMasks())
	}
}

func TestRender_ResultIsOwnedByCaller(t *testing.T) {
	c := newChain(t, allDisabled())

	frame := c.Render(0, 0, 0)
	for i := range frame.Pix {
		frame.Pix[i] = 0
	}
	if !bytes.Equal(testImage().Pix, c.Render(0, 0, 1).Pix) {
		t.Error("writing to a returned frame changed later frames")
	}
}
