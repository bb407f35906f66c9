package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Video settings
const (
	FPS    = 30
	MinFPS = 1
	MaxFPS = 120
)

// Analysis settings
const (
	FFTSize = 2048

	// Band edges in Hz. Bins are inclusive-low, exclusive-high:
	// bass [0, BassCutoffHz), mid [BassCutoffHz, MidCutoffHz), high [MidCutoffHz, inf)
	BassCutoffHz = 250.0
	MidCutoffHz  = 2000.0
)

// Envelope settings
const (
	EnvelopeWindow  = 3    // Moving-average taps
	PerceptualGamma = 0.8  // Exponent applied after smoothing
	SilenceEpsilon  = 1e-8 // Min-max spans at or below this collapse to zero
)

// Effect driving
const (
	BassPunch           = 1.2 // Bass weight in the impact level
	MotionBlurThreshold = 0.6 // Impact above which motion blur engages
	GlowBlendCap        = 0.4
	VignetteMinStrength = 0.05
	VignetteCacheScale  = 100 // Vignette masks are keyed by round(strength*100)
)

// Presentation
const (
	DefaultPreset  = "energetic"
	DefaultOutput  = "output/output.mp4"
	ProgressBatch  = 10 // Frames between progress callbacks
	PreviewEvery   = 6  // Progress reports between TUI preview refreshes
	PreviewColumns = 48

	// Poster thumbnail title
	ThumbnailMargin              = 30
	ThumbnailTextRotationDegrees = 3.0
	ThumbnailFontSize            = 64.0
	DefaultTitleColour           = "F8B31D"
)

// ClampFPS keeps a requested frame rate inside the supported range.
func ClampFPS(fps int) int {
	if fps < MinFPS {
		return MinFPS
	}
	if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}

// ParseHexColor parses a 6-digit hex colour (with or without a leading #)
// into its red, green and blue components.
func ParseHexColor(hex string) (r, g, b uint8, err error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: want 6 hex digits", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}

	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
