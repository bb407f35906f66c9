package effects

import "strings"

// Preset is a named, pre-tuned visual style. PresetDefault stands for "no
// preset" and for any name the catalog does not know.
type Preset int

const (
	PresetDefault Preset = iota
	PresetSubtle
	PresetEnergetic
	PresetAggressive
	PresetCinematic
	PresetDreamy
	PresetRetro
	PresetMinimal
	PresetPsychedelic
	PresetBass
	PresetNoir

	numPresets int = iota
)

type presetEntry struct {
	name        string
	description string
	tune        func(c *Config)
}

var presetTable = [numPresets]presetEntry{
	PresetDefault: {
		name:        "default",
		description: "Baseline settings",
		tune:        func(*Config) {},
	},
	PresetSubtle: {
		name:        "subtle",
		description: "Gentle, understated effects",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.3}
			c.Scale.Max = 1.04
			c.Effects[Shake] = Toggle{true, 0.2}
			c.ShakeMaxPixels = 8
			c.Effects[Glow] = Toggle{true, 0.3}
			c.GlowRadius.Max = 4
			c.Effects[Saturation] = Toggle{true, 0.3}
			c.Saturation.Max = 1.2
			c.Effects[Contrast] = Toggle{true, 0.2}
			c.Contrast.Max = 1.1
			c.Effects[Brightness] = Toggle{true, 0.2}
			c.Brightness.Max = 1.08
			c.Effects[Hue].Enabled = false
			c.Effects[Vignette] = Toggle{true, 0.3}
			c.Vignette.Max = 0.25
			c.Effects[Chromatic].Enabled = false
			c.Effects[Blur].Enabled = false
			c.Effects[Warp].Enabled = false
		},
	},
	PresetEnergetic: {
		name:        "energetic",
		description: "Balanced, dynamic response",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.6}
			c.Scale.Max = 1.10
			c.Effects[Shake] = Toggle{true, 0.5}
			c.ShakeMaxPixels = 18
			c.Effects[Glow] = Toggle{true, 0.6}
			c.GlowRadius.Max = 10
			c.Effects[Saturation] = Toggle{true, 0.6}
			c.Saturation.Max = 1.5
			c.Effects[Contrast] = Toggle{true, 0.5}
			c.Contrast.Max = 1.25
			c.Effects[Brightness] = Toggle{true, 0.4}
			c.Brightness.Max = 1.2
			c.Effects[Hue] = Toggle{true, 0.3}
			c.Effects[Vignette] = Toggle{true, 0.6}
			c.Vignette.Max = 0.45
			c.Effects[Chromatic] = Toggle{true, 0.5}
			c.Effects[Blur].Enabled = false
			c.Effects[Warp].Enabled = false
		},
	},
	PresetAggressive: {
		name:        "aggressive",
		description: "Bold, intense visuals",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.8}
			c.Scale.Max = 1.15
			c.Effects[Shake] = Toggle{true, 0.7}
			c.ShakeMaxPixels = 25
			c.Effects[Glow] = Toggle{true, 0.8}
			c.GlowRadius.Max = 15
			c.Effects[Saturation] = Toggle{true, 0.8}
			c.Saturation.Max = 1.7
			c.Effects[Contrast] = Toggle{true, 0.7}
			c.Contrast.Max = 1.4
			c.Effects[Brightness] = Toggle{true, 0.6}
			c.Brightness.Max = 1.3
			c.Effects[Hue] = Toggle{true, 0.5}
			c.HueMaxShift = 25
			c.Effects[Vignette] = Toggle{true, 0.8}
			c.Vignette.Max = 0.6
			c.Effects[Chromatic] = Toggle{true, 0.7}
			c.ChromaticShift = 12
			c.Effects[Blur] = Toggle{true, 0.5}
			c.Effects[Warp] = Toggle{true, 0.4}
		},
	},
	PresetCinematic: {
		name:        "cinematic",
		description: "Film-like atmosphere",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.4}
			c.Scale.Max = 1.06
			c.Effects[Shake] = Toggle{true, 0.25}
			c.ShakeMaxPixels = 10
			c.Effects[Glow] = Toggle{true, 0.5}
			c.GlowRadius.Max = 6
			c.Effects[Saturation] = Toggle{true, 0.4}
			c.Saturation = Range{0.85, 1.15}
			c.Effects[Contrast] = Toggle{true, 0.5}
			c.Contrast = Range{0.9, 1.3}
			c.Effects[Brightness] = Toggle{true, 0.35}
			c.Brightness = Range{0.9, 1.1}
			c.Effects[Hue].Enabled = false
			c.Effects[Vignette] = Toggle{true, 0.7}
			c.Vignette = Range{0.15, 0.5}
			c.Effects[Chromatic] = Toggle{true, 0.3}
			c.ChromaticShift = 5
			c.Effects[Blur].Enabled = false
			c.Effects[Warp].Enabled = false
		},
	},
	PresetDreamy: {
		name:        "dreamy",
		description: "Soft, ethereal glow",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.35}
			c.Scale.Max = 1.05
			c.Effects[Shake] = Toggle{true, 0.15}
			c.ShakeMaxPixels = 6
			c.Effects[Glow] = Toggle{true, 0.75}
			c.GlowRadius.Max = 12
			c.Effects[Saturation] = Toggle{true, 0.5}
			c.Saturation = Range{0.8, 1.3}
			c.Effects[Contrast] = Toggle{true, 0.3}
			c.Contrast = Range{0.9, 1.15}
			c.Effects[Brightness] = Toggle{true, 0.4}
			c.Brightness = Range{0.95, 1.15}
			c.Effects[Hue] = Toggle{true, 0.25}
			c.HueMaxShift = 12
			c.Effects[Vignette] = Toggle{true, 0.5}
			c.Vignette = Range{0.1, 0.35}
			c.Effects[Chromatic] = Toggle{true, 0.35}
			c.ChromaticShift = 6
			c.Effects[Blur] = Toggle{true, 0.2}
			c.BlurMaxRadius = 2
			c.Effects[Warp].Enabled = false
		},
	},
	PresetRetro: {
		name:        "retro",
		description: "VHS / synthwave style",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.4}
			c.Scale.Max = 1.06
			c.Effects[Shake] = Toggle{true, 0.35}
			c.ShakeMaxPixels = 12
			c.Effects[Glow] = Toggle{true, 0.5}
			c.GlowRadius.Max = 8
			c.Effects[Saturation] = Toggle{true, 0.6}
			c.Saturation = Range{1.0, 1.6}
			c.Effects[Contrast] = Toggle{true, 0.55}
			c.Contrast = Range{0.95, 1.35}
			c.Effects[Brightness] = Toggle{true, 0.35}
			c.Brightness.Max = 1.15
			c.Effects[Hue] = Toggle{true, 0.4}
			c.HueMaxShift = 18
			c.Effects[Vignette] = Toggle{true, 0.65}
			c.Vignette = Range{0.12, 0.45}
			c.Effects[Chromatic] = Toggle{true, 0.6}
			c.ChromaticShift = 10
			c.Effects[Blur].Enabled = false
			c.Effects[Warp] = Toggle{true, 0.25}
			c.WarpStrength = 0.015
		},
	},
	PresetMinimal: {
		name:        "minimal",
		description: "Clean, subtle pulse",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.25}
			c.Scale.Max = 1.03
			c.Effects[Shake].Enabled = false
			c.Effects[Glow].Enabled = false
			c.Effects[Saturation].Enabled = false
			c.Effects[Contrast] = Toggle{true, 0.15}
			c.Contrast.Max = 1.08
			c.Effects[Brightness] = Toggle{true, 0.2}
			c.Brightness.Max = 1.06
			c.Effects[Hue].Enabled = false
			c.Effects[Vignette] = Toggle{true, 0.25}
			c.Vignette.Max = 0.2
			c.Effects[Chromatic].Enabled = false
			c.Effects[Blur].Enabled = false
			c.Effects[Warp].Enabled = false
		},
	},
	PresetPsychedelic: {
		name:        "psychedelic",
		description: "Trippy, experimental",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.7}
			c.Scale.Max = 1.12
			c.Effects[Shake] = Toggle{true, 0.5}
			c.ShakeMaxPixels = 20
			c.Effects[Glow] = Toggle{true, 0.7}
			c.GlowRadius.Max = 14
			c.Effects[Saturation] = Toggle{true, 0.85}
			c.Saturation = Range{0.9, 1.9}
			c.Effects[Contrast] = Toggle{true, 0.6}
			c.Contrast.Max = 1.35
			c.Effects[Brightness] = Toggle{true, 0.5}
			c.Brightness.Max = 1.25
			c.Effects[Hue] = Toggle{true, 0.8}
			c.HueMaxShift = 35
			c.Effects[Vignette] = Toggle{true, 0.55}
			c.Vignette.Max = 0.4
			c.Effects[Chromatic] = Toggle{true, 0.75}
			c.ChromaticShift = 14
			c.Effects[Blur] = Toggle{true, 0.35}
			c.Effects[Warp] = Toggle{true, 0.55}
			c.WarpStrength = 0.025
		},
	},
	PresetBass: {
		name:        "bass",
		description: "Punchy bass response",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.75}
			c.Scale.Max = 1.12
			c.Effects[Shake] = Toggle{true, 0.65}
			c.ShakeMaxPixels = 22
			c.Effects[Glow] = Toggle{true, 0.55}
			c.GlowRadius.Max = 10
			c.Effects[Saturation] = Toggle{true, 0.5}
			c.Saturation.Max = 1.4
			c.Effects[Contrast] = Toggle{true, 0.65}
			c.Contrast = Range{0.92, 1.35}
			c.Effects[Brightness] = Toggle{true, 0.55}
			c.Brightness.Max = 1.22
			c.Effects[Hue].Enabled = false
			c.Effects[Vignette] = Toggle{true, 0.7}
			c.Vignette = Range{0.08, 0.5}
			c.Effects[Chromatic] = Toggle{true, 0.55}
			c.ChromaticShift = 9
			c.Effects[Blur] = Toggle{true, 0.4}
			c.BlurMaxRadius = 3
			c.Effects[Warp].Enabled = false
		},
	},
	PresetNoir: {
		name:        "noir",
		description: "Dark, moody contrast",
		tune: func(c *Config) {
			c.Effects[Scale] = Toggle{true, 0.3}
			c.Scale.Max = 1.04
			c.Effects[Shake] = Toggle{true, 0.2}
			c.ShakeMaxPixels = 8
			c.Effects[Glow] = Toggle{true, 0.4}
			c.GlowRadius.Max = 5
			c.Effects[Saturation] = Toggle{true, 0.5}
			c.Saturation = Range{0.6, 0.95}
			c.Effects[Contrast] = Toggle{true, 0.6}
			c.Contrast = Range{0.85, 1.4}
			c.Effects[Brightness] = Toggle{true, 0.35}
			c.Brightness = Range{0.85, 1.05}
			c.Effects[Hue].Enabled = false
			c.Effects[Vignette] = Toggle{true, 0.85}
			c.Vignette = Range{0.2, 0.65}
			c.Effects[Chromatic].Enabled = false
			c.Effects[Blur].Enabled = false
			c.Effects[Warp].Enabled = false
		},
	},
}

// ParsePreset resolves a preset name, ignoring case and surrounding space.
// Empty and unknown names resolve to PresetDefault.
func ParsePreset(name string) Preset {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := 1; i < numPresets; i++ {
		if presetTable[i].name == name {
			return Preset(i)
		}
	}
	return PresetDefault
}

// Config builds the preset's effect configuration. Each call returns a
// fresh value.
func (p Preset) Config() Config {
	c := DefaultConfig()
	if p < 0 || int(p) >= numPresets {
		return c
	}
	presetTable[p].tune(&c)
	return c
}

func (p Preset) String() string {
	if p < 0 || int(p) >= numPresets {
		return presetTable[PresetDefault].name
	}
	return presetTable[p].name
}

// Description is a one-line summary of the preset's look.
func (p Preset) Description() string {
	if p < 0 || int(p) >= numPresets {
		return presetTable[PresetDefault].description
	}
	return presetTable[p].description
}

// FromPreset is shorthand for ParsePreset(name).Config().
func FromPreset(name string) Config {
	return ParsePreset(name).Config()
}

// Presets returns the ten named presets in catalog order.
func Presets() []Preset {
	out := make([]Preset, 0, numPresets-1)
	for i := 1; i < numPresets; i++ {
		out = append(out, Preset(i))
	}
	return out
}

// PresetNames returns the ten preset names in catalog order.
func PresetNames() []string {
	presets := Presets()
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.String()
	}
	return names
}
