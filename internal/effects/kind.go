package effects

import "strings"

// Kind identifies one of the eleven frame transforms.
type Kind int

const (
	Scale Kind = iota
	Shake
	Glow
	Saturation
	Contrast
	Brightness
	Hue
	Vignette
	Chromatic
	Blur
	Warp

	NumKinds int = iota
)

var kindNames = [NumKinds]string{
	Scale:      "scale",
	Shake:      "shake",
	Glow:       "glow",
	Saturation: "saturation",
	Contrast:   "contrast",
	Brightness: "brightness",
	Hue:        "hue",
	Vignette:   "vignette",
	Chromatic:  "chromatic",
	Blur:       "blur",
	Warp:       "warp",
}

// Kinds returns every effect kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, NumKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves an effect name, ignoring case.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}
