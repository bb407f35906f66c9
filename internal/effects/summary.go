package effects

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrConfig is returned when a configuration document cannot be used.
// Numeric fields are never rejected, only clamped.
var ErrConfig = errors.New("invalid effect configuration")

// Summary is the enabled/intensity view of a Config keyed by effect name.
// Range bounds are not part of it.
type Summary map[string]Toggle

// Summary extracts the enabled flag and intensity of every effect.
func (c Config) Summary() Summary {
	s := make(Summary, NumKinds)
	for _, k := range Kinds() {
		s[k.String()] = c.Effects[k]
	}
	return s
}

// WithSummary returns a copy of c with the summary's toggles applied.
// Effects missing from the summary keep their current toggle; unknown names
// are ignored.
func (c Config) WithSummary(s Summary) Config {
	for name, t := range s {
		if k, ok := ParseKind(name); ok {
			c.Effects[k] = t
		}
	}
	return c
}

// FromSummary rebuilds a Config from a summary on top of the defaults.
func FromSummary(s Summary) Config {
	return DefaultConfig().WithSummary(s)
}

// ParseSummary decodes a JSON summary document such as
//
//	{"glow": {"enabled": true, "intensity": 0.8}, "warp": {"enabled": false}}
//
// Each listed effect replaces both fields of its toggle, so an omitted
// intensity reads as zero.
func ParseSummary(r io.Reader) (Summary, error) {
	var s Summary
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for name := range s {
		if _, ok := ParseKind(name); !ok {
			return nil, fmt.Errorf("%w: unknown effect %q", ErrConfig, name)
		}
	}
	return s, nil
}
