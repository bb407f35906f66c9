package audio

import (
	"math"

	"github.com/linuxmatters/pulsefire/internal/config"
	"gonum.org/v1/gonum/floats"
)

// NormalizeEnvelope turns one raw energy series into a frame-aligned
// envelope in [0, 1]:
//
//  1. min-max rescale, or all zeros when the span is within SilenceEpsilon
//  2. 3-tap moving average, same length, zero beyond the ends
//  3. raise to PerceptualGamma
//  4. truncate or zero-pad to exactly frameCount entries
//
// The input is not modified.
func NormalizeEnvelope(raw []float64, frameCount int) []float64 {
	if frameCount < 0 {
		frameCount = 0
	}

	scaled := make([]float64, len(raw))
	if len(raw) > 0 {
		lo, hi := floats.Min(raw), floats.Max(raw)
		if span := hi - lo; span > config.SilenceEpsilon {
			copy(scaled, raw)
			floats.AddConst(-lo, scaled)
			floats.Scale(1/span, scaled)
		}
	}

	smoothed := movingAverage(scaled, config.EnvelopeWindow)
	for i, v := range smoothed {
		// Clamp guards pow against tiny negative rounding residue
		smoothed[i] = math.Pow(clamp01(v), config.PerceptualGamma)
	}

	return fitLength(smoothed, frameCount)
}

// movingAverage convolves with a uniform kernel of the given width and
// keeps the input length, centring the kernel on each sample.
func movingAverage(x []float64, width int) []float64 {
	out := make([]float64, len(x))
	if width < 1 {
		copy(out, x)
		return out
	}
	left := (width - 1) / 2
	for i := range x {
		var sum float64
		for j := i - left; j < i-left+width; j++ {
			if j >= 0 && j < len(x) {
				sum += x[j]
			}
		}
		out[i] = sum / float64(width)
	}
	return out
}

// fitLength truncates from the end or right-pads with zeros.
func fitLength(x []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, x)
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
