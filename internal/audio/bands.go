package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/argusdusty/gofft"
	"github.com/linuxmatters/pulsefire/internal/config"
	"gonum.org/v1/gonum/dsp/window"
)

// Band identifies a frequency range used by the extractor.
type Band int

const (
	BandBass Band = iota // [0, 250) Hz
	BandMid              // [250, 2000) Hz
	BandHigh             // [2000, Nyquist] Hz
)

// BandOf classifies a bin centre frequency. Edges are inclusive-low,
// exclusive-high.
func BandOf(freq float64) Band {
	switch {
	case freq < config.BassCutoffHz:
		return BandBass
	case freq < config.MidCutoffHz:
		return BandMid
	default:
		return BandHigh
	}
}

// BandEnergies holds the raw, unnormalised magnitude sums for each analysis
// window. All four slices have the same length.
type BandEnergies struct {
	Overall []float64
	Bass    []float64
	Mid     []float64
	High    []float64
}

// Len returns the number of analysis windows.
func (b *BandEnergies) Len() int {
	return len(b.Overall)
}

// ProgressCallback is called with progress updates during band extraction
type ProgressCallback func(window, totalWindows int)

// HopLength returns the STFT hop that lands one analysis window on every
// video frame.
func HopLength(sampleRate, fps int) int {
	hop := int(math.Round(float64(sampleRate) / float64(fps)))
	if hop < 1 {
		hop = 1
	}
	return hop
}

// periodicHann returns an n-point periodic Hann window. gonum's Hann is the
// symmetric form, so an n+1 point window truncated to n gives the periodic one.
func periodicHann(n int) []float64 {
	seq := make([]float64, n+1)
	for i := range seq {
		seq[i] = 1
	}
	return window.Hann(seq)[:n]
}

// progressEvery throttles extraction progress callbacks
const progressEvery = 256

// ExtractBands runs a centred short-time Fourier transform over the waveform
// (FFTSize-point frames, hop = round(sampleRate/fps), zero padding of half a
// frame at both ends) and sums bin magnitudes per band for every frame.
func ExtractBands(w *Waveform, fps int, progress ProgressCallback) (*BandEnergies, error) {
	if w == nil || len(w.Samples) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrEmptyWaveform)
	}
	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", ErrDecode, w.SampleRate)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}

	n := config.FFTSize
	if err := gofft.Prepare(n); err != nil {
		return nil, fmt.Errorf("failed to prepare FFT: %w", err)
	}

	hop := HopLength(w.SampleRate, fps)
	hann := periodicHann(n)
	samples := w.Samples
	numWindows := 1 + len(samples)/hop

	// Only the non-negative half of the spectrum is summed
	numBins := n/2 + 1
	bins := make([]Band, numBins)
	for k := range bins {
		bins[k] = BandOf(float64(k) * float64(w.SampleRate) / float64(n))
	}

	out := &BandEnergies{
		Overall: make([]float64, numWindows),
		Bass:    make([]float64, numWindows),
		Mid:     make([]float64, numWindows),
		High:    make([]float64, numWindows),
	}

	buf := make([]complex128, n)
	for f := 0; f < numWindows; f++ {
		start := f*hop - n/2
		for i := 0; i < n; i++ {
			var s float64
			if idx := start + i; idx >= 0 && idx < len(samples) {
				s = samples[idx]
			}
			buf[i] = complex(s*hann[i], 0)
		}

		if err := gofft.FFT(buf); err != nil {
			return nil, fmt.Errorf("FFT failed at window %d: %w", f, err)
		}

		var overall, bass, mid, high float64
		for k := 0; k < numBins; k++ {
			mag := cmplx.Abs(buf[k])
			overall += mag
			switch bins[k] {
			case BandBass:
				bass += mag
			case BandMid:
				mid += mag
			default:
				high += mag
			}
		}
		out.Overall[f] = overall
		out.Bass[f] = bass
		out.Mid[f] = mid
		out.High[f] = high

		if progress != nil && ((f+1)%progressEvery == 0 || f == numWindows-1) {
			progress(f+1, numWindows)
		}
	}

	return out, nil
}
