package audio

import (
	"fmt"
	"math"

	"github.com/linuxmatters/pulsefire/internal/config"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Features holds the per-frame energy envelopes for one track. Every slice
// has exactly FrameCount entries in [0, 1]. Features is read-only once built.
type Features struct {
	Overall []float64
	Bass    []float64
	Mid     []float64
	High    []float64

	Duration   float64 // Seconds
	FrameCount int
	FPS        int
	SampleRate int
}

// FrameCount returns ceil(numSamples*fps/sampleRate), i.e. ceil(duration*fps)
// computed in integers so exact durations never round up by one.
func FrameCount(numSamples, sampleRate, fps int) int {
	if numSamples <= 0 || sampleRate <= 0 || fps <= 0 {
		return 0
	}
	num := int64(numSamples) * int64(fps)
	return int((num + int64(sampleRate) - 1) / int64(sampleRate))
}

// ExtractFeatures runs band extraction and normalises each band
// independently against its own range.
func ExtractFeatures(w *Waveform, fps int, progress ProgressCallback) (*Features, error) {
	bands, err := ExtractBands(w, fps, progress)
	if err != nil {
		return nil, err
	}

	frameCount := FrameCount(len(w.Samples), w.SampleRate, fps)
	if frameCount == 0 {
		return nil, fmt.Errorf("%w: track shorter than one frame", ErrDecode)
	}

	return &Features{
		Overall:    NormalizeEnvelope(bands.Overall, frameCount),
		Bass:       NormalizeEnvelope(bands.Bass, frameCount),
		Mid:        NormalizeEnvelope(bands.Mid, frameCount),
		High:       NormalizeEnvelope(bands.High, frameCount),
		Duration:   w.Duration(),
		FrameCount: frameCount,
		FPS:        fps,
		SampleRate: w.SampleRate,
	}, nil
}

// Impact combines overall and bass energy, giving bass transients extra punch.
func Impact(overall, bass float64) float64 {
	return math.Min(1, math.Max(overall, bass*config.BassPunch))
}

// Impact returns the impact level of frame i.
func (f *Features) Impact(i int) float64 {
	return Impact(f.Overall[i], f.Bass[i])
}

// PeakFrame returns the index of the frame with the highest impact level,
// or -1 when there are no frames.
func (f *Features) PeakFrame() int {
	if f.FrameCount == 0 {
		return -1
	}
	impact := make([]float64, f.FrameCount)
	for i := range impact {
		impact[i] = f.Impact(i)
	}
	return floats.MaxIdx(impact)
}

// Stats summarises the envelopes.
type Stats struct {
	MeanOverall float64
	MeanBass    float64
	MeanMid     float64
	MeanHigh    float64
	PeakFrame   int
}

// Stats returns the per-band means and the peak impact frame.
func (f *Features) Stats() Stats {
	if f.FrameCount == 0 {
		return Stats{PeakFrame: -1}
	}
	return Stats{
		MeanOverall: stat.Mean(f.Overall, nil),
		MeanBass:    stat.Mean(f.Bass, nil),
		MeanMid:     stat.Mean(f.Mid, nil),
		MeanHigh:    stat.Mean(f.High, nil),
		PeakFrame:   f.PeakFrame(),
	}
}
