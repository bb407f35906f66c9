package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	sampleRate  int
	numChannels int
	pending     []float64 // decoded mono samples not yet handed out
	done        bool
}

// NewFLACDecoder creates a new FLAC decoder. Format details come from the
// StreamInfo block.
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	stream, err := flac.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	return &FLACDecoder{
		stream:      stream,
		sampleRate:  int(stream.Info.SampleRate),
		numChannels: int(stream.Info.NChannels),
	}, nil
}

// ReadChunk reads up to numSamples mono samples
func (d *FLACDecoder) ReadChunk(numSamples int) ([]float64, error) {
	for len(d.pending) < numSamples && !d.done {
		frame, err := d.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			d.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// One subframe per channel; FLAC allows 4-32 bits per sample
		maxVal := float64(int64(1) << (frame.BitsPerSample - 1))
		channels := len(frame.Subframes)
		for i := range frame.Subframes[0].Samples {
			var sum int64
			for _, sub := range frame.Subframes {
				sum += int64(sub.Samples[i])
			}
			d.pending = append(d.pending, float64(sum)/float64(channels)/maxVal)
		}
	}

	if len(d.pending) == 0 {
		return nil, io.EOF
	}

	n := min(numSamples, len(d.pending))
	out := make([]float64, n)
	copy(out, d.pending[:n])
	d.pending = d.pending[n:]
	return out, nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		return d.stream.Close()
	}
	return nil
}
