package audio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadChunk reads the next chunk of mono samples as float64 in [-1, 1].
	// Returns io.EOF when the stream is exhausted
	ReadChunk(numSamples int) ([]float64, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the number of channels in the source before downmix
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

type openFunc func(filename string) (AudioDecoder, error)

var decoders = map[string]openFunc{
	".wav":  func(f string) (AudioDecoder, error) { return NewWAVDecoder(f) },
	".mp3":  func(f string) (AudioDecoder, error) { return NewMP3Decoder(f) },
	".flac": func(f string) (AudioDecoder, error) { return NewFLACDecoder(f) },
	".ogg":  func(f string) (AudioDecoder, error) { return NewOggDecoder(f) },
	".oga":  func(f string) (AudioDecoder, error) { return NewOggDecoder(f) },
	".aif":  func(f string) (AudioDecoder, error) { return NewAIFFDecoder(f) },
	".aiff": func(f string) (AudioDecoder, error) { return NewAIFFDecoder(f) },
}

// SupportedExtensions lists the file extensions Open accepts, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open picks a decoder from the file extension. All failures wrap ErrDecode.
func Open(filename string) (AudioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	open, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrDecode, ErrUnsupportedFormat, ext)
	}

	dec, err := open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, filepath.Base(filename), err)
	}
	return dec, nil
}

// Waveform is a fully decoded mono track.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the track length in seconds.
func (w *Waveform) Duration() float64 {
	if w == nil || w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// readChunkSize is the number of mono samples requested per ReadChunk call
const readChunkSize = 8192

// Load decodes the whole file into memory. The complete track is analysed
// up front, so there is no streaming path here.
func Load(filename string) (*Waveform, error) {
	dec, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return ReadAll(dec)
}

// ReadAll drains a decoder into a Waveform.
func ReadAll(dec AudioDecoder) (*Waveform, error) {
	if dec.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", ErrDecode, dec.SampleRate())
	}

	var samples []float64
	for {
		chunk, err := dec.ReadChunk(readChunkSize)
		if len(chunk) > 0 {
			samples = append(samples, chunk...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no audio data", ErrDecode)
	}

	return &Waveform{Samples: samples, SampleRate: dec.SampleRate()}, nil
}

// downmix averages interleaved channels into mono.
func downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
