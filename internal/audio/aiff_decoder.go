package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// AIFFDecoder implements AudioDecoder for AIFF files
type AIFFDecoder struct {
	bufferedDecoder
}

// NewAIFFDecoder decodes an AIFF file into memory
func NewAIFFDecoder(filename string) (*AIFFDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := aiff.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid AIFF file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read AIFF PCM data: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("AIFF file has no format information")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	maxVal := float64(audio.IntMaxSignedValue(bitDepth))
	interleaved := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		interleaved[i] = float64(v) / maxVal
	}

	return &AIFFDecoder{bufferedDecoder{
		samples:    downmix(interleaved, buf.Format.NumChannels),
		sampleRate: buf.Format.SampleRate,
		channels:   buf.Format.NumChannels,
	}}, nil
}
