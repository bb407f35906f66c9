package audio

import (
	"fmt"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// OggDecoder implements AudioDecoder for Ogg Vorbis files
type OggDecoder struct {
	bufferedDecoder
}

// NewOggDecoder decodes an Ogg Vorbis file into memory
func NewOggDecoder(filename string) (*OggDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}

	interleaved := make([]float64, len(data))
	for i, s := range data {
		interleaved[i] = float64(s)
	}

	return &OggDecoder{bufferedDecoder{
		samples:    downmix(interleaved, format.Channels),
		sampleRate: format.SampleRate,
		channels:   format.Channels,
	}}, nil
}
