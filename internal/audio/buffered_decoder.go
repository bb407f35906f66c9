package audio

import "io"

// bufferedDecoder serves ReadChunk from a fully decoded mono buffer. Used by
// formats whose libraries only offer whole-stream decoding.
type bufferedDecoder struct {
	samples    []float64
	sampleRate int
	channels   int
	pos        int
}

func (d *bufferedDecoder) ReadChunk(numSamples int) ([]float64, error) {
	if d.pos >= len(d.samples) {
		return nil, io.EOF
	}
	end := min(d.pos+numSamples, len(d.samples))
	out := d.samples[d.pos:end]
	d.pos = end
	return out, nil
}

func (d *bufferedDecoder) SampleRate() int  { return d.sampleRate }
func (d *bufferedDecoder) NumChannels() int { return d.channels }
func (d *bufferedDecoder) Close() error     { return nil }
