package audio

import "errors"

var (
	// ErrDecode is returned when the audio input is missing, unreadable or
	// yields no samples. Every decoding failure wraps it.
	ErrDecode = errors.New("audio decode failed")

	// ErrUnsupportedFormat is returned for file extensions without a decoder.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrEmptyWaveform is returned when band extraction receives no samples.
	ErrEmptyWaveform = errors.New("empty waveform")
)
