package encoder

import (
	"errors"
	"image"
)

// ErrEncoding is wrapped by every failure to start, feed, finalise or abort
// an encoder.
var ErrEncoding = errors.New("encoding failed")

// Sink consumes rendered frames in order. Close finalises the output; Abort
// discards it. After either, further calls are no-ops or errors.
type Sink interface {
	WriteFrame(img *image.RGBA) error
	Close() error
	Abort() error
}

// Config holds the encoder configuration
type Config struct {
	OutputPath string      // Path to the output video
	AudioPath  string      // Audio muxed into the video; empty for silent output
	Width      int         // Video width in pixels
	Height     int         // Video height in pixels
	Framerate  int         // Frames per second
	HWAccel    HWAccelType // Hardware encoder preference; empty means software
	FFmpegPath string      // ffmpeg binary; empty looks up "ffmpeg" on PATH
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New("invalid dimensions")
	}
	if c.Framerate <= 0 {
		return errors.New("invalid framerate")
	}
	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}
	return nil
}

func (c Config) ffmpeg() string {
	if c.FFmpegPath != "" {
		return c.FFmpegPath
	}
	return "ffmpeg"
}

// checkFrame rejects frames whose size differs from the configured one.
func checkFrame(img *image.RGBA, width, height int) error {
	if img == nil {
		return errors.New("nil frame")
	}
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		return errors.New("frame size does not match encoder")
	}
	return nil
}
