package encoder

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
)

// PNGSequence writes each frame to its own numbered PNG in a directory,
// for compositing in other tools.
type PNGSequence struct {
	dir     string
	width   int
	height  int
	created bool // dir did not exist before and is removed on Abort
	written []string
	done    bool
}

// NewPNGSequence prepares dir for a width x height frame sequence.
func NewPNGSequence(dir string, width, height int) (*PNGSequence, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: frames directory cannot be empty", ErrEncoding)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrEncoding, width, height)
	}

	_, err := os.Stat(dir)
	created := errors.Is(err, os.ErrNotExist)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create frames directory: %w", ErrEncoding, err)
	}

	return &PNGSequence{dir: dir, width: width, height: height, created: created}, nil
}

// FramePath returns the file name used for frame index i.
func (s *PNGSequence) FramePath(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", i))
}

// WriteFrame saves the next frame.
func (s *PNGSequence) WriteFrame(img *image.RGBA) error {
	if s.done {
		return fmt.Errorf("%w: sequence already finished", ErrEncoding)
	}
	i := len(s.written)
	if err := checkFrame(img, s.width, s.height); err != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrEncoding, i, err)
	}

	path := s.FramePath(i)
	if err := gg.SavePNG(path, img); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: frame %d: %w", ErrEncoding, i, err)
	}
	s.written = append(s.written, path)
	return nil
}

// Close finishes the sequence. Every frame is already on disk.
func (s *PNGSequence) Close() error {
	if s.done {
		return nil
	}
	s.done = true

	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"frames":   len(s.written),
		"dir":      s.dir,
	}).Debug("Finished PNG sequence")
	return nil
}

// Abort deletes the frames written so far, and the directory when this
// sequence created it.
func (s *PNGSequence) Abort() error {
	if s.done {
		return nil
	}
	s.done = true

	var errs []error
	if s.created {
		errs = append(errs, os.RemoveAll(s.dir))
	} else {
		for _, path := range s.written {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				errs = append(errs, err)
			}
		}
	}
	s.written = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: failed to remove partial frames: %w", ErrEncoding, err)
	}
	return nil
}

// Frames returns the number of frames written so far.
func (s *PNGSequence) Frames() int {
	return len(s.written)
}
