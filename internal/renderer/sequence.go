package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/linuxmatters/pulsefire/internal/audio"
	"github.com/linuxmatters/pulsefire/internal/config"
)

// FrameRenderer turns the driving levels for one frame into an image.
// effects.Chain is the production implementation.
type FrameRenderer interface {
	Render(overall, bass float64, frameIdx int) *image.RGBA
	Bounds() image.Rectangle
}

// FrameSink receives frames in order. The encoders implement it.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
}

// Frame is one rendered video frame and the levels that drove it.
type Frame struct {
	Index   int
	Image   *image.RGBA
	Overall float64
	Bass    float64
}

// Progress describes how far generation has got.
type Progress struct {
	Frame   int // Frames rendered so far
	Total   int
	Elapsed time.Duration
	Latest  Frame // Most recent frame, for previews
}

// ProgressFunc observes generation progress. It runs on the generating
// goroutine, so it must return quickly and must not keep Latest.Image
// beyond the call unless it copies it.
type ProgressFunc func(p Progress)

// Options tunes a Sequence.
type Options struct {
	Progress ProgressFunc
	Batch    int // Frames between progress reports; <= 0 uses config.ProgressBatch
}

// Sequence yields the frames of one render session in order. It is lazy,
// forward-only and cannot be restarted: once exhausted it keeps returning
// io.EOF, and after a failure it keeps returning that failure.
type Sequence struct {
	features *audio.Features
	renderer FrameRenderer
	opts     Options

	next  int
	start time.Time
	err   error
}

// NewSequence checks that the features cover every frame and prepares a
// sequence of features.FrameCount frames.
func NewSequence(features *audio.Features, renderer FrameRenderer, opts Options) (*Sequence, error) {
	if features == nil {
		return nil, errors.New("no audio features")
	}
	if renderer == nil {
		return nil, errors.New("no frame renderer")
	}
	if len(features.Overall) < features.FrameCount || len(features.Bass) < features.FrameCount {
		return nil, fmt.Errorf("features cover %d/%d frames, want %d",
			len(features.Overall), len(features.Bass), features.FrameCount)
	}
	if opts.Batch <= 0 {
		opts.Batch = config.ProgressBatch
	}

	return &Sequence{features: features, renderer: renderer, opts: opts}, nil
}

// Len returns the total number of frames the sequence produces.
func (s *Sequence) Len() int {
	return s.features.FrameCount
}

// Next renders the next frame. Frame i always uses overall[i], bass[i] and
// index i. The context is checked before each frame; cancellation yields an
// error wrapping ErrCancelled.
func (s *Sequence) Next(ctx context.Context) (Frame, error) {
	if s.err != nil {
		return Frame{}, s.err
	}
	if s.next >= s.features.FrameCount {
		return Frame{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		s.err = fmt.Errorf("%w at frame %d/%d: %w", ErrCancelled, s.next, s.features.FrameCount, err)
		return Frame{}, s.err
	}
	if s.next == 0 {
		s.start = time.Now()
	}

	i := s.next
	frame := Frame{
		Index:   i,
		Overall: s.features.Overall[i],
		Bass:    s.features.Bass[i],
	}
	frame.Image = s.renderer.Render(frame.Overall, frame.Bass, i)
	if frame.Image == nil || frame.Image.Bounds() != s.renderer.Bounds() {
		s.err = fmt.Errorf("%w: frame %d", ErrFrameInvariant, i)
		return Frame{}, s.err
	}
	s.next++

	if s.opts.Progress != nil && (s.next%s.opts.Batch == 0 || s.next == s.features.FrameCount) {
		s.opts.Progress(Progress{
			Frame:   s.next,
			Total:   s.features.FrameCount,
			Elapsed: time.Since(s.start),
			Latest:  frame,
		})
	}

	return frame, nil
}

// Drain drains the sequence into sink and returns the number of frames
// written. Sink errors are returned unwrapped so callers can classify them.
func (s *Sequence) Drain(ctx context.Context, sink FrameSink) (int, error) {
	written := 0
	for {
		frame, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		if err := sink.WriteFrame(frame.Image); err != nil {
			return written, err
		}
		written++
	}
}
