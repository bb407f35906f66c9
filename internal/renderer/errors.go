package renderer

import "errors"

var (
	// ErrImageLoad is returned when the base image is missing or cannot be
	// decoded.
	ErrImageLoad = errors.New("image load failed")

	// ErrCancelled is returned when generation stops because its context
	// was cancelled. No further frames are produced.
	ErrCancelled = errors.New("generation cancelled")

	// ErrFrameInvariant is returned when the chain hands back a frame that
	// cannot be used. It aborts the whole sequence: skipping a frame would
	// put video and audio out of step.
	ErrFrameInvariant = errors.New("rendered frame is invalid")
)
