package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/linuxmatters/pulsefire/internal/audio"
	"github.com/linuxmatters/pulsefire/internal/effects"
	"github.com/linuxmatters/pulsefire/internal/encoder"
	"github.com/linuxmatters/pulsefire/internal/renderer"
	"github.com/sirupsen/logrus"
)

// Analyze decodes audioPath and extracts its per-frame features at fps.
// progress reports STFT windows and may be nil.
func Analyze(ctx context.Context, audioPath string, fps int, progress audio.ProgressCallback) (*audio.Waveform, *audio.Features, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, wrap(StageDecode, fmt.Errorf("%w: %w", renderer.ErrCancelled, err))
	}

	start := time.Now()
	w, err := audio.Load(audioPath)
	if err != nil {
		return nil, nil, wrap(StageDecode, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Analyze",
		"audio":       audioPath,
		"sample_rate": w.SampleRate,
		"samples":     len(w.Samples),
		"decode_time": time.Since(start).String(),
	}).Debug("Decoded audio")

	if err := ctx.Err(); err != nil {
		return nil, nil, wrap(StageAnalyse, fmt.Errorf("%w: %w", renderer.ErrCancelled, err))
	}

	start = time.Now()
	features, err := audio.ExtractFeatures(w, fps, progress)
	if err != nil {
		return nil, nil, wrap(StageAnalyse, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Analyze",
		"frames":       features.FrameCount,
		"fps":          fps,
		"analyse_time": time.Since(start).String(),
	}).Debug("Extracted features")

	return w, features, nil
}

// RenderOptions describes one render session.
type RenderOptions struct {
	Features *audio.Features
	Effects  effects.Config

	// Base image; Image takes precedence over ImagePath
	Image     *image.RGBA
	ImagePath string

	// Output: a video at Output, or a PNG sequence when FramesDir is set
	Output     string
	FramesDir  string
	AudioPath  string
	HWAccel    encoder.HWAccelType
	FFmpegPath string

	Progress renderer.ProgressFunc

	// NewSink overrides sink construction
	NewSink func(width, height int) (encoder.Sink, error)
}

// Result summarises a finished render.
type Result struct {
	Frames        int
	Duration      time.Duration // Wall time spent rendering and encoding
	Output        string
	MaskCacheSize int
}

// Render loads the base image, builds the effect chain and drives every
// frame into the sink. The sink is closed on success and aborted on any
// failure, so no partial output survives.
func Render(ctx context.Context, opts RenderOptions) (Result, error) {
	if opts.Features == nil {
		return Result{}, wrap(StageAnalyse, errors.New("no audio features"))
	}

	base, err := baseImage(opts)
	if err != nil {
		return Result{}, wrap(StageImage, err)
	}

	chain, err := effects.NewChain(base, opts.Effects)
	if err != nil {
		return Result{}, wrap(StageEffects, err)
	}

	seq, err := renderer.NewSequence(opts.Features, chain, renderer.Options{Progress: opts.Progress})
	if err != nil {
		return Result{}, wrap(StageRender, err)
	}

	bounds := chain.Bounds()
	sink, output, err := newSink(opts, bounds.Dx(), bounds.Dy())
	if err != nil {
		return Result{}, wrap(StageEncode, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Render",
		"frames":   seq.Len(),
		"size":     fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"output":   output,
	}).Info("Rendering frames")

	start := time.Now()
	n, err := seq.Drain(ctx, sink)
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Render",
				"error":    abortErr.Error(),
			}).Warn("Failed to discard partial output")
		}
		if errors.Is(err, encoder.ErrEncoding) {
			return Result{Frames: n}, wrap(StageEncode, err)
		}
		return Result{Frames: n}, wrap(StageRender, err)
	}

	if err := sink.Close(); err != nil {
		return Result{Frames: n}, wrap(StageEncode, err)
	}

	result := Result{
		Frames:        n,
		Duration:      time.Since(start),
		Output:        output,
		MaskCacheSize: chain.CachedMasks(),
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Render",
		"frames":     result.Frames,
		"duration":   result.Duration.String(),
		"mask_cache": result.MaskCacheSize,
	}).Info("Render complete")

	return result, nil
}

func baseImage(opts RenderOptions) (*image.RGBA, error) {
	if opts.Image != nil {
		return opts.Image, nil
	}
	return renderer.LoadImage(opts.ImagePath)
}

func newSink(opts RenderOptions, width, height int) (encoder.Sink, string, error) {
	if opts.NewSink != nil {
		sink, err := opts.NewSink(width, height)
		return sink, opts.Output, err
	}
	if opts.FramesDir != "" {
		sink, err := encoder.NewPNGSequence(opts.FramesDir, width, height)
		return sink, opts.FramesDir, err
	}
	sink, err := encoder.NewFFmpeg(encoder.Config{
		OutputPath: opts.Output,
		AudioPath:  opts.AudioPath,
		Width:      width,
		Height:     height,
		Framerate:  opts.Features.FPS,
		HWAccel:    opts.HWAccel,
		FFmpegPath: opts.FFmpegPath,
	})
	return sink, opts.Output, err
}

// ThumbnailOptions describes a poster image.
type ThumbnailOptions struct {
	Features   *audio.Features
	Effects    effects.Config
	Image      *image.RGBA
	Output     string
	Title      string
	TitleColor color.RGBA
}

// WriteThumbnail renders the frame with the strongest impact through a
// fresh chain, so the poster shows the effects at full response, and
// saves it with the optional title.
func WriteThumbnail(opts ThumbnailOptions) (int, error) {
	if opts.Features == nil || opts.Image == nil {
		return -1, wrap(StageThumbnail, errors.New("features and base image are required"))
	}

	peak := opts.Features.PeakFrame()
	if peak < 0 {
		peak = 0
	}

	chain, err := effects.NewChain(opts.Image, opts.Effects)
	if err != nil {
		return peak, wrap(StageEffects, err)
	}

	var overall, bass float64
	if peak < opts.Features.FrameCount {
		overall, bass = opts.Features.Overall[peak], opts.Features.Bass[peak]
	}
	frame := chain.Render(overall, bass, peak)

	if err := renderer.GenerateThumbnail(opts.Output, frame, opts.Title, opts.TitleColor); err != nil {
		return peak, wrap(StageThumbnail, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "WriteThumbnail",
		"frame":    peak,
		"output":   opts.Output,
	}).Debug("Wrote thumbnail")

	return peak, nil
}
