package encoder

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// stderrTail is how much of ffmpeg's stderr is quoted in errors.
const stderrTail = 2048

// FFmpeg pipes raw RGBA frames into an ffmpeg process that encodes H.264
// video, muxes the audio track and stops at the shorter of the two. Output
// goes to a hidden temporary file beside the destination and is renamed
// into place on Close, so an aborted run never leaves a partial video.
type FFmpeg struct {
	config  Config
	encoder encoderSpec
	tmpPath string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer

	frames int
	done   bool
}

// NewFFmpeg validates the configuration, resolves the video encoder and
// starts ffmpeg.
func NewFFmpeg(config Config) (*FFmpeg, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	spec := softwareEncoder
	if hw := SelectBestEncoder(config.ffmpeg(), config.HWAccel); hw != nil {
		spec = hw.spec
	}

	dir := filepath.Dir(config.OutputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %w", ErrEncoding, err)
	}
	tmp, err := os.CreateTemp(dir, ".pulsefire-*"+filepath.Ext(config.OutputPath))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temporary output: %w", ErrEncoding, err)
	}
	tmp.Close()

	e := &FFmpeg{config: config, encoder: spec, tmpPath: tmp.Name()}
	e.cmd = exec.Command(config.ffmpeg(), e.args()...)
	e.cmd.Stderr = &e.stderr

	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		os.Remove(e.tmpPath)
		return nil, fmt.Errorf("%w: failed to create pipe: %w", ErrEncoding, err)
	}
	if err := e.cmd.Start(); err != nil {
		os.Remove(e.tmpPath)
		return nil, fmt.Errorf("%w: failed to start ffmpeg: %w", ErrEncoding, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewFFmpeg",
		"encoder":  spec.name,
		"size":     fmt.Sprintf("%dx%d", config.Width, config.Height),
		"fps":      config.Framerate,
		"output":   config.OutputPath,
	}).Debug("Started ffmpeg")

	return e, nil
}

// args builds the ffmpeg command line. Odd dimensions are padded to even
// ones because 4:2:0 chroma subsampling needs them.
func (e *FFmpeg) args() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	args = append(args, e.encoder.device...)
	args = append(args,
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", e.config.Width, e.config.Height),
		"-framerate", strconv.Itoa(e.config.Framerate),
		"-i", "pipe:0",
	)
	if e.config.AudioPath != "" {
		args = append(args, "-i", e.config.AudioPath, "-map", "0:v:0", "-map", "1:a:0")
	}

	filter := "pad=ceil(iw/2)*2:ceil(ih/2)*2"
	if e.encoder.filter != "" {
		filter += "," + e.encoder.filter
	}
	args = append(args, "-vf", filter, "-c:v", e.encoder.name)
	args = append(args, e.encoder.codecArgs...)

	if e.config.AudioPath != "" {
		args = append(args, "-c:a", "aac", "-b:a", "192k", "-shortest")
	} else {
		args = append(args, "-an")
	}
	return append(args, "-movflags", "+faststart", e.tmpPath)
}

// WriteFrame sends one frame to ffmpeg.
func (e *FFmpeg) WriteFrame(img *image.RGBA) error {
	if e.done {
		return fmt.Errorf("%w: encoder already finished", ErrEncoding)
	}
	if err := checkFrame(img, e.config.Width, e.config.Height); err != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrEncoding, e.frames, err)
	}

	rowBytes := e.config.Width * 4
	if img.Stride == rowBytes {
		if _, err := e.stdin.Write(img.Pix[:rowBytes*e.config.Height]); err != nil {
			return e.pipeError(err)
		}
	} else {
		for y := 0; y < e.config.Height; y++ {
			off := y * img.Stride
			if _, err := e.stdin.Write(img.Pix[off : off+rowBytes]); err != nil {
				return e.pipeError(err)
			}
		}
	}

	e.frames++
	return nil
}

// pipeError reaps ffmpeg after a failed write, which usually means it
// exited early, and reports its stderr.
func (e *FFmpeg) pipeError(err error) error {
	e.done = true
	e.stdin.Close()
	e.cmd.Wait()
	os.Remove(e.tmpPath)
	return fmt.Errorf("%w: writing frame %d: %w%s", ErrEncoding, e.frames, err, e.stderrSummary())
}

// Close flushes ffmpeg, waits for it and moves the video into place.
func (e *FFmpeg) Close() error {
	if e.done {
		return nil
	}
	e.done = true

	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		os.Remove(e.tmpPath)
		return fmt.Errorf("%w: ffmpeg: %w%s", ErrEncoding, err, e.stderrSummary())
	}
	if err := os.Rename(e.tmpPath, e.config.OutputPath); err != nil {
		os.Remove(e.tmpPath)
		return fmt.Errorf("%w: failed to move output into place: %w", ErrEncoding, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"frames":   e.frames,
		"output":   e.config.OutputPath,
	}).Debug("Finished encoding")

	return nil
}

// Abort kills ffmpeg and removes the partial output.
func (e *FFmpeg) Abort() error {
	if e.done {
		return nil
	}
	e.done = true

	e.stdin.Close()
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()

	logrus.WithFields(logrus.Fields{
		"function": "Abort",
		"frames":   e.frames,
	}).Debug("Aborted encoding")

	if err := os.Remove(e.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to remove partial output: %w", ErrEncoding, err)
	}
	return nil
}

// Frames returns the number of frames written so far.
func (e *FFmpeg) Frames() int {
	return e.frames
}

func (e *FFmpeg) stderrSummary() string {
	msg := strings.TrimSpace(e.stderr.String())
	if msg == "" {
		return ""
	}
	if len(msg) > stderrTail {
		msg = msg[len(msg)-stderrTail:]
	}
	return "\n" + msg
}
