package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/pulsefire/internal/audio"
	"github.com/linuxmatters/pulsefire/internal/cli"
	"github.com/linuxmatters/pulsefire/internal/config"
	"github.com/linuxmatters/pulsefire/internal/effects"
	"github.com/linuxmatters/pulsefire/internal/encoder"
	"github.com/linuxmatters/pulsefire/internal/pipeline"
	"github.com/linuxmatters/pulsefire/internal/renderer"
	"github.com/linuxmatters/pulsefire/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Audio string `help:"Input audio file (wav, mp3, flac, ogg, aiff)" placeholder:"FILE" group:"input"`
	Image string `help:"Base image to animate" placeholder:"FILE" group:"input"`
	FPS   int    `name:"fps" help:"Frames per second (1-120)" default:"${default_fps}" group:"input"`

	Preset      string `short:"p" help:"Effect preset" default:"${default_preset}" group:"effects"`
	ListPresets bool   `help:"List the effect presets and exit" group:"effects"`
	Effects     string `help:"JSON file of per-effect overrides applied on top of the preset" placeholder:"FILE" group:"effects"`

	Output        string `short:"o" help:"Output video file" default:"${default_output}" placeholder:"FILE" group:"output"`
	FramesDir     string `help:"Write a PNG sequence to this directory instead of a video" placeholder:"DIR" group:"output"`
	Encoder       string `help:"Video encoder" default:"none" enum:"auto,none,nvenc,qsv,vaapi,videotoolbox" group:"output"`
	EncoderStatus bool   `help:"Probe the hardware encoders ffmpeg can use and exit" group:"output"`
	Thumbnail     bool   `help:"Also write a poster PNG of the most intense frame" group:"output"`
	Title         string `help:"Title drawn on the thumbnail" group:"output"`
	TitleColour   string `help:"Thumbnail title colour as hex" default:"${default_title_colour}" placeholder:"RRGGBB" group:"output"`

	NoPreview bool `help:"Disable video preview during rendering"`
	Quiet     bool `short:"q" help:"Only print errors"`
	Verbose   bool `short:"v" help:"Print debug logs instead of the progress UI"`
	Version   bool `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("pulsefire"),
		kong.Description(cli.Tagline),
		kong.Vars{
			"version":              version,
			"default_output":       config.DefaultOutput,
			"default_preset":       config.DefaultPreset,
			"default_fps":          strconv.Itoa(config.FPS),
			"default_title_colour": config.DefaultTitleColour,
		},
		kong.ExplicitGroups([]kong.Group{
			{Key: "input", Title: "Input"},
			{Key: "effects", Title: "Effects"},
			{Key: "output", Title: "Output"},
		}),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true}, presetInfos())),
	)

	// Handle version flag
	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if CLI.ListPresets {
		cli.PrintPresets(presetInfos())
		os.Exit(0)
	}

	if CLI.EncoderStatus {
		fmt.Print(encoder.GetEncoderStatus(ffmpegPath))
		os.Exit(0)
	}

	opts, err := buildOptions()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.interactive {
		err = runInteractive(ctx, opts)
	} else {
		err = runPlain(ctx, opts)
	}

	if errors.Is(err, renderer.ErrCancelled) {
		cli.PrintWarning("rendering cancelled, partial output removed")
		os.Exit(130)
	}
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// ffmpegPath is the encoder binary, resolved through PATH.
const ffmpegPath = "ffmpeg"

func presetInfos() []cli.PresetInfo {
	presets := effects.Presets()
	infos := make([]cli.PresetInfo, len(presets))
	for i, p := range presets {
		infos[i] = cli.PresetInfo{
			Name:        p.String(),
			Description: p.Description(),
			Default:     p.String() == config.DefaultPreset,
		}
	}
	return infos
}

// options is the validated command line.
type options struct {
	audioPath   string
	imagePath   string
	output      string
	framesDir   string
	preset      effects.Preset
	effects     effects.Config
	fps         int
	hwAccel     encoder.HWAccelType
	thumbnail   string // Empty when no thumbnail is wanted
	title       string
	titleColour color.RGBA
	noPreview   bool
	interactive bool
}

func buildOptions() (options, error) {
	if err := checkInputs(CLI.Audio, CLI.Image); err != nil {
		return options{}, err
	}

	fps := config.ClampFPS(CLI.FPS)
	if fps != CLI.FPS {
		cli.PrintWarning(fmt.Sprintf("frame rate %d out of range, using %d", CLI.FPS, fps))
	}

	preset := effects.ParsePreset(CLI.Preset)
	if !slices.Contains(effects.PresetNames(), strings.ToLower(strings.TrimSpace(CLI.Preset))) {
		cli.PrintWarning(fmt.Sprintf("unknown preset %q, using the default effects", CLI.Preset))
	}
	cfg := preset.Config()
	if CLI.Effects != "" {
		f, err := os.Open(CLI.Effects)
		if err != nil {
			return options{}, fmt.Errorf("reading effects file: %w", err)
		}
		defer f.Close()

		summary, err := effects.ParseSummary(f)
		if err != nil {
			return options{}, fmt.Errorf("%s: %w", CLI.Effects, err)
		}
		cfg = cfg.WithSummary(summary)
	}

	r, g, b, err := config.ParseHexColor(CLI.TitleColour)
	if err != nil {
		return options{}, err
	}

	opts := options{
		audioPath:   CLI.Audio,
		imagePath:   CLI.Image,
		output:      CLI.Output,
		framesDir:   CLI.FramesDir,
		preset:      preset,
		effects:     cfg,
		fps:         fps,
		hwAccel:     encoder.HWAccelType(CLI.Encoder),
		title:       CLI.Title,
		titleColour: color.RGBA{R: r, G: g, B: b, A: 255},
		noPreview:   CLI.NoPreview,
		interactive: !CLI.Quiet && !CLI.Verbose && isatty.IsTerminal(os.Stdout.Fd()),
	}

	if CLI.Thumbnail {
		opts.thumbnail = thumbnailPath(opts.output, opts.framesDir)
	}
	return opts, nil
}

// checkInputs rejects missing inputs and formats the decoders cannot read,
// before any work starts.
func checkInputs(audioPath, imagePath string) error {
	if audioPath == "" || imagePath == "" {
		return errors.New("--audio and --image are required")
	}
	for _, path := range []string{audioPath, imagePath} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input file does not exist: %s", path)
		}
	}

	if err := checkExtension("audio", audioPath, audio.SupportedExtensions()); err != nil {
		return err
	}
	return checkExtension("image", imagePath, renderer.SupportedImageExtensions)
}

func checkExtension(kind, path string, supported []string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(supported, ext) {
		return fmt.Errorf("unsupported %s format %q (supported: %s)",
			kind, ext, strings.Join(supported, ", "))
	}
	return nil
}

// thumbnailPath puts the poster beside the output: out.mp4 gets out.png,
// a frames directory gets <dir>-thumbnail.png.
func thumbnailPath(output, framesDir string) string {
	if framesDir != "" {
		return filepath.Clean(framesDir) + "-thumbnail.png"
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
}

// setupLogging routes logrus to stderr at a level chosen by --quiet and
// --verbose.
func setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch {
	case CLI.Verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case CLI.Quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// runInteractive drives the Bubbletea UI while the work runs in a goroutine.
func runInteractive(ctx context.Context, opts options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log lines would tear the UI, so hold them until it exits
	var logBuf bytes.Buffer
	logrus.SetOutput(&logBuf)
	defer func() {
		logrus.SetOutput(os.Stderr)
		io.Copy(os.Stderr, &logBuf)
	}()

	model := ui.NewModel(opts.noPreview)
	p := tea.NewProgram(model)

	done := make(chan error, 1)
	go func() {
		err := run(ctx, opts, func(msg tea.Msg) { p.Send(msg) })
		if err != nil {
			p.Send(ui.RenderFailed{Err: err})
		}
		done <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("running UI: %w", err)
	}

	// The user quit before the work finished
	if model.Interrupted() {
		cancel()
	}
	return <-done
}

// runPlain reports progress as log-style lines, or not at all with --quiet.
func runPlain(ctx context.Context, opts options) error {
	var summary cli.RenderSummary
	lastPercent := -10
	start := time.Now()

	send := func(msg tea.Msg) {
		if CLI.Quiet {
			return
		}
		switch msg := msg.(type) {
		case ui.AnalysisComplete:
			cli.PrintInfo("Audio", fmt.Sprintf("%.1fs at %d Hz, %d frames", msg.Duration.Seconds(), msg.SampleRate, msg.FrameCount))
		case ui.RenderProgress:
			if percent := msg.Frame * 100 / max(msg.TotalFrames, 1); percent/10 != lastPercent/10 {
				lastPercent = percent
				cli.PrintInfo("Rendering", fmt.Sprintf("%3d%%  frame %d of %d", percent, msg.Frame, msg.TotalFrames))
			}
		case ui.RenderComplete:
			summary.Output = msg.OutputFile
			summary.Encoder = msg.EncoderName
			summary.Frames = msg.TotalFrames
			summary.FileSize = msg.FileSize
		}
	}

	if err := run(ctx, opts, send); err != nil {
		return err
	}

	if !CLI.Quiet {
		summary.Preset = opts.preset.String()
		summary.FPS = opts.fps
		summary.Elapsed = time.Since(start)
		summary.Thumbnail = opts.thumbnail
		cli.PrintRenderSummary(summary)
	}
	return nil
}

// run analyses the audio, renders every frame and writes the optional
// thumbnail, reporting through send.
func run(ctx context.Context, opts options, send func(tea.Msg)) error {
	start := time.Now()

	analysisStart := time.Now()
	w, features, err := pipeline.Analyze(ctx, opts.audioPath, opts.fps, func(window, total int) {
		send(ui.AnalysisProgress{Window: window, TotalWindows: total, Elapsed: time.Since(analysisStart)})
	})
	if err != nil {
		return err
	}

	stats := features.Stats()
	envelope := make([]float64, features.FrameCount)
	for i := range envelope {
		envelope[i] = features.Impact(i)
	}
	send(ui.AnalysisComplete{
		Duration:     time.Duration(w.Duration() * float64(time.Second)),
		SampleRate:   w.SampleRate,
		FrameCount:   features.FrameCount,
		FPS:          features.FPS,
		MeanBass:     stats.MeanBass,
		MeanMid:      stats.MeanMid,
		MeanHigh:     stats.MeanHigh,
		PeakFrame:    stats.PeakFrame,
		Envelope:     envelope,
		AnalysisTime: time.Since(analysisStart),
	})

	base, err := renderer.LoadImage(opts.imagePath)
	if err != nil {
		return &pipeline.StageError{Stage: pipeline.StageImage, Err: err}
	}

	encoderName := "png"
	if opts.framesDir == "" {
		encoderName = "libx264"
		if hw := encoder.SelectBestEncoder(ffmpegPath, opts.hwAccel); hw != nil {
			encoderName = hw.Name
		}
	}

	previewCfg := ui.PreviewConfigFor(base.Bounds())
	reports := 0
	renderStart := time.Now()
	result, err := pipeline.Render(ctx, pipeline.RenderOptions{
		Features:   features,
		Effects:    opts.effects,
		Image:      base,
		Output:     opts.output,
		FramesDir:  opts.framesDir,
		AudioPath:  opts.audioPath,
		HWAccel:    opts.hwAccel,
		FFmpegPath: ffmpegPath,
		Progress: func(p renderer.Progress) {
			msg := ui.RenderProgress{
				Frame:       p.Frame,
				TotalFrames: p.Total,
				Elapsed:     p.Elapsed,
				Overall:     p.Latest.Overall,
				Bass:        p.Latest.Bass,
				Preset:      opts.preset.String(),
				EncoderName: encoderName,
			}
			// Downsample here: the frame is only valid during the callback
			if opts.interactive && !opts.noPreview && reports%config.PreviewEvery == 0 {
				msg.Preview = ui.DownsampleFrame(p.Latest.Image, previewCfg)
			}
			reports++
			send(msg)
		},
	})
	if err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	var thumbnailTime time.Duration
	if opts.thumbnail != "" {
		thumbStart := time.Now()
		if _, err := pipeline.WriteThumbnail(pipeline.ThumbnailOptions{
			Features:   features,
			Effects:    opts.effects,
			Image:      base,
			Output:     opts.thumbnail,
			Title:      opts.title,
			TitleColor: opts.titleColour,
		}); err != nil {
			return err
		}
		thumbnailTime = time.Since(thumbStart)
	}

	var size int64
	if info, err := os.Stat(result.Output); err == nil && !info.IsDir() {
		size = info.Size()
	}

	send(ui.RenderComplete{
		OutputFile:    result.Output,
		FileSize:      size,
		TotalFrames:   result.Frames,
		RenderTime:    renderTime,
		ThumbnailTime: thumbnailTime,
		TotalTime:     time.Since(start),
		MaskCacheSize: result.MaskCacheSize,
		EncoderName:   encoderName,
	})
	return nil
}
