package ui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Fire colour palette 🔥
var (
	// Core fire colours (dark to bright)
	fireYellow  = lipgloss.Color("#FFD700") // Bright yellow
	fireOrange  = lipgloss.Color("#FF8C00") // Deep orange
	fireRed     = lipgloss.Color("#FF4500") // Orange-red
	fireCrimson = lipgloss.Color("#DC143C") // Deep crimson

	// Accent colours
	warmGray = lipgloss.Color("#B8860B") // Dark goldenrod for subtle text
)

// Phase represents the current processing phase
type Phase int

const (
	PhaseAnalysis Phase = iota
	PhaseRendering
	PhaseComplete
)

// AnalysisProgress reports STFT windows processed during Pass 1
type AnalysisProgress struct {
	Window       int
	TotalWindows int
	Elapsed      time.Duration
}

// AnalysisComplete signals completion of Pass 1 with the track's profile
type AnalysisComplete struct {
	Duration     time.Duration
	SampleRate   int
	FrameCount   int
	FPS          int
	MeanBass     float64
	MeanMid      float64
	MeanHigh     float64
	PeakFrame    int
	Envelope     []float64 // Impact level per frame
	AnalysisTime time.Duration
}

// RenderProgress represents progress updates from Pass 2 video rendering
type RenderProgress struct {
	Frame       int
	TotalFrames int
	Elapsed     time.Duration
	Overall     float64        // Overall level driving the latest frame
	Bass        float64        // Bass level driving the latest frame
	Preview     [][]color.RGBA // Downsampled latest frame; nil keeps the previous one
	Preset      string         // Preset name
	EncoderName string         // Video encoder in use (e.g., "h264_nvenc", "libx264")
}

// RenderComplete signals completion of Pass 2
type RenderComplete struct {
	OutputFile    string
	FileSize      int64
	TotalFrames   int
	RenderTime    time.Duration // Effects and encoding
	ThumbnailTime time.Duration
	TotalTime     time.Duration
	MaskCacheSize int
	EncoderName   string
}

// RenderFailed ends the UI early; the caller reports the error.
type RenderFailed struct {
	Err error
}

// AudioProfile holds the audio analysis results for display
type AudioProfile struct {
	Duration     time.Duration
	SampleRate   int
	FPS          int
	MeanBass     float64
	MeanMid      float64
	MeanHigh     float64
	PeakFrame    int
	Envelope     []float64
	AnalysisTime time.Duration
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model implements the unified Bubbletea model for both passes
type Model struct {
	progressBar progress.Model
	summaryBar  progress.Model
	phase       Phase

	// Audio profile (populated after Pass 1)
	audioProfile *AudioProfile

	// Pass 1 state
	analysisProgress AnalysisProgress

	// Pass 2 state
	renderState RenderProgress
	preview     string
	complete    *RenderComplete
	failed      error

	// Timing
	pass2StartTime time.Time

	// UI state
	width           int
	height          int
	noPreview       bool
	completionDelay time.Duration
}

// NewModel creates a new unified progress UI model
func NewModel(noPreview bool) *Model {
	// Fire gradient: deep red → orange → yellow
	p := progress.New(
		progress.WithGradient(string(fireCrimson), string(fireYellow)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	// Smaller progress bar for summary performance charts
	summaryBar := progress.New(
		progress.WithGradient(string(fireCrimson), string(fireYellow)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		summaryBar:      summaryBar,
		phase:           PhaseAnalysis,
		completionDelay: 2 * time.Second,
		noPreview:       noPreview,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case AnalysisProgress:
		m.analysisProgress = msg
		return m, nil

	case AnalysisComplete:
		m.audioProfile = &AudioProfile{
			Duration:     msg.Duration,
			SampleRate:   msg.SampleRate,
			FPS:          msg.FPS,
			MeanBass:     msg.MeanBass,
			MeanMid:      msg.MeanMid,
			MeanHigh:     msg.MeanHigh,
			PeakFrame:    msg.PeakFrame,
			Envelope:     msg.Envelope,
			AnalysisTime: msg.AnalysisTime,
		}
		// Transition to rendering phase
		m.phase = PhaseRendering
		m.pass2StartTime = time.Now()
		return m, nil

	case RenderProgress:
		m.renderState = msg
		if msg.Preview != nil && !m.noPreview {
			m.preview = RenderPreview(msg.Preview)
		}
		return m, nil

	case RenderComplete:
		m.complete = &msg
		m.phase = PhaseComplete

		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case RenderFailed:
		m.failed = msg.Err
		return m, tea.Quit

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// Phase returns the phase the model is in.
func (m *Model) Phase() Phase {
	return m.phase
}

// Interrupted reports whether the UI stopped before the render finished,
// either by the user or because of a failure.
func (m *Model) Interrupted() bool {
	return m.complete == nil
}

// View renders the UI
func (m *Model) View() string {
	if m.failed != nil {
		return ""
	}
	if m.phase == PhaseComplete {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// CompletionSummary returns the final completion summary for printing after the UI exits.
// Returns empty string if rendering is not complete.
func (m *Model) CompletionSummary() string {
	if m.complete == nil {
		return ""
	}
	return m.renderComplete()
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(fireYellow).
		Render("Pulsefire 🔥")
	s.WriteString(title)
	s.WriteString("\n")

	phaseLabel := "Pass 1: Analysing Audio"
	if m.phase != PhaseAnalysis {
		phaseLabel = "Pass 2: Rendering & Encoding"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(fireOrange).Render(phaseLabel))
	s.WriteString("\n\n")

	if m.phase == PhaseAnalysis {
		m.renderAnalysisProgress(&s)
	} else {
		m.renderRenderingProgress(&s)
	}

	// Audio Profile (always shown, placeholder if not yet available)
	s.WriteString("\n")
	m.renderAudioProfile(&s)

	if m.phase == PhaseRendering {
		s.WriteString("\n\n")
		m.renderLevels(&s)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireRed).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderAnalysisProgress(s *strings.Builder) {
	if m.analysisProgress.TotalWindows == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Decoding audio...\n"))
		return
	}

	percent := float64(m.analysisProgress.Window) / float64(m.analysisProgress.TotalWindows)
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	fmt.Fprintf(s, "  %d%%\n\n", int(percent*100))

	info := fmt.Sprintf("Window %d of %d  │  Elapsed: %s",
		m.analysisProgress.Window,
		m.analysisProgress.TotalWindows,
		formatDuration(m.analysisProgress.Elapsed))
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(info))
	s.WriteString("\n")
}

func (m *Model) renderRenderingProgress(s *strings.Builder) {
	if m.renderState.TotalFrames == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting render...\n"))
		return
	}

	percent := float64(m.renderState.Frame) / float64(m.renderState.TotalFrames)
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	fmt.Fprintf(s, "  %d%%\n\n", int(percent*100))

	elapsed := m.renderState.Elapsed
	if elapsed == 0 {
		elapsed = time.Since(m.pass2StartTime)
	}

	var estimatedTotal, eta time.Duration
	var speed float64
	if percent > 0 {
		estimatedTotal = time.Duration(float64(elapsed) / percent)
		eta = estimatedTotal - elapsed
		if elapsed > 0 {
			speed = float64(m.videoDuration(m.renderState.Frame)) / float64(elapsed)
		}
	}

	timingInfo := fmt.Sprintf("Time: %s / %s  │  Speed: %.1fx realtime  │  ETA: %s",
		formatDuration(elapsed),
		formatDuration(estimatedTotal),
		speed,
		formatDuration(eta))
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(timingInfo))
	s.WriteString("\n")

	current := fmt.Sprintf("Frame %d of %d", m.renderState.Frame, m.renderState.TotalFrames)
	if m.renderState.Preset != "" {
		current += "  │  Preset: " + m.renderState.Preset
	}
	if m.renderState.EncoderName != "" {
		current += "  │  Encoder: " + m.renderState.EncoderName
	}
	s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(current))
}

// videoDuration converts a frame count to playback time.
func (m *Model) videoDuration(frames int) time.Duration {
	fps := 30
	if m.audioProfile != nil && m.audioProfile.FPS > 0 {
		fps = m.audioProfile.FPS
	}
	return time.Duration(frames) * time.Second / time.Duration(fps)
}

func (m *Model) renderAudioProfile(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Faint(true)
	valueStyle := lipgloss.NewStyle()
	headerStyle := lipgloss.NewStyle().Faint(true).Bold(true)

	s.WriteString(headerStyle.Render("Audio"))
	s.WriteString(" │ ")

	if m.audioProfile == nil {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render("Analysing..."))
		return
	}

	p := m.audioProfile
	s.WriteString(valueStyle.Render(fmt.Sprintf("%.1fs", p.Duration.Seconds())))
	s.WriteString("  ")
	s.WriteString(valueStyle.Render(fmt.Sprintf("%.1f kHz", float64(p.SampleRate)/1000)))
	for _, band := range []struct {
		label string
		mean  float64
	}{{"Bass:", p.MeanBass}, {"Mid:", p.MeanMid}, {"High:", p.MeanHigh}} {
		s.WriteString("  ")
		s.WriteString(labelStyle.Render(band.label))
		s.WriteString(" ")
		s.WriteString(valueStyle.Render(fmt.Sprintf("%3.0f%%", band.mean*100)))
	}
}

func (m *Model) renderLevels(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Foreground(warmGray)

	s.WriteString(lipgloss.NewStyle().Foreground(fireOrange).Render("Live Levels:"))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Overall "))
	s.WriteString(makeGradientBar(m.renderState.Overall, 30))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Bass    "))
	s.WriteString(makeGradientBar(m.renderState.Bass, 30))

	if m.audioProfile != nil && len(m.audioProfile.Envelope) > 0 {
		width := 64
		if m.width > 10 {
			width = min(m.width-10, 64)
		}
		s.WriteString("\n\n")
		s.WriteString(labelStyle.Render("Impact envelope:"))
		s.WriteString("\n")
		s.WriteString(renderEnvelope(m.audioProfile.Envelope, width, m.renderState.Frame-1))
	}

	if !m.noPreview && m.preview != "" {
		s.WriteString("\n\n")
		s.WriteString(m.preview)
	}
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(fireYellow).
		Render("✓ Rendering Complete!")
	s.WriteString(title)
	s.WriteString("\n\n")

	dimLabel := lipgloss.NewStyle().Faint(true)
	c := m.complete
	videoDuration := m.videoDuration(c.TotalFrames)

	fmt.Fprintf(&s, "%s%s\n", dimLabel.Render("Output:   "), c.OutputFile)
	if c.EncoderName != "" {
		fmt.Fprintf(&s, "%s%s\n", dimLabel.Render("Encoder:  "), c.EncoderName)
	}
	fmt.Fprintf(&s, "%s%d frames\n", dimLabel.Render("Video:    "), c.TotalFrames)
	fmt.Fprintf(&s, "%s%.1fs video in %.1fs\n",
		dimLabel.Render("Duration: "),
		videoDuration.Seconds(),
		c.TotalTime.Seconds())
	if c.FileSize > 0 {
		fmt.Fprintf(&s, "%s%s\n", dimLabel.Render("Size:     "), formatBytes(c.FileSize))
	}
	s.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(fireOrange)
	labelStyle := lipgloss.NewStyle().Faint(true)
	valueStyle := lipgloss.NewStyle()
	highlightValueStyle := lipgloss.NewStyle().Foreground(fireOrange)

	row := func(label string, d time.Duration) {
		total := max(c.TotalTime.Milliseconds(), 1)
		ratio := float64(d.Milliseconds()) / float64(total)
		fmt.Fprintf(&s, "  %s%s (~%2d%%)  %s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", label)),
			valueStyle.Render(fmt.Sprintf("~%-6s", formatDuration(d))),
			int(ratio*100),
			m.summaryBar.ViewAs(ratio))
	}

	s.WriteString(headerStyle.Render("Performance Breakdown"))
	s.WriteString("\n")
	if m.audioProfile != nil {
		row("Analysis:", m.audioProfile.AnalysisTime)
	}
	row("Effects & encode:", c.RenderTime)
	if c.ThumbnailTime > 0 {
		row("Thumbnail:", c.ThumbnailTime)
	}
	if c.MaskCacheSize > 0 {
		fmt.Fprintf(&s, "  %s%s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", "Vignette masks:")),
			valueStyle.Render(fmt.Sprintf("%d cached", c.MaskCacheSize)))
	}
	fmt.Fprintf(&s, "  %s%s",
		labelStyle.Render(fmt.Sprintf("%-18s", "Total time:")),
		highlightValueStyle.Render(formatDuration(c.TotalTime)))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireOrange).
		Padding(1, 1).
		Render(s.String()) + "\n"
}
