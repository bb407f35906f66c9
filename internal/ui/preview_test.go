package ui

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

// TestDownsampleFrame verifies that a frame split into a red left half and
// a blue right half downsamples to the same split.
func TestDownsampleFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 80, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 40 {
				c = color.RGBA{B: 255, A: 255}
			}
			frame.SetRGBA(x, y, c)
		}
	}

	preview := DownsampleFrame(frame, PreviewConfig{Width: 8, Height: 2})

	if len(preview) != 4 || len(preview[0]) != 8 {
		t.Fatalf("preview is %dx%d, want 8x4 pixels", len(preview[0]), len(preview))
	}
	for _, row := range preview {
		if row[0] != (color.RGBA{R: 255, A: 255}) {
			t.Errorf("left cell = %v, want red", row[0])
		}
		if row[7] != (color.RGBA{B: 255, A: 255}) {
			t.Errorf("right cell = %v, want blue", row[7])
		}
	}
}

func TestDownsampleFrame_LargerThanSource(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 4, 2))
	preview := DownsampleFrame(frame, PreviewConfig{Width: 10, Height: 3})
	if len(preview) != 6 || len(preview[0]) != 10 {
		t.Fatalf("preview is %dx%d, want 10x6", len(preview[0]), len(preview))
	}
}

func TestPreviewConfigFor(t *testing.T) {
	cfg := PreviewConfigFor(image.Rect(0, 0, 1920, 1080))
	if cfg.Width != 48 {
		t.Errorf("width = %d, want 48", cfg.Width)
	}
	// 48 columns of 16:9 is 27 pixel rows, so 14 cell rows
	if cfg.Height != 14 {
		t.Errorf("height = %d, want 14", cfg.Height)
	}

	if got := PreviewConfigFor(image.Rectangle{}); got.Height != 1 {
		t.Errorf("empty bounds height = %d, want 1", got.Height)
	}
}

func TestRenderPreview(t *testing.T) {
	if RenderPreview(nil) != "" {
		t.Error("empty preview should render nothing")
	}

	preview := DownsampleFrame(image.NewRGBA(image.Rect(0, 0, 16, 10)), PreviewConfig{Width: 4, Height: 2})
	out := RenderPreview(preview)

	// Header, top border, two cell rows, bottom border
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Errorf("rendered %d lines, want 5", lines)
	}
	if strings.Count(out, "▀") != 8 {
		t.Errorf("expected 8 half-block cells")
	}
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{125 * time.Second, "2m05s"},
	}
	for _, tc := range testCases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3072.0 GB"},
	}
	for _, tc := range testCases {
		if got := formatBytes(tc.n); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestModel_Phases(t *testing.T) {
	m := NewModel(false)
	if m.Phase() != PhaseAnalysis {
		t.Fatalf("new model phase = %v", m.Phase())
	}

	m.Update(AnalysisProgress{Window: 5, TotalWindows: 10})
	if !strings.Contains(m.View(), "50%") {
		t.Errorf("analysis view missing percentage")
	}

	m.Update(AnalysisComplete{Duration: 2 * time.Second, SampleRate: 44100, FPS: 30, FrameCount: 60, Envelope: make([]float64, 60)})
	if m.Phase() != PhaseRendering {
		t.Fatalf("phase after analysis = %v, want rendering", m.Phase())
	}

	preview := DownsampleFrame(image.NewRGBA(image.Rect(0, 0, 16, 9)), PreviewConfig{Width: 4, Height: 2})
	m.Update(RenderProgress{Frame: 30, TotalFrames: 60, Elapsed: time.Second, Preview: preview, Preset: "energetic"})
	view := m.View()
	if !strings.Contains(view, "Frame 30 of 60") || !strings.Contains(view, "Video Preview") {
		t.Errorf("rendering view incomplete:\n%s", view)
	}

	if !m.Interrupted() {
		t.Error("model reports completion before RenderComplete")
	}
	_, cmd := m.Update(RenderComplete{OutputFile: "out.mp4", TotalFrames: 60, TotalTime: time.Second})
	if cmd == nil {
		t.Error("completion should schedule a quit")
	}
	if m.Interrupted() || m.Phase() != PhaseComplete {
		t.Error("model not complete after RenderComplete")
	}
	if !strings.Contains(m.CompletionSummary(), "out.mp4") {
		t.Error("summary missing output path")
	}
}

func TestModel_NoPreview(t *testing.T) {
	m := NewModel(true)
	m.Update(AnalysisComplete{FPS: 30})
	preview := DownsampleFrame(image.NewRGBA(image.Rect(0, 0, 16, 9)), PreviewConfig{Width: 4, Height: 2})
	m.Update(RenderProgress{Frame: 1, TotalFrames: 2, Preview: preview})
	if strings.Contains(m.View(), "Video Preview") {
		t.Error("preview shown despite noPreview")
	}
}

func TestModel_Failure(t *testing.T) {
	m := NewModel(false)
	_, cmd := m.Update(RenderFailed{Err: errors.New("boom")})
	if cmd == nil {
		t.Error("failure should quit")
	}
	if !m.Interrupted() || m.CompletionSummary() != "" {
		t.Error("failed model must not report completion")
	}
}
