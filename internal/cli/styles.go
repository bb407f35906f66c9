package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Palette, one colour per effect it evokes. The help printer uses the same
// colours as the status output.
var (
	pulseRed    = lipgloss.Color("#E0245E") // Scale pulse
	glowAmber   = lipgloss.Color("#FFB347") // Glow
	hueViolet   = lipgloss.Color("#9B5DE5") // Hue shift
	vignetteInk = lipgloss.Color("#7A7393") // Vignette shadow, for subtle text
	beatTeal    = lipgloss.Color("#2EC4B6") // Success
	titleGold   = lipgloss.Color("#F8B31D") // Default thumbnail title colour
	textColor   = lipgloss.Color("#FFFFFF")
)

// Output styles, exported for the CLI entry point
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pulseRed).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(vignetteInk).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(glowAmber).
			MarginTop(1).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(beatTeal)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pulseRed)

	// Values worth noticing: warnings, the default preset
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(titleGold)

	KeyStyle = lipgloss.NewStyle().
			Foreground(vignetteInk)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Framed render summary
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pulseRed).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// Tagline describes the tool in one line.
const Tagline = "Turn a still image and a track into a video that pulses, shakes and glows with the music."

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Println(TitleStyle.Render("Pulsefire 🔥"))
	fmt.Println(SubtitleStyle.Render(Tagline))
	fmt.Println()
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Pulsefire 🔥"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed formats encoding speed
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx realtime", speed)
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Println(BoxStyle.Render(content))
}

// PresetInfo is one row of the preset listing.
type PresetInfo struct {
	Name        string
	Description string
	Default     bool
}

// PrintPresets lists the presets with their descriptions, marking the default.
func PrintPresets(presets []PresetInfo) {
	var b strings.Builder
	writeSection(&b, presetSection(presets))
	fmt.Print(b.String())
}

// RenderSummary holds the figures shown after a non-interactive render.
type RenderSummary struct {
	Output    string
	Preset    string
	Encoder   string
	Frames    int
	FPS       int
	Elapsed   time.Duration
	FileSize  int64
	Thumbnail string
}

// PrintRenderSummary prints a summary in a box
func PrintRenderSummary(s RenderSummary) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Rendering Complete!"))
	b.WriteString("\n\n")

	video := time.Duration(s.Frames) * time.Second / time.Duration(max(s.FPS, 1))
	speed := 0.0
	if s.Elapsed > 0 {
		speed = float64(video) / float64(s.Elapsed)
	}

	rows := [][2]string{
		{"Output:    ", s.Output},
		{"Preset:    ", s.Preset},
		{"Encoder:   ", s.Encoder},
		{"Video:     ", fmt.Sprintf("%d frames at %d fps (%s)", s.Frames, s.FPS, FormatDuration(video))},
		{"Speed:     ", FormatSpeed(speed)},
	}
	if s.FileSize > 0 {
		rows = append(rows, [2]string{"File Size: ", FormatBytes(s.FileSize)})
	}
	if s.Thumbnail != "" {
		rows = append(rows, [2]string{"Thumbnail: ", s.Thumbnail})
	}

	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(KeyStyle.Render(row[0]))
		b.WriteString(ValueStyle.Render(row[1]))
	}

	PrintBox(b.String())
}
