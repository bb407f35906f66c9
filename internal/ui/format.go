package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// meterColours runs from ember to gold.
var meterColours = []lipgloss.Color{
	lipgloss.Color("#8B0000"), // Dark red
	lipgloss.Color("#A52A2A"), // Brown-red
	lipgloss.Color("#CD5C5C"), // Indian red
	lipgloss.Color("#DC143C"), // Crimson
	lipgloss.Color("#FF6347"), // Tomato
	lipgloss.Color("#FF7F50"), // Coral
	lipgloss.Color("#FFA07A"), // Light salmon
	lipgloss.Color("#FFD700"), // Gold
}

// makeGradientBar draws a level meter filled to ratio of width.
func makeGradientBar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	filled = max(0, min(filled, width))

	var result strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			pos := float64(i) / float64(width)
			idx := min(int(pos*float64(len(meterColours)-1)), len(meterColours)-1)
			result.WriteString(lipgloss.NewStyle().Foreground(meterColours[idx]).Render("█"))
		} else {
			result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#2A2A2A")).Render("░"))
		}
	}
	return result.String()
}

// renderEnvelope draws values in [0, 1] as a two-row block graph at most
// width columns wide. Each column shows the peak of the values it covers,
// and the column holding marker (an index into values, -1 for none) is
// drawn in white.
func renderEnvelope(values []float64, width, marker int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	width = min(width, len(values))

	columns := make([]float64, width)
	markerCol := -1
	for i, v := range values {
		col := i * width / len(values)
		columns[col] = max(columns[col], v)
		if i == marker {
			markerCol = col
		}
	}

	style := func(col int, level float64) lipgloss.Style {
		if col == markerCol {
			return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
		}
		idx := min(int(level*float64(len(meterColours)-1)), len(meterColours)-1)
		return lipgloss.NewStyle().Foreground(meterColours[max(idx, 0)])
	}

	var result strings.Builder

	// Top row shows the portion above one half
	for col, level := range columns {
		if level > 0.5 {
			idx := min(int((level-0.5)*2*float64(len(blocks)-1)), len(blocks)-1)
			result.WriteString(style(col, level).Render(string(blocks[idx])))
		} else {
			result.WriteString(" ")
		}
	}
	result.WriteString("\n")

	for col, level := range columns {
		idx := len(blocks) - 1
		if level < 0.5 {
			idx = max(0, min(int(level*2*float64(len(blocks)-1)), len(blocks)-1))
		}
		result.WriteString(style(col, level).Render(string(blocks[idx])))
	}

	return result.String()
}
