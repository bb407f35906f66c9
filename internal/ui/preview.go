package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/linuxmatters/pulsefire/internal/config"
)

// PreviewConfig holds configuration for the video preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in terminal cells; each cell shows two pixel rows
}

// PreviewConfigFor sizes the preview to config.PreviewColumns cells wide,
// keeping the frame's aspect ratio. Half-block cells are roughly square per
// pixel, so a cell row covers two pixel rows.
func PreviewConfigFor(bounds image.Rectangle) PreviewConfig {
	cols := config.PreviewColumns
	rows := 1
	if bounds.Dx() > 0 {
		rows = max(1, (cols*bounds.Dy()/bounds.Dx()+1)/2)
	}
	return PreviewConfig{Width: cols, Height: rows}
}

// DownsampleFrame takes a full-resolution frame and downsamples it to
// Width x 2*Height pixels. Each preview pixel averages the rectangular
// region of the source it covers.
func DownsampleFrame(frame *image.RGBA, cfg PreviewConfig) [][]color.RGBA {
	bounds := frame.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	rows := cfg.Height * 2

	preview := make([][]color.RGBA, rows)
	for row := 0; row < rows; row++ {
		preview[row] = make([]color.RGBA, cfg.Width)
		y0 := row * srcHeight / rows
		y1 := max(y0+1, (row+1)*srcHeight/rows)

		for col := 0; col < cfg.Width; col++ {
			x0 := col * srcWidth / cfg.Width
			x1 := max(x0+1, (col+1)*srcWidth/cfg.Width)

			var sumR, sumG, sumB, n uint32
			for y := y0; y < y1 && y < srcHeight; y++ {
				off := y*frame.Stride + x0*4
				for x := x0; x < x1 && x < srcWidth; x++ {
					sumR += uint32(frame.Pix[off])
					sumG += uint32(frame.Pix[off+1])
					sumB += uint32(frame.Pix[off+2])
					off += 4
					n++
				}
			}

			if n > 0 {
				preview[row][col] = color.RGBA{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n), A: 255}
			}
		}
	}

	return preview
}

// RenderPreview draws a preview grid with 24-bit ANSI colour. Each cell is
// an upper half block: the foreground is the top pixel and the background
// the bottom one.
func RenderPreview(preview [][]color.RGBA) string {
	if len(preview) == 0 {
		return ""
	}
	width := len(preview[0])

	var sb strings.Builder
	sb.WriteString("  Video Preview:\n")
	sb.WriteString("  ┌" + strings.Repeat("─", width) + "┐\n")

	for row := 0; row < len(preview); row += 2 {
		sb.WriteString("  │")
		for col := 0; col < width; col++ {
			top := preview[row][col]
			bottom := top
			if row+1 < len(preview) {
				bottom = preview[row+1][col]
			}
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		sb.WriteString("\x1b[0m│\n")
	}

	sb.WriteString("  └" + strings.Repeat("─", width) + "┘\n")
	return sb.String()
}
