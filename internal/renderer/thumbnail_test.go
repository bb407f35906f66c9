package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// TestGenerateThumbnail renders posters with and without a title and checks
// that the PNG decodes at the frame's resolution.
func TestGenerateThumbnail(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 640, 360))
	for i := 3; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = 255
	}
	yellow := color.RGBA{R: 248, G: 179, B: 29, A: 255}

	testCases := []struct {
		name  string
		title string
	}{
		{"no title", ""},
		{"one word", "Pulse"},
		{"several words", "High Precision Solid Metal Balls"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "poster.png")
			if err := GenerateThumbnail(out, frame, tc.title, yellow); err != nil {
				t.Fatalf("GenerateThumbnail failed: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatalf("thumbnail not written: %v", err)
			}
			defer f.Close()

			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds() != frame.Bounds() {
				t.Errorf("bounds = %v, want %v", img.Bounds(), frame.Bounds())
			}

			// A title puts coloured pixels into the otherwise black top half
			lit := false
			for y := 0; y < 180 && !lit; y++ {
				for x := 0; x < 640; x++ {
					if r, _, _, _ := img.At(x, y).RGBA(); r>>8 > 100 {
						lit = true
						break
					}
				}
			}
			if lit != (tc.title != "") {
				t.Errorf("title drawn = %v, want %v", lit, tc.title != "")
			}
		})
	}
}

func TestSplitTitle(t *testing.T) {
	testCases := []struct {
		title, line1, line2 string
	}{
		{"", "", ""},
		{"Solo", "Solo", ""},
		{"Panache, for Men", "Panache,", "for Men"},
		{"a b c d", "a b", "c d"},
	}

	for _, tc := range testCases {
		l1, l2 := splitTitle(tc.title)
		if l1 != tc.line1 || l2 != tc.line2 {
			t.Errorf("splitTitle(%q) = (%q, %q), want (%q, %q)", tc.title, l1, l2, tc.line1, tc.line2)
		}
	}
}
