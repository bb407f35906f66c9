package config

import (
	"testing"
)

// TestParseHexColor_ValidInputs verifies that ParseHexColor accepts the
// spellings users type on the command line: either case, with or without
// a leading hash, and with surrounding whitespace from shell quoting.
func TestParseHexColor_ValidInputs(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		wantR uint8
		wantG uint8
		wantB uint8
	}{
		{name: "uppercase no hash", input: "FF0000", wantR: 255},
		{name: "lowercase no hash", input: "00ff00", wantG: 255},
		{name: "with hash", input: "#0000FF", wantB: 255},
		{name: "brand yellow", input: DefaultTitleColour, wantR: 248, wantG: 179, wantB: 29},
		{name: "padded", input: "  #101010 ", wantR: 16, wantG: 16, wantB: 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, g, b, err := ParseHexColor(tc.input)
			if err != nil {
				t.Fatalf("ParseHexColor(%q) returned error: %v", tc.input, err)
			}
			if r != tc.wantR || g != tc.wantG || b != tc.wantB {
				t.Errorf("ParseHexColor(%q) = (%d, %d, %d), want (%d, %d, %d)",
					tc.input, r, g, b, tc.wantR, tc.wantG, tc.wantB)
			}
		})
	}
}

// TestParseHexColor_InvalidInputs verifies that malformed colours are
// rejected rather than silently producing black.
func TestParseHexColor_InvalidInputs(t *testing.T) {
	for _, input := range []string{"", "#", "FFF", "FF00000", "GG0000", "#12345Z"} {
		if _, _, _, err := ParseHexColor(input); err == nil {
			t.Errorf("ParseHexColor(%q) expected error, got nil", input)
		}
	}
}

// TestClampFPS verifies the frame rate bounds used by the CLI.
func TestClampFPS(t *testing.T) {
	testCases := []struct {
		in, want int
	}{
		{in: -5, want: MinFPS},
		{in: 0, want: MinFPS},
		{in: 1, want: 1},
		{in: 30, want: 30},
		{in: 120, want: 120},
		{in: 240, want: MaxFPS},
	}

	for _, tc := range testCases {
		if got := ClampFPS(tc.in); got != tc.want {
			t.Errorf("ClampFPS(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
