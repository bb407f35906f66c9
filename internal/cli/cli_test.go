package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		n    int64
		want string
	}{
		{100, "100 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tc := range testCases {
		if got := FormatBytes(tc.n); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(250 * time.Millisecond); got != "250ms" {
		t.Errorf("got %q", got)
	}
	if got := FormatDuration(2500 * time.Millisecond); got != "2.5s" {
		t.Errorf("got %q", got)
	}
}

func TestStyledHelpPrinter(t *testing.T) {
	var cli struct {
		Audio  string `help:"Input audio file" placeholder:"FILE" group:"input"`
		Preset string `short:"p" help:"Effect preset" default:"energetic" group:"effects"`
		Output string `help:"Output video file" enum:"a.mp4,b.mp4" default:"a.mp4" group:"output"`
		Quiet  bool   `help:"Suppress progress output"`
	}
	presets := []PresetInfo{
		{Name: "energetic", Description: "Punchy all-rounder", Default: true},
		{Name: "noir", Description: "Black and white"},
	}

	var out bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("pulsefire"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
		kong.ExplicitGroups([]kong.Group{
			{Key: "input", Title: "Input"},
			{Key: "effects", Title: "Effects"},
			{Key: "output", Title: "Output"},
		}),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{Compact: true}, presets)),
	)
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	parser.Parse([]string{"--help"})

	help := out.String()
	for _, want := range []string{
		"pulsefire --audio=FILE --image=FILE [flags]",
		"--audio=FILE",
		"-p, --preset",
		"default: energetic",
		"one of a.mp4, b.mp4; default: a.mp4",
		"--quiet",
		"Punchy all-rounder",
		"(default)",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}

	// Sections follow group order, ungrouped flags and presets come last
	order := []string{"Input:", "Effects:", "Output:", otherSection + ":", "Presets:"}
	last := -1
	for _, title := range order {
		i := strings.Index(help, title)
		if i < 0 {
			t.Fatalf("help output missing section %q:\n%s", title, help)
		}
		if i < last {
			t.Errorf("section %q out of order:\n%s", title, help)
		}
		last = i
	}
	if strings.Index(help, "--quiet") < strings.Index(help, otherSection+":") {
		t.Errorf("ungrouped flag listed before the %s section", otherSection)
	}
}

func TestPresetSection(t *testing.T) {
	section := presetSection([]PresetInfo{
		{Name: "subtle", Description: "Gentle"},
		{Name: "bass", Description: "Low end", Default: true},
	})

	if section.title != "Presets" || len(section.rows) != 2 {
		t.Fatalf("presetSection = %+v", section)
	}
	if section.rows[0].note != "" {
		t.Errorf("non-default preset has note %q", section.rows[0].note)
	}
	if section.rows[1].note != "(default)" {
		t.Errorf("default preset note = %q, want (default)", section.rows[1].note)
	}
}
