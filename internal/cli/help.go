package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pulseRed)

	helpTaglineStyle = lipgloss.NewStyle().
				Foreground(glowAmber).
				Italic(true)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(hueViolet)

	helpFlagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(glowAmber)

	helpNoteStyle = lipgloss.NewStyle().
			Foreground(vignetteInk).
			Italic(true)
)

// otherSection collects flags declared without a kong group.
const otherSection = "Other"

// helpRow is one line of a help section: the flag spelling, its help text
// and a dimmed note with defaults or choices.
type helpRow struct {
	left string
	help string
	note string
}

type helpSection struct {
	title string
	rows  []helpRow
}

// StyledHelpPrinter renders the flags grouped by their kong group, in the
// order the groups first appear, followed by the preset catalog so a
// --preset value can be picked straight from the help.
func StyledHelpPrinter(options kong.HelpOptions, presets []PresetInfo) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("Pulsefire 🔥"))
		sb.WriteString("\n")
		sb.WriteString(helpTaglineStyle.Render(Tagline))
		sb.WriteString("\n\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		fmt.Fprintf(&sb, "\n  %s --audio=FILE --image=FILE [flags]\n", ctx.Model.Name)

		for _, section := range flagSections(ctx.Model.Node.Flags) {
			writeSection(&sb, section)
		}

		if len(presets) > 0 {
			writeSection(&sb, presetSection(presets))
		}

		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func flagSections(flags []*kong.Flag) []helpSection {
	var sections []helpSection
	var other []helpRow
	index := make(map[string]int)

	for _, f := range flags {
		if f.Hidden {
			continue
		}
		row := flagRow(f)
		if f.Group == nil {
			other = append(other, row)
			continue
		}

		i, ok := index[f.Group.Title]
		if !ok {
			i = len(sections)
			index[f.Group.Title] = i
			sections = append(sections, helpSection{title: f.Group.Title})
		}
		sections[i].rows = append(sections[i].rows, row)
	}

	if len(other) > 0 {
		sections = append(sections, helpSection{title: otherSection, rows: other})
	}
	return sections
}

func flagRow(f *kong.Flag) helpRow {
	left := "    --" + f.Name
	if f.Short != 0 {
		left = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	}
	if !f.IsBool() && f.PlaceHolder != "" {
		left += "=" + strings.ToUpper(f.PlaceHolder)
	}

	var notes []string
	if f.Enum != "" {
		notes = append(notes, "one of "+strings.ReplaceAll(f.Enum, ",", ", "))
	}
	if f.HasDefault && !f.IsBool() && f.Default != "" {
		notes = append(notes, "default: "+f.Default)
	}

	row := helpRow{left: left, help: f.Help}
	if len(notes) > 0 {
		row.note = "(" + strings.Join(notes, "; ") + ")"
	}
	return row
}

func presetSection(presets []PresetInfo) helpSection {
	section := helpSection{title: "Presets"}
	for _, p := range presets {
		row := helpRow{left: p.Name, help: p.Description}
		if p.Default {
			row.note = "(default)"
		}
		section.rows = append(section.rows, row)
	}
	return section
}

// writeSection pads the left column before styling so escape codes do not
// throw off the alignment.
func writeSection(sb *strings.Builder, section helpSection) {
	width := 0
	for _, row := range section.rows {
		width = max(width, len(row.left))
	}

	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(section.title + ":"))
	sb.WriteString("\n")
	for _, row := range section.rows {
		sb.WriteString("  ")
		sb.WriteString(helpFlagStyle.Render(fmt.Sprintf("%-*s", width, row.left)))
		if row.help != "" {
			sb.WriteString("  ")
			sb.WriteString(row.help)
		}
		if row.note != "" {
			sb.WriteString(" ")
			sb.WriteString(helpNoteStyle.Render(row.note))
		}
		sb.WriteString("\n")
	}
}
