package formats

import (
	"fmt"
	"strings"

	"wake/internal/engine/report"
	"wake/internal/engine/symbols"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)
)

// GenerateText renders the classic report: an optional import paths section
// followed by one line per unused symbol.
func GenerateText(r *report.Result, color bool) string {
	var buf strings.Builder

	if paths := r.ImportPaths(); len(paths) > 0 {
		buf.WriteString(paint(headerStyle, "Import paths:", color))
		buf.WriteString("\n")
		for _, p := range paths {
			buf.WriteString(" " + p + "\n")
		}
	}

	for _, occ := range r.Unused() {
		buf.WriteString(textLine(occ, color))
		buf.WriteString("\n")
	}
	return buf.String()
}

func textLine(occ symbols.Occurrence, color bool) string {
	if !color {
		return fmt.Sprintf("%s:%d: Unused %s '%s'", occ.File, occ.Line, occ.Kind, occ.Name)
	}
	return fmt.Sprintf("%s: %s '%s'",
		locationStyle.Render(fmt.Sprintf("%s:%d", occ.File, occ.Line)),
		kindStyle.Render("Unused "+occ.Kind.String()),
		nameStyle.Render(occ.Name))
}

func paint(style lipgloss.Style, s string, color bool) string {
	if !color {
		return s
	}
	return style.Render(s)
}
