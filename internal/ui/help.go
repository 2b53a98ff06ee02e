package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"pdfmark/internal/domain"
	"pdfmark/internal/ui/commands"
	"pdfmark/internal/ui/input/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var helpSections = []string{"Pages & view", "View transforms", "Markups", "Search, files & other"}

// RenderHelpContent builds the help page shown in the pager
func RenderHelpContent(keys types.KeyMap) string {
	var help strings.Builder

	help.WriteString(titleStyle.Render("pdfmark Help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		if i < len(helpSections) {
			help.WriteString(sectionStyle.Render(helpSections[i]))
			help.WriteString("\n")
		}
		writeBindings(&help, group)
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %-12s  %s\n", keyStyle.Render("drag"), descStyle.Render("select the area to mark after H/U/S/a")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search bar"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %-12s  %s\n", keyStyle.Render("enter/tab"), descStyle.Render("Next match")))
	help.WriteString(fmt.Sprintf("  %-12s  %s\n", keyStyle.Render("shift+tab"), descStyle.Render("Previous match")))
	help.WriteString(fmt.Sprintf("  %-12s  %s\n", keyStyle.Render("ctrl+g"), descStyle.Render("Leave the bar, keep matches")))
	help.WriteString(fmt.Sprintf("  %-12s  %s\n", keyStyle.Render("esc"), descStyle.Render("Close search")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Commands (:)"))
	help.WriteString("\n")
	for _, line := range strings.Split(commands.Usage, "\n") {
		help.WriteString("  " + descStyle.Render(line) + "\n")
	}

	return help.String()
}

func writeBindings(b *strings.Builder, bindings []key.Binding) {
	for _, kb := range bindings {
		h := kb.Help()
		if h.Key == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-12s  %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
	}
}

// RenderMarkupListing lists every markup in paint order. Markups that
// point past the last page are flagged instead of hidden.
func RenderMarkupListing(path string, markups []domain.Markup, pageCount int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Markups in %s (%d)", path, len(markups))))
	b.WriteString("\n")

	if len(markups) == 0 {
		b.WriteString(descStyle.Render("No markups yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i, m := range markups {
		bounds := m.Bounds()
		line := fmt.Sprintf("%4d  page %-4d %-10s %s  %d quad(s)  %s",
			i+1, m.Page+1, m.Kind, m.Color.HexRGBA(), len(m.Quads), bounds)
		if m.Page >= pageCount {
			line += "  " + warnStyle.Render(fmt.Sprintf("[stale: document has %d pages]", pageCount))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
