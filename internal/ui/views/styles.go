package views

import (
	"github.com/charmbracelet/lipgloss"

	"pdfmark/internal/domain"
)

// Paper is the background colour of a displayed page
var Paper = domain.Color{R: 250, G: 250, B: 245, A: 255}

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	Prompt        lipgloss.Style
	Counter       lipgloss.Style
	Mode          lipgloss.Style
	Dirty         lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Page          lipgloss.Style
	Margin        lipgloss.Style
	SearchMatch   lipgloss.Color
	SearchCurrent lipgloss.Color
	Selection     lipgloss.Color
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Help:          lipgloss.NewStyle().Faint(true),
		Prompt:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Counter:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Mode:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")).Padding(0, 1),
		Dirty:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Page:          lipgloss.NewStyle().Foreground(lipgloss.Color("#202020")).Background(lipgloss.Color(Paper.Hex())),
		Margin:        lipgloss.NewStyle(),
		SearchMatch:   lipgloss.Color("#ffb86c"),
		SearchCurrent: lipgloss.Color("#ff5f00"),
		Selection:     lipgloss.Color("#87afff"),
	}
}

// cellStyle turns a cell's paint into a lipgloss style. The rubber band
// wins over the current match, which wins over other matches and markups.
func (s *Styles) cellStyle(p Paint) lipgloss.Style {
	if !p.OnPage && p.Background.A == 0 && !p.Selection {
		return s.Margin
	}
	st := s.Page
	if p.Background.A > 0 {
		st = st.Background(lipgloss.Color(p.Background.Hex()))
	}
	if p.Foreground.A > 0 {
		st = st.Foreground(lipgloss.Color(p.Foreground.Hex()))
	}
	if p.Underline {
		st = st.Underline(true)
	}
	if p.Strike {
		st = st.Strikethrough(true)
	}
	switch {
	case p.Selection:
		st = st.Background(s.Selection)
	case p.Current:
		st = st.Background(s.SearchCurrent).Bold(true)
	case p.Match:
		st = st.Background(s.SearchMatch)
	}
	return st
}
