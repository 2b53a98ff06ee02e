package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Screen rows outside the page area
const (
	HeaderRows = 1
	FooterRows = 2
)

// PageArea returns the size in cells of the page area for a terminal size
func PageArea(width, height int) (cols, rows int) {
	return max(width, 0), max(height-HeaderRows-FooterRows, 0)
}

// StatusLevel selects the colour of the status message
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	DocumentPath  string // empty when no document is open
	Page          int    // 0-based
	PageCount     int
	Zoom          float64
	ZoomMode      string
	Rotation      int
	Dirty         bool
	Annotating    string // pending markup kind, empty when idle
	SearchCounter string // empty when no search is active
	InputPrompt   string // non-empty in text modes
	InputView     string
	StatusMessage string
	StatusLevel   StatusLevel
	HelpLine      string
	Canvas        *Canvas
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.Width <= 0 || state.Height <= 0 {
		return "Loading..."
	}

	lines := make([]string, 0, state.Height)
	lines = append(lines, r.renderTitle(state))

	_, rows := PageArea(state.Width, state.Height)
	body := r.renderBody(state, rows)
	lines = append(lines, body...)

	lines = append(lines, r.renderStatus(state))
	lines = append(lines, r.styles.Help.Render(truncate(state.HelpLine, state.Width)))

	return strings.Join(lines, "\n")
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("pdfmark")
	if state.DocumentPath == "" {
		return logo
	}

	name := filepath.Base(state.DocumentPath)
	if state.Dirty {
		name += r.styles.Dirty.Render(" [+]")
	}
	left := fmt.Sprintf("%s  %s", logo, name)

	right := []string{}
	if state.Annotating != "" {
		right = append(right, r.styles.Mode.Render(strings.ToUpper(state.Annotating)))
	}
	if state.SearchCounter != "" {
		right = append(right, r.styles.Counter.Render(state.SearchCounter))
	}
	right = append(right, r.styles.Dim.Render(fmt.Sprintf("page %d/%d  %.0f%% %s  %d°",
		state.Page+1, state.PageCount, state.Zoom*100, state.ZoomMode, state.Rotation)))
	rightContent := strings.Join(right, "  ")

	padding := state.Width - lipgloss.Width(left) - lipgloss.Width(rightContent)
	if padding < 2 {
		return left + "  " + rightContent
	}
	return left + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderBody(state ViewState, rows int) []string {
	var body []string
	switch {
	case state.Canvas != nil:
		body = state.Canvas.Render(r.styles)
	case state.DocumentPath == "":
		body = []string{"", r.styles.Dim.Render("No document open. Press : and type 'open <file.pdf>'.")}
	}
	if len(body) > rows {
		body = body[:rows]
	}
	for len(body) < rows {
		body = append(body, "")
	}
	return body
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.InputPrompt != "" {
		return r.styles.Prompt.Render(state.InputPrompt) + state.InputView
	}
	var st lipgloss.Style
	switch state.StatusLevel {
	case StatusSuccess:
		st = r.styles.StatusSuccess
	case StatusWarning:
		st = r.styles.StatusWarning
	case StatusError:
		st = r.styles.StatusError
	default:
		st = r.styles.StatusInfo
	}
	// stderr from external tools can span lines; the status bar has one
	msg := strings.Join(strings.Fields(state.StatusMessage), " ")
	return st.Render(truncate(msg, state.Width))
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	rs := []rune(s)
	if width <= 1 || len(rs) < width {
		return string(rs[:min(len(rs), width)])
	}
	return string(rs[:width-1]) + "…"
}
