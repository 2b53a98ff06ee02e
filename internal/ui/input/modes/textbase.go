package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"pdfmark/internal/ui/input/types"
)

// lineField is the part the search bar and the command prompt share: one
// line of the handler's text input under a label the view draws itself.
type lineField struct {
	mode  types.Mode
	name  string
	label string
	input *textinput.Model
}

func newLineField(mode types.Mode, name, label string, ti *textinput.Model) lineField {
	return lineField{mode: mode, name: name, label: label, input: ti}
}

func (f lineField) Name() string { return f.name }

// Prompt is the label drawn in front of the field
func (f lineField) Prompt() string { return f.label }

// Enter starts from an empty, focused field
func (f lineField) Enter(types.Context) []types.Action {
	if f.input == nil {
		return nil
	}
	f.input.Reset()
	f.input.Prompt = ""
	f.input.Focus()
	return nil
}

func (f lineField) Exit(types.Context) []types.Action {
	if f.input != nil {
		f.input.Blur()
		f.input.Reset()
	}
	return nil
}

// text is the typed line without surrounding blanks
func (f lineField) text() string {
	if f.input == nil {
		return ""
	}
	return strings.TrimSpace(f.input.Value())
}

func (f lineField) set(s string) {
	if f.input == nil {
		return
	}
	f.input.SetValue(s)
	f.input.CursorEnd()
}
