package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pdfmark/internal/ui/input/types"
)

const historySize = 50

// PromptMode reads one command line such as "goto 12" or "merge out.pdf a.pdf b.pdf".
// Up and down recall earlier lines of the session.
type PromptMode struct {
	lineField
	history []string
	recall  int // index into history while browsing, len(history) otherwise
}

func NewPromptMode(ti *textinput.Model) *PromptMode {
	return &PromptMode{lineField: newLineField(types.ModePrompt, "command", ":", ti)}
}

func (m *PromptMode) Enter(ctx types.Context) []types.Action {
	m.recall = len(m.history)
	return m.lineField.Enter(ctx)
}

func (m *PromptMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{types.CancelTextAction{}, types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "enter":
		line := m.text()
		if line == "" {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
		}
		m.remember(line)
		return []types.Action{
			types.SubmitTextAction{Text: line, Mode: m.mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "up":
		if m.recall > 0 {
			m.recall--
			m.set(m.history[m.recall])
		}
		return nil, true
	case "down":
		if m.recall < len(m.history) {
			m.recall++
		}
		if m.recall == len(m.history) {
			m.set("")
		} else {
			m.set(m.history[m.recall])
		}
		return nil, true
	}
	return nil, false
}

func (m *PromptMode) remember(line string) {
	if n := len(m.history); n > 0 && m.history[n-1] == line {
		return
	}
	m.history = append(m.history, line)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}
