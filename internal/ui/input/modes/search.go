package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pdfmark/internal/ui/input/types"
	"pdfmark/internal/ui/services/search"
)

// searchKeys recognizes the keys of the search bar. What each action does
// is decided by the search service's dispatch table.
var searchKeys = map[string]search.Action{
	"enter":     search.ActionNext,
	"ctrl+n":    search.ActionNext,
	"down":      search.ActionNext,
	"tab":       search.ActionNext,
	"ctrl+p":    search.ActionPrev,
	"up":        search.ActionPrev,
	"shift+tab": search.ActionPrev,
	"esc":       search.ActionClose,
}

// SearchMode edits the query live. The bar stays open while stepping
// through matches; esc closes it and clears the results, ctrl+g leaves
// the bar and keeps them.
type SearchMode struct {
	lineField
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		lineField: newLineField(types.ModeSearch, "search", "Search: ", ti),
	}
}

// Enter reopens the bar with the current query
func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	m.lineField.Enter(ctx)
	if q := ctx.SearchQuery(); q != "" {
		m.set(q)
	}
	return nil
}

// Exit keeps the query so reopening the bar shows it
func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	if m.input != nil {
		m.input.Blur()
	}
	return nil
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "ctrl+g":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}

	action, ok := searchKeys[msg.String()]
	if !ok {
		return nil, false
	}
	actions := []types.Action{types.SearchNavigateAction{Action: action}}
	if action == search.ActionClose {
		actions = append(actions, types.ChangeModeAction{Mode: types.ModeNormal})
	}
	return actions, true
}
