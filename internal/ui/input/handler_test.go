package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmark/internal/domain"
	"pdfmark/internal/ui/input/types"
	"pdfmark/internal/ui/services/search"
)

type fakeContext struct {
	doc        bool
	annotating bool
	query      string
	matches    int
}

func (c fakeContext) HasDocument() bool   { return c.doc }
func (c fakeContext) IsAnnotating() bool  { return c.annotating }
func (c fakeContext) SearchActive() bool  { return c.matches > 0 }
func (c fakeContext) SearchQuery() string { return c.query }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNormalModeKeys(t *testing.T) {
	ctx := fakeContext{doc: true}
	tests := []struct {
		key  tea.KeyMsg
		want types.Action
	}{
		{tea.KeyMsg{Type: tea.KeyPgDown}, types.PageAction{Direction: "next"}},
		{runes("K"), types.PageAction{Direction: "prev"}},
		{runes("G"), types.PageAction{Direction: "last"}},
		{runes("+"), types.ZoomAction{Op: "in"}},
		{runes("w"), types.ZoomAction{Op: "fit-width"}},
		{runes("R"), types.RotateAction{Clockwise: false}},
		{runes("H"), types.StartAnnotateAction{Kind: domain.KindHighlight}},
		{runes("U"), types.StartAnnotateAction{Kind: domain.KindUnderline}},
		{runes("S"), types.StartAnnotateAction{Kind: domain.KindStrikeOut}},
		{runes("u"), types.UndoAction{}},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, types.SaveAction{}},
		{runes("q"), types.QuitAction{}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			h := New()
			actions, _ := h.HandleKey(tt.key, ctx)
			require.Len(t, actions, 1)
			assert.Equal(t, tt.want, actions[0])
		})
	}
}

func TestNormalModeWithoutDocument(t *testing.T) {
	h := New()
	actions, _ := h.HandleKey(runes("H"), fakeContext{})
	assert.Empty(t, actions, "annotating needs a document")

	actions, _ = h.HandleKey(runes("q"), fakeContext{})
	assert.Equal(t, []types.Action{types.QuitAction{}}, actions)
}

func TestEscapePrefersAnnotationOverSearch(t *testing.T) {
	h := New()
	esc := tea.KeyMsg{Type: tea.KeyEsc}

	actions, _ := h.HandleKey(esc, fakeContext{doc: true, annotating: true, matches: 2})
	assert.Equal(t, []types.Action{types.CancelAnnotateAction{}}, actions)

	actions, _ = h.HandleKey(esc, fakeContext{doc: true, matches: 2})
	assert.Equal(t, []types.Action{types.SearchNavigateAction{Action: search.ActionClose}}, actions)

	actions, _ = h.HandleKey(esc, fakeContext{doc: true})
	assert.Empty(t, actions)
}

func TestSearchModeRoutesKeysToActions(t *testing.T) {
	h := New()
	ctx := fakeContext{doc: true}

	actions, _ := h.HandleKey(runes("/"), ctx)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.Contains(t, actions, types.ChangeModeAction{Mode: types.ModeSearch})
	require.NotNil(t, h.TextInput())

	actions, _ = h.HandleKey(runes("f"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "f"}}, actions)
	actions, _ = h.HandleKey(runes("o"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "fo"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.SearchNavigateAction{Action: search.ActionNext}}, actions)
	assert.Equal(t, types.ModeSearch, h.CurrentMode(), "enter steps through matches")

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab}, ctx)
	assert.Equal(t, []types.Action{types.SearchNavigateAction{Action: search.ActionPrev}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SearchNavigateAction{Action: search.ActionClose}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestSearchModeReopensWithQuery(t *testing.T) {
	h := New()
	ctx := fakeContext{doc: true, query: "needle", matches: 1}

	h.HandleKey(runes("/"), ctx)
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "needle", h.TextInput().Value())

	h.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlG}, ctx)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestPromptSubmitsText(t *testing.T) {
	h := New()
	ctx := fakeContext{}

	h.HandleKey(runes(":"), ctx)
	require.Equal(t, types.ModePrompt, h.CurrentMode())
	assert.Equal(t, ":", h.Prompt())

	for _, r := range "goto 3" {
		h.HandleKey(runes(string(r)), ctx)
	}
	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SubmitTextAction{Text: "goto 3", Mode: types.ModePrompt}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func typeLine(h *Handler, ctx types.Context, line string) []types.Action {
	h.HandleKey(runes(":"), ctx)
	for _, r := range line {
		h.HandleKey(runes(string(r)), ctx)
	}
	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	return actions
}

func TestPromptBlankLineOnlyCloses(t *testing.T) {
	h := New()
	actions := typeLine(h, fakeContext{}, "   ")
	assert.Equal(t, []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestPromptRecallsEarlierLines(t *testing.T) {
	h := New()
	ctx := fakeContext{doc: true}
	typeLine(h, ctx, "goto 3")
	typeLine(h, ctx, " zoom 150 ")
	typeLine(h, ctx, "zoom 150")

	h.HandleKey(runes(":"), ctx)
	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	h.HandleKey(up, ctx)
	assert.Equal(t, "zoom 150", h.TextInput().Value())
	h.HandleKey(up, ctx)
	assert.Equal(t, "goto 3", h.TextInput().Value(), "repeated lines are kept once")
	h.HandleKey(up, ctx)
	assert.Equal(t, "goto 3", h.TextInput().Value())

	h.HandleKey(down, ctx)
	assert.Equal(t, "zoom 150", h.TextInput().Value())
	h.HandleKey(down, ctx)
	assert.Empty(t, h.TextInput().Value())

	h.HandleKey(up, ctx)
	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SubmitTextAction{Text: "zoom 150", Mode: types.ModePrompt}, actions[0])
}
