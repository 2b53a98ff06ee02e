package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pdfmark/internal/domain"
	"pdfmark/internal/ui/input/types"
	"pdfmark/internal/ui/services/navigation"
	"pdfmark/internal/ui/services/search"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys

	// Keys that work without a document
	switch {
	case key.Matches(msg, k.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{}}, true
	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	case key.Matches(msg, k.Prompt):
		return []types.Action{types.ChangeModeAction{Mode: types.ModePrompt}}, true
	}

	if !ctx.HasDocument() {
		return nil, false
	}

	switch {
	case key.Matches(msg, k.NextPage):
		return []types.Action{types.PageAction{Direction: "next"}}, true
	case key.Matches(msg, k.PrevPage):
		return []types.Action{types.PageAction{Direction: "prev"}}, true
	case key.Matches(msg, k.FirstPage):
		return []types.Action{types.PageAction{Direction: "first"}}, true
	case key.Matches(msg, k.LastPage):
		return []types.Action{types.PageAction{Direction: "last"}}, true

	case key.Matches(msg, k.Up):
		return []types.Action{types.ScrollAction{Direction: navigation.DirectionUp}}, true
	case key.Matches(msg, k.Down):
		return []types.Action{types.ScrollAction{Direction: navigation.DirectionDown}}, true
	case key.Matches(msg, k.Left):
		return []types.Action{types.ScrollAction{Direction: navigation.DirectionLeft}}, true
	case key.Matches(msg, k.Right):
		return []types.Action{types.ScrollAction{Direction: navigation.DirectionRight}}, true

	case key.Matches(msg, k.ZoomIn):
		return []types.Action{types.ZoomAction{Op: "in"}}, true
	case key.Matches(msg, k.ZoomOut):
		return []types.Action{types.ZoomAction{Op: "out"}}, true
	case key.Matches(msg, k.FitWidth):
		return []types.Action{types.ZoomAction{Op: "fit-width"}}, true
	case key.Matches(msg, k.FitPage):
		return []types.Action{types.ZoomAction{Op: "fit-page"}}, true
	case key.Matches(msg, k.RotateCW):
		return []types.Action{types.RotateAction{Clockwise: true}}, true
	case key.Matches(msg, k.RotateCCW):
		return []types.Action{types.RotateAction{Clockwise: false}}, true

	case key.Matches(msg, k.Annotate):
		return []types.Action{types.DefaultAnnotateAction{}}, true
	case key.Matches(msg, k.Highlight):
		return []types.Action{types.StartAnnotateAction{Kind: domain.KindHighlight}}, true
	case key.Matches(msg, k.Underline):
		return []types.Action{types.StartAnnotateAction{Kind: domain.KindUnderline}}, true
	case key.Matches(msg, k.StrikeOut):
		return []types.Action{types.StartAnnotateAction{Kind: domain.KindStrikeOut}}, true
	case key.Matches(msg, k.Undo):
		return []types.Action{types.UndoAction{}}, true
	case key.Matches(msg, k.ClearPage):
		return []types.Action{types.ClearPageAction{}}, true

	case key.Matches(msg, k.Cancel):
		// Esc backs out of the innermost thing in progress
		if ctx.IsAnnotating() {
			return []types.Action{types.CancelAnnotateAction{}}, true
		}
		if ctx.SearchActive() {
			return []types.Action{types.SearchNavigateAction{Action: search.ActionClose}}, true
		}
		return nil, false

	case key.Matches(msg, k.Search):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case key.Matches(msg, k.NextMatch):
		if ctx.SearchActive() {
			return []types.Action{types.SearchNavigateAction{Action: search.ActionNext}}, true
		}
		return nil, true // Consume the key even if no action
	case key.Matches(msg, k.PrevMatch):
		if ctx.SearchActive() {
			return []types.Action{types.SearchNavigateAction{Action: search.ActionPrev}}, true
		}
		return nil, true

	case key.Matches(msg, k.Save):
		return []types.Action{types.SaveAction{}}, true
	case key.Matches(msg, k.Reload):
		return []types.Action{types.ReloadAction{}}, true
	case key.Matches(msg, k.Markups):
		return []types.Action{types.ShowMarkupsAction{}}, true
	}

	return nil, false
}
