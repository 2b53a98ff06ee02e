package types

import (
	"pdfmark/internal/domain"
	"pdfmark/internal/ui/services/navigation"
	"pdfmark/internal/ui/services/search"
)

// Page navigation actions
type PageAction struct {
	Direction string // "next", "prev", "first", "last"
}

func (a PageAction) Type() string { return "page" }

type ScrollAction struct {
	Direction navigation.Direction
}

func (a ScrollAction) Type() string { return "scroll" }

type ZoomAction struct {
	Op string // "in", "out", "fit-width", "fit-page"
}

func (a ZoomAction) Type() string { return "zoom" }

type RotateAction struct {
	Clockwise bool
}

func (a RotateAction) Type() string { return "rotate" }

// Annotation actions
type StartAnnotateAction struct {
	Kind domain.MarkupKind
}

func (a StartAnnotateAction) Type() string { return "start_annotate" }

// DefaultAnnotateAction starts annotating with the configured default kind
type DefaultAnnotateAction struct{}

func (a DefaultAnnotateAction) Type() string { return "default_annotate" }

type CancelAnnotateAction struct{}

func (a CancelAnnotateAction) Type() string { return "cancel_annotate" }

type UndoAction struct{}

func (a UndoAction) Type() string { return "undo" }

type ClearPageAction struct{}

func (a ClearPageAction) Type() string { return "clear_page" }

// Search actions
type SearchNavigateAction struct {
	Action search.Action
}

func (a SearchNavigateAction) Type() string { return "search_navigate" }

// Sidecar actions
type SaveAction struct{}

func (a SaveAction) Type() string { return "save" }

type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Pager actions
type ShowMarkupsAction struct{}

func (a ShowMarkupsAction) Type() string { return "show_markups" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
