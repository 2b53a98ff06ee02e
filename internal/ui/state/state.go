package state

import (
	"github.com/pkg/errors"

	"pdfmark/internal/domain"
	"pdfmark/internal/ui/views"
)

// AppState contains the UI state that is not owned by the document session
type AppState struct {
	// Status bar
	StatusMessage string
	StatusLevel   views.StatusLevel

	// UI state
	Dragging  bool // mouse button held since a press on a page
	QuitArmed bool // a quit was refused once because of unsaved markups
	Quitting  bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{}
}

// SetStatus replaces the status bar message
func (s *AppState) SetStatus(level views.StatusLevel, msg string) {
	s.StatusLevel = level
	s.StatusMessage = msg
}

// SetInfo shows a neutral message
func (s *AppState) SetInfo(msg string) {
	s.SetStatus(views.StatusInfo, msg)
}

// SetSuccess shows a success message
func (s *AppState) SetSuccess(msg string) {
	s.SetStatus(views.StatusSuccess, msg)
}

// SetError shows err. Stale page references are warnings: the markups
// were loaded, some just cannot be shown.
func (s *AppState) SetError(err error) {
	if err == nil {
		return
	}
	var stale *domain.StaleError
	if errors.As(err, &stale) || errors.Is(err, domain.ErrUnsavedMarkups) {
		s.SetStatus(views.StatusWarning, err.Error())
		return
	}
	s.SetStatus(views.StatusError, err.Error())
}

// ClearStatus empties the status bar
func (s *AppState) ClearStatus() {
	s.SetStatus(views.StatusInfo, "")
}
