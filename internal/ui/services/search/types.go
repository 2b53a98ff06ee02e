package search

import "pdfmark/internal/domain"

// State holds search state. CurrentIndex is -1 when Results is empty.
type State struct {
	Query        string
	Results      []domain.MatchLocation
	CurrentIndex int
}

// Active reports whether there is a current match
func (s State) Active() bool {
	return len(s.Results) > 0 && s.CurrentIndex >= 0
}

// Action is a semantic search-bar command. Keys are mapped to actions by
// the input layer; the service maps actions to transitions.
type Action int

const (
	ActionNext Action = iota
	ActionPrev
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}
