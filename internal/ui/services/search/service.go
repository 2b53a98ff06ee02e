package search

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"pdfmark/internal/domain"
	"pdfmark/internal/eventbus"
)

// Service handles search functionality
type Service struct {
	state      *State
	bus        eventbus.EventBus
	matcherFn  func(string) []domain.MatchLocation // Function to find matches
	navigateFn func(page int, at domain.Point)     // Function to jump to a match
	actions    map[Action]func()
}

// NewService creates a new search service
func NewService(bus eventbus.EventBus) *Service {
	s := &Service{
		state: &State{CurrentIndex: -1},
		bus:   bus,
	}
	s.actions = map[Action]func(){
		ActionNext:  s.Next,
		ActionPrev:  s.Prev,
		ActionClose: s.Reset,
	}
	return s
}

// SetMatcherFunction sets the function to find matches
func (s *Service) SetMatcherFunction(fn func(string) []domain.MatchLocation) {
	s.matcherFn = fn
}

// SetNavigateFunction sets the function that moves the viewer to a match
func (s *Service) SetNavigateFunction(fn func(page int, at domain.Point)) {
	s.navigateFn = fn
}

// SetQuery replaces the result set with the matches of text. The previous
// results are always discarded, even when text did not change.
func (s *Service) SetQuery(text string) {
	hadResults := len(s.state.Results) > 0
	s.state.Query = text

	var results []domain.MatchLocation
	if text != "" && s.matcherFn != nil {
		results = s.matcherFn(text)
	}

	if len(results) == 0 {
		s.state.Results = nil
		s.state.CurrentIndex = -1
		log.Debug().Str("query", text).Msg("search has no matches")
		s.bus.Publish(eventbus.SearchCompletedEvent{Query: text})
		if hadResults {
			s.bus.Publish(eventbus.SearchClearedEvent{})
		}
		return
	}

	s.state.Results = results
	s.state.CurrentIndex = 0
	log.Debug().Str("query", text).Int("matches", len(results)).Msg("search completed")

	s.bus.Publish(eventbus.SearchCompletedEvent{Query: text, MatchCount: len(results)})
	s.navigateToCurrent(-1)
}

// Next moves to the following match, wrapping after the last
func (s *Service) Next() {
	n := len(s.state.Results)
	if n == 0 {
		return
	}
	old := s.state.CurrentIndex
	s.state.CurrentIndex = (old + 1) % n
	s.navigateToCurrent(old)
}

// Prev moves to the preceding match, wrapping before the first
func (s *Service) Prev() {
	n := len(s.state.Results)
	if n == 0 {
		return
	}
	old := s.state.CurrentIndex
	s.state.CurrentIndex = (old - 1 + n) % n
	s.navigateToCurrent(old)
}

// Dispatch runs the transition bound to action. Unknown actions are ignored.
func (s *Service) Dispatch(action Action) {
	if fn, ok := s.actions[action]; ok {
		fn()
	}
}

// Reset clears query and results
func (s *Service) Reset() {
	hadResults := len(s.state.Results) > 0
	*s.state = State{CurrentIndex: -1}
	if hadResults {
		s.bus.Publish(eventbus.SearchClearedEvent{})
	}
}

// DisplayCounter renders the 1-based position as "current/total"
func (s *Service) DisplayCounter() string {
	if !s.state.Active() {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", s.state.CurrentIndex+1, len(s.state.Results))
}

// Current returns the current match
func (s *Service) Current() (domain.MatchLocation, bool) {
	if !s.state.Active() {
		return domain.MatchLocation{}, false
	}
	return s.state.Results[s.state.CurrentIndex], true
}

// Highlight returns the box to paint for the current match. ok is false
// when nothing should be highlighted.
func (s *Service) Highlight() (page int, box domain.Rect, ok bool) {
	m, ok := s.Current()
	if !ok {
		return -1, domain.Rect{}, false
	}
	return m.Page, m.Box, true
}

// GetQuery returns the current search query
func (s *Service) GetQuery() string {
	return s.state.Query
}

// GetMatchCount returns the number of matches
func (s *Service) GetMatchCount() int {
	return len(s.state.Results)
}

// GetCurrentIndex returns the current match index, -1 when empty
func (s *Service) GetCurrentIndex() int {
	return s.state.CurrentIndex
}

// GetResults returns a copy of every match in document order
func (s *Service) GetResults() []domain.MatchLocation {
	return append([]domain.MatchLocation(nil), s.state.Results...)
}

// ResultsOnPage returns the matches on one page
func (s *Service) ResultsOnPage(page int) []domain.MatchLocation {
	var out []domain.MatchLocation
	for _, m := range s.state.Results {
		if m.Page == page {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) navigateToCurrent(old int) {
	current := s.state.Results[s.state.CurrentIndex]
	if s.navigateFn != nil {
		s.navigateFn(current.Page, current.Point)
	}
	s.bus.Publish(eventbus.SearchNavigatedEvent{
		OldIndex: old,
		NewIndex: s.state.CurrentIndex,
		Match:    current,
	})
}
