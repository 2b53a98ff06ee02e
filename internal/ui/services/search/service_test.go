package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmark/internal/domain"
	"pdfmark/internal/eventbus"
)

type jump struct {
	page int
	at   domain.Point
}

// fooDoc has "foo" three times: twice on page 0, once on page 4
var fooDoc = []domain.MatchLocation{
	{Page: 0, Point: domain.Point{X: 72, Y: 100}},
	{Page: 0, Point: domain.Point{X: 72, Y: 300}},
	{Page: 4, Point: domain.Point{X: 90, Y: 50}},
}

func newTestService() (*Service, *eventbus.Recorder, *[]jump) {
	bus := eventbus.NewRecorder()
	s := NewService(bus)
	var jumps []jump
	s.SetMatcherFunction(func(q string) []domain.MatchLocation {
		if strings.EqualFold(q, "foo") {
			return append([]domain.MatchLocation(nil), fooDoc...)
		}
		return nil
	})
	s.SetNavigateFunction(func(page int, at domain.Point) {
		jumps = append(jumps, jump{page, at})
	})
	return s, bus, &jumps
}

func TestSearchWrapsForward(t *testing.T) {
	s, _, jumps := newTestService()

	s.SetQuery("foo")
	assert.Equal(t, "1/3", s.DisplayCounter())
	require.Len(t, *jumps, 1)
	assert.Equal(t, jump{0, domain.Point{X: 72, Y: 100}}, (*jumps)[0])

	var counters []string
	for i := 0; i < 3; i++ {
		s.Next()
		counters = append(counters, s.DisplayCounter())
	}
	assert.Equal(t, []string{"2/3", "3/3", "1/3"}, counters)
	assert.Equal(t, jump{4, domain.Point{X: 90, Y: 50}}, (*jumps)[2])
	assert.Len(t, *jumps, 4)
}

func TestSearchPrevFromFirstWrapsToLast(t *testing.T) {
	s, _, _ := newTestService()
	s.SetQuery("foo")

	s.Prev()
	assert.Equal(t, 2, s.GetCurrentIndex())
	assert.Equal(t, "3/3", s.DisplayCounter())

	m, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 4, m.Page)
}

func TestSearchNoMatchesIsEmpty(t *testing.T) {
	s, bus, jumps := newTestService()

	s.SetQuery("foo")
	s.Next()
	s.SetQuery("bar")

	assert.Equal(t, "0/0", s.DisplayCounter())
	assert.Equal(t, -1, s.GetCurrentIndex())
	_, _, ok := s.Highlight()
	assert.False(t, ok)
	assert.Len(t, bus.OfType(eventbus.EventSearchCleared), 1)

	before := len(*jumps)
	s.Next()
	s.Prev()
	assert.Equal(t, "0/0", s.DisplayCounter())
	assert.Len(t, *jumps, before, "navigation is a no-op without results")
}

func TestSearchEmptyQuery(t *testing.T) {
	s, _, jumps := newTestService()
	s.SetQuery("")
	assert.Equal(t, "0/0", s.DisplayCounter())
	assert.Empty(t, *jumps)
}

func TestSetQuerySupersedesPreviousResults(t *testing.T) {
	s, _, jumps := newTestService()
	s.SetQuery("foo")
	s.Next()
	s.Next()
	require.Equal(t, "3/3", s.DisplayCounter())

	s.SetQuery("FOO")
	assert.Equal(t, "1/3", s.DisplayCounter())
	assert.Equal(t, 0, (*jumps)[len(*jumps)-1].page)
}

func TestDispatchTable(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		want    string
	}{
		{"next", []Action{ActionNext}, "2/3"},
		{"prev", []Action{ActionPrev}, "3/3"},
		{"next prev", []Action{ActionNext, ActionPrev}, "1/3"},
		{"close", []Action{ActionNext, ActionClose}, "0/0"},
		{"unknown", []Action{Action(99)}, "1/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestService()
			s.SetQuery("foo")
			for _, a := range tt.actions {
				s.Dispatch(a)
			}
			assert.Equal(t, tt.want, s.DisplayCounter())
		})
	}
}

func TestCloseClearsQuery(t *testing.T) {
	s, bus, _ := newTestService()
	s.SetQuery("foo")
	s.Dispatch(ActionClose)

	assert.Equal(t, "", s.GetQuery())
	assert.Equal(t, 0, s.GetMatchCount())
	assert.Len(t, bus.OfType(eventbus.EventSearchCleared), 1)
}

func TestHighlightAndResultsOnPage(t *testing.T) {
	s := NewService(eventbus.NullBus{})
	s.SetMatcherFunction(func(string) []domain.MatchLocation {
		return []domain.MatchLocation{
			{Page: 1, Box: domain.Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}},
			{Page: 1, Box: domain.Rect{X0: 5, Y0: 6, X1: 7, Y1: 8}},
		}
	})
	s.SetQuery("x")

	page, box, ok := s.Highlight()
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.Equal(t, domain.Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}, box)
	assert.Len(t, s.ResultsOnPage(1), 2)
	assert.Empty(t, s.ResultsOnPage(0))
}

func TestNavigatedEventCarriesIndexes(t *testing.T) {
	s, bus, _ := newTestService()
	s.SetQuery("foo")
	s.Prev()

	nav := bus.OfType(eventbus.EventSearchNavigated)
	require.Len(t, nav, 2)
	last := nav[1].(eventbus.SearchNavigatedEvent)
	assert.Equal(t, 0, last.OldIndex)
	assert.Equal(t, 2, last.NewIndex)
}
