package logic

import (
	"sync"

	"pdfmark/internal/domain"
)

// MemoryMarkupStore is an in-memory implementation of MarkupStore
type MemoryMarkupStore struct {
	mu      sync.RWMutex
	markups []domain.Markup
}

// NewMemoryMarkupStore creates an empty store
func NewMemoryMarkupStore() *MemoryMarkupStore {
	return &MemoryMarkupStore{}
}

func (s *MemoryMarkupStore) Append(markup domain.Markup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markups = append(s.markups, markup)
}

func (s *MemoryMarkupStore) All() []domain.Markup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make([]domain.Markup, len(s.markups))
	copy(result, s.markups)
	return result
}

func (s *MemoryMarkupStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markups = nil
}

func (s *MemoryMarkupStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markups)
}

// ForPage returns the markups of one page in paint order
func (s *MemoryMarkupStore) ForPage(page int) []domain.Markup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Markup
	for _, m := range s.markups {
		if m.Page == page {
			result = append(result, m)
		}
	}
	return result
}

// RemoveLast drops the most recently appended markup
func (s *MemoryMarkupStore) RemoveLast() (domain.Markup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.markups) == 0 {
		return domain.Markup{}, false
	}
	last := s.markups[len(s.markups)-1]
	s.markups = s.markups[:len(s.markups)-1]
	return last, true
}

// RemovePage drops every markup of a page and returns how many were removed
func (s *MemoryMarkupStore) RemovePage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.markups[:0]
	removed := 0
	for _, m := range s.markups {
		if m.Page == page {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.markups = kept
	return removed
}
