package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDocumentOpened     EventType = "DocumentOpened"
	EventDocumentClosed     EventType = "DocumentClosed"
	EventMarkupCommitted    EventType = "MarkupCommitted"
	EventMarkupRemoved      EventType = "MarkupRemoved"
	EventSelectionDiscarded EventType = "SelectionDiscarded"
	EventMarkupsSaved       EventType = "MarkupsSaved"
	EventMarkupsLoaded      EventType = "MarkupsLoaded"
	EventStalePageReference EventType = "StalePageReference"
	EventSearchCompleted    EventType = "SearchCompleted"
	EventSearchNavigated    EventType = "SearchNavigated"
	EventSearchCleared      EventType = "SearchCleared"
	EventPageToolCompleted  EventType = "PageToolCompleted"
	EventError              EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DocumentOpenedEvent is emitted after a document is opened and state reset
type DocumentOpenedEvent struct {
	Path      string
	PageCount int
}

func (e DocumentOpenedEvent) Type() EventType { return EventDocumentOpened }

// DocumentClosedEvent is emitted when the open document is closed
type DocumentClosedEvent struct {
	Path string
}

func (e DocumentClosedEvent) Type() EventType { return EventDocumentClosed }

// MarkupCommittedEvent is emitted when a drag gesture produced a markup
type MarkupCommittedEvent struct {
	Markup Markup
	Index  int // position in the store
}

func (e MarkupCommittedEvent) Type() EventType { return EventMarkupCommitted }

// MarkupRemovedEvent is emitted by undo and clear-page
type MarkupRemovedEvent struct {
	Count int
}

func (e MarkupRemovedEvent) Type() EventType { return EventMarkupRemoved }

// SelectionDiscardedEvent is emitted when a drag ended without a markup
type SelectionDiscardedEvent struct {
	Kind   MarkupKind
	Reason string // "degenerate", "unbound" or "cancelled"
}

func (e SelectionDiscardedEvent) Type() EventType { return EventSelectionDiscarded }

// MarkupsSavedEvent is emitted after the sidecar was written
type MarkupsSavedEvent struct {
	Path     string
	Count    int
	Duration time.Duration
}

func (e MarkupsSavedEvent) Type() EventType { return EventMarkupsSaved }

// MarkupsLoadedEvent is emitted after the sidecar was read into the store
type MarkupsLoadedEvent struct {
	Path     string
	Count    int
	Duration time.Duration
}

func (e MarkupsLoadedEvent) Type() EventType { return EventMarkupsLoaded }

// StalePageReferenceEvent is emitted when loaded markups point past the last page
type StalePageReferenceEvent struct {
	Path      string
	Count     int
	Pages     []int
	PageCount int
}

func (e StalePageReferenceEvent) Type() EventType { return EventStalePageReference }

// SearchCompletedEvent is emitted after the result set was recomputed
type SearchCompletedEvent struct {
	Query      string
	MatchCount int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchNavigatedEvent is emitted when the current match changes
type SearchNavigatedEvent struct {
	OldIndex int
	NewIndex int
	Match    MatchLocation
}

func (e SearchNavigatedEvent) Type() EventType { return EventSearchNavigated }

// SearchClearedEvent is emitted when the result set becomes empty
type SearchClearedEvent struct{}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// PageToolCompletedEvent is emitted after the external page tool ran
type PageToolCompletedEvent struct {
	Tool      string
	Operation string
	Output    string
	Success   bool
	Error     error
	Duration  time.Duration
}

func (e PageToolCompletedEvent) Type() EventType { return EventPageToolCompleted }

// ErrorEvent is emitted when an operation failed
type ErrorEvent struct {
	Op      string // save, load, open, tool, ...
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
