package ui

import (
	"pdfmark/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// ShutdownMsg asks the UI to quit from outside, on a signal. Markups are
// autosaved when configured; unsaved ones are otherwise dropped.
type ShutdownMsg struct{}

// pagerMsg reports that the ov pager exited
type pagerMsg struct {
	err error
}
