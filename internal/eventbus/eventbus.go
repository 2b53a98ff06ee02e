package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog/log"

	"pdfmark/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventDocumentOpened     = domain.EventDocumentOpened
	EventDocumentClosed     = domain.EventDocumentClosed
	EventMarkupCommitted    = domain.EventMarkupCommitted
	EventMarkupRemoved      = domain.EventMarkupRemoved
	EventSelectionDiscarded = domain.EventSelectionDiscarded
	EventMarkupsSaved       = domain.EventMarkupsSaved
	EventMarkupsLoaded      = domain.EventMarkupsLoaded
	EventStalePageReference = domain.EventStalePageReference
	EventSearchCompleted    = domain.EventSearchCompleted
	EventSearchNavigated    = domain.EventSearchNavigated
	EventSearchCleared      = domain.EventSearchCleared
	EventPageToolCompleted  = domain.EventPageToolCompleted
	EventError              = domain.EventError
)

// AllEvents subscribes a handler to every event type
const AllEvents EventType = "*"

// Re-export domain event types
type DocumentOpenedEvent = domain.DocumentOpenedEvent
type DocumentClosedEvent = domain.DocumentClosedEvent
type MarkupCommittedEvent = domain.MarkupCommittedEvent
type MarkupRemovedEvent = domain.MarkupRemovedEvent
type SelectionDiscardedEvent = domain.SelectionDiscardedEvent
type MarkupsSavedEvent = domain.MarkupsSavedEvent
type MarkupsLoadedEvent = domain.MarkupsLoadedEvent
type StalePageReferenceEvent = domain.StalePageReferenceEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type SearchNavigatedEvent = domain.SearchNavigatedEvent
type SearchClearedEvent = domain.SearchClearedEvent
type PageToolCompletedEvent = domain.PageToolCompletedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// Bus is an EventBus that owns a dispatcher goroutine
type Bus interface {
	EventBus
	Close()
}

// New creates a new event bus
func New() Bus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers. It never blocks; events
// are dropped when the queue is full.
func (b *bus) Publish(event DomainEvent) {
	switch event.Type() {
	case EventSearchNavigated:
		// too frequent to be useful in the log
	default:
		log.Debug().Str("event", string(event.Type())).Msg("publishing event")
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Warn().Str("event", string(event.Type())).Msg("event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type, or to every event with
// AllEvents. Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Queued events are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, 0, len(b.handlers[event.Type()])+len(b.handlers[AllEvents]))
			subs = append(subs, b.handlers[event.Type()]...)
			subs = append(subs, b.handlers[AllEvents]...)
			b.mu.RUnlock()

			for _, s := range subs {
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							log.Error().
								Str("event", string(eventType)).
								Interface("panic", r).
								Bytes("stack", debug.Stack()).
								Msg("event handler panic")
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
