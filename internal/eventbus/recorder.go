package eventbus

import "sync"

// NullBus is a no-op implementation of EventBus
type NullBus struct{}

func (NullBus) Publish(event DomainEvent) {}
func (NullBus) Subscribe(eventType EventType, handler EventHandler) func() {
	return func() {}
}

// Recorder is a synchronous EventBus that keeps every published event.
// Handlers run inline on Publish.
type Recorder struct {
	mu       sync.Mutex
	events   []DomainEvent
	handlers map[EventType][]EventHandler
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{handlers: make(map[EventType][]EventHandler)}
}

func (r *Recorder) Publish(event DomainEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	handlers := append([]EventHandler(nil), r.handlers[event.Type()]...)
	handlers = append(handlers, r.handlers[AllEvents]...)
	r.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func (r *Recorder) Subscribe(eventType EventType, handler EventHandler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
	return func() {}
}

// Events returns a copy of everything published so far
func (r *Recorder) Events() []DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DomainEvent(nil), r.events...)
}

// OfType returns the recorded events of one type, in publish order
func (r *Recorder) OfType(t EventType) []DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []DomainEvent
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
