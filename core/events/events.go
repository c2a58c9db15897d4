package events

// Event is a structured state change surfaced to subscribers.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream consumers such as indexers.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies Emitter while discarding everything, for components
// where event delivery is optional.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}
