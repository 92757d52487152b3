// Package event is the in-process notification bus. Services emit typed
// events after state changes; subscribers (the summarizer trigger, the
// WebSocket push handler) react without the services knowing about them.
// Events carry identifiers only; clients fetch data over the HTTP API.
package event

import (
	"sync"

	"github.com/dishaapp/disha/pkg/utils"
)

// Event is implemented by every event type.
type Event interface {
	// EventName returns the stable name for the event type, e.g. "goal.logged".
	EventName() string
}

// UserScoped is implemented by events that belong to one user. The
// WebSocket handler only pushes a user's own events to their connection.
type UserScoped interface {
	EventUserID() string
}

// Listener handles a dispatched event. Listeners run synchronously on the
// emitting goroutine; anything slow must hand off to its own goroutine.
type Listener func(Event)

// Emitter dispatches events to subscribers. One instance is constructed at
// startup and injected into services and handlers.
type Emitter struct {
	mu           sync.RWMutex
	nextID       int
	listeners    map[string]map[int]Listener
	allListeners map[int]Listener
}

func NewEmitter() *Emitter {
	return &Emitter{
		listeners:    make(map[string]map[int]Listener),
		allListeners: make(map[int]Listener),
	}
}

// On subscribes to one event type. Returns an unsubscribe function.
func (e *Emitter) On(eventName string, fn Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	if e.listeners[eventName] == nil {
		e.listeners[eventName] = make(map[int]Listener)
	}
	e.listeners[eventName][id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[eventName], id)
	}
}

// OnAny subscribes to every event. Returns an unsubscribe function.
func (e *Emitter) OnAny(fn Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.allListeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.allListeners, id)
	}
}

// Emit dispatches an event to all matching listeners.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	fns := make([]Listener, 0, len(e.listeners[ev.EventName()])+len(e.allListeners))
	for _, fn := range e.listeners[ev.EventName()] {
		fns = append(fns, fn)
	}
	for _, fn := range e.allListeners {
		fns = append(fns, fn)
	}
	e.mu.RUnlock()

	utils.GetLogger().Debug("emitting event", "event", ev.EventName(), "listeners", len(fns))

	for _, fn := range fns {
		fn(ev)
	}
}
