package event

import (
	"slices"
	"sync"

	"github.com/nizy/tailor/internal/domain/shared"
)

// subscription is one observer and the event types it wants. No types means
// every event.
type subscription struct {
	handler shared.EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// HandlerRegistry keeps observers in subscription order. Handlers are compared
// by identity, so they must be comparable (pointer types).
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes handler to eventTypes, or to every event when none are
// given. Registering a handler again widens its existing subscription.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.subs {
		if r.subs[i].handler != handler {
			continue
		}
		if len(eventTypes) == 0 || len(r.subs[i].types) == 0 {
			r.subs[i].types = nil
			return
		}
		for _, t := range eventTypes {
			if !slices.Contains(r.subs[i].types, t) {
				r.subs[i].types = append(r.subs[i].types, t)
			}
		}
		return
	}
	r.subs = append(r.subs, subscription{handler: handler, types: slices.Clone(eventTypes)})
}

// Unregister drops handler's subscription
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool {
		return s.handler == handler
	})
}

// GetHandlers returns the handlers subscribed to eventType in subscription order
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.subs))
	for _, s := range r.subs {
		if s.wants(eventType) {
			result = append(result, s.handler)
		}
	}
	return result
}

// Len returns the number of registered handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
