package event

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nizy/tailor/internal/domain/shared"
)

// ChangeCodec encodes change events for the relay and decodes them back into
// their concrete type by event type
type ChangeCodec struct {
	factories map[string]func() shared.DomainEvent
}

// NewChangeCodec returns a codec for the customer and order change events
func NewChangeCodec() *ChangeCodec {
	changed := func() shared.DomainEvent { return &shared.CollectionChangedEvent{} }
	return &ChangeCodec{
		factories: map[string]func() shared.DomainEvent{
			shared.EventTypeCustomersChanged: changed,
			shared.EventTypeOrdersChanged:    changed,
		},
	}
}

// Encode marshals an event the codec can decode again
func (c *ChangeCodec) Encode(event shared.DomainEvent) ([]byte, error) {
	if _, ok := c.factories[event.EventType()]; !ok {
		return nil, fmt.Errorf("unknown event type: %s", event.EventType())
	}
	return json.Marshal(event)
}

// Decode unmarshals data into the event registered for eventType. The payload
// must carry the same type as the envelope.
func (c *ChangeCodec) Decode(eventType string, data []byte) (shared.DomainEvent, error) {
	factory, ok := c.factories[eventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.EventType() != eventType {
		return nil, fmt.Errorf("event type mismatch: envelope %s, payload %s", eventType, event.EventType())
	}
	return event, nil
}

// Types returns the event types the codec knows, sorted
func (c *ChangeCodec) Types() []string {
	types := make([]string, 0, len(c.factories))
	for t := range c.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
