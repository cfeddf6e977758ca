package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testHandler records every event it receives
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func orderSaved() *shared.CollectionChangedEvent {
	return shared.NewCollectionChangedEvent(shared.CollectionOrders, uuid.New(), shared.ChangeSaved)
}

func customerDeleted() *shared.CollectionChangedEvent {
	return shared.NewCollectionChangedEvent(shared.CollectionCustomers, uuid.New(), shared.ChangeDeleted)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler(shared.EventTypeOrdersChanged)
	bus.Subscribe(handler)

	event := orderSaved()
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Routing(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	orders := newTestHandler(shared.EventTypeOrdersChanged)
	customers := newTestHandler(shared.EventTypeCustomersChanged)
	everything := newTestHandler()
	bus.Subscribe(orders)
	bus.Subscribe(customers)
	bus.Subscribe(everything)

	require.NoError(t, bus.Publish(context.Background(), orderSaved(), customerDeleted(), orderSaved()))

	assert.Len(t, orders.getHandled(), 2)
	assert.Len(t, customers.getHandled(), 1)
	assert.Len(t, everything.getHandled(), 3)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	handler := newTestHandler(shared.EventTypeOrdersChanged)
	bus.Subscribe(handler, shared.EventTypeCustomersChanged)

	require.NoError(t, bus.Publish(context.Background(), orderSaved(), customerDeleted()))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, shared.EventTypeCustomersChanged, handler.getHandled()[0].EventType())
}

func TestInMemoryEventBus_FailingHandlers(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *testHandler)
	}{
		{"error", func(h *testHandler) { h.err = errors.New("handler error") }},
		{"panic", func(h *testHandler) { h.panicMsg = "boom" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())

			failing := newTestHandler(shared.EventTypeOrdersChanged)
			tt.setup(failing)
			healthy := newTestHandler(shared.EventTypeOrdersChanged)
			bus.Subscribe(failing)
			bus.Subscribe(healthy)

			require.NoError(t, bus.Publish(context.Background(), orderSaved()))

			assert.Len(t, failing.getHandled(), 1)
			assert.Len(t, healthy.getHandled(), 1)
		})
	}
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler(shared.EventTypeOrdersChanged)
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), orderSaved())

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), orderSaved())

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler(shared.EventTypeOrdersChanged)
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), orderSaved()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	assert.ErrorIs(t, bus.Publish(context.Background(), orderSaved()), ErrBusStopped)
	assert.Len(t, handler.getHandled(), 1)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), orderSaved()))
	assert.Len(t, handler.getHandled(), 2)
}
