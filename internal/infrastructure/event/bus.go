package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nizy/tailor/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish between Stop and the next Start
var ErrBusStopped = errors.New("event bus is stopped")

// InMemoryEventBus hands each published event to its observers on the
// publisher's goroutine, in publish order and then subscription order
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	closed   atomic.Bool
	active   sync.WaitGroup
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{registry: NewHandlerRegistry(), logger: logger}
}

// Publish delivers events to every interested handler. Handler failures and
// panics are logged; the remaining handlers still run and Publish succeeds.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.closed.Load() {
		return ErrBusStopped
	}
	b.active.Add(1)
	defer b.active.Done()

	for _, ev := range events {
		b.deliver(ctx, ev)
	}
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, ev shared.DomainEvent) {
	for _, h := range b.registry.GetHandlers(ev.EventType()) {
		if err := safeHandle(ctx, h, ev); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", ev.EventType()),
				zap.Stringer("event_id", ev.EventID()),
				zap.Error(err))
		}
	}
}

func safeHandle(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

// Subscribe adds handler for eventTypes, falling back to the types the
// handler declares
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start reopens a stopped bus
func (b *InMemoryEventBus) Start(context.Context) error {
	b.closed.Store(false)
	b.logger.Info("event bus started")
	return nil
}

// Stop refuses new events, then waits for running deliveries or ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.closed.Store(true)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		b.active.Wait()
	}()

	select {
	case <-drained:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
