package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRelayChannel is the Pub/Sub channel shared by all server instances
const DefaultRelayChannel = "tailor:changes"

// relayEnvelope is the wire format on the relay channel
type relayEnvelope struct {
	Origin    string          `json:"origin"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

type relayedKey struct{}

// RedisChangeRelay republishes collection change events across server
// instances. Local events go out on a Redis channel; events from other
// instances are published on the local bus, tagged so they are not sent back.
type RedisChangeRelay struct {
	client     *redis.Client
	channel    string
	instanceID string
	publisher  shared.EventPublisher
	codec      *ChangeCodec
	logger     *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisChangeRelayOption is a functional option for configuring the relay
type RedisChangeRelayOption func(*RedisChangeRelay)

// WithRelayChannel sets the Pub/Sub channel name
func WithRelayChannel(channel string) RedisChangeRelayOption {
	return func(r *RedisChangeRelay) {
		if channel != "" {
			r.channel = channel
		}
	}
}

// WithRelayLogger sets the logger for the relay
func WithRelayLogger(logger *zap.Logger) RedisChangeRelayOption {
	return func(r *RedisChangeRelay) {
		r.logger = logger
	}
}

// NewRedisChangeRelay creates a relay on a shared Redis client. Remote
// events are delivered to publisher, normally the local event bus.
func NewRedisChangeRelay(client *redis.Client, publisher shared.EventPublisher, opts ...RedisChangeRelayOption) *RedisChangeRelay {
	r := &RedisChangeRelay{
		client:     client,
		channel:    DefaultRelayChannel,
		instanceID: uuid.New().String(),
		publisher:  publisher,
		codec:      NewChangeCodec(),
		logger:     zap.NewNop(),
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EventTypes implements shared.EventHandler
func (r *RedisChangeRelay) EventTypes() []string {
	return r.codec.Types()
}

// Handle forwards a locally produced change event to the other instances
func (r *RedisChangeRelay) Handle(ctx context.Context, event shared.DomainEvent) error {
	if isRelayed(ctx) {
		return nil
	}

	payload, err := r.codec.Encode(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	data, err := json.Marshal(relayEnvelope{
		Origin:    r.instanceID,
		EventType: event.EventType(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal relay envelope: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	r.logger.Debug("relayed change event",
		zap.String("event_type", event.EventType()),
		zap.String("channel", r.channel))
	return nil
}

// Run listens on the relay channel until ctx is cancelled
func (r *RedisChangeRelay) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return errors.New("relay subscription already running")
	}
	r.isRunning = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.isRunning = false
		r.mu.Unlock()
	}()

	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to relay channel: %w", err)
	}
	r.readyOnce.Do(func() { close(r.ready) })

	r.logger.Info("subscribed to change relay channel",
		zap.String("channel", r.channel),
		zap.String("instance_id", r.instanceID))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("change relay stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				r.logger.Warn("change relay channel closed")
				return nil
			}
			r.deliver(ctx, msg.Payload)
		}
	}
}

// Ready is closed once the relay subscription is confirmed
func (r *RedisChangeRelay) Ready() <-chan struct{} {
	return r.ready
}

func (r *RedisChangeRelay) deliver(ctx context.Context, raw string) {
	var envelope relayEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		r.logger.Error("failed to unmarshal relay envelope", zap.Error(err))
		return
	}
	if envelope.Origin == r.instanceID {
		return
	}

	event, err := r.codec.Decode(envelope.EventType, envelope.Payload)
	if err != nil {
		r.logger.Error("failed to decode relayed event",
			zap.String("event_type", envelope.EventType),
			zap.Error(err))
		return
	}

	if err := r.publisher.Publish(context.WithValue(ctx, relayedKey{}, true), event); err != nil {
		r.logger.Warn("failed to publish relayed event",
			zap.String("event_type", envelope.EventType),
			zap.Error(err))
	}
}

func isRelayed(ctx context.Context) bool {
	relayed, _ := ctx.Value(relayedKey{}).(bool)
	return relayed
}

var _ shared.EventHandler = (*RedisChangeRelay)(nil)
