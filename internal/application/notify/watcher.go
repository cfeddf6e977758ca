// Package notify turns collection change events into full collection
// snapshots for live subscribers.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/nizy/tailor/internal/application/partner"
	"github.com/nizy/tailor/internal/application/trade"
	"github.com/nizy/tailor/internal/domain/shared"
	"go.uber.org/zap"
)

// Snapshot is the complete state of one collection after a change. Orders
// carry their recomputed totals.
type Snapshot struct {
	Collection string                     `json:"collection"`
	Version    uint64                     `json:"version"`
	Customers  []partner.CustomerResponse `json:"customers,omitempty"`
	Orders     []trade.OrderResponse      `json:"orders,omitempty"`
	At         time.Time                  `json:"at"`
}

// CustomerLister loads the customer collection, newest first
type CustomerLister interface {
	List(ctx context.Context, filter partner.CustomerListFilter) ([]partner.CustomerResponse, error)
}

// OrderLister loads the order collection, newest first
type OrderLister interface {
	List(ctx context.Context, filter trade.OrderListFilter) ([]trade.OrderResponse, error)
}

// ErrUnknownCollection is returned when watching anything but customers or orders
var ErrUnknownCollection = shared.NewDomainError(shared.CodeInvalidInput, "collection must be customers or orders")

type subscription struct {
	collection string
	ch         chan Snapshot
	// delivered is the newest version handed to ch
	delivered uint64
}

// offer hands snapshot to the subscriber unless it already got a newer one.
// An unread snapshot is replaced. The watcher lock must be held.
func (sub *subscription) offer(snapshot Snapshot) {
	if snapshot.Version <= sub.delivered {
		return
	}
	sub.delivered = snapshot.Version

	select {
	case sub.ch <- snapshot:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- snapshot:
	default:
	}
}

// CollectionWatcher observes the event bus and delivers a fresh snapshot of
// the changed collection to every subscriber of that collection. A slow
// subscriber only ever holds the latest snapshot. Versions are taken before
// a reload starts, so when reloads overlap a subscriber never receives a
// snapshot older than one it already has.
type CollectionWatcher struct {
	customers CustomerLister
	orders    OrderLister
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	subs    map[*subscription]struct{}
	version uint64
}

// NewCollectionWatcher creates a watcher reading through the given services
func NewCollectionWatcher(customers CustomerLister, orders OrderLister, logger *zap.Logger) *CollectionWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionWatcher{
		customers: customers,
		orders:    orders,
		logger:    logger,
		now:       time.Now,
		subs:      make(map[*subscription]struct{}),
	}
}

// EventTypes implements shared.EventHandler
func (w *CollectionWatcher) EventTypes() []string {
	return []string{shared.EventTypeCustomersChanged, shared.EventTypeOrdersChanged}
}

// Handle reloads the changed collection and fans the snapshot out
func (w *CollectionWatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	collection := collectionOf(event)
	if collection == "" || w.subscriberCount(collection) == 0 {
		return nil
	}

	snapshot, err := w.load(ctx, collection)
	if err != nil {
		return err
	}
	w.broadcast(snapshot)
	return nil
}

// Watch subscribes to a collection. The channel first receives the current
// state and then the latest snapshot after each change. The subscription
// ends when ctx is done or the returned stop function is called; the
// channel is then closed.
func (w *CollectionWatcher) Watch(ctx context.Context, collection string) (<-chan Snapshot, func(), error) {
	if collection != shared.CollectionCustomers && collection != shared.CollectionOrders {
		return nil, nil, ErrUnknownCollection
	}

	// registered before the initial load so a change made during it is
	// reloaded for this subscriber
	sub := &subscription{collection: collection, ch: make(chan Snapshot, 1)}
	w.mu.Lock()
	w.subs[sub] = struct{}{}
	w.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, sub)
			close(sub.ch)
			w.mu.Unlock()
		})
	}

	initial, err := w.load(ctx, collection)
	if err != nil {
		stop()
		return nil, nil, err
	}
	w.mu.Lock()
	sub.offer(initial)
	w.mu.Unlock()
	go func() {
		<-ctx.Done()
		stop()
	}()

	w.logger.Debug("collection watch started", zap.String("collection", collection))
	return sub.ch, stop, nil
}

// Subscribers returns the number of open subscriptions
func (w *CollectionWatcher) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

func (w *CollectionWatcher) subscriberCount(collection string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for sub := range w.subs {
		if sub.collection == collection {
			n++
		}
	}
	return n
}

func (w *CollectionWatcher) load(ctx context.Context, collection string) (Snapshot, error) {
	w.mu.Lock()
	w.version++
	snapshot := Snapshot{Collection: collection, Version: w.version, At: w.now()}
	w.mu.Unlock()

	switch collection {
	case shared.CollectionCustomers:
		customers, err := w.customers.List(ctx, partner.CustomerListFilter{})
		if err != nil {
			w.logger.Error("failed to reload customers", zap.Error(err))
			return Snapshot{}, err
		}
		snapshot.Customers = customers
	default:
		orders, err := w.orders.List(ctx, trade.OrderListFilter{})
		if err != nil {
			w.logger.Error("failed to reload orders", zap.Error(err))
			return Snapshot{}, err
		}
		snapshot.Orders = orders
	}
	return snapshot, nil
}

func (w *CollectionWatcher) broadcast(snapshot Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for sub := range w.subs {
		if sub.collection == snapshot.Collection {
			sub.offer(snapshot)
		}
	}
}

func collectionOf(event shared.DomainEvent) string {
	if changed, ok := event.(*shared.CollectionChangedEvent); ok && changed.Collection != "" {
		return changed.Collection
	}
	switch event.EventType() {
	case shared.EventTypeCustomersChanged:
		return shared.CollectionCustomers
	case shared.EventTypeOrdersChanged:
		return shared.CollectionOrders
	}
	return ""
}

var _ shared.EventHandler = (*CollectionWatcher)(nil)
