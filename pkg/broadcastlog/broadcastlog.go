// Package broadcastlog implements the replicated log bus: a single
// multi-producer, multi-subscriber totally-ordered stream of transactions.
// Every subscriber observes every published entry, in the same order, with
// no loss and no duplication — the property the whole cluster's
// determinism rests on.
//
// This deliberately differs from a plain pub/sub event broker in one way:
// when a subscriber's buffer is full, Publish blocks rather than dropping
// the entry. A lossy broadcast would let replicas diverge, which this
// core treats as worse than a slow producer.
package broadcastlog

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/calvindb/calvindb/pkg/log"
)

// Entry is one published transaction: a query paired with the uuid that
// identifies it across every replica's log.
type Entry struct {
	UUID  string
	Query string
}

// Subscriber receives every Entry published after it subscribes, in
// publication order.
type Subscriber chan *Entry

const subscriberBuffer = 64

// Bus fans a single ordered stream of entries out to every subscriber.
// The zero value is not usable; construct with New.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
	entryCh     chan *Entry
	stopCh      chan struct{}
	stopOnce    sync.Once
	logger      zerolog.Logger
}

// New returns a ready Bus. Call Start to begin delivering published
// entries.
func New() *Bus {
	return &Bus{
		subscribers: make(map[Subscriber]struct{}),
		entryCh:     make(chan *Entry, subscriberBuffer),
		stopCh:      make(chan struct{}),
		logger:      log.WithComponent("broadcastlog"),
	}
}

// Start begins the bus's delivery loop.
func (b *Bus) Start() {
	go b.run()
}

// Stop shuts the bus down. Subsequent Publish calls panic with
// LogChannelClosed semantics: the bus is not meant to be stopped while
// producers are still live.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

// Subscribe registers a new subscriber that will receive every entry
// published from this point on. The caller must keep draining it;
// Publish blocks the whole bus while any subscriber's buffer is full.
func (b *Bus) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, subscriberBuffer)
	b.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes it. Callers must not read from sub
// after calling this.
func (b *Bus) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub)
}

// Publish enqueues entry for broadcast. It blocks if the bus's internal
// queue is full; it panics if the bus has been stopped, since a producer
// publishing after shutdown is a programming error (LogChannelClosed).
func (b *Bus) Publish(entry *Entry) {
	select {
	case <-b.stopCh:
		panic("broadcastlog: publish on a closed log channel")
	default:
	}
	select {
	case b.entryCh <- entry:
	case <-b.stopCh:
		panic("broadcastlog: publish on a closed log channel")
	}
}

func (b *Bus) run() {
	for {
		select {
		case entry := <-b.entryCh:
			b.broadcast(entry)
		case <-b.stopCh:
			return
		}
	}
}

// broadcast delivers entry to every subscriber, blocking on whichever is
// slowest. This is the one place this package departs from a typical
// fire-and-forget event broker: there is no default branch to skip a full
// subscriber, because dropping an entry here would let that replica's
// schedule diverge from every other replica's.
func (b *Bus) broadcast(entry *Entry) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- entry:
		case <-b.stopCh:
			return
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
