package realtime

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tontine-app/tontine/internal/metrics"
)

// Publisher is the write side of the broker used by the services.
type Publisher interface {
	Publish(ev Event) int
}

// Subscriber is one connection's handle on the broker. Its queue preserves
// publish order for that connection.
type Subscriber struct {
	id     uint64
	events chan Event
}

// Events is closed when the subscriber is removed from the broker.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// ID identifies the subscriber in logs.
func (s *Subscriber) ID() uint64 {
	return s.id
}

// Broker maps topics to subscriber sets.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscriber]struct{}
	subs   map[*Subscriber]map[string]struct{}

	nextID  atomic.Uint64
	buffer  int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ Publisher = (*Broker)(nil)

// NewBroker creates a broker whose subscribers queue up to buffer events.
func NewBroker(buffer int, m *metrics.Metrics, logger *slog.Logger) *Broker {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		topics:  make(map[string]map[*Subscriber]struct{}),
		subs:    make(map[*Subscriber]map[string]struct{}),
		buffer:  buffer,
		metrics: m,
		logger:  logger,
	}
}

// NewSubscriber registers a subscriber with no topics.
func (b *Broker) NewSubscriber() *Subscriber {
	sub := &Subscriber{
		id:     b.nextID.Add(1),
		events: make(chan Event, b.buffer),
	}
	b.mu.Lock()
	b.subs[sub] = make(map[string]struct{})
	b.mu.Unlock()
	return sub
}

// Subscribe adds sub to topic. Subscribing twice is a no-op.
// It returns false if sub has already been removed.
func (b *Broker) Subscribe(topic string, sub *Subscriber) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	joined, ok := b.subs[sub]
	if !ok {
		return false
	}
	set, ok := b.topics[topic]
	if !ok {
		set = make(map[*Subscriber]struct{})
		b.topics[topic] = set
	}
	set[sub] = struct{}{}
	joined[topic] = struct{}{}
	return true
}

// Unsubscribe removes sub from topic.
func (b *Broker) Unsubscribe(topic string, sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribeLocked(topic, sub)
}

func (b *Broker) unsubscribeLocked(topic string, sub *Subscriber) {
	if set, ok := b.topics[topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.topics, topic)
		}
	}
	if joined, ok := b.subs[sub]; ok {
		delete(joined, topic)
	}
}

// Remove unsubscribes sub from every topic and closes its queue.
func (b *Broker) Remove(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	joined, ok := b.subs[sub]
	if !ok {
		return
	}
	for topic := range joined {
		b.unsubscribeLocked(topic, sub)
	}
	delete(b.subs, sub)
	// Publishers hold the read lock while sending, so none can reach sub now.
	close(sub.events)
}

// Publish delivers ev to every subscriber of its topic without blocking.
// A full queue drops the event for that subscriber. It returns the number
// of subscribers that received the event.
func (b *Broker) Publish(ev Event) int {
	topic := ev.Topic()

	b.mu.RLock()
	defer b.mu.RUnlock()

	b.metrics.EventPublished(string(ev.Type))

	delivered := 0
	for sub := range b.topics[topic] {
		select {
		case sub.events <- ev:
			delivered++
		default:
			b.metrics.EventDropped()
			b.logger.Warn("Realtime queue full, dropping event",
				"subscriber", sub.id, "topic", topic, "type", ev.Type)
		}
	}
	return delivered
}

// deliver queues a control reply for a single subscriber.
func (b *Broker) deliver(sub *Subscriber, ev Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.subs[sub]; !ok {
		return false
	}
	select {
	case sub.events <- ev:
		return true
	default:
		b.metrics.EventDropped()
		return false
	}
}

// SubscriberCount returns how many subscribers topic has.
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Topics returns the topics with at least one subscriber, sorted.
func (b *Broker) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]string, 0, len(b.topics))
	for topic := range b.topics {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
