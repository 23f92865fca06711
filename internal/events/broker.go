package events

import (
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
)

// TopicAll receives every event regardless of entity.
const TopicAll = "all"

const subscriberBuffer = 16

// Event is what live subscribers receive.
type Event struct {
	Type     string         `json:"type"`
	Entity   string         `json:"entity"`
	EntityID *uint          `json:"entity_id,omitempty"`
	UserID   *string        `json:"user_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	At       time.Time      `json:"at"`
}

type Broker interface {
	Subscribe(topic string) chan Event
	Unsubscribe(topic string, ch chan Event)
	Publish(topic string, evt Event)
}

// MemoryBroker fans events out to subscribers of this process. Slow
// subscribers miss events instead of blocking publishers.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *MemoryBroker) Subscribe(topic string) chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = map[chan Event]struct{}{}
	}
	b.subs[topic][ch] = struct{}{}
	return ch
}

func (b *MemoryBroker) Unsubscribe(topic string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.subs[topic]
	if _, ok := m[ch]; !ok {
		return
	}
	delete(m, ch)
	if len(m) == 0 {
		delete(b.subs, topic)
	}
	close(ch)
}

func (b *MemoryBroker) Publish(topic string, evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[topic] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// AuditPublisher forwards audit events to a broker, on TopicAll and on the
// event's entity topic.
type AuditPublisher struct {
	broker Broker
	now    func() time.Time
}

func NewAuditPublisher(broker Broker) *AuditPublisher {
	return &AuditPublisher{broker: broker, now: time.Now}
}

func (p *AuditPublisher) PublishAudit(ev audit.Event) {
	evt := Event{
		Type:     ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		UserID:   ev.UserID,
		At:       p.now().UTC(),
	}
	if data, ok := ev.Metadata.(map[string]any); ok {
		evt.Data = data
	}

	p.broker.Publish(TopicAll, evt)
	if topic := strings.TrimSpace(ev.Entity); topic != "" && topic != TopicAll {
		p.broker.Publish(topic, evt)
	}
}
