package notify

import (
	"sync"

	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Event describes one state transition. Events are observational: a
// dropped event never affects ledger state.
type Event struct {
	EntityKind string      `json:"entity_kind"`
	ChangeType ChangeType  `json:"change_type"`
	Entity     interface{} `json:"entity"`

	// EntityID lets subscribers filter events about themselves
	// (a member's roster stream excludes the member's own record).
	EntityID uint `json:"-"`
}

const subscriberBuffer = 16

// Broker is an in-process topic publisher. Delivery is at-most-once,
// best-effort: a slow subscriber loses events instead of blocking the
// ledger operation that published them.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan Event
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[string]chan Event)}
}

// Subscribe registers a new subscriber on the topic. The returned cancel
// func removes the subscription and closes the channel; it is safe to
// call more than once.
func (b *Broker) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]chan Event)
	}
	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)
	b.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber of the topic.
// Full subscriber buffers drop the event.
func (b *Broker) Publish(topic string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- ev:
		default:
			// subscriber too slow, drop
		}
	}
}
