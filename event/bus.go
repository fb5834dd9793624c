// Package event implements the prioritized pub/sub bus every other
// component communicates over. Delivery is synchronous and ordered:
// handlers fire in descending priority, insertion order on ties.
package event

import (
	"fmt"
	"sort"
	"sync"

	"translink/core"
)

// Handler receives the payload published with an event.
type Handler func(payload any)

// SubscribeOptions tune a single subscription.
type SubscribeOptions struct {
	// Once removes the subscription after its first successful delivery.
	Once bool
	// Priority orders delivery; higher fires first. Default 0.
	Priority int
}

// Subscription is the token returned by Subscribe, used to unsubscribe.
type Subscription struct {
	topic    string
	handler  Handler
	once     bool
	priority int
	seq      uint64
}

// Bus is a topic-keyed pub/sub dispatcher. It is safe for concurrent use,
// though the showcase runs it on the single main goroutine; asset-loader
// goroutines never publish directly.
type Bus struct {
	mu      sync.Mutex
	topics  map[string][]*Subscription
	seq     uint64
	softCap int
}

// DefaultSoftCap is the per-topic subscription count above which the bus
// logs a leak warning. Subscriptions are never rejected.
const DefaultSoftCap = 10

func NewBus() *Bus {
	return &Bus{
		topics:  make(map[string][]*Subscription),
		softCap: DefaultSoftCap,
	}
}

// Subscribe registers handler for topic and returns its token.
func (b *Bus) Subscribe(topic string, handler Handler, opts ...SubscribeOptions) *Subscription {
	if handler == nil {
		return nil
	}
	var o SubscribeOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	sub := &Subscription{
		topic:    topic,
		handler:  handler,
		once:     o.Once,
		priority: o.Priority,
		seq:      b.seq,
	}
	subs := append(b.topics[topic], sub)
	// Stable by construction: priority descending, then registration order.
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].priority != subs[j].priority {
			return subs[i].priority > subs[j].priority
		}
		return subs[i].seq < subs[j].seq
	})
	b.topics[topic] = subs

	if len(subs) > b.softCap {
		core.Logger().Warn("event: topic over subscription soft cap",
			"topic", topic, "count", len(subs), "cap", b.softCap)
	}
	return sub
}

// Unsubscribe removes a subscription. Unknown or nil tokens are ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remove(sub)
}

func (b *Bus) remove(sub *Subscription) {
	subs := b.topics[sub.topic]
	for i, s := range subs {
		if s == sub {
			b.topics[sub.topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every subscriber of topic, in priority order,
// and reports whether at least one handler received it. A panicking handler
// is recovered and logged; the remaining handlers still run.
func (b *Bus) Publish(topic string, payload any) bool {
	b.mu.Lock()
	subs := make([]*Subscription, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	delivered := false
	for _, sub := range subs {
		if b.deliver(sub, payload) {
			delivered = true
			if sub.once {
				b.mu.Lock()
				b.remove(sub)
				b.mu.Unlock()
			}
		}
	}
	return delivered
}

// deliver runs one handler, converting a panic into a logged error so a
// broken subscriber cannot take down the frame loop.
func (b *Bus) deliver(sub *Subscription, payload any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			core.Logger().Error("event: handler panicked",
				"topic", sub.topic, "error", fmt.Sprint(r))
		}
	}()
	sub.handler(payload)
	return true
}

// SubscriberCount reports the live subscription count for a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}
