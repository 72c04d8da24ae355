// Package bus is the in-process change notification bus.
//
// The contract is deliberately payload-free: Publish means "something
// in the ledger changed, re-fetch", not "here is the new value".
// Callers that already hold the result of their own mutation must not
// assume the notification carries it.
package bus

import (
	"log/slog"
	"sync"
)

// Listener is invoked synchronously on every publish.
type Listener func()

type subscription struct {
	id int
	fn Listener
}

// Bus fans out change notifications to subscribers in subscription
// order. Safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns a function that removes
// it again. Listeners are called in the order they subscribed.
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the change notification to every current subscriber,
// synchronously and in subscription order. A panicking listener is
// recovered and logged so it cannot block delivery to later listeners.
func (b *Bus) Publish() {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		deliver(sub.fn)
	}
}

func deliver(fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("change listener panicked", "panic", r)
		}
	}()
	fn()
}
