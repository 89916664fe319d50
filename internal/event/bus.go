package event

import "sync"

type Handler func(payload any)

// Bus is an in-process publish/subscribe registry. Delivery is synchronous:
// every handler runs to completion before Publish returns.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish delivers payload to every handler subscribed to topic.
// Handler order is unspecified; handlers must tolerate re-ordering.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	hs := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}
