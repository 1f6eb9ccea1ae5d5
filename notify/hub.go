// Package notify provides an in-process implementation of core.Notifier: a
// hub that fans published payloads out to subscriber channels scoped by
// (tenant, audience). Delivery is best-effort by contract: a subscriber
// whose buffer is full misses the message rather than blocking the
// publisher, so nothing in the session flow ever waits on an observer.
package notify

import (
	"context"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
)

// Message is one delivered notification.
type Message struct {
	Tenant   string
	Audience core.Audience
	Payload  map[string]any
}

type subKey struct {
	tenant   string
	audience core.Audience
}

// subscription pairs a delivery channel with a closed flag. send and close
// synchronize on the subscription's own mutex so a publish racing a cancel
// can never hit a just-closed channel.
type subscription struct {
	mu     sync.Mutex
	ch     chan Message
	closed bool
}

// send delivers msg unless the subscription is cancelled or its buffer is
// full. It reports whether the message was delivered.
func (s *subscription) send(msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// close marks the subscription cancelled and closes the channel. Safe to call
// once; send observes the flag under the same mutex.
func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// HubOptions configure a Hub.
type HubOptions struct {
	// BufferSize is the per-subscriber channel capacity.
	BufferSize int
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Hub is an in-process publish/subscribe fan-out implementing core.Notifier.
type Hub struct {
	mu         sync.RWMutex
	subs       map[subKey][]*subscription
	bufferSize int
	logger     logging.Logger
}

// NewHub creates an empty hub.
func NewHub(optFns ...func(o *HubOptions)) *Hub {
	opts := HubOptions{BufferSize: 16, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Hub{subs: make(map[subKey][]*subscription), bufferSize: opts.BufferSize, logger: opts.Logger}
}

// Subscribe registers an observer for one (tenant, audience) scope. The
// returned cancel function removes the subscription and closes the channel;
// it is safe to call concurrently with Publish and more than once.
func (h *Hub) Subscribe(tenant string, audience core.Audience) (<-chan Message, func()) {
	sub := &subscription{ch: make(chan Message, h.bufferSize)}
	key := subKey{tenant: tenant, audience: audience}

	h.mu.Lock()
	h.subs[key] = append(h.subs[key], sub)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		subs := h.subs[key]
		for i, s := range subs {
			if s == sub {
				h.subs[key] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		h.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

// Publish implements core.Notifier. Subscribers with full buffers or a
// concurrent cancel in flight are skipped; the dropped count is only visible
// in debug logs. Publish never blocks and never panics, whatever the
// subscribers do.
func (h *Hub) Publish(ctx context.Context, tenant string, audience core.Audience, payload map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := Message{Tenant: tenant, Audience: audience, Payload: payload}

	h.mu.RLock()
	subs := h.subs[subKey{tenant: tenant, audience: audience}]
	targets := make([]*subscription, len(subs))
	copy(targets, subs)
	h.mu.RUnlock()

	dropped := 0
	for _, sub := range targets {
		if !sub.send(msg) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("notifications dropped", "tenant", tenant, "audience", string(audience), "dropped", dropped)
	}
	return nil
}
