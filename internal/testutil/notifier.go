package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
)

// NotifierMessage is one captured Publish call.
type NotifierMessage struct {
	Tenant   string
	Audience core.Audience
	Payload  map[string]any
}

// RecordingNotifier captures published notifications for assertions.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []NotifierMessage
}

// NewRecordingNotifier creates an empty recorder.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Publish implements core.Notifier.
func (n *RecordingNotifier) Publish(_ context.Context, tenant string, audience core.Audience, payload map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, NotifierMessage{Tenant: tenant, Audience: audience, Payload: payload})
	return nil
}

// Messages returns the captured calls in publish order.
func (n *RecordingNotifier) Messages() []NotifierMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]NotifierMessage, len(n.messages))
	copy(out, n.messages)
	return out
}
