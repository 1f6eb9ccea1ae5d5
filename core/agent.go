package core

import "context"

// Agent is the single capability every reasoning worker implements. Concrete
// roles (evaluator, executioner, observer, …) differ only in how they build
// their task-specific prompt from the context and which action type they
// request back; callers select behavior by dispatching to a name, never by
// inspecting the implementation.
//
// Implementations must:
//   - respect ctx cancellation and deadlines,
//   - never return an error for bad model output (that case is absorbed at
//     the intelligence boundary and surfaces as a degraded InferenceOutput),
//   - return an error only for contract violations such as missing required
//     task metadata.
type Agent interface {
	// Name is the stable identifier the dispatcher registers the agent under.
	Name() string

	// Process runs one inference round against the given context.
	Process(ctx context.Context, c *Context) (*InferenceOutput, error)
}

// EventLog is the append-only, per-session ordered record of facts and the
// only component permitted to assign sequence numbers.
type EventLog interface {
	// Append assigns the next sequence number for the event's session,
	// persists the record and fans it out to registered projections. On
	// persistence failure it returns an error and performs no projection
	// dispatch: the event never existed.
	Append(ctx context.Context, event Event) (Event, error)

	// GetEvents returns the session's events in ascending sequence order.
	// It is a pure read, safe to call repeatedly. An error return must be
	// distinguished from an empty log.
	GetEvents(ctx context.Context, sessionID string) ([]Event, error)
}

// Projection derives one materialized read model from the event stream.
//
// Handle must be idempotent: events may be replayed, so handlers upsert by
// natural key rather than increment in place. A missing correlating key
// (e.g. a score for a question that was never recorded) is a soft anomaly to
// be skipped and counted, not an error.
type Projection interface {
	// Name identifies the read model in logs and anomaly reports.
	Name() string

	// Handle applies one event to the read model.
	Handle(event Event) error
}

// Audience scopes a live notification to a class of observers.
type Audience string

const (
	// AudienceAdmin targets interviewer/monitoring observers.
	AudienceAdmin Audience = "admin"
	// AudienceCandidate targets the interviewee-facing surface.
	AudienceCandidate Audience = "candidate"
)

// Notifier pushes state changes to live observers. Delivery is best-effort:
// implementations may drop messages under pressure and callers must not
// depend on it for correctness.
type Notifier interface {
	Publish(ctx context.Context, tenant string, audience Audience, payload map[string]any) error
}

// NoOpNotifier discards all notifications. It is the default wherever a
// Notifier is optional.
type NoOpNotifier struct{}

// Publish implements Notifier.
func (NoOpNotifier) Publish(context.Context, string, Audience, map[string]any) error { return nil }
