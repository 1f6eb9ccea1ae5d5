package core

import (
	"time"

	"github.com/google/uuid"
)

// Known event types. The set is closed: the interview aggregate emits exactly
// these five kinds and projections subscribe to subsets of them.
const (
	EventInterviewStarted   = "InterviewStarted"
	EventQuestionAsked      = "QuestionAsked"
	EventAnswerSubmitted    = "AnswerSubmitted"
	EventResponseScored     = "ResponseScored"
	EventInterviewCompleted = "InterviewCompleted"
)

// Event is an immutable fact about one interview session. After a successful
// append it must be treated as read-only; it is never mutated or deleted.
//
// SequenceNumber is the per-session total-order key: for a fixed SessionID the
// log guarantees a strictly increasing, gap-free sequence starting at 1.
// Every downstream consistency guarantee (projection idempotence, replay,
// strategy rebuild) is built on that single invariant.
//
// EventData carries the type-specific payload and EventMetadata carries
// correlation details (actor, invocation id, model info). Both are open maps
// at the storage boundary; use the typed field accessors below instead of
// probing them by hand.
type Event struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id"`
	EventType      string         `json:"event_type"`
	EventData      map[string]any `json:"event_data"`
	EventMetadata  map[string]any `json:"event_metadata"`
	SequenceNumber int64          `json:"sequence_number"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

// NewEvent creates an unsequenced event for the given session. The event log
// assigns SequenceNumber on append; a zero value means "not yet appended".
func NewEvent(sessionID, eventType string, data, metadata map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Event{
		ID:            NewID(),
		SessionID:     sessionID,
		EventType:     eventType,
		EventData:     data,
		EventMetadata: metadata,
		OccurredAt:    time.Now().UTC(),
	}
}

// NewID generates a unique identifier for events and sessions.
func NewID() string { return uuid.NewString() }

// Clone returns a deep copy of the event so callers can hand events across
// goroutine boundaries without sharing the payload maps.
func (e Event) Clone() Event {
	c := e
	c.EventData = cloneMap(e.EventData)
	c.EventMetadata = cloneMap(e.EventMetadata)
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// StringField returns the named payload field as a string, with ok=false when
// the field is absent or not a string.
func (e Event) StringField(name string) (string, bool) {
	v, ok := e.EventData[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntField returns the named payload field as an int. JSON round-trips store
// numbers as float64, so both int and float64 representations are accepted.
func (e Event) IntField(name string) (int, bool) {
	v, ok := e.EventData[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// FloatField returns the named payload field as a float64, accepting any
// numeric representation a decode path may have produced.
func (e Event) FloatField(name string) (float64, bool) {
	v, ok := e.EventData[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ScoreField returns one named score from the nested "scores" object of a
// ResponseScored payload (e.g. ScoreField("overall")).
func (e Event) ScoreField(name string) (float64, bool) {
	v, ok := e.EventData["scores"]
	if !ok {
		return 0, false
	}
	scores, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	s, ok := scores[name]
	if !ok {
		return 0, false
	}
	switch n := s.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
