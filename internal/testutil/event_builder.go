package testutil

import (
	"time"

	"github.com/hupe1980/interviewmesh/core"
)

// EventBuilder provides a fluent helper for constructing interview events in
// tests. Example:
//
//	ev := NewEventBuilder("sess-1").QuestionAsked(1, "What is a goroutine?", "concurrency").Seq(2).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type EventBuilder struct {
	sessionID string
	eventType string
	data      map[string]any
	metadata  map[string]any
	seq       int64
	occurred  time.Time
}

// NewEventBuilder starts a builder for the given session.
func NewEventBuilder(sessionID string) *EventBuilder {
	return &EventBuilder{
		sessionID: sessionID,
		data:      map[string]any{},
		metadata:  map[string]any{},
		occurred:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// InterviewStarted fills a minimal valid InterviewStarted payload.
func (b *EventBuilder) InterviewStarted(candidate, position string) *EventBuilder {
	b.eventType = core.EventInterviewStarted
	b.data["candidate_name"] = candidate
	b.data["position_title"] = position
	b.data["expert_name"] = "Expert"
	b.data["language"] = "en"
	return b
}

// QuestionAsked fills a QuestionAsked payload.
func (b *EventBuilder) QuestionAsked(number int, text, category string) *EventBuilder {
	b.eventType = core.EventQuestionAsked
	b.data["question_number"] = number
	b.data["question_text"] = text
	b.data["question_category"] = category
	return b
}

// AnswerSubmitted fills an AnswerSubmitted payload.
func (b *EventBuilder) AnswerSubmitted(text string) *EventBuilder {
	b.eventType = core.EventAnswerSubmitted
	b.data["answer_text"] = text
	return b
}

// ResponseScored fills a ResponseScored payload with the given scores.
func (b *EventBuilder) ResponseScored(number int, answer string, completeness, depth, overall float64) *EventBuilder {
	b.eventType = core.EventResponseScored
	b.data["question_number"] = number
	b.data["answer_text"] = answer
	b.data["scores"] = map[string]any{
		"completeness": completeness,
		"depth":        depth,
		"overall":      overall,
	}
	b.data["llm_reasoning"] = "test reasoning"
	return b
}

// InterviewCompleted fills an InterviewCompleted payload.
func (b *EventBuilder) InterviewCompleted(recommendation string) *EventBuilder {
	b.eventType = core.EventInterviewCompleted
	b.data["recommendation"] = recommendation
	return b
}

// Type overrides the event type without touching the payload.
func (b *EventBuilder) Type(eventType string) *EventBuilder {
	b.eventType = eventType
	return b
}

// Data sets one payload field.
func (b *EventBuilder) Data(key string, value any) *EventBuilder {
	b.data[key] = value
	return b
}

// DropData removes one payload field, for malformed-event scenarios.
func (b *EventBuilder) DropData(key string) *EventBuilder {
	delete(b.data, key)
	return b
}

// Meta sets one metadata field.
func (b *EventBuilder) Meta(key string, value any) *EventBuilder {
	b.metadata[key] = value
	return b
}

// Seq sets the sequence number.
func (b *EventBuilder) Seq(seq int64) *EventBuilder {
	b.seq = seq
	return b
}

// At sets the occurrence timestamp.
func (b *EventBuilder) At(t time.Time) *EventBuilder {
	b.occurred = t
	return b
}

// Build materializes the event.
func (b *EventBuilder) Build() core.Event {
	ev := core.NewEvent(b.sessionID, b.eventType, b.data, b.metadata)
	ev.SequenceNumber = b.seq
	ev.OccurredAt = b.occurred
	return ev
}
