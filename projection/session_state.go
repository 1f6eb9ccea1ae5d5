package projection

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/interviewmesh/core"
)

// Lifecycle states of an interview session as derived by the session-state
// read model: started → questioning → evaluating → questioning → … → completed.
const (
	StateStarted     = "started"
	StateQuestioning = "questioning"
	StateEvaluating  = "evaluating"
	StateCompleted   = "completed"
)

// SessionStateRow is the materialized lifecycle view of one session.
type SessionStateRow struct {
	SessionID       string    `json:"session_id"`
	State           string    `json:"state"`
	Phase           string    `json:"phase"`
	CurrentQuestion int       `json:"current_question"`
	CandidateName   string    `json:"candidate_name"`
	PositionTitle   string    `json:"position_title"`
	ExpertName      string    `json:"expert_name"`
	Language        string    `json:"language"`
	Recommendation  string    `json:"recommendation"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionStateOptions configure the session-state projection.
type SessionStateOptions struct {
	// Notifier receives best-effort state change pushes. Defaults to NoOp.
	Notifier core.Notifier
}

// SessionState derives the current lifecycle state, phase and question
// pointer of every session. One row per session, upserted on each handled
// event so replays converge to the same row.
type SessionState struct {
	mu        sync.RWMutex
	rows      map[string]*SessionStateRow
	anomalies int
	notifier  core.Notifier
}

// NewSessionState creates an empty session-state read model.
func NewSessionState(optFns ...func(o *SessionStateOptions)) *SessionState {
	opts := SessionStateOptions{Notifier: core.NoOpNotifier{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SessionState{rows: make(map[string]*SessionStateRow), notifier: opts.Notifier}
}

// Name implements core.Projection.
func (p *SessionState) Name() string { return "session_state" }

// Handle implements core.Projection.
func (p *SessionState) Handle(event core.Event) error {
	switch event.EventType {
	case core.EventInterviewStarted, core.EventQuestionAsked, core.EventAnswerSubmitted,
		core.EventResponseScored, core.EventInterviewCompleted:
	default:
		// Unknown event types are not this projection's concern; they must
		// not leave a row behind either.
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.rows[event.SessionID]
	if !ok {
		row = &SessionStateRow{SessionID: event.SessionID}
		p.rows[event.SessionID] = row
	}

	switch event.EventType {
	case core.EventInterviewStarted:
		row.State = StateStarted
		row.CandidateName, _ = event.StringField("candidate_name")
		row.PositionTitle, _ = event.StringField("position_title")
		row.ExpertName, _ = event.StringField("expert_name")
		row.Language, _ = event.StringField("language")
		row.StartedAt = event.OccurredAt
	case core.EventQuestionAsked:
		row.State = StateQuestioning
		if n, ok := event.IntField("question_number"); ok {
			row.CurrentQuestion = n
		} else {
			p.anomalies++
		}
		if cat, ok := event.StringField("question_category"); ok {
			row.Phase = cat
		}
	case core.EventAnswerSubmitted:
		row.State = StateEvaluating
	case core.EventResponseScored:
		row.State = StateQuestioning
	case core.EventInterviewCompleted:
		row.State = StateCompleted
		row.Recommendation, _ = event.StringField("recommendation")
	}
	row.UpdatedAt = event.OccurredAt

	p.publishLocked(row)
	return nil
}

// publishLocked pushes the updated row to admin observers. Failures are
// ignored: delivery is best-effort and never part of correctness.
func (p *SessionState) publishLocked(row *SessionStateRow) {
	_ = p.notifier.Publish(context.Background(), row.SessionID, core.AudienceAdmin, map[string]any{
		"view":             p.Name(),
		"state":            row.State,
		"current_question": row.CurrentQuestion,
	})
}

// Get returns a copy of the session's row, ok=false when the session is
// unknown to this read model.
func (p *SessionState) Get(sessionID string) (SessionStateRow, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	row, ok := p.rows[sessionID]
	if !ok {
		return SessionStateRow{}, false
	}
	return *row, true
}

// Anomalies reports how many soft anomalies (missing correlating fields) this
// projection skipped over.
func (p *SessionState) Anomalies() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.anomalies
}
