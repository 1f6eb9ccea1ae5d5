package projection

import (
	"context"
	"sort"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
)

// QARow is one question/answer pair of a session, keyed by
// (session_id, question_number). Question fields arrive with QuestionAsked;
// answer, score and reasoning arrive once the response is scored.
type QARow struct {
	SessionID        string   `json:"session_id"`
	QuestionNumber   int      `json:"question_number"`
	QuestionText     string   `json:"question_text"`
	QuestionCategory string   `json:"question_category"`
	AnswerText       string   `json:"answer_text"`
	Score            *float64 `json:"score,omitempty"`
	Reasoning        string   `json:"llm_reasoning"`
}

type qaKey struct {
	sessionID string
	question  int
}

// QAOptions configure the Q&A projection.
type QAOptions struct {
	// Notifier receives best-effort row updates. Defaults to NoOp.
	Notifier core.Notifier
}

// QA maintains one row per asked question. A ResponseScored whose
// question_number has no prior QuestionAsked row is skipped and counted as a
// soft anomaly: the score cannot be attached to a question that was never
// recorded, but the stream keeps flowing.
type QA struct {
	mu        sync.RWMutex
	rows      map[qaKey]*QARow
	anomalies int
	notifier  core.Notifier
}

// NewQA creates an empty Q&A read model.
func NewQA(optFns ...func(o *QAOptions)) *QA {
	opts := QAOptions{Notifier: core.NoOpNotifier{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &QA{rows: make(map[qaKey]*QARow), notifier: opts.Notifier}
}

// Name implements core.Projection.
func (p *QA) Name() string { return "qa" }

// Handle implements core.Projection.
func (p *QA) Handle(event core.Event) error {
	switch event.EventType {
	case core.EventQuestionAsked:
		return p.handleQuestionAsked(event)
	case core.EventResponseScored:
		return p.handleResponseScored(event)
	default:
		return nil
	}
}

func (p *QA) handleQuestionAsked(event core.Event) error {
	number, ok := event.IntField("question_number")
	if !ok {
		p.countAnomaly()
		return nil
	}
	text, _ := event.StringField("question_text")
	category, _ := event.StringField("question_category")

	p.mu.Lock()
	defer p.mu.Unlock()
	key := qaKey{sessionID: event.SessionID, question: number}
	row, ok := p.rows[key]
	if !ok {
		row = &QARow{SessionID: event.SessionID, QuestionNumber: number}
		p.rows[key] = row
	}
	row.QuestionText = text
	row.QuestionCategory = category
	p.publishLocked(row)
	return nil
}

func (p *QA) handleResponseScored(event core.Event) error {
	number, ok := event.IntField("question_number")
	if !ok {
		p.countAnomaly()
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	key := qaKey{sessionID: event.SessionID, question: number}
	row, ok := p.rows[key]
	if !ok {
		// Score arrived for a question this model never saw: skip, don't raise.
		p.anomalies++
		return nil
	}
	row.AnswerText, _ = event.StringField("answer_text")
	if overall, ok := event.ScoreField("overall"); ok {
		score := overall
		row.Score = &score
	}
	row.Reasoning, _ = event.StringField("llm_reasoning")
	p.publishLocked(row)
	return nil
}

func (p *QA) countAnomaly() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anomalies++
}

func (p *QA) publishLocked(row *QARow) {
	payload := map[string]any{
		"view":            p.Name(),
		"question_number": row.QuestionNumber,
	}
	if row.Score != nil {
		payload["score"] = *row.Score
	}
	_ = p.notifier.Publish(context.Background(), row.SessionID, core.AudienceAdmin, payload)
}

// Get returns a copy of one row, ok=false when the (session, question) pair
// is unknown.
func (p *QA) Get(sessionID string, questionNumber int) (QARow, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	row, ok := p.rows[qaKey{sessionID: sessionID, question: questionNumber}]
	if !ok {
		return QARow{}, false
	}
	return p.copyRow(row), true
}

// Rows returns all rows of a session ordered by question number.
func (p *QA) Rows(sessionID string) []QARow {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var rows []QARow
	for key, row := range p.rows {
		if key.sessionID == sessionID {
			rows = append(rows, p.copyRow(row))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].QuestionNumber < rows[j].QuestionNumber })
	return rows
}

func (p *QA) copyRow(row *QARow) QARow {
	cp := *row
	if row.Score != nil {
		score := *row.Score
		cp.Score = &score
	}
	return cp
}

// Anomalies reports how many soft anomalies this projection skipped over.
func (p *QA) Anomalies() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.anomalies
}
