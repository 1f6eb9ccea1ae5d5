package projection

import (
	"context"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
)

// PerformanceRow is the running evaluation aggregate of one session. Scores
// are kept per question number so re-applying a ResponseScored event re-sets
// the same entry instead of double counting it.
type PerformanceRow struct {
	SessionID      string          `json:"session_id"`
	Scores         map[int]float64 `json:"scores"`
	AverageScore   float64         `json:"average_score"`
	ScoredAnswers  int             `json:"scored_answers"`
	Recommendation string          `json:"recommendation"`
	Completed      bool            `json:"completed"`
}

// PerformanceOptions configure the performance projection.
type PerformanceOptions struct {
	// Notifier receives best-effort aggregate updates. Defaults to NoOp.
	Notifier core.Notifier
}

// Performance derives the running aggregate score and, once the interview
// completes, the final recommendation.
type Performance struct {
	mu        sync.RWMutex
	rows      map[string]*PerformanceRow
	anomalies int
	notifier  core.Notifier
}

// NewPerformance creates an empty performance read model.
func NewPerformance(optFns ...func(o *PerformanceOptions)) *Performance {
	opts := PerformanceOptions{Notifier: core.NoOpNotifier{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Performance{rows: make(map[string]*PerformanceRow), notifier: opts.Notifier}
}

// Name implements core.Projection.
func (p *Performance) Name() string { return "performance" }

// Handle implements core.Projection.
func (p *Performance) Handle(event core.Event) error {
	switch event.EventType {
	case core.EventResponseScored, core.EventInterviewCompleted:
	default:
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.rows[event.SessionID]
	if !ok {
		row = &PerformanceRow{SessionID: event.SessionID, Scores: make(map[int]float64)}
		p.rows[event.SessionID] = row
	}

	switch event.EventType {
	case core.EventResponseScored:
		number, ok := event.IntField("question_number")
		if !ok {
			p.anomalies++
			return nil
		}
		overall, ok := event.ScoreField("overall")
		if !ok {
			p.anomalies++
			return nil
		}
		row.Scores[number] = overall
		row.recompute()
	case core.EventInterviewCompleted:
		row.Recommendation, _ = event.StringField("recommendation")
		row.Completed = true
	}

	_ = p.notifier.Publish(context.Background(), row.SessionID, core.AudienceAdmin, map[string]any{
		"view":           p.Name(),
		"average_score":  row.AverageScore,
		"scored_answers": row.ScoredAnswers,
		"completed":      row.Completed,
	})
	return nil
}

// recompute rebuilds the derived aggregate fields from the per-question map.
func (r *PerformanceRow) recompute() {
	r.ScoredAnswers = len(r.Scores)
	if r.ScoredAnswers == 0 {
		r.AverageScore = 0
		return
	}
	var sum float64
	for _, s := range r.Scores {
		sum += s
	}
	r.AverageScore = sum / float64(r.ScoredAnswers)
}

// Get returns a copy of the session's aggregate row.
func (p *Performance) Get(sessionID string) (PerformanceRow, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	row, ok := p.rows[sessionID]
	if !ok {
		return PerformanceRow{}, false
	}
	cp := *row
	cp.Scores = make(map[int]float64, len(row.Scores))
	for k, v := range row.Scores {
		cp.Scores[k] = v
	}
	return cp, true
}

// Anomalies reports how many soft anomalies this projection skipped over.
func (p *Performance) Anomalies() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.anomalies
}
