// Package interview contains the orchestrator that drives a session through
// its rounds: it appends domain events through the event log, dispatches the
// evaluator and executioner agents, and feeds evaluation scores into the
// strategy engine so the next question carries the freshly selected
// approach.
//
// All session mutation flows through Append; the orchestrator holds no
// authoritative state of its own. Strategy state in particular is rebuilt
// from the event stream on every read, which makes replay trivially
// consistent with the live path because they are the same code.
package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/interviewmesh/config"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/dispatch"
	"github.com/hupe1980/interviewmesh/logging"
	"github.com/hupe1980/interviewmesh/strategy"
)

// neutralScore is the fallback used when the evaluator's output degrades to
// a direct response: the round is still recorded, with middle-of-scale
// scores and the degraded thought as reasoning.
const neutralScore = 50.0

// Options configure an Orchestrator.
type Options struct {
	// Config supplies strategy thresholds and evolution tuning. Defaults
	// to config.Default().
	Config *config.Config
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator coordinates one tenant's interview sessions. Appends to a
// session are serialized by a per-session lock (single logical writer), so
// sequence assignment in the log is never raced from this process.
type Orchestrator struct {
	log        core.EventLog
	dispatcher *dispatch.Dispatcher
	selector   *strategy.Selector
	cfg        *config.Config
	logger     logging.Logger

	mu      sync.Mutex
	writers map[string]*sync.Mutex
}

// NewOrchestrator wires the event log and agent dispatcher together.
func NewOrchestrator(log core.EventLog, dispatcher *dispatch.Dispatcher, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{Config: config.Default(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		log:        log,
		dispatcher: dispatcher,
		selector:   strategy.NewSelector(opts.Config.Strategy.Thresholds),
		cfg:        opts.Config,
		logger:     opts.Logger,
		writers:    make(map[string]*sync.Mutex),
	}
}

// StartParams describe a new interview session.
type StartParams struct {
	CandidateName string
	PositionTitle string
	ExpertName    string
	Language      string
}

// StartInterview opens a new session and records InterviewStarted. It
// returns the generated session id.
func (o *Orchestrator) StartInterview(ctx context.Context, p StartParams) (string, error) {
	if p.CandidateName == "" || p.PositionTitle == "" {
		return "", fmt.Errorf("start interview: candidate_name and position_title are required")
	}
	if p.Language == "" {
		p.Language = "en"
	}
	sessionID := core.NewID()

	unlock := o.lockSession(sessionID)
	defer unlock()

	_, err := o.log.Append(ctx, core.NewEvent(sessionID, core.EventInterviewStarted, map[string]any{
		"candidate_name": p.CandidateName,
		"position_title": p.PositionTitle,
		"expert_name":    p.ExpertName,
		"language":       p.Language,
	}, nil))
	if err != nil {
		return "", err
	}
	o.logger.Info("interview started", "session_id", sessionID, "position", p.PositionTitle)
	return sessionID, nil
}

// Question is the recorded outcome of AskQuestion.
type Question struct {
	Number   int
	Text     string
	Category string
	Strategy string
}

// AskQuestion dispatches the executioner for the next question, guided by
// the session's current strategy, and records QuestionAsked.
func (o *Orchestrator) AskQuestion(ctx context.Context, sessionID string) (*Question, error) {
	unlock := o.lockSession(sessionID)
	defer unlock()

	events, err := o.log.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("ask question: session %s has no events", sessionID)
	}

	number := countEvents(events, core.EventQuestionAsked) + 1
	sc, lastSelection := o.rebuildStrategy(events)
	position := firstStringField(events, core.EventInterviewStarted, "position_title")

	agentCtx := core.NewContext(sessionID).
		WithMeta("task", "next_question").
		WithMeta("question_number", number).
		WithMeta("strategy", sc.Current).
		WithMeta("strategy_reason", lastSelection.Reason).
		WithMeta("position_title", position).
		WithHistory(historyFromEvents(events))

	out, err := o.dispatcher.Dispatch(ctx, "Executioner", agentCtx)
	if err != nil {
		return nil, err
	}

	q := &Question{Number: number, Strategy: sc.Current}
	if data, ok := out.DataMap(); ok {
		if text, ok := data["question_text"].(string); ok {
			q.Text = text
		}
		if category, ok := data["question_category"].(string); ok {
			q.Category = category
		}
	}
	if q.Text == "" {
		// Degraded output: the raw text is the best question we have.
		if data, ok := out.DataMap(); ok {
			q.Text, _ = data["text"].(string)
		}
	}
	if q.Text == "" {
		return nil, fmt.Errorf("ask question: executioner produced no question text")
	}
	if q.Category == "" {
		q.Category = "general"
	}

	_, err = o.log.Append(ctx, core.NewEvent(sessionID, core.EventQuestionAsked, map[string]any{
		"question_number":   q.Number,
		"question_text":     q.Text,
		"question_category": q.Category,
	}, map[string]any{
		"strategy": sc.Current,
		"thought":  out.Thought,
	}))
	if err != nil {
		return nil, err
	}
	return q, nil
}

// RoundResult is the outcome of one answered question: the recorded scores
// and the strategy selected for the next round.
type RoundResult struct {
	QuestionNumber int
	Scores         strategy.Scores
	Reasoning      string
	NextStrategy   strategy.Selection
	Degraded       bool
}

// SubmitAnswer records the candidate's answer, has the evaluator score it,
// records ResponseScored and advances the strategy engine. The evaluation
// scores drive both the performance read model and the next round's
// approach.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID, answerText string) (*RoundResult, error) {
	unlock := o.lockSession(sessionID)
	defer unlock()

	events, err := o.log.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	question, ok := lastQuestion(events)
	if !ok {
		return nil, fmt.Errorf("submit answer: session %s has no open question", sessionID)
	}

	if _, err := o.log.Append(ctx, core.NewEvent(sessionID, core.EventAnswerSubmitted, map[string]any{
		"answer_text": answerText,
	}, nil)); err != nil {
		return nil, err
	}

	agentCtx := core.NewContext(sessionID).
		WithMeta("task", "score_answer").
		WithMeta("question_number", question.Number).
		WithMeta("question_text", question.Text).
		WithMeta("question_category", question.Category).
		WithMeta("answer_text", answerText)

	out, err := o.dispatcher.Dispatch(ctx, "Evaluator", agentCtx)
	if err != nil {
		return nil, err
	}

	scores, reasoning, degraded := scoresFromOutput(out)

	sc, _ := o.rebuildStrategy(events)
	_, err = o.log.Append(ctx, core.NewEvent(sessionID, core.EventResponseScored, map[string]any{
		"question_number": question.Number,
		"answer_text":     answerText,
		"scores": map[string]any{
			"completeness": scores.Completeness,
			"depth":        scores.Depth,
			"overall":      scores.Overall,
		},
		"llm_reasoning": reasoning,
	}, map[string]any{
		"strategy": sc.Current,
		"degraded": degraded,
	}))
	if err != nil {
		return nil, err
	}

	// Re-read so the freshly appended score participates in selection.
	events, err = o.log.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	_, selection := o.rebuildStrategy(events)

	o.logger.Info("round scored", "session_id", sessionID, "question", question.Number, "overall", scores.Overall, "next_strategy", selection.Strategy)

	return &RoundResult{
		QuestionNumber: question.Number,
		Scores:         scores,
		Reasoning:      reasoning,
		NextStrategy:   selection,
		Degraded:       degraded,
	}, nil
}

// Complete dispatches the analyst for the final synthesis and records
// InterviewCompleted with its recommendation.
func (o *Orchestrator) Complete(ctx context.Context, sessionID string) (string, error) {
	unlock := o.lockSession(sessionID)
	defer unlock()

	events, err := o.log.GetEvents(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "", fmt.Errorf("complete: session %s has no events", sessionID)
	}

	agentCtx := core.NewContext(sessionID).
		WithMeta("position_title", firstStringField(events, core.EventInterviewStarted, "position_title")).
		WithHistory(historyFromEvents(events))

	out, err := o.dispatcher.Dispatch(ctx, "Analyst", agentCtx)
	if err != nil {
		return "", err
	}

	recommendation := ""
	if data, ok := out.DataMap(); ok {
		recommendation, _ = data["recommendation"].(string)
		if recommendation == "" {
			recommendation, _ = data["text"].(string)
		}
	}
	if recommendation == "" {
		recommendation = out.Thought
	}

	if _, err := o.log.Append(ctx, core.NewEvent(sessionID, core.EventInterviewCompleted, map[string]any{
		"recommendation": recommendation,
	}, nil)); err != nil {
		return "", err
	}
	o.logger.Info("interview completed", "session_id", sessionID)
	return recommendation, nil
}

// StrategyContext rebuilds and returns the session's strategy state from its
// event stream.
func (o *Orchestrator) StrategyContext(ctx context.Context, sessionID string) (*core.StrategyContext, error) {
	events, err := o.log.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sc, _ := o.rebuildStrategy(events)
	return sc, nil
}

// rebuildStrategy replays the scored rounds into a fresh strategy context.
// Each round records the overall score's improvement over the previous round
// (the first round measures against the neutral midpoint), re-runs selection
// on the round's scores and evolves the weights once enough history exists.
func (o *Orchestrator) rebuildStrategy(events []core.Event) (*core.StrategyContext, strategy.Selection) {
	sc := core.NewStrategyContext()
	selection := strategy.Selection{Strategy: sc.Current, Reason: "opening round uses the default approach"}

	round := 0
	previousOverall := neutralScore
	for _, ev := range events {
		if ev.EventType != core.EventResponseScored {
			continue
		}
		round++
		scores := scoresFromEvent(ev)

		active := sc.Current
		if s, ok := ev.EventMetadata["strategy"].(string); ok && s != "" {
			active = s
		}
		sc.Record(active, round, scores.Overall-previousOverall)
		previousOverall = scores.Overall

		selection = o.selector.Select(scores)
		sc.Current = selection.Strategy

		if len(sc.History) >= o.cfg.Strategy.MinRoundsForEvolution {
			strategy.EvolveWeights(sc)
		}
	}
	return sc, selection
}

func (o *Orchestrator) lockSession(sessionID string) func() {
	o.mu.Lock()
	w, ok := o.writers[sessionID]
	if !ok {
		w = &sync.Mutex{}
		o.writers[sessionID] = w
	}
	o.mu.Unlock()
	w.Lock()
	return w.Unlock
}

// questionRef is the correlating key of an open question.
type questionRef struct {
	Number   int
	Text     string
	Category string
}

func lastQuestion(events []core.Event) (questionRef, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].EventType != core.EventQuestionAsked {
			continue
		}
		number, _ := events[i].IntField("question_number")
		text, _ := events[i].StringField("question_text")
		category, _ := events[i].StringField("question_category")
		return questionRef{Number: number, Text: text, Category: category}, true
	}
	return questionRef{}, false
}

func countEvents(events []core.Event, eventType string) int {
	n := 0
	for _, ev := range events {
		if ev.EventType == eventType {
			n++
		}
	}
	return n
}

func firstStringField(events []core.Event, eventType, field string) string {
	for _, ev := range events {
		if ev.EventType == eventType {
			v, _ := ev.StringField(field)
			return v
		}
	}
	return ""
}

// historyFromEvents renders questions and answers into conversation turns
// for agent prompts.
func historyFromEvents(events []core.Event) []core.Turn {
	var turns []core.Turn
	for _, ev := range events {
		switch ev.EventType {
		case core.EventQuestionAsked:
			if text, ok := ev.StringField("question_text"); ok {
				turns = append(turns, core.Turn{Role: "assistant", Content: text})
			}
		case core.EventAnswerSubmitted:
			if text, ok := ev.StringField("answer_text"); ok {
				turns = append(turns, core.Turn{Role: "user", Content: text})
			}
		}
	}
	return turns
}

// scoresFromOutput extracts the evaluation scores from the evaluator's
// structured output, degrading to neutral midpoint scores when the output
// came down the fallback path.
func scoresFromOutput(out *core.InferenceOutput) (strategy.Scores, string, bool) {
	neutral := strategy.Scores{Completeness: neutralScore, Depth: neutralScore, Overall: neutralScore}
	data, ok := out.DataMap()
	if !ok || out.IsDegraded() {
		return neutral, out.Thought, true
	}
	raw, ok := data["scores"].(map[string]any)
	if !ok {
		return neutral, out.Thought, true
	}
	scores := strategy.Scores{
		Completeness: floatFrom(raw, "completeness", neutralScore),
		Depth:        floatFrom(raw, "depth", neutralScore),
		Overall:      floatFrom(raw, "overall", neutralScore),
	}
	reasoning, _ := data["reasoning"].(string)
	if strings.TrimSpace(reasoning) == "" {
		reasoning = out.Thought
	}
	return scores, reasoning, false
}

func scoresFromEvent(ev core.Event) strategy.Scores {
	scores := strategy.Scores{Completeness: neutralScore, Depth: neutralScore, Overall: neutralScore}
	if v, ok := ev.ScoreField("completeness"); ok {
		scores.Completeness = v
	}
	if v, ok := ev.ScoreField("depth"); ok {
		scores.Depth = v
	}
	if v, ok := ev.ScoreField("overall"); ok {
		scores.Overall = v
	}
	return scores
}

func floatFrom(m map[string]any, key string, def float64) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}
