package interview

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/interviewmesh/config"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/dispatch"
	"github.com/hupe1980/interviewmesh/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAgent runs a function under a fixed name, so tests control agent
// behavior without a provider in the loop.
type scriptedAgent struct {
	name string
	fn   func(c *core.Context) (*core.InferenceOutput, error)
}

func (a *scriptedAgent) Name() string { return a.name }

func (a *scriptedAgent) Process(_ context.Context, c *core.Context) (*core.InferenceOutput, error) {
	return a.fn(c)
}

func questionOutput(number int, text string) *core.InferenceOutput {
	return &core.InferenceOutput{
		Thought:    "formulating",
		ActionType: "next_question",
		ActionData: map[string]any{
			"question_number":   number,
			"question_text":     text,
			"question_category": "concurrency",
		},
	}
}

func scoreOutput(completeness, depth, overall float64) *core.InferenceOutput {
	return &core.InferenceOutput{
		Thought:    "weighing the answer",
		ActionType: "score_answer",
		ActionData: map[string]any{
			"scores": map[string]any{
				"completeness": completeness,
				"depth":        depth,
				"overall":      overall,
			},
			"reasoning": "solid but could go deeper",
		},
	}
}

type fixture struct {
	orchestrator *Orchestrator
	store        *eventlog.InMemoryStore
	dispatcher   *dispatch.Dispatcher
}

func newFixture(t *testing.T, agents ...core.Agent) *fixture {
	t.Helper()
	store := eventlog.NewInMemoryStore()
	d := dispatch.NewDispatcher()
	for _, a := range agents {
		d.Register(a)
	}
	return &fixture{
		orchestrator: NewOrchestrator(store, d),
		store:        store,
		dispatcher:   d,
	}
}

func startSession(t *testing.T, f *fixture) string {
	t.Helper()
	sessionID, err := f.orchestrator.StartInterview(context.Background(), StartParams{
		CandidateName: "Ada Lovelace",
		PositionTitle: "Staff Engineer",
		ExpertName:    "Grace",
	})
	require.NoError(t, err)
	return sessionID
}

func TestStartInterview_RequiresCandidateAndPosition(t *testing.T) {
	f := newFixture(t)
	_, err := f.orchestrator.StartInterview(context.Background(), StartParams{CandidateName: "Ada"})
	require.Error(t, err)
	_, err = f.orchestrator.StartInterview(context.Background(), StartParams{PositionTitle: "Engineer"})
	require.Error(t, err)
}

func TestStartInterview_AppendsStartedEvent(t *testing.T) {
	f := newFixture(t)
	sessionID := startSession(t, f)

	events, err := f.store.GetEvents(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.EventInterviewStarted, events[0].EventType)
	assert.Equal(t, int64(1), events[0].SequenceNumber)
	lang, _ := events[0].StringField("language")
	assert.Equal(t, "en", lang, "language defaults when unset")
}

func TestAskQuestion_FirstRoundUsesDefaultStrategy(t *testing.T) {
	var seenStrategy string
	executioner := &scriptedAgent{name: "Executioner", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		seenStrategy, _ = c.MetaString("strategy")
		n, _ := c.MetaInt("question_number")
		return questionOutput(n, "What is a goroutine?"), nil
	}}
	f := newFixture(t, executioner)
	sessionID := startSession(t, f)

	q, err := f.orchestrator.AskQuestion(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, "What is a goroutine?", q.Text)
	assert.Equal(t, core.StrategyClarification, seenStrategy, "opening round runs the default approach")

	events, err := f.store.GetEvents(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, core.EventQuestionAsked, events[1].EventType)
}

func TestAskQuestion_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.orchestrator.AskQuestion(context.Background(), "missing")
	require.Error(t, err)
}

func TestSubmitAnswer_RecordsScoresAndSelectsNextStrategy(t *testing.T) {
	executioner := &scriptedAgent{name: "Executioner", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		n, _ := c.MetaInt("question_number")
		return questionOutput(n, fmt.Sprintf("question %d", n)), nil
	}}
	// Complete enough, shallow: the depth rule must pick depth_focused.
	evaluator := &scriptedAgent{name: "Evaluator", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		return scoreOutput(80, 50, 80), nil
	}}
	f := newFixture(t, executioner, evaluator)
	sessionID := startSession(t, f)

	_, err := f.orchestrator.AskQuestion(context.Background(), sessionID)
	require.NoError(t, err)

	result, err := f.orchestrator.SubmitAnswer(context.Background(), sessionID, "a lightweight thread")
	require.NoError(t, err)
	assert.Equal(t, 1, result.QuestionNumber)
	assert.Equal(t, 50.0, result.Scores.Depth)
	assert.False(t, result.Degraded)
	assert.Equal(t, core.StrategyDepthFocused, result.NextStrategy.Strategy)
	assert.NotEmpty(t, result.NextStrategy.Reason)

	events, err := f.store.GetEvents(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, core.EventAnswerSubmitted, events[2].EventType)
	assert.Equal(t, core.EventResponseScored, events[3].EventType)
	overall, ok := events[3].ScoreField("overall")
	require.True(t, ok)
	assert.Equal(t, 80.0, overall)
}

func TestSubmitAnswer_WithoutOpenQuestion(t *testing.T) {
	f := newFixture(t)
	sessionID := startSession(t, f)
	_, err := f.orchestrator.SubmitAnswer(context.Background(), sessionID, "answer")
	require.Error(t, err)
}

func TestSubmitAnswer_DegradedEvaluatorRecordsNeutralRound(t *testing.T) {
	executioner := &scriptedAgent{name: "Executioner", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		n, _ := c.MetaInt("question_number")
		return questionOutput(n, "q"), nil
	}}
	evaluator := &scriptedAgent{name: "Evaluator", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		return &core.InferenceOutput{
			Thought:    "provider returned prose, falling back",
			ActionType: core.ActionDirectResponse,
			ActionData: map[string]any{"text": "the model rambled"},
		}, nil
	}}
	f := newFixture(t, executioner, evaluator)
	sessionID := startSession(t, f)

	_, err := f.orchestrator.AskQuestion(context.Background(), sessionID)
	require.NoError(t, err)
	result, err := f.orchestrator.SubmitAnswer(context.Background(), sessionID, "answer")
	require.NoError(t, err, "a degraded evaluation is still a recorded round, never an error")

	assert.True(t, result.Degraded)
	assert.Equal(t, 50.0, result.Scores.Overall)
	assert.Equal(t, "provider returned prose, falling back", result.Reasoning)
	// Neutral completeness sits below the threshold: clarify next.
	assert.Equal(t, core.StrategyClarification, result.NextStrategy.Strategy)

	events, err := f.store.GetEvents(context.Background(), sessionID)
	require.NoError(t, err)
	scored := events[len(events)-1]
	assert.Equal(t, true, scored.EventMetadata["degraded"])
}

func TestAskQuestion_SecondRoundCarriesSelectedStrategy(t *testing.T) {
	var strategies []string
	executioner := &scriptedAgent{name: "Executioner", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		s, _ := c.MetaString("strategy")
		strategies = append(strategies, s)
		n, _ := c.MetaInt("question_number")
		return questionOutput(n, fmt.Sprintf("question %d", n)), nil
	}}
	// Excellent on every axis: challenge must follow.
	evaluator := &scriptedAgent{name: "Evaluator", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		return scoreOutput(95, 95, 95), nil
	}}
	f := newFixture(t, executioner, evaluator)
	sessionID := startSession(t, f)

	_, err := f.orchestrator.AskQuestion(context.Background(), sessionID)
	require.NoError(t, err)
	_, err = f.orchestrator.SubmitAnswer(context.Background(), sessionID, "excellent answer")
	require.NoError(t, err)
	q, err := f.orchestrator.AskQuestion(context.Background(), sessionID)
	require.NoError(t, err)

	assert.Equal(t, 2, q.Number)
	require.Len(t, strategies, 2)
	assert.Equal(t, core.StrategyClarification, strategies[0])
	assert.Equal(t, core.StrategyChallenge, strategies[1])
	assert.Equal(t, core.StrategyChallenge, q.Strategy)
}

func TestComplete_RecordsRecommendation(t *testing.T) {
	analyst := &scriptedAgent{name: "Analyst", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		return &core.InferenceOutput{
			Thought:    "synthesizing the session",
			ActionType: "final_assessment",
			ActionData: map[string]any{"recommendation": "hire"},
		}, nil
	}}
	f := newFixture(t, analyst)
	sessionID := startSession(t, f)

	recommendation, err := f.orchestrator.Complete(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "hire", recommendation)

	events, err := f.store.GetEvents(context.Background(), sessionID)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, core.EventInterviewCompleted, last.EventType)
	rec, _ := last.StringField("recommendation")
	assert.Equal(t, "hire", rec)
}

func TestComplete_DegradedAnalystFallsBackToText(t *testing.T) {
	analyst := &scriptedAgent{name: "Analyst", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		return &core.InferenceOutput{
			Thought:    "no structured output obtained",
			ActionType: core.ActionDirectResponse,
			ActionData: map[string]any{"text": "overall a strong showing"},
		}, nil
	}}
	f := newFixture(t, analyst)
	sessionID := startSession(t, f)

	recommendation, err := f.orchestrator.Complete(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "overall a strong showing", recommendation)
}

func TestStrategyContext_RebuildsFromEvents(t *testing.T) {
	executioner := &scriptedAgent{name: "Executioner", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		n, _ := c.MetaInt("question_number")
		return questionOutput(n, fmt.Sprintf("question %d", n)), nil
	}}
	round := 0
	evaluator := &scriptedAgent{name: "Evaluator", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		round++
		if round == 1 {
			return scoreOutput(80, 50, 60), nil
		}
		return scoreOutput(85, 85, 85), nil
	}}
	f := newFixture(t, executioner, evaluator)
	sessionID := startSession(t, f)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := f.orchestrator.AskQuestion(ctx, sessionID)
		require.NoError(t, err)
		_, err = f.orchestrator.SubmitAnswer(ctx, sessionID, "answer")
		require.NoError(t, err)
	}

	sc, err := f.orchestrator.StrategyContext(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, sc.History, 2)
	// Round one: overall 60 against the neutral 50 baseline.
	assert.Equal(t, 10.0, sc.History[0].Performance)
	// Round two: 85 over the previous 60.
	assert.Equal(t, 25.0, sc.History[1].Performance)
	assert.Equal(t, core.StrategyBreadthFocused, sc.Current)

	var weightSum float64
	for _, s := range sc.Available {
		weightSum += s.Weight
	}
	assert.InDelta(t, 1.0, weightSum, 1e-9, "evolved weights stay normalized")

	// Rebuilding twice from the same stream must be deterministic.
	again, err := f.orchestrator.StrategyContext(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sc.Current, again.Current)
	assert.Equal(t, sc.History, again.History)
}

func TestOrchestrator_HonorsConfiguredThresholds(t *testing.T) {
	executioner := &scriptedAgent{name: "Executioner", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		n, _ := c.MetaInt("question_number")
		return questionOutput(n, "q"), nil
	}}
	evaluator := &scriptedAgent{name: "Evaluator", fn: func(c *core.Context) (*core.InferenceOutput, error) {
		return scoreOutput(90, 90, 96), nil
	}}

	store := eventlog.NewInMemoryStore()
	d := dispatch.NewDispatcher()
	d.Register(executioner)
	d.Register(evaluator)

	cfg := config.Default()
	cfg.Strategy.Thresholds.ChallengeHigh = 99
	o := NewOrchestrator(store, d, func(opts *Options) { opts.Config = cfg })

	ctx := context.Background()
	sessionID, err := o.StartInterview(ctx, StartParams{CandidateName: "Ada", PositionTitle: "Engineer"})
	require.NoError(t, err)
	_, err = o.AskQuestion(ctx, sessionID)
	require.NoError(t, err)
	result, err := o.SubmitAnswer(ctx, sessionID, "answer")
	require.NoError(t, err)

	// 96 no longer clears the raised challenge bar.
	assert.Equal(t, core.StrategyBreadthFocused, result.NextStrategy.Strategy)
}
