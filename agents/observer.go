package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Observer detects cross-answer patterns and contradictions in the
// conversation history. It needs no task metadata; the history itself is the
// input.
type Observer struct {
	baseAgent
}

// NewObserver creates an Observer backed by the given boundary.
func NewObserver(boundary *intelligence.Boundary) *Observer {
	return &Observer{baseAgent: newBaseAgent("Observer", boundary)}
}

// Process implements core.Agent.
func (a *Observer) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	prompt := fmt.Sprintf(
		"Review the interview conversation for recurring patterns, inconsistencies and "+
			"contradictions between answers.\n"+
			"%s"+
			"%s\n"+
			`action_data must contain {"patterns": [...], "contradictions": [...]}.`,
		historySection(c.History),
		envelope("report_patterns"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
