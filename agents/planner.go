package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Planner tracks milestones and goals across the session: which topics are
// covered, what remains and whether the question budget still fits.
type Planner struct {
	baseAgent
}

// NewPlanner creates a Planner backed by the given boundary.
func NewPlanner(boundary *intelligence.Boundary) *Planner {
	return &Planner{baseAgent: newBaseAgent("Planner", boundary)}
}

// Process implements core.Agent.
func (a *Planner) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	req, err := planRequestFrom(c)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Track interview progress for the position %q: %d of %d questions completed.\n"+
			"%s"+
			"Assess which goals are met and what the remaining questions should cover.\n"+
			"%s\n"+
			`action_data must contain {"milestones_met": [...], "remaining_goals": [...], "on_track": bool}.`,
		req.PositionTitle, req.CompletedQuestions, req.TotalQuestions,
		historySection(c.History),
		envelope("update_plan"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
