package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Architect designs the interview trajectory before the session starts:
// topic progression, difficulty curve and question budget.
type Architect struct {
	baseAgent
}

// NewArchitect creates an Architect backed by the given boundary.
func NewArchitect(boundary *intelligence.Boundary) *Architect {
	return &Architect{baseAgent: newBaseAgent("Architect", boundary)}
}

// Process implements core.Agent.
func (a *Architect) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	req, err := trajectoryRequestFrom(c)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Design an interview trajectory for the position %q with %d questions.\n"+
			"Candidate summary: %s\n"+
			"Lay out topic progression and difficulty curve.\n"+
			"%s\n"+
			`action_data must contain {"topics": [...], "difficulty_curve": "...", "question_count": n}.`,
		req.PositionTitle, req.QuestionCount, req.CandidateSummary,
		envelope("design_trajectory"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
