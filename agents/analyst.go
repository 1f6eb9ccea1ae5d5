package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Analyst produces the end-of-session synthesis: an overall assessment of
// the candidate and a fit score for the position.
type Analyst struct {
	baseAgent
}

// NewAnalyst creates an Analyst backed by the given boundary.
func NewAnalyst(boundary *intelligence.Boundary) *Analyst {
	return &Analyst{baseAgent: newBaseAgent("Analyst", boundary)}
}

// Process implements core.Agent.
func (a *Analyst) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	position, _ := c.MetaString("position_title")
	prompt := fmt.Sprintf(
		"Synthesize the completed interview for the position %q into a final assessment.\n"+
			"%s"+
			"Summarize strengths, weaknesses and an overall fit score (0-100) with a hiring recommendation.\n"+
			"%s\n"+
			`action_data must contain {"fit_score": n, "strengths": [...], "weaknesses": [...], "recommendation": "..."}.`,
		position,
		historySection(c.History),
		envelope("synthesize_assessment"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
