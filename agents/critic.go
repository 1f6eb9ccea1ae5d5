package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Critic audits another agent's output for quality and bias before it is
// acted on.
type Critic struct {
	baseAgent
}

// NewCritic creates a Critic backed by the given boundary.
func NewCritic(boundary *intelligence.Boundary) *Critic {
	return &Critic{baseAgent: newBaseAgent("Critic", boundary)}
}

// Process implements core.Agent.
func (a *Critic) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	req, err := critiqueRequestFrom(c)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Audit the following output of agent %q for quality problems and bias "+
			"(leading questions, cultural assumptions, scoring drift):\n%s\n"+
			"%s\n"+
			`action_data must contain {"verdict": "pass"|"revise", "issues": [...]}.`,
		req.TargetAgent, req.TargetOutput,
		envelope("audit_output"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
